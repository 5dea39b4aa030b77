package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"socialpulse/pkg/models"
	"socialpulse/pkg/store"
)

var (
	reportPlatform string
	reportLimit    int
)

// reportCmd represents the report command
var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Read back collected metrics",
}

var reportSummaryCmd = &cobra.Command{
	Use:   "summary",
	Short: "Show accounts, posts and run counts per platform",
	RunE:  runReportSummary,
}

var reportTopPostsCmd = &cobra.Command{
	Use:   "top-posts",
	Short: "Show posts ranked by latest view count",
	RunE:  runReportTopPosts,
}

var reportRunsCmd = &cobra.Command{
	Use:   "runs",
	Short: "Show recent collection runs and their outcomes",
	RunE:  runReportRuns,
}

func init() {
	rootCmd.AddCommand(reportCmd)
	reportCmd.AddCommand(reportSummaryCmd)
	reportCmd.AddCommand(reportTopPostsCmd)
	reportCmd.AddCommand(reportRunsCmd)

	reportTopPostsCmd.Flags().StringVar(&reportPlatform, "platform", "", "filter by platform")
	reportTopPostsCmd.Flags().IntVar(&reportLimit, "limit", 10, "number of posts to show")
	reportRunsCmd.Flags().IntVar(&reportLimit, "limit", 5, "number of runs to show")
}

func runReportSummary(cmd *cobra.Command, args []string) error {
	st, err := openStore()
	if err != nil {
		return err
	}

	summary, err := st.Summary(cmd.Context())
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "PLATFORM\tACCOUNTS\tPOSTS")
	for _, platform := range models.AllPlatforms() {
		fmt.Fprintf(w, "%s\t%d\t%d\n",
			platform, summary.AccountsByPlatform[platform], summary.PostsByPlatform[platform])
	}
	w.Flush()

	fmt.Printf("\nCollection runs: %d\n", summary.RunCount)
	if !summary.LastCollectedAt.IsZero() {
		fmt.Printf("Last collected:  %s\n", summary.LastCollectedAt.Format("2006-01-02 15:04:05"))
	}
	return nil
}

func runReportTopPosts(cmd *cobra.Command, args []string) error {
	q := store.PostQuery{
		ByViews: true,
		Limit:   reportLimit,
	}
	if reportPlatform != "" {
		platform, err := models.ParsePlatform(reportPlatform)
		if err != nil {
			return err
		}
		q.Platform = platform
	}

	st, err := openStore()
	if err != nil {
		return err
	}

	posts, err := st.PostsWithLatestMetrics(cmd.Context(), q)
	if err != nil {
		return err
	}
	if len(posts) == 0 {
		fmt.Println("No posts collected yet.")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "PLATFORM\tACCOUNT\tVIEWS\tLIKES\tCOMMENTS\tENGAGEMENT\tURL")
	for _, p := range posts {
		views, likes, comments := 0, 0, 0
		engagement := "n/a"
		if p.Latest != nil {
			views, likes, comments = p.Latest.Views, p.Latest.Likes, p.Latest.Comments
			if rate, ok := p.Latest.EngagementRate(); ok {
				engagement = fmt.Sprintf("%.2f%%", rate*100)
			}
		}
		fmt.Fprintf(w, "%s\t%s\t%d\t%d\t%d\t%s\t%s\n",
			p.Post.Platform, p.Username, views, likes, comments, engagement, p.Post.URL)
	}
	return w.Flush()
}

func runReportRuns(cmd *cobra.Command, args []string) error {
	st, err := openStore()
	if err != nil {
		return err
	}

	runs, err := st.ListRuns(cmd.Context(), reportLimit)
	if err != nil {
		return err
	}
	if len(runs) == 0 {
		fmt.Println("No collection runs yet.")
		return nil
	}

	for _, run := range runs {
		fmt.Printf("Run %s  started %s\n", run.ID, run.StartedAt.Format("2006-01-02 15:04:05"))
		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		for _, e := range run.Entries {
			fmt.Fprintf(w, "  %s\t%s\t%s\t%d posts\t%s\n",
				e.Platform, e.Username, e.Status, e.PostsCollected, e.ErrorMessage)
		}
		w.Flush()
		fmt.Println()
	}
	return nil
}
