package main

import (
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"socialpulse/pkg/auth"
	"socialpulse/pkg/collector"
	"socialpulse/pkg/fetcher"
	"socialpulse/pkg/ingest"
	"socialpulse/pkg/logger"
	"socialpulse/pkg/models"
)

var (
	collectPlatform string
	collectAccounts []string
	collectLimit    int
)

// collectCmd represents the collect command
var collectCmd = &cobra.Command{
	Use:   "collect",
	Short: "Run a collection pass over the tracked accounts",
	Long: `Collect current profile and post metrics for the tracked accounts.

Platforms are collected concurrently; accounts within a platform are
processed one at a time under the platform's rate limit. Every snapshot is
appended to the metric history, never overwritten. Per-account failures are
recorded in the run log and do not abort the run.`,
	Example: `  # Collect everything
  socialpulse collect

  # One platform only
  socialpulse collect --platform tiktok

  # Specific accounts, 50 posts each
  socialpulse collect --account natgeo --account mkbhd --limit 50`,
	RunE: runCollect,
}

func init() {
	rootCmd.AddCommand(collectCmd)

	collectCmd.Flags().StringVar(&collectPlatform, "platform", "", "collect only this platform")
	collectCmd.Flags().StringArrayVar(&collectAccounts, "account", nil, "collect only these usernames (repeatable)")
	collectCmd.Flags().IntVar(&collectLimit, "limit", collector.DefaultPostLimit, "posts to collect per account")
}

func runCollect(cmd *cobra.Command, args []string) error {
	opts := collector.Options{
		Usernames: collectAccounts,
		PostLimit: collectLimit,
	}
	if collectPlatform != "" {
		platform, err := models.ParsePlatform(collectPlatform)
		if err != nil {
			return err
		}
		opts.Platform = platform
	}

	st, err := openStore()
	if err != nil {
		return err
	}

	keys, err := auth.NewManager()
	if err != nil {
		return err
	}

	log := logger.GetLogger()
	f := fetcher.New(cfg, log)
	adapters := collector.DefaultAdapters(cfg, keys, f, log)
	writer := ingest.New(st, log)

	run, err := collector.New(st, writer, adapters, log).Collect(cmd.Context(), opts)
	if run != nil {
		printRun(run)
	}
	return err
}

func printRun(run *models.CollectionRun) {
	fmt.Printf("Run %s: %d account(s), %s\n",
		run.ID, len(run.Entries), run.FinishedAt.Sub(run.StartedAt).Round(time.Millisecond))

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "PLATFORM\tUSERNAME\tSTATUS\tPOSTS\tERROR")
	for _, e := range run.Entries {
		fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%s\n",
			e.Platform, e.Username, e.Status, e.PostsCollected, e.ErrorMessage)
	}
	w.Flush()
}
