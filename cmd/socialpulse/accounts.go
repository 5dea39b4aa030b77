package main

import (
	"errors"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"socialpulse/pkg/models"
	"socialpulse/pkg/platforms"
	"socialpulse/pkg/store"
)

var accountPlatformFilter string

// accountCmd represents the account command
var accountCmd = &cobra.Command{
	Use:   "account",
	Short: "Manage tracked accounts",
	Long: `Manage the set of accounts metrics are collected for.

An account is identified by its platform and username. Adding an account
only registers it; profile data and posts are filled in by the next
collection run.`,
}

var accountAddCmd = &cobra.Command{
	Use:   "add <platform> <username>",
	Short: "Start tracking an account",
	Example: `  socialpulse account add instagram natgeo
  socialpulse account add youtube @mkbhd
  socialpulse account add twitter elonmusk`,
	Args: cobra.ExactArgs(2),
	RunE: runAccountAdd,
}

var accountRemoveCmd = &cobra.Command{
	Use:   "remove <platform> <username>",
	Short: "Stop tracking an account and delete its data",
	Long: `Stop tracking an account. All of the account's posts and metric
snapshots are deleted with it.`,
	Args: cobra.ExactArgs(2),
	RunE: runAccountRemove,
}

var accountListCmd = &cobra.Command{
	Use:   "list",
	Short: "List tracked accounts",
	RunE:  runAccountList,
}

func init() {
	rootCmd.AddCommand(accountCmd)
	accountCmd.AddCommand(accountAddCmd)
	accountCmd.AddCommand(accountRemoveCmd)
	accountCmd.AddCommand(accountListCmd)

	accountListCmd.Flags().StringVar(&accountPlatformFilter, "platform", "", "filter by platform")
}

func runAccountAdd(cmd *cobra.Command, args []string) error {
	platform, err := models.ParsePlatform(args[0])
	if err != nil {
		return err
	}
	username := platforms.NormalizeUsername(args[1])
	if username == "" {
		return errors.New("username is required")
	}

	st, err := openStore()
	if err != nil {
		return err
	}

	if _, err := st.GetAccount(cmd.Context(), platform, username); err == nil {
		return fmt.Errorf("account %s/%s is already tracked", platform, username)
	} else if !errors.Is(err, store.ErrNotFound) {
		return err
	}

	account := &models.Account{
		Platform: platform,
		Username: username,
	}
	if err := st.CreateAccount(cmd.Context(), account); err != nil {
		return err
	}

	fmt.Printf("Tracking %s/%s (id %d)\n", platform, username, account.ID)
	return nil
}

func runAccountRemove(cmd *cobra.Command, args []string) error {
	platform, err := models.ParsePlatform(args[0])
	if err != nil {
		return err
	}
	username := platforms.NormalizeUsername(args[1])

	st, err := openStore()
	if err != nil {
		return err
	}

	account, err := st.GetAccount(cmd.Context(), platform, username)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return fmt.Errorf("account %s/%s is not tracked", platform, username)
		}
		return err
	}

	if err := st.DeleteAccount(cmd.Context(), account.ID); err != nil {
		return err
	}

	fmt.Printf("Removed %s/%s and all collected data\n", platform, username)
	return nil
}

func runAccountList(cmd *cobra.Command, args []string) error {
	var platform models.Platform
	if accountPlatformFilter != "" {
		p, err := models.ParsePlatform(accountPlatformFilter)
		if err != nil {
			return err
		}
		platform = p
	}

	st, err := openStore()
	if err != nil {
		return err
	}

	accounts, err := st.ListAccounts(cmd.Context(), platform)
	if err != nil {
		return err
	}
	if len(accounts) == 0 {
		fmt.Println("No tracked accounts.")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tPLATFORM\tUSERNAME\tDISPLAY NAME\tFOLLOWERS\tPOSTS")
	for _, a := range accounts {
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%d\t%d\n",
			a.ID, a.Platform, a.Username, a.DisplayName, a.FollowerCount, a.PostCount)
	}
	return w.Flush()
}
