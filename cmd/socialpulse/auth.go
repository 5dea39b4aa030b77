package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"socialpulse/pkg/auth"
	"socialpulse/pkg/models"
)

// authCmd represents the auth command
var authCmd = &cobra.Command{
	Use:   "auth",
	Short: "Manage platform API keys",
	Long: `Manage the API keys used to talk to the platform providers.

Keys are stored using:
  - System keychain (when available)
  - Encrypted file with PBKDF2 key derivation
  - Environment variables (read-only fallback)

One key per platform: INSTAGRAM_API_KEY, TIKTOK_API_KEY, YOUTUBE_API_KEY
and TWITTER_API_KEY when configured via the environment.`,
}

var authSetCmd = &cobra.Command{
	Use:   "set <platform> <api-key>",
	Short: "Store a platform API key securely",
	Example: `  socialpulse auth set instagram 0123abcd...
  socialpulse auth set youtube AIzaSy...`,
	Args: cobra.ExactArgs(2),
	RunE: runAuthSet,
}

var authRemoveCmd = &cobra.Command{
	Use:   "remove <platform>",
	Short: "Remove a stored API key",
	Args:  cobra.ExactArgs(1),
	RunE:  runAuthRemove,
}

var authListCmd = &cobra.Command{
	Use:   "list",
	Short: "Show which platforms have a key configured",
	RunE:  runAuthList,
}

func init() {
	rootCmd.AddCommand(authCmd)
	authCmd.AddCommand(authSetCmd)
	authCmd.AddCommand(authRemoveCmd)
	authCmd.AddCommand(authListCmd)
}

func runAuthSet(cmd *cobra.Command, args []string) error {
	platform, err := models.ParsePlatform(args[0])
	if err != nil {
		return err
	}

	manager, err := auth.NewManager()
	if err != nil {
		return err
	}

	cred := &auth.Credential{
		Platform: string(platform),
		APIKey:   args[1],
	}
	if err := manager.Store(cred); err != nil {
		return err
	}

	fmt.Printf("Stored API key for %s (%s)\n", platform, auth.MaskKey(args[1]))
	return nil
}

func runAuthRemove(cmd *cobra.Command, args []string) error {
	platform, err := models.ParsePlatform(args[0])
	if err != nil {
		return err
	}

	manager, err := auth.NewManager()
	if err != nil {
		return err
	}

	if err := manager.Delete(string(platform)); err != nil {
		return err
	}

	fmt.Printf("Removed API key for %s\n", platform)
	return nil
}

func runAuthList(cmd *cobra.Command, args []string) error {
	manager, err := auth.NewManager()
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "PLATFORM\tKEY")
	for _, platform := range models.AllPlatforms() {
		key, err := manager.APIKey(string(platform))
		if err != nil {
			fmt.Fprintf(w, "%s\t(not configured, set %s)\n", platform, auth.EnvVarFor(string(platform)))
			continue
		}
		fmt.Fprintf(w, "%s\t%s\n", platform, auth.MaskKey(key))
	}
	return w.Flush()
}
