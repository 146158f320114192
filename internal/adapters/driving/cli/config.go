package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/copilot-cli/internal/core/domain"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "View and change settings",
	Long: `View and change the settings stored in ~/.copilot/config.toml.

Settings take effect the next time copilot starts.`,
	RunE: runConfigShow,
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current settings",
	Args:  cobra.NoArgs,
	RunE:  runConfigShow,
}

var configSetCmd = &cobra.Command{
	Use:   "set [key] [value]",
	Short: "Change a setting",
	Long: `Change a setting. Durations use Go syntax (1500ms, 60s, 5m).

Keys:
  backend.url          backend root URL
  backend.timeout      request timeout
  backend.rate_limit   requests per second, 0 disables throttling
  poll.interval        document list refresh interval
  chat.limit           chunks retrieved per question
  claims.stale_after   how long loaded claims are reused, 0 always reloads
  cache.dir            PDF download cache directory`,
	Args: cobra.ExactArgs(2),
	RunE: runConfigSet,
}

var configJSON bool

func init() {
	configShowCmd.Flags().BoolVar(&configJSON, "json", false, "output settings as JSON")

	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configSetCmd)
	rootCmd.AddCommand(configCmd)
}

func runConfigShow(cmd *cobra.Command, _ []string) error {
	if svc == nil || svc.Settings == nil {
		return errNotConfigured("settings")
	}

	settings, err := svc.Settings.Get()
	if err != nil {
		return fmt.Errorf("failed to load settings: %w", err)
	}

	if configJSON {
		data, err := json.MarshalIndent(settings, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to format settings: %w", err)
		}
		cmd.Println(string(data))
		return nil
	}

	for _, row := range settingRows(settings) {
		cmd.Printf("  %-20s %s\n", row[0], row[1])
	}
	if rootOpts.BackendURL != "" {
		cmd.Printf("\n--backend overrides backend.url with %s\n", rootOpts.BackendURL)
	}
	return nil
}

func settingRows(s *domain.AppSettings) [][2]string {
	rate := "unlimited"
	if s.Backend.RateLimit > 0 {
		rate = fmt.Sprintf("%g req/s", s.Backend.RateLimit)
	}
	cacheDir := s.Cache.Dir
	if cacheDir == "" {
		cacheDir = "(user cache directory)"
	}
	return [][2]string{
		{"backend.url", s.Backend.BaseURL},
		{"backend.timeout", s.Backend.Timeout.String()},
		{"backend.rate_limit", rate},
		{"poll.interval", s.Poll.Interval.String()},
		{"chat.limit", fmt.Sprintf("%d", s.Chat.Limit)},
		{"claims.stale_after", s.Claims.StaleAfter.String()},
		{"cache.dir", cacheDir},
	}
}

func runConfigSet(cmd *cobra.Command, args []string) error {
	if svc == nil || svc.Settings == nil {
		return errNotConfigured("settings")
	}

	if err := svc.Settings.Set(args[0], args[1]); err != nil {
		return fmt.Errorf("failed to set %s: %w", args[0], err)
	}
	cmd.Printf("Set %s = %s\n", args[0], args[1])
	return nil
}
