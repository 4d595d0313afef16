// protect compares a leveraged inverse ETF against a protective put across
// market-decline scenarios, and exposes the option pricing tools behind it.
package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/joho/godotenv"
	"github.com/shirou/gopsutil/cpu"
	"github.com/spf13/cobra"
	"github.com/xhhuango/json"

	"github.com/bcdannyboy/protect/config"
	"github.com/bcdannyboy/protect/logging"
	"github.com/bcdannyboy/protect/tradier"
)

// Build-time variables (set via -ldflags).
var (
	version = "dev"
	commit  = "unknown"
)

var (
	cfg    *config.Config
	logger *slog.Logger
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:           "protect",
	Short:         "Compare a leveraged inverse ETF with a protective put",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// A missing .env is normal outside development.
		_ = godotenv.Load()

		var err error
		configFile, _ := cmd.Flags().GetString("config")
		if configFile != "" {
			cfg, err = config.LoadFromFile(configFile)
		} else {
			cfg, err = config.Load()
		}
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}

		if level, _ := cmd.Flags().GetString("log-level"); level != "" {
			cfg.Logging.Level = level
		}
		logger = logging.New(cfg.Logging, cmd.ErrOrStderr())
		slog.SetDefault(logger)
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().String("config", "", "config file path (default: ./config/protect.yaml)")
	rootCmd.PersistentFlags().String("log-level", "", "log level override (debug, info, warn, error)")
	rootCmd.PersistentFlags().Bool("json", false, "print results as JSON")

	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(priceCmd)
	rootCmd.AddCommand(ivCmd)
	rootCmd.AddCommand(parityCmd)
	rootCmd.AddCommand(compareCmd)
	rootCmd.AddCommand(chainCmd)
	rootCmd.AddCommand(slackCmd)
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "protect %s (%s)\n", version, commit)
	},
}

// output prints v as JSON when --json is set, otherwise calls text.
func output(cmd *cobra.Command, v any, text func(w io.Writer) error) error {
	if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
		b, err := json.MarshalIndent(v, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal result: %w", err)
		}
		_, err = fmt.Fprintln(cmd.OutOrStdout(), string(b))
		return err
	}
	return text(cmd.OutOrStdout())
}

// defaultParallelism sizes scenario evaluation to the logical CPU count.
func defaultParallelism() int {
	n, err := cpu.Counts(true)
	if err != nil || n < 1 {
		return 1
	}
	return n
}

func newTradierClient() (*tradier.Client, error) {
	if cfg.Tradier.Token == "" {
		return nil, fmt.Errorf("no Tradier token: set PROTECT_TRADIER_TOKEN or TRADIER_KEY")
	}
	return tradier.NewClient(cfg.Tradier.Token,
		tradier.WithBaseURL(cfg.Tradier.BaseURL),
		tradier.WithTimeout(cfg.Tradier.Timeout()),
	), nil
}
