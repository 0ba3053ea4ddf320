package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"tradebot/internal/metrics"
	"tradebot/internal/render"
	"tradebot/internal/server"
	"tradebot/internal/store"
)

// errReported marks failures already written for the user.
var errReported = errors.New("reported")

var (
	configPath string
	jsonOutput bool
	cfg        *store.Config
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	shutdownSystem(context.Background())

	if err != nil {
		if !errors.Is(err, errReported) {
			fmt.Fprintln(os.Stderr, err)
		}
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "tradebot",
	Short: "Political sentiment based sector ETF advisor",
	Long: `tradebot reads current political headlines, scores their sentiment and
suggests one uniform BUY, SELL or HOLD for each tracked sector ETF.

Running tradebot without a subcommand is the same as "tradebot suggest".`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := initializeSystem(); err != nil {
			return err
		}
		var err error
		cfg, err = loadConfig(cmd.Context(), configPath)
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		return nil
	},
	RunE: runSuggest,
}

var suggestCmd = &cobra.Command{
	Use:   "suggest",
	Short: "Fetch headlines once and print trade suggestions",
	RunE:  runSuggest,
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve suggestions over HTTP",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		adv, err := initializeAdvisor(ctx, cfg, metrics.New(prometheus.DefaultRegisterer))
		if err != nil {
			return err
		}
		srv := server.New(adv, server.Options{
			Addr:       cfg.Server.Addr,
			RunTimeout: cfg.Server.RunTimeout,
		})
		return srv.Run(ctx)
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "config.yaml", "config file path (missing file uses built-in defaults)")
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "print the report as JSON")

	rootCmd.AddCommand(suggestCmd)
	rootCmd.AddCommand(serveCmd)
}

func runSuggest(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	adv, err := initializeAdvisor(ctx, cfg, nil)
	if err != nil {
		return err
	}

	report, err := adv.Run(ctx)
	out := cmd.OutOrStdout()
	if err != nil {
		if jsonOutput {
			_ = render.FailureJSON(out, err)
		} else {
			_ = render.Failure(cmd.ErrOrStderr(), err)
		}
		return errReported
	}

	if jsonOutput {
		return render.JSON(out, report)
	}
	return render.Text(out, report)
}
