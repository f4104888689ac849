// Package main provides the CLI entrypoint for heatcal.
package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/Tapin42/heat-training/internal/adapters/email"
	web "github.com/Tapin42/heat-training/internal/adapters/http"
	"github.com/Tapin42/heat-training/internal/adapters/http/perf"
	"github.com/Tapin42/heat-training/internal/adapters/ics"
	"github.com/Tapin42/heat-training/internal/application/projections"
	"github.com/Tapin42/heat-training/internal/config"
	"github.com/Tapin42/heat-training/internal/domain/day"
)

// version is set at build time via -ldflags "-X main.version=..."
var version = "dev"

var (
	serveConfigPath string

	planRace     string
	planProtocol int

	icsRace     string
	icsProtocol int
	icsOut      string
)

func main() {
	rootCmd := newRootCmd()
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "heatcal",
		Short:         "Heat acclimation training calendar",
		SilenceUsage:  true,
		SilenceErrors: false,
	}

	rootCmd.AddCommand(newServeCmd())
	rootCmd.AddCommand(newPlanCmd())
	rootCmd.AddCommand(newICSCmd())

	return rootCmd
}

func newServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the web server",
		Args:  cobra.NoArgs,
		RunE:  runServeCmd,
	}
	cmd.Flags().StringVar(&serveConfigPath, "config", "", "path to a YAML or JSON config file")
	return cmd
}

func runServeCmd(_ *cobra.Command, _ []string) error {
	cfg, err := config.Load(serveConfigPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	// Configure email sender
	var sender email.Sender
	switch cfg.Email.Provider {
	case "resend":
		sender = email.NewResendSender(cfg.Email.APIKey, cfg.Email.From)
		log.Println("Email sender configured (Resend)")
	default:
		sender = email.NewNoopSender()
		if cfg.Env == "production" {
			log.Println("WARNING: email provider is noop — plan emails are DISABLED in production")
		} else {
			log.Println("Email sender configured (noop — set HEAT_EMAIL__PROVIDER=resend for real delivery)")
		}
	}

	// Create HTTP handler with middleware (pass collector for timing + dashboard)
	collector := perf.NewCollector(perf.DefaultRingSize)
	mux := web.NewMux(cfg, sender, collector)

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	log.Printf("heatcal %s starting on %s (env=%s)", version, cfg.Addr, cfg.Env)

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server failed: %w", err)
		}
	case <-ctx.Done():
		stop()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("failed to shut down cleanly: %w", err)
		}
		log.Println("Server stopped")
	}
	return nil
}

func newPlanCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "plan",
		Short: "Print the session dates for a race",
		Args:  cobra.NoArgs,
		RunE:  runPlanCmd,
	}
	cmd.Flags().StringVar(&planRace, "race", "", "race date (YYYY-MM-DD)")
	cmd.Flags().IntVar(&planProtocol, "protocol", 0, "limit to one protocol (1 or 2)")
	_ = cmd.MarkFlagRequired("race")
	return cmd
}

func runPlanCmd(cmd *cobra.Command, _ []string) error {
	race, err := day.Parse(planRace)
	if err != nil {
		return fmt.Errorf("invalid --race value: %w", err)
	}
	if planProtocol < 0 || planProtocol > 2 {
		return fmt.Errorf("--protocol must be 1 or 2")
	}

	result := projections.QueryGetRacePlan(projections.GetRacePlanQuery{Race: race})
	out := cmd.OutOrStdout()

	fmt.Fprintf(out, "Race day: %s\n", result.RaceLabel)
	for _, p := range result.Protocols {
		if planProtocol != 0 && p.Number != planProtocol {
			continue
		}
		fmt.Fprintf(out, "\n%s\n", p.Name)
		for _, g := range p.Groups {
			fmt.Fprintf(out, "  %s:\n", g.Label)
			for _, d := range g.Dates {
				fmt.Fprintf(out, "    %s\n", d.Label())
			}
		}
	}
	return nil
}

func newICSCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "ics",
		Short: "Export one protocol's plan as an iCalendar file",
		Args:  cobra.NoArgs,
		RunE:  runICSCmd,
	}
	cmd.Flags().StringVar(&icsRace, "race", "", "race date (YYYY-MM-DD)")
	cmd.Flags().IntVar(&icsProtocol, "protocol", 1, "protocol to export (1 or 2)")
	cmd.Flags().StringVar(&icsOut, "out", "", "output file (default: stdout)")
	_ = cmd.MarkFlagRequired("race")
	return cmd
}

func runICSCmd(cmd *cobra.Command, _ []string) error {
	race, err := day.Parse(icsRace)
	if err != nil {
		return fmt.Errorf("invalid --race value: %w", err)
	}

	feed, err := ics.Calendar(race, icsProtocol, time.Now())
	if err != nil {
		return err
	}

	if icsOut == "" || icsOut == "-" {
		if _, err := fmt.Fprint(cmd.OutOrStdout(), feed); err != nil {
			return fmt.Errorf("failed to write output: %w", err)
		}
		return nil
	}
	if err := os.WriteFile(icsOut, []byte(feed), 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", icsOut, err)
	}
	fmt.Fprintf(cmd.ErrOrStderr(), "Wrote %s\n", icsOut)
	return nil
}
