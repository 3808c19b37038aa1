package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/agencydesk/creditledger/internal/adapter/http/dto"
	"github.com/agencydesk/creditledger/internal/adapter/http/middleware"
	postgresRepo "github.com/agencydesk/creditledger/internal/adapter/repository/postgres"
	"github.com/agencydesk/creditledger/internal/infrastructure/logger"
	"github.com/agencydesk/creditledger/internal/infrastructure/postgres"
	"github.com/agencydesk/creditledger/internal/usecase"
)

// errInconsistent makes the process exit non-zero when a check finds drift.
var errInconsistent = errors.New("ledger is inconsistent")

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd(viper.New()).ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd(v *viper.Viper) *cobra.Command {
	var configFile string

	rootCmd := &cobra.Command{
		Use:           "creditledger-cli",
		Short:         "Credit ledger CLI tool",
		Long:          `A command line interface for operating the agency credit ledger.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return loadSettings(v, cmd, configFile)
		},
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&configFile, "config", "", "config file (default $HOME/.creditledger.yaml)")
	flags.String("url", "http://localhost:8080", "Base URL of the credit ledger API")
	flags.String("token", "", "Bearer token for the API")
	flags.String("agency", "", "Agency id sent as X-Agency-ID when no token is set")
	flags.String("user", "cli", "User id sent as X-User-ID when no token is set")
	flags.String("role", "administrative", "Role sent as X-Role when no token is set")
	flags.Duration("timeout", 30*time.Second, "Request timeout")
	flags.String("database-url", "", "PostgreSQL URL for direct database commands")
	flags.String("migrations", "file://migrations", "Migrations source URL")
	flags.String("log-level", "info", "Log level for direct database commands")
	flags.Bool("json", false, "Print raw JSON")

	rootCmd.AddCommand(ledgerCmd(v), migrateCmd(v))

	return rootCmd
}

// loadSettings layers flags over CREDITLEDGER_* env over the config file.
func loadSettings(v *viper.Viper, cmd *cobra.Command, configFile string) error {
	if err := v.BindPFlags(cmd.Flags()); err != nil {
		return err
	}

	v.SetEnvPrefix("CREDITLEDGER")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil
		}
		v.SetConfigName(".creditledger")
		v.SetConfigType("yaml")
		v.AddConfigPath(home)
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) {
			return nil
		}
		return fmt.Errorf("read config %s: %w", filepath.Base(v.ConfigFileUsed()), err)
	}

	return nil
}

func ledgerCmd(v *viper.Viper) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "ledger",
		Short: "Ledger operations",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "consistency",
		Short: "Check the agency's ledger consistency through the API",
		RunE: func(cmd *cobra.Command, args []string) error {
			return checkConsistency(cmd.Context(), v, cmd.OutOrStdout())
		},
	})

	var workers int
	reconcileCmd := &cobra.Command{
		Use:   "reconcile",
		Short: "Reconcile every account of every agency against the database",
		RunE: func(cmd *cobra.Command, args []string) error {
			return reconcileAll(cmd.Context(), v, workers, cmd.OutOrStdout())
		},
	}
	reconcileCmd.Flags().IntVar(&workers, "workers", 8, "Concurrent agencies")
	cmd.AddCommand(reconcileCmd)

	return cmd
}

func checkConsistency(ctx context.Context, v *viper.Viper, out io.Writer) error {
	ctx, cancel := context.WithTimeout(ctx, v.GetDuration("timeout"))
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, strings.TrimRight(v.GetString("url"), "/")+"/api/v1/ledger/consistency", nil)
	if err != nil {
		return err
	}
	setPrincipal(req, v)

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return fmt.Errorf("making request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("consistency check failed (status %d): %s", resp.StatusCode, truncate(string(body), 200))
	}

	var report dto.ConsistencyReportResponse
	if err := json.Unmarshal(body, &report); err != nil {
		return fmt.Errorf("failed to parse response: %w", err)
	}

	if v.GetBool("json") {
		printJSON(out, report)
	} else {
		printConsistency(out, &report)
	}

	if !report.LedgerConsistent {
		return errInconsistent
	}
	return nil
}

func setPrincipal(req *http.Request, v *viper.Viper) {
	if token := v.GetString("token"); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
		return
	}
	req.Header.Set(middleware.HeaderAgencyID, v.GetString("agency"))
	req.Header.Set(middleware.HeaderUserID, v.GetString("user"))
	req.Header.Set(middleware.HeaderRole, v.GetString("role"))
}

func printConsistency(out io.Writer, r *dto.ConsistencyReportResponse) {
	status := "PASSED"
	if !r.LedgerConsistent {
		status = "FAILED"
	}
	fmt.Fprintf(out, "Consistency check %s\n", status)
	fmt.Fprintf(out, "Agency: %s\n", r.AgencyID)
	fmt.Fprintf(out, "Accounts: %d checked, %d reconciled\n", r.TotalAccounts, r.ReconciledAccounts)
	for _, d := range r.Discrepancies {
		fmt.Fprintf(out, "  %s %s recorded=%s calculated=%s diff=%s\n",
			truncate(d.AccountID, 26), d.Currency, d.RecordedBalance, d.CalculatedBalance, d.Difference)
	}
}

func reconcileAll(ctx context.Context, v *viper.Viper, workers int, out io.Writer) error {
	databaseURL := v.GetString("database-url")
	if databaseURL == "" {
		return errors.New("database-url is required (flag, CREDITLEDGER_DATABASE_URL or config file)")
	}

	log := logger.NewWithWriter(logger.Config{Level: v.GetString("log-level"), Format: "console"}, os.Stderr)

	pool, err := postgres.NewPool(ctx, databaseURL, workers+1, 1)
	if err != nil {
		return fmt.Errorf("connect to postgres: %w", err)
	}
	defer pool.Close()

	uc := usecase.NewReconciliationUseCase(postgresRepo.NewLedgerRepository(pool)).WithLogger(log)

	report, err := uc.SweepAll(ctx, workers)
	if err != nil {
		return err
	}

	if v.GetBool("json") {
		printJSON(out, sweepJSON(report))
	} else {
		printSweep(out, report)
	}

	if !report.Consistent() {
		return errInconsistent
	}
	return nil
}

type sweepOutput struct {
	Consistent bool                             `json:"consistent"`
	Duration   string                           `json:"duration"`
	Agencies   []*dto.ConsistencyReportResponse `json:"agencies"`
	Failed     map[string]string                `json:"failed,omitempty"`
}

func sweepJSON(r *usecase.SweepReport) sweepOutput {
	o := sweepOutput{Consistent: r.Consistent(), Duration: r.Duration.String()}
	for _, a := range r.Agencies {
		o.Agencies = append(o.Agencies, dto.ConsistencyReportFromDomain(a))
	}
	if len(r.Failed) > 0 {
		o.Failed = make(map[string]string, len(r.Failed))
		for id, err := range r.Failed {
			o.Failed[id] = err.Error()
		}
	}
	return o
}

func printSweep(out io.Writer, r *usecase.SweepReport) {
	for _, a := range r.Agencies {
		mark := "ok"
		if !a.LedgerConsistent {
			mark = "DRIFT"
		}
		fmt.Fprintf(out, "%-28s %-5s %d/%d accounts reconciled\n", truncate(a.AgencyID, 28), mark, a.ReconciledAccounts, a.TotalAccounts)
		for _, d := range a.Discrepancies {
			fmt.Fprintf(out, "  %s %s recorded=%s calculated=%s diff=%s\n",
				d.AccountID, d.Currency, d.RecordedBalance, d.CalculatedBalance, d.Difference)
		}
	}
	for id, err := range r.Failed {
		fmt.Fprintf(out, "%-28s ERROR %v\n", truncate(id, 28), err)
	}
	fmt.Fprintf(out, "%d agencies in %s, consistent: %v\n", len(r.Agencies)+len(r.Failed), r.Duration.Round(time.Millisecond), r.Consistent())
}

func migrateCmd(v *viper.Viper) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Database schema migrations",
	}

	newMigrator := func() (*postgres.Migrator, error) {
		databaseURL := v.GetString("database-url")
		if databaseURL == "" {
			return nil, errors.New("database-url is required (flag, CREDITLEDGER_DATABASE_URL or config file)")
		}
		log := logger.NewWithWriter(logger.Config{Level: v.GetString("log-level"), Format: "console"}, os.Stderr)
		return postgres.NewMigrator(v.GetString("migrations"), databaseURL, log), nil
	}

	cmd.AddCommand(
		&cobra.Command{
			Use:   "up",
			Short: "Apply all pending migrations",
			RunE: func(cmd *cobra.Command, args []string) error {
				m, err := newMigrator()
				if err != nil {
					return err
				}
				return m.Up()
			},
		},
		&cobra.Command{
			Use:   "down [steps]",
			Short: "Roll back migrations",
			Args:  cobra.MaximumNArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				steps := 1
				if len(args) == 1 {
					n, err := strconv.Atoi(args[0])
					if err != nil {
						return fmt.Errorf("invalid steps %q: %w", args[0], err)
					}
					steps = n
				}
				m, err := newMigrator()
				if err != nil {
					return err
				}
				return m.Down(steps)
			},
		},
		&cobra.Command{
			Use:   "version",
			Short: "Print the applied schema version",
			RunE: func(cmd *cobra.Command, args []string) error {
				m, err := newMigrator()
				if err != nil {
					return err
				}
				version, dirty, err := m.Version()
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "version %d (dirty: %v)\n", version, dirty)
				return nil
			},
		},
	)

	return cmd
}

func printJSON(out io.Writer, v any) {
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	_ = enc.Encode(v)
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	if n <= 3 {
		return s[:n]
	}
	return s[:n-3] + "..."
}
