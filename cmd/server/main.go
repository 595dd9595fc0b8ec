package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/juju/errors"
	"github.com/spf13/cobra"
	"gorm.io/gorm"

	"github.com/diewo77/sms-api/httpx"
	"github.com/diewo77/sms-api/internal/config"
	"github.com/diewo77/sms-api/internal/db"
	"github.com/diewo77/sms-api/internal/email"
	"github.com/diewo77/sms-api/internal/graph"
	"github.com/diewo77/sms-api/internal/logging"
	"github.com/diewo77/sms-api/internal/policy"
	"github.com/diewo77/sms-api/internal/query"
)

// cfg is filled by the root command before any subcommand runs.
var cfg *config.Config

var rootCmd = &cobra.Command{
	Use:   "sms-api",
	Short: "HTTP gateway between the service assistant and the business database",
	Long: `sms-api exposes a fixed set of named queries over the business database,
the email tracking workflow and the shared mailbox, guarded by a static API key.

Without a subcommand it runs the HTTP server.`,
	PersistentPreRunE: loadConfig,
	SilenceUsage:      true,
	SilenceErrors:     true,
	RunE:              runServe,
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP server",
	Args:  cobra.NoArgs,
	RunE:  runServe,
}

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create a development schema in a SQLite database",
	Args:  cobra.NoArgs,
	RunE:  runMigrate,
}

var queryCmd = &cobra.Command{
	Use:     "query <queryType>",
	Short:   "Run one named query and print the response envelope",
	Example: `  sms-api query customers_search --params '{"name":"acme"}'
  sms-api query quotes_count_by_branch_status --params '{"branch":"AUK","status":"Open"}'`,
	Args: cobra.ExactArgs(1),
	RunE: runQuery,
}

var mailCmd = &cobra.Command{
	Use:   "mail",
	Short: "Inspect the shared mailbox",
}

var mailRecentCmd = &cobra.Command{
	Use:   "recent",
	Short: "Print the most recent mailbox messages as plain text",
	Args:  cobra.NoArgs,
	RunE:  runMailRecent,
}

var (
	queryParams string
	mailLimit   int
)

func init() {
	queryCmd.Flags().StringVar(&queryParams, "params", "{}", "query parameters as a JSON object")
	mailRecentCmd.Flags().IntVar(&mailLimit, "limit", email.DefaultRecentLimit, "number of messages to fetch")

	mailCmd.AddCommand(mailRecentCmd)
	rootCmd.AddCommand(serveCmd, migrateCmd, queryCmd, mailCmd)
}

func main() {
	if err := Execute(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

// Execute runs the root command with signal handling
func Execute(ctx context.Context) error {
	ctx, cancel := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer cancel()
	return rootCmd.ExecuteContext(ctx)
}

// loadConfig reads .env, then the environment, and sets up logging.
func loadConfig(cmd *cobra.Command, args []string) error {
	_ = godotenv.Load()
	cfg = config.Load()
	if err := logging.Initialize(cfg.Log); err != nil {
		return errors.Annotate(err, "configuring logging")
	}
	return nil
}

func runServe(cmd *cobra.Command, args []string) error {
	if err := cfg.Validate(); err != nil {
		return errors.Annotate(err, "invalid configuration")
	}
	conn, err := db.Open(cfg.Database.URL)
	if err != nil {
		return err
	}
	defer db.Close(conn)

	routerCfg := policy.NewRouterConfig(conn, cfg, policy.Options{})
	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      NewApp(routerCfg),
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
		IdleTimeout:  time.Duration(cfg.Server.IdleTimeout) * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logging.Infof("server starting on port %s", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return errors.Annotate(err, "server error")
	case <-cmd.Context().Done():
		logging.Infof("shutdown signal received")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		return errors.Annotate(err, "shutting down")
	}
	logging.Infof("server stopped gracefully")
	return nil
}

func runMigrate(cmd *cobra.Command, args []string) error {
	conn, err := openDB()
	if err != nil {
		return err
	}
	defer db.Close(conn)
	return db.Migrate(conn)
}

func runQuery(cmd *cobra.Command, args []string) error {
	params, err := query.ParseParams([]byte(queryParams))
	if err != nil {
		return err
	}
	conn, err := openDB()
	if err != nil {
		return err
	}
	defer db.Close(conn)

	router := query.NewRouter(conn, nil)
	data, err := router.Execute(cmd.Context(), query.Request{QueryType: args[0], Params: params})
	if err != nil {
		return err
	}
	return printJSON(cmd, httpx.Envelope{OK: true, Data: data})
}

func runMailRecent(cmd *cobra.Command, args []string) error {
	client, err := graph.New(cfg.Graph)
	if err != nil {
		return err
	}
	msgs, err := email.NewService(client).Recent(cmd.Context(), mailLimit)
	if err != nil {
		return err
	}
	return printJSON(cmd, msgs)
}

func openDB() (*gorm.DB, error) {
	if cfg.Database.URL == "" {
		return nil, errors.NotValidf("DATABASE_URL")
	}
	return db.Open(cfg.Database.URL)
}

func printJSON(cmd *cobra.Command, v any) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return errors.Trace(enc.Encode(v))
}
