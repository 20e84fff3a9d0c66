package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"pet-care-portal/internal/adapters/auth/jwtauth"
	"pet-care-portal/internal/config"
	"pet-care-portal/internal/devapi"
	"pet-care-portal/internal/platform/logger"
	"pet-care-portal/internal/router"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
)

var (
	devapiAddr   string
	devapiNoSeed bool
)

var devapiCmd = &cobra.Command{
	Use:   "devapi",
	Short: "Pet Care development backend",
	Long: `devapi serves the subset of /api the petcare client uses, backed by
in-memory tables and seeded with demo data (demo/demo123, admin/admin123).

Tokens are HS256 JWTs signed with devapi.jwt_secret. /metrics exposes
Prometheus counters and /swagger/ the API docs.`,
	SilenceUsage: true,
	RunE:         runDevAPI,
}

func init() {
	devapiCmd.Flags().StringVar(&cfgFile, "config", "", "config file (default ./petcare.yaml, $HOME/.petcare/petcare.yaml)")
	devapiCmd.Flags().StringVar(&devapiAddr, "addr", "", "listen address (default devapi.addr)")
	devapiCmd.Flags().BoolVar(&devapiNoSeed, "no-seed", false, "start with empty tables")
}

// ExecuteDevAPI runs the development backend command
func ExecuteDevAPI() {
	if err := devapiCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// newDevAPIServer arma el handler completo: verifier JWT, API y router.
func newDevAPIServer(ctx context.Context, cfg *config.Config, log logger.Logger, seed bool) (http.Handler, error) {
	verifier := jwtauth.NewVerifier(cfg.DevAPI.JWTSecret, "petcare-devapi")

	api := devapi.New(devapi.Options{
		Issuer:  verifier,
		Logger:  log,
		TaxRate: decimal.NewFromFloat(cfg.Checkout.TaxRate),
	})
	if seed {
		if err := api.Seed(ctx); err != nil {
			return nil, err
		}
	}

	return router.NewRouter(router.Options{
		AuthVerifier: verifier,
		API:          api,
		Logger:       log,
	}), nil
}

func runDevAPI(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	log := logger.NewFromSettings(cfg.Log.Level, cfg.Log.Format, "devapi", cmd.ErrOrStderr())

	addr := cfg.DevAPI.Addr
	if devapiAddr != "" {
		addr = devapiAddr
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	h, err := newDevAPIServer(ctx, cfg, log, cfg.DevAPI.Seed && !devapiNoSeed)
	if err != nil {
		return err
	}

	srv := &http.Server{
		Addr:         addr,
		Handler:      h,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("starting server", map[string]any{"addr": addr})
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	log.Info("shutting down", nil)
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
