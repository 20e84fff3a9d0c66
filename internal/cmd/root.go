package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"pet-care-portal/internal/adapters/storage/file"
	"pet-care-portal/internal/adapters/storage/memory"
	"pet-care-portal/internal/adapters/storage/postgres"
	redisstore "pet-care-portal/internal/adapters/storage/redis"
	"pet-care-portal/internal/apiclient"
	"pet-care-portal/internal/config"
	"pet-care-portal/internal/domain/session"
	"pet-care-portal/internal/platform/httpclient"
	"pet-care-portal/internal/platform/logger"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
)

var cfgFile string

var rootCmd = &cobra.Command{
	Use:   "petcare",
	Short: "Pet Care client - vets, appointments and the pet shop from the terminal",
	Long: `petcare talks to the Pet Care REST API: browse veterinarians and their
free slots, book appointments, search the shop catalog and check out a cart.

The session (token + user) is kept between runs in the configured backend
(file by default, or memory, redis, postgres).`,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default ./petcare.yaml, $HOME/.petcare/petcare.yaml)")
}

// Execute runs the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// app agrupa lo que comparten los subcomandos; se arma por ejecución.
type app struct {
	cfg     *config.Config
	log     logger.Logger
	api     *apiclient.Client
	session *session.Holder
	metrics *prometheus.Registry

	closers []func() error
}

func newApp(cmd *cobra.Command) (*app, error) {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	log := logger.NewFromSettings(cfg.Log.Level, cfg.Log.Format, "petcare", cmd.ErrOrStderr())

	a := &app{cfg: cfg, log: log, metrics: prometheus.NewRegistry()}

	opts := httpclient.Options{
		BaseURL: cfg.API.BaseURL,
		Timeout: cfg.API.Timeout,
		Logger:  log,
		Metrics: httpclient.NewMetrics(a.metrics),
	}
	if cfg.API.CircuitBreaker {
		opts.Breaker = httpclient.NewCircuitBreaker("petcare-api", 0, log)
	}
	hc, err := httpclient.New(opts)
	if err != nil {
		return nil, err
	}
	a.api = apiclient.New(hc)

	store, err := a.openSessionStore(cmd.Context())
	if err != nil {
		a.Close()
		return nil, err
	}
	a.session = session.NewHolder(store, a.api.Auth, log)
	if err := a.session.Init(cmd.Context()); err != nil {
		a.Close()
		return nil, fmt.Errorf("failed to restore session: %w", err)
	}
	// el token sale de la sesión en cada request
	hc.SetTokenSource(a.session)

	return a, nil
}

func (a *app) openSessionStore(ctx context.Context) (session.Store, error) {
	sc := a.cfg.Session
	switch sc.Backend {
	case config.BackendMemory:
		return memory.NewSessionStore(), nil

	case config.BackendRedis:
		rdb, err := redisstore.Dial(ctx, sc.RedisAddr, sc.RedisPassword, sc.RedisDB)
		if err != nil {
			return nil, err
		}
		a.closers = append(a.closers, rdb.Close)
		return redisstore.NewSessionStore(rdb, redisstore.Options{
			Prefix: redisstore.DefaultPrefix + sc.Profile + ":",
		}), nil

	case config.BackendPostgres:
		db, err := postgres.Open(ctx, sc.PostgresDSN)
		if err != nil {
			return nil, err
		}
		a.closers = append(a.closers, db.Close)
		st := postgres.NewSessionStore(db, sc.Profile)
		if err := st.EnsureSchema(ctx); err != nil {
			return nil, err
		}
		return st, nil

	default:
		return file.NewSessionStore(afero.NewOsFs(), sc.Path)
	}
}

// Close loguea cuántos requests hizo el comando y cierra las conexiones del store.
func (a *app) Close() {
	if mfs, err := a.metrics.Gather(); err == nil {
		stats := map[string]any{}
		for _, mf := range mfs {
			total := 0.0
			for _, m := range mf.GetMetric() {
				if c := m.GetCounter(); c != nil {
					total += c.GetValue()
				}
			}
			if total > 0 {
				stats[mf.GetName()] = total
			}
		}
		if len(stats) > 0 {
			a.log.Debug("http client stats", stats)
		}
	}

	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			a.log.Warn("close failed", map[string]any{"error": err})
		}
	}
	a.closers = nil
}

// currentUser exige sesión iniciada.
func (a *app) currentUser() (session.User, error) {
	u, ok := a.session.CurrentUser()
	if !ok {
		return session.User{}, errNotLoggedIn
	}
	return u, nil
}

// withApp arma el app, corre fn y lo cierra.
func withApp(fn func(cmd *cobra.Command, args []string, a *app) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd)
		if err != nil {
			return err
		}
		defer a.Close()
		return fn(cmd, args, a)
	}
}

func printf(w io.Writer, format string, args ...any) {
	_, _ = fmt.Fprintf(w, format, args...)
}

func orDash(s string) string {
	if strings.TrimSpace(s) == "" {
		return "-"
	}
	return s
}
