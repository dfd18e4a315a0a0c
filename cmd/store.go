package main

import (
	"context"

	"github.com/rotisserie/eris"

	"github.com/sells-group/dealer-scorecard/internal/dashboard"
	"github.com/sells-group/dealer-scorecard/internal/resilience"
	"github.com/sells-group/dealer-scorecard/internal/store"
)

func initStore(ctx context.Context) (store.Store, error) {
	switch cfg.Store.Driver {
	case "sqlite", "":
		dsn := cfg.Store.DatabaseURL
		if dsn == "" {
			dsn = "scorecard.db"
		}
		st, err := store.NewSQLite(dsn)
		if err != nil {
			return nil, err
		}
		return st, nil
	case "postgres":
		poolCfg := &store.PoolConfig{
			MaxConns: cfg.Store.MaxConns,
			MinConns: cfg.Store.MinConns,
		}
		retry := resilience.DefaultRetryConfig()
		retry.OnRetry = resilience.RetryLogger("connect postgres")
		return resilience.DoVal(ctx, retry, func(ctx context.Context) (store.Store, error) {
			st, err := store.NewPostgres(ctx, cfg.Store.DatabaseURL, poolCfg)
			if err != nil {
				return nil, err
			}
			return st, nil
		})
	default:
		return nil, eris.Errorf("unsupported store driver: %s", cfg.Store.Driver)
	}
}

// openService opens and migrates the store. The caller closes the returned store.
func openService(ctx context.Context) (*dashboard.Service, store.Store, error) {
	st, err := initStore(ctx)
	if err != nil {
		return nil, nil, eris.Wrap(err, "init store")
	}
	if err := st.Migrate(ctx); err != nil {
		st.Close() //nolint:errcheck
		return nil, nil, eris.Wrap(err, "migrate store")
	}
	return dashboard.New(st), st, nil
}
