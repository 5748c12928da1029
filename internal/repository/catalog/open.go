package catalog

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/medidex/internal/db/redis"
	"github.com/kailas-cloud/medidex/internal/db/sqlite"
)

// Supported catalog drivers. redis and valkey share the rueidis backend.
const (
	DriverMemory = "memory"
	DriverRedis  = "redis"
	DriverValkey = "valkey"
	DriverSQLite = "sqlite"
)

// Options selects and configures a backend.
type Options struct {
	Driver           string
	Addrs            []string
	Password         string
	KeyPrefix        string
	SQLitePath       string
	ReadinessTimeout time.Duration
}

// Open builds the configured backend wrapped in Instrumented.
// The returned close function releases backend connections.
func Open(ctx context.Context, opts Options, logger *zap.Logger) (*Instrumented, func(), error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	switch opts.Driver {
	case DriverMemory, "":
		return NewInstrumented(NewMemory(), DriverMemory, logger), func() {}, nil

	case DriverRedis, DriverValkey:
		store, err := redis.NewStore(redis.Config{Addrs: opts.Addrs, Password: opts.Password})
		if err != nil {
			return nil, nil, fmt.Errorf("create %s store: %w", opts.Driver, err)
		}
		if opts.ReadinessTimeout > 0 {
			if err := store.WaitForReady(ctx, opts.ReadinessTimeout); err != nil {
				store.Close()
				return nil, nil, fmt.Errorf("%s not ready: %w", opts.Driver, err)
			}
		}
		logger.Info("Catalog connected",
			zap.String("driver", opts.Driver),
			zap.Strings("addrs", opts.Addrs),
		)
		return NewInstrumented(NewKV(store, opts.KeyPrefix), opts.Driver, logger), store.Close, nil

	case DriverSQLite:
		conn, err := sqlite.Open(ctx, opts.SQLitePath)
		if err != nil {
			return nil, nil, fmt.Errorf("open sqlite %s: %w", opts.SQLitePath, err)
		}
		logger.Info("Catalog opened",
			zap.String("driver", opts.Driver),
			zap.String("path", opts.SQLitePath),
		)
		return NewInstrumented(NewSQL(conn), DriverSQLite, logger), func() { _ = conn.Close() }, nil
	}
	return nil, nil, fmt.Errorf("unknown catalog driver %q", opts.Driver)
}
