package backend

import (
	"context"
	"errors"
	"fmt"
	"os"

	"nobudget/internal/amqp"
	"nobudget/internal/core"
	"nobudget/internal/crud"
	"nobudget/internal/log"
	"nobudget/internal/seed"
	"nobudget/internal/store"
	"nobudget/internal/store/file"
	"nobudget/internal/store/memory"
	"nobudget/internal/store/sqlite"
)

type Factory struct {
	logger *log.Logger
}

func NewFactory(logger *log.Logger) *Factory {
	if logger == nil {
		logger = log.FromContext(context.Background())
	}
	return &Factory{logger: logger.WithComponent(log.ComponentBackend)}
}

// Create builds the collections for cfg.Type and, when AMQP is configured,
// a change notifier. A broker that cannot be reached is logged and skipped.
func (f *Factory) Create(ctx context.Context, cfg Config) (*Result, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	var (
		res *Result
		err error
	)
	switch cfg.Type {
	case FileBackend:
		res, err = f.createFileBackend(cfg)
	case SQLiteBackend:
		res, err = f.createSQLiteBackend(cfg)
	case MemoryBackend:
		res = f.createMemoryBackend(cfg)
	default:
		return nil, fmt.Errorf("unsupported backend type: %s", cfg.Type)
	}
	if err != nil {
		return nil, err
	}
	res.Type = cfg.Type

	if cfg.AMQPURL != "" {
		client, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
		if err != nil {
			f.logger.WarnContext(ctx, "Failed to initialize AMQP client, continuing without change notifications", log.FieldError, err)
		} else {
			f.logger.InfoContext(ctx, "Initialized AMQP client", "exchange", cfg.AMQPExchange, "queue", cfg.AMQPQueue)
			res.Notifier = client
			storeCleanup := res.Cleanup
			res.Cleanup = func() error {
				var errs []error
				errs = append(errs, client.Close())
				if storeCleanup != nil {
					errs = append(errs, storeCleanup())
				}
				return errors.Join(errs...)
			}
		}
	}
	return res, nil
}

// categoryDefaults falls back to the built-in lists for any list the seed
// left empty.
func categoryDefaults(cfg Config) (store.Defaults[string], store.Defaults[string]) {
	s, def := cfg.Seed, seed.Default()
	if len(s.Categories) == 0 {
		s.Categories = def.Categories
	}
	if len(s.IncomeCategories) == 0 {
		s.IncomeCategories = def.IncomeCategories
	}
	return store.Of(s.Categories...), store.Of(s.IncomeCategories...)
}

func (f *Factory) createFileBackend(cfg Config) (*Result, error) {
	if err := os.MkdirAll(cfg.DataDir, 0o755); err != nil {
		return nil, fmt.Errorf("create data directory: %w", err)
	}
	cats, incomeCats := categoryDefaults(cfg)

	f.logger.Info("Initialized file backend", "data_dir", cfg.DataDir)
	return &Result{
		Collections: crud.Collections{
			Expenses:         file.New[core.Expense](file.PathFor(cfg.DataDir, core.KindExpenses), nil),
			Income:           file.New[core.Income](file.PathFor(cfg.DataDir, core.KindIncome), nil),
			Categories:       file.New(file.PathFor(cfg.DataDir, core.KindCategories), cats),
			IncomeCategories: file.New(file.PathFor(cfg.DataDir, core.KindIncomeCategories), incomeCats),
		},
		Ready: func(context.Context) error {
			info, err := os.Stat(cfg.DataDir)
			if err != nil {
				return err
			}
			if !info.IsDir() {
				return fmt.Errorf("%s is not a directory", cfg.DataDir)
			}
			return nil
		},
	}, nil
}

func (f *Factory) createSQLiteBackend(cfg Config) (*Result, error) {
	db, err := sqlite.Open(cfg.SQLiteDBPath)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize SQLite store: %w", err)
	}
	cats, incomeCats := categoryDefaults(cfg)

	f.logger.Info("Initialized SQLite backend", "db_path", cfg.SQLiteDBPath)
	return &Result{
		Collections: crud.Collections{
			Expenses:         sqlite.NewCollection[core.Expense](db, core.KindExpenses, nil),
			Income:           sqlite.NewCollection[core.Income](db, core.KindIncome, nil),
			Categories:       sqlite.NewCollection(db, core.KindCategories, cats),
			IncomeCategories: sqlite.NewCollection(db, core.KindIncomeCategories, incomeCats),
		},
		Ready:   db.Ping,
		Cleanup: db.Close,
	}, nil
}

func (f *Factory) createMemoryBackend(cfg Config) *Result {
	cats, incomeCats := categoryDefaults(cfg)

	f.logger.Info("Initialized memory backend")
	return &Result{
		Collections: crud.Collections{
			Expenses:         memory.New[core.Expense](nil),
			Income:           memory.New[core.Income](nil),
			Categories:       memory.New(cats),
			IncomeCategories: memory.New(incomeCats),
		},
		Ready: func(context.Context) error { return nil },
	}
}
