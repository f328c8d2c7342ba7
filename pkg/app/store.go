package app

import (
	"context"
	"fmt"

	"rendezvous/pkg/client"
	"rendezvous/pkg/config"
	"rendezvous/pkg/store"
)

// OpenStore builds the store for cfg.StoreBackend and seeds any missing
// collection. The returned store owns the backend connection.
func OpenStore(ctx context.Context, cfg *config.Config) (*store.Store, error) {
	backend, err := openBackend(ctx, cfg)
	if err != nil {
		return nil, err
	}

	st := store.New(backend, cfg.Log)
	if err := st.Init(ctx, cfg.SeedSettings); err != nil {
		_ = st.Close()
		return nil, fmt.Errorf("initialize store: %w", err)
	}

	cfg.Log.Info("Store ready", "backend", cfg.StoreBackend)
	return st, nil
}

func openBackend(ctx context.Context, cfg *config.Config) (store.Backend, error) {
	switch cfg.StoreBackend {
	case config.StoreBadger:
		badgerCfg := store.DefaultBadgerConfig(cfg.BadgerDir)
		badgerCfg.Logger = cfg.Log.Logger
		backend, err := store.NewBadgerBackend(badgerCfg)
		if err != nil {
			return nil, fmt.Errorf("open badger store at %s: %w", cfg.BadgerDir, err)
		}
		return backend, nil

	case config.StoreMongo:
		mongoClient, err := client.ConnectMongo(ctx, cfg.Log, cfg.MongoURI, cfg.MongoConnTimeout)
		if err != nil {
			return nil, err
		}
		backend := store.NewMongoBackend(mongoClient, cfg.MongoDatabaseName, cfg.StoreReadTimeout, cfg.StoreWriteTimeout)
		if err := backend.EnsureSchema(ctx); err != nil {
			_ = backend.Close()
			return nil, fmt.Errorf("migrate mongo store: %w", err)
		}
		return backend, nil

	case config.StoreFile, "":
		backend, err := store.NewFileBackend(cfg.DataDir)
		if err != nil {
			return nil, fmt.Errorf("open file store at %s: %w", cfg.DataDir, err)
		}
		return backend, nil

	default:
		return nil, fmt.Errorf("unknown store backend %q", cfg.StoreBackend)
	}
}
