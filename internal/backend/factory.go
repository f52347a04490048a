// Package backend builds the configured storage backend and its optional
// change bus, so the entrypoints share one wiring path.
package backend

import (
	"context"
	"fmt"

	"github.com/Abdulquadri-Mahmud/ADRMS/internal/amqp"
	"github.com/Abdulquadri-Mahmud/ADRMS/internal/config"
	"github.com/Abdulquadri-Mahmud/ADRMS/internal/log"
	"github.com/Abdulquadri-Mahmud/ADRMS/internal/records"
	"github.com/Abdulquadri-Mahmud/ADRMS/internal/storage"
	"github.com/Abdulquadri-Mahmud/ADRMS/internal/storage/memory"
	"github.com/Abdulquadri-Mahmud/ADRMS/internal/storage/mongo"
	"github.com/Abdulquadri-Mahmud/ADRMS/internal/storage/sqlite"
)

// Result is a fully wired backend: the store, the optional change publisher
// and a cleanup that releases both.
type Result struct {
	Store     storage.Store
	Publisher records.ChangePublisher
	AMQP      *amqp.Client
	Cleanup   func() error
}

// Factory creates storage backends from configuration.
type Factory struct {
	logger *log.Logger
}

func NewFactory(logger *log.Logger) *Factory {
	if logger == nil {
		logger = log.New(log.DefaultConfig())
	}
	return &Factory{logger: logger.WithComponent(log.ComponentBackend)}
}

// Create builds the backend named by cfg.DataBackend.
func (f *Factory) Create(ctx context.Context, cfg *config.Config) (*Result, error) {
	switch cfg.DataBackend {
	case "memory":
		return f.createMemory(cfg)
	case "sqlite":
		return f.createSQLite(cfg)
	case "mongo":
		return f.createMongo(ctx, cfg)
	default:
		return nil, fmt.Errorf("unsupported data backend: %s", cfg.DataBackend)
	}
}

func (f *Factory) createMemory(cfg *config.Config) (*Result, error) {
	store := memory.New()
	client := f.connectAMQP(cfg)

	f.logger.Info("Initialized memory backend", "amqp_enabled", client != nil)
	return f.result(store, client), nil
}

func (f *Factory) createSQLite(cfg *config.Config) (*Result, error) {
	// sqlite.New applies the embedded migrations before returning.
	store, err := sqlite.New(cfg.SQLiteDBPath)
	if err != nil {
		return nil, fmt.Errorf("initialize sqlite store: %w", err)
	}
	client := f.connectAMQP(cfg)

	f.logger.Info("Initialized sqlite backend",
		"db_path", cfg.SQLiteDBPath,
		"amqp_enabled", client != nil)
	return f.result(store, client), nil
}

func (f *Factory) createMongo(ctx context.Context, cfg *config.Config) (*Result, error) {
	store, err := mongo.Connect(ctx, cfg.MongoURI, cfg.MongoDBName)
	if err != nil {
		return nil, fmt.Errorf("connect mongo: %w", err)
	}
	client := f.connectAMQP(cfg)

	f.logger.Info("Initialized mongo backend",
		"database", cfg.MongoDBName,
		"amqp_enabled", client != nil)
	return f.result(store, client), nil
}

// connectAMQP dials the change bus when configured. A broker that is down
// must not keep the dashboard from serving, so failures only log.
func (f *Factory) connectAMQP(cfg *config.Config) *amqp.Client {
	if !cfg.AMQPEnabled() {
		return nil
	}
	client, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
	if err != nil {
		f.logger.Warn("Failed to initialize AMQP client, continuing without change bus", "error", err)
		return nil
	}
	f.logger.Info("Initialized AMQP client",
		"exchange", cfg.AMQPExchange,
		"queue", cfg.AMQPQueue)
	return client
}

func (f *Factory) result(store storage.Store, client *amqp.Client) *Result {
	var publisher records.ChangePublisher
	if client != nil {
		publisher = client
	}
	return &Result{
		Store:     store,
		Publisher: publisher,
		AMQP:      client,
		Cleanup: func() error {
			if client != nil {
				client.Close()
			}
			return store.Close()
		},
	}
}
