// Package backend assembles a LedgerService over the configured store.
package backend

import (
	"fmt"
	"io"
	"log/slog"

	"ledger/internal/amqp"
	"ledger/internal/services"
	"ledger/internal/store"
	"ledger/internal/store/memory"
	"ledger/internal/storage"
)

// Type selects the storage implementation behind the service.
type Type string

const (
	Memory Type = "memory"
	SQLite Type = "sqlite"
)

func (t Type) IsValid() bool {
	switch t {
	case Memory, SQLite:
		return true
	}
	return false
}

func (t Type) String() string { return string(t) }

// Config holds what the factory needs to build a backend.
type Config struct {
	Type         Type
	SQLiteDBPath string
	AMQPURL      string
	AMQPExchange string
	AMQPQueue    string
}

// CleanupFunc releases backend resources on shutdown.
type CleanupFunc func() error

// Result carries the assembled service plus its cleanup function. Cleanup
// may be nil.
type Result struct {
	Service *services.LedgerService
	Cleanup CleanupFunc
}

// Factory creates backends based on configuration.
type Factory struct {
	logger *slog.Logger
}

func NewFactory(logger *slog.Logger) *Factory {
	if logger == nil {
		logger = slog.Default()
	}
	return &Factory{logger: logger}
}

// Create builds the service for the configured backend type.
func (f *Factory) Create(cfg Config) (*Result, error) {
	if !cfg.Type.IsValid() {
		return nil, fmt.Errorf("invalid backend type: %s", cfg.Type)
	}

	switch cfg.Type {
	case SQLite:
		return f.createSQLite(cfg)
	default:
		return f.createMemory(cfg)
	}
}

func (f *Factory) createSQLite(cfg Config) (*Result, error) {
	repo, err := storage.NewSQLiteRepository(cfg.SQLiteDBPath)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize SQLite repository: %w", err)
	}

	svc, conn := f.assemble(repo, cfg)

	f.logger.Info("Initialized SQLite backend",
		"db_path", cfg.SQLiteDBPath,
		"amqp_enabled", conn != nil)

	return &Result{Service: svc, Cleanup: newCleanup(svc, conn)}, nil
}

func (f *Factory) createMemory(cfg Config) (*Result, error) {
	svc, conn := f.assemble(memory.New(), cfg)

	f.logger.Info("Initialized memory backend", "amqp_enabled", conn != nil)

	return &Result{Service: svc, Cleanup: newCleanup(svc, conn)}, nil
}

// assemble wires the store to the service with an optional AMQP publisher.
// The second return value is the broker connection to close on shutdown,
// nil when AMQP is not configured.
func (f *Factory) assemble(st store.Store, cfg Config) (*services.LedgerService, io.Closer) {
	client := f.newAMQPClient(cfg)
	if client == nil {
		return services.NewLedgerService(st, nil), nil
	}
	return services.NewLedgerService(st, client), client
}

// newAMQPClient connects to AMQP when a URL is configured. Failure is
// non-fatal: the service runs without mirroring.
func (f *Factory) newAMQPClient(cfg Config) *amqp.Client {
	if cfg.AMQPURL == "" {
		return nil
	}
	client, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
	if err != nil {
		f.logger.Warn("Failed to initialize AMQP client, continuing without sync", "error", err)
		return nil
	}
	f.logger.Info("Initialized AMQP client",
		"exchange", cfg.AMQPExchange,
		"queue", cfg.AMQPQueue)
	return client
}

// newCleanup closes the service's store and the AMQP connection, keeping
// the first error.
func newCleanup(svc *services.LedgerService, conn io.Closer) CleanupFunc {
	return func() error {
		err := svc.Close()
		if conn != nil {
			if cerr := conn.Close(); cerr != nil && err == nil {
				err = cerr
			}
		}
		return err
	}
}
