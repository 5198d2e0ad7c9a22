package database

import (
	"context"
	"errors"
	"fmt"

	"deckgen/internal/config"
)

var (
	ErrUnsupportedStore = errors.New("unsupported store")
	ErrMissingDSN       = errors.New("missing connection string")
)

// DatabaseDriver is a deck store backend. ExecuteTx hands txFunc the
// backend's native transaction: pgx.Tx, *sql.Tx or mongo.SessionContext.
type DatabaseDriver interface {
	Connect(dsn string) error
	Close() error
	Reset(ctx context.Context) error
	ExecuteTx(ctx context.Context, txFunc func(interface{}) error) error
}

// Stores lists the supported store kinds.
func Stores() []string {
	return []string{"postgres", "mysql", "mongo"}
}

// New returns an unconnected driver for kind.
func New(kind string, dbs config.Databases) (DatabaseDriver, error) {
	switch kind {
	case "postgres":
		return &PostgresDriver{}, nil
	case "mysql":
		return &MySQLDriver{}, nil
	case "mongo":
		return &MongoDriver{Database: dbs.MongoDatabase}, nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnsupportedStore, kind)
}

// Open connects to the store of the given kind using the configured DSN.
func Open(kind string, dbs config.Databases) (DatabaseDriver, error) {
	driver, err := New(kind, dbs)
	if err != nil {
		return nil, err
	}
	dsn, ok := dbs.DSN(kind)
	if !ok {
		return nil, fmt.Errorf("%w for %s", ErrMissingDSN, kind)
	}
	if err := driver.Connect(dsn); err != nil {
		return nil, fmt.Errorf("connect to %s: %w", kind, err)
	}
	return driver, nil
}
