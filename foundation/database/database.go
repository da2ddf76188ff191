// Package database provides support for access the database.
package database

import (
	"context"
	"fmt"
	"log"
	"net/url"
	"time"

	"github.com/cenkalti/backoff/v4"
	_ "github.com/jackc/pgx/stdlib"
	"github.com/jmoiron/sqlx"
)

// Config is the required properties to use the database.
type Config struct {
	User       string
	Password   string
	Host       string
	Name       string
	DisableTLS bool
	// MaxConnectWait bounds how long OpenWithRetry keeps trying, zero tries once
	MaxConnectWait time.Duration
}

// ConnectionURL builds the postgres connection url for cfg
func ConnectionURL(cfg Config) string {
	sslMode := "require"
	if cfg.DisableTLS {
		sslMode = "disable"
	}

	q := make(url.Values)
	q.Set("sslmode", sslMode)
	q.Set("timezone", "utc")

	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(cfg.User, cfg.Password),
		Host:     cfg.Host,
		Path:     cfg.Name,
		RawQuery: q.Encode(),
	}
	return u.String()
}

// Open knows how to open a database connection based on the configuration.
func Open(cfg Config) (*sqlx.DB, error) {
	return sqlx.Connect("pgx", ConnectionURL(cfg))
}

// OpenWithRetry opens the database, retrying with exponential backoff until cfg.MaxConnectWait
// has elapsed or ctx is done. Useful when the service starts alongside the database container
func OpenWithRetry(ctx context.Context, log *log.Logger, cfg Config) (*sqlx.DB, error) {
	if cfg.MaxConnectWait <= 0 {
		return Open(cfg)
	}
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = 500 * time.Millisecond
	b.MaxInterval = 10 * time.Second
	b.MaxElapsedTime = cfg.MaxConnectWait

	db, err := backoff.RetryNotifyWithData(
		func() (*sqlx.DB, error) {
			return sqlx.ConnectContext(ctx, "pgx", ConnectionURL(cfg))
		},
		backoff.WithContext(b, ctx),
		func(err error, d time.Duration) {
			log.Printf("unable to connect to database at %s, retrying in %s: %v", cfg.Host, d, err)
		},
	)
	if err != nil {
		return nil, fmt.Errorf("unable to connect to database at %s: %w", cfg.Host, err)
	}
	return db, nil
}

// PrepareNamedQueryFromMap wraps boilerplate sqlx to prepare named query from map of ddl parameters
// returns rebound query string and arguments slice
func PrepareNamedQueryFromMap(
	statementString string,
	db *sqlx.DB,
	sqlArgMap map[string]interface{}) (string, []interface{}, error) {

	query, args, err := sqlx.Named(statementString, sqlArgMap)
	if err != nil {
		return query, nil, err
	}
	query, args, err = sqlx.In(query, args...)
	if err != nil {
		return query, nil, err
	}
	query = db.Rebind(query)
	return query, args, nil
}

// PrepareNamedQueryRowsFromMap wraps boilerplate sqlx to prepare named query from map of ddl parameters
// returns sqlx.Rows after executing query with db.Queryx
func PrepareNamedQueryRowsFromMap(
	statementString string,
	db *sqlx.DB,
	sqlArgMap map[string]interface{}) (*sqlx.Rows, error) {

	query, args, err := PrepareNamedQueryFromMap(statementString, db, sqlArgMap)
	if err != nil {
		return nil, err
	}
	rows, err := db.Queryx(query, args...)
	if err != nil {
		return nil, err
	}
	return rows, nil
}
