package database

import (
	"database/sql"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib" // PostgreSQL driver
	"github.com/jmoiron/sqlx"
)

const driverName = "pgx"

// Connect opens the main application pool. The handle is returned to the
// caller; nothing here is package state.
func Connect(connStr string) (*sql.DB, error) {
	db, err := sql.Open(driverName, connStr)
	if err != nil {
		return nil, err
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(25)
	db.SetConnMaxLifetime(5 * time.Minute)

	if err = db.Ping(); err != nil {
		db.Close()
		return nil, err
	}
	return db, nil
}

// ConnectSandbox opens the pool that student and answer-key queries run
// on. sqlx because the result shape is unknown until execution. Kept
// small: submitted queries should not be able to hog connections.
func ConnectSandbox(connStr string) (*sqlx.DB, error) {
	db, err := sqlx.Connect(driverName, connStr)
	if err != nil {
		return nil, err
	}

	db.SetMaxOpenConns(5)
	db.SetMaxIdleConns(2)
	db.SetConnMaxLifetime(5 * time.Minute)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, err
	}
	return db, nil
}
