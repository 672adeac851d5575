package database

import (
	"database/sql"
	"embed"
	"io/fs"
	"path"
	"sort"
	"strings"

	"github.com/ratemygit/ratemygit/pkg/logger"

	_ "github.com/mattn/go-sqlite3"
)

//go:embed migrations/*.sql
var migrations embed.FS

var DB *sql.DB

// Init opens the session store and assigns it to DB
func Init(dsn string) error {
	db, err := Open(dsn)
	if err != nil {
		return err
	}
	DB = db
	return nil
}

// Open opens a SQLite database and applies the embedded migrations.
// The default DSN is a shared in-memory database, so nothing outlives the process.
func Open(dsn string) (*sql.DB, error) {
	db, err := sql.Open("sqlite3", dsn+sep(dsn)+"_foreign_keys=ON&_busy_timeout=30000")
	if err != nil {
		return nil, err
	}

	// A shared-cache in-memory database lives as long as one connection does
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)
	db.SetConnMaxIdleTime(0)

	if err = db.Ping(); err != nil {
		db.Close()
		return nil, err
	}

	if err = RunMigrations(db); err != nil {
		db.Close()
		return nil, err
	}

	return db, nil
}

// Close closes the database connection
func Close() error {
	if DB != nil {
		return DB.Close()
	}
	return nil
}

// RunMigrations executes every embedded SQL script in name order
func RunMigrations(db *sql.DB) error {
	files, err := fs.Glob(migrations, "migrations/*.sql")
	if err != nil {
		return err
	}
	sort.Strings(files)

	for _, file := range files {
		sqlContent, err := migrations.ReadFile(file)
		if err != nil {
			return err
		}

		if _, err = db.Exec(string(sqlContent)); err != nil {
			return err
		}

		logger.WithField("script", path.Base(file)).Debug("Executed SQL script")
	}

	return nil
}

func sep(dsn string) string {
	if strings.Contains(dsn, "?") {
		return "&"
	}
	return "?"
}
