package database

import (
	"embed"
	"fmt"
	"io/fs"
	"sort"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"

	"primariaPortal/internal/config"
	"primariaPortal/internal/logger"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

type MethodsDB interface {
	CloseDB() error
	RunMigrations() error
	HealthCheck() error
}

type DB struct {
	*sqlx.DB
}

func ConnectDB(cfg *config.Config) (*DB, error) {
	logger.Infof("Conectare la baza de date: host=%s, dbname=%s", cfg.DB.DbHOST, cfg.DB.DbNAME)

	db, err := sqlx.Connect("postgres", cfg.DB.DSN())
	if err != nil {
		return nil, fmt.Errorf("nu s-a putut conecta la baza de date: %w", err)
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(30 * time.Minute)

	dbStruct := &DB{db}

	if err := dbStruct.RunMigrations(); err != nil {
		_ = db.Close()
		return nil, err
	}

	if err := dbStruct.HealthCheck(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("verificarea bazei de date a eșuat: %w", err)
	}

	logger.Info("Conectat la PostgreSQL")
	return dbStruct, nil
}

func (db *DB) CloseDB() error {
	return db.DB.Close()
}

// RunMigrations applies every embedded script in file-name order. The scripts are idempotent.
func (db *DB) RunMigrations() error {
	files, err := fs.Glob(migrationsFS, "migrations/*.sql")
	if err != nil {
		return fmt.Errorf("eroare la citirea migrațiilor: %w", err)
	}
	sort.Strings(files)

	for _, file := range files {
		migrationSQL, err := migrationsFS.ReadFile(file)
		if err != nil {
			return fmt.Errorf("eroare la citirea fișierului %s: %w", file, err)
		}

		logger.Debugf("Se aplică migrația %s", file)

		if _, err := db.Exec(string(migrationSQL)); err != nil {
			return fmt.Errorf("eroare la executarea migrației %s: %w", file, err)
		}
	}

	logger.Info("Migrațiile au fost aplicate")
	return nil
}

func (db *DB) HealthCheck() error {
	if db == nil || db.DB == nil {
		return fmt.Errorf("conexiunea la baza de date nu este inițializată")
	}

	return db.Ping()
}
