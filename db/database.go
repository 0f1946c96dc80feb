package db

import (
	"database/sql"
	"fmt"
	"log"

	"github.com/astevko/randombmir/config"

	_ "github.com/go-sql-driver/mysql" // MySQL driver
)

var DB *sql.DB

// ConnectDB establishes a connection to the database.
func ConnectDB(cfg *config.Config) error {
	dsn := fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?parseTime=true",
		cfg.DBUser, cfg.DBPassword, cfg.DBHost, cfg.DBPort, cfg.DBName)

	var err error
	DB, err = sql.Open("mysql", dsn)
	if err != nil {
		return fmt.Errorf("failed to open database connection: %w", err)
	}

	if err = DB.Ping(); err != nil {
		DB.Close()
		return fmt.Errorf("failed to ping database: %w", err)
	}

	log.Println("Successfully connected to the database.")
	return nil
}

// InitDB initializes the database schema, creating tables if they don't exist.
func InitDB() error {
	if err := createClipsTable(); err != nil {
		return err
	}
	log.Println("Database initialization completed.")
	return nil
}

func createClipsTable() error {
	// filename is unique within a category; that uniqueness backs both
	// duplicate-import detection and transcript-file lookup.
	query := `
	CREATE TABLE IF NOT EXISTS clips (
		id VARCHAR(36) PRIMARY KEY,
		title VARCHAR(255) NOT NULL,
		audio_url VARCHAR(767) NOT NULL,
		category VARCHAR(32) NOT NULL,
		filename VARCHAR(255) NOT NULL,
		transcript TEXT,
		created_at BIGINT NOT NULL,
		CONSTRAINT uq_category_filename UNIQUE (category, filename)
	);
	`
	_, err := DB.Exec(query)
	if err != nil {
		return fmt.Errorf("failed to create clips table: %w", err)
	}
	log.Println("Clips table initialized successfully (or already exists).")
	return nil
}
