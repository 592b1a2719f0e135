package dataset

import (
	"context"
	"database/sql"
	"fmt"
	"os"

	_ "modernc.org/sqlite"

	"github.com/randytsao24/gradecast/internal/models"
)

const createTablesSQL = `
CREATE TABLE IF NOT EXISTS restaurants (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	camis TEXT NOT NULL,
	dba TEXT,
	borough TEXT NOT NULL DEFAULT '',
	zipcode TEXT,
	cuisine_description TEXT NOT NULL DEFAULT '',
	critical_flag TEXT NOT NULL DEFAULT '',
	critical_flag_bin INTEGER NOT NULL DEFAULT 0,
	score REAL,
	grade TEXT,
	inspection_date TEXT NOT NULL DEFAULT '',
	latitude REAL,
	longitude REAL
);

CREATE INDEX IF NOT EXISTS idx_restaurants_camis ON restaurants(camis);
`

const selectRestaurantsSQL = `
SELECT camis, dba, borough, zipcode, cuisine_description, critical_flag,
	critical_flag_bin, score, grade, inspection_date, latitude, longitude
FROM restaurants
ORDER BY id`

const insertRestaurantSQL = `
INSERT INTO restaurants (camis, dba, borough, zipcode, cuisine_description, critical_flag,
	critical_flag_bin, score, grade, inspection_date, latitude, longitude)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

// Store is a SQLite copy of the cleaned inspection dataset.
type Store struct {
	db *sql.DB
}

// OpenSQLite opens the database at path and creates the schema if needed.
func OpenSQLite(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("dataset: open database: %w", err)
	}

	if _, err := db.Exec(createTablesSQL); err != nil {
		db.Close()
		return nil, fmt.Errorf("dataset: create tables: %w", err)
	}

	return &Store{db: db}, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Import replaces the stored rows with restaurants in a single transaction.
func (s *Store) Import(ctx context.Context, restaurants []models.Restaurant) (int, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("dataset: begin import: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, "DELETE FROM restaurants"); err != nil {
		return 0, fmt.Errorf("dataset: clear restaurants: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, insertRestaurantSQL)
	if err != nil {
		return 0, fmt.Errorf("dataset: prepare insert: %w", err)
	}
	defer stmt.Close()

	for i, r := range restaurants {
		_, err := stmt.ExecContext(ctx,
			r.CAMIS, r.DBA, r.Borough, r.Zipcode, r.CuisineDescription, r.CriticalFlag,
			r.CriticalFlagBin, r.Score, r.Grade, r.InspectionDate, r.Latitude, r.Longitude,
		)
		if err != nil {
			return 0, fmt.Errorf("dataset: insert row %d (camis %s): %w", i, r.CAMIS, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("dataset: commit import: %w", err)
	}
	return len(restaurants), nil
}

// Restaurants returns every stored row in insertion order.
func (s *Store) Restaurants(ctx context.Context) ([]models.Restaurant, error) {
	rows, err := s.db.QueryContext(ctx, selectRestaurantsSQL)
	if err != nil {
		return nil, fmt.Errorf("dataset: query restaurants: %w", err)
	}
	defer rows.Close()

	var restaurants []models.Restaurant
	for rows.Next() {
		var (
			r                          models.Restaurant
			dba, zipcode, grade        sql.NullString
			score, latitude, longitude sql.NullFloat64
		)
		err := rows.Scan(
			&r.CAMIS, &dba, &r.Borough, &zipcode, &r.CuisineDescription, &r.CriticalFlag,
			&r.CriticalFlagBin, &score, &grade, &r.InspectionDate, &latitude, &longitude,
		)
		if err != nil {
			return nil, fmt.Errorf("dataset: scan restaurant: %w", err)
		}
		r.DBA = nullString(dba)
		r.Zipcode = nullString(zipcode)
		r.Grade = nullString(grade)
		r.Score = nullFloat(score)
		r.Latitude = nullFloat(latitude)
		r.Longitude = nullFloat(longitude)
		restaurants = append(restaurants, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("dataset: iterate restaurants: %w", err)
	}
	return restaurants, nil
}

// LoadSQLite reads every restaurant from the existing database at path.
func LoadSQLite(ctx context.Context, path string) ([]models.Restaurant, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("opening dataset: %w", err)
	}

	store, err := OpenSQLite(path)
	if err != nil {
		return nil, err
	}
	defer store.Close()

	return store.Restaurants(ctx)
}

func nullString(ns sql.NullString) *string {
	if !ns.Valid {
		return nil
	}
	return &ns.String
}

func nullFloat(nf sql.NullFloat64) *float64 {
	if !nf.Valid {
		return nil
	}
	return &nf.Float64
}
