package locations

import (
	"context"
	"database/sql"
	"fmt"
)

// Store fetches the centre location projection the index is built from.
// The persistence layer owns the data; the index only snapshots it.
type Store interface {
	FetchEntries(ctx context.Context) ([]Entry, error)
}

// PostgresStore reads centre location attributes from Postgres.
type PostgresStore struct {
	db *sql.DB
}

// NewPostgresStore creates a store over an existing database connection.
func NewPostgresStore(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

// FetchEntries loads the location projection for every active centre.
func (s *PostgresStore) FetchEntries(ctx context.Context) ([]Entry, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT centre_id, centre_name, COALESCE(slug, ''),
		       suburb, city, state, postcode, latitude, longitude
		FROM centre
		WHERE deleted_at IS NULL
		ORDER BY centre_id
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query centres: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var (
			e        Entry
			suburb   sql.NullString
			city     sql.NullString
			state    sql.NullString
			postcode sql.NullString
			lat      sql.NullFloat64
			lng      sql.NullFloat64
		)
		if err := rows.Scan(&e.CentreID, &e.CentreName, &e.Slug,
			&suburb, &city, &state, &postcode, &lat, &lng); err != nil {
			return nil, fmt.Errorf("failed to scan centre row: %w", err)
		}

		e.Suburb = nullableString(suburb)
		e.City = nullableString(city)
		e.State = nullableString(state)
		e.Postcode = nullableString(postcode)
		if lat.Valid {
			v := lat.Float64
			e.Latitude = &v
		}
		if lng.Valid {
			v := lng.Float64
			e.Longitude = &v
		}
		e.NormalizeCoordinates()

		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read centre rows: %w", err)
	}

	return entries, nil
}

func nullableString(ns sql.NullString) *string {
	if !ns.Valid {
		return nil
	}
	s := ns.String
	return &s
}
