package store

import (
	"database/sql"
	"encoding/json"
	"fmt"

	_ "github.com/lib/pq"
	"github.com/rs/zerolog"
)

// pgStore maps each collection to rows in a single table, ordered by an
// explicit position column so load returns records in the order they were
// saved.
type pgStore struct {
	db  *sql.DB
	log zerolog.Logger
}

const pgSchema = `
CREATE TABLE IF NOT EXISTS collections (
    name     TEXT  NOT NULL,
    position INT   NOT NULL,
    record   JSONB NOT NULL,
    PRIMARY KEY (name, position)
)`

func openPostgres(dsn string, log zerolog.Logger) (Store, error) {
	if dsn == "" {
		return nil, fmt.Errorf("postgres store requires a DSN")
	}
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to DB: %w", err)
	}
	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping DB: %w", err)
	}
	if _, err := db.Exec(pgSchema); err != nil {
		return nil, fmt.Errorf("failed to ensure collections table: %w", err)
	}
	return &pgStore{db: db, log: log}, nil
}

func (s *pgStore) Load(name string, out any) error {
	rows, err := s.db.Query(`SELECT record FROM collections WHERE name=$1 ORDER BY position`, name)
	if err != nil {
		return err
	}
	defer rows.Close()

	var records []json.RawMessage
	for rows.Next() {
		var raw []byte
		if err := rows.Scan(&raw); err != nil {
			return err
		}
		records = append(records, json.RawMessage(raw))
	}
	if err := rows.Err(); err != nil {
		return err
	}
	if len(records) == 0 {
		return nil
	}

	combined, err := json.Marshal(records)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(combined, out); err != nil {
		s.log.Warn().Str("collection", name).Err(err).Msg("discarding undecodable collection rows")
		return nil
	}
	return nil
}

func (s *pgStore) Save(name string, v any) error {
	b, err := json.Marshal(v)
	if err != nil {
		return err
	}
	var records []json.RawMessage
	if err := json.Unmarshal(b, &records); err != nil {
		return fmt.Errorf("collection value must be a list: %w", err)
	}

	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`DELETE FROM collections WHERE name=$1`, name); err != nil {
		return err
	}
	for i, rec := range records {
		if _, err := tx.Exec(
			`INSERT INTO collections (name, position, record) VALUES ($1, $2, $3)`,
			name, i, []byte(rec),
		); err != nil {
			return err
		}
	}
	return tx.Commit()
}

func (s *pgStore) Close() error { return s.db.Close() }
