// Package store persists search results and seen-listing tracking in
// SQLite. It is a caller-owned collaborator: the orchestrator hands its
// output to the caller, and only the caller decides whether to save it.
package store

import (
	"database/sql"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"github.com/jobsift/jobsift/internal/model"
)

// SQLiteStore saves listings and tracks seen external IDs across runs.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore opens (or creates) a SQLite database at dbPath and ensures
// the schema exists.
func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("opening sqlite db: %w", err)
	}

	// Verify the connection is alive.
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("pinging sqlite db: %w", err)
	}

	schema := `
	CREATE TABLE IF NOT EXISTS listings (
		external_id        TEXT PRIMARY KEY,
		source             TEXT NOT NULL,
		title              TEXT NOT NULL,
		company            TEXT,
		location           TEXT,
		url                TEXT,
		application_url    TEXT,
		is_remote          INTEGER NOT NULL DEFAULT 0,
		easy_apply         INTEGER NOT NULL DEFAULT 0,
		salary_min         INTEGER,
		salary_max         INTEGER,
		match_score        REAL NOT NULL DEFAULT 0,
		company_website    TEXT,
		contact_email      TEXT,
		contact_name       TEXT,
		contact_confidence TEXT,
		posted_at          DATETIME,
		saved_at           DATETIME DEFAULT CURRENT_TIMESTAMP
	);
	CREATE TABLE IF NOT EXISTS seen_listings (
		listing_id TEXT PRIMARY KEY,
		first_seen DATETIME DEFAULT CURRENT_TIMESTAMP
	);`
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}

	return &SQLiteStore{db: db}, nil
}

// SaveListings upserts listings by external ID. Re-saving a listing
// refreshes its score and contact fields.
func (s *SQLiteStore) SaveListings(listings []model.Listing) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("beginning save transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(`
		INSERT INTO listings (
			external_id, source, title, company, location, url,
			application_url, is_remote, easy_apply, salary_min, salary_max,
			match_score, company_website, contact_email, contact_name,
			contact_confidence, posted_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(external_id) DO UPDATE SET
			match_score        = excluded.match_score,
			company_website    = excluded.company_website,
			contact_email      = excluded.contact_email,
			contact_name       = excluded.contact_name,
			contact_confidence = excluded.contact_confidence`)
	if err != nil {
		return fmt.Errorf("preparing upsert: %w", err)
	}
	defer stmt.Close()

	for _, l := range listings {
		var contactEmail, contactName, contactConfidence string
		if l.Contact != nil {
			contactEmail = l.Contact.Email
			contactName = l.Contact.DisplayName
			contactConfidence = string(l.Contact.Confidence)
		}

		_, err := stmt.Exec(
			l.DedupKey(), l.Source, l.Title, l.Company, l.Location, l.URL,
			l.ApplicationURL, l.IsRemote, l.EasyApply, l.SalaryMin, l.SalaryMax,
			l.MatchScore, l.CompanyWebsite, contactEmail, contactName,
			contactConfidence, l.PostedAt,
		)
		if err != nil {
			return fmt.Errorf("saving listing %s: %w", l.DedupKey(), err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing save transaction: %w", err)
	}
	return nil
}

// Recent returns the n most recently saved listings, newest first.
func (s *SQLiteStore) Recent(n int) ([]model.Listing, error) {
	rows, err := s.db.Query(`
		SELECT external_id, source, title, company, location, url,
		       application_url, is_remote, easy_apply, salary_min, salary_max,
		       match_score, company_website, contact_email, contact_name,
		       contact_confidence, posted_at
		FROM listings ORDER BY saved_at DESC LIMIT ?`, n)
	if err != nil {
		return nil, fmt.Errorf("querying recent listings: %w", err)
	}
	defer rows.Close()

	var out []model.Listing
	for rows.Next() {
		var l model.Listing
		var contactEmail, contactName, contactConfidence sql.NullString
		err := rows.Scan(
			&l.ExternalID, &l.Source, &l.Title, &l.Company, &l.Location, &l.URL,
			&l.ApplicationURL, &l.IsRemote, &l.EasyApply, &l.SalaryMin, &l.SalaryMax,
			&l.MatchScore, &l.CompanyWebsite, &contactEmail, &contactName,
			&contactConfidence, &l.PostedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scanning listing row: %w", err)
		}
		if contactEmail.String != "" {
			l.Contact = &model.ContactRecord{
				Email:       contactEmail.String,
				DisplayName: contactName.String,
				Confidence:  model.Confidence(contactConfidence.String),
			}
		}
		out = append(out, l)
	}
	return out, rows.Err()
}

// HasSeen returns true if the given listing ID has already been recorded.
func (s *SQLiteStore) HasSeen(listingID string) (bool, error) {
	var exists int
	err := s.db.QueryRow("SELECT 1 FROM seen_listings WHERE listing_id = ?", listingID).Scan(&exists)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("checking seen status for %s: %w", listingID, err)
	}
	return true, nil
}

// MarkSeen records a listing ID as seen. If it already exists the call is a no-op.
func (s *SQLiteStore) MarkSeen(listingID string) error {
	_, err := s.db.Exec("INSERT OR IGNORE INTO seen_listings (listing_id) VALUES (?)", listingID)
	if err != nil {
		return fmt.Errorf("marking listing %s as seen: %w", listingID, err)
	}
	return nil
}

// Cleanup deletes seen-listing entries older than the given duration.
func (s *SQLiteStore) Cleanup(olderThan time.Duration) error {
	cutoff := time.Now().Add(-olderThan)
	_, err := s.db.Exec("DELETE FROM seen_listings WHERE first_seen < ?", cutoff)
	if err != nil {
		return fmt.Errorf("cleaning up seen listings older than %v: %w", olderThan, err)
	}
	return nil
}

// Close closes the underlying database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
