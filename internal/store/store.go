// Package store persists calculation history to SQLite. It is an
// optional collaborator: the calculation path works with a nil store,
// and store failures never affect computation outcomes.
package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"go.uber.org/zap"
	_ "modernc.org/sqlite"

	"github.com/zakathq/zakatd/pkg/models"
)

// Record is one saved calculation.
type Record struct {
	ID               int64     `json:"id"`
	NisabBasis       string    `json:"nisab_basis"`
	TotalAssets      float64   `json:"total_assets"`
	TotalLiabilities float64   `json:"total_liabilities"`
	NetWealth        float64   `json:"net_wealth"`
	NisabThreshold   float64   `json:"nisab_threshold"`
	ZakatAmount      float64   `json:"zakat_amount"`
	Applicable       bool      `json:"is_zakat_applicable"`
	RateSource       string    `json:"rate_source"`
	CreatedAt        time.Time `json:"created_at"`
}

// Store wraps the SQLite handle.
type Store struct {
	db     *sql.DB
	logger *zap.Logger
}

const schema = `
CREATE TABLE IF NOT EXISTS calculations (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	nisab_basis TEXT NOT NULL,
	total_assets REAL NOT NULL,
	total_liabilities REAL NOT NULL,
	net_wealth REAL NOT NULL,
	nisab_threshold REAL NOT NULL,
	zakat_amount REAL NOT NULL,
	applicable BOOLEAN NOT NULL,
	rate_source TEXT NOT NULL,
	created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
);`

// Open opens (creating if needed) the history database at path.
func Open(path string, logger *zap.Logger) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open history db at %s: %w", path, err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("create calculations table: %w", err)
	}
	return &Store{db: db, logger: logger}, nil
}

// SaveResult records one calculation.
func (s *Store) SaveResult(ctx context.Context, res models.ZakatResult) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO calculations
			(nisab_basis, total_assets, total_liabilities, net_wealth,
			 nisab_threshold, zakat_amount, applicable, rate_source, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		res.NisabBasis, res.TotalAssets, res.TotalLiabilities, res.NetWealth,
		res.NisabThreshold, res.ZakatAmount, res.IsZakatApplicable,
		res.RatesUsed.Source, res.CalculationDate.UTC().Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("insert calculation: %w", err)
	}
	return nil
}

// Recent returns up to limit calculations, newest first.
func (s *Store) Recent(ctx context.Context, limit int) ([]Record, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, nisab_basis, total_assets, total_liabilities, net_wealth,
		       nisab_threshold, zakat_amount, applicable, rate_source, created_at
		FROM calculations ORDER BY id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("query calculations: %w", err)
	}
	defer rows.Close()

	var records []Record
	for rows.Next() {
		var r Record
		var created string
		if err := rows.Scan(&r.ID, &r.NisabBasis, &r.TotalAssets, &r.TotalLiabilities,
			&r.NetWealth, &r.NisabThreshold, &r.ZakatAmount, &r.Applicable,
			&r.RateSource, &created); err != nil {
			return nil, fmt.Errorf("scan calculation: %w", err)
		}
		if t, err := time.Parse(time.RFC3339, created); err == nil {
			r.CreatedAt = t
		}
		records = append(records, r)
	}
	return records, rows.Err()
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}
