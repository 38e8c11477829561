// Package store provides an in-memory SQLite ledger for usage events and
// generated reports. Nothing outlives the process.
package store

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/cfohelper/cfohelper/internal/model"

	_ "modernc.org/sqlite" // register sqlite driver
)

// ErrNotFound is returned when a stored report does not exist.
var ErrNotFound = errors.New("not found")

// Ledger records usage events and generated reports.
type Ledger struct {
	db *sql.DB
}

// OpenMemory creates a fresh in-memory ledger.
func OpenMemory() (*Ledger, error) {
	db, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		return nil, fmt.Errorf("opening ledger db: %w", err)
	}
	// Every connection to :memory: is a separate database.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(schemaSQL); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}

	return &Ledger{db: db}, nil
}

// Close closes the ledger database, discarding its contents.
func (l *Ledger) Close() error {
	return l.db.Close()
}

// RecordEvent stores a usage event and returns it with its ID assigned.
func (l *Ledger) RecordEvent(kind model.AnalysisKind, prompt string, s model.Scenario, at time.Time) (model.UsageEvent, error) {
	res, err := l.db.Exec(`INSERT INTO usage_events
		(kind, prompt, spending_pct, hiring_count, pricing_pct, net_income, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		string(kind), prompt, s.SpendingPct, s.HiringCount, s.PricingPct, s.NetIncome(),
		at.UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return model.UsageEvent{}, fmt.Errorf("recording %s event: %w", kind, err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return model.UsageEvent{}, err
	}
	return model.UsageEvent{
		ID:        id,
		Kind:      kind,
		Prompt:    prompt,
		NetIncome: s.NetIncome(),
		Timestamp: at,
	}, nil
}

// Counts returns the number of recorded events per kind.
func (l *Ledger) Counts() (model.UsageCounts, error) {
	rows, err := l.db.Query("SELECT kind, COUNT(*) FROM usage_events GROUP BY kind")
	if err != nil {
		return model.UsageCounts{}, err
	}
	defer func() { _ = rows.Close() }()

	var counts model.UsageCounts
	for rows.Next() {
		var kind string
		var n int
		if err := rows.Scan(&kind, &n); err != nil {
			return model.UsageCounts{}, err
		}
		switch model.AnalysisKind(kind) {
		case model.KindAnalysis:
			counts.Scenarios = n
		case model.KindReport:
			counts.Reports = n
		}
	}
	return counts, rows.Err()
}

// RecentEvents returns up to limit events, newest first.
func (l *Ledger) RecentEvents(limit int) ([]model.UsageEvent, error) {
	rows, err := l.db.Query(`SELECT id, kind, prompt, net_income, created_at
		FROM usage_events ORDER BY id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var events []model.UsageEvent
	for rows.Next() {
		var ev model.UsageEvent
		var kind, created string
		var prompt sql.NullString
		if err := rows.Scan(&ev.ID, &kind, &prompt, &ev.NetIncome, &created); err != nil {
			return nil, err
		}
		ev.Kind = model.AnalysisKind(kind)
		if prompt.Valid {
			ev.Prompt = prompt.String
		}
		ev.Timestamp, _ = time.Parse(time.RFC3339Nano, created)
		events = append(events, ev)
	}
	return events, rows.Err()
}

// SaveReport stores an encoded report body under its ID.
func (l *Ledger) SaveReport(id, format string, body []byte, at time.Time) error {
	_, err := l.db.Exec(`INSERT OR REPLACE INTO reports (report_id, format, body, created_at)
		VALUES (?, ?, ?, ?)`, id, format, body, at.UTC().Format(time.RFC3339Nano))
	return err
}

// LoadReport returns the encoded body and format of a stored report.
func (l *Ledger) LoadReport(id string) ([]byte, string, error) {
	var body []byte
	var format string
	err := l.db.QueryRow("SELECT body, format FROM reports WHERE report_id = ?", id).Scan(&body, &format)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, "", ErrNotFound
	}
	return body, format, err
}

// Reset deletes every event and report.
func (l *Ledger) Reset() error {
	tx, err := l.db.Begin()
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.Exec("DELETE FROM usage_events"); err != nil {
		return err
	}
	if _, err := tx.Exec("DELETE FROM reports"); err != nil {
		return err
	}
	return tx.Commit()
}
