package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/custodia-labs/docdupe/internal/core/domain"
	"github.com/custodia-labs/docdupe/internal/core/ports/driven"
)

// reportStore implements driven.ReportStore.
type reportStore struct {
	store *Store
}

var _ driven.ReportStore = (*reportStore)(nil)

// Save stores a report, replacing any report with the same ID.
func (s *reportStore) Save(ctx context.Context, report *domain.Report) error {
	if report == nil || report.ID == "" {
		return domain.ErrInvalidInput
	}

	return s.inTx(ctx, func(tx *sql.Tx) error {
		// Cascades clear the previous match and diagnostic rows.
		if _, err := tx.ExecContext(ctx, `DELETE FROM reports WHERE id = ?`, report.ID); err != nil {
			return fmt.Errorf("replacing report: %w", err)
		}

		res := &report.Result
		_, err := tx.ExecContext(ctx, `
			INSERT INTO reports (id, root, threshold, documents, created_at)
			VALUES (?, ?, ?, ?, ?)
		`, report.ID, res.Root, res.Threshold, res.Documents, report.CreatedAt.UTC().UnixNano())
		if err != nil {
			return fmt.Errorf("saving report: %w", err)
		}

		matchStmt, err := tx.PrepareContext(ctx, `
			INSERT INTO matches (report_id, position, doc_type, path_a, rel_path_a, path_b, rel_path_b, similarity, exact)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		`)
		if err != nil {
			return fmt.Errorf("preparing match insert: %w", err)
		}
		defer matchStmt.Close()

		for i, m := range res.Matches {
			_, err := matchStmt.ExecContext(ctx, report.ID, i, string(m.Type),
				m.PathA, m.RelPathA, m.PathB, m.RelPathB, m.Similarity, boolToInt(m.Exact))
			if err != nil {
				return fmt.Errorf("saving match %d: %w", i, err)
			}
		}

		diagStmt, err := tx.PrepareContext(ctx, `
			INSERT INTO diagnostics (report_id, position, kind, path, message)
			VALUES (?, ?, ?, ?, ?)
		`)
		if err != nil {
			return fmt.Errorf("preparing diagnostic insert: %w", err)
		}
		defer diagStmt.Close()

		for i, d := range res.Diagnostics {
			if _, err := diagStmt.ExecContext(ctx, report.ID, i, string(d.Kind), d.Path, d.Message); err != nil {
				return fmt.Errorf("saving diagnostic %d: %w", i, err)
			}
		}

		return nil
	})
}

// Get retrieves a report by ID.
func (s *reportStore) Get(ctx context.Context, id string) (*domain.Report, error) {
	row := s.store.db.QueryRowContext(ctx, `
		SELECT id, root, threshold, documents, created_at FROM reports WHERE id = ?
	`, id)
	return s.load(ctx, row)
}

// Latest returns the most recently created report.
func (s *reportStore) Latest(ctx context.Context) (*domain.Report, error) {
	row := s.store.db.QueryRowContext(ctx, `
		SELECT id, root, threshold, documents, created_at FROM reports
		ORDER BY created_at DESC, id DESC LIMIT 1
	`)
	return s.load(ctx, row)
}

// List returns summaries of all reports, newest first.
func (s *reportStore) List(ctx context.Context) ([]domain.ReportSummary, error) {
	rows, err := s.store.db.QueryContext(ctx, `
		SELECT r.id, r.root, r.threshold, r.documents, r.created_at,
			(SELECT COUNT(*) FROM matches m WHERE m.report_id = r.id),
			(SELECT COUNT(*) FROM diagnostics d WHERE d.report_id = r.id)
		FROM reports r
		ORDER BY r.created_at DESC, r.id DESC
	`)
	if err != nil {
		return nil, fmt.Errorf("querying reports: %w", err)
	}
	defer rows.Close()

	var summaries []domain.ReportSummary //nolint:prealloc // size unknown from query
	for rows.Next() {
		var (
			sum     domain.ReportSummary
			created int64
		)
		if err := rows.Scan(&sum.ID, &sum.Root, &sum.Threshold, &sum.Documents, &created,
			&sum.Matches, &sum.Diagnostics); err != nil {
			return nil, fmt.Errorf("scanning report: %w", err)
		}
		sum.CreatedAt = fromUnixNano(created)
		summaries = append(summaries, sum)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating reports: %w", err)
	}

	return summaries, nil
}

// Delete removes a report and its records.
func (s *reportStore) Delete(ctx context.Context, id string) error {
	res, err := s.store.db.ExecContext(ctx, `DELETE FROM reports WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting report: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("deleting report: %w", err)
	}
	if n == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// PurgePath removes match records referencing path from every report.
func (s *reportStore) PurgePath(ctx context.Context, path string) (int, error) {
	res, err := s.store.db.ExecContext(ctx, `
		DELETE FROM matches WHERE path_a = ? OR path_b = ?
	`, path, path)
	if err != nil {
		return 0, fmt.Errorf("purging path: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("purging path: %w", err)
	}
	return int(n), nil
}

// Prune keeps the newest keep reports. A non-positive keep deletes nothing.
func (s *reportStore) Prune(ctx context.Context, keep int) (int, error) {
	if keep <= 0 {
		return 0, nil
	}
	res, err := s.store.db.ExecContext(ctx, `
		DELETE FROM reports WHERE id NOT IN (
			SELECT id FROM reports ORDER BY created_at DESC, id DESC LIMIT ?
		)
	`, keep)
	if err != nil {
		return 0, fmt.Errorf("pruning reports: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("pruning reports: %w", err)
	}
	return int(n), nil
}

// load scans a report header row and attaches its records.
func (s *reportStore) load(ctx context.Context, row *sql.Row) (*domain.Report, error) {
	var (
		report  domain.Report
		created int64
	)
	res := &report.Result
	err := row.Scan(&report.ID, &res.Root, &res.Threshold, &res.Documents, &created)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scanning report: %w", err)
	}
	report.CreatedAt = fromUnixNano(created)

	if res.Matches, err = s.matches(ctx, report.ID); err != nil {
		return nil, err
	}
	if res.Diagnostics, err = s.diagnostics(ctx, report.ID); err != nil {
		return nil, err
	}
	return &report, nil
}

func (s *reportStore) matches(ctx context.Context, reportID string) ([]domain.MatchRecord, error) {
	rows, err := s.store.db.QueryContext(ctx, `
		SELECT doc_type, path_a, rel_path_a, path_b, rel_path_b, similarity, exact
		FROM matches WHERE report_id = ? ORDER BY position
	`, reportID)
	if err != nil {
		return nil, fmt.Errorf("querying matches: %w", err)
	}
	defer rows.Close()

	matches := []domain.MatchRecord{}
	for rows.Next() {
		var (
			m       domain.MatchRecord
			docType string
			exact   int
		)
		if err := rows.Scan(&docType, &m.PathA, &m.RelPathA, &m.PathB, &m.RelPathB, &m.Similarity, &exact); err != nil {
			return nil, fmt.Errorf("scanning match: %w", err)
		}
		m.Type = domain.DocumentType(docType)
		m.Exact = exact != 0
		matches = append(matches, m)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating matches: %w", err)
	}
	return matches, nil
}

func (s *reportStore) diagnostics(ctx context.Context, reportID string) ([]domain.Diagnostic, error) {
	rows, err := s.store.db.QueryContext(ctx, `
		SELECT kind, path, message FROM diagnostics WHERE report_id = ? ORDER BY position
	`, reportID)
	if err != nil {
		return nil, fmt.Errorf("querying diagnostics: %w", err)
	}
	defer rows.Close()

	var diags []domain.Diagnostic //nolint:prealloc // size unknown from query
	for rows.Next() {
		var (
			d    domain.Diagnostic
			kind string
		)
		if err := rows.Scan(&kind, &d.Path, &d.Message); err != nil {
			return nil, fmt.Errorf("scanning diagnostic: %w", err)
		}
		d.Kind = domain.DiagnosticKind(kind)
		diags = append(diags, d)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating diagnostics: %w", err)
	}
	return diags, nil
}

func (s *reportStore) inTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	tx, err := s.store.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	if err := fn(tx); err != nil {
		_ = tx.Rollback()
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}
	return nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

func fromUnixNano(n int64) time.Time {
	return time.Unix(0, n).UTC()
}
