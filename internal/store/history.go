package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

type historyRepo struct {
	db  *sql.DB
	seq *sequenceCounter
}

const solutionColumns = `id, sequence, created_at, problem, normalized, topic, answer,
	explanation, failed, error_kind, error_message, solve_time_us, source, payload`

func (r *historyRepo) Append(ctx context.Context, rec *SolutionRecord) error {
	if rec.ID == "" {
		return errors.New("append solution: missing id")
	}
	seq, err := r.seq.Next(ctx)
	if err != nil {
		return err
	}
	rec.Sequence = seq
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = time.Now()
	}
	if rec.Source == "" {
		rec.Source = SourceText
	}
	payload := string(rec.Payload)
	if payload == "" {
		payload = "{}"
	}

	_, err = r.db.ExecContext(ctx,
		`INSERT INTO solutions (`+solutionColumns+`)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		rec.ID, rec.Sequence, rec.CreatedAt.UnixMilli(), rec.Problem, rec.Normalized,
		rec.Topic, rec.Answer, rec.Explanation, rec.Failed, rec.ErrorKind,
		rec.ErrorMessage, rec.SolveTime.Microseconds(), rec.Source, payload,
	)
	if err != nil {
		return fmt.Errorf("insert solution: %w", err)
	}
	return nil
}

// Recent returns solutions newest first.
func (r *historyRepo) Recent(ctx context.Context, opts QueryOpts) ([]SolutionRecord, error) {
	where, args := buildWhere(opts)
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+solutionColumns+` FROM solutions`+where+
			` ORDER BY sequence DESC`+limitClause(opts.Limit), args...)
	if err != nil {
		return nil, fmt.Errorf("query solutions: %w", err)
	}
	defer rows.Close()

	var out []SolutionRecord
	for rows.Next() {
		rec, err := scanSolution(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *rec)
	}
	return out, rows.Err()
}

// Get returns the solution with the given id, or nil if none exists.
func (r *historyRepo) Get(ctx context.Context, id string) (*SolutionRecord, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+solutionColumns+` FROM solutions WHERE id = ?`, id)
	rec, err := scanSolution(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	return rec, err
}

// Prune keeps the newest keep solutions and deletes the rest.
func (r *historyRepo) Prune(ctx context.Context, keep int) (int64, error) {
	if keep < 0 {
		keep = 0
	}
	res, err := r.db.ExecContext(ctx,
		`DELETE FROM solutions WHERE id NOT IN (
			SELECT id FROM solutions ORDER BY sequence DESC LIMIT ?
		)`, keep)
	if err != nil {
		return 0, fmt.Errorf("prune solutions: %w", err)
	}
	return res.RowsAffected()
}

func (r *historyRepo) Clear(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM solutions`); err != nil {
		return fmt.Errorf("clear solutions: %w", err)
	}
	return nil
}

func (r *historyRepo) TopicCounts(ctx context.Context) ([]TopicCount, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT topic,
			SUM(CASE WHEN failed = 0 THEN 1 ELSE 0 END),
			SUM(CASE WHEN failed = 0 THEN 0 ELSE 1 END)
		 FROM solutions GROUP BY topic ORDER BY COUNT(*) DESC, topic`)
	if err != nil {
		return nil, fmt.Errorf("topic counts: %w", err)
	}
	defer rows.Close()

	var out []TopicCount
	for rows.Next() {
		var tc TopicCount
		if err := rows.Scan(&tc.Topic, &tc.Solved, &tc.Failed); err != nil {
			return nil, fmt.Errorf("scan topic count: %w", err)
		}
		out = append(out, tc)
	}
	return out, rows.Err()
}

func (r *historyRepo) Summary(ctx context.Context) (*HistorySummary, error) {
	var (
		s     HistorySummary
		avgUs sql.NullFloat64
	)
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*),
			COALESCE(SUM(CASE WHEN failed = 0 THEN 0 ELSE 1 END), 0),
			COALESCE(SUM(CASE WHEN source = 'image' THEN 1 ELSE 0 END), 0),
			AVG(CASE WHEN failed = 0 THEN solve_time_us END)
		 FROM solutions`,
	).Scan(&s.Total, &s.Failed, &s.Images, &avgUs)
	if err != nil {
		return nil, fmt.Errorf("history summary: %w", err)
	}
	if avgUs.Valid {
		s.AvgSolveTime = time.Duration(avgUs.Float64) * time.Microsecond
	}
	return &s, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanSolution(row rowScanner) (*SolutionRecord, error) {
	var (
		rec       SolutionRecord
		createdMs int64
		solveUs   int64
		payload   string
	)
	err := row.Scan(&rec.ID, &rec.Sequence, &createdMs, &rec.Problem, &rec.Normalized,
		&rec.Topic, &rec.Answer, &rec.Explanation, &rec.Failed, &rec.ErrorKind,
		&rec.ErrorMessage, &solveUs, &rec.Source, &payload)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scan solution: %w", err)
	}
	rec.CreatedAt = time.UnixMilli(createdMs)
	rec.SolveTime = time.Duration(solveUs) * time.Microsecond
	rec.Payload = []byte(payload)
	return &rec, nil
}
