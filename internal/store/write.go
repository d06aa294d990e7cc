package store

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/cayleygraph/quad"
	"github.com/cayleygraph/quad/nquads"
)

// Add inserts statements into the store.
// Uses ON CONFLICT DO NOTHING for idempotency - duplicate statements are
// silently ignored. Returns the number of statements actually inserted.
//
// All statements are written in one transaction.
func (s *Store) Add(ctx context.Context, quads ...quad.Quad) (inserted int64, err error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("add: begin: %w", err)
	}
	defer func() {
		if err != nil {
			tx.Rollback()
		}
	}()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO quads (subject, predicate, object, graph)
		VALUES (?, ?, ?, ?)
		ON CONFLICT DO NOTHING
	`)
	if err != nil {
		return 0, fmt.Errorf("add: prepare: %w", err)
	}
	defer stmt.Close()

	for i, q := range quads {
		if !q.IsValid() {
			return 0, fmt.Errorf("add: statement %d is incomplete: %v", i, q)
		}
		res, err := stmt.ExecContext(ctx,
			encodeTerm(q.Subject),
			encodeTerm(q.Predicate),
			encodeTerm(q.Object),
			encodeTerm(q.Label),
		)
		if err != nil {
			return 0, fmt.Errorf("add: statement %d: %w", i, err)
		}
		n, err := res.RowsAffected()
		if err != nil {
			return 0, fmt.Errorf("add: statement %d: %w", i, err)
		}
		inserted += n
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("add: commit: %w", err)
	}
	return inserted, nil
}

// Load reads N-Quads from r and adds every statement to the store.
// Returns the number of statements read and the number inserted.
func (s *Store) Load(ctx context.Context, r io.Reader) (read, inserted int64, err error) {
	qr := nquads.NewReader(r, false)
	defer qr.Close()

	var batch []quad.Quad
	for {
		q, err := qr.ReadQuad()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return read, 0, fmt.Errorf("load: statement %d: %w", read+1, err)
		}
		batch = append(batch, q)
		read++
	}

	if len(batch) == 0 {
		return 0, 0, nil
	}

	inserted, err = s.Add(ctx, batch...)
	if err != nil {
		return read, 0, fmt.Errorf("load: %w", err)
	}
	return read, inserted, nil
}

// Dump writes every stored statement to w as N-Quads, in insertion order.
func (s *Store) Dump(ctx context.Context, w io.Writer) (int64, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT subject, predicate, object, graph
		FROM quads
		ORDER BY id ASC
	`)
	if err != nil {
		return 0, fmt.Errorf("dump: %w", err)
	}
	defer rows.Close()

	qw := nquads.NewWriter(w)
	var n int64
	for rows.Next() {
		q, err := scanQuad(rows)
		if err != nil {
			return n, fmt.Errorf("dump: %w", err)
		}
		if err := qw.WriteQuad(q); err != nil {
			return n, fmt.Errorf("dump: %w", err)
		}
		n++
	}
	if err := rows.Err(); err != nil {
		return n, fmt.Errorf("dump: %w", err)
	}
	return n, qw.Close()
}
