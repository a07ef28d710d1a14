package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/huandu/go-sqlbuilder"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Clark-Hu/filmdb/internal/domain"
)

// table runs the single-statement writes shared by every entity table.
type table struct {
	pool *pgxpool.Pool
	name string
}

func (t table) insert(ctx context.Context, fields []domain.Assignment) (int64, error) {
	var (
		query string
		args  []interface{}
	)
	if len(fields) == 0 {
		query = fmt.Sprintf("INSERT INTO %s DEFAULT VALUES RETURNING id", t.name)
	} else {
		ib := sqlbuilder.PostgreSQL.NewInsertBuilder()
		ib.InsertInto(t.name)
		cols := make([]string, 0, len(fields))
		vals := make([]interface{}, 0, len(fields))
		for _, f := range fields {
			cols = append(cols, f.Column)
			vals = append(vals, f.Value)
		}
		ib.Cols(cols...)
		ib.Values(vals...)
		ib.SQL("RETURNING id")
		query, args = ib.Build()
	}

	var id int64
	if err := t.pool.QueryRow(ctx, query, args...).Scan(&id); err != nil {
		return 0, translateError(fmt.Sprintf("insert %s", t.name), err)
	}
	return id, nil
}

// update overwrites the given columns of one row. With no fields it only
// confirms the row exists.
func (t table) update(ctx context.Context, id int64, fields []domain.Assignment) error {
	if len(fields) == 0 {
		return t.exists(ctx, id)
	}

	ub := sqlbuilder.PostgreSQL.NewUpdateBuilder()
	ub.Update(t.name)
	assignments := make([]string, 0, len(fields))
	for _, f := range fields {
		assignments = append(assignments, ub.Assign(f.Column, f.Value))
	}
	ub.Set(assignments...)
	ub.Where(ub.Equal("id", id))
	ub.SQL("RETURNING id")

	query, args := ub.Build()
	var updated int64
	if err := t.pool.QueryRow(ctx, query, args...).Scan(&updated); err != nil {
		return translateError(fmt.Sprintf("update %s %d", t.name, id), err)
	}
	return nil
}

func (t table) delete(ctx context.Context, id int64) error {
	db := sqlbuilder.PostgreSQL.NewDeleteBuilder()
	db.DeleteFrom(t.name)
	db.Where(db.Equal("id", id))
	db.SQL("RETURNING id")

	query, args := db.Build()
	var deleted int64
	if err := t.pool.QueryRow(ctx, query, args...).Scan(&deleted); err != nil {
		return translateError(fmt.Sprintf("delete %s %d", t.name, id), err)
	}
	return nil
}

func (t table) exists(ctx context.Context, id int64) error {
	sb := sqlbuilder.PostgreSQL.NewSelectBuilder()
	sb.Select("id")
	sb.From(t.name)
	sb.Where(sb.Equal("id", id))

	query, args := sb.Build()
	var found int64
	if err := t.pool.QueryRow(ctx, query, args...).Scan(&found); err != nil {
		return translateError(fmt.Sprintf("get %s %d", t.name, id), err)
	}
	return nil
}

// Postgres error classes surfaced as repository sentinels.
const (
	pgForeignKeyViolation = "23503"
	pgStringTooLong       = "22001"
	pgNumericOutOfRange   = "22003"
	pgInvalidText         = "22P02"
)

func translateError(op string, err error) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return fmt.Errorf("%s: %w", op, ErrNotFound)
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgForeignKeyViolation:
			return fmt.Errorf("%s: %w: %s", op, ErrInvalidReference, pgErr.Detail)
		case pgStringTooLong, pgNumericOutOfRange, pgInvalidText:
			return fmt.Errorf("%s: %w: %s", op, ErrInvalidValue, pgErr.Message)
		}
	}
	return fmt.Errorf("%s: %w", op, err)
}
