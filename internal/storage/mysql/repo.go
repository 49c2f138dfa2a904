package mysql

import (
	"context"
	"database/sql"
	"errors"

	drv "github.com/go-sql-driver/mysql"

	"tranquidescanso/internal/domain"
)

func valStr(p *string) any {
	if p == nil {
		return nil
	}
	return *p
}
func valInt(p *int) any {
	if p == nil {
		return nil
	}
	return *p
}
func valInt64(p *int64) any {
	if p == nil {
		return nil
	}
	return *p
}
func valF64(p *float64) any {
	if p == nil {
		return nil
	}
	return *p
}

// queryer is satisfied by both *sql.DB and *sql.Tx.
type queryer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

type Repo struct{ db *sql.DB }

func New(db *sql.DB) *Repo { return &Repo{db: db} }

// withTx runs fn in a transaction that is rolled back on every path that
// does not reach the commit.
func (r *Repo) withTx(ctx context.Context, fn func(*sql.Tx) error) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	if err := fn(tx); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return err
	}
	committed = true
	return nil
}

// MySQL server error numbers surfaced as conflicts.
const (
	errDupEntry        = 1062
	errRowIsReferenced = 1451
	errNoReferencedRow = 1452
)

// classify maps constraint violations onto domain conflicts and leaves every
// other error untouched.
func classify(entity string, err error) error {
	if err == nil {
		return nil
	}
	var me *drv.MySQLError
	if errors.As(err, &me) {
		switch me.Number {
		case errDupEntry:
			return domain.Conflict(entity, "already exists", err)
		case errRowIsReferenced:
			return domain.Conflict(entity, "still referenced", err)
		case errNoReferencedRow:
			return domain.Conflict(entity, "references a missing row", err)
		}
	}
	return err
}

// exists runs a single-row probe and reports whether it matched.
func exists(ctx context.Context, q queryer, query string, args ...any) (bool, error) {
	var one int64
	err := q.QueryRowContext(ctx, query, args...).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	return err == nil, err
}

// updated resolves an UPDATE's outcome. MySQL reports changed rows, not
// matched ones, so zero affected rows is followed by an existence probe.
func updated(ctx context.Context, q queryer, res sql.Result, notFound error, probe string, args ...any) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n > 0 {
		return nil
	}
	ok, err := exists(ctx, q, probe, args...)
	if err != nil {
		return err
	}
	if !ok {
		return notFound
	}
	return nil
}

// deleted turns a zero-row DELETE into notFound.
func deleted(res sql.Result, notFound error) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return notFound
	}
	return nil
}
