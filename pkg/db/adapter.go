package db

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"
	"strings"

	"github.com/sirupsen/logrus"

	"storefront/internal/domain"
)

// FetchMode selects what Run returns.
type FetchMode int

const (
	FetchNone FetchMode = iota // plain mutation, RowsAffected only
	FetchOne
	FetchAll
	FetchID // insert, returns the generated id
)

func (m FetchMode) String() string {
	switch m {
	case FetchNone:
		return "none"
	case FetchOne:
		return "one"
	case FetchAll:
		return "all"
	case FetchID:
		return "id"
	}
	return "mode(" + strconv.Itoa(int(m)) + ")"
}

type Result struct {
	Row          Row
	Rows         []Row
	ID           int64
	RowsAffected int64
}

type querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// Adapter runs '?'-placeholder queries against either backend and returns
// backend-independent rows. An Adapter returned by InTx is bound to that
// transaction.
type Adapter struct {
	db      *sql.DB
	q       querier
	inTx    bool
	dialect Dialect
	log     *logrus.Logger
}

func NewAdapter(database *sql.DB, dialect Dialect, logger *logrus.Logger) *Adapter {
	return &Adapter{
		db:      database,
		q:       database,
		dialect: dialect,
		log:     logger,
	}
}

func (a *Adapter) Dialect() Dialect { return a.dialect }

func (a *Adapter) Run(ctx context.Context, mode FetchMode, query string, args ...any) (Result, error) {
	q := Rebind(a.dialect, query)
	a.log.Debugf("DB: %s query: %s args: %v", mode, q, args)

	switch mode {
	case FetchNone:
		res, err := a.q.ExecContext(ctx, q, args...)
		if err != nil {
			return Result{}, a.wrap("exec", err)
		}
		n, err := res.RowsAffected()
		if err != nil {
			return Result{}, a.wrap("rows affected", err)
		}
		return Result{RowsAffected: n}, nil

	case FetchOne, FetchAll:
		limit := 0
		if mode == FetchOne {
			limit = 1
		}
		rows, err := a.q.QueryContext(ctx, q, args...)
		if err != nil {
			return Result{}, a.wrap("query", err)
		}
		defer rows.Close()
		list, err := scanRows(rows, limit)
		if err != nil {
			return Result{}, a.wrap("scan", err)
		}
		if mode == FetchAll {
			return Result{Rows: list}, nil
		}
		if len(list) == 0 {
			return Result{}, nil
		}
		return Result{Row: list[0]}, nil

	case FetchID:
		if a.dialect == DialectPostgres {
			q = returningID(q)
			var id int64
			if err := a.q.QueryRowContext(ctx, q, args...).Scan(&id); err != nil {
				return Result{}, a.wrap("insert", err)
			}
			return Result{ID: id, RowsAffected: 1}, nil
		}
		res, err := a.q.ExecContext(ctx, q, args...)
		if err != nil {
			return Result{}, a.wrap("insert", err)
		}
		id, err := res.LastInsertId()
		if err != nil {
			return Result{}, a.wrap("last insert id", err)
		}
		return Result{ID: id, RowsAffected: 1}, nil
	}

	return Result{}, fmt.Errorf("db: unknown fetch mode %v", mode)
}

func (a *Adapter) Exec(ctx context.Context, query string, args ...any) (int64, error) {
	res, err := a.Run(ctx, FetchNone, query, args...)
	return res.RowsAffected, err
}

// One returns nil, nil when the query yields no rows.
func (a *Adapter) One(ctx context.Context, query string, args ...any) (Row, error) {
	res, err := a.Run(ctx, FetchOne, query, args...)
	return res.Row, err
}

func (a *Adapter) All(ctx context.Context, query string, args ...any) ([]Row, error) {
	res, err := a.Run(ctx, FetchAll, query, args...)
	return res.Rows, err
}

func (a *Adapter) InsertID(ctx context.Context, query string, args ...any) (int64, error) {
	res, err := a.Run(ctx, FetchID, query, args...)
	return res.ID, err
}

// InTx runs fn in one transaction: commit when fn returns nil, rollback
// otherwise. Nested calls reuse the outer transaction.
func (a *Adapter) InTx(ctx context.Context, fn func(tx *Adapter) error) (err error) {
	if a.inTx {
		return fn(a)
	}

	tx, err := a.db.BeginTx(ctx, nil)
	if err != nil {
		return a.wrap("begin", err)
	}
	txa := &Adapter{db: a.db, q: tx, inTx: true, dialect: a.dialect, log: a.log}

	defer func() {
		if p := recover(); p != nil {
			a.log.Error("DB: Recovered from panic, rolling back transaction")
			_ = tx.Rollback()
			panic(p)
		}
	}()

	if err = fn(txa); err != nil {
		a.log.Warnf("DB: Rolling back transaction due to error: %v", err)
		if rbErr := tx.Rollback(); rbErr != nil {
			a.log.Errorf("DB: Failed to rollback transaction: %v", rbErr)
		}
		return err
	}
	if err = tx.Commit(); err != nil {
		return a.wrap("commit", err)
	}
	return nil
}

func (a *Adapter) Ping(ctx context.Context) error {
	if err := a.db.PingContext(ctx); err != nil {
		return a.wrap("ping", err)
	}
	return nil
}

// StringAgg renders the dialect's string aggregate of expr joined by sep.
func (a *Adapter) StringAgg(expr, sep string) string {
	lit := "'" + strings.ReplaceAll(sep, "'", "''") + "'"
	if a.dialect == DialectPostgres {
		return "STRING_AGG(" + expr + ", " + lit + ")"
	}
	return "GROUP_CONCAT(" + expr + ", " + lit + ")"
}

func (a *Adapter) wrap(op string, err error) error {
	a.log.Debugf("DB: %s failed: %v", op, err)
	return &domain.StorageError{Op: op, Err: err}
}

// Rebind rewrites '?' placeholders into the dialect's positional form.
// Question marks inside single-quoted literals, double-quoted identifiers
// and -- or /* */ comments are left alone.
func Rebind(dialect Dialect, query string) string {
	if dialect != DialectPostgres || !strings.Contains(query, "?") {
		return query
	}

	var b strings.Builder
	b.Grow(len(query) + 8)
	n := 0
	for i := 0; i < len(query); i++ {
		ch := query[i]
		switch {
		case ch == '\'' || ch == '"':
			end := strings.IndexByte(query[i+1:], ch)
			if end < 0 {
				b.WriteString(query[i:])
				return b.String()
			}
			b.WriteString(query[i : i+end+2])
			i += end + 1
		case ch == '-' && strings.HasPrefix(query[i:], "--"):
			end := strings.IndexByte(query[i:], '\n')
			if end < 0 {
				b.WriteString(query[i:])
				return b.String()
			}
			b.WriteString(query[i : i+end+1])
			i += end
		case ch == '/' && strings.HasPrefix(query[i:], "/*"):
			end := strings.Index(query[i+2:], "*/")
			if end < 0 {
				b.WriteString(query[i:])
				return b.String()
			}
			b.WriteString(query[i : i+end+4])
			i += end + 3
		case ch == '?':
			n++
			b.WriteByte('$')
			b.WriteString(strconv.Itoa(n))
		default:
			b.WriteByte(ch)
		}
	}
	return b.String()
}

// returningID appends RETURNING id to an INSERT for dialects without
// LastInsertId.
func returningID(query string) string {
	return strings.TrimRight(strings.TrimSpace(query), ";") + " RETURNING id"
}

func scanRows(rows *sql.Rows, limit int) ([]Row, error) {
	cols, err := rows.Columns()
	if err != nil {
		return nil, err
	}

	list := []Row{}
	for rows.Next() {
		values := make([]any, len(cols))
		ptrs := make([]any, len(cols))
		for i := range values {
			ptrs[i] = &values[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, err
		}
		row := make(Row, len(cols))
		for i, col := range cols {
			v := values[i]
			if b, ok := v.([]byte); ok {
				v = string(b)
			}
			row[col] = v
		}
		list = append(list, row)
		if limit > 0 && len(list) >= limit {
			break
		}
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return list, nil
}
