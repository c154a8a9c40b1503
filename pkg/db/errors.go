package db

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/lib/pq"
	"github.com/mattn/go-sqlite3"
)

const (
	pgUniqueViolation     = "23505"
	pgForeignKeyViolation = "23503"
	pgCheckViolation      = "23514"
)

func IsUniqueViolation(err error) bool {
	return pgCode(err) == pgUniqueViolation ||
		sqliteCode(err) == sqlite3.ErrConstraintUnique ||
		sqliteCode(err) == sqlite3.ErrConstraintPrimaryKey
}

func IsForeignKeyViolation(err error) bool {
	return pgCode(err) == pgForeignKeyViolation || sqliteCode(err) == sqlite3.ErrConstraintForeignKey
}

func IsCheckViolation(err error) bool {
	return pgCode(err) == pgCheckViolation || sqliteCode(err) == sqlite3.ErrConstraintCheck
}

func IsConstraintViolation(err error) bool {
	return IsUniqueViolation(err) || IsForeignKeyViolation(err) || IsCheckViolation(err)
}

func pgCode(err error) string {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return string(pqErr.Code)
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code
	}
	return ""
}

func sqliteCode(err error) sqlite3.ErrNoExtended {
	var sqliteErr sqlite3.Error
	if errors.As(err, &sqliteErr) {
		return sqliteErr.ExtendedCode
	}
	return -1
}
