// AngelaMos | 2026
// database.go

package core

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"math/rand/v2"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"

	"github.com/bythepixel/propixel/internal/config"
)

const (
	pgUniqueViolation     = "23505"
	pgForeignKeyViolation = "23503"

	pingTimeout = 5 * time.Second
)

// Database is the sqlx pool over the pgx stdlib driver that every
// repository shares.
type Database struct {
	DB *sqlx.DB
}

func NewDatabase(ctx context.Context, cfg config.DatabaseConfig) (*Database, error) {
	db, err := sqlx.Open("pgx", cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	configurePool(db.DB, cfg)

	d := &Database{DB: db}
	if err := d.Ping(ctx); err != nil {
		_ = db.Close() //nolint:errcheck // the ping error is the one to report
		return nil, err
	}

	return d, nil
}

// configurePool applies the pool limits. Lifetimes get up to a seventh of
// extra jitter so connections opened together do not expire together.
func configurePool(db *sql.DB, cfg config.DatabaseConfig) {
	db.SetMaxOpenConns(cfg.MaxOpenConns)
	db.SetMaxIdleConns(cfg.MaxIdleConns)
	db.SetConnMaxLifetime(jitter(cfg.ConnMaxLifetime))
	db.SetConnMaxIdleTime(cfg.ConnMaxIdleTime)
}

func (d *Database) Ping(ctx context.Context) error {
	return pingWithin(ctx, "database", d.DB.PingContext)
}

func (d *Database) Stats() sql.DBStats {
	return d.DB.Stats()
}

func (d *Database) Close() error {
	if d == nil || d.DB == nil {
		return nil
	}
	return d.DB.Close()
}

// pingWithin bounds a health ping by pingTimeout even when ctx has no
// deadline of its own.
func pingWithin(ctx context.Context, name string, ping func(context.Context) error) error {
	ctx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()

	if err := ping(ctx); err != nil {
		return fmt.Errorf("ping %s: %w", name, err)
	}
	return nil
}

type DBTX interface {
	sqlx.ExtContext
	sqlx.ExecerContext
	GetContext(ctx context.Context, dest any, query string, args ...any) error
	SelectContext(
		ctx context.Context,
		dest any,
		query string,
		args ...any,
	) error
}

// InTx runs fn in a transaction, committing only when fn returns nil. A
// panic inside fn rolls back and is re-raised.
func InTx(ctx context.Context, db *sqlx.DB, fn func(tx *sqlx.Tx) error) (err error) {
	tx, err := db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}

	committed := false
	defer func() {
		if committed {
			return
		}
		if rbErr := tx.Rollback(); rbErr != nil && !errors.Is(rbErr, sql.ErrTxDone) && err != nil {
			err = fmt.Errorf("%w (rollback: %v)", err, rbErr)
		}
	}()

	if err = fn(tx); err != nil {
		return err
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	committed = true
	return nil
}

// TranslateError maps driver failures onto the store error set: missing
// rows become ErrNotFound, unique violations a *ConflictError and foreign
// key violations ErrInvalidReference. Other errors pass through unchanged.
func TranslateError(err error) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, sql.ErrNoRows) {
		return ErrNotFound
	}

	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return err
	}

	switch pgErr.Code {
	case pgUniqueViolation:
		return &ConflictError{
			Field:      constraintField(pgErr.TableName, pgErr.ConstraintName),
			Constraint: pgErr.ConstraintName,
		}
	case pgForeignKeyViolation:
		return fmt.Errorf("%w: %s", ErrInvalidReference, pgErr.ConstraintName)
	}

	return err
}

// constraintField recovers the column from postgres' default constraint
// naming, e.g. users_email_key -> email.
func constraintField(table, constraint string) string {
	name := constraint
	if table != "" {
		name = strings.TrimPrefix(name, table+"_")
	} else if i := strings.Index(name, "_"); i >= 0 {
		name = name[i+1:]
	}

	for _, suffix := range []string{"_key", "_idx", "_unique"} {
		if strings.HasSuffix(name, suffix) {
			return strings.TrimSuffix(name, suffix)
		}
	}

	return ""
}

func jitter(base time.Duration) time.Duration {
	if base <= 0 {
		return base
	}
	//nolint:gosec // G404: pool timing, not a secret
	return base + time.Duration(rand.Int64N(int64(base/7)+1))
}
