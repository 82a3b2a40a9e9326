package lstore

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"time"

	"github.com/ValentinKolb/timesman/lib/store"
	"github.com/golang-migrate/migrate/v4"
	migratesqlite "github.com/golang-migrate/migrate/v4/database/sqlite3"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/mattn/go-sqlite3"
)

//go:embed migrations/*.sql
var migrations embed.FS

type storeImpl struct {
	db   *sql.DB
	path string
}

// NewLocalStore opens (or creates) the SQLite database at path, applies all pending
// migrations and returns a store.IStore backed by it.
func NewLocalStore(path string) (store.IStore, error) {
	if path == "" {
		return nil, store.NewError(store.RetCInvalid, "sqlite store needs a database path")
	}

	dsn := fmt.Sprintf("file:%s?_foreign_keys=on&_busy_timeout=5000", path)
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, store.Errorf(store.RetCUnavailable, "open %s: %v", path, err)
	}
	db.SetMaxOpenConns(1) // sqlite
	db.SetConnMaxLifetime(0)

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, store.Errorf(store.RetCUnavailable, "open %s: %v", path, err)
	}

	if err := runMigrations(db); err != nil {
		_ = db.Close()
		return nil, store.Errorf(store.RetCUnavailable, "migrate %s: %v", path, err)
	}

	return &storeImpl{db: db, path: path}, nil
}

// NewLocalStoreFactory returns a store.Factory opening the database at path.
func NewLocalStoreFactory(path string) store.Factory {
	return func() (store.IStore, error) {
		return NewLocalStore(path)
	}
}

// runMigrations applies all embedded up migrations on db.
// The migrate instance is not closed since that would close db as well.
func runMigrations(db *sql.DB) error {
	src, err := iofs.New(migrations, "migrations")
	if err != nil {
		return err
	}
	defer src.Close()

	driver, err := migratesqlite.WithInstance(db, &migratesqlite.Config{})
	if err != nil {
		return err
	}

	m, err := migrate.NewWithInstance("iofs", src, "sqlite3", driver)
	if err != nil {
		return err
	}

	err = m.Up()
	if errors.Is(err, migrate.ErrNoChange) {
		return nil
	}
	return err
}

// --------------------------------------------------------------------------
// Interface Methods (docu see store/interface.go)
// --------------------------------------------------------------------------

func (s *storeImpl) ListCollections(ctx context.Context) ([]store.Collection, error) {
	if err := ctx.Err(); err != nil {
		return nil, wrapErr(err, "list collections")
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT id, title, created_at, updated_at FROM times ORDER BY id`)
	if err != nil {
		return nil, wrapErr(err, "list collections")
	}
	defer rows.Close()

	collections := make([]store.Collection, 0)
	for rows.Next() {
		c, err := scanCollection(rows)
		if err != nil {
			return nil, err
		}
		collections = append(collections, c)
	}
	if err := rows.Err(); err != nil {
		return nil, wrapErr(err, "list collections")
	}
	return collections, nil
}

func (s *storeImpl) CreateCollection(ctx context.Context, title string) (store.Collection, error) {
	if err := ctx.Err(); err != nil {
		return store.Collection{}, wrapErr(err, "create collection")
	}
	title, err := store.NormalizeTitle(title)
	if err != nil {
		return store.Collection{}, err
	}

	now := store.Now()
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO times (title, created_at) VALUES (?, ?)`, title, now.Unix())
	if err != nil {
		return store.Collection{}, wrapErr(err, fmt.Sprintf("create collection %q", title))
	}
	id, err := res.LastInsertId()
	if err != nil {
		return store.Collection{}, wrapErr(err, "create collection")
	}

	return store.Collection{
		ID:        uint64(id),
		Title:     title,
		CreatedAt: now,
	}, nil
}

func (s *storeImpl) LatestEntry(ctx context.Context, collectionID uint64) (store.Entry, bool, error) {
	if err := ctx.Err(); err != nil {
		return store.Entry{}, false, wrapErr(err, "latest entry")
	}
	if err := s.requireCollection(ctx, collectionID); err != nil {
		return store.Entry{}, false, err
	}

	row := s.db.QueryRowContext(ctx,
		`SELECT id, times_id, post, created_at FROM posts WHERE times_id = ? ORDER BY id DESC LIMIT 1`,
		collectionID)
	e, err := scanEntry(row)
	if errors.Is(err, sql.ErrNoRows) {
		return store.Entry{}, false, nil
	}
	if err != nil {
		return store.Entry{}, false, err
	}
	return e, true, nil
}

func (s *storeImpl) AppendEntry(ctx context.Context, collectionID uint64, body string) (store.Entry, error) {
	if err := ctx.Err(); err != nil {
		return store.Entry{}, wrapErr(err, "append entry")
	}
	body, err := store.NormalizeBody(body)
	if err != nil {
		return store.Entry{}, err
	}

	now := store.Now()
	var entry store.Entry
	err = s.withTx(ctx, func(tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx,
			`UPDATE times SET updated_at = ? WHERE id = ?`, now.Unix(), collectionID)
		if err != nil {
			return err
		}
		if n, err := res.RowsAffected(); err != nil {
			return err
		} else if n == 0 {
			return store.Errorf(store.RetCNotFound, "collection %d does not exist", collectionID)
		}

		res, err = tx.ExecContext(ctx,
			`INSERT INTO posts (times_id, post, created_at) VALUES (?, ?, ?)`,
			collectionID, body, now.Unix())
		if err != nil {
			return err
		}
		id, err := res.LastInsertId()
		if err != nil {
			return err
		}

		entry = store.Entry{
			ID:           uint64(id),
			CollectionID: collectionID,
			Body:         body,
			CreatedAt:    now,
		}
		return nil
	})
	if err != nil {
		return store.Entry{}, wrapErr(err, "append entry")
	}
	return entry, nil
}

func (s *storeImpl) ListEntries(ctx context.Context, collectionID uint64) ([]store.Entry, error) {
	if err := ctx.Err(); err != nil {
		return nil, wrapErr(err, "list entries")
	}
	if err := s.requireCollection(ctx, collectionID); err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT id, times_id, post, created_at FROM posts WHERE times_id = ? ORDER BY id`,
		collectionID)
	if err != nil {
		return nil, wrapErr(err, "list entries")
	}
	defer rows.Close()

	entries := make([]store.Entry, 0)
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, wrapErr(err, "list entries")
	}
	return entries, nil
}

func (s *storeImpl) Close() error {
	if err := s.db.Close(); err != nil {
		return store.Errorf(store.RetCInternalError, "close %s: %v", s.path, err)
	}
	return nil
}

// --------------------------------------------------------------------------
// Helper functions
// --------------------------------------------------------------------------

// withTx runs fn in a transaction, rolling back if fn fails.
func (s *storeImpl) withTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	if err := fn(tx); err != nil {
		_ = tx.Rollback()
		return err
	}
	return tx.Commit()
}

// requireCollection returns a RetCNotFound error if no collection with the id exists.
func (s *storeImpl) requireCollection(ctx context.Context, id uint64) error {
	var one int
	err := s.db.QueryRowContext(ctx, `SELECT 1 FROM times WHERE id = ?`, id).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return store.Errorf(store.RetCNotFound, "collection %d does not exist", id)
	}
	if err != nil {
		return wrapErr(err, "lookup collection")
	}
	return nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanCollection(row scanner) (store.Collection, error) {
	var (
		c         store.Collection
		id        int64
		createdAt int64
		updatedAt sql.NullInt64
	)
	if err := row.Scan(&id, &c.Title, &createdAt, &updatedAt); err != nil {
		return store.Collection{}, store.Errorf(store.RetCMalformed, "decode collection row: %v", err)
	}
	if id <= 0 {
		return store.Collection{}, store.Errorf(store.RetCMalformed, "invalid collection id %d", id)
	}
	c.ID = uint64(id)
	c.CreatedAt = time.Unix(createdAt, 0).UTC()
	if updatedAt.Valid {
		t := time.Unix(updatedAt.Int64, 0).UTC()
		c.UpdatedAt = &t
	}
	return c, nil
}

func scanEntry(row scanner) (store.Entry, error) {
	var (
		e         store.Entry
		id        int64
		timesID   int64
		createdAt int64
	)
	err := row.Scan(&id, &timesID, &e.Body, &createdAt)
	if errors.Is(err, sql.ErrNoRows) {
		return store.Entry{}, err
	}
	if err != nil {
		return store.Entry{}, store.Errorf(store.RetCMalformed, "decode entry row: %v", err)
	}
	e.ID = uint64(id)
	e.CollectionID = uint64(timesID)
	e.CreatedAt = time.Unix(createdAt, 0).UTC()
	return e, nil
}

// wrapErr converts a database error into a *store.Error.
// Errors that already are store errors are returned unchanged.
func wrapErr(err error, op string) error {
	var se *store.Error
	if errors.As(err, &se) {
		return se
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return store.Errorf(store.RetCUnavailable, "%s: %v", op, err)
	}
	var sqlErr sqlite3.Error
	if errors.As(err, &sqlErr) && sqlErr.Code == sqlite3.ErrConstraint {
		if sqlErr.ExtendedCode == sqlite3.ErrConstraintUnique {
			return store.Errorf(store.RetCConflict, "%s: already exists", op)
		}
		if sqlErr.ExtendedCode == sqlite3.ErrConstraintForeignKey {
			return store.Errorf(store.RetCNotFound, "%s: %v", op, err)
		}
	}
	return store.Errorf(store.RetCUnavailable, "%s: %v", op, err)
}
