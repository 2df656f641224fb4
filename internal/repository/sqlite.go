package repository

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"io/fs"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/mattn/go-sqlite3"
	"github.com/pressly/goose/v3"

	"github.com/abrezinsky/hockeyscorer/internal/kvstore"
	"github.com/abrezinsky/hockeyscorer/internal/logger"
	"github.com/abrezinsky/hockeyscorer/internal/models"
)

//go:embed migrations/*.sql
var embedMigrations embed.FS

// Repository is the only component that touches the embedded database.
//
// The database lives in memory on a single connection. After every mutation
// the whole database is serialized and written to the key-value store under
// kvstore.KeyDatabase before the call returns. If that write fails the
// in-memory database is rolled back to the last image that was stored, so a
// failed call never leaves behind a change that a reload would not see.
type Repository struct {
	db     *sql.DB
	kv     kvstore.Store
	log    logger.Logger
	clock  clockwork.Clock
	settle time.Duration

	mu        sync.Mutex // serializes mutations and their persist
	lastImage []byte

	vacuum func(ctx context.Context, db *sql.DB) error
}

// New opens the repository from the image stored in kv, or creates a fresh
// schema-initialized store when there is no image or the image is corrupt.
// Only failures of kv itself or of the SQLite engine are returned.
func New(kv kvstore.Store, log logger.Logger, clock clockwork.Clock) (*Repository, error) {
	r := &Repository{
		kv:     kv,
		log:    log,
		clock:  clock,
		vacuum: vacuum,
	}
	if err := r.open(context.Background()); err != nil {
		return nil, err
	}
	return r, nil
}

// SetPersistSettle sets a pause taken after each persist before the
// mutating call returns.
func (r *Repository) SetPersistSettle(d time.Duration) {
	r.settle = d
}

// DB returns the underlying database connection
func (r *Repository) DB() *sql.DB {
	return r.db
}

// Close closes the database connection. Every mutation has already been
// persisted, so there is nothing to flush.
func (r *Repository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

// Ping checks if the database connection is alive
func (r *Repository) Ping(ctx context.Context) error {
	return r.db.PingContext(ctx)
}

// ImageSize returns the size in bytes of the last persisted image
func (r *Repository) ImageSize() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.lastImage)
}

func (r *Repository) open(ctx context.Context) error {
	stored, ok, err := r.kv.Get(kvstore.KeyDatabase)
	if err != nil {
		return fmt.Errorf("read stored database: %w", err)
	}

	if ok {
		db, raw, err := r.restore(ctx, stored)
		if err == nil {
			r.db = db
			r.lastImage = raw
			r.log.Info("Database restored", "bytes", len(raw))
			return nil
		}
		r.log.Warn("Stored database is unreadable, starting fresh", "error", err)
		if err := r.kv.Remove(kvstore.KeyDatabase); err != nil {
			return fmt.Errorf("discard corrupt database: %w", err)
		}
	}

	db, err := openMemory()
	if err != nil {
		return err
	}
	if _, err := migrate(ctx, db); err != nil {
		db.Close()
		return err
	}
	r.db = db
	r.log.Info("Database schema initialized")

	r.mu.Lock()
	defer r.mu.Unlock()
	return r.persistLocked(ctx)
}

// restore decodes a stored image into a new in-memory database and applies
// any pending migrations. Every failure here means the image is unusable.
func (r *Repository) restore(ctx context.Context, stored string) (*sql.DB, []byte, error) {
	raw, err := DecodeImage(stored)
	if err != nil {
		return nil, nil, err
	}

	db, err := openMemory()
	if err != nil {
		return nil, nil, err
	}
	if err := loadImage(ctx, db, raw); err != nil {
		db.Close()
		return nil, nil, err
	}
	applied, err := migrate(ctx, db)
	if err != nil {
		db.Close()
		return nil, nil, fmt.Errorf("%w: %v", ErrCorruptImage, err)
	}
	if applied > 0 {
		r.log.Info("Database migrated", "migrations", applied)
		raw, err = serialize(ctx, db)
		if err != nil {
			db.Close()
			return nil, nil, err
		}
	}
	return db, raw, nil
}

func openMemory() (*sql.DB, error) {
	db, err := sql.Open("sqlite3", ":memory:")
	if err != nil {
		return nil, err
	}

	// Every connection to :memory: is a separate database, so keep exactly one.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)
	db.SetConnMaxIdleTime(0)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, err
	}
	return db, nil
}

// migrate applies the embedded goose migrations and returns how many ran.
// The schema is therefore created exactly once, on a fresh store.
func migrate(ctx context.Context, db *sql.DB) (int, error) {
	fsys, err := fs.Sub(embedMigrations, "migrations")
	if err != nil {
		return 0, err
	}
	provider, err := goose.NewProvider(goose.DialectSQLite3, db, fsys)
	if err != nil {
		return 0, fmt.Errorf("failed to create migration provider: %w", err)
	}
	results, err := provider.Up(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to run migrations: %w", err)
	}
	return len(results), nil
}

// withDriverConn runs fn with the raw go-sqlite3 connection behind db
func withDriverConn(ctx context.Context, db *sql.DB, fn func(*sqlite3.SQLiteConn) error) error {
	conn, err := db.Conn(ctx)
	if err != nil {
		return err
	}
	defer conn.Close()

	return conn.Raw(func(driverConn any) error {
		sc, ok := driverConn.(*sqlite3.SQLiteConn)
		if !ok {
			return fmt.Errorf("unexpected driver connection %T", driverConn)
		}
		return fn(sc)
	})
}

func serialize(ctx context.Context, db *sql.DB) ([]byte, error) {
	var raw []byte
	err := withDriverConn(ctx, db, func(c *sqlite3.SQLiteConn) error {
		b, err := c.Serialize("main")
		if err != nil {
			return err
		}
		raw = b
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("serialize database: %w", err)
	}
	return raw, nil
}

// loadImage replaces the contents of dst with the database in raw.
//
// The image is deserialized into a throwaway staging connection and checked
// there, then copied into dst with the online backup API. dst stays a normal
// growable in-memory database, which a deserialized buffer is not.
func loadImage(ctx context.Context, dst *sql.DB, raw []byte) error {
	staging, err := openMemory()
	if err != nil {
		return err
	}
	defer staging.Close()

	err = withDriverConn(ctx, staging, func(c *sqlite3.SQLiteConn) error {
		return c.Deserialize(raw, "main")
	})
	if err != nil {
		return fmt.Errorf("%w: %v", ErrCorruptImage, err)
	}

	var check string
	if err := staging.QueryRowContext(ctx, `PRAGMA quick_check`).Scan(&check); err != nil {
		return fmt.Errorf("%w: %v", ErrCorruptImage, err)
	}
	if check != "ok" {
		return fmt.Errorf("%w: integrity check: %s", ErrCorruptImage, check)
	}

	err = withDriverConn(ctx, dst, func(dstConn *sqlite3.SQLiteConn) error {
		return withDriverConn(ctx, staging, func(srcConn *sqlite3.SQLiteConn) error {
			bk, err := dstConn.Backup("main", srcConn, "main")
			if err != nil {
				return err
			}
			for {
				done, err := bk.Step(-1)
				if err != nil {
					bk.Finish()
					return err
				}
				if done {
					break
				}
			}
			return bk.Finish()
		})
	})
	if err != nil {
		return fmt.Errorf("%w: backup: %v", ErrCorruptImage, err)
	}
	return nil
}

// persistLocked writes the whole database to the key-value store. On failure
// the in-memory database is rolled back to the last stored image.
// Caller must hold r.mu.
func (r *Repository) persistLocked(ctx context.Context) error {
	raw, err := serialize(ctx, r.db)
	if err == nil {
		err = r.kv.Set(kvstore.KeyDatabase, EncodeImage(raw))
	}
	if err != nil {
		r.rollbackLocked(ctx)
		return fmt.Errorf("persist database: %w", err)
	}
	r.lastImage = raw
	if r.settle > 0 {
		time.Sleep(r.settle)
	}
	return nil
}

func (r *Repository) rollbackLocked(ctx context.Context) {
	if r.lastImage == nil {
		return
	}
	if err := loadImage(ctx, r.db, r.lastImage); err != nil {
		r.log.Error("Failed to roll back to last stored database", "error", err)
		return
	}
	r.log.Warn("Rolled back unpersisted change")
}

// mutate runs fn in a transaction and persists the result before returning
func (r *Repository) mutate(ctx context.Context, fn func(tx *sql.Tx) error) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	if err := fn(tx); err != nil {
		tx.Rollback()
		return err
	}
	if err := tx.Commit(); err != nil {
		return err
	}
	return r.persistLocked(ctx)
}

func (r *Repository) now() string {
	return r.clock.Now().Format(models.TimestampLayout)
}
