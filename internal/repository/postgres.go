package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

const maxTxAttempts = 3

// DBTX is satisfied by both *pgxpool.Pool and pgx.Tx.
type DBTX interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// pgQueries stitches the per-table repositories together over one DBTX.
type pgQueries struct {
	*UserRepository
	*PostRepository
	*FeedRepository
	*LikeRepository
	*CommentRepository
	*FollowRepository
	*SavedPostRepository
	*StoryRepository
	*NotificationRepository
}

func newPgQueries(conn DBTX) *pgQueries {
	return &pgQueries{
		UserRepository:         NewUserRepository(conn),
		PostRepository:         NewPostRepository(conn),
		FeedRepository:         NewFeedRepository(conn),
		LikeRepository:         NewLikeRepository(conn),
		CommentRepository:      NewCommentRepository(conn),
		FollowRepository:       NewFollowRepository(conn),
		SavedPostRepository:    NewSavedPostRepository(conn),
		StoryRepository:        NewStoryRepository(conn),
		NotificationRepository: NewNotificationRepository(conn),
	}
}

type PostgresStore struct {
	pool *pgxpool.Pool
}

func NewPostgresStore(pool *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

// Connect opens a pool for dsn and verifies it with a ping.
func Connect(ctx context.Context, dsn string) (*pgxpool.Pool, error) {
	cfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, err
	}
	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, err
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, err
	}
	return pool, nil
}

func (s *PostgresStore) View(ctx context.Context, fn func(q Queries) error) error {
	return fn(newPgQueries(s.pool))
}

// InTx runs fn in a serializable transaction and retries it when PostgreSQL
// aborts the transaction with a serialization failure.
func (s *PostgresStore) InTx(ctx context.Context, fn func(q Queries) error) error {
	var err error
	for attempt := 1; attempt <= maxTxAttempts; attempt++ {
		err = s.runTx(ctx, fn)
		if err == nil || !isSerializationFailure(err) {
			return err
		}
	}
	return err
}

func (s *PostgresStore) runTx(ctx context.Context, fn func(q Queries) error) (err error) {
	tx, err := s.pool.BeginTx(ctx, pgx.TxOptions{IsoLevel: pgx.Serializable})
	if err != nil {
		return err
	}

	defer func() {
		if p := recover(); p != nil {
			tx.Rollback(ctx)
			panic(p)
		} else if err != nil {
			tx.Rollback(ctx)
		} else {
			err = tx.Commit(ctx)
		}
	}()

	return fn(newPgQueries(tx))
}

func isSerializationFailure(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == pgerrcode.SerializationFailure || pgErr.Code == pgerrcode.DeadlockDetected
	}
	return false
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == pgerrcode.UniqueViolation
	}
	return false
}
