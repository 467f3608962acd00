package repository

import (
	"context"
	"time"

	"github.com/jackc/pgx/v4/pgxpool"

	"github.com/AlibekovAA/puppies-api/internal/common/db"
	"github.com/AlibekovAA/puppies-api/internal/common/logger"
	"github.com/AlibekovAA/puppies-api/internal/like/domain"
)

type PgRepository struct {
	pool *pgxpool.Pool
	log  *logger.Logger
}

func NewPgRepository(pool *pgxpool.Pool, log *logger.Logger) *PgRepository {
	return &PgRepository{pool: pool, log: log}
}

func (r *PgRepository) Insert(ctx context.Context, like domain.Like) (bool, error) {
	var inserted bool
	err := db.RetryWithBackoff(ctx, r.log, db.DefaultRetryConfig, func() error {
		start := time.Now()
		tag, err := r.pool.Exec(
			ctx,
			`INSERT INTO likes (id, user_id, post_id, created_at)
			 VALUES ($1, $2, $3, $4)
			 ON CONFLICT (user_id, post_id) DO NOTHING`,
			like.ID,
			like.UserID,
			like.PostID,
			like.CreatedAt,
		)
		if err != nil {
			return db.HandleExecError(err, "insert like", start)
		}
		db.MeasureQueryDuration("insert like", start)
		inserted = tag.RowsAffected() == 1
		return nil
	})
	return inserted, err
}

func (r *PgRepository) Delete(ctx context.Context, userID, postID string) (bool, error) {
	start := time.Now()
	tag, err := r.pool.Exec(ctx, `DELETE FROM likes WHERE user_id = $1 AND post_id = $2`, userID, postID)
	if err != nil {
		return false, db.HandleExecError(err, "delete like", start)
	}
	db.MeasureQueryDuration("delete like", start)
	return tag.RowsAffected() > 0, nil
}

func (r *PgRepository) Exists(ctx context.Context, userID, postID string) (bool, error) {
	n, err := r.count(ctx, "check like exists", `SELECT COUNT(*) FROM likes WHERE user_id = $1 AND post_id = $2`, userID, postID)
	return n > 0, err
}

func (r *PgRepository) CountByPost(ctx context.Context, postID string) (int64, error) {
	return r.count(ctx, "count likes by post", `SELECT COUNT(*) FROM likes WHERE post_id = $1`, postID)
}

func (r *PgRepository) CountByUser(ctx context.Context, userID string) (int64, error) {
	return r.count(ctx, "count likes by user", `SELECT COUNT(*) FROM likes WHERE user_id = $1`, userID)
}

func (r *PgRepository) FindByPostIDs(ctx context.Context, postIDs []string) ([]domain.Like, error) {
	if len(postIDs) == 0 {
		return []domain.Like{}, nil
	}

	start := time.Now()
	rows, err := r.pool.Query(
		ctx,
		`SELECT id, user_id, post_id, created_at FROM likes WHERE post_id = ANY($1)`,
		postIDs,
	)
	if err != nil {
		return nil, db.HandleQueryError(err, nil, "find likes by post ids", start)
	}
	defer rows.Close()

	likes := make([]domain.Like, 0)
	for rows.Next() {
		var l domain.Like
		if err := rows.Scan(&l.ID, &l.UserID, &l.PostID, &l.CreatedAt); err != nil {
			return nil, db.HandleQueryError(err, nil, "scan like", start)
		}
		l.CreatedAt = l.CreatedAt.UTC()
		likes = append(likes, l)
	}
	if err := rows.Err(); err != nil {
		return nil, db.HandleQueryError(err, nil, "iterate likes", start)
	}

	db.MeasureQueryDuration("find likes by post ids", start)
	return likes, nil
}

func (r *PgRepository) count(ctx context.Context, operation, query string, args ...any) (int64, error) {
	start := time.Now()
	var n int64
	if err := r.pool.QueryRow(ctx, query, args...).Scan(&n); err != nil {
		return 0, db.HandleQueryError(err, nil, operation, start)
	}
	db.MeasureQueryDuration(operation, start)
	return n, nil
}
