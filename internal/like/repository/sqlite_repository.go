package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/AlibekovAA/puppies-api/internal/common/db"
	"github.com/AlibekovAA/puppies-api/internal/like/domain"
)

type SQLiteRepository struct {
	db *sql.DB
}

func NewSQLiteRepository(sqlDB *sql.DB) *SQLiteRepository {
	return &SQLiteRepository{db: sqlDB}
}

func (r *SQLiteRepository) Insert(ctx context.Context, like domain.Like) (bool, error) {
	start := time.Now()
	res, err := r.db.ExecContext(
		ctx,
		`INSERT INTO likes (id, user_id, post_id, created_at)
		 VALUES (?, ?, ?, ?)
		 ON CONFLICT (user_id, post_id) DO NOTHING`,
		like.ID,
		like.UserID,
		like.PostID,
		like.CreatedAt.UnixNano(),
	)
	if err != nil {
		return false, db.HandleExecError(err, "insert like", start)
	}
	db.MeasureQueryDuration("insert like", start)
	n, err := res.RowsAffected()
	if err != nil {
		return false, db.HandleExecError(err, "insert like rows affected", start)
	}
	return n == 1, nil
}

func (r *SQLiteRepository) Delete(ctx context.Context, userID, postID string) (bool, error) {
	start := time.Now()
	res, err := r.db.ExecContext(ctx, `DELETE FROM likes WHERE user_id = ? AND post_id = ?`, userID, postID)
	if err != nil {
		return false, db.HandleExecError(err, "delete like", start)
	}
	db.MeasureQueryDuration("delete like", start)
	n, err := res.RowsAffected()
	if err != nil {
		return false, db.HandleExecError(err, "delete like rows affected", start)
	}
	return n > 0, nil
}

func (r *SQLiteRepository) Exists(ctx context.Context, userID, postID string) (bool, error) {
	n, err := r.count(ctx, "check like exists", `SELECT COUNT(*) FROM likes WHERE user_id = ? AND post_id = ?`, userID, postID)
	return n > 0, err
}

func (r *SQLiteRepository) CountByPost(ctx context.Context, postID string) (int64, error) {
	return r.count(ctx, "count likes by post", `SELECT COUNT(*) FROM likes WHERE post_id = ?`, postID)
}

func (r *SQLiteRepository) CountByUser(ctx context.Context, userID string) (int64, error) {
	return r.count(ctx, "count likes by user", `SELECT COUNT(*) FROM likes WHERE user_id = ?`, userID)
}

func (r *SQLiteRepository) FindByPostIDs(ctx context.Context, postIDs []string) ([]domain.Like, error) {
	if len(postIDs) == 0 {
		return []domain.Like{}, nil
	}

	start := time.Now()
	query := `SELECT id, user_id, post_id, created_at FROM likes WHERE post_id IN (` + db.Placeholders(len(postIDs)) + `)`
	rows, err := r.db.QueryContext(ctx, query, db.StringArgs(postIDs)...)
	if err != nil {
		return nil, db.HandleQueryError(err, nil, "find likes by post ids", start)
	}
	defer rows.Close()

	likes := make([]domain.Like, 0)
	for rows.Next() {
		var l domain.Like
		var createdAt int64
		if err := rows.Scan(&l.ID, &l.UserID, &l.PostID, &createdAt); err != nil {
			return nil, db.HandleQueryError(err, nil, "scan like", start)
		}
		l.CreatedAt = time.Unix(0, createdAt).UTC()
		likes = append(likes, l)
	}
	if err := rows.Err(); err != nil {
		return nil, db.HandleQueryError(err, nil, "iterate likes", start)
	}

	db.MeasureQueryDuration("find likes by post ids", start)
	return likes, nil
}

func (r *SQLiteRepository) count(ctx context.Context, operation, query string, args ...any) (int64, error) {
	start := time.Now()
	var n int64
	if err := r.db.QueryRowContext(ctx, query, args...).Scan(&n); err != nil {
		return 0, db.HandleQueryError(err, nil, operation, start)
	}
	db.MeasureQueryDuration(operation, start)
	return n, nil
}
