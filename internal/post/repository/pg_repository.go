package repository

import (
	"context"
	"database/sql"
	"time"

	pgx "github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"

	"github.com/AlibekovAA/puppies-api/internal/common/db"
	"github.com/AlibekovAA/puppies-api/internal/common/logger"
	"github.com/AlibekovAA/puppies-api/internal/post/domain"
)

const pgPostColumns = `p.id, p.user_id, p.image_url, p.text_content, p.created_at`

type PgRepository struct {
	pool *pgxpool.Pool
	log  *logger.Logger
}

func NewPgRepository(pool *pgxpool.Pool, log *logger.Logger) *PgRepository {
	return &PgRepository{pool: pool, log: log}
}

func (r *PgRepository) Create(ctx context.Context, post domain.Post) error {
	start := time.Now()
	_, err := r.pool.Exec(
		ctx,
		`INSERT INTO posts (id, user_id, image_url, text_content, created_at) VALUES ($1, $2, $3, $4, $5)`,
		post.ID,
		post.UserID,
		post.ImageURL,
		nullableText(post.TextContent),
		post.CreatedAt,
	)
	return db.HandleExecError(err, "create post", start)
}

func (r *PgRepository) FindByID(ctx context.Context, id string) (domain.Post, error) {
	var post domain.Post
	err := db.RetryWithBackoff(ctx, r.log, db.DefaultRetryConfig, func() error {
		start := time.Now()
		row := r.pool.QueryRow(ctx, `SELECT `+pgPostColumns+` FROM posts p WHERE p.id = $1`, id)
		var scanErr error
		post, scanErr = scanPgPost(row)
		return db.HandleQueryError(scanErr, ErrPostNotFound, "find post by id", start)
	})
	if err != nil {
		return domain.Post{}, err
	}
	return post, nil
}

func (r *PgRepository) Exists(ctx context.Context, id string) (bool, error) {
	n, err := r.count(ctx, "check post exists", `SELECT COUNT(*) FROM posts WHERE id = $1`, id)
	return n > 0, err
}

func (r *PgRepository) CountAll(ctx context.Context) (int64, error) {
	return r.count(ctx, "count posts", `SELECT COUNT(*) FROM posts`)
}

func (r *PgRepository) FindPage(ctx context.Context, limit, offset int) ([]domain.Post, error) {
	return r.list(ctx, "find posts page",
		`SELECT `+pgPostColumns+`
		 FROM posts p
		 ORDER BY p.created_at DESC, p.id DESC
		 LIMIT $1 OFFSET $2`,
		limit, offset,
	)
}

func (r *PgRepository) CountByUser(ctx context.Context, userID string) (int64, error) {
	return r.count(ctx, "count posts by user", `SELECT COUNT(*) FROM posts WHERE user_id = $1`, userID)
}

func (r *PgRepository) FindPageByUser(ctx context.Context, userID string, limit, offset int) ([]domain.Post, error) {
	return r.list(ctx, "find posts page by user",
		`SELECT `+pgPostColumns+`
		 FROM posts p
		 WHERE p.user_id = $1
		 ORDER BY p.created_at DESC, p.id DESC
		 LIMIT $2 OFFSET $3`,
		userID, limit, offset,
	)
}

func (r *PgRepository) CountLikedBy(ctx context.Context, userID string) (int64, error) {
	return r.count(ctx, "count liked posts",
		`SELECT COUNT(*) FROM likes l JOIN posts p ON p.id = l.post_id WHERE l.user_id = $1`,
		userID,
	)
}

func (r *PgRepository) FindPageLikedBy(ctx context.Context, userID string, limit, offset int) ([]domain.Post, error) {
	return r.list(ctx, "find liked posts page",
		`SELECT `+pgPostColumns+`
		 FROM likes l
		 JOIN posts p ON p.id = l.post_id
		 WHERE l.user_id = $1
		 ORDER BY l.created_at DESC, l.id DESC
		 LIMIT $2 OFFSET $3`,
		userID, limit, offset,
	)
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

func (r *PgRepository) list(ctx context.Context, operation, query string, args ...any) ([]domain.Post, error) {
	start := time.Now()
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, db.HandleQueryError(err, nil, operation, start)
	}
	defer rows.Close()

	posts := make([]domain.Post, 0)
	for rows.Next() {
		post, err := scanPgPost(rows)
		if err != nil {
			return nil, db.HandleQueryError(err, nil, operation, start)
		}
		posts = append(posts, post)
	}
	if err := rows.Err(); err != nil {
		return nil, db.HandleQueryError(err, nil, operation, start)
	}

	db.MeasureQueryDuration(operation, start)
	return posts, nil
}

func scanPgPost(row pgx.Row) (domain.Post, error) {
	var post domain.Post
	var text sql.NullString
	if err := row.Scan(&post.ID, &post.UserID, &post.ImageURL, &text, &post.CreatedAt); err != nil {
		return domain.Post{}, err
	}
	post.TextContent = text.String
	post.CreatedAt = post.CreatedAt.UTC()
	return post, nil
}

func nullableText(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
