package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/AlibekovAA/puppies-api/internal/common/db"
	"github.com/AlibekovAA/puppies-api/internal/post/domain"
)

const sqlitePostColumns = `p.id, p.user_id, p.image_url, p.text_content, p.created_at`

type SQLiteRepository struct {
	db *sql.DB
}

func NewSQLiteRepository(sqlDB *sql.DB) *SQLiteRepository {
	return &SQLiteRepository{db: sqlDB}
}

func (r *SQLiteRepository) Create(ctx context.Context, post domain.Post) error {
	start := time.Now()
	_, err := r.db.ExecContext(
		ctx,
		`INSERT INTO posts (id, user_id, image_url, text_content, created_at) VALUES (?, ?, ?, ?, ?)`,
		post.ID,
		post.UserID,
		post.ImageURL,
		nullableText(post.TextContent),
		post.CreatedAt.UnixNano(),
	)
	return db.HandleExecError(err, "create post", start)
}

func (r *SQLiteRepository) FindByID(ctx context.Context, id string) (domain.Post, error) {
	start := time.Now()
	row := r.db.QueryRowContext(ctx, `SELECT `+sqlitePostColumns+` FROM posts p WHERE p.id = ?`, id)
	post, err := scanSQLitePost(row)
	if err := db.HandleQueryError(err, ErrPostNotFound, "find post by id", start); err != nil {
		return domain.Post{}, err
	}
	return post, nil
}

func (r *SQLiteRepository) Exists(ctx context.Context, id string) (bool, error) {
	n, err := r.count(ctx, "check post exists", `SELECT COUNT(*) FROM posts WHERE id = ?`, id)
	return n > 0, err
}

func (r *SQLiteRepository) CountAll(ctx context.Context) (int64, error) {
	return r.count(ctx, "count posts", `SELECT COUNT(*) FROM posts`)
}

func (r *SQLiteRepository) FindPage(ctx context.Context, limit, offset int) ([]domain.Post, error) {
	return r.list(ctx, "find posts page",
		`SELECT `+sqlitePostColumns+`
		 FROM posts p
		 ORDER BY p.created_at DESC, p.id DESC
		 LIMIT ? OFFSET ?`,
		limit, offset,
	)
}

func (r *SQLiteRepository) CountByUser(ctx context.Context, userID string) (int64, error) {
	return r.count(ctx, "count posts by user", `SELECT COUNT(*) FROM posts WHERE user_id = ?`, userID)
}

func (r *SQLiteRepository) FindPageByUser(ctx context.Context, userID string, limit, offset int) ([]domain.Post, error) {
	return r.list(ctx, "find posts page by user",
		`SELECT `+sqlitePostColumns+`
		 FROM posts p
		 WHERE p.user_id = ?
		 ORDER BY p.created_at DESC, p.id DESC
		 LIMIT ? OFFSET ?`,
		userID, limit, offset,
	)
}

func (r *SQLiteRepository) CountLikedBy(ctx context.Context, userID string) (int64, error) {
	return r.count(ctx, "count liked posts",
		`SELECT COUNT(*) FROM likes l JOIN posts p ON p.id = l.post_id WHERE l.user_id = ?`,
		userID,
	)
}

func (r *SQLiteRepository) FindPageLikedBy(ctx context.Context, userID string, limit, offset int) ([]domain.Post, error) {
	return r.list(ctx, "find liked posts page",
		`SELECT `+sqlitePostColumns+`
		 FROM likes l
		 JOIN posts p ON p.id = l.post_id
		 WHERE l.user_id = ?
		 ORDER BY l.created_at DESC, l.id DESC
		 LIMIT ? OFFSET ?`,
		userID, limit, offset,
	)
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

func (r *SQLiteRepository) list(ctx context.Context, operation, query string, args ...any) ([]domain.Post, error) {
	start := time.Now()
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, db.HandleQueryError(err, nil, operation, start)
	}
	defer rows.Close()

	posts := make([]domain.Post, 0)
	for rows.Next() {
		post, err := scanSQLitePost(rows)
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

type scanner interface {
	Scan(dest ...any) error
}

func scanSQLitePost(row scanner) (domain.Post, error) {
	var post domain.Post
	var text sql.NullString
	var createdAt int64
	if err := row.Scan(&post.ID, &post.UserID, &post.ImageURL, &text, &createdAt); err != nil {
		return domain.Post{}, err
	}
	post.TextContent = text.String
	post.CreatedAt = time.Unix(0, createdAt).UTC()
	return post, nil
}
