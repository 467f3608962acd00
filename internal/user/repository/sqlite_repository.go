package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/AlibekovAA/puppies-api/internal/common/db"
	"github.com/AlibekovAA/puppies-api/internal/user/domain"
)

// SQLiteRepository stores created_at as unix nanoseconds.
type SQLiteRepository struct {
	db *sql.DB
}

func NewSQLiteRepository(sqlDB *sql.DB) *SQLiteRepository {
	return &SQLiteRepository{db: sqlDB}
}

func (r *SQLiteRepository) Create(ctx context.Context, user domain.User) error {
	start := time.Now()
	_, err := r.db.ExecContext(
		ctx,
		`INSERT INTO users (id, email, name, password_hash, created_at) VALUES (?, ?, ?, ?, ?)`,
		user.ID,
		user.Email,
		user.Name,
		user.PasswordHash,
		user.CreatedAt.UnixNano(),
	)
	if err != nil && db.IsUniqueViolation(err) {
		db.MeasureQueryDuration("create user", start)
		return ErrEmailAlreadyExists
	}
	return db.HandleExecError(err, "create user", start)
}

func (r *SQLiteRepository) FindByID(ctx context.Context, id string) (domain.User, error) {
	return r.findOne(ctx, "find user by id", `SELECT id, email, name, password_hash, created_at FROM users WHERE id = ?`, id)
}

func (r *SQLiteRepository) FindByEmail(ctx context.Context, email string) (domain.User, error) {
	return r.findOne(ctx, "find user by email", `SELECT id, email, name, password_hash, created_at FROM users WHERE email = ?`, email)
}

func (r *SQLiteRepository) findOne(ctx context.Context, operation, query, arg string) (domain.User, error) {
	start := time.Now()
	var user domain.User
	var createdAt int64
	err := r.db.QueryRowContext(ctx, query, arg).Scan(&user.ID, &user.Email, &user.Name, &user.PasswordHash, &createdAt)
	if err := db.HandleQueryError(err, ErrUserNotFound, operation, start); err != nil {
		return domain.User{}, err
	}
	user.CreatedAt = time.Unix(0, createdAt).UTC()
	return user, nil
}

func (r *SQLiteRepository) FindByIDs(ctx context.Context, ids []string) ([]domain.User, error) {
	if len(ids) == 0 {
		return []domain.User{}, nil
	}

	start := time.Now()
	query := `SELECT id, email, name, password_hash, created_at FROM users WHERE id IN (` + db.Placeholders(len(ids)) + `)`
	rows, err := r.db.QueryContext(ctx, query, db.StringArgs(ids)...)
	if err != nil {
		return nil, db.HandleQueryError(err, nil, "find users by ids", start)
	}
	defer rows.Close()

	users := make([]domain.User, 0, len(ids))
	for rows.Next() {
		var u domain.User
		var createdAt int64
		if err := rows.Scan(&u.ID, &u.Email, &u.Name, &u.PasswordHash, &createdAt); err != nil {
			return nil, db.HandleQueryError(err, nil, "scan user", start)
		}
		u.CreatedAt = time.Unix(0, createdAt).UTC()
		users = append(users, u)
	}
	if err := rows.Err(); err != nil {
		return nil, db.HandleQueryError(err, nil, "iterate users", start)
	}

	db.MeasureQueryDuration("find users by ids", start)
	return users, nil
}

func (r *SQLiteRepository) Exists(ctx context.Context, id string) (bool, error) {
	start := time.Now()
	var exists bool
	err := r.db.QueryRowContext(ctx, `SELECT EXISTS (SELECT 1 FROM users WHERE id = ?)`, id).Scan(&exists)
	if err != nil {
		return false, db.HandleQueryError(err, nil, "check user exists", start)
	}
	db.MeasureQueryDuration("check user exists", start)
	return exists, nil
}
