package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/knakam/dance-analyzer/internal/repository/models"
)

// ErrNotFound is returned when a requested row does not exist.
var ErrNotFound = errors.New("not found")

type UserRepository struct {
	db *sql.DB
}

func NewUserRepository(db *sql.DB) *UserRepository {
	return &UserRepository{db: db}
}

func (r *UserRepository) CreateUser(ctx context.Context, u models.User) (int64, error) {
	genres, err := marshalList(u.PreferredGenres)
	if err != nil {
		return 0, fmt.Errorf("encode preferred genres: %w", err)
	}

	res, err := r.db.ExecContext(ctx, `
		INSERT INTO users (email, username, hashed_password, full_name, bio, dance_level, preferred_genres, is_active, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, 1, ?)`,
		u.Email, u.Username, u.HashedPassword, u.FullName, u.Bio, u.DanceLevel, genres, time.Now().UTC())
	if err != nil {
		return 0, fmt.Errorf("insert user: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("user insert id: %w", err)
	}
	return id, nil
}

func (r *UserRepository) GetUserByEmail(ctx context.Context, email string) (models.User, error) {
	return r.scanUser(r.db.QueryRowContext(ctx, userSelect+` WHERE email = ?`, email))
}

func (r *UserRepository) GetUserByID(ctx context.Context, id int64) (models.User, error) {
	return r.scanUser(r.db.QueryRowContext(ctx, userSelect+` WHERE id = ?`, id))
}

func (r *UserRepository) UpdateProfile(ctx context.Context, u models.User) error {
	genres, err := marshalList(u.PreferredGenres)
	if err != nil {
		return fmt.Errorf("encode preferred genres: %w", err)
	}

	res, err := r.db.ExecContext(ctx, `
		UPDATE users SET email = ?, full_name = ?, bio = ?, dance_level = ?, preferred_genres = ?
		WHERE id = ?`,
		u.Email, u.FullName, u.Bio, u.DanceLevel, genres, u.ID)
	if err != nil {
		return fmt.Errorf("update profile: %w", err)
	}
	return requireRow(res)
}

func (r *UserRepository) UpdatePassword(ctx context.Context, id int64, hashed string) error {
	res, err := r.db.ExecContext(ctx, `UPDATE users SET hashed_password = ? WHERE id = ?`, hashed, id)
	if err != nil {
		return fmt.Errorf("update password: %w", err)
	}
	return requireRow(res)
}

func (r *UserRepository) TouchLastLogin(ctx context.Context, id int64) error {
	_, err := r.db.ExecContext(ctx, `UPDATE users SET last_login_at = ? WHERE id = ?`, time.Now().UTC(), id)
	if err != nil {
		return fmt.Errorf("touch last login: %w", err)
	}
	return nil
}

const userSelect = `
	SELECT id, email, username, hashed_password, full_name, bio, dance_level, preferred_genres, is_active, created_at, last_login_at
	FROM users`

func (r *UserRepository) scanUser(row *sql.Row) (models.User, error) {
	var u models.User
	var genres string
	var lastLogin sql.NullTime

	err := row.Scan(&u.ID, &u.Email, &u.Username, &u.HashedPassword, &u.FullName, &u.Bio,
		&u.DanceLevel, &genres, &u.IsActive, &u.CreatedAt, &lastLogin)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.User{}, ErrNotFound
		}
		return models.User{}, fmt.Errorf("scan user: %w", err)
	}

	if u.PreferredGenres, err = unmarshalList(genres); err != nil {
		return models.User{}, fmt.Errorf("decode preferred genres: %w", err)
	}
	if lastLogin.Valid {
		t := lastLogin.Time
		u.LastLoginAt = &t
	}
	return u, nil
}

func requireRow(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func marshalList(list []string) (string, error) {
	if list == nil {
		list = []string{}
	}
	b, err := json.Marshal(list)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

func unmarshalList(raw string) ([]string, error) {
	if raw == "" {
		return []string{}, nil
	}
	var list []string
	if err := json.Unmarshal([]byte(raw), &list); err != nil {
		return nil, err
	}
	if list == nil {
		list = []string{}
	}
	return list, nil
}
