package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"sqltester/internal/common"
	"sqltester/internal/domain/model"
)

// UserRepository is read-only: user rows are seeded out of band and the
// service never writes them.
type UserRepository interface {
	FindByUsername(ctx context.Context, username string) (*model.User, error)
	FindByUsernameAndRole(ctx context.Context, username, role string) (*model.User, error)
	FindByID(ctx context.Context, id int64) (*model.User, error)
}

type pgUserRepository struct {
	db *sql.DB
}

func NewPgUserRepository(db *sql.DB) UserRepository {
	return &pgUserRepository{db: db}
}

func (r *pgUserRepository) FindByUsername(ctx context.Context, username string) (*model.User, error) {
	query := `SELECT id, username, password, role FROM users WHERE username = $1`
	user := &model.User{}
	err := r.db.QueryRowContext(ctx, query, username).Scan(
		&user.ID, &user.Username, &user.PasswordHash, &user.Role,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("pgUserRepository.FindByUsername: %w", err)
	}
	return user, nil
}

func (r *pgUserRepository) FindByUsernameAndRole(ctx context.Context, username, role string) (*model.User, error) {
	query := `SELECT id, username, password, role FROM users WHERE username = $1 AND role = $2`
	user := &model.User{}
	err := r.db.QueryRowContext(ctx, query, username, role).Scan(
		&user.ID, &user.Username, &user.PasswordHash, &user.Role,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("pgUserRepository.FindByUsernameAndRole: %w", err)
	}
	return user, nil
}

func (r *pgUserRepository) FindByID(ctx context.Context, id int64) (*model.User, error) {
	query := `SELECT id, username, password, role FROM users WHERE id = $1`
	user := &model.User{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&user.ID, &user.Username, &user.PasswordHash, &user.Role,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("pgUserRepository.FindByID: %w", err)
	}
	return user, nil
}
