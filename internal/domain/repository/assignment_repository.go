package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"sqltester/internal/common"
	"sqltester/internal/domain/model"

	"github.com/jackc/pgx/v5/pgconn"
)

type AssignmentRepository interface {
	Create(ctx context.Context, a *model.Assignment) error
	Update(ctx context.Context, a *model.Assignment) error
	Delete(ctx context.Context, id int64) error
	FindByID(ctx context.Context, id int64) (*model.Assignment, error)
	FindBySlug(ctx context.Context, slug string) (*model.Assignment, error)
	List(ctx context.Context) ([]model.Assignment, error)
}

type pgAssignmentRepository struct {
	db *sql.DB
}

func NewPgAssignmentRepository(db *sql.DB) AssignmentRepository {
	return &pgAssignmentRepository{db: db}
}

func (r *pgAssignmentRepository) Create(ctx context.Context, a *model.Assignment) error {
	query := `INSERT INTO assignments (name, slug, instructions, answer_key)
	          VALUES ($1, $2, $3, $4)
	          RETURNING id, created_at, updated_at`
	err := r.db.QueryRowContext(ctx, query, a.Name, a.Slug, a.Instructions, a.AnswerKey).Scan(
		&a.ID, &a.CreatedAt, &a.UpdatedAt,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" { // Unique constraint for slug
			return fmt.Errorf("assignment with this slug already exists: %w", common.ErrConflict)
		}
		return fmt.Errorf("pgAssignmentRepository.Create: %w", err)
	}
	return nil
}

func (r *pgAssignmentRepository) Update(ctx context.Context, a *model.Assignment) error {
	query := `UPDATE assignments SET
	            name = $1, slug = $2, instructions = $3, answer_key = $4,
	            updated_at = CURRENT_TIMESTAMP
	          WHERE id = $5`
	res, err := r.db.ExecContext(ctx, query, a.Name, a.Slug, a.Instructions, a.AnswerKey, a.ID)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return fmt.Errorf("assignment with this slug already exists: %w", common.ErrConflict)
		}
		return fmt.Errorf("pgAssignmentRepository.Update: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return common.ErrNotFound
	}
	return nil
}

func (r *pgAssignmentRepository) Delete(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM assignments WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("pgAssignmentRepository.Delete: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return common.ErrNotFound
	}
	return nil
}

func (r *pgAssignmentRepository) FindByID(ctx context.Context, id int64) (*model.Assignment, error) {
	query := `SELECT id, name, slug, instructions, answer_key, created_at, updated_at
	          FROM assignments WHERE id = $1`
	return r.scanOne(r.db.QueryRowContext(ctx, query, id), "FindByID")
}

func (r *pgAssignmentRepository) FindBySlug(ctx context.Context, slug string) (*model.Assignment, error) {
	query := `SELECT id, name, slug, instructions, answer_key, created_at, updated_at
	          FROM assignments WHERE slug = $1`
	return r.scanOne(r.db.QueryRowContext(ctx, query, slug), "FindBySlug")
}

func (r *pgAssignmentRepository) scanOne(row *sql.Row, op string) (*model.Assignment, error) {
	a := &model.Assignment{}
	err := row.Scan(&a.ID, &a.Name, &a.Slug, &a.Instructions, &a.AnswerKey, &a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("pgAssignmentRepository.%s: %w", op, err)
	}
	return a, nil
}

func (r *pgAssignmentRepository) List(ctx context.Context) ([]model.Assignment, error) {
	query := `SELECT id, name, slug, instructions, answer_key, created_at, updated_at
	          FROM assignments ORDER BY id`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("pgAssignmentRepository.List: %w", err)
	}
	defer rows.Close()

	var assignments []model.Assignment
	for rows.Next() {
		var a model.Assignment
		if err := rows.Scan(&a.ID, &a.Name, &a.Slug, &a.Instructions, &a.AnswerKey, &a.CreatedAt, &a.UpdatedAt); err != nil {
			return nil, fmt.Errorf("pgAssignmentRepository.List: %w", err)
		}
		assignments = append(assignments, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("pgAssignmentRepository.List: %w", err)
	}
	return assignments, nil
}
