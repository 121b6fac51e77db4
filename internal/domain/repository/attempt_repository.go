package repository

import (
	"context"
	"database/sql"
	"fmt"

	"sqltester/internal/domain/model"
)

type AttemptRepository interface {
	Record(ctx context.Context, attempt *model.Attempt) error
	ListForUserAssignment(ctx context.Context, assignmentID, userID int64, limit int) ([]model.Attempt, error)
}

type pgAttemptRepository struct {
	db *sql.DB
}

func NewPgAttemptRepository(db *sql.DB) AttemptRepository {
	return &pgAttemptRepository{db: db}
}

func (r *pgAttemptRepository) Record(ctx context.Context, attempt *model.Attempt) error {
	query := `INSERT INTO attempts (id, assignment_id, user_id, score)
	          VALUES ($1, $2, $3, $4)
	          RETURNING submitted_at`
	err := r.db.QueryRowContext(ctx, query, attempt.ID, attempt.AssignmentID, attempt.UserID, attempt.Score).
		Scan(&attempt.SubmittedAt)
	if err != nil {
		return fmt.Errorf("pgAttemptRepository.Record: %w", err)
	}
	return nil
}

func (r *pgAttemptRepository) ListForUserAssignment(ctx context.Context, assignmentID, userID int64, limit int) ([]model.Attempt, error) {
	query := `SELECT id, assignment_id, user_id, score, submitted_at
	          FROM attempts
	          WHERE assignment_id = $1 AND user_id = $2
	          ORDER BY submitted_at DESC
	          LIMIT $3`
	rows, err := r.db.QueryContext(ctx, query, assignmentID, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("pgAttemptRepository.ListForUserAssignment: %w", err)
	}
	defer rows.Close()

	var attempts []model.Attempt
	for rows.Next() {
		var a model.Attempt
		if err := rows.Scan(&a.ID, &a.AssignmentID, &a.UserID, &a.Score, &a.SubmittedAt); err != nil {
			return nil, fmt.Errorf("pgAttemptRepository.ListForUserAssignment: %w", err)
		}
		attempts = append(attempts, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("pgAttemptRepository.ListForUserAssignment: %w", err)
	}
	return attempts, nil
}
