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

type GradeRepository interface {
	Get(ctx context.Context, assignmentID, userID int64) (*model.Grade, error)
	// UpsertBest reconciles a new score with the stored one in a single
	// statement: the stored grade only ever moves up. It reports the best
	// score on record afterwards and whether the store was mutated.
	UpsertBest(ctx context.Context, assignmentID, userID int64, score int) (best int, updated bool, err error)
	ListForUser(ctx context.Context, userID int64) ([]model.Grade, error)
	ListForAssignment(ctx context.Context, assignmentID int64) ([]model.Grade, error)
	Leaderboard(ctx context.Context, limit int) ([]model.LeaderboardEntry, error)
}

type pgGradeRepository struct {
	db *sql.DB
}

func NewPgGradeRepository(db *sql.DB) GradeRepository {
	return &pgGradeRepository{db: db}
}

func (r *pgGradeRepository) Get(ctx context.Context, assignmentID, userID int64) (*model.Grade, error) {
	query := `SELECT assignment_id, user_id, grade, updated_at
	          FROM grades WHERE assignment_id = $1 AND user_id = $2`
	g := &model.Grade{}
	err := r.db.QueryRowContext(ctx, query, assignmentID, userID).Scan(
		&g.AssignmentID, &g.UserID, &g.Grade, &g.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("pgGradeRepository.Get: %w", err)
	}
	return g, nil
}

func (r *pgGradeRepository) UpsertBest(ctx context.Context, assignmentID, userID int64, score int) (int, bool, error) {
	// The conditional DO UPDATE makes the whole check-then-write a single
	// atomic statement; concurrent submissions cannot lose an update.
	query := `INSERT INTO grades (assignment_id, user_id, grade)
	          VALUES ($1, $2, $3)
	          ON CONFLICT (assignment_id, user_id)
	          DO UPDATE SET grade = EXCLUDED.grade, updated_at = CURRENT_TIMESTAMP
	          WHERE grades.grade < EXCLUDED.grade
	          RETURNING grade`
	var best int
	err := r.db.QueryRowContext(ctx, query, assignmentID, userID, score).Scan(&best)
	if err == nil {
		return best, true, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23503" { // FK violation
			return 0, false, fmt.Errorf("assignment or user does not exist: %w", common.ErrNotFound)
		}
		return 0, false, fmt.Errorf("pgGradeRepository.UpsertBest: %w", err)
	}

	// No row came back: the pair already holds an equal or better grade.
	existing, err := r.Get(ctx, assignmentID, userID)
	if err != nil {
		return 0, false, fmt.Errorf("pgGradeRepository.UpsertBest: %w", err)
	}
	return existing.Grade, false, nil
}

func (r *pgGradeRepository) ListForUser(ctx context.Context, userID int64) ([]model.Grade, error) {
	query := `SELECT g.assignment_id, g.user_id, g.grade, g.updated_at, a.name
	          FROM grades g
	          JOIN assignments a ON a.id = g.assignment_id
	          WHERE g.user_id = $1
	          ORDER BY g.assignment_id`
	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("pgGradeRepository.ListForUser: %w", err)
	}
	defer rows.Close()

	var grades []model.Grade
	for rows.Next() {
		var g model.Grade
		if err := rows.Scan(&g.AssignmentID, &g.UserID, &g.Grade, &g.UpdatedAt, &g.AssignmentName); err != nil {
			return nil, fmt.Errorf("pgGradeRepository.ListForUser: %w", err)
		}
		grades = append(grades, g)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("pgGradeRepository.ListForUser: %w", err)
	}
	return grades, nil
}

func (r *pgGradeRepository) ListForAssignment(ctx context.Context, assignmentID int64) ([]model.Grade, error) {
	query := `SELECT g.assignment_id, g.user_id, g.grade, g.updated_at, u.username
	          FROM grades g
	          JOIN users u ON u.id = g.user_id
	          WHERE g.assignment_id = $1
	          ORDER BY g.grade DESC, u.username`
	rows, err := r.db.QueryContext(ctx, query, assignmentID)
	if err != nil {
		return nil, fmt.Errorf("pgGradeRepository.ListForAssignment: %w", err)
	}
	defer rows.Close()

	var grades []model.Grade
	for rows.Next() {
		var g model.Grade
		if err := rows.Scan(&g.AssignmentID, &g.UserID, &g.Grade, &g.UpdatedAt, &g.Username); err != nil {
			return nil, fmt.Errorf("pgGradeRepository.ListForAssignment: %w", err)
		}
		grades = append(grades, g)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("pgGradeRepository.ListForAssignment: %w", err)
	}
	return grades, nil
}

func (r *pgGradeRepository) Leaderboard(ctx context.Context, limit int) ([]model.LeaderboardEntry, error) {
	query := `SELECT u.id, u.username, COALESCE(SUM(g.grade), 0) AS total, COUNT(g.grade) AS graded
	          FROM users u
	          JOIN grades g ON g.user_id = u.id
	          GROUP BY u.id, u.username
	          ORDER BY total DESC, u.username
	          LIMIT $1`
	rows, err := r.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("pgGradeRepository.Leaderboard: %w", err)
	}
	defer rows.Close()

	var entries []model.LeaderboardEntry
	for rows.Next() {
		var e model.LeaderboardEntry
		if err := rows.Scan(&e.UserID, &e.Username, &e.TotalScore, &e.Graded); err != nil {
			return nil, fmt.Errorf("pgGradeRepository.Leaderboard: %w", err)
		}
		e.Rank = len(entries) + 1
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("pgGradeRepository.Leaderboard: %w", err)
	}
	return entries, nil
}
