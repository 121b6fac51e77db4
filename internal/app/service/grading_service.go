package service

import (
	"context"

	"sqltester/internal/app/grading"
	"sqltester/internal/domain/model"
	"sqltester/internal/domain/repository"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// QueryRunner executes untrusted query text and returns rendered rows.
type QueryRunner interface {
	Run(ctx context.Context, query string) ([][]string, error)
}

// KeyCache caches the normalized answer-key result text per assignment.
type KeyCache interface {
	Get(ctx context.Context, assignmentID int64, keyQuery string) (string, bool, error)
	Set(ctx context.Context, assignmentID int64, keyQuery, normalized string) error
	Invalidate(ctx context.Context, assignmentID int64) error
}

type GradingService struct {
	assignmentRepo repository.AssignmentRepository
	gradeRepo      repository.GradeRepository
	attemptRepo    repository.AttemptRepository
	runner         QueryRunner
	keyCache       KeyCache
	logger         *zap.Logger
}

func NewGradingService(
	assignmentRepo repository.AssignmentRepository,
	gradeRepo repository.GradeRepository,
	attemptRepo repository.AttemptRepository,
	runner QueryRunner,
	keyCache KeyCache,
	logger *zap.Logger,
) *GradingService {
	return &GradingService{
		assignmentRepo: assignmentRepo,
		gradeRepo:      gradeRepo,
		attemptRepo:    attemptRepo,
		runner:         runner,
		keyCache:       keyCache,
		logger:         logger,
	}
}

// Submit runs a student's query, scores it against the assignment's
// answer key and reconciles the score with the stored grade. A query
// that fails to execute aborts grading and surfaces the engine's error;
// a failed grade write does not discard the computed score, the result
// just comes back unsaved.
func (s *GradingService) Submit(ctx context.Context, assignmentSlug string, userID int64, query string) (*model.GradeResult, error) {
	assignment, err := s.assignmentRepo.FindBySlug(ctx, assignmentSlug)
	if err != nil {
		return nil, err
	}

	rows, err := s.runner.Run(ctx, query)
	if err != nil {
		return nil, err
	}
	userText := grading.Normalize(rows)

	keyText, err := s.keyText(ctx, assignment)
	if err != nil {
		return nil, err
	}

	score := grading.Score(userText, keyText)
	result := &model.GradeResult{Score: score, Best: score, Saved: true}

	best, updated, err := s.gradeRepo.UpsertBest(ctx, assignment.ID, userID, score)
	if err != nil {
		s.logger.Error("failed to persist grade",
			zap.Int64("assignment_id", assignment.ID),
			zap.Int64("user_id", userID),
			zap.Int("score", score),
			zap.Error(err),
		)
		result.Saved = false
		result.SaveError = err.Error()
	} else {
		result.Best = best
		result.Updated = updated
	}

	s.recordAttempt(ctx, assignment.ID, userID, score)

	s.logger.Info("submission graded",
		zap.Int64("assignment_id", assignment.ID),
		zap.Int64("user_id", userID),
		zap.Int("score", score),
		zap.Int("best", result.Best),
		zap.Bool("updated", result.Updated),
	)
	return result, nil
}

// Test runs a query and returns its rendered output without grading or
// touching any store.
func (s *GradingService) Test(ctx context.Context, assignmentSlug string, query string) (string, error) {
	if _, err := s.assignmentRepo.FindBySlug(ctx, assignmentSlug); err != nil {
		return "", err
	}
	rows, err := s.runner.Run(ctx, query)
	if err != nil {
		return "", err
	}
	return grading.Normalize(rows), nil
}

// BestGrade returns the stored grade for the pair; common.ErrNotFound
// when the user has not been graded on the assignment yet.
func (s *GradingService) BestGrade(ctx context.Context, assignmentSlug string, userID int64) (*model.Grade, error) {
	assignment, err := s.assignmentRepo.FindBySlug(ctx, assignmentSlug)
	if err != nil {
		return nil, err
	}
	return s.gradeRepo.Get(ctx, assignment.ID, userID)
}

func (s *GradingService) MyGrades(ctx context.Context, userID int64) ([]model.Grade, error) {
	return s.gradeRepo.ListForUser(ctx, userID)
}

func (s *GradingService) AssignmentGrades(ctx context.Context, assignmentSlug string) ([]model.Grade, error) {
	assignment, err := s.assignmentRepo.FindBySlug(ctx, assignmentSlug)
	if err != nil {
		return nil, err
	}
	return s.gradeRepo.ListForAssignment(ctx, assignment.ID)
}

func (s *GradingService) Attempts(ctx context.Context, assignmentSlug string, userID int64, limit int) ([]model.Attempt, error) {
	assignment, err := s.assignmentRepo.FindBySlug(ctx, assignmentSlug)
	if err != nil {
		return nil, err
	}
	return s.attemptRepo.ListForUserAssignment(ctx, assignment.ID, userID, limit)
}

func (s *GradingService) Leaderboard(ctx context.Context, limit int) ([]model.LeaderboardEntry, error) {
	return s.gradeRepo.Leaderboard(ctx, limit)
}

// keyText produces the normalized answer-key result, from cache when
// possible. Cache trouble is logged and treated as a miss; the key query
// itself failing surfaces like any other execution error.
func (s *GradingService) keyText(ctx context.Context, assignment *model.Assignment) (string, error) {
	cached, ok, err := s.keyCache.Get(ctx, assignment.ID, assignment.AnswerKey)
	if err != nil {
		s.logger.Warn("key result cache lookup failed",
			zap.Int64("assignment_id", assignment.ID),
			zap.Error(err),
		)
	} else if ok {
		return cached, nil
	}

	rows, err := s.runner.Run(ctx, assignment.AnswerKey)
	if err != nil {
		return "", err
	}
	keyText := grading.Normalize(rows)

	if err := s.keyCache.Set(ctx, assignment.ID, assignment.AnswerKey, keyText); err != nil {
		s.logger.Warn("key result cache store failed",
			zap.Int64("assignment_id", assignment.ID),
			zap.Error(err),
		)
	}
	return keyText, nil
}

func (s *GradingService) recordAttempt(ctx context.Context, assignmentID, userID int64, score int) {
	attempt := &model.Attempt{
		ID:           uuid.NewString(),
		AssignmentID: assignmentID,
		UserID:       userID,
		Score:        score,
	}
	if err := s.attemptRepo.Record(ctx, attempt); err != nil {
		s.logger.Warn("failed to record attempt",
			zap.Int64("assignment_id", assignmentID),
			zap.Int64("user_id", userID),
			zap.Error(err),
		)
	}
}
