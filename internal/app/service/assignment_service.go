package service

import (
	"context"

	"sqltester/internal/app/grading"
	"sqltester/internal/common"
	"sqltester/internal/domain/model"
	"sqltester/internal/domain/repository"

	"github.com/gosimple/slug"
	"go.uber.org/zap"
)

type AssignmentService struct {
	assignmentRepo repository.AssignmentRepository
	keyCache       KeyCache
	logger         *zap.Logger
}

func NewAssignmentService(
	assignmentRepo repository.AssignmentRepository,
	keyCache KeyCache,
	logger *zap.Logger,
) *AssignmentService {
	return &AssignmentService{
		assignmentRepo: assignmentRepo,
		keyCache:       keyCache,
		logger:         logger,
	}
}

type CreateAssignmentRequest struct {
	Name         string `json:"name"`
	Instructions string `json:"instructions"`
	AnswerKey    string `json:"answer_key"`
}

type UpdateAssignmentRequest struct {
	Name         *string `json:"name,omitempty"`
	Instructions *string `json:"instructions,omitempty"`
	AnswerKey    *string `json:"answer_key,omitempty"`
}

func (s *AssignmentService) Create(ctx context.Context, req CreateAssignmentRequest) (*model.Assignment, error) {
	if req.Name == "" || req.AnswerKey == "" {
		return nil, common.Errorf("name and answer_key are required: %w", common.ErrBadRequest)
	}
	// A key that the sandbox would refuse to run can never grade anyone.
	key := grading.Prepare(req.AnswerKey)
	if err := grading.Check(key); err != nil {
		return nil, common.Errorf("answer key: %w", err)
	}

	assignment := &model.Assignment{
		Name:         req.Name,
		Slug:         slug.Make(req.Name),
		Instructions: req.Instructions,
		AnswerKey:    key,
	}
	if err := s.assignmentRepo.Create(ctx, assignment); err != nil {
		return nil, common.Errorf("failed to create assignment: %w", err)
	}

	s.logger.Info("assignment created",
		zap.Int64("assignment_id", assignment.ID),
		zap.String("slug", assignment.Slug),
	)
	return assignment, nil
}

func (s *AssignmentService) Update(ctx context.Context, assignmentSlug string, req UpdateAssignmentRequest) (*model.Assignment, error) {
	assignment, err := s.assignmentRepo.FindBySlug(ctx, assignmentSlug)
	if err != nil {
		return nil, err
	}

	if req.Name != nil && *req.Name != "" {
		assignment.Name = *req.Name
		assignment.Slug = slug.Make(*req.Name)
	}
	if req.Instructions != nil {
		assignment.Instructions = *req.Instructions
	}
	if req.AnswerKey != nil {
		key := grading.Prepare(*req.AnswerKey)
		if err := grading.Check(key); err != nil {
			return nil, common.Errorf("answer key: %w", err)
		}
		assignment.AnswerKey = key
	}

	if err := s.assignmentRepo.Update(ctx, assignment); err != nil {
		return nil, common.Errorf("failed to update assignment: %w", err)
	}

	// The cached key result may describe the old answer key.
	if err := s.keyCache.Invalidate(ctx, assignment.ID); err != nil {
		s.logger.Warn("failed to invalidate key result cache",
			zap.Int64("assignment_id", assignment.ID),
			zap.Error(err),
		)
	}
	return assignment, nil
}

func (s *AssignmentService) Delete(ctx context.Context, assignmentSlug string) error {
	assignment, err := s.assignmentRepo.FindBySlug(ctx, assignmentSlug)
	if err != nil {
		return err
	}
	if err := s.assignmentRepo.Delete(ctx, assignment.ID); err != nil {
		return common.Errorf("failed to delete assignment: %w", err)
	}
	if err := s.keyCache.Invalidate(ctx, assignment.ID); err != nil {
		s.logger.Warn("failed to invalidate key result cache",
			zap.Int64("assignment_id", assignment.ID),
			zap.Error(err),
		)
	}
	return nil
}

// Get returns a single assignment; the answer key is stripped unless the
// caller is an admin.
func (s *AssignmentService) Get(ctx context.Context, assignmentSlug, role string) (*model.Assignment, error) {
	assignment, err := s.assignmentRepo.FindBySlug(ctx, assignmentSlug)
	if err != nil {
		return nil, err
	}
	if role != model.RoleAdmin {
		stripped := assignment.ForStudent()
		return &stripped, nil
	}
	return assignment, nil
}

func (s *AssignmentService) List(ctx context.Context, role string) ([]model.Assignment, error) {
	assignments, err := s.assignmentRepo.List(ctx)
	if err != nil {
		return nil, err
	}
	if role != model.RoleAdmin {
		for i := range assignments {
			assignments[i] = assignments[i].ForStudent()
		}
	}
	return assignments, nil
}
