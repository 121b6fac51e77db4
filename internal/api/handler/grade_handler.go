package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"sqltester/internal/api/middleware"
	"sqltester/internal/app/service"
	"sqltester/internal/common"

	"github.com/go-chi/chi/v5"
)

type GradeHandler struct {
	gradingService *service.GradingService
}

func NewGradeHandler(gs *service.GradingService) *GradeHandler {
	return &GradeHandler{gradingService: gs}
}

// RegisterAssignmentRoutes mounts the per-assignment grading routes
// under /assignments/{assignmentSlug}.
func (h *GradeHandler) RegisterAssignmentRoutes(r chi.Router) {
	r.Post("/{assignmentSlug}/test", h.testQuery)
	r.Post("/{assignmentSlug}/submit", h.submitQuery)
	r.Get("/{assignmentSlug}/grade", h.myGrade)
	r.Get("/{assignmentSlug}/attempts", h.myAttempts)

	r.Group(func(adminRouter chi.Router) {
		adminRouter.Use(middleware.AdminOnly)
		adminRouter.Get("/{assignmentSlug}/grades", h.assignmentGrades)
	})
}

func (h *GradeHandler) RegisterGradeRoutes(r chi.Router) {
	r.Get("/me", h.myGrades)
	r.Get("/leaderboard", h.leaderboard)
}

type queryRequest struct {
	Query string `json:"query"`
}

func (h *GradeHandler) testQuery(w http.ResponseWriter, r *http.Request) {
	assignmentSlug := chi.URLParam(r, "assignmentSlug")

	var req queryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		common.RespondWithError(w, http.StatusBadRequest, "Invalid request: "+err.Error())
		return
	}

	output, err := h.gradingService.Test(r.Context(), assignmentSlug, req.Query)
	if err != nil {
		common.RespondWithError(w, common.HTTPStatusFromError(err), err.Error())
		return
	}
	common.RespondWithJSON(w, http.StatusOK, map[string]string{"output": output})
}

func (h *GradeHandler) submitQuery(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		common.RespondWithError(w, http.StatusUnauthorized, "Missing user context")
		return
	}
	assignmentSlug := chi.URLParam(r, "assignmentSlug")

	var req queryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		common.RespondWithError(w, http.StatusBadRequest, "Invalid request: "+err.Error())
		return
	}

	result, err := h.gradingService.Submit(r.Context(), assignmentSlug, userID, req.Query)
	if err != nil {
		common.RespondWithError(w, common.HTTPStatusFromError(err), err.Error())
		return
	}
	// The score is reported even when persisting it failed; the result
	// carries saved=false and the store error in that case.
	common.RespondWithJSON(w, http.StatusOK, result)
}

func (h *GradeHandler) myGrade(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		common.RespondWithError(w, http.StatusUnauthorized, "Missing user context")
		return
	}
	assignmentSlug := chi.URLParam(r, "assignmentSlug")

	grade, err := h.gradingService.BestGrade(r.Context(), assignmentSlug, userID)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			common.RespondWithError(w, http.StatusNotFound, "no grade recorded for this assignment yet")
			return
		}
		common.RespondWithError(w, common.HTTPStatusFromError(err), err.Error())
		return
	}
	common.RespondWithJSON(w, http.StatusOK, grade)
}

func (h *GradeHandler) myAttempts(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		common.RespondWithError(w, http.StatusUnauthorized, "Missing user context")
		return
	}
	assignmentSlug := chi.URLParam(r, "assignmentSlug")

	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	if limit <= 0 || limit > 100 {
		limit = 20
	}

	attempts, err := h.gradingService.Attempts(r.Context(), assignmentSlug, userID, limit)
	if err != nil {
		common.RespondWithError(w, common.HTTPStatusFromError(err), err.Error())
		return
	}
	common.RespondWithJSON(w, http.StatusOK, attempts)
}

func (h *GradeHandler) assignmentGrades(w http.ResponseWriter, r *http.Request) {
	assignmentSlug := chi.URLParam(r, "assignmentSlug")

	grades, err := h.gradingService.AssignmentGrades(r.Context(), assignmentSlug)
	if err != nil {
		common.RespondWithError(w, common.HTTPStatusFromError(err), err.Error())
		return
	}
	common.RespondWithJSON(w, http.StatusOK, grades)
}

func (h *GradeHandler) myGrades(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		common.RespondWithError(w, http.StatusUnauthorized, "Missing user context")
		return
	}

	grades, err := h.gradingService.MyGrades(r.Context(), userID)
	if err != nil {
		common.RespondWithError(w, common.HTTPStatusFromError(err), err.Error())
		return
	}
	common.RespondWithJSON(w, http.StatusOK, grades)
}

func (h *GradeHandler) leaderboard(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	if limit <= 0 || limit > 100 {
		limit = 25
	}

	entries, err := h.gradingService.Leaderboard(r.Context(), limit)
	if err != nil {
		common.RespondWithError(w, common.HTTPStatusFromError(err), err.Error())
		return
	}
	common.RespondWithJSON(w, http.StatusOK, entries)
}
