package handler

import (
	"encoding/json"
	"net/http"

	"sqltester/internal/api/middleware"
	"sqltester/internal/app/service"
	"sqltester/internal/common"

	"github.com/go-chi/chi/v5"
)

type AssignmentHandler struct {
	assignmentService *service.AssignmentService
}

func NewAssignmentHandler(as *service.AssignmentService) *AssignmentHandler {
	return &AssignmentHandler{assignmentService: as}
}

func (h *AssignmentHandler) RegisterRoutes(r chi.Router) {
	r.Get("/", h.listAssignments)                // GET /api/v1/assignments
	r.Get("/{assignmentSlug}", h.getAssignment)  // GET /api/v1/assignments/top-customers

	r.Group(func(adminRouter chi.Router) {
		adminRouter.Use(middleware.AdminOnly)
		adminRouter.Post("/", h.createAssignment)
		adminRouter.Put("/{assignmentSlug}", h.updateAssignment)
		adminRouter.Delete("/{assignmentSlug}", h.deleteAssignment)
	})
}

func (h *AssignmentHandler) createAssignment(w http.ResponseWriter, r *http.Request) {
	var req service.CreateAssignmentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		common.RespondWithError(w, http.StatusBadRequest, "Invalid request: "+err.Error())
		return
	}

	assignment, err := h.assignmentService.Create(r.Context(), req)
	if err != nil {
		common.RespondWithError(w, common.HTTPStatusFromError(err), err.Error())
		return
	}
	common.RespondWithJSON(w, http.StatusCreated, assignment)
}

func (h *AssignmentHandler) updateAssignment(w http.ResponseWriter, r *http.Request) {
	assignmentSlug := chi.URLParam(r, "assignmentSlug")

	var req service.UpdateAssignmentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		common.RespondWithError(w, http.StatusBadRequest, "Invalid request: "+err.Error())
		return
	}

	assignment, err := h.assignmentService.Update(r.Context(), assignmentSlug, req)
	if err != nil {
		common.RespondWithError(w, common.HTTPStatusFromError(err), err.Error())
		return
	}
	common.RespondWithJSON(w, http.StatusOK, assignment)
}

func (h *AssignmentHandler) deleteAssignment(w http.ResponseWriter, r *http.Request) {
	assignmentSlug := chi.URLParam(r, "assignmentSlug")

	if err := h.assignmentService.Delete(r.Context(), assignmentSlug); err != nil {
		common.RespondWithError(w, common.HTTPStatusFromError(err), err.Error())
		return
	}
	common.RespondWithJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

func (h *AssignmentHandler) listAssignments(w http.ResponseWriter, r *http.Request) {
	userRole, _ := middleware.GetUserRoleFromContext(r.Context())

	assignments, err := h.assignmentService.List(r.Context(), userRole)
	if err != nil {
		common.RespondWithError(w, common.HTTPStatusFromError(err), err.Error())
		return
	}
	common.RespondWithJSON(w, http.StatusOK, assignments)
}

func (h *AssignmentHandler) getAssignment(w http.ResponseWriter, r *http.Request) {
	assignmentSlug := chi.URLParam(r, "assignmentSlug")
	userRole, _ := middleware.GetUserRoleFromContext(r.Context())

	assignment, err := h.assignmentService.Get(r.Context(), assignmentSlug, userRole)
	if err != nil {
		common.RespondWithError(w, common.HTTPStatusFromError(err), err.Error())
		return
	}
	common.RespondWithJSON(w, http.StatusOK, assignment)
}
