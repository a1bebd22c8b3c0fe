package handler

import (
	"fmt"
	"log/slog"
	"net/http"

	"github.com/nochase/nochase/internal/ctxkeys"
	"github.com/nochase/nochase/internal/model"
	"github.com/nochase/nochase/internal/service"
)

type GoalHandler struct {
	goalService *service.GoalService
}

func NewGoalHandler(goalService *service.GoalService) *GoalHandler {
	return &GoalHandler{
		goalService: goalService,
	}
}

func (h *GoalHandler) List(w http.ResponseWriter, r *http.Request) {
	goals, err := h.goalService.Goals(r.Context(), ctxkeys.Identity(r.Context()))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, goals)
}

func (h *GoalHandler) Create(w http.ResponseWriter, r *http.Request) {
	identity := ctxkeys.Identity(r.Context())

	var input model.NewGoal
	err := decodeJSON(w, r, &input)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	goal, err := h.goalService.Create(r.Context(), identity, input)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	slog.Info("goal created", "user_id", identity.UserID, "goal_id", goal.ID, "target_days", goal.TargetDays)

	w.Header().Set("Location", "/api/goals/"+goal.ID)
	writeJSON(w, http.StatusCreated, goal)
}

func (h *GoalHandler) Detail(w http.ResponseWriter, r *http.Request) {
	detail, err := h.goalService.Detail(r.Context(), ctxkeys.Identity(r.Context()), r.PathValue("id"))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, detail)
}

func (h *GoalHandler) Update(w http.ResponseWriter, r *http.Request) {
	var patch model.GoalPatch
	err := decodeJSON(w, r, &patch)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	goal, err := h.goalService.Update(r.Context(), ctxkeys.Identity(r.Context()), r.PathValue("id"), patch)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, goal)
}

func (h *GoalHandler) Complete(w http.ResponseWriter, r *http.Request) {
	identity := ctxkeys.Identity(r.Context())

	goal, err := h.goalService.Complete(r.Context(), identity, r.PathValue("id"))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	slog.Info("goal completed", "user_id", identity.UserID, "goal_id", goal.ID)
	writeJSON(w, http.StatusOK, goal)
}

func (h *GoalHandler) Delete(w http.ResponseWriter, r *http.Request) {
	err := h.goalService.Delete(r.Context(), ctxkeys.Identity(r.Context()), r.PathValue("id"))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *GoalHandler) Summary(w http.ResponseWriter, r *http.Request) {
	summary, err := h.goalService.Summary(r.Context(), ctxkeys.Identity(r.Context()))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, summary)
}

// Export downloads all of the caller's goals as a JSON file.
func (h *GoalHandler) Export(w http.ResponseWriter, r *http.Request) {
	export, err := h.goalService.Export(r.Context(), ctxkeys.Identity(r.Context()))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	filename := fmt.Sprintf("nochase-goals-%s.json", export.ExportedAt.Format("2006-01-02"))
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	writeJSON(w, http.StatusOK, export)
}
