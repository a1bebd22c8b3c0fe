package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/nochase/nochase/internal/breathing"
	"github.com/nochase/nochase/internal/model"
)

type BreathingHandler struct{}

func NewBreathingHandler() *BreathingHandler {
	return &BreathingHandler{}
}

type breathingResponse struct {
	Cycle           []breathing.PhaseSpec `json:"cycle"`
	CycleDurationMS int64                 `json:"cycle_duration_ms"`
	Step            *breathing.Step       `json:"step,omitempty"`
}

// Cycle describes the exercise. With ?elapsed_ms=N it also reports the step
// shown N milliseconds after starting.
func (h *BreathingHandler) Cycle(w http.ResponseWriter, r *http.Request) {
	resp := breathingResponse{
		Cycle:           breathing.Cycle(),
		CycleDurationMS: breathing.CycleDuration().Milliseconds(),
	}

	if raw := r.URL.Query().Get("elapsed_ms"); raw != "" {
		ms, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || ms < 0 {
			writeError(w, http.StatusBadRequest, model.CodeValidationFailed, "elapsed_ms must be a non-negative integer")
			return
		}
		step := breathing.PhaseAt(time.Duration(ms) * time.Millisecond)
		resp.Step = &step
	}

	writeJSON(w, http.StatusOK, resp)
}

func (h *BreathingHandler) Messages(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, breathing.Messages())
}
