package handlers

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/sprachhaus/sprachhaus-backend/internal/services"
)

type ProgressHandler struct {
	svc *services.ProgressService
}

func NewProgressHandler(svc *services.ProgressService) *ProgressHandler {
	return &ProgressHandler{svc: svc}
}

func (h *ProgressHandler) GetStudentProgress(c *gin.Context) {
	code := strings.TrimSpace(c.Param("code"))
	if code == "" {
		RespondError(c, http.StatusBadRequest, "invalid_request", fmt.Errorf("student code required"))
		return
	}
	level := strings.TrimSpace(c.Query("level"))

	report, err := h.svc.StudentProgress(c.Request.Context(), code, level)
	if err != nil {
		RespondError(c, http.StatusInternalServerError, "progress_failed", err)
		return
	}
	RespondOK(c, report)
}

func (h *ProgressHandler) GetReadiness(c *gin.Context) {
	code := strings.TrimSpace(c.Param("code"))
	if code == "" {
		RespondError(c, http.StatusBadRequest, "invalid_request", fmt.Errorf("student code required"))
		return
	}
	level := strings.TrimSpace(c.Query("level"))

	result, err := h.svc.Readiness(c.Request.Context(), code, level)
	if err != nil {
		RespondError(c, http.StatusInternalServerError, "readiness_failed", err)
		return
	}
	RespondOK(c, result)
}

func (h *ProgressHandler) GetLeaderboard(c *gin.Context) {
	level := strings.TrimSpace(c.Param("level"))
	if level == "" {
		RespondError(c, http.StatusBadRequest, "invalid_request", fmt.Errorf("level required"))
		return
	}

	rows, err := h.svc.Leaderboard(c.Request.Context(), level)
	if err != nil {
		RespondError(c, http.StatusInternalServerError, "leaderboard_failed", err)
		return
	}
	RespondOK(c, gin.H{"level": level, "rows": rows})
}
