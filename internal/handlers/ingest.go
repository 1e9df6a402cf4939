package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/sprachhaus/sprachhaus-backend/internal/ingest"
	"github.com/sprachhaus/sprachhaus-backend/internal/platform/redisdb"
)

// IngestHandler exposes the manual trigger for an ingestion run. The run is
// synchronous: the response is the run report itself.
type IngestHandler struct {
	deps  ingest.RunDeps
	input ingest.RunInput
}

func NewIngestHandler(deps ingest.RunDeps, input ingest.RunInput) *IngestHandler {
	return &IngestHandler{deps: deps, input: input}
}

func (h *IngestHandler) RunIngestion(c *gin.Context) {
	report, err := ingest.Run(c.Request.Context(), h.deps, h.input)
	if err != nil {
		if errors.Is(err, redisdb.ErrLockHeld) {
			RespondError(c, http.StatusConflict, "run_in_flight", err)
			return
		}
		var headerErr *ingest.HeaderError
		if errors.As(err, &headerErr) {
			RespondError(c, http.StatusUnprocessableEntity, "bad_sheet_header", err)
			return
		}
		RespondError(c, http.StatusInternalServerError, "ingest_failed", err)
		return
	}
	RespondOK(c, report)
}
