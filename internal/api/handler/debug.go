package handler

import (
	"net/http"
	"os"

	"github.com/gin-gonic/gin"
	"github.com/user/mleague-analyst/internal/models"
	"github.com/user/mleague-analyst/internal/repository"
	"go.uber.org/zap"
)

const debugSampleRows = 3

// DebugHandler reports what the cache currently holds.
type DebugHandler struct {
	inspector repository.CacheInspector
	dbPath    string
	logger    *zap.Logger
}

// NewDebugHandler creates a new DebugHandler.
func NewDebugHandler(inspector repository.CacheInspector, dbPath string, logger *zap.Logger) *DebugHandler {
	return &DebugHandler{inspector: inspector, dbPath: dbPath, logger: logger.Named("debug_handler")}
}

// DebugResponse is the body of GET /debug.
type DebugResponse struct {
	DBPath         string                       `json:"db_path"`
	DBExists       bool                         `json:"db_exists"`
	Counts         map[string]int64             `json:"counts,omitempty"`
	LatestGameDate string                       `json:"latest_game_date,omitempty"`
	Samples        map[string]*models.ResultSet `json:"samples,omitempty"`
	LatestRun      *models.IngestionRun         `json:"latest_run,omitempty"`
	Errors         []string                     `json:"errors,omitempty"`
}

// Debug collects file presence, row counts, the latest game date, sample
// rows and the last ingestion run. Partial failures are listed in errors.
func (h *DebugHandler) Debug(c *gin.Context) {
	resp := DebugResponse{DBPath: h.dbPath}

	if _, err := os.Stat(h.dbPath); err != nil {
		c.JSON(http.StatusOK, resp)
		return
	}
	resp.DBExists = true

	ctx := c.Request.Context()
	addErr := func(what string, err error) {
		h.logger.Warn("debug query failed", zap.String("what", what), zap.Error(err))
		resp.Errors = append(resp.Errors, what+": "+err.Error())
	}

	counts, err := h.inspector.Counts(ctx)
	if err != nil {
		addErr("counts", err)
	} else {
		resp.Counts = counts
	}

	if resp.LatestGameDate, err = h.inspector.LatestGameDate(ctx); err != nil {
		addErr("latest_game_date", err)
	}

	resp.Samples = make(map[string]*models.ResultSet)
	for _, table := range []string{"stats", "games", "team_ranking"} {
		rs, err := h.inspector.Sample(ctx, table, debugSampleRows)
		if err != nil {
			addErr("sample "+table, err)
			continue
		}
		resp.Samples[table] = rs
	}

	if resp.LatestRun, err = h.inspector.LatestRun(ctx); err != nil {
		addErr("latest_run", err)
	}

	c.JSON(http.StatusOK, resp)
}
