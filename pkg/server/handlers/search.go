package handlers

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/soundprediction/verity"
	"github.com/soundprediction/verity/pkg/cache"
	"github.com/soundprediction/verity/pkg/metrics"
	"github.com/soundprediction/verity/pkg/server/dto"
	"github.com/soundprediction/verity/pkg/types"
)

// SearchClient is what the search handler needs from a verity client.
type SearchClient interface {
	verity.Searcher
	verity.QueryRunner
}

// SearchHandler handles natural-language search requests
type SearchHandler struct {
	client  SearchClient
	cache   cache.Store
	metrics *metrics.Collector
	logger  *slog.Logger
	debug   bool

	// now stamps cached records
	now func() time.Time
}

// NewSearchHandler creates a new search handler. metrics may be nil.
func NewSearchHandler(client SearchClient, store cache.Store, m *metrics.Collector, logger *slog.Logger, debug bool) *SearchHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &SearchHandler{
		client:  client,
		cache:   store,
		metrics: m,
		logger:  logger,
		debug:   debug,
		now:     time.Now,
	}
}

// Search handles POST /search
func (h *SearchHandler) Search(c *gin.Context) {
	var req dto.SearchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeBadRequest(c, "invalid request body: "+err.Error())
		return
	}
	if err := dto.ValidateStruct(&req); err != nil {
		writeBadRequest(c, err.Error())
		return
	}

	start := time.Now()
	res, err := h.client.Search(c.Request.Context(), req.Prompt)
	if h.metrics != nil {
		n := 0
		if res != nil {
			n = len(res.Results)
		}
		h.metrics.RecordSearch(err, n, time.Since(start))
	}
	if err != nil {
		h.logger.Error("search failed", "prompt", req.Prompt, "error", err)
		writeError(c, err)
		return
	}

	results := res.Results
	if results == nil {
		results = []types.Scrap{}
	}

	searchID := uuid.NewString()
	if err := h.cache.Set(searchID, types.NewSearchRecord(res, h.now())); err != nil {
		h.logger.Warn("failed to cache search results", "error", err)
		searchID = ""
	} else if removed, err := h.cache.CleanOldEntries(); err != nil {
		h.logger.Warn("cache cleanup failed", "error", err)
	} else if removed > 0 {
		h.logger.Debug("cache cleanup removed expired entries", "count", removed)
	}

	c.JSON(http.StatusOK, dto.SearchResponse{
		SearchID:  searchID,
		Results:   results,
		QueryInfo: dto.NewQueryInfo(res.QueryInfo, h.debug),
	})
}

// Results handles GET /results?id=<searchId>
func (h *SearchHandler) Results(c *gin.Context) {
	q := dto.ResultsQuery{ID: c.Query("id")}
	if err := dto.ValidateStruct(&q); err != nil {
		writeBadRequest(c, "search ID is required")
		return
	}

	rec, err := h.cache.Get(q.ID)
	if h.metrics != nil {
		h.metrics.RecordCacheLookup(err == nil)
	}
	if err != nil {
		writeError(c, err)
		return
	}

	results := rec.Results
	if results == nil {
		results = []types.Scrap{}
	}
	c.JSON(http.StatusOK, dto.ResultsResponse{
		Results:   results,
		QueryInfo: dto.NewQueryInfo(rec.QueryInfo, h.debug),
	})
}

// DebugQuery handles POST /debug/query. The query goes through the same
// validator as generated queries.
func (h *SearchHandler) DebugQuery(c *gin.Context) {
	var req dto.DebugQueryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeBadRequest(c, "invalid request body: "+err.Error())
		return
	}
	if err := dto.ValidateStruct(&req); err != nil {
		writeBadRequest(c, err.Error())
		return
	}

	results, err := h.client.ExecuteValidated(c.Request.Context(), req.Query)
	if err != nil {
		writeError(c, err)
		return
	}

	resp := dto.NewScrapsResponse(results)
	resp.Query = req.Query
	c.JSON(http.StatusOK, resp)
}
