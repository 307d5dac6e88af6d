package http

import (
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/go-chi/render"

	"github.com/Jtofah/pdsnd-github/internal/dataprocessing"
	apierrors "github.com/Jtofah/pdsnd-github/internal/errors"
	"github.com/Jtofah/pdsnd-github/internal/infrastructure"
	"github.com/Jtofah/pdsnd-github/internal/middleware"
	"github.com/Jtofah/pdsnd-github/pkg/contracts"
	api "github.com/Jtofah/pdsnd-github/pkg/contracts/api/v1"
)

// StatsHandler serves the analytics endpoints
type StatsHandler struct {
	service      *StatsService
	validator    *middleware.Validator
	errorHandler *apierrors.ErrorHandler
	metrics      *infrastructure.AnalyticsMetrics
	logger       *slog.Logger
}

// NewStatsHandler creates the handler. metrics may be nil.
func NewStatsHandler(service *StatsService, errorHandler *apierrors.ErrorHandler, metrics *infrastructure.AnalyticsMetrics, logger *slog.Logger) *StatsHandler {
	return &StatsHandler{
		service:      service,
		validator:    middleware.NewValidator(),
		errorHandler: errorHandler,
		metrics:      metrics,
		logger:       logger.With(slog.String("component", "stats_handler")),
	}
}

// Health handles GET /healthz
func (h *StatsHandler) Health(w http.ResponseWriter, r *http.Request) {
	render.JSON(w, r, api.HealthResponse{Status: "ok", Version: contracts.Version})
}

// Cities handles GET /api/v1/cities
func (h *StatsHandler) Cities(w http.ResponseWriter, r *http.Request) {
	render.JSON(w, r, api.CitiesResponse{
		Cities:   h.service.Cities(),
		Datasets: datasetResponses(h.service.Datasets()),
	})
}

// Stats handles GET /api/v1/stats
func (h *StatsHandler) Stats(w http.ResponseWriter, r *http.Request) {
	req := api.StatsRequest{SelectionRequest: bindSelection(r.URL.Query())}
	if err := h.validator.ValidateStruct(req); err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	ctx := r.Context()
	result, err := h.service.Load(ctx, req.SelectionRequest)
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	summary := dataprocessing.Summarize(ctx, result.Table, h.metrics)
	if err := ctx.Err(); err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	h.logger.DebugContext(ctx, "Stats computed",
		slog.String("city", result.City),
		slog.String("criteria", result.Criteria.String()),
		slog.Int("rows", result.Table.Len()))

	render.JSON(w, r, statsResponse(result, summary, infrastructure.TraceIDFromContext(ctx)))
}

// Rows handles GET /api/v1/rows
func (h *StatsHandler) Rows(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	page, err := parsePage(query.Get("page"))
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	req := api.RowsRequest{SelectionRequest: bindSelection(query), Page: page}
	if err := h.validator.ValidateStruct(req); err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	result, err := h.service.Load(r.Context(), req.SelectionRequest)
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	records := dataprocessing.Page(result.Table, req.Page)
	render.JSON(w, r, api.RowsResponse{
		Selection: selectionResponse(result),
		Page:      req.Page,
		PageSize:  dataprocessing.PageSize,
		Rows:      tripRows(result.Table.Schema(), records),
		HasMore:   (req.Page+1)*dataprocessing.PageSize < result.Table.Len(),
	})
}

func bindSelection(query url.Values) api.SelectionRequest {
	sel := api.SelectionRequest{
		City:  query.Get("city"),
		Month: query.Get("month"),
		Day:   query.Get("day"),
	}
	sel.Normalize()
	return sel
}

func parsePage(raw string) (int, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, nil
	}
	page, err := strconv.Atoi(raw)
	if err != nil {
		return 0, apierrors.NewValidationErrors([]apierrors.ValidationError{
			{Field: "page", Message: "page must be a whole number"},
		})
	}
	return page, nil
}
