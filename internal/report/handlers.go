package report

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"time"

	validator "github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/noah-isme/sales-report/internal/common"
	"github.com/noah-isme/sales-report/internal/obs"
)

// Handler exposes the sales report endpoint.
type Handler struct {
	Validate *validator.Validate
	Cache    *Cache
	// TopN is the default top_products bound when the request does not
	// override it. Zero means DefaultTopN.
	TopN   int
	Logger *zerolog.Logger
}

type analyzeOptions struct {
	RevenuePolicy string `json:"revenue_policy" validate:"omitempty,oneof=simple proportional weighted"`
	TopN          int    `json:"top_n" validate:"omitempty,gt=0"`
}

type analyzeRequest struct {
	Sellers         []Seller         `json:"sellers" validate:"required,min=1"`
	Products        []Product        `json:"products" validate:"required,min=1"`
	PurchaseRecords []PurchaseRecord `json:"purchase_records" validate:"required,min=1"`
	Options         analyzeOptions   `json:"options"`
}

type analyzeResponse struct {
	ReportID       string `json:"report_id"`
	Rows           []Row  `json:"rows"`
	SkippedRecords int    `json:"skipped_records"`
	SkippedItems   int    `json:"skipped_items"`
}

// Sales computes the ranked seller performance report for the posted
// dataset. Identical payloads are served from the result cache when one is
// configured.
func (h *Handler) Sales(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		common.JSONError(w, http.StatusBadRequest, "BAD_REQUEST", "unable to read request body", nil)
		return
	}
	var req analyzeRequest
	if err := json.Unmarshal(body, &req); err != nil {
		common.JSONError(w, http.StatusBadRequest, "BAD_REQUEST", "invalid payload", nil)
		return
	}
	if h.Validate != nil {
		if err := h.Validate.Struct(req); err != nil {
			common.JSONError(w, http.StatusUnprocessableEntity, "INVALID_INPUT", "dataset failed validation", err.Error())
			return
		}
	}

	policy := req.Options.RevenuePolicy
	if policy == "" {
		policy = PolicySimple
	}
	revenue, err := RevenueByName(policy)
	if err != nil {
		common.JSONError(w, http.StatusUnprocessableEntity, "MISSING_STRATEGY", err.Error(), nil)
		return
	}

	var key string
	if h.Cache != nil {
		key = h.Cache.Key(body)
		if rows, stats, ok := h.Cache.Get(r.Context(), key); ok {
			countCache("hit")
			h.respond(w, rows, stats)
			return
		}
		countCache("miss")
	}

	topN := req.Options.TopN
	if topN <= 0 {
		topN = h.TopN
	}
	dataset := Dataset{
		Sellers:         req.Sellers,
		Products:        req.Products,
		PurchaseRecords: req.PurchaseRecords,
	}

	var stats Stats
	start := time.Now()
	rows, err := Analyze(dataset, Options{
		Revenue: revenue,
		Bonus:   TieredBonus{},
		TopN:    topN,
		Stats:   &stats,
	})
	if err != nil {
		countReport(policy, "error")
		renderError(w, analyzeError(err))
		return
	}
	observeReport(policy, time.Since(start), rows, stats)

	if h.Cache != nil {
		h.Cache.Set(r.Context(), key, rows, stats)
	}
	h.respond(w, rows, stats)
}

func (h *Handler) respond(w http.ResponseWriter, rows []Row, stats Stats) {
	id := uuid.NewString()
	if h.Logger != nil {
		h.Logger.Info().
			Str("report_id", id).
			Int("rows", len(rows)).
			Int("skipped_records", stats.SkippedRecords).
			Int("skipped_items", stats.SkippedItems).
			Msg("sales_report")
	}
	common.JSON(w, http.StatusOK, map[string]any{"data": analyzeResponse{
		ReportID:       id,
		Rows:           rows,
		SkippedRecords: stats.SkippedRecords,
		SkippedItems:   stats.SkippedItems,
	}})
}

// analyzeError maps engine failures onto the API error vocabulary.
func analyzeError(err error) *common.AppError {
	switch {
	case errors.Is(err, ErrMissingStrategy):
		return common.NewAppError("MISSING_STRATEGY", err.Error(), http.StatusUnprocessableEntity, err)
	case errors.Is(err, ErrInvalidInput):
		return common.NewAppError("INVALID_INPUT", err.Error(), http.StatusUnprocessableEntity, err)
	default:
		return common.NewAppError("INTERNAL", "report computation failed", http.StatusInternalServerError, err)
	}
}

func renderError(w http.ResponseWriter, err error) {
	var ae *common.AppError
	if errors.As(err, &ae) {
		common.JSONError(w, ae.HTTPStatus, ae.Code, ae.Message, ae.Details)
		return
	}
	common.JSONError(w, http.StatusInternalServerError, "INTERNAL", "internal error", nil)
}

func countCache(outcome string) {
	if obs.ReportCacheTotal != nil {
		obs.ReportCacheTotal.WithLabelValues(outcome).Inc()
	}
}

func countReport(policy, result string) {
	if obs.ReportsTotal != nil {
		obs.ReportsTotal.WithLabelValues(policy, result).Inc()
	}
}

func observeReport(policy string, elapsed time.Duration, rows []Row, stats Stats) {
	countReport(policy, "ok")
	if obs.ReportRowsTotal != nil {
		obs.ReportRowsTotal.Add(float64(len(rows)))
	}
	if obs.ReportSkippedTotal != nil {
		obs.ReportSkippedTotal.WithLabelValues("record").Add(float64(stats.SkippedRecords))
		obs.ReportSkippedTotal.WithLabelValues("item").Add(float64(stats.SkippedItems))
	}
	if obs.ReportDuration != nil {
		obs.ReportDuration.Observe(obs.DurationMillis(elapsed))
	}
}
