package server

import (
	"encoding/json"
	"mime"
	"net/http"
	"strconv"

	"futures-review/internal/analysis"
	"futures-review/internal/errors"
	"futures-review/internal/export"
	"futures-review/internal/models"
	"futures-review/internal/tracing"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
)

// APIHandler holds dependencies for the API endpoints.
type APIHandler struct {
	log      *zap.Logger
	store    TradeStore
	analysis *analysis.Engine
}

// NewAPIHandler creates a new APIHandler.
func NewAPIHandler(log *zap.Logger, store TradeStore, engine *analysis.Engine) *APIHandler {
	return &APIHandler{log: log, store: store, analysis: engine}
}

// Routes registers every endpoint on a fresh mux, each request in its own span.
func (h *APIHandler) Routes() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/status", h.StatusHandler)
	mux.HandleFunc("GET /api/trades", h.TradesHandler)
	mux.HandleFunc("POST /api/trades", h.CreateTradeHandler)
	mux.HandleFunc("GET /api/trades/{id}", h.TradeHandler)
	mux.HandleFunc("GET /api/symbols", h.SymbolsHandler)
	mux.HandleFunc("GET /api/summary", h.SummaryHandler)
	mux.HandleFunc("GET /api/curve", h.CurveHandler)
	mux.HandleFunc("GET /api/export.csv", h.ExportHandler)
	return h.traced(mux)
}

// statusRecorder remembers the status code written by a handler.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

func (h *APIHandler) traced(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracing.Start(r.Context(), r.Method+" "+r.URL.Path,
			attribute.String("http.method", r.Method),
			attribute.String("http.target", r.URL.RequestURI()),
		)
		defer span.End()

		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r.WithContext(ctx))

		span.SetAttributes(attribute.Int("http.status_code", rec.status))
		h.log.Debug("Request served", append(tracing.Fields(ctx),
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", rec.status),
		)...)
	})
}

// ErrorResponse is the body of every failed request.
type ErrorResponse struct {
	Error string `json:"error"`
	Field string `json:"field,omitempty"`
}

// StatusResponse is the body of /api/status.
type StatusResponse struct {
	Status string `json:"status"`
	Trades int64  `json:"trades"`
}

// StatusHandler reports liveness and the number of stored trades.
func (h *APIHandler) StatusHandler(w http.ResponseWriter, r *http.Request) {
	n, err := h.store.Count(r.Context())
	if err != nil {
		h.fail(w, "Failed to count trades", err)
		return
	}
	h.writeJSON(w, http.StatusOK, StatusResponse{Status: "ok", Trades: n})
}

// TradesHandler returns all trades, or those of one symbol when the
// symbol query parameter is present.
func (h *APIHandler) TradesHandler(w http.ResponseWriter, r *http.Request) {
	var (
		trades []models.TradeRecord
		err    error
	)
	if r.URL.Query().Has("symbol") {
		trades, err = h.store.ListBySymbol(r.Context(), r.URL.Query().Get("symbol"))
	} else {
		trades, err = h.store.ListAll(r.Context())
	}
	if err != nil {
		h.fail(w, "Failed to get trades from database", err)
		return
	}
	if trades == nil {
		trades = []models.TradeRecord{}
	}
	h.writeJSON(w, http.StatusOK, trades)
}

// CreateTradeHandler records a trade. It accepts a JSON TradeInput or
// form-encoded raw field values.
func (h *APIHandler) CreateTradeHandler(w http.ResponseWriter, r *http.Request) {
	in, err := h.decodeInput(r)
	if err != nil {
		h.fail(w, "Rejected trade input", err)
		return
	}

	res, err := h.store.Insert(r.Context(), in)
	if err != nil {
		h.fail(w, "Failed to record trade", err)
		return
	}
	h.writeJSON(w, http.StatusCreated, res)
}

// TradeHandler returns one trade by id.
func (h *APIHandler) TradeHandler(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		h.fail(w, "Invalid trade id", errors.NewValidationError("id", r.PathValue("id"), "must be an integer"))
		return
	}

	trade, err := h.store.Get(r.Context(), id)
	if err != nil {
		h.fail(w, "Failed to get trade", err)
		return
	}
	h.writeJSON(w, http.StatusOK, trade)
}

// SymbolsHandler returns the distinct symbols, sorted.
func (h *APIHandler) SymbolsHandler(w http.ResponseWriter, r *http.Request) {
	symbols, err := h.store.DistinctSymbols(r.Context())
	if err != nil {
		h.fail(w, "Failed to get symbols", err)
		return
	}
	if symbols == nil {
		symbols = []string{}
	}
	h.writeJSON(w, http.StatusOK, symbols)
}

// SummaryHandler returns per-symbol summaries and the overall summary.
func (h *APIHandler) SummaryHandler(w http.ResponseWriter, r *http.Request) {
	sorted, _ := strconv.ParseBool(r.URL.Query().Get("sorted"))

	report, err := h.analysis.Report(r.Context(), sorted)
	if err != nil {
		h.fail(w, "Failed to calculate summary", err)
		return
	}
	h.writeJSON(w, http.StatusOK, report)
}

// CurveHandler returns the cumulative profit/loss series for charts.
func (h *APIHandler) CurveHandler(w http.ResponseWriter, r *http.Request) {
	points, err := h.analysis.Curve(r.Context())
	if err != nil {
		h.fail(w, "Failed to calculate curve", err)
		return
	}
	h.writeJSON(w, http.StatusOK, points)
}

// ExportHandler streams every trade as CSV.
func (h *APIHandler) ExportHandler(w http.ResponseWriter, r *http.Request) {
	trades, err := h.store.ListAll(r.Context())
	if err != nil {
		h.fail(w, "Failed to get trades for export", err)
		return
	}

	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", `attachment; filename="trades.csv"`)
	if err := export.WriteCSV(w, trades); err != nil {
		h.log.Error("Failed to write csv export", zap.Error(err))
	}
}

func (h *APIHandler) decodeInput(r *http.Request) (models.TradeInput, error) {
	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if mediaType == "application/json" {
		var in models.TradeInput
		if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
			var typeErr *json.UnmarshalTypeError
			if errors.As(err, &typeErr) {
				return models.TradeInput{}, errors.NewValidationError(typeErr.Field, typeErr.Value, "has the wrong type")
			}
			return models.TradeInput{}, errors.NewValidationError("body", "", "malformed JSON: "+err.Error())
		}
		return in, nil
	}

	if err := r.ParseForm(); err != nil {
		return models.TradeInput{}, errors.NewValidationError("body", "", "malformed form: "+err.Error())
	}
	raw := make(map[string]string, len(r.PostForm))
	for k := range r.PostForm {
		raw[k] = r.PostForm.Get(k)
	}
	return models.ParseFields(raw)
}

// fail maps an error to its status code and logs it.
func (h *APIHandler) fail(w http.ResponseWriter, msg string, err error) {
	status := http.StatusInternalServerError
	resp := ErrorResponse{Error: err.Error()}

	var ve *errors.ValidationError
	switch {
	case errors.As(err, &ve):
		status = http.StatusBadRequest
		resp.Field = ve.Field
		h.log.Warn(msg, zap.String("field", ve.Field), zap.Error(err))
	case errors.Is(err, errors.ErrTradeNotFound):
		status = http.StatusNotFound
		h.log.Warn(msg, zap.Error(err))
	default:
		h.log.Error(msg, zap.Error(err))
	}

	h.writeJSON(w, status, resp)
}

func (h *APIHandler) writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		h.log.Error("Failed to write response", zap.Error(err))
	}
}
