package volume

import (
	"bytes"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	log "github.com/sirupsen/logrus"

	"github.com/2beens/hypertrophytoolbox/internal/telemetry/tracing"
	"github.com/2beens/hypertrophytoolbox/internal/training/entries"
	"github.com/2beens/hypertrophytoolbox/pkg"
)

const (
	paramSource = "source"
	paramMethod = "method"
	paramAll    = "all"
	paramValue  = "value"
	paramRole   = "role"
)

type Handler struct {
	service             *Service
	includeAllByDefault bool
}

// NewHandler creates the volume HTTP handler. includeAllByDefault decides
// whether summaries are zero filled when the "all" query param is absent.
func NewHandler(service *Service, includeAllByDefault bool) *Handler {
	return &Handler{
		service:             service,
		includeAllByDefault: includeAllByDefault,
	}
}

func (handler *Handler) summaryParams(query url.Values) (SummaryParams, error) {
	params := SummaryParams{
		Source:                 query.Get(paramSource),
		Method:                 query.Get(paramMethod),
		IncludeAllMuscleGroups: handler.includeAllByDefault,
	}

	if all := query.Get(paramAll); all != "" {
		includeAll, err := strconv.ParseBool(all)
		if err != nil {
			return SummaryParams{}, fmt.Errorf("%w: all: %q", entries.ErrInvalidFilterValue, all)
		}
		params.IncludeAllMuscleGroups = includeAll
	}

	rawFilter := make(map[string]string)
	for key := range query {
		switch key {
		case paramSource, paramMethod, paramAll:
			continue
		}
		rawFilter[key] = query.Get(key)
	}

	filter, err := entries.ParseFilter(rawFilter)
	if err != nil {
		return SummaryParams{}, err
	}
	params.Filter = filter

	return params, nil
}

func writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, entries.ErrUnknownFilterKey),
		errors.Is(err, entries.ErrInvalidFilterValue),
		errors.Is(err, entries.ErrUnknownSource),
		errors.Is(err, ErrUnknownRole):
		pkg.WriteJSONError(w, err.Error(), http.StatusBadRequest)
	case errors.Is(err, ErrStoreUnavailable):
		log.Errorf("volume: %s", err)
		pkg.WriteJSONError(w, "training data is currently unavailable", http.StatusServiceUnavailable)
	default:
		log.Errorf("volume: unexpected error: %s", err)
		pkg.WriteJSONError(w, "internal error", http.StatusInternalServerError)
	}
}

func (handler *Handler) HandleSummary(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.volume.summary")
	defer span.End()

	params, err := handler.summaryParams(r.URL.Query())
	if err != nil {
		writeError(w, err)
		return
	}

	summary, err := handler.service.ComputeVolumeSummary(ctx, params)
	if err != nil {
		writeError(w, err)
		return
	}

	pkg.WriteJSON(w, summary, http.StatusOK)
}

func (handler *Handler) HandleSessions(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.volume.sessions")
	defer span.End()

	params, err := handler.summaryParams(r.URL.Query())
	if err != nil {
		writeError(w, err)
		return
	}

	summary, err := handler.service.ComputeSessionSummary(ctx, params)
	if err != nil {
		writeError(w, err)
		return
	}

	pkg.WriteJSON(w, summary, http.StatusOK)
}

func (handler *Handler) HandleCategories(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.volume.categories")
	defer span.End()

	params, err := handler.summaryParams(r.URL.Query())
	if err != nil {
		writeError(w, err)
		return
	}

	summary, err := handler.service.ComputeCategorySummary(ctx, params)
	if err != nil {
		writeError(w, err)
		return
	}

	pkg.WriteJSON(w, summary, http.StatusOK)
}

func (handler *Handler) HandleIsolated(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.volume.isolated")
	defer span.End()

	params, err := handler.summaryParams(r.URL.Query())
	if err != nil {
		writeError(w, err)
		return
	}

	summary, err := handler.service.ComputeIsolatedSummary(ctx, params)
	if err != nil {
		writeError(w, err)
		return
	}

	pkg.WriteJSON(w, summary, http.StatusOK)
}

func (handler *Handler) HandleClassify(w http.ResponseWriter, r *http.Request) {
	_, span := tracing.GlobalTracer.Start(r.Context(), "handler.volume.classify")
	defer span.End()

	query := r.URL.Query()
	valueStr := strings.TrimSpace(query.Get(paramValue))
	if valueStr == "" {
		pkg.WriteJSONError(w, "error, value empty", http.StatusBadRequest)
		return
	}
	value, err := strconv.ParseFloat(valueStr, 64)
	if err != nil {
		pkg.WriteJSONError(w, "error, value NaN", http.StatusBadRequest)
		return
	}

	classification, err := handler.service.Classify(value, query.Get(paramRole))
	if err != nil {
		writeError(w, err)
		return
	}

	pkg.WriteJSON(w, classification, http.StatusOK)
}

// HandleExport writes the volume, category and isolated muscle tables as CSV.
func (handler *Handler) HandleExport(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.volume.export")
	defer span.End()

	params, err := handler.summaryParams(r.URL.Query())
	if err != nil {
		writeError(w, err)
		return
	}

	export, diag, err := handler.service.Export(ctx, params)
	if err != nil {
		writeError(w, err)
		return
	}

	var buf bytes.Buffer
	if err := export.WriteCSV(&buf); err != nil {
		log.Errorf("volume export: %s", err)
		pkg.WriteJSONError(w, "failed to write export", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Disposition", `attachment; filename="volume_summary.csv"`)
	w.Header().Set("X-Volume-Degraded", strconv.FormatBool(diag.Degraded()))
	pkg.WriteResponseBytes(w, pkg.ContentType.CSV, buf.Bytes(), http.StatusOK)
}
