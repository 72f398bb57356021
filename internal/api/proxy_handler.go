package api

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/schema"
	"github.com/phrazzld/anyapi/internal/api/shared"
	"github.com/phrazzld/anyapi/internal/domain"
	"github.com/phrazzld/anyapi/internal/platform/logger"
	"github.com/phrazzld/anyapi/internal/service"
)

// ProxyHandler handles catalog queries, upstream calls and tool dispatch.
type ProxyHandler struct {
	proxyService service.ProxyService
	decoder      *schema.Decoder
	logger       *slog.Logger
}

// NewProxyHandler creates a new ProxyHandler
func NewProxyHandler(proxyService service.ProxyService, log *slog.Logger) *ProxyHandler {
	if log == nil {
		log = slog.Default()
	}
	decoder := schema.NewDecoder()
	decoder.IgnoreUnknownKeys(true)

	return &ProxyHandler{
		proxyService: proxyService,
		decoder:      decoder,
		logger:       log.With(slog.String("component", "proxy_handler")),
	}
}

// ListAPIs handles GET /api/apis requests
func (h *ProxyHandler) ListAPIs(w http.ResponseWriter, r *http.Request) {
	var query ListQuery
	if err := h.decoder.Decode(&query, r.URL.Query()); err != nil {
		HandleAPIError(w, r, queryError(err), "")
		return
	}

	result, err := h.proxyService.ListAPIs(r.Context(), service.ListFilter{
		Category:     query.Category,
		Search:       query.Search,
		RequiresAuth: query.RequiresAuth,
	})
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}
	shared.RespondWithData(w, r, http.StatusOK, result)
}

// GetAPIDocumentation handles GET /api/apis/{apiID} requests
func (h *ProxyHandler) GetAPIDocumentation(w http.ResponseWriter, r *http.Request) {
	apiID := chi.URLParam(r, "apiID")
	if strings.TrimSpace(apiID) == "" {
		HandleAPIError(w, r, domain.NewValidationError("apiId", "is required"), "")
		return
	}

	doc, err := h.proxyService.GetAPIDocumentation(r.Context(), apiID)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}
	shared.RespondWithData(w, r, http.StatusOK, doc)
}

// MakeAPICall handles POST /api/calls requests
func (h *ProxyHandler) MakeAPICall(w http.ResponseWriter, r *http.Request) {
	var req CallRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		HandleAPIError(w, r, err, "")
		return
	}
	h.makeAPICall(w, r, &req)
}

func (h *ProxyHandler) makeAPICall(w http.ResponseWriter, r *http.Request, req *CallRequest) {
	if err := shared.ValidateRequest(req); err != nil {
		HandleAPIError(w, r, err, "")
		return
	}
	intent, err := req.ToIntent()
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	result, err := h.proxyService.MakeAPICall(r.Context(), intent)
	if err != nil {
		logger.FromContextOrDefault(r.Context(), h.logger).Debug("api call failed",
			slog.String("api_id", intent.APIID),
			slog.String("endpoint", intent.Endpoint),
			slog.Int("status", MapErrorToStatusCode(err)))
		HandleAPIError(w, r, err, "")
		return
	}
	shared.RespondWithData(w, r, http.StatusOK, result)
}

// queryError converts a gorilla/schema decode failure into a validation error.
func queryError(err error) error {
	var multi schema.MultiError
	if !errors.As(err, &multi) {
		return domain.NewValidationError("query", err.Error())
	}
	out := &domain.ValidationError{}
	for key, fieldErr := range multi {
		problem := "has an invalid value"
		var conv schema.ConversionError
		if errors.As(fieldErr, &conv) && conv.Type != nil {
			problem = fmt.Sprintf("expected %s", queryTypeName(conv.Type.String()))
		}
		out.Fields = append(out.Fields, domain.FieldError{Field: key, Problem: problem})
	}
	return out
}

func queryTypeName(goType string) string {
	switch strings.TrimPrefix(goType, "*") {
	case "bool":
		return "boolean"
	case "int", "int64", "float64":
		return "number"
	default:
		return goType
	}
}
