package api

import (
	"bytes"
	"io"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/phrazzld/anyapi/internal/api/shared"
	"github.com/phrazzld/anyapi/internal/domain"
	"github.com/phrazzld/anyapi/internal/platform/logger"
	"github.com/phrazzld/anyapi/internal/service"
)

// ToolsResponse lists the tools callers can invoke by name.
type ToolsResponse struct {
	Tools []service.Tool `json:"tools"`
}

// ListTools handles GET /api/tools requests
func (h *ProxyHandler) ListTools(w http.ResponseWriter, r *http.Request) {
	shared.RespondWithData(w, r, http.StatusOK, ToolsResponse{Tools: service.Tools()})
}

// CallTool handles POST /api/tools/{tool} requests. The body holds the tool's
// arguments as a JSON object; it may be empty for tools without required
// arguments.
func (h *ProxyHandler) CallTool(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "tool")
	tool, err := service.LookupTool(name)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	args, err := readArgs(r)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	logger.FromContextOrDefault(r.Context(), h.logger).Debug("dispatching tool",
		slog.String("tool", tool.Name))

	switch tool.Name {
	case service.ToolListAvailableAPIs:
		var la ListArgs
		if err := shared.DecodeJSONBytes(args, &la); err != nil {
			HandleAPIError(w, r, err, "")
			return
		}
		result, err := h.proxyService.ListAPIs(r.Context(), la.Filter())
		if err != nil {
			HandleAPIError(w, r, err, "")
			return
		}
		shared.RespondWithData(w, r, http.StatusOK, result)

	case service.ToolGetAPIDocumentation:
		var da DocumentationArgs
		if err := shared.DecodeJSONBytes(args, &da); err != nil {
			HandleAPIError(w, r, err, "")
			return
		}
		if err := shared.ValidateRequest(&da); err != nil {
			HandleAPIError(w, r, err, "")
			return
		}
		doc, err := h.proxyService.GetAPIDocumentation(r.Context(), da.APIID)
		if err != nil {
			HandleAPIError(w, r, err, "")
			return
		}
		shared.RespondWithData(w, r, http.StatusOK, doc)

	case service.ToolMakeAPICall:
		var req CallRequest
		if err := shared.DecodeJSONBytes(args, &req); err != nil {
			HandleAPIError(w, r, err, "")
			return
		}
		h.makeAPICall(w, r, &req)
	}
}

// readArgs returns the request body, or an empty object when there is none.
func readArgs(r *http.Request) ([]byte, error) {
	body, err := io.ReadAll(http.MaxBytesReader(nil, r.Body, shared.MaxRequestBodyBytes))
	if err != nil {
		return nil, domain.NewValidationError("body", err.Error())
	}
	if len(bytes.TrimSpace(body)) == 0 {
		return []byte("{}"), nil
	}
	return body, nil
}
