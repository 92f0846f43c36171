package httphandler

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/ericfisherdev/updatepanel/internal/domain/model"
)

// writeJSON marshals v to JSON and writes it to the response with the given
// status code. If marshaling fails, a 500 error is written instead.
func writeJSON(w http.ResponseWriter, status int, v any) {
	data, err := json.Marshal(v)
	if err != nil {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"error":"internal server error"}`))
		return
	}

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_, _ = w.Write(data)
}

// writeError writes a JSON error response with the given status code and message.
func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, errorResponse{Error: message})
}

// errorResponse is the standard error response body.
type errorResponse struct {
	Error string `json:"error"`
}

// ServerResponse is the JSON representation of a statistics server.
// Index is the server's current position and is what the delete, select and
// probe endpoints take.
type ServerResponse struct {
	Index        int    `json:"index"`
	Name         string `json:"name"`
	WebURL       string `json:"web_url"`
	DatabaseName string `json:"database_name"`
	Username     string `json:"username"`
	Summary      string `json:"summary"`
}

// AddServerRequest is the JSON body for the add server endpoint.
type AddServerRequest struct {
	Name         string `json:"name"`
	WebURL       string `json:"web_url"`
	DatabaseName string `json:"database_name"`
	Username     string `json:"username"`
}

// SelectServerRequest is the JSON body for the select server endpoint.
type SelectServerRequest struct {
	Index *int `json:"index"`
}

// SelectionResponse is the JSON representation of a confirmed selection.
type SelectionResponse struct {
	DatabaseName string `json:"database_name"`
	WebURL       string `json:"web_url"`
	Username     string `json:"username"`
}

// ProbeResponse is the JSON representation of a reachability check.
type ProbeResponse struct {
	WebURL     string `json:"web_url"`
	StatusCode int    `json:"status_code"`
	Reachable  bool   `json:"reachable"`
	FromCache  bool   `json:"from_cache"`
	LatencyMS  int64  `json:"latency_ms"`
	CheckedAt  string `json:"checked_at"`
}

// HealthResponse is the JSON representation of the health check endpoint.
// Status is "ok" when the server store can be loaded and "degraded" otherwise.
type HealthResponse struct {
	Status  string `json:"status"`
	Servers int    `json:"servers"`
	Error   string `json:"error,omitempty"`
	Time    string `json:"time"`
}

// toServerResponse converts a domain StatisticsServer at position index to its JSON representation.
func toServerResponse(index int, s model.StatisticsServer) ServerResponse {
	return ServerResponse{
		Index:        index,
		Name:         s.Name,
		WebURL:       s.WebURL,
		DatabaseName: s.DatabaseName,
		Username:     s.Username,
		Summary:      s.Summary(),
	}
}

func toServerResponses(servers []model.StatisticsServer) []ServerResponse {
	resp := make([]ServerResponse, 0, len(servers))
	for i, s := range servers {
		resp = append(resp, toServerResponse(i, s))
	}
	return resp
}

func toSelectionResponse(s model.Selection) SelectionResponse {
	return SelectionResponse{
		DatabaseName: s.DatabaseName,
		WebURL:       s.WebURL,
		Username:     s.Username,
	}
}

func toProbeResponse(r model.ProbeResult) ProbeResponse {
	return ProbeResponse{
		WebURL:     r.WebURL,
		StatusCode: r.StatusCode,
		Reachable:  r.Reachable,
		FromCache:  r.FromCache,
		LatencyMS:  r.Latency.Milliseconds(),
		CheckedAt:  r.CheckedAt.UTC().Format(time.RFC3339),
	}
}
