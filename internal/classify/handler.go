package classify

import (
	"encoding/json"
	"net/http"
	"strings"
)

// Handler exposes classification over HTTP for the chat layer.
type Handler struct {
	service *Service
}

// NewHandler creates the classification handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

type classifyBody struct {
	Text string `json:"text"`
}

// POST /classify
func (h *Handler) Classify(w http.ResponseWriter, r *http.Request) {
	var body classifyBody
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		http.Error(w, "invalid json: "+err.Error(), http.StatusBadRequest)
		return
	}
	if strings.TrimSpace(body.Text) == "" {
		http.Error(w, "text is required", http.StatusBadRequest)
		return
	}

	result := h.service.Classify(r.Context(), body.Text)

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(result)
}
