// internal/adapters/http_server/handlers.go
package httpserver

import (
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"github.com/chiedozie07/flex-reviews-dashboard/internal/app"
	"github.com/chiedozie07/flex-reviews-dashboard/internal/domain"
)

type Handlers struct{ Svc *app.DashboardService }

type problem struct {
	Type   string `json:"type"`
	Title  string `json:"title"`
	Status int    `json:"status"`
	Detail string `json:"detail,omitempty"`
}

func (s *Server) MountHandlers(h *Handlers) {
	s.mux.Get("/healthz", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(200); _, _ = w.Write([]byte("ok")) })
	s.mux.Get("/api/reviews", h.listReviews)
	s.mux.Get("/api/reviews/listings", h.listListings)
	s.mux.Get("/api/reviews/approvals", h.getApprovals)
	s.mux.Patch("/api/reviews/approvals", h.setApproval)
	s.mux.Get("/api/properties/{id}/reviews", h.publicListing)
}

func writeProblem(w http.ResponseWriter, status int, title, detail string) {
	w.Header().Set("Content-Type", "application/problem+json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(problem{Type: "about:blank", Title: title, Status: status, Detail: detail}); err != nil {
		log.Error().Err(err).Msg("write JSON problem response failed")
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error().Err(err).Msg("write JSON response failed")
	}
}

// calcETagAndBody marshals once and hashes once, returning both ETag and body.
func calcETagAndBody(v any) (string, []byte) {
	body, err := json.Marshal(v)
	if err != nil {
		log.Error().Err(err).Msg("failed to marshal object for ETag/body")
		return "", nil
	}
	sum := sha1.Sum(body)
	etag := `W/"` + hex.EncodeToString(sum[:]) + `"`
	return etag, body
}

// parseQuery maps URL params onto the query spec. Bad values degrade to
// defaults rather than erroring; the query engine clamps the rest.
func parseQuery(r *http.Request) domain.ReviewQuery {
	q := domain.ReviewQuery{
		Search: r.URL.Query().Get("search"),
		Status: r.URL.Query().Get("status"),
		SortBy: r.URL.Query().Get("sortBy"),
		Page:   1,
	}
	if v := r.URL.Query().Get("minRating"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			q.MinRating = &f
		}
	}
	if v := r.URL.Query().Get("page"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			q.Page = n
		}
	}
	if v := r.URL.Query().Get("pageSize"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			q.PageSize = n
		}
	}
	return q
}

type managementResponse struct {
	Status  string            `json:"status"`
	Message string            `json:"message,omitempty"`
	Data    domain.ReviewPage `json:"data"`
}

// listReviews serves the management view. It always answers 200 with a
// renderable page; source trouble shows up as an empty page plus a
// message, never a blank error.
func (h *Handlers) listReviews(w http.ResponseWriter, r *http.Request) {
	page, msg := h.Svc.Dashboard(r.Context(), parseQuery(r))
	writeJSON(w, http.StatusOK, managementResponse{Status: "ok", Message: msg, Data: page})
}

func (h *Handlers) listListings(w http.ResponseWriter, r *http.Request) {
	listings, msg := h.Svc.Listings(r.Context())
	writeJSON(w, http.StatusOK, struct {
		Status  string                   `json:"status"`
		Message string                   `json:"message,omitempty"`
		Data    []domain.AnnotatedListing `json:"data"`
	}{Status: "ok", Message: msg, Data: listings})
}

func (h *Handlers) getApprovals(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, struct {
		Status    string             `json:"status"`
		Approvals domain.ApprovalMap `json:"approvals"`
	}{Status: "ok", Approvals: h.Svc.Approvals(r.Context())})
}

func (h *Handlers) setApproval(w http.ResponseWriter, r *http.Request) {
	var body struct {
		ID       string `json:"id"`
		Approved *bool  `json:"approved"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil || body.ID == "" || body.Approved == nil {
		writeProblem(w, http.StatusBadRequest, "Invalid body", "id and approved (boolean) are required")
		return
	}
	m, err := h.Svc.SetApproval(r.Context(), body.ID, *body.Approved)
	if err != nil {
		log.Error().Err(err).Str("id", body.ID).Msg("approval write failed")
		writeProblem(w, http.StatusBadGateway, "Approval write failed", "could not persist approval state")
		return
	}
	writeJSON(w, http.StatusOK, struct {
		Status    string             `json:"status"`
		Approvals domain.ApprovalMap `json:"approvals"`
	}{Status: "ok", Approvals: m})
}

// publicListing is the public read surface: approved reviews only, and
// an explicit 404 when the listing key doesn't resolve (distinct from a
// listing with zero approved reviews).
func (h *Handlers) publicListing(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	ls, err := h.Svc.PublicListing(r.Context(), id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			writeProblem(w, http.StatusNotFound, "Not Found", "no such listing")
			return
		}
		writeProblem(w, http.StatusInternalServerError, "Internal Error", "failed to load listing")
		return
	}

	etag, body := calcETagAndBody(ls)
	if inm := r.Header.Get("If-None-Match"); inm != "" && inm == etag {
		w.Header().Set("ETag", etag) // include ETag on 304
		w.WriteHeader(http.StatusNotModified)
		return
	}

	w.Header().Set("ETag", etag)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(body); err != nil {
		log.Error().Err(err).Msg("failed to write publicListing body")
	}
}
