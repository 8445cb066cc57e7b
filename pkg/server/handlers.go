package server

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/matzehuels/linkboard/pkg/analysis"
	"github.com/matzehuels/linkboard/pkg/artifact"
	"github.com/matzehuels/linkboard/pkg/buildinfo"
	"github.com/matzehuels/linkboard/pkg/errors"
	graphio "github.com/matzehuels/linkboard/pkg/io"
	"github.com/matzehuels/linkboard/pkg/layout"
	"github.com/matzehuels/linkboard/pkg/pipeline"
	"github.com/matzehuels/linkboard/pkg/store"
)

// =============================================================================
// Requests and responses
// =============================================================================

// DecomposeRequest is the body of POST /v1/decompose.
type DecomposeRequest struct {
	Graph  graphio.Document `json:"graph"`
	Policy string           `json:"policy,omitempty"`
	Layer  *int             `json:"layer,omitempty"`
}

// DecomposeResponse is returned by POST /v1/decompose.
type DecomposeResponse struct {
	ID        string             `json:"id"`
	Thickness int                `json:"thickness"`
	Selected  int                `json:"selected"`
	Layers    []graphio.Document `json:"layers"`
	Cached    bool               `json:"cached"`
}

// LayoutRequest is the body of POST /v1/layout. Dimensions default to the
// widths and heights of the graph's vertices.
type LayoutRequest struct {
	Graph      graphio.Document       `json:"graph"`
	Dimensions map[string]layout.Size `json:"dimensions,omitempty"`
	Separation float64                `json:"separation,omitempty"`
	Engine     string                 `json:"engine,omitempty"`
}

// LayoutResponse is returned by POST /v1/layout.
type LayoutResponse struct {
	Embedding layout.Embedding `json:"embedding"`
	SVG       string           `json:"svg"`
}

// BoardResponse is returned by POST /v1/boards.
type BoardResponse struct {
	ID        string           `json:"id"`
	Analysis  analysis.Report  `json:"analysis"`
	Thickness int              `json:"thickness"`
	Selected  int              `json:"selected"`
	Embedding layout.Embedding `json:"embedding"`
	SVG       string           `json:"svg"`
	BoardName string           `json:"board_name"`
	Board     string           `json:"board"`
}

type errorResponse struct {
	Code    errors.Code `json:"code"`
	Message string      `json:"message"`
}

// =============================================================================
// Handlers
// =============================================================================

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, struct {
		Status string         `json:"status"`
		Build  buildinfo.Info `json:"build"`
	}{"ok", buildinfo.Current()})
}

func (s *Server) handleDecompose(w http.ResponseWriter, r *http.Request) {
	var req DecomposeRequest
	if err := decodeJSON(r, &req); err != nil {
		s.writeError(w, err)
		return
	}
	g, err := req.Graph.Build()
	if err != nil {
		s.writeError(w, err)
		return
	}

	opts := s.options()
	if req.Policy != "" {
		opts.Policy = req.Policy
	}
	opts.Layer = req.Layer

	d, err := s.Runner.Decompose(r.Context(), g, opts)
	if err != nil {
		s.writeError(w, err)
		return
	}

	rec := s.newRecord("")
	fillDecomposition(rec, d)
	if err := s.Store.Put(r.Context(), rec); err != nil {
		s.writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, DecomposeResponse{
		ID:        rec.ID,
		Thickness: d.Thickness,
		Selected:  d.Selected,
		Layers:    graphio.NewLayers(d.Layers).Layers,
		Cached:    d.CacheHit,
	})
}

func (s *Server) handleLayout(w http.ResponseWriter, r *http.Request) {
	var req LayoutRequest
	if err := decodeJSON(r, &req); err != nil {
		s.writeError(w, err)
		return
	}
	g, err := req.Graph.Build()
	if err != nil {
		s.writeError(w, err)
		return
	}
	dims := req.Dimensions
	if dims == nil {
		dims = req.Graph.Dimensions()
	}

	opts := s.options()
	if req.Separation != 0 {
		opts.Separation = req.Separation
	}
	if req.Engine != "" {
		opts.Engine = req.Engine
	}

	p, err := s.Runner.Layout(r.Context(), g, dims, nil, opts)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, LayoutResponse{Embedding: p.Embedding, SVG: string(p.SVG)})
}

func (s *Server) handleBoard(w http.ResponseWriter, r *http.Request) {
	opts := s.options()
	q := r.URL.Query()
	for _, p := range []struct {
		name string
		set  func(float64)
	}{
		{"separation", func(f float64) { opts.Separation = f }},
		{"padding", func(f float64) { opts.Padding = &f }},
	} {
		if v := q.Get(p.name); v != "" {
			f, err := strconv.ParseFloat(v, 64)
			if err != nil {
				s.writeError(w, errors.Wrap(errors.ErrCodeInvalidInput, err, "invalid %s %q", p.name, v))
				return
			}
			p.set(f)
		}
	}
	if v := q.Get("policy"); v != "" {
		opts.Policy = v
	}
	name := q.Get("name")
	if name == "" {
		name = "board"
	}
	if err := errors.ValidateArtifactName(pipeline.UpdatedBoardName(name)); err != nil {
		s.writeError(w, err)
		return
	}

	b, err := s.Runner.ParseBoard(r.Context(), r.Body, name)
	if err != nil {
		s.writeError(w, err)
		return
	}

	sink := artifact.NewMemorySink()
	res, err := s.Runner.Build(r.Context(), b, sink, opts)
	if err != nil {
		s.writeError(w, err)
		return
	}

	rec := s.newRecord(name)
	fillDecomposition(rec, res.Decomposition)
	rec.Analysis = &res.Analysis
	rec.Embedding = res.Placement.Embedding
	if err := s.Store.Put(r.Context(), rec); err != nil {
		s.writeError(w, err)
		return
	}

	updated, _ := sink.Get(res.BoardName)
	writeJSON(w, http.StatusCreated, BoardResponse{
		ID:        rec.ID,
		Analysis:  res.Analysis,
		Thickness: res.Decomposition.Thickness,
		Selected:  res.Decomposition.Selected,
		Embedding: res.Placement.Embedding,
		SVG:       string(res.Placement.SVG),
		BoardName: res.BoardName,
		Board:     string(updated),
	})
}

func (s *Server) handleGetAnalysis(w http.ResponseWriter, r *http.Request) {
	rec, err := s.Store.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, rec)
}

// =============================================================================
// Helpers
// =============================================================================

func (s *Server) options() pipeline.Options {
	opts := s.Defaults
	opts.Logger = s.Logger
	return opts
}

func (s *Server) newRecord(board string) *store.Record {
	ttl := s.TTL
	if ttl <= 0 {
		ttl = store.DefaultTTL
	}
	return store.NewRecord(board, ttl)
}

func fillDecomposition(rec *store.Record, d *pipeline.Decomposition) {
	rec.Thickness = d.Thickness
	rec.Selected = d.Selected
	rec.LayerEdges = make([]int, len(d.Layers))
	for i, l := range d.Layers {
		rec.LayerEdges[i] = l.EdgeCount()
	}
}

func decodeJSON(r *http.Request, v any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidInput, err, "invalid request body")
	}
	return nil
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// statusFor maps an error code to an HTTP status.
func statusFor(code errors.Code) int {
	switch code {
	case errors.ErrCodeInvalidInput, errors.ErrCodeInvalidGraph, errors.ErrCodeInvalidFormat,
		errors.ErrCodeInvalidConfig, errors.ErrCodeInvalidPath:
		return http.StatusBadRequest
	case errors.ErrCodeNotPlanar:
		return http.StatusUnprocessableEntity
	case errors.ErrCodeNotFound, errors.ErrCodeFileNotFound:
		return http.StatusNotFound
	case errors.ErrCodeTimeout:
		return http.StatusGatewayTimeout
	default:
		return http.StatusInternalServerError
	}
}

func (s *Server) writeError(w http.ResponseWriter, err error) {
	code := errors.GetCode(err)
	if code == "" {
		code = errors.ErrCodeInternal
	}
	status := statusFor(code)

	msg := errors.UserMessage(err)
	if status == http.StatusInternalServerError {
		s.Logger.Error("request failed", "err", err)
		if code == errors.ErrCodeInternal {
			msg = "internal error"
		}
	}
	writeJSON(w, status, errorResponse{Code: code, Message: msg})
}

func writeTooLarge(w http.ResponseWriter) {
	writeJSON(w, http.StatusRequestEntityTooLarge, errorResponse{
		Code:    errors.ErrCodeInvalidInput,
		Message: "request body too large",
	})
}
