// Package serve exposes alignment, isobaric generation and modification
// lookup over a JSON HTTP API.
package serve

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/masstools/massalign/pkg/align"
	"github.com/masstools/massalign/pkg/isobaric"
	"github.com/masstools/massalign/pkg/mass"
	"github.com/masstools/massalign/pkg/modlib"
	"github.com/masstools/massalign/pkg/seq"
)

// Server holds the read-only dependencies the handlers share.
type Server struct {
	Lib     *modlib.Library
	Scoring align.Scoring
}

// NewServer builds a server with the default modification library and
// scoring.
func NewServer() *Server {
	return &Server{
		Lib:     modlib.Default(),
		Scoring: align.DefaultScoring(),
	}
}

// Router builds the HTTP routes.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	r.Route("/api", func(r chi.Router) {
		r.Post("/align", s.alignHandler)
		r.Post("/isobaric", s.isobaricHandler)
		r.Get("/modifications", s.modificationsHandler)
	})

	return r
}

// AlignRequest represents an alignment request.
type AlignRequest struct {
	SequenceA string `json:"sequence_a"`
	SequenceB string `json:"sequence_b"`
	Topology  string `json:"topology,omitempty"`  // global, local, semi-global, extend-a, extend-b
	Mode      string `json:"mode,omitempty"`      // mass or identity
	Tolerance string `json:"tolerance,omitempty"` // e.g. "10ppm", "0.5da"
}

// SegmentResponse is one aligned segment.
type SegmentResponse struct {
	Kind string `json:"kind"`
	LenA int    `json:"len_a"`
	LenB int    `json:"len_b"`
}

// AlignResponse represents the response for alignment.
type AlignResponse struct {
	Score    int               `json:"score"`
	Topology string            `json:"topology"`
	Mode     string            `json:"mode"`
	Identity float64           `json:"identity"`
	Path     string            `json:"path"`
	StartA   int               `json:"start_a"`
	StartB   int               `json:"start_b"`
	Segments []SegmentResponse `json:"segments"`
}

func (s *Server) alignHandler(w http.ResponseWriter, r *http.Request) {
	var req AlignRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	opts := align.DefaultOptions()
	opts.Scoring = s.Scoring
	var err error
	if opts.Topology, err = parseTopology(req.Topology); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if opts.Mode, err = parseMode(req.Mode); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if req.Tolerance != "" {
		if opts.Scoring.Tolerance, err = mass.ParseTolerance(req.Tolerance); err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
	}

	a, err := seq.Parse(req.SequenceA, s.Lib)
	if err != nil {
		writeError(w, http.StatusBadRequest, "sequence_a: "+err.Error())
		return
	}
	b, err := seq.Parse(req.SequenceB, s.Lib)
	if err != nil {
		writeError(w, http.StatusBadRequest, "sequence_b: "+err.Error())
		return
	}

	result, err := align.Align(a, b, opts)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	resp := AlignResponse{
		Score:    result.Score,
		Topology: result.Topology.String(),
		Mode:     result.Mode.String(),
		Identity: result.Identity(),
		Path:     result.Path(),
		StartA:   result.StartA,
		StartB:   result.StartB,
	}
	for _, seg := range result.Segments {
		resp.Segments = append(resp.Segments, SegmentResponse{
			Kind: seg.Kind.String(),
			LenA: seg.LenA,
			LenB: seg.LenB,
		})
	}
	writeJSON(w, resp)
}

// IsobaricRequest represents an isobaric generation request.
type IsobaricRequest struct {
	Sequence   string `json:"sequence"`
	Tolerance  string `json:"tolerance,omitempty"`
	MaxResults int    `json:"max_results,omitempty"`
}

// IsobaricResponse represents the response for isobaric generation.
type IsobaricResponse struct {
	Sequences []string `json:"sequences"`
	Truncated bool     `json:"truncated"`
}

func (s *Server) isobaricHandler(w http.ResponseWriter, r *http.Request) {
	var req IsobaricRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	target, err := seq.Parse(req.Sequence, s.Lib)
	if err != nil {
		writeError(w, http.StatusBadRequest, "sequence: "+err.Error())
		return
	}

	opts := isobaric.Options{
		Tolerance:  s.Scoring.Tolerance,
		MaxResults: req.MaxResults,
	}
	if req.Tolerance != "" {
		if opts.Tolerance, err = mass.ParseTolerance(req.Tolerance); err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
	}

	result, err := isobaric.Generate(target, opts)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	resp := IsobaricResponse{Truncated: result.Truncated, Sequences: []string{}}
	for _, cand := range result.Sequences {
		resp.Sequences = append(resp.Sequences, cand.String())
	}
	writeJSON(w, resp)
}

// ModificationResponse is one modification lookup hit.
type ModificationResponse struct {
	Name  string  `json:"name"`
	Mass  float64 `json:"mass"`
	Delta float64 `json:"delta"`
}

// modificationsHandler looks modifications up by name, formula or mass via
// the "q" query parameter, with an optional "tolerance".
func (s *Server) modificationsHandler(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("q")
	if query == "" {
		writeError(w, http.StatusBadRequest, "missing query parameter q")
		return
	}

	tol := mass.Da(0.01)
	if t := r.URL.Query().Get("tolerance"); t != "" {
		var err error
		if tol, err = mass.ParseTolerance(t); err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
	}

	hits, err := s.Lib.Find(query, tol)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	resp := make([]ModificationResponse, 0, len(hits))
	for _, h := range hits {
		resp = append(resp, ModificationResponse{Name: h.Mod.Name, Mass: h.Mod.Mass, Delta: h.Delta})
	}
	writeJSON(w, resp)
}

func parseTopology(s string) (align.Topology, error) {
	switch s {
	case "", "global":
		return align.Global, nil
	case "local":
		return align.Local, nil
	case "semi-global", "semiglobal":
		return align.SemiGlobal, nil
	case "extend-a":
		return align.ExtendA, nil
	case "extend-b":
		return align.ExtendB, nil
	}
	return 0, &unknownValueError{field: "topology", value: s}
}

func parseMode(s string) (align.Mode, error) {
	switch s {
	case "", "mass":
		return align.Mass, nil
	case "identity":
		return align.Identity, nil
	}
	return 0, &unknownValueError{field: "mode", value: s}
}

type unknownValueError struct {
	field string
	value string
}

func (e *unknownValueError) Error() string {
	return fmt.Sprintf("unknown %s %q", e.field, e.value)
}

func writeJSON(w http.ResponseWriter, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, code int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(map[string]string{"error": msg})
}
