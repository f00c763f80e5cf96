// Package server exposes the export documents of a study case over HTTP.
// Every request reloads and re-resolves the study so edits to the YAML
// files are picked up without a restart.
package server

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/voltkraft/gridexport/pkg/exporter"
	"github.com/voltkraft/gridexport/pkg/model"
)

// Server serves a single study case.
type Server struct {
	studyPath string
	port      int
	log       *slog.Logger
}

// New creates a server for the given study directory.
func New(studyPath string, port int) *Server {
	return &Server{
		studyPath: studyPath,
		port:      port,
		log:       slog.Default().With("component", "server"),
	}
}

// Start launches the HTTP server.
func (s *Server) Start() error {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /api/topology", s.handleTopology)
	mux.HandleFunc("GET /api/topology-case", s.handleTopologyCase)
	mux.HandleFunc("GET /api/steadystate", s.handleSteadystate)
	mux.HandleFunc("GET /api/validation", s.handleValidation)
	mux.HandleFunc("GET /api/model", s.handleModel)

	addr := fmt.Sprintf(":%d", s.port)
	s.log.Info("server starting", "addr", addr, "study", s.studyPath)

	return http.ListenAndServe(addr, mux)
}

// export reloads the study and runs the full pipeline. Resolution
// failures are reported through the validation document, not an HTTP
// error; only an unreadable study case yields one.
func (s *Server) export() (*exporter.Result, *model.GridModel, error) {
	grid, err := model.LoadStudy(s.studyPath)
	if err != nil {
		return nil, nil, err
	}
	res, _ := exporter.Export(grid)
	return res, grid, nil
}

func (s *Server) handleTopology(w http.ResponseWriter, r *http.Request) {
	res, _, err := s.export()
	if err != nil {
		s.fail(w, r, err)
		return
	}
	if res == nil {
		s.unresolvable(w, r)
		return
	}
	s.reply(w, r, res.Topology)
}

func (s *Server) handleTopologyCase(w http.ResponseWriter, r *http.Request) {
	res, _, err := s.export()
	if err != nil {
		s.fail(w, r, err)
		return
	}
	if res == nil {
		s.unresolvable(w, r)
		return
	}
	s.reply(w, r, res.TopologyCase)
}

func (s *Server) handleSteadystate(w http.ResponseWriter, r *http.Request) {
	res, _, err := s.export()
	if err != nil {
		s.fail(w, r, err)
		return
	}
	if res == nil {
		s.unresolvable(w, r)
		return
	}
	s.reply(w, r, res.Steadystate)
}

func (s *Server) handleValidation(w http.ResponseWriter, r *http.Request) {
	grid, err := model.LoadStudy(s.studyPath)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	_, report := exporter.Export(grid)
	s.reply(w, r, report)
}

func (s *Server) handleModel(w http.ResponseWriter, r *http.Request) {
	_, grid, err := s.export()
	if err != nil {
		s.fail(w, r, err)
		return
	}
	s.reply(w, r, grid)
}

func (s *Server) reply(w http.ResponseWriter, r *http.Request, doc any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(doc); err != nil {
		s.log.Error("encoding response", "path", r.URL.Path, "err", err)
	}
}

func (s *Server) fail(w http.ResponseWriter, r *http.Request, err error) {
	s.log.Error("loading study case", "path", r.URL.Path, "err", err)
	http.Error(w, err.Error(), http.StatusInternalServerError)
}

func (s *Server) unresolvable(w http.ResponseWriter, r *http.Request) {
	s.log.Warn("study case failed validation", "path", r.URL.Path)
	http.Error(w, `study case failed validation; see /api/validation`, http.StatusUnprocessableEntity)
}
