package webapi

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"github.com/katalvlaran/kruskalctl/controller"
	"github.com/katalvlaran/kruskalctl/core"
	"github.com/katalvlaran/kruskalctl/enforcer"
)

// PortView is a port with its hardware address in colon form.
type PortView struct {
	No     core.PortNo `json:"no"`
	HWAddr string      `json:"hw_addr"`
}

// SwitchView is a switch as rendered by /api/v1/topology.
type SwitchView struct {
	ID    core.SwitchID `json:"id"`
	Ports []PortView    `json:"ports"`
}

// TopologyView is the body of /api/v1/topology.
type TopologyView struct {
	Generation uint64              `json:"generation"`
	Computed   bool                `json:"computed"`
	Switches   []SwitchView        `json:"switches"`
	Edges      []core.SnapshotEdge `json:"edges"`
}

// TreeView is the body of /api/v1/tree.
type TreeView struct {
	Generation uint64             `json:"generation"`
	Weight     int64              `json:"weight"`
	Edges      []core.Link        `json:"edges"`
	Tree       []core.Pair        `json:"tree"`
	Blocked    []core.Link        `json:"blocked"`
	Sent       []enforcer.Action  `json:"sent"`
	Skipped    []enforcer.Skipped `json:"skipped"`
}

type errorBody struct {
	Error string `json:"error"`
}

func (s *Server) handleTopology(rw http.ResponseWriter, r *http.Request) {
	snap := s.source.Snapshot()
	view := TopologyView{
		Generation: snap.Generation,
		Computed:   snap.Computed,
		Switches:   make([]SwitchView, 0, len(snap.Switches)),
		Edges:      snap.Edges,
	}
	for _, sw := range snap.Switches {
		sv := SwitchView{ID: sw.ID, Ports: make([]PortView, 0, len(sw.Ports))}
		for _, p := range sw.Ports {
			sv.Ports = append(sv.Ports, PortView{No: p.No, HWAddr: p.HWAddr.String()})
		}
		view.Switches = append(view.Switches, sv)
	}
	s.writeJSON(rw, http.StatusOK, view)
}

func (s *Server) handleTree(rw http.ResponseWriter, r *http.Request) {
	out, err := s.source.Outcome()
	if errors.Is(err, controller.ErrNoTree) {
		s.writeJSON(rw, http.StatusNotFound, errorBody{Error: err.Error()})
		return
	}
	if err != nil {
		s.writeJSON(rw, http.StatusInternalServerError, errorBody{Error: err.Error()})
		return
	}
	s.writeJSON(rw, http.StatusOK, treeView(out))
}

func treeView(out controller.Outcome) TreeView {
	view := TreeView{
		Generation: out.Report.Generation,
		Tree:       out.Tree.Pairs().Sorted(),
		Blocked:    out.Report.Blocked,
		Sent:       out.Report.Sent,
		Skipped:    out.Report.Skipped,
	}
	if out.Tree != nil {
		view.Weight = out.Tree.Weight
		view.Edges = out.Tree.Edges
	}

	return view
}

func (s *Server) handleState(rw http.ResponseWriter, r *http.Request) {
	s.writeJSON(rw, http.StatusOK, s.source.Status())
}

func (s *Server) handleRecompute(rw http.ResponseWriter, r *http.Request) {
	out, err := s.source.RecomputeOutcome()
	if err != nil {
		s.logger.Warn("forced recomputation failed", zap.Error(err))
		s.writeJSON(rw, http.StatusConflict, errorBody{Error: err.Error()})
		return
	}
	s.logger.Info("forced recomputation", zap.Uint64("generation", out.Report.Generation))
	s.writeJSON(rw, http.StatusOK, treeView(out))
}

func (s *Server) writeJSON(rw http.ResponseWriter, status int, body interface{}) {
	rw.Header().Set("Content-Type", "application/json")
	rw.WriteHeader(status)
	if err := json.NewEncoder(rw).Encode(body); err != nil {
		s.logger.Debug("failed to write response", zap.Error(err))
	}
}

// metricsMiddleware records every request under its route template.
func (s *Server) metricsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		wrapper := &statusRecorder{ResponseWriter: w, statusCode: http.StatusOK}

		next.ServeHTTP(wrapper, r)

		path := r.URL.Path
		if route := mux.CurrentRoute(r); route != nil {
			if tmpl, err := route.GetPathTemplate(); err == nil {
				path = tmpl
			}
		}
		s.metrics.RecordHTTPRequest(r.Method, path, strconv.Itoa(wrapper.statusCode), time.Since(start))
		s.logger.Debug("http request",
			zap.String("method", r.Method),
			zap.String("path", path),
			zap.Int("status", wrapper.statusCode),
			zap.Duration("duration", time.Since(start)),
		)
	})
}

type statusRecorder struct {
	http.ResponseWriter
	statusCode int
}

func (w *statusRecorder) WriteHeader(statusCode int) {
	w.statusCode = statusCode
	w.ResponseWriter.WriteHeader(statusCode)
}
