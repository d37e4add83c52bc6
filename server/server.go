package server

import (
	"context"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/Pickles91/ContiguousMemoryAllocation/memutils/placement"
	"github.com/Pickles91/ContiguousMemoryAllocation/playback"
	"github.com/Pickles91/ContiguousMemoryAllocation/record"
	"github.com/Pickles91/ContiguousMemoryAllocation/sim"
	"github.com/cockroachdb/errors"
	"github.com/gorilla/mux"
	"github.com/launchdarkly/go-jsonstream/v3/jwriter"
	"golang.org/x/exp/slog"
)

const shutdownTimeout = 5 * time.Second

// Server publishes the results of a completed run over HTTP. The results are never modified, so
// requests are served without locking.
type Server struct {
	logger     *slog.Logger
	results    *sim.Results
	summaries  [3]sim.Summary
	frames     []playback.Frame
	portNumber int
}

// New creates a Server for results
func New(logger *slog.Logger, results *sim.Results) *Server {
	return &Server{
		logger:    logger,
		results:   results,
		summaries: results.Summarize(),
		frames:    playback.BuildFrames(results),
	}
}

// WithPortNumber sets the port to listen on. Zero picks a free port.
func (s *Server) WithPortNumber(portNumber int) *Server {
	s.portNumber = portNumber
	return s
}

// Handler builds the router serving every route
func (s *Server) Handler() http.Handler {
	r := mux.NewRouter()
	r.HandleFunc("/api/run", s.run).Methods(http.MethodGet)
	r.HandleFunc("/api/summary", s.summary).Methods(http.MethodGet)
	r.HandleFunc("/api/strategies", s.listStrategies).Methods(http.MethodGet)
	r.HandleFunc("/api/strategies/{name}", s.history).Methods(http.MethodGet)
	r.HandleFunc("/api/strategies/{name}/ticks/{tick:[0-9]+}", s.snapshot).Methods(http.MethodGet)
	r.HandleFunc("/api/frames/{index:[0-9]+}", s.frame).Methods(http.MethodGet)
	return r
}

// ListenAndServe serves until ctx is cancelled, then shuts down gracefully
func (s *Server) ListenAndServe(ctx context.Context) error {
	listener, err := net.Listen("tcp", ":"+strconv.Itoa(s.portNumber))
	if err != nil {
		return errors.Wrapf(err, "could not listen on port %d", s.portNumber)
	}

	s.logger.Info("Serving simulation results",
		slog.String("URL", "http://localhost:"+strconv.Itoa(listener.Addr().(*net.TCPAddr).Port)),
		slog.String("RunID", s.results.RunID.String()),
	)

	httpServer := &http.Server{Handler: s.Handler(), ReadHeaderTimeout: 10 * time.Second}
	serveErr := make(chan error, 1)
	go func() {
		serveErr <- httpServer.Serve(listener)
	}()

	select {
	case err = <-serveErr:
		return errors.Wrap(err, "server stopped")
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	err = httpServer.Shutdown(shutdownCtx)
	if err != nil {
		return errors.Wrap(err, "could not shut down server")
	}

	err = <-serveErr
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}

func (s *Server) writeJSON(w http.ResponseWriter, writer *jwriter.Writer) {
	if err := writer.Error(); err != nil {
		s.logger.Error("could not encode response", slog.Any("error", err))
		http.Error(w, "could not encode response", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	_, err := w.Write(writer.Bytes())
	if err != nil {
		s.logger.Debug("could not write response", slog.Any("error", err))
	}
}

func (s *Server) run(w http.ResponseWriter, _ *http.Request) {
	writer := jwriter.NewWriter()
	obj := writer.Object()
	record.PrintRunHeader(&obj, s.results)
	obj.End()

	s.writeJSON(w, &writer)
}

func (s *Server) summary(w http.ResponseWriter, _ *http.Request) {
	writer := jwriter.NewWriter()
	arr := writer.Array()
	for _, summary := range s.summaries {
		obj := arr.Object()
		summary.WriteJSON(&obj)
		obj.End()
	}
	arr.End()

	s.writeJSON(w, &writer)
}

func (s *Server) listStrategies(w http.ResponseWriter, _ *http.Request) {
	writer := jwriter.NewWriter()
	arr := writer.Array()
	for _, history := range s.results.Histories {
		obj := arr.Object()
		obj.Name("Strategy").String(history.Strategy.String())
		obj.Name("Ticks").Int(history.Len())
		obj.Name("Truncated").Bool(history.Truncated)
		obj.End()
	}
	arr.End()

	s.writeJSON(w, &writer)
}

func (s *Server) findHistoryOr404(w http.ResponseWriter, r *http.Request) (sim.History, bool) {
	name := mux.Vars(r)["name"]

	strategy, err := placement.ParseStrategy(name)
	if err != nil {
		http.Error(w, "Strategy not found", http.StatusNotFound)
		return sim.History{}, false
	}

	return s.results.History(strategy), true
}

func (s *Server) history(w http.ResponseWriter, r *http.Request) {
	history, found := s.findHistoryOr404(w, r)
	if !found {
		return
	}

	writer := jwriter.NewWriter()
	obj := writer.Object()
	obj.Name("Strategy").String(history.Strategy.String())
	record.PrintHistory(&obj, history)
	obj.End()

	s.writeJSON(w, &writer)
}

func (s *Server) snapshot(w http.ResponseWriter, r *http.Request) {
	history, found := s.findHistoryOr404(w, r)
	if !found {
		return
	}

	// Ticks are numbered from 1, and a history holds every tick up to its length
	tick, err := strconv.Atoi(mux.Vars(r)["tick"])
	if err != nil || tick < 1 || tick > history.Len() {
		http.Error(w, "Tick not found", http.StatusNotFound)
		return
	}

	writer := jwriter.NewWriter()
	obj := writer.Object()
	obj.Name("Strategy").String(history.Strategy.String())
	history.Snapshots[tick-1].WriteJSON(&obj)
	obj.End()

	s.writeJSON(w, &writer)
}

func (s *Server) frame(w http.ResponseWriter, r *http.Request) {
	index, err := strconv.Atoi(mux.Vars(r)["index"])
	if err != nil || index >= len(s.frames) {
		http.Error(w, "Frame not found", http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, err = w.Write([]byte(playback.RenderFrame(s.frames[index])))
	if err != nil {
		s.logger.Debug("could not write response", slog.Any("error", err))
	}
}
