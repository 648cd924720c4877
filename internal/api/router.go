package api

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/gorilla/mux"

	queue "github.com/shqio/shq"
	"github.com/shqio/shq/job"
)

// Dependencies bundles the read-only interfaces the HTTP surface is
// built against.
type Dependencies struct {
	Observer queue.Observer
	Logs     queue.LogStore
	Metrics  queue.MetricStore
	DLQ      queue.DLQ
}

// NewRouter builds the read-only HTTP/JSON and WebSocket router.
//
// ctx bounds the lifetime of the /ws/status broadcast Hub; canceling it
// stops the periodic status sampling. Connected clients are not closed
// by it.
func NewRouter(ctx context.Context, deps Dependencies, log *slog.Logger) *mux.Router {
	r := mux.NewRouter()
	r.HandleFunc("/status", handleStatus(deps)).Methods(http.MethodGet)
	r.HandleFunc("/jobs", handleListJobs(deps)).Methods(http.MethodGet)
	r.HandleFunc("/jobs/{id}", handleGetJob(deps)).Methods(http.MethodGet)
	r.HandleFunc("/jobs/{id}/logs", handleGetJobLogs(deps)).Methods(http.MethodGet)
	r.HandleFunc("/dlq", handleListDeadJobs(deps)).Methods(http.MethodGet)
	r.HandleFunc("/metrics", handleMetrics(deps)).Methods(http.MethodGet)

	hub := NewHub(deps.Observer, log)
	hub.Start(ctx)
	r.HandleFunc("/ws/status", hub.HandleWebSocket)
	return r
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

func handleStatus(deps Dependencies) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		summary, err := deps.Observer.StatusSummary(r.Context())
		if err != nil {
			writeError(w, http.StatusInternalServerError, err.Error())
			return
		}
		writeJSON(w, http.StatusOK, summary)
	}
}

func handleListJobs(deps Dependencies) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		state := job.Unknown
		if raw := r.URL.Query().Get("state"); raw != "" {
			parsed, err := job.ParseState(raw)
			if err != nil {
				writeError(w, http.StatusBadRequest, "invalid state: "+raw)
				return
			}
			state = parsed
		}
		jobs, err := deps.Observer.ListJobs(r.Context(), state)
		if err != nil {
			writeError(w, http.StatusInternalServerError, err.Error())
			return
		}
		writeJSON(w, http.StatusOK, jobs)
	}
}

func handleGetJob(deps Dependencies) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := mux.Vars(r)["id"]
		jb, err := deps.Observer.GetJob(r.Context(), id)
		if err != nil {
			writeError(w, http.StatusInternalServerError, err.Error())
			return
		}
		if jb == nil {
			writeError(w, http.StatusNotFound, "job not found: "+id)
			return
		}
		writeJSON(w, http.StatusOK, jb)
	}
}

func handleGetJobLogs(deps Dependencies) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := mux.Vars(r)["id"]
		lines, err := deps.Logs.GetJobLogs(r.Context(), id)
		if err != nil {
			if errors.Is(err, queue.ErrNotFound) {
				writeError(w, http.StatusNotFound, "job not found: "+id)
				return
			}
			writeError(w, http.StatusInternalServerError, err.Error())
			return
		}
		writeJSON(w, http.StatusOK, lines)
	}
}

func handleListDeadJobs(deps Dependencies) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		jobs, err := deps.DLQ.ListDeadJobs(r.Context())
		if err != nil {
			writeError(w, http.StatusInternalServerError, err.Error())
			return
		}
		writeJSON(w, http.StatusOK, jobs)
	}
}

func handleMetrics(deps Dependencies) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		summary, err := deps.Metrics.MetricsSummary(r.Context())
		if err != nil {
			writeError(w, http.StatusInternalServerError, err.Error())
			return
		}
		writeJSON(w, http.StatusOK, summary)
	}
}
