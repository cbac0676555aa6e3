package webserver

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/spboyer/prepscore/internal/profile"
	"github.com/spboyer/prepscore/internal/store"
)

// registerRoutes sets up the API routes on the given mux.
func registerRoutes(mux *http.ServeMux, cfg Config) {
	mux.HandleFunc("POST /api/score", handleScore(cfg))
	mux.HandleFunc("GET /api/profiles/{id}/score", handleProfileScore(cfg))
	mux.HandleFunc("GET /api/healthz", handleHealthz(cfg))
}

// handleScore assesses a profile snapshot posted as JSON.
func handleScore(cfg Config) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var p profile.Profile
		if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
			writeError(w, http.StatusBadRequest, "invalid profile JSON: "+err.Error())
			return
		}
		writeJSON(w, http.StatusOK, cfg.Pipeline.Assess(&p))
	}
}

// handleProfileScore assesses a profile stored in the database.
func handleProfileScore(cfg Config) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if cfg.Store == nil {
			writeError(w, http.StatusServiceUnavailable, "no profile database configured")
			return
		}

		id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid profile id")
			return
		}

		p, err := cfg.Store.LoadProfile(r.Context(), id)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				writeError(w, http.StatusNotFound, "profile not found")
				return
			}
			cfg.Logger.Error("loading profile", "id", id, "error", err)
			writeError(w, http.StatusInternalServerError, "loading profile failed")
			return
		}
		writeJSON(w, http.StatusOK, cfg.Pipeline.Assess(p))
	}
}

// handleHealthz reports liveness plus learned-scorer availability.
func handleHealthz(cfg Config) http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		resp := map[string]any{
			"status":          "ok",
			"model_available": false,
		}
		if cfg.Model != nil {
			resp["model_available"] = cfg.Model.Available()
			resp["model_degradations"] = cfg.Model.Degradations()
		}
		writeJSON(w, http.StatusOK, resp)
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v) //nolint:errcheck
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
