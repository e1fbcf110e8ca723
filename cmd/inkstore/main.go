// Inkstore diagnostics server
// Exposes the annotation persistence layer over HTTP for inspection
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/pagemark/inkstore/internal/logger"
	"github.com/pagemark/inkstore/internal/metrics"
	"github.com/pagemark/inkstore/pkg/persist"
)

var (
	port     = flag.Int("port", 8460, "The server port")
	dbPath   = flag.String("db", "inkstore.json", "Annotation store file path")
	logLevel = flag.String("log-level", "info", "Log level (debug, info, warn, error)")
)

func main() {
	// .env overrides defaults, flags override .env
	_ = godotenv.Load()
	if v := os.Getenv("INKSTORE_DB"); v != "" {
		*dbPath = v
	}
	if v := os.Getenv("INKSTORE_PORT"); v != "" {
		if p, err := strconv.Atoi(v); err == nil {
			*port = p
		}
	}
	flag.Parse()

	logger.InitGlobalLogger(logger.Config{Level: *logLevel, Pretty: true})
	log := logger.GetGlobalLogger()

	backend := &persist.FileBackend{Path: *dbPath}
	if err := backend.Open(); err != nil {
		log.Error("Failed to open annotation store").Err(err).Msg("Startup aborted")
		os.Exit(1)
	}
	defer backend.Close()

	m := metrics.NewMetrics()
	store := persist.NewStore(backend, log, m)

	h := &handlers{store: store}

	r := mux.NewRouter()
	r.Handle("/metrics", promhttp.Handler())
	r.HandleFunc("/api/stats", h.getStats).Methods("GET")
	r.HandleFunc("/api/documents/{id}/pages/{page}", h.getPage).Methods("GET")
	r.HandleFunc("/api/documents/{id}/pages/{page}", h.clearPage).Methods("DELETE")
	r.HandleFunc("/api/documents/{id}", h.clearDocument).Methods("DELETE")
	r.HandleFunc("/api/cleanup", h.cleanup).Methods("POST")

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", *port),
		Handler: r,
	}

	go func() {
		log.Info("Inkstore diagnostics server listening").
			Int("port", *port).
			Str("db", *dbPath).
			Msg("Server ready")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("Server failed").Err(err).Msg("Listen error")
			os.Exit(1)
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	<-sigChan

	log.Info("Shutting down").Msg("Signal received")
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	srv.Shutdown(ctx)
}

type handlers struct {
	store *persist.Store
}

func (h *handlers) getStats(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.store.Stats())
}

func (h *handlers) getPage(w http.ResponseWriter, r *http.Request) {
	documentID, page, ok := pageParams(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, h.store.Load(documentID, page))
}

func (h *handlers) clearPage(w http.ResponseWriter, r *http.Request) {
	documentID, page, ok := pageParams(w, r)
	if !ok {
		return
	}
	h.store.ClearPage(documentID, page)
	w.WriteHeader(http.StatusNoContent)
}

func (h *handlers) clearDocument(w http.ResponseWriter, r *http.Request) {
	h.store.ClearDocument(mux.Vars(r)["id"])
	w.WriteHeader(http.StatusNoContent)
}

func (h *handlers) cleanup(w http.ResponseWriter, r *http.Request) {
	maxAgeDays := persist.DefaultMaxAgeDays
	if v := r.URL.Query().Get("maxAgeDays"); v != "" {
		d, err := strconv.Atoi(v)
		if err != nil || d < 0 {
			http.Error(w, "invalid maxAgeDays", http.StatusBadRequest)
			return
		}
		maxAgeDays = d
	}

	removed := h.store.CleanupOldDocuments(maxAgeDays)
	writeJSON(w, http.StatusOK, map[string]int{"documentsRemoved": removed})
}

func pageParams(w http.ResponseWriter, r *http.Request) (string, int, bool) {
	vars := mux.Vars(r)
	page, err := strconv.Atoi(vars["page"])
	if err != nil {
		http.Error(w, "invalid page number", http.StatusBadRequest)
		return "", 0, false
	}
	return vars["id"], page, true
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
