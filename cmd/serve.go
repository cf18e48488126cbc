package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/aeo-cli/internal/model"
	"github.com/sells-group/aeo-cli/internal/pipeline"
	"github.com/sells-group/aeo-cli/internal/presets"
	"github.com/sells-group/aeo-cli/internal/scrape"
)

var servePort int

// api holds the collaborators behind the HTTP routes.
type api struct {
	stream    func(ctx context.Context, req model.AnalyzeRequest, runID string) <-chan model.Event
	extractor interface {
		Extract(ctx context.Context, url string) (*model.ExtractedPage, error)
	}
	finder interface {
		Find(ctx context.Context, query, brand string, count int) (*scrape.CompetitorSearch, error)
	}
}

// routes builds the chi router with CORS and request logging.
func (a *api) routes(allowedOrigins []string) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(requestLogger)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: allowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		MaxAge:         300,
	}))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Route("/api", func(r chi.Router) {
		r.Post("/analyze", a.handleAnalyze)
		r.Post("/scrape", a.handleScrape)
		r.Post("/search-competitors", a.handleSearchCompetitors)
		r.Get("/stages", a.handleStages)
		r.Get("/presets", a.handlePresets)
	})
	return r
}

// handleAnalyze validates the request, then streams progress as SSE
// "data:" frames ending with a complete or error event.
func (a *api) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	var req model.AnalyzeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := req.Validate(); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	flusher, ok := w.(http.Flusher)
	if !ok {
		writeError(w, http.StatusInternalServerError, "streaming not supported")
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)
	flusher.Flush()

	runID := middleware.GetReqID(r.Context())
	if runID == "" {
		runID = uuid.NewString()
	}
	for ev := range a.stream(r.Context(), req, runID) {
		data, err := json.Marshal(ev)
		if err != nil {
			zap.L().Error("serve: marshal event", zap.Error(err))
			continue
		}
		fmt.Fprintf(w, "data: %s\n\n", data)
		flusher.Flush()
	}
}

func (a *api) handleScrape(w http.ResponseWriter, r *http.Request) {
	var body struct {
		URL string `json:"url"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	page, err := a.extractor.Extract(r.Context(), body.URL)
	if err != nil {
		var se *model.SourceExtractionError
		switch {
		case model.IsValidation(err):
			writeError(w, http.StatusBadRequest, err.Error())
		case eris.As(err, &se):
			writeError(w, http.StatusUnprocessableEntity, se.Reason)
		default:
			zap.L().Error("serve: scrape failed", zap.String("url", body.URL), zap.Error(err))
			writeError(w, http.StatusInternalServerError, err.Error())
		}
		return
	}
	writeJSON(w, http.StatusOK, page)
}

func (a *api) handleSearchCompetitors(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Query string `json:"query"`
		Brand string `json:"brand"`
		Count int    `json:"count"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	out, err := a.finder.Find(r.Context(), body.Query, body.Brand, body.Count)
	if err != nil {
		if model.IsValidation(err) {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		zap.L().Error("serve: competitor search failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, out)
}

func (a *api) handleStages(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"stages": pipeline.Stages()})
}

func (a *api) handlePresets(w http.ResponseWriter, _ *http.Request) {
	all, err := presets.All()
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"presets": all})
}

func requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		zap.L().Info("http request",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", ww.Status()),
			zap.Int64("duration_ms", time.Since(start).Milliseconds()),
			zap.String("request_id", middleware.GetReqID(r.Context())),
		)
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		port := servePort
		if port == 0 {
			port = cfg.Server.Port
		}
		cfg.Server.Port = port

		p, err := initPipeline("serve")
		if err != nil {
			return err
		}
		chain := newExtractor()

		a := &api{
			stream: func(ctx context.Context, req model.AnalyzeRequest, runID string) <-chan model.Event {
				return pipeline.Stream(ctx, p, req, runID)
			},
			extractor: chain,
			finder:    newCompetitorFinder(chain),
		}

		srv := &http.Server{
			Addr:              fmt.Sprintf(":%d", port),
			Handler:           a.routes(cfg.Server.AllowedOrigins),
			ReadHeaderTimeout: 10 * time.Second,
		}

		// Graceful shutdown
		go func() {
			<-ctx.Done()
			zap.L().Info("shutting down server")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
			defer cancel()
			_ = srv.Shutdown(shutdownCtx)
		}()

		zap.L().Info("starting server", zap.Int("port", port), zap.Strings("scrapers", chain.Scrapers()))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return eris.Wrap(err, "server listen")
		}

		return nil
	},
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 0, "server port (default from config)")
	rootCmd.AddCommand(serveCmd)
}
