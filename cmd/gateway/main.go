package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/sync/errgroup"

	"decksmith/internal/app"
	"decksmith/internal/generator"
	"decksmith/internal/httputil"
	"decksmith/internal/metrics"
	"decksmith/internal/source"
)

const (
	pptxContentType  = "application/vnd.openxmlformats-officedocument.presentationml.presentation"
	downloadFilename = "generated_presentation.pptx"
	shutdownTimeout  = 10 * time.Second
)

// Client-facing messages. Error detail is only logged.
const (
	msgNoTemplate        = "No template file provided"
	msgMissingInput      = "Missing text or API key"
	msgTooLarge          = "Upload too large"
	msgBadSource         = "Unsupported source file"
	msgTemplateAnalysis  = "Could not analyze the provided template file."
	msgStructure         = "Failed to generate presentation structure from the language model."
	msgAssembly          = "Failed to create the final presentation file."
	msgGenerationFailure = "Failed to generate presentation."
)

type generateForm struct {
	Text     string `validate:"required"`
	APIKey   string `validate:"required"`
	Guidance string
}

func main() {
	deps, err := app.Build()
	if err != nil {
		slog.Default().Error("failed to build dependencies", "err", err)
		os.Exit(1)
	}

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", deps.Config.Port),
		Handler:           newRouter(deps),
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		deps.Log.Info("gateway listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-ctx.Done()
		deps.Log.Info("gateway shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		deps.Log.Error("server failed", "err", err)
		os.Exit(1)
	}
}

func newRouter(deps app.Deps) *chi.Mux {
	r := httputil.NewRouter(deps.Log, httputil.RouterOptions{
		Timeout:     deps.Config.RequestTimeout,
		CORSOrigins: deps.Config.CORSOrigins,
	})
	r.Post("/api/generate", generateHandler(deps))
	r.Get("/healthz", httputil.HealthHandler(deps))
	r.Handle("/metrics", promhttp.Handler())
	return r
}

func generateHandler(deps app.Deps) http.HandlerFunc {
	maxUploadSize := deps.Config.MaxUploadSize

	return func(w http.ResponseWriter, r *http.Request) {
		r.Body = http.MaxBytesReader(w, r.Body, maxUploadSize)
		if err := r.ParseMultipartForm(maxUploadSize); err != nil {
			var tooLarge *http.MaxBytesError
			if errors.As(err, &tooLarge) {
				fail(deps.Log, w, msgTooLarge, err, http.StatusRequestEntityTooLarge, "too_large")
				return
			}
			fail(deps.Log, w, msgNoTemplate, err, http.StatusBadRequest, "bad_request")
			return
		}
		defer func() {
			if r.MultipartForm != nil {
				_ = r.MultipartForm.RemoveAll()
			}
		}()

		template, err := readFormFile(r, "template")
		if err != nil {
			fail(deps.Log, w, msgNoTemplate, err, http.StatusBadRequest, "bad_request")
			return
		}

		form := generateForm{
			Text:     r.FormValue("text"),
			APIKey:   r.FormValue("apiKey"),
			Guidance: r.FormValue("guidance"),
		}
		if err := httputil.Validator.Struct(&form); err != nil {
			fail(deps.Log, w, msgMissingInput, err, http.StatusBadRequest, "bad_request")
			return
		}

		text, err := withSource(r, form.Text)
		if err != nil {
			fail(deps.Log, w, msgBadSource, err, http.StatusBadRequest, "bad_request")
			return
		}

		res, err := deps.Generator.Generate(r.Context(), generator.Request{
			Template: template,
			Text:     text,
			Guidance: form.Guidance,
			APIKey:   form.APIKey,
		})
		if err != nil {
			msg, outcome := failureMessage(err)
			fail(deps.Log, w, msg, err, http.StatusInternalServerError, outcome)
			return
		}

		metrics.GenerationsTotal.WithLabelValues("success").Inc()
		w.Header().Set("Content-Type", pptxContentType)
		w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", downloadFilename))
		w.Header().Set("Content-Length", strconv.Itoa(len(res.Deck)))
		w.Header().Set(httputil.GenerationIDHeader, res.ID.String())
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write(res.Deck); err != nil {
			deps.Log.Warn("failed to write deck", "err", err, "generation_id", res.ID)
		}
	}
}

func fail(log *slog.Logger, w http.ResponseWriter, message string, err error, status int, outcome string) {
	metrics.GenerationsTotal.WithLabelValues(outcome).Inc()
	httputil.Fail(log, w, message, err, status)
}

func failureMessage(err error) (string, string) {
	switch {
	case errors.Is(err, generator.ErrTemplateAnalysis):
		return msgTemplateAnalysis, "template_error"
	case errors.Is(err, generator.ErrStructure):
		return msgStructure, "structure_error"
	case errors.Is(err, generator.ErrAssembly):
		return msgAssembly, "assembly_error"
	default:
		return msgGenerationFailure, "error"
	}
}

func readFormFile(r *http.Request, field string) ([]byte, error) {
	file, _, err := r.FormFile(field)
	if err != nil {
		return nil, err
	}
	defer file.Close()
	return io.ReadAll(file)
}

// withSource appends the text of the optional source attachment.
func withSource(r *http.Request, text string) (string, error) {
	content, err := readFormFile(r, "source")
	if errors.Is(err, http.ErrMissingFile) {
		return text, nil
	}
	if err != nil {
		return "", err
	}
	extracted, err := source.Extract(content)
	if err != nil {
		return "", err
	}
	if extracted == "" {
		return text, nil
	}
	return text + "\n\n" + extracted, nil
}
