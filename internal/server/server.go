// Package server exposes the estimator over HTTP.
package server

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"
	"github.com/google/uuid"
	"github.com/iwvelando/payroll-estimate/pkg/constants"
	"github.com/iwvelando/payroll-estimate/pkg/estimator"
	"github.com/iwvelando/payroll-estimate/pkg/output"
	"github.com/iwvelando/payroll-estimate/pkg/validation"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

// RequestIDHeader carries the per-request identifier in both directions.
const RequestIDHeader = "X-Request-ID"

var contentTypes = map[string]string{
	constants.OutputFormatText: "text/plain; charset=utf-8",
	constants.OutputFormatJSON: "application/json",
	constants.OutputFormatYAML: "application/yaml",
	constants.OutputFormatCSV:  "text/csv; charset=utf-8",
	constants.OutputFormatXLSX: "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
}

type handler struct {
	logger  *zap.Logger
	opts    Options
	metrics *metrics
}

type estimateResponse struct {
	Result   estimator.Result `json:"result"`
	Warnings []string         `json:"warnings,omitempty"`
	Report   string           `json:"report"`
	Duration string           `json:"duration"`
}

type errorResponse struct {
	Error     string `json:"error"`
	RequestID string `json:"requestId,omitempty"`
}

// NewHandler constructs the HTTP handler that serves the estimate API.
func NewHandler(logger *zap.Logger, opts Options) http.Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	if opts.MaxBodySize <= 0 {
		opts.MaxBodySize = constants.DefaultMaxBodySizeBytes
	}
	opts.Version = strings.TrimSpace(opts.Version)
	if opts.Version == "" {
		opts.Version = "dev"
	}
	if opts.Registry == nil {
		opts.Registry = prometheus.NewRegistry()
	}

	h := &handler{
		logger:  logger,
		opts:    opts,
		metrics: newMetrics(opts.Registry),
	}

	router := chi.NewRouter()
	router.Use(
		requestID,
		h.logRequests,
		middleware.Recoverer,
	)

	router.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		render.PlainText(w, r, "ok")
	})
	router.Handle("/metrics", promhttp.HandlerFor(opts.Registry, promhttp.HandlerOpts{}))

	router.Route("/api", func(r chi.Router) {
		r.Get("/version", h.handleVersion)
		r.Get("/estimate", h.handleEstimateQuery)
		r.Post("/estimate", h.handleEstimateBody)
		r.Get("/estimate/{format}", h.handleEstimateRender)
	})

	return router
}

func (h *handler) handleVersion(w http.ResponseWriter, r *http.Request) {
	render.JSON(w, r, map[string]string{
		"version": h.opts.Version,
	})
}

func (h *handler) handleEstimateQuery(w http.ResponseWriter, r *http.Request) {
	in, err := inputsFromQuery(r)
	if err != nil {
		h.respondError(w, r, http.StatusBadRequest, err.Error(), "server.handleEstimateQuery")
		return
	}
	h.respondEstimate(w, r, in, "server.handleEstimateQuery")
}

func (h *handler) handleEstimateBody(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, h.opts.MaxBodySize)

	in := estimator.DefaultInputs()
	if err := render.DecodeJSON(r.Body, &in); err != nil && !errors.Is(err, io.EOF) {
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) {
			h.respondError(w, r, http.StatusRequestEntityTooLarge,
				fmt.Sprintf("request body exceeds limit of %d bytes", h.opts.MaxBodySize), "server.handleEstimateBody")
			return
		}
		h.respondError(w, r, http.StatusBadRequest, fmt.Sprintf("failed to decode inputs: %v", err), "server.handleEstimateBody")
		return
	}
	h.respondEstimate(w, r, in, "server.handleEstimateBody")
}

func (h *handler) handleEstimateRender(w http.ResponseWriter, r *http.Request) {
	format := chi.URLParam(r, "format")
	if err := validation.ValidateFileFormat(format); err != nil {
		h.respondError(w, r, http.StatusNotFound, err.Error(), "server.handleEstimateRender")
		return
	}

	in, err := inputsFromQuery(r)
	if err != nil {
		h.respondError(w, r, http.StatusBadRequest, err.Error(), "server.handleEstimateRender")
		return
	}
	result, ok := h.estimate(w, r, in, "server.handleEstimateRender")
	if !ok {
		return
	}

	var buf bytes.Buffer
	if err := output.Render(&buf, format, result, h.opts.Report); err != nil {
		h.respondError(w, r, http.StatusInternalServerError, fmt.Sprintf("failed to render %s: %v", format, err), "server.handleEstimateRender")
		return
	}

	w.Header().Set("Content-Type", contentTypes[format])
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(buf.Bytes()); err != nil {
		h.logger.Warn("failed to write response",
			zap.String("op", "server.handleEstimateRender"),
			zap.Error(err),
		)
	}
}

func (h *handler) respondEstimate(w http.ResponseWriter, r *http.Request, in estimator.Inputs, op string) {
	start := time.Now()
	result, ok := h.estimate(w, r, in, op)
	if !ok {
		return
	}

	var report strings.Builder
	if err := output.Text(&report, result, h.opts.Report); err != nil {
		h.respondError(w, r, http.StatusInternalServerError, fmt.Sprintf("failed to render report: %v", err), op)
		return
	}

	render.JSON(w, r, estimateResponse{
		Result:   result,
		Warnings: validation.Warnings(in),
		Report:   report.String(),
		Duration: time.Since(start).String(),
	})
}

// estimate runs the estimator. Inputs that cannot be represented are always
// rejected; out-of-domain inputs only in strict mode.
func (h *handler) estimate(w http.ResponseWriter, r *http.Request, in estimator.Inputs, op string) (estimator.Result, bool) {
	if err := validation.Representable(in); err != nil {
		h.metrics.rejected.Inc()
		h.respondError(w, r, http.StatusBadRequest, err.Error(), op)
		return estimator.Result{}, false
	}
	if h.opts.Strict {
		if err := validation.Strict(in); err != nil {
			h.metrics.rejected.Inc()
			h.respondError(w, r, http.StatusUnprocessableEntity, err.Error(), op)
			return estimator.Result{}, false
		}
	}

	result := in.Compute()
	if err := result.Check(); err != nil {
		h.respondError(w, r, http.StatusInternalServerError, err.Error(), op)
		return estimator.Result{}, false
	}

	h.metrics.observe(result)
	h.logger.Debug("computed estimate",
		zap.String("op", op),
		zap.Int("n_active", result.NActive),
		zap.Int("count_high", result.CountHigh),
		zap.Float64("total_market_cap", result.TotalMarketCap),
	)
	return result, true
}

// inputsFromQuery overlays query parameters on the default inputs.
func inputsFromQuery(r *http.Request) (estimator.Inputs, error) {
	in := estimator.DefaultInputs()
	q := r.URL.Query()

	if v := q.Get("n_active"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return in, fmt.Errorf("invalid n_active %q: expected an integer", v)
		}
		in.NActive = n
	}

	floats := []struct {
		name string
		dst  *float64
	}{
		{"avg_salary", &in.AvgSalary},
		{"high_percentile", &in.HighPercentile},
		{"high_salary", &in.HighSalary},
	}
	for _, f := range floats {
		v := q.Get(f.name)
		if v == "" {
			continue
		}
		parsed, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return in, fmt.Errorf("invalid %s %q: expected a number", f.name, v)
		}
		*f.dst = parsed
	}

	return in, nil
}

func (h *handler) respondError(w http.ResponseWriter, r *http.Request, status int, msg string, op string) {
	h.logger.Error("estimate request failed",
		zap.String("op", op),
		zap.Int("status", status),
		zap.String("error", msg),
		zap.String("request_id", w.Header().Get(RequestIDHeader)),
	)

	render.Status(r, status)
	render.JSON(w, r, errorResponse{
		Error:     msg,
		RequestID: w.Header().Get(RequestIDHeader),
	})
}

// requestID propagates the caller's X-Request-ID or assigns a fresh UUID.
func requestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(RequestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}
		w.Header().Set(RequestIDHeader, id)
		next.ServeHTTP(w, r)
	})
}

func (h *handler) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		h.metrics.requests.WithLabelValues(strconv.Itoa(ww.Status())).Inc()
		h.logger.Info("handled request",
			zap.String("op", "server.logRequests"),
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", ww.Status()),
			zap.Int("bytes", ww.BytesWritten()),
			zap.Duration("duration", time.Since(start)),
			zap.String("request_id", ww.Header().Get(RequestIDHeader)),
		)
	})
}

// Run serves handler on opts.Address until ctx is cancelled, then shuts the
// server down gracefully.
func Run(ctx context.Context, logger *zap.Logger, opts Options, handler http.Handler) error {
	listener, err := net.Listen("tcp", opts.Address)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", opts.Address, err)
	}
	return Serve(ctx, logger, listener, opts.ShutdownTimeout, handler)
}

// Serve is Run on an existing listener. It returns only after its shutdown
// goroutine has finished, whether the context was cancelled or serving failed.
func Serve(ctx context.Context, logger *zap.Logger, listener net.Listener, shutdownTimeout time.Duration, handler http.Handler) error {
	if logger == nil {
		logger = zap.NewNop()
	}
	srv := &http.Server{
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	// stop also releases the shutdown goroutine when Serve fails on its own.
	ctx, stop := context.WithCancel(ctx)
	defer stop()

	done := make(chan struct{})
	go func() {
		defer close(done)
		<-ctx.Done()
		logger.Info("shutdown signal received",
			zap.String("op", "server.Serve"),
			zap.Error(ctx.Err()),
		)
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		srv.SetKeepAlivesEnabled(false)
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Warn("graceful shutdown failed",
				zap.String("op", "server.Serve"),
				zap.Error(err),
			)
		}
	}()

	logger.Info("listening",
		zap.String("op", "server.Serve"),
		zap.String("address", listener.Addr().String()),
	)
	if err := srv.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
		stop()
		<-done
		return err
	}
	<-done
	return nil
}
