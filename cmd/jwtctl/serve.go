package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"github.com/MrEthical07/jwtservice"
	"github.com/MrEthical07/jwtservice/envconfig"
	"github.com/MrEthical07/jwtservice/metrics/export/prometheus"
)

const shutdownTimeout = 5 * time.Second

type signRequest struct {
	Payload   map[string]any `json:"payload"`
	Algorithm string         `json:"algorithm,omitempty"`
}

type verifyRequest struct {
	Token string `json:"token"`
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func runServe(ctx context.Context, svc *jwtservice.Service, settings envconfig.Settings, logger *zap.Logger, stderr io.Writer) int {
	srv := &http.Server{
		Addr:              settings.HTTPAddr,
		Handler:           newRouter(svc, settings.MetricsEnabled),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("listening", zap.String("addr", settings.HTTPAddr))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			fmt.Fprintf(stderr, "serve: %v\n", err)
			return exitFail
		}
		return exitOK
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		fmt.Fprintf(stderr, "shutdown: %v\n", err)
		return exitFail
	}
	logger.Info("server stopped")
	return exitOK
}

func newRouter(svc *jwtservice.Service, metrics bool) *mux.Router {
	r := mux.NewRouter()
	r.Use(requestContext)
	r.HandleFunc("/sign", signHandler(svc)).Methods(http.MethodPost)
	r.HandleFunc("/verify", verifyHandler(svc)).Methods(http.MethodPost)
	r.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}).Methods(http.MethodGet)
	if metrics {
		r.Handle("/metrics", prometheus.NewPrometheusExporter(svc).Handler()).Methods(http.MethodGet)
	}
	return r
}

// requestContext stamps the client IP and a request ID for audit events.
func requestContext(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		host, _, err := net.SplitHostPort(r.RemoteAddr)
		if err != nil {
			host = r.RemoteAddr
		}
		requestID := r.Header.Get("X-Request-ID")
		if requestID == "" {
			requestID = uuid.NewString()
		}
		w.Header().Set("X-Request-ID", requestID)

		ctx := jwtservice.WithClientIP(r.Context(), host)
		ctx = jwtservice.WithRequestID(ctx, requestID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func signHandler(svc *jwtservice.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req signRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			respondJSON(w, http.StatusBadRequest, errorResponse{Code: "bad_request", Message: err.Error()})
			return
		}
		if req.Payload == nil {
			req.Payload = map[string]any{}
		}

		var algorithm []string
		if req.Algorithm != "" {
			algorithm = append(algorithm, req.Algorithm)
		}
		res, err := svc.Sign(r.Context(), req.Payload, algorithm...)
		if err != nil {
			status := http.StatusInternalServerError
			if errors.Is(err, jwtservice.ErrUnknownAlgorithm) {
				status = http.StatusBadRequest
			}
			respondError(w, status, err)
			return
		}
		respondJSON(w, http.StatusOK, res)
	}
}

func verifyHandler(svc *jwtservice.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req verifyRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			respondJSON(w, http.StatusBadRequest, errorResponse{Code: "bad_request", Message: err.Error()})
			return
		}

		claims, err := svc.Verify(r.Context(), req.Token)
		if err != nil {
			respondError(w, http.StatusUnauthorized, err)
			return
		}
		respondJSON(w, http.StatusOK, claims)
	}
}

// respondError never echoes Params: they may carry the token or payload.
func respondError(w http.ResponseWriter, status int, err error) {
	code := jwtservice.CodeOf(err)
	msg := string(code)
	if cause := errors.Unwrap(err); cause != nil {
		msg = cause.Error()
	}
	respondJSON(w, status, errorResponse{Code: string(code), Message: msg})
}

func respondJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
