// Copyright (c) 2026 Pagebound. All rights reserved.

/*
Package middleware decorates the router with the cross-cutting request
pipeline: correlation IDs, structured access logging, per-IP rate
limiting, panic containment, and CORS. Domain handlers downstream never
deal with any of these concerns directly.
*/
package middleware

import (
	"context"
	"encoding/json"
	"log/slog"
	"net"
	"net/http"
	"runtime"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/time/rate"

	"github.com/pagebound/bookclub/internal/platform/constants"
	"github.com/pagebound/bookclub/internal/platform/ctxutil"
)

// RequestID ensures every request carries a correlation ID, echoed back
// in the response header. Client-supplied IDs are honored; generated
// ones are UUIDv7 so they sort by time in log storage.
func RequestID() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			requestID := request.Header.Get(constants.HeaderXRequestID)
			if requestID == "" {
				if v7, err := uuid.NewV7(); err == nil {
					requestID = v7.String()
				} else {
					requestID = uuid.New().String()
				}
			}

			writer.Header().Set(constants.HeaderXRequestID, requestID)
			next.ServeHTTP(writer, request.WithContext(
				ctxutil.WithRequestID(request.Context(), requestID)))
		})
	}
}

// statusRecorder captures the final status code for the access log.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (recorder *statusRecorder) WriteHeader(code int) {
	recorder.status = code
	recorder.ResponseWriter.WriteHeader(code)
}

// StructuredLogger writes one access log line per request and stores a
// request-scoped child logger in the context for downstream code.
// Severity follows the response class: 5xx error, 4xx warn, else info.
func StructuredLogger(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			started := time.Now()

			requestLogger := logger.With(
				slog.String("request_id", ctxutil.GetRequestID(request.Context())),
				slog.String("method", request.Method),
				slog.String("path", request.URL.Path),
				slog.String("ip", RealIP(request)),
			)

			ctx := ctxutil.WithLogger(request.Context(), requestLogger)
			recorder := &statusRecorder{ResponseWriter: writer, status: http.StatusOK}

			next.ServeHTTP(recorder, request.WithContext(ctx))

			level := slog.LevelInfo
			switch {
			case recorder.status >= 500:
				level = slog.LevelError
			case recorder.status >= 400:
				level = slog.LevelWarn
			}

			requestLogger.Log(ctx, level, "http_request_finished",
				slog.Int("status", recorder.status),
				slog.Int64("latency_ms", time.Since(started).Milliseconds()),
				slog.String("user_agent", request.UserAgent()),
			)
		})
	}
}

// limiterRegistry tracks one token bucket per client IP.
type limiterRegistry struct {
	mu      sync.Mutex
	buckets map[string]*clientBucket
}

type clientBucket struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

func (registry *limiterRegistry) allow(ip string) bool {
	registry.mu.Lock()
	defer registry.mu.Unlock()

	bucket, ok := registry.buckets[ip]
	if !ok {
		bucket = &clientBucket{limiter: rate.NewLimiter(
			rate.Limit(constants.DefaultRateLimitRPS),
			constants.DefaultRateLimitBurst,
		)}
		registry.buckets[ip] = bucket
	}

	bucket.lastSeen = time.Now()
	return bucket.limiter.Allow()
}

// evictIdle drops buckets for IPs not seen within the TTL. Runs until
// the context is cancelled at shutdown.
func (registry *limiterRegistry) evictIdle(ctx context.Context) {
	ticker := time.NewTicker(constants.RateLimitCleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			registry.mu.Lock()
			for ip, bucket := range registry.buckets {
				if time.Since(bucket.lastSeen) > constants.RateLimitClientTTL {
					delete(registry.buckets, ip)
				}
			}
			registry.mu.Unlock()
		case <-ctx.Done():
			return
		}
	}
}

// RateLimit throttles each client IP with a token bucket. The supplied
// context bounds the lifetime of the idle-bucket eviction goroutine.
func RateLimit(ctx context.Context) func(http.Handler) http.Handler {
	registry := &limiterRegistry{buckets: make(map[string]*clientBucket)}
	go registry.evictIdle(ctx)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			if !registry.allow(RealIP(request)) {
				writeError(writer, http.StatusTooManyRequests, "TOO_MANY_REQUESTS", "Rate limit exceeded")
				return
			}
			next.ServeHTTP(writer, request)
		})
	}
}

// PanicRecovery turns a handler panic into a logged 500 instead of a
// dead connection.
func PanicRecovery(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			defer func() {
				if recovered := recover(); recovered != nil {
					stack := make([]byte, 2048)
					length := runtime.Stack(stack, false)

					ctxutil.GetLogger(request.Context()).ErrorContext(request.Context(), "panic_recovered",
						slog.Any("error", recovered),
						slog.String("stack", string(stack[:length])),
					)

					writeError(writer, http.StatusInternalServerError, "INTERNAL_SERVER_ERROR", "An unexpected error occurred")
				}
			}()

			next.ServeHTTP(writer, request)
		})
	}
}

// AppConfig is the slice of configuration the CORS middleware needs.
type AppConfig interface {
	IsDevelopment() bool
	ExtraOriginList() []string
}

// CORS answers cross-origin requests. Development allows any origin;
// production allows the pagebound.club domains plus any extra origins
// listed in configuration.
func CORS(cfg AppConfig) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			origin := request.Header.Get(constants.HeaderOrigin)
			if origin == "" {
				next.ServeHTTP(writer, request)
				return
			}

			if originAllowed(cfg, origin) {
				header := writer.Header()
				header.Set("Access-Control-Allow-Origin", origin)
				header.Set("Access-Control-Allow-Methods", "GET, POST, PUT, PATCH, DELETE, OPTIONS")
				header.Set("Access-Control-Allow-Headers", "Accept, Content-Type, Content-Length, X-Request-ID")
				header.Set("Access-Control-Expose-Headers", "Content-Length, X-Request-ID")
				header.Set("Access-Control-Max-Age", "300")
			}

			// Preflight requests stop here.
			if request.Method == http.MethodOptions {
				writer.WriteHeader(http.StatusNoContent)
				return
			}

			next.ServeHTTP(writer, request)
		})
	}
}

func originAllowed(cfg AppConfig, origin string) bool {
	if cfg.IsDevelopment() {
		return true
	}
	if strings.HasSuffix(origin, "pagebound.club") {
		return true
	}
	for _, allowed := range cfg.ExtraOriginList() {
		if origin == allowed {
			return true
		}
	}
	return false
}

// RealIP resolves the client address behind the usual proxy headers,
// falling back to the socket peer.
func RealIP(request *http.Request) string {
	if ip := request.Header.Get(constants.HeaderXRealIP); ip != "" {
		return ip
	}
	if forwarded := request.Header.Get(constants.HeaderXForwardedFor); forwarded != "" {
		return strings.TrimSpace(strings.Split(forwarded, ",")[0])
	}

	host, _, _ := net.SplitHostPort(request.RemoteAddr)
	return host
}

// writeError emits a minimal JSON error payload.
func writeError(writer http.ResponseWriter, status int, code, message string) {
	writer.Header().Set("Content-Type", "application/json; charset=utf-8")
	writer.WriteHeader(status)
	_ = json.NewEncoder(writer).Encode(map[string]string{
		constants.FieldCode:  code,
		constants.FieldError: message,
	})
}
