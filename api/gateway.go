package api

import (
	"bytes"
	"fmt"
	"log"
	"net/http"
	"net/http/httputil"
	"net/url"

	"PagRecon/internal/config"
	"PagRecon/internal/logger"
)

// createReverseProxy returns a handler that forwards to the given vertical
// and audit-logs the outcome.
func createReverseProxy(target string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		logr := logger.GlobalLogger

		clientIP := r.RemoteAddr
		if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
			clientIP = xff
		}

		msg := fmt.Sprintf("[Gateway] Incoming request: %s %s from %s", r.Method, r.URL.Path, clientIP)
		if logr != nil {
			logr.LogAudit(msg)
		} else {
			log.Println(msg)
		}

		u, err := url.Parse(target)
		if err != nil {
			http.Error(w, "Bad target URL", http.StatusInternalServerError)
			return
		}
		proxy := httputil.NewSingleHostReverseProxy(u)

		rw := &responseWriter{ResponseWriter: w, statusCode: 200}
		proxy.ServeHTTP(rw, r)
		if rw.statusCode >= 400 {
			msg = fmt.Sprintf("[Gateway][ERROR] Proxied to %s for %s, status %d, error: %s", target, r.URL.Path, rw.statusCode, rw.body.String())
		} else {
			msg = fmt.Sprintf("[Gateway] Proxied to %s for %s, status %d", target, r.URL.Path, rw.statusCode)
		}
		if logr != nil {
			logr.LogAudit(msg)
		} else {
			log.Println(msg)
		}
	}
}

// responseWriter wraps http.ResponseWriter to capture status code and response body
type responseWriter struct {
	http.ResponseWriter
	statusCode int
	body       bytes.Buffer
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

func (rw *responseWriter) Write(b []byte) (int, error) {
	if rw.statusCode >= 400 {
		rw.body.Write(b)
	}
	return rw.ResponseWriter.Write(b)
}

// CORSMiddleware allows the hosted frontend to call the gateway directly.
func CORSMiddleware(origin string, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", origin)
		w.Header().Set("Access-Control-Allow-Credentials", "true")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "*")
		w.Header().Set("Access-Control-Expose-Headers", "Content-Disposition, X-Recon-Session")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// StartGateway starts the front listener: liveness at /, everything under
// /recon/ and /report/ proxied to the vertical services.
func StartGateway(cfg map[string]interface{}) {
	port := config.DefaultGatewayPort
	if cfg != nil {
		if p, ok := cfg["port"].(int); ok && p > 0 {
			port = p
		}
	}
	origin := config.DefaultAllowedOrigin
	if cfg != nil {
		if o, ok := cfg["allowed_origin"].(string); ok && o != "" {
			origin = o
		}
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/recon/", createReverseProxy(fmt.Sprintf("http://localhost:%d", config.DefaultReconPort)))
	mux.HandleFunc("/report/", createReverseProxy(fmt.Sprintf("http://localhost:%d", config.DefaultReportPort)))

	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/" {
			logr := logger.GlobalLogger
			msg := "[Gateway] [Error] " + r.URL.Path + " from " + r.RemoteAddr + " (route not found)"
			if logr != nil {
				logr.LogAudit(msg)
			} else {
				log.Println(msg)
			}
			w.WriteHeader(http.StatusNotFound)
			w.Write([]byte("404 - Route not found"))
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"message":"PAG API is live!"}`))
	})

	log.Printf("API Gateway started on :%d", port)
	err := http.ListenAndServe(fmt.Sprintf(":%d", port), CORSMiddleware(origin, mux))
	if err != nil {
		log.Fatalf("Gateway server failed: %v", err)
	}
}
