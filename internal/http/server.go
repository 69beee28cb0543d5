package http

import (
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"contas/internal/services"
	"contas/internal/store"
)

type Server struct {
	http.Server
	bills *services.BillService
	store store.Store
}

// NewServer wires routes and middleware, returning a ready-to-run server.
func NewServer(addr string, bills *services.BillService, st store.Store) *Server {
	s := &Server{
		Server: http.Server{
			Addr: addr,
		},
		bills: bills,
		store: st,
	}
	s.Handler = s.routes()
	return s
}

func (s *Server) routes() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(30 * time.Second))
	r.Use(requestLogger)

	r.Get("/healthz", handleHealth)
	r.Get("/readyz", handleReady)
	r.Handle("/metrics", promhttp.Handler())

	// Trailing-slash routes mirror the original API surface.
	r.Route("/categories", func(r chi.Router) {
		r.Post("/", s.handleCreateCategory)
		r.Get("/", s.handleListCategories)
	})
	r.Route("/wallets", func(r chi.Router) {
		r.Post("/", s.handleCreateWallet)
		r.Get("/", s.handleListWallets)
		r.Get("/{walletID}", s.handleWalletDetail)
	})
	r.Route("/bills", func(r chi.Router) {
		r.Post("/", s.handleCreateBill)
		r.Get("/", s.handleListBills)
		r.Post("/recurring/", s.handleCreateRecurringBill)
	})
	r.Get("/reminders/monthly", s.handleMonthlyReminders)

	return r
}

// requestLogger logs request start/end with the chi request id and records
// Prometheus request metrics.
func requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		requestID := middleware.GetReqID(r.Context())

		slog.InfoContext(r.Context(), "Request started",
			"request_id", requestID,
			"method", r.Method,
			"url", r.URL.Path,
			"remote", r.RemoteAddr)

		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		duration := time.Since(start)
		route := chi.RouteContext(r.Context()).RoutePattern()
		requestsTotal.WithLabelValues(r.Method, route, strconv.Itoa(ww.Status())).Inc()
		requestDuration.WithLabelValues(r.Method, route).Observe(duration.Seconds())

		slog.InfoContext(r.Context(), "Request completed",
			"request_id", requestID,
			"method", r.Method,
			"url", r.URL.Path,
			"status", ww.Status(),
			"duration_ms", duration.Milliseconds())
	})
}

func handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func handleReady(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ready"))
}
