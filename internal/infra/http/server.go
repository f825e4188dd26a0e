package http

import (
	"context"
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Routes — обработчики приложения, которые сервер вешает на mux.
type Routes struct {
	ReminderRun    http.HandlerFunc // POST /internal/reminders/run
	Upcoming       http.HandlerFunc // GET  /api/upcoming
	UpcomingReport http.Handler     // GET  /api/reports/upcoming
	PushSubscribe  http.HandlerFunc // POST|DELETE /api/push/subscribe
	PushVAPIDKey   http.HandlerFunc // GET  /api/push/vapid-public-key
	PushTest       http.HandlerFunc // POST /api/push/test
}

type Server struct {
	srv *http.Server
}

func New(addr string, exposeMetrics bool, routes Routes) *Server {
	mux := http.NewServeMux()

	mux.HandleFunc("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/plain")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("OK"))
	})

	if exposeMetrics {
		mux.Handle("/metrics", promhttp.Handler())
	}

	if routes.ReminderRun != nil {
		mux.HandleFunc("/internal/reminders/run", routes.ReminderRun)
	}
	if routes.Upcoming != nil {
		mux.HandleFunc("/api/upcoming", routes.Upcoming)
	}
	if routes.UpcomingReport != nil {
		mux.Handle("/api/reports/upcoming", routes.UpcomingReport)
	}
	if routes.PushSubscribe != nil {
		mux.HandleFunc("/api/push/subscribe", routes.PushSubscribe)
	}
	if routes.PushVAPIDKey != nil {
		mux.HandleFunc("/api/push/vapid-public-key", routes.PushVAPIDKey)
	}
	if routes.PushTest != nil {
		mux.HandleFunc("/api/push/test", routes.PushTest)
	}

	return &Server{srv: &http.Server{Addr: addr, Handler: mux}}
}

func (s *Server) Start() error {
	return s.srv.ListenAndServe()
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.srv.Shutdown(ctx)
}
