package web

import (
	"context"
	"encoding/json"
	"fmt"
	"net"
	"net/http"
	"slices"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/msquare-market/admin/internal/console"
	"github.com/msquare-market/admin/internal/notify"
	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

const (
	toastPollInterval = time.Second
	heartbeatInterval = 30 * time.Second
	requestTimeout    = 60 * time.Second
)

// Server exposes the console over HTTP: JSON endpoints for views and actions,
// an SSE stream of toasts and prometheus metrics.
type Server struct {
	Addr         string
	l            *zap.Logger
	console      *console.Console
	pollInterval time.Duration
}

// NewServer creates a new web server instance.
func NewServer(l *zap.Logger, addr string, c *console.Console) *Server {
	return &Server{Addr: addr, l: l, console: c, pollInterval: toastPollInterval}
}

// Start runs the HTTP server (blocking) and shuts it down when ctx is cancelled.
func (s *Server) Start(ctx context.Context) error {
	if ctx == nil {
		ctx = context.Background()
	}

	server := &http.Server{
		Addr:              s.Addr,
		Handler:           s.Routes(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = server.Shutdown(shutdownCtx)
	}()

	s.l.Info("web console listening", zap.String("addr", s.Addr))
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// origins the console page is served from. A wildcard host listens on loopback too.
func (s *Server) origins() []string {
	host, port, err := net.SplitHostPort(s.Addr)
	if err != nil {
		return nil
	}
	switch host {
	case "", "0.0.0.0", "::", "127.0.0.1", "localhost":
		return []string{"http://127.0.0.1:" + port, "http://localhost:" + port}
	}
	return []string{"http://" + net.JoinHostPort(host, port)}
}

// guardWrites refuses state changing requests from foreign pages. A browser
// always sends Origin on such requests; tools like curl send none. The JSON
// content type is required even for empty bodies (AllowContentType skips those)
// so a cross site request always needs a CORS preflight.
func guardWrites(origins []string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			switch r.Method {
			case http.MethodGet, http.MethodHead, http.MethodOptions:
				next.ServeHTTP(w, r)
				return
			}
			if origin := r.Header.Get("Origin"); origin != "" && !slices.Contains(origins, origin) {
				writeJSON(w, r, http.StatusForbidden, apiError{Error: "origin not allowed"})
				return
			}
			mediaType, _, _ := strings.Cut(r.Header.Get("Content-Type"), ";")
			if !strings.EqualFold(strings.TrimSpace(mediaType), "application/json") {
				writeJSON(w, r, http.StatusUnsupportedMediaType, apiError{Error: "content type must be application/json"})
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// Routes builds the router.
func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()

	origins := s.origins()
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   origins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"},
		ExposedHeaders:   []string{"X-Request-ID"},
		AllowCredentials: false,
		MaxAge:           300,
	}))
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.logRequests)
	r.Use(middleware.Recoverer)

	r.Get("/", s.handleIndex)
	r.Get("/health", s.handleHealth)
	r.Handle("/metrics", promhttp.Handler())
	// the stream is long lived, so it stays out of the timeout group
	r.Get("/v1/notifications/stream", s.handleToastStream)

	r.Group(func(r chi.Router) {
		r.Use(middleware.Timeout(requestTimeout))

		r.Route("/v1", func(r chi.Router) {
			r.Use(middleware.AllowContentType("application/json"))
			r.Use(guardWrites(origins))
			r.Get("/dashboard", s.handleDashboard)

			r.Get("/views", s.handleViews)
			r.Route("/views/{view}", func(r chi.Router) {
				r.Get("/", s.handleView)
				r.Post("/reload", s.handleReload)
				r.Post("/search", s.handleSearch)
				r.Post("/more", s.handleMore)
				r.Post("/columns/move", s.handleMoveColumn)
				r.Post("/columns/sort", s.handleToggleSort)
				r.Put("/columns", s.handleSaveView)
				r.Delete("/columns", s.handleResetView)
			})

			r.Post("/bank-changes/{userID}/approve", s.handleApproveBankChange)
			r.Post("/bank-changes/{userID}/reject", s.handleRejectBankChange)
			r.Post("/deposits/{id}/approve", s.handleReviewDeposit(true))
			r.Post("/deposits/{id}/reject", s.handleReviewDeposit(false))
			r.Post("/withdrawals/{id}/approve", s.handleReviewWithdrawal(true))
			r.Post("/withdrawals/{id}/reject", s.handleReviewWithdrawal(false))
			r.Post("/ownership-transfers", s.handleCreateTransfer)
			r.Post("/tokens", s.handleCreateToken)
			r.Put("/settings/bank-account-amount", s.handleBankAccountAmount)
			r.Get("/settings/notifications", s.handleNotificationSettings)
			r.Put("/settings/notifications/{event}", s.handleUpdateNotification)
			r.Get("/settings/time", s.handleTimeSettings)
			r.Put("/settings/time/{name}", s.handleUpdateTime)
		})
	})

	return r
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		started := time.Now()
		next.ServeHTTP(ww, r)
		s.l.Debug("http request",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", ww.Status()),
			zap.String("request_id", middleware.GetReqID(r.Context())),
			zap.Duration("took", time.Since(started)))
	})
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	fmt.Fprint(w, indexHTML)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, r, http.StatusOK, map[string]string{
		"status":      "online",
		"environment": string(s.console.Environment()),
		"language":    s.console.Catalog().Language().String(),
	})
}

// handleToastStream follows the toast feed, starting after ?after=<index> or
// after the latest toast when absent.
func (s *Server) handleToastStream(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "streaming unsupported", http.StatusInternalServerError)
		return
	}

	hub := s.console.Hub()
	lastIndex := hub.LastIndex()
	if after := r.URL.Query().Get("after"); after != "" {
		if _, err := fmt.Sscan(after, &lastIndex); err != nil {
			http.Error(w, "after must be a toast index", http.StatusBadRequest)
			return
		}
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)
	flusher.Flush()

	heartbeat := time.NewTicker(heartbeatInterval)
	defer heartbeat.Stop()

	pollTicker := time.NewTicker(s.pollInterval)
	defer pollTicker.Stop()

	sendToasts := func() {
		for _, toast := range hub.After(lastIndex) {
			payload, err := json.Marshal(toast)
			if err != nil {
				s.l.Error("failed to encode toast", zap.Error(err))
				continue
			}
			fmt.Fprintf(w, "id: %d\n", toast.Index)
			fmt.Fprintf(w, "event: %s\n", eventName(toast.Level))
			fmt.Fprintf(w, "data: %s\n\n", payload)
			flusher.Flush()
			lastIndex = toast.Index
		}
	}

	sendToasts()
	for {
		select {
		case <-r.Context().Done():
			return
		case <-heartbeat.C:
			fmt.Fprintf(w, ": ping\n\n")
			flusher.Flush()
		case <-pollTicker.C:
			sendToasts()
		}
	}
}

func eventName(level notify.Level) string {
	return "toast_" + string(level)
}

// Admin console landing page: views menu, current view table and live toasts.
const indexHTML = `<!DOCTYPE html>
<html lang="en">
<head>
  <meta charset="utf-8" />
  <title>MSquare Market Admin</title>
  <style>
    body { margin:0; font-family:'Space Mono','JetBrains Mono',monospace; background:#f6f6f6; color:#111; }
    header { display:flex; justify-content:space-between; padding:1rem 2rem; border-bottom:3px solid #111; background:#fff; }
    nav button { margin-right:.4rem; border:2px solid #111; background:#fff; padding:.3rem .7rem; cursor:pointer; }
    main { padding:1rem 2rem; }
    table { border-collapse:collapse; width:100%; background:#fff; }
    th, td { border:1px solid #ccc; padding:.3rem .5rem; font-size:.75rem; text-align:left; }
    th { cursor:pointer; }
    #toasts { position:fixed; right:1rem; bottom:1rem; display:flex; flex-direction:column; gap:.4rem; }
    .toast { border:2px solid #111; padding:.5rem .8rem; background:#fff; font-size:.75rem; }
    .toast.error { border-color:#d7263d; }
    .toast.warning { border-color:#ff7f11; }
    .toast.success { border-color:#1b9aaa; }
  </style>
</head>
<body>
  <header><strong>MSquare Market Admin</strong><span id="env"></span></header>
  <main>
    <nav id="views"></nav>
    <p><input id="search" placeholder="Search (3+ characters)" /></p>
    <table id="grid"><thead></thead><tbody></tbody></table>
    <div id="sentinel"></div>
    <p><button id="more">Load more</button></p>
  </main>
  <div id="toasts"></div>
<script>
let current = null;
const grid = document.getElementById('grid');
const api = (path, opts) => fetch(path, Object.assign({ headers:{'Content-Type':'application/json'} }, opts)).then(r => r.json());

function render(snap){
  current = snap.view;
  grid.tHead.innerHTML = '<tr>' + snap.headers.map((h, i) => '<th data-field="' + snap.fields[i] + '">' + h + '</th>').join('') + '</tr>';
  grid.tBodies[0].innerHTML = snap.rows.map(row => '<tr>' + row.map(c => '<td>' + c + '</td>').join('') + '</tr>').join('');
}

function open(view){ api('/v1/views/' + view).then(render); }

grid.addEventListener('click', (e) => {
  const field = e.target.dataset.field;
  if(field && current){ api('/v1/views/' + current + '/columns/sort', { method:'POST', body:JSON.stringify({ field }) }).then(r => render(r.snapshot)); }
});

document.getElementById('search').addEventListener('input', (e) => {
  if(current){ api('/v1/views/' + current + '/search', { method:'POST', body:JSON.stringify({ value:e.target.value }) }); }
});

new IntersectionObserver((entries) => {
  if(current && entries.some(en => en.isIntersecting)){
    api('/v1/views/' + current + '/more', { method:'POST' }).then(r => render(r.snapshot));
  }
}).observe(document.getElementById('sentinel'));

document.getElementById('more').addEventListener('click', () => {
  if(current){ api('/v1/views/' + current + '/more?manual=1', { method:'POST' }).then(r => render(r.snapshot)); }
});

api('/v1/views').then(views => {
  const nav = document.getElementById('views');
  views.forEach(v => {
    const b = document.createElement('button');
    b.textContent = v.title;
    b.onclick = () => open(v.name);
    nav.appendChild(b);
  });
});
api('/health').then(h => { document.getElementById('env').textContent = h.environment; });

function connectToasts(){
  const source = new EventSource('/v1/notifications/stream');
  ['success','error','warning','info'].forEach(level => {
    source.addEventListener('toast_' + level, (event) => {
      const toast = JSON.parse(event.data);
      const el = document.createElement('div');
      el.className = 'toast ' + toast.level;
      el.textContent = toast.message;
      document.getElementById('toasts').appendChild(el);
      setTimeout(() => el.remove(), 5000);
      if(current && toast.level === 'success'){ open(current); }
    });
  });
  source.addEventListener('error', () => {
    source.close();
    setTimeout(connectToasts, 2000);
  });
}

connectToasts();
</script>
</body>
</html>`
