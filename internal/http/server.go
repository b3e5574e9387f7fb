// Package http serves the web UI: login, expenses, analytics, and settings
// screens rendered from embedded templates. Handlers never talk to the
// backend directly; everything goes through the session manager, the screen
// controllers, and the API services.
package http

import (
	"context"
	"html/template"
	"io/fs"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"

	"spendbook/internal/api"
	"spendbook/internal/controller"
	"spendbook/internal/core"
	applog "spendbook/internal/log"
	"spendbook/internal/ratelimit"
	"spendbook/internal/session"
	appweb "spendbook/web"
)

// Ports onto the API mutation services, kept narrow for handler tests.
type (
	ExpenseEditor interface {
		Get(ctx context.Context, id string) (core.Expense, error)
		Create(ctx context.Context, e core.ExpenseCreate) (api.CreateResponse, error)
		Update(ctx context.Context, id string, e core.ExpenseCreate) (api.MessageResponse, error)
		Delete(ctx context.Context, id string) (api.MessageResponse, error)
	}

	CatalogEditor interface {
		Categories(ctx context.Context) ([]core.Category, error)
		SubCategories(ctx context.Context) ([]core.SubCategory, error)
		CreateCategory(ctx context.Context, name string) (api.CreateResponse, error)
		UpdateCategory(ctx context.Context, id, name string) (api.MessageResponse, error)
		DeleteCategory(ctx context.Context, id string) (api.MessageResponse, error)
		CreateSubCategory(ctx context.Context, name, categoryID string) (api.CreateResponse, error)
		UpdateSubCategory(ctx context.Context, id, name, categoryID string) (api.MessageResponse, error)
		DeleteSubCategory(ctx context.Context, id string) (api.MessageResponse, error)
	}

	Registrar interface {
		Register(ctx context.Context, username, email, password string) (api.RegisterResponse, error)
	}
)

type Server struct {
	http.Server
	templates *template.Template
	log       *slog.Logger

	session   *session.Manager
	expenses  *controller.ExpensesController
	analytics *controller.AnalyticsController

	expenseSvc ExpenseEditor
	catalogSvc CatalogEditor
	registrar  Registrar

	loginLimiter *ratelimit.Limiter
	shutdownOnce sync.Once
}

// Deps bundles everything the server needs.
type Deps struct {
	Session   *session.Manager
	Expenses  *controller.ExpensesController
	Analytics *controller.AnalyticsController

	ExpenseSvc ExpenseEditor
	CatalogSvc CatalogEditor
	Registrar  Registrar
}

// NewServer configures routes and templates, returning a ready-to-run
// server listening on addr.
func NewServer(addr string, deps Deps) *Server {
	mux := http.NewServeMux()

	s := &Server{
		Server: http.Server{
			Addr:    addr,
			Handler: mux,
		},
		log:        applog.WithComponent(slog.Default(), "http"),
		session:    deps.Session,
		expenses:   deps.Expenses,
		analytics:  deps.Analytics,
		expenseSvc: deps.ExpenseSvc,
		catalogSvc: deps.CatalogSvc,
		registrar:  deps.Registrar,

		loginLimiter: ratelimit.NewLimiter(10),
	}

	t, err := template.New("").Funcs(templateFuncs).ParseFS(appweb.TemplatesFS, "templates/*.html")
	if err != nil {
		s.log.Warn("Failed parsing templates", "error", err)
	}
	s.templates = t

	if sub, err := fs.Sub(appweb.StaticFS, "static"); err == nil {
		static := http.StripPrefix("/static/", http.FileServer(http.FS(sub)))
		mux.Handle("/static/", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Cache-Control", "public, max-age=3600")
			static.ServeHTTP(w, r)
		}))
	} else {
		s.log.Warn("Failed to mount embedded static FS", "error", err)
	}

	mux.HandleFunc("/healthz", handleHealth)
	mux.HandleFunc("/readyz", handleReady)

	mux.HandleFunc("/login", s.withRequestLog(s.loginLimiter.Middleware(s.handleLogin)))
	mux.HandleFunc("/register", s.withRequestLog(s.loginLimiter.Middleware(s.handleRegister)))
	mux.HandleFunc("/logout", s.withRequestLog(s.handleLogout))

	mux.HandleFunc("/", s.withRequestLog(s.requireSession(s.handleIndex)))
	mux.HandleFunc("/expenses", s.withRequestLog(s.requireSession(s.handleExpenses)))
	mux.HandleFunc("/expenses/save", s.withRequestLog(s.requireSession(s.handleSaveExpense)))
	mux.HandleFunc("/expenses/edit", s.withRequestLog(s.requireSession(s.handleEditExpense)))
	mux.HandleFunc("/expenses/delete", s.withRequestLog(s.requireSession(s.handleDeleteExpense)))

	mux.HandleFunc("/analytics", s.withRequestLog(s.requireSession(s.handleAnalytics)))
	mux.HandleFunc("/charts/by-category.png", s.withRequestLog(s.requireSession(s.handleCategoryChart)))
	mux.HandleFunc("/charts/by-date.png", s.withRequestLog(s.requireSession(s.handleDateChart)))

	mux.HandleFunc("/settings", s.withRequestLog(s.requireSession(s.handleSettings)))
	mux.HandleFunc("/settings/categories", s.withRequestLog(s.requireSession(s.handleCategorySave)))
	mux.HandleFunc("/settings/categories/delete", s.withRequestLog(s.requireSession(s.handleCategoryDelete)))
	mux.HandleFunc("/settings/subcategories", s.withRequestLog(s.requireSession(s.handleSubCategorySave)))
	mux.HandleFunc("/settings/subcategories/delete", s.withRequestLog(s.requireSession(s.handleSubCategoryDelete)))

	return s
}

// Shutdown gracefully stops the HTTP server.
func (s *Server) Shutdown(ctx context.Context) error {
	var err error
	s.shutdownOnce.Do(func() {
		s.loginLimiter.Stop()
		err = s.Server.Shutdown(ctx)
	})
	return err
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	http.Redirect(w, r, "/expenses", http.StatusSeeOther)
}

// requireSession gates a screen behind an active session.
func (s *Server) requireSession(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !s.session.Active() {
			http.Redirect(w, r, "/login", http.StatusSeeOther)
			return
		}
		next(w, r)
	}
}

// withRequestLog adds security headers, a request id, and start/finish
// logging around each handler.
func (s *Server) withRequestLog(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		requestID := uuid.NewString()

		ctx := r.Context()
		r = r.WithContext(ctx)

		s.log.DebugContext(ctx, "Request started",
			"request_id", requestID,
			"method", r.Method,
			"url", r.URL.Path)

		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.Header().Set("X-Frame-Options", "DENY")
		w.Header().Set("Referrer-Policy", "strict-origin-when-cross-origin")

		rw := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}
		next(rw, r)

		s.log.InfoContext(ctx, "Request completed",
			"request_id", requestID,
			"method", r.Method,
			"url", r.URL.Path,
			"status", rw.statusCode,
			"duration_ms", time.Since(start).Milliseconds())
	}
}

// responseWriter wraps http.ResponseWriter to capture the status code.
type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

func handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func handleReady(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ready"))
}

func (s *Server) render(w http.ResponseWriter, r *http.Request, name string, data any) {
	if err := s.templates.ExecuteTemplate(w, name, data); err != nil {
		s.log.ErrorContext(r.Context(), "Template render failed", "template", name, "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
	}
}
