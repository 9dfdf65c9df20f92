package web

import (
	"context"
	"html/template"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/aws/aws-xray-sdk-go/xray"
	"github.com/gorilla/csrf"

	"github.com/example/quadras-reserva/internal/booking"
	"github.com/example/quadras-reserva/internal/clock"
	"github.com/example/quadras-reserva/internal/session"
)

// pageTimeout bounds the backend work behind a single page.
const pageTimeout = 15 * time.Second

type Server struct {
	Backend  booking.Backend
	Sessions *session.Store
	Clock    clock.Clock
	Location *time.Location

	Origin      string
	SlotTimeout time.Duration
	BaseURL     string
	CSRFKey     []byte
	Tracing     bool

	pages map[string]*template.Template
}

func New(s Server) (*Server, error) {
	pages, err := ParseTemplates()
	if err != nil {
		return nil, err
	}
	if s.Location == nil {
		s.Location = time.Local
	}
	if s.Clock == nil {
		s.Clock = clock.Local{Loc: s.Location}
	}
	s.pages = pages
	return &s, nil
}

// Routes returns the full handler: CSRF protection, request logging, visitor
// ids and, when enabled, X-Ray tracing around the page mux. Logging runs
// inside Visitors so each line carries the visitor id.
func (s *Server) Routes() http.Handler {
	secure := strings.HasPrefix(s.BaseURL, "https://")

	var h http.Handler = s.mux()
	h = csrf.Protect(s.CSRFKey,
		csrf.Secure(secure),
		csrf.Path("/"),
		csrf.FieldName("csrf_token"),
	)(h)
	if !secure {
		h = plaintext(h)
	}
	h = logging(h)
	h = s.Sessions.Visitors(h)
	if s.Tracing {
		h = xray.Handler(xray.NewFixedSegmentNamer("quadras"), h)
	}
	return h
}

func (s *Server) mux() *http.ServeMux {
	mux := http.NewServeMux()

	mux.Handle("GET /static/", http.FileServer(http.FS(staticFS)))

	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok\n"))
	})

	mux.HandleFunc("GET /{$}", s.handleForm)
	mux.HandleFunc("POST /{$}", s.handleFormPost)
	mux.HandleFunc("GET /resultado", s.handleResult)
	mux.HandleFunc("POST /resultado", s.handleResultDismiss)
	mux.HandleFunc("GET /minhas-reservas", s.handleLookup)

	return mux
}

// plaintext marks requests as served over plain HTTP so the CSRF origin
// check compares against http:// origins.
func plaintext(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.TLS == nil {
			r = csrf.PlaintextHTTPRequest(r)
		}
		next.ServeHTTP(w, r)
	})
}

func logging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		visitor, _ := session.VisitorFromContext(r.Context())
		log.Printf("%s %s %s visitor=%s", r.Method, r.URL.Path, time.Since(start), visitor)
	})
}

type tmplData struct {
	Title string
	CSRF  template.HTML

	Form   *formView
	Result *resultView
	Lookup *lookupView
	Fatal  string
}

func (s *Server) render(w http.ResponseWriter, r *http.Request, status int, page string, data tmplData) {
	t, ok := s.pages[page]
	if !ok {
		http.Error(w, "template error: unknown page "+page, http.StatusInternalServerError)
		return
	}
	data.CSRF = csrf.TemplateField(r)
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if err := t.ExecuteTemplate(w, "base", data); err != nil {
		log.Printf("web: render %s: %v", page, err)
	}
}

func Start(ctx context.Context, addr string, h http.Handler) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           h,
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()
	log.Printf("listening on %s", addr)
	if err := srv.ListenAndServe(); err != http.ErrServerClosed {
		return err
	}
	return nil
}
