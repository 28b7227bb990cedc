package web

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"io/fs"
	"net/http"
	"os"
	"sync"

	"quickgrab-listing-feed/internal/config"
	"quickgrab-listing-feed/internal/domain/shared"
	"quickgrab-listing-feed/internal/ports/inbound"

	"github.com/rs/zerolog"
)

//go:embed templates/*.html
var embeddedTemplates embed.FS

// PageRenderer renders the server side pages of the listing feed
type PageRenderer struct {
	feedService inbound.FeedService
	templates   *templateSet
	logger      zerolog.Logger
}

type PageRendererParams struct {
	Config      *config.Config
	FeedService inbound.FeedService
	Logger      zerolog.Logger
}

// NewPageRenderer creates a page renderer. Templates come from the embedded set
// unless a template directory is configured; in development that directory is
// re-read on every render.
func NewPageRenderer(params PageRendererParams) (*PageRenderer, error) {
	templates, err := newTemplateSet(params.Config)
	if err != nil {
		return nil, err
	}

	return &PageRenderer{
		feedService: params.FeedService,
		templates:   templates,
		logger:      params.Logger.With().Str("component", "page_renderer").Logger(),
	}, nil
}

// Home handles GET /home
func (p *PageRenderer) Home(w http.ResponseWriter, r *http.Request) error {
	items, err := p.feedService.RecentListings(r.Context())
	if err != nil {
		return err
	}

	return p.render(w, http.StatusOK, "home.html", newHomeView(items))
}

// RenderError writes the generic error page
func (p *PageRenderer) RenderError(w http.ResponseWriter, status int) {
	view := errorView{Brand: brandName, Status: status, StatusText: http.StatusText(status)}
	if err := p.render(w, status, "error.html", view); err != nil {
		p.logger.Error().Err(err).Msg("Failed to render error page")
		http.Error(w, http.StatusText(status), status)
	}
}

// render executes into a buffer so a template failure never leaves a half written page
func (p *PageRenderer) render(w http.ResponseWriter, status int, name string, data interface{}) error {
	tmpl, err := p.templates.lookup(name)
	if err != nil {
		return err
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return fmt.Errorf("failed to render %s: %w", name, err)
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if _, err := buf.WriteTo(w); err != nil {
		p.logger.Debug().Err(err).Str("template", name).Msg("Client went away while writing page")
	}
	return nil
}

type templateSet struct {
	fsys   fs.FS
	reload bool
	mu     sync.Mutex
	parsed *template.Template
}

func newTemplateSet(cfg *config.Config) (*templateSet, error) {
	set := &templateSet{}

	if cfg.Server.TemplateDir == "" {
		sub, err := fs.Sub(embeddedTemplates, "templates")
		if err != nil {
			return nil, fmt.Errorf("failed to open embedded templates: %w", err)
		}
		set.fsys = sub
	} else {
		set.fsys = os.DirFS(cfg.Server.TemplateDir)
		set.reload = !cfg.IsProduction()
	}

	parsed, err := parseTemplates(set.fsys)
	if err != nil {
		return nil, err
	}
	set.parsed = parsed

	return set, nil
}

func (s *templateSet) lookup(name string) (*template.Template, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.reload {
		parsed, err := parseTemplates(s.fsys)
		if err != nil {
			return nil, err
		}
		s.parsed = parsed
	}

	tmpl := s.parsed.Lookup(name)
	if tmpl == nil {
		return nil, fmt.Errorf("%w: %s", shared.ErrTemplateNotFound, name)
	}
	return tmpl, nil
}

func parseTemplates(fsys fs.FS) (*template.Template, error) {
	tmpl, err := template.New("pages").ParseFS(fsys, "*.html")
	if err != nil {
		return nil, fmt.Errorf("failed to parse templates: %w", err)
	}
	return tmpl, nil
}
