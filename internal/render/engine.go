// Package render implements fiber.Views over the embedded html/template pages.
package render

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"io"
	"io/fs"
	"path"
	"strings"
	"sync"
	"time"

	"scribe/internal/models"
)

//go:embed templates
var templateFS embed.FS

const (
	layoutFile = "templates/layout.html"
	pagesGlob  = "templates/pages/*.html"
	// rootTemplate is the template each page set executes; the layout wraps "content".
	rootTemplate = "layout"
)

// Engine renders named pages. Each page is parsed together with the shared layout.
type Engine struct {
	fsys  fs.FS
	funcs template.FuncMap

	mu     sync.RWMutex
	pages  map[string]*template.Template
	loaded bool
}

// New returns an Engine over the embedded templates.
func New() *Engine {
	return NewFromFS(templateFS)
}

// NewFromFS returns an Engine over fsys, which must contain the same layout as the embedded tree.
func NewFromFS(fsys fs.FS) *Engine {
	return &Engine{fsys: fsys, funcs: DefaultFuncs()}
}

// Load parses the layout and every page. fiber calls it once when the app starts.
func (e *Engine) Load() error {
	e.mu.Lock()
	defer e.mu.Unlock()

	base, err := template.New(rootTemplate).Funcs(e.funcs).ParseFS(e.fsys, layoutFile)
	if err != nil {
		return fmt.Errorf("parse layout: %w", err)
	}

	files, err := fs.Glob(e.fsys, pagesGlob)
	if err != nil {
		return err
	}
	if len(files) == 0 {
		return fmt.Errorf("no page templates match %s", pagesGlob)
	}

	pages := make(map[string]*template.Template, len(files))
	for _, file := range files {
		name := strings.TrimSuffix(path.Base(file), path.Ext(file))
		set, err := base.Clone()
		if err != nil {
			return err
		}
		if _, err := set.ParseFS(e.fsys, file); err != nil {
			return fmt.Errorf("parse page %s: %w", name, err)
		}
		pages[name] = set
	}

	e.pages = pages
	e.loaded = true
	return nil
}

// Render executes page name with binding. Layouts are ignored; every page uses the shared layout.
func (e *Engine) Render(w io.Writer, name string, binding interface{}, _ ...string) error {
	e.mu.RLock()
	loaded := e.loaded
	e.mu.RUnlock()
	if !loaded {
		if err := e.Load(); err != nil {
			return err
		}
	}

	e.mu.RLock()
	set, ok := e.pages[name]
	e.mu.RUnlock()
	if !ok {
		return fmt.Errorf("render: template %q does not exist", name)
	}

	// Execute into a buffer so a failing template never writes a partial page.
	var buf bytes.Buffer
	if err := set.ExecuteTemplate(&buf, rootTemplate, binding); err != nil {
		return fmt.Errorf("render %s: %w", name, err)
	}
	_, err := buf.WriteTo(w)
	return err
}

// Has reports whether a page with the given name was loaded.
func (e *Engine) Has(name string) bool {
	e.mu.RLock()
	defer e.mu.RUnlock()
	_, ok := e.pages[name]
	return ok
}

// DefaultFuncs returns the template functions every page can use.
func DefaultFuncs() template.FuncMap {
	return template.FuncMap{
		"formatDate": FormatDate,
		"author":     Author,
		"truncate":   Truncate,
		"first":      firstMessage,
	}
}

// FormatDate formats t the way timestamps appear on every page.
func FormatDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format("Jan 2, 2006, 3:04 PM")
}

// Author names the author of a post, or "deleted user" once the account is gone.
func Author(u *models.User) string {
	if u == nil {
		return "deleted user"
	}
	return u.Username
}

// Truncate shortens s to n runes, adding an ellipsis when anything was cut.
func Truncate(n int, s string) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n]) + "…"
}

func firstMessage(errs map[string][]string, field string) string {
	if msgs := errs[field]; len(msgs) > 0 {
		return msgs[0]
	}
	return ""
}
