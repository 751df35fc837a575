package handlers

import (
	"html/template"
	"net/http"
	"os"
	"path/filepath"

	"github.com/WallCharmers/viktory-dashboard/internal/common"
)

// PageHandler serves HTML pages rendered with Go templates.
type PageHandler struct {
	logger    *common.Logger
	templates *template.Template
	jwtSecret []byte
}

// NewPageHandler creates a new page handler that loads templates from the pages directory.
func NewPageHandler(logger *common.Logger, jwtSecret []byte) *PageHandler {
	return &PageHandler{
		logger:    logger,
		templates: LoadTemplates(),
		jwtSecret: jwtSecret,
	}
}

// LoadTemplates parses all page and partial templates with the display
// format helpers registered.
func LoadTemplates() *template.Template {
	pagesDir := FindPagesDir()

	templates := template.New("").Funcs(template.FuncMap{
		"money":       common.FormatMoney,
		"signedMoney": common.FormatSignedMoney,
		"pct":         common.FormatPct,
		"fracPct":     common.FormatFracPct,
		"signedPct":   common.FormatSignedPct,
	})

	templates = template.Must(templates.ParseGlob(filepath.Join(pagesDir, "*.html")))
	if matches, _ := filepath.Glob(filepath.Join(pagesDir, "partials", "*.html")); len(matches) > 0 {
		templates = template.Must(templates.ParseGlob(filepath.Join(pagesDir, "partials", "*.html")))
	}
	return templates
}

// FindPagesDir locates the pages directory.
func FindPagesDir() string {
	dirs := []string{
		"./pages",
		"../pages",
		"../../pages",
		".",
	}

	for _, dir := range dirs {
		if info, err := os.Stat(dir); err == nil && info.IsDir() {
			abs, _ := filepath.Abs(dir)
			return abs
		}
	}

	return "."
}

// ServeLogin renders the login page, or redirects to the dashboard when a
// valid session already exists.
func (h *PageHandler) ServeLogin(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}

	if loggedIn, _ := IsLoggedIn(r, h.jwtSecret); loggedIn {
		http.Redirect(w, r, "/dashboard", http.StatusFound)
		return
	}

	data := map[string]interface{}{
		"Page":  "login",
		"Error": r.URL.Query().Get("error"),
	}

	if err := h.templates.ExecuteTemplate(w, "login.html", data); err != nil {
		if h.logger != nil {
			h.logger.Error().Str("template", "login.html").Str("error", err.Error()).Msg("failed to render page")
		}
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
	}
}

// StaticFileHandler serves static files (CSS, JS, images).
func (h *PageHandler) StaticFileHandler(w http.ResponseWriter, r *http.Request) {
	pagesDir := FindPagesDir()
	staticDir := filepath.Join(pagesDir, "static")

	// Remove /static/ prefix from URL path
	path := r.URL.Path[len("/static/"):]
	fullPath := filepath.Join(staticDir, path)

	// Security: prevent directory traversal
	absStaticDir, _ := filepath.Abs(staticDir)
	absFullPath, _ := filepath.Abs(fullPath)
	if len(absFullPath) < len(absStaticDir) || absFullPath[:len(absStaticDir)] != absStaticDir {
		http.NotFound(w, r)
		return
	}

	http.ServeFile(w, r, fullPath)
}
