package api

import (
	"embed"
	"fmt"
	"html/template"
	"io/fs"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/render"
)

//go:embed templates/*.html
var templateFS embed.FS

// Renderer writes a page for a view model.
type Renderer interface {
	Render(c *gin.Context, status int, page string, view any)
}

// HTMLRenderer executes the embedded templates. Every page is parsed
// together with base.html and rendered through its "base" template.
type HTMLRenderer struct {
	pages map[string]*template.Template
}

var templateFuncs = template.FuncMap{
	"url": URL,
}

func NewHTMLRenderer() (*HTMLRenderer, error) {
	return newHTMLRenderer(templateFS)
}

func newHTMLRenderer(fsys fs.FS) (*HTMLRenderer, error) {
	files, err := fs.Glob(fsys, "templates/*.html")
	if err != nil {
		return nil, err
	}

	r := &HTMLRenderer{pages: make(map[string]*template.Template, len(files))}
	for _, file := range files {
		name := strings.TrimSuffix(strings.TrimPrefix(file, "templates/"), ".html")
		if name == "base" {
			continue
		}
		t, err := template.New(name).Funcs(templateFuncs).ParseFS(fsys, "templates/base.html", file)
		if err != nil {
			return nil, fmt.Errorf("parse template %s: %w", name, err)
		}
		r.pages[name] = t
	}
	return r, nil
}

func (r *HTMLRenderer) Render(c *gin.Context, status int, page string, view any) {
	t, ok := r.pages[page]
	if !ok {
		_ = c.Error(fmt.Errorf("unknown page %q", page))
		c.String(http.StatusInternalServerError, "Server Error (500)")
		return
	}
	c.Render(status, render.HTML{Template: t, Name: "base", Data: view})
}
