// Package content holds the landing page catalog: which pages exist, the
// listing scope each one shows and its rendered intro.
package content

import (
	"bytes"
	"embed"
	"errors"
	"fmt"
	"html/template"
	"io/fs"
	"path"
	"strings"

	"github.com/yuin/goldmark"
	"gopkg.in/yaml.v3"

	"github.com/fractionaljobs/landing/internal/domain/model"
)

//go:embed pages.yaml intros/*.md
var embedded embed.FS

const catalogFile = "pages.yaml"

var md = goldmark.New()

// Page is one landing page.
type Page struct {
	Slug    string
	Title   string
	Heading string
	Filter  model.ListingFilter
	// Intro is the rendered markdown intro.
	Intro template.HTML
}

// Catalog is an ordered, slug-indexed set of pages.
type Catalog struct {
	pages  []Page
	bySlug map[string]int
}

type rawCatalog struct {
	Pages []rawPage `yaml:"pages"`
}

type rawPage struct {
	Slug     string `yaml:"slug"`
	Title    string `yaml:"title"`
	Heading  string `yaml:"heading"`
	Category string `yaml:"category"`
	Location string `yaml:"location"`
	Intro    string `yaml:"intro"`
}

// Default loads the embedded catalog.
func Default() (*Catalog, error) {
	return Load(embedded)
}

// Load reads pages.yaml and the intros it references from fsys.
func Load(fsys fs.FS) (*Catalog, error) {
	data, err := fs.ReadFile(fsys, catalogFile)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", catalogFile, err)
	}
	var raw rawCatalog
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parse %s: %w", catalogFile, err)
	}
	if len(raw.Pages) == 0 {
		return nil, errors.New("catalog has no pages")
	}

	c := &Catalog{bySlug: make(map[string]int, len(raw.Pages))}
	for i, rp := range raw.Pages {
		p, err := buildPage(fsys, rp)
		if err != nil {
			return nil, fmt.Errorf("page %d (%q): %w", i, rp.Slug, err)
		}
		if _, dup := c.bySlug[p.Slug]; dup {
			return nil, fmt.Errorf("duplicate page slug %q", p.Slug)
		}
		c.bySlug[p.Slug] = len(c.pages)
		c.pages = append(c.pages, p)
	}
	return c, nil
}

func buildPage(fsys fs.FS, rp rawPage) (Page, error) {
	slug := strings.ToLower(strings.TrimSpace(rp.Slug))
	if slug == "" {
		return Page{}, errors.New("slug is required")
	}
	if strings.ContainsAny(slug, "/ ?#") {
		return Page{}, fmt.Errorf("slug %q is not URL-safe", slug)
	}
	p := Page{
		Slug:    slug,
		Title:   strings.TrimSpace(rp.Title),
		Heading: strings.TrimSpace(rp.Heading),
		Filter:  model.ListingFilter{Location: strings.TrimSpace(rp.Location)},
	}
	if p.Title == "" {
		return Page{}, errors.New("title is required")
	}
	if p.Heading == "" {
		p.Heading = p.Title
	}
	if rp.Category != "" {
		cat, err := model.ParseRoleCategory(rp.Category)
		if err != nil {
			return Page{}, err
		}
		p.Filter.Category = &cat
	}
	if rp.Intro != "" {
		src, err := fs.ReadFile(fsys, path.Join("intros", rp.Intro))
		if err != nil {
			return Page{}, fmt.Errorf("read intro: %w", err)
		}
		html, err := RenderMarkdown(src)
		if err != nil {
			return Page{}, err
		}
		p.Intro = html
	}
	return p, nil
}

// RenderMarkdown converts markdown to HTML. Raw HTML in the source is omitted.
func RenderMarkdown(src []byte) (template.HTML, error) {
	var buf bytes.Buffer
	if err := md.Convert(src, &buf); err != nil {
		return "", fmt.Errorf("render markdown: %w", err)
	}
	return template.HTML(buf.String()), nil //nolint:gosec // goldmark escapes raw HTML by default
}

// Pages returns the pages in catalog order.
func (c *Catalog) Pages() []Page {
	out := make([]Page, len(c.pages))
	copy(out, c.pages)
	return out
}

// Lookup finds a page by slug, case-insensitively.
func (c *Catalog) Lookup(slug string) (Page, bool) {
	i, ok := c.bySlug[strings.ToLower(strings.TrimSpace(slug))]
	if !ok {
		return Page{}, false
	}
	return c.pages[i], true
}
