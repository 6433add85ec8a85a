// Package seo generates the sitemap and robots.txt for the documentation
// site.
package seo

import (
	"encoding/xml"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/starlake-ai/starlake-site-builder/pkg/metadata"
)

// DefaultBaseURL is the public site origin.
const DefaultBaseURL = "https://starlake.ai"

// Change frequencies used by the sitemap.
const (
	Daily  = "daily"
	Weekly = "weekly"
)

// URL is one sitemap entry.
type URL struct {
	Loc        string
	LastMod    time.Time
	ChangeFreq string
	Priority   float64
}

// Sitemap lists every page of the site: the home page, the two section
// indexes, then load and transform domains each followed by their pages.
func Sitemap(base string, load []metadata.DomainInfo, transform []metadata.TransformDomainInfo, now time.Time) []URL {
	base = normalizeBase(base)
	u := func(path, freq string, prio float64) URL {
		return URL{Loc: base + path, LastMod: now, ChangeFreq: freq, Priority: prio}
	}

	urls := []URL{
		u("", Daily, 1),
		u("/load", Daily, 0.8),
		u("/transform", Daily, 0.8),
	}
	for _, d := range load {
		urls = append(urls, u("/load/"+d.Name, Weekly, 0.7))
		for _, t := range d.Tables {
			urls = append(urls, u("/load/"+d.Name+"/"+t.Name, Weekly, 0.6))
		}
	}
	for _, d := range transform {
		urls = append(urls, u("/transform/"+d.Name, Weekly, 0.7))
		for _, t := range d.Tasks {
			urls = append(urls, u("/transform/"+d.Name+"/"+t.Name, Weekly, 0.6))
		}
	}
	return urls
}

// ===== XML =====

const sitemapNS = "http://www.sitemaps.org/schemas/sitemap/0.9"

type urlset struct {
	XMLName xml.Name `xml:"urlset"`
	Xmlns   string   `xml:"xmlns,attr"`
	URLs    []xmlURL `xml:"url"`
}

type xmlURL struct {
	Loc        string `xml:"loc"`
	LastMod    string `xml:"lastmod"`
	ChangeFreq string `xml:"changefreq"`
	Priority   string `xml:"priority"`
}

// WriteSitemap encodes urls as sitemap XML.
func WriteSitemap(w io.Writer, urls []URL) error {
	set := urlset{Xmlns: sitemapNS, URLs: make([]xmlURL, len(urls))}
	for i, u := range urls {
		set.URLs[i] = xmlURL{
			Loc:        u.Loc,
			LastMod:    u.LastMod.UTC().Format(time.RFC3339),
			ChangeFreq: u.ChangeFreq,
			Priority:   strconv.FormatFloat(u.Priority, 'f', 1, 64),
		}
	}
	if _, err := io.WriteString(w, xml.Header); err != nil {
		return fmt.Errorf("write sitemap: %w", err)
	}
	enc := xml.NewEncoder(w)
	enc.Indent("", "  ")
	if err := enc.Encode(set); err != nil {
		return fmt.Errorf("encode sitemap: %w", err)
	}
	_, err := io.WriteString(w, "\n")
	return err
}

// ===== Robots =====

// Robots renders robots.txt: everything allowed except the private and API
// trees, with a pointer to the sitemap.
func Robots(base string) string {
	var b strings.Builder
	b.WriteString("User-agent: *\n")
	b.WriteString("Allow: /\n")
	b.WriteString("Disallow: /private/\n")
	b.WriteString("Disallow: /api/\n")
	b.WriteString("\n")
	fmt.Fprintf(&b, "Sitemap: %s/sitemap.xml\n", normalizeBase(base))
	return b.String()
}

func normalizeBase(base string) string {
	base = strings.TrimRight(strings.TrimSpace(base), "/")
	if base == "" {
		return DefaultBaseURL
	}
	return base
}
