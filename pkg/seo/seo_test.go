package seo

import (
	"bytes"
	"encoding/xml"
	"strings"
	"testing"
	"time"

	"github.com/starlake-ai/starlake-site-builder/pkg/metadata"
)

var now = time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

func TestSitemap(t *testing.T) {
	load := []metadata.DomainInfo{{Name: "sales", Tables: []metadata.TableInfo{{Name: "orders"}}}}
	transform := []metadata.TransformDomainInfo{{Name: "kpi", Tasks: []metadata.TaskInfo{{Name: "revenue"}}}}

	urls := Sitemap("https://docs.example.com/", load, transform, now)

	want := []struct {
		loc  string
		freq string
		prio float64
	}{
		{"https://docs.example.com", Daily, 1},
		{"https://docs.example.com/load", Daily, 0.8},
		{"https://docs.example.com/transform", Daily, 0.8},
		{"https://docs.example.com/load/sales", Weekly, 0.7},
		{"https://docs.example.com/load/sales/orders", Weekly, 0.6},
		{"https://docs.example.com/transform/kpi", Weekly, 0.7},
		{"https://docs.example.com/transform/kpi/revenue", Weekly, 0.6},
	}
	if len(urls) != len(want) {
		t.Fatalf("got %d urls, want %d", len(urls), len(want))
	}
	for i, w := range want {
		u := urls[i]
		if u.Loc != w.loc || u.ChangeFreq != w.freq || u.Priority != w.prio || !u.LastMod.Equal(now) {
			t.Errorf("url %d = %+v, want %+v", i, u, w)
		}
	}
}

func TestSitemapDefaultBase(t *testing.T) {
	urls := Sitemap("", nil, nil, now)
	if len(urls) != 3 || urls[0].Loc != DefaultBaseURL {
		t.Errorf("urls = %+v", urls)
	}
}

func TestWriteSitemap(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteSitemap(&buf, Sitemap("", nil, nil, now)); err != nil {
		t.Fatalf("WriteSitemap: %v", err)
	}
	out := buf.String()
	for _, s := range []string{
		`<?xml version="1.0" encoding="UTF-8"?>`,
		`<urlset xmlns="http://www.sitemaps.org/schemas/sitemap/0.9">`,
		`<loc>https://starlake.ai/load</loc>`,
		`<lastmod>2024-03-01T12:00:00Z</lastmod>`,
		`<priority>0.8</priority>`,
		`<priority>1.0</priority>`,
	} {
		if !strings.Contains(out, s) {
			t.Errorf("sitemap missing %q:\n%s", s, out)
		}
	}

	var parsed urlset
	if err := xml.Unmarshal(buf.Bytes(), &parsed); err != nil {
		t.Fatalf("sitemap is not valid XML: %v", err)
	}
	if len(parsed.URLs) != 3 {
		t.Errorf("parsed %d urls", len(parsed.URLs))
	}
}

func TestRobots(t *testing.T) {
	want := "User-agent: *\nAllow: /\nDisallow: /private/\nDisallow: /api/\n\nSitemap: https://starlake.ai/sitemap.xml\n"
	if got := Robots(""); got != want {
		t.Errorf("Robots = %q, want %q", got, want)
	}
	if got := Robots("http://localhost:8080/"); !strings.HasSuffix(got, "Sitemap: http://localhost:8080/sitemap.xml\n") {
		t.Errorf("Robots(local) = %q", got)
	}
}
