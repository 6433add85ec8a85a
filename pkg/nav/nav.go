// Package nav computes page navigation: breadcrumb trails, previous/next
// domain links and the sidebar tree with its active entry.
package nav

import (
	"strings"

	"github.com/starlake-ai/starlake-site-builder/pkg/metadata"
)

// Site sections.
const (
	LoadPath      = "/load"
	TransformPath = "/transform"
)

// Crumb is one breadcrumb. The last crumb of a trail never links.
type Crumb struct {
	Label string `json:"label"`
	Href  string `json:"href,omitempty"`
}

// Link is a labelled page link.
type Link struct {
	Label string `json:"label"`
	Href  string `json:"href"`
}

// PrevNext holds the neighbours of a domain page; either may be nil.
type PrevNext struct {
	Previous *Link `json:"previous"`
	Next     *Link `json:"next"`
}

// =============================================================================
// Breadcrumbs
// =============================================================================

// Trail builds a breadcrumb trail from the section root down to the page.
// segments are the path parts below the section, e.g. ("sales", "orders").
func Trail(section string, segments ...string) []Crumb {
	crumbs := []Crumb{{Label: sectionLabel(section), Href: section}}
	href := section
	for _, s := range segments {
		href += "/" + s
		crumbs = append(crumbs, Crumb{Label: s, Href: href})
	}
	crumbs[len(crumbs)-1].Href = ""
	return crumbs
}

func sectionLabel(section string) string {
	switch section {
	case LoadPath:
		return "Load"
	case TransformPath:
		return "Transform"
	}
	return strings.TrimPrefix(section, "/")
}

// =============================================================================
// Previous / Next
// =============================================================================

// Neighbours returns the links around name in the ordered domain list.
// An unknown name has no neighbours.
func Neighbours(section string, names []string, name string) PrevNext {
	var pn PrevNext
	for i, n := range names {
		if n != name {
			continue
		}
		if i > 0 {
			pn.Previous = &Link{Label: names[i-1], Href: section + "/" + names[i-1]}
		}
		if i < len(names)-1 {
			pn.Next = &Link{Label: names[i+1], Href: section + "/" + names[i+1]}
		}
		break
	}
	return pn
}

// LoadDomainNames lists the names of load domains in order.
func LoadDomainNames(domains []metadata.DomainInfo) []string {
	out := make([]string, len(domains))
	for i, d := range domains {
		out[i] = d.Name
	}
	return out
}

// TransformDomainNames lists the names of transform domains in order.
func TransformDomainNames(domains []metadata.TransformDomainInfo) []string {
	out := make([]string, len(domains))
	for i, d := range domains {
		out[i] = d.Name
	}
	return out
}

// =============================================================================
// Sidebar
// =============================================================================

// Entry is a sidebar node.
type Entry struct {
	Label    string  `json:"label"`
	Href     string  `json:"href"`
	Active   bool    `json:"active"`
	Children []Entry `json:"children,omitempty"`
}

// NormalizePath strips one trailing slash; the empty path is "/".
func NormalizePath(p string) string {
	p = strings.TrimSuffix(p, "/")
	if p == "" {
		return "/"
	}
	return p
}

// Sidebar builds the two-section tree. Only the entry whose href equals the
// current path is active; ancestors are not.
func Sidebar(load []metadata.DomainInfo, transform []metadata.TransformDomainInfo, current string) []Entry {
	current = NormalizePath(current)
	entry := func(label, href string) Entry {
		return Entry{Label: label, Href: href, Active: href == current}
	}

	loadRoot := entry("Load", LoadPath)
	for _, d := range load {
		de := entry(d.Name, LoadPath+"/"+d.Name)
		for _, t := range d.Tables {
			de.Children = append(de.Children, entry(t.Name, de.Href+"/"+t.Name))
		}
		loadRoot.Children = append(loadRoot.Children, de)
	}

	transformRoot := entry("Transform", TransformPath)
	for _, d := range transform {
		de := entry(d.Name, TransformPath+"/"+d.Name)
		for _, t := range d.Tasks {
			de.Children = append(de.Children, entry(t.Name, de.Href+"/"+t.Name))
		}
		transformRoot.Children = append(transformRoot.Children, de)
	}
	return []Entry{loadRoot, transformRoot}
}

// Active returns the active entry of a tree.
func Active(entries []Entry) (Entry, bool) {
	for _, e := range entries {
		if e.Active {
			return e, true
		}
		if found, ok := Active(e.Children); ok {
			return found, true
		}
	}
	return Entry{}, false
}
