package metadata

import (
	"encoding/json"
	"errors"
	"io/fs"
	"os"
	"path"
	"sort"
	"strings"

	"github.com/charmbracelet/log"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	sderrors "github.com/starlake-ai/starlake-site-builder/pkg/errors"
)

// Directory and index names under the base paths.
const (
	TablesDir         = "tables"
	TableRelationsDir = "table-relations"
	TasksDir          = "tasks"
	TaskLineageDir    = "task-lineage"

	DomainsIndex = "domains.json"
	TasksIndex   = "tasks.json"

	jsonSuffix      = ".json"
	relationsSuffix = "-relations.json"
	lineageSuffix   = "-lineage.json"
)

// =============================================================================
// Types
// =============================================================================

// TableInfo is a discovered table file.
type TableInfo struct {
	Name string `json:"name"`
	// Path is relative to the load file system.
	Path string `json:"-"`
}

// DomainInfo is a load domain and its tables, sorted by name.
type DomainInfo struct {
	Name   string      `json:"name"`
	Tables []TableInfo `json:"tables"`
}

// Table returns the named table. Matching is exact.
func (d DomainInfo) Table(name string) (TableInfo, bool) {
	for _, t := range d.Tables {
		if t.Name == name {
			return t, true
		}
	}
	return TableInfo{}, false
}

// TaskInfo is a discovered task file.
type TaskInfo struct {
	Name string `json:"name"`
	// Path is relative to the transform file system.
	Path string `json:"-"`
}

// TransformDomainInfo is a transform domain and its tasks.
type TransformDomainInfo struct {
	Name  string     `json:"name"`
	Tasks []TaskInfo `json:"tasks"`
}

// Task returns the named task. Matching is exact.
func (d TransformDomainInfo) Task(name string) (TaskInfo, bool) {
	for _, t := range d.Tasks {
		if t.Name == name {
			return t, true
		}
	}
	return TaskInfo{}, false
}

// =============================================================================
// Catalog
// =============================================================================

// Options configures a Catalog.
type Options struct {
	// LoadFS holds tables/ and table-relations/. Nil means not configured.
	LoadFS fs.FS
	// TransformFS holds tasks/ and task-lineage/. Nil falls back to LoadFS.
	TransformFS fs.FS
	Logger      *log.Logger
}

// Catalog discovers domains, tables and tasks. It keeps no state between
// calls, so it always reflects the current files and is safe for concurrent
// use.
type Catalog struct {
	load      fs.FS
	transform fs.FS
	logger    *log.Logger
}

// New creates a catalog over the given file systems.
func New(opts Options) *Catalog {
	if opts.TransformFS == nil {
		opts.TransformFS = opts.LoadFS
	}
	if opts.Logger == nil {
		opts.Logger = log.Default()
	}
	return &Catalog{
		load:      opts.LoadFS,
		transform: opts.TransformFS,
		logger:    opts.Logger.WithPrefix("metadata"),
	}
}

// Open creates a catalog over directories on disk. An empty loadPath leaves
// the catalog unconfigured; an empty transformPath reuses loadPath.
func Open(loadPath, transformPath string, logger *log.Logger) *Catalog {
	opts := Options{Logger: logger}
	if loadPath != "" {
		opts.LoadFS = os.DirFS(loadPath)
	}
	if transformPath != "" {
		opts.TransformFS = os.DirFS(transformPath)
	}
	return New(opts)
}

// LoadDomains lists load domains from tables/domains.json with the tables
// found for each. Domains and tables are sorted case- and accent-
// insensitively.
func (c *Catalog) LoadDomains() []DomainInfo {
	names, files := c.index(c.load, TablesDir, DomainsIndex)
	if names == nil {
		return []DomainInfo{}
	}

	sortNames(names)
	out := make([]DomainInfo, 0, len(names))
	for _, domain := range names {
		tables := []TableInfo{}
		for _, f := range files {
			if name, ok := entityName(f, domain); ok {
				tables = append(tables, TableInfo{Name: name, Path: path.Join(TablesDir, f)})
			}
		}
		col := newCollator()
		sort.SliceStable(tables, func(i, j int) bool {
			return col.CompareString(tables[i].Name, tables[j].Name) < 0
		})
		out = append(out, DomainInfo{Name: domain, Tables: tables})
	}
	return out
}

// TransformDomains lists transform domains in tasks/tasks.json order with
// their tasks in file-name order. tasks.json itself is never a task.
func (c *Catalog) TransformDomains() []TransformDomainInfo {
	names, files := c.index(c.transform, TasksDir, TasksIndex)
	if names == nil {
		return []TransformDomainInfo{}
	}

	out := make([]TransformDomainInfo, 0, len(names))
	for _, domain := range names {
		tasks := []TaskInfo{}
		for _, f := range files {
			if f == TasksIndex {
				continue
			}
			if name, ok := entityName(f, domain); ok {
				tasks = append(tasks, TaskInfo{Name: name, Path: path.Join(TasksDir, f)})
			}
		}
		out = append(out, TransformDomainInfo{Name: domain, Tasks: tasks})
	}
	return out
}

// Domain returns the load domain with exactly this name.
func (c *Catalog) Domain(name string) (DomainInfo, bool) {
	for _, d := range c.LoadDomains() {
		if d.Name == name {
			return d, true
		}
	}
	return DomainInfo{}, false
}

// TransformDomain returns the transform domain with exactly this name.
func (c *Catalog) TransformDomain(name string) (TransformDomainInfo, bool) {
	for _, d := range c.TransformDomains() {
		if d.Name == name {
			return d, true
		}
	}
	return TransformDomainInfo{}, false
}

// TableJSON returns the parsed table definition.
func (c *Catalog) TableJSON(domain, table string) (Object, bool) {
	d, ok := c.Domain(domain)
	if !ok {
		return Object{}, false
	}
	t, ok := d.Table(table)
	if !ok {
		return Object{}, false
	}
	return c.readObject(c.load, t.Path)
}

// TaskJSON returns the parsed task definition.
func (c *Catalog) TaskJSON(domain, task string) (Object, bool) {
	d, ok := c.TransformDomain(domain)
	if !ok {
		return Object{}, false
	}
	t, ok := d.Task(task)
	if !ok {
		return Object{}, false
	}
	return c.readObject(c.transform, t.Path)
}

// TableRelations returns the raw relation document of a table.
// The domain does not have to be declared in domains.json.
func (c *Catalog) TableRelations(domain, table string) ([]byte, bool) {
	return c.readDocument(c.load, TableRelationsDir, domain, table, relationsSuffix)
}

// TaskLineage returns the raw lineage document of a task.
func (c *Catalog) TaskLineage(domain, task string) ([]byte, bool) {
	return c.readDocument(c.transform, TaskLineageDir, domain, task, lineageSuffix)
}

// =============================================================================
// Helpers
// =============================================================================

// index reads dir/indexFile and lists dir. A nil names slice means the
// catalog has nothing to offer; the reason has been logged.
func (c *Catalog) index(fsys fs.FS, dir, indexFile string) (names, files []string) {
	if fsys == nil {
		c.logger.Warn("metadata base path is not set", "dir", dir)
		return nil, nil
	}
	entries, err := fs.ReadDir(fsys, dir)
	if err != nil {
		c.logger.Warn("metadata directory not found", "dir", dir, "err", err)
		return nil, nil
	}

	indexPath := path.Join(dir, indexFile)
	raw, err := fs.ReadFile(fsys, indexPath)
	if err != nil {
		c.logger.Warn("index not found", "path", indexPath, "err", err)
		return nil, nil
	}
	names, err = parseIndex(raw)
	if err != nil {
		c.logger.Warn("failed to parse index", "path", indexPath, "err", err)
		return nil, nil
	}

	for _, e := range entries {
		if !e.IsDir() {
			files = append(files, e.Name())
		}
	}
	return names, files
}

// parseIndex accepts an array of {"name": ...} objects or a single object.
// Entries without a string name are skipped.
func parseIndex(raw []byte) ([]string, error) {
	var list []json.RawMessage
	if err := json.Unmarshal(raw, &list); err != nil {
		var single json.RawMessage
		if err := json.Unmarshal(raw, &single); err != nil {
			return nil, err
		}
		list = []json.RawMessage{single}
	}

	names := []string{}
	for _, item := range list {
		var entry struct {
			Name any `json:"name"`
		}
		if json.Unmarshal(item, &entry) != nil {
			continue
		}
		if name, ok := entry.Name.(string); ok {
			names = append(names, name)
		}
	}
	return names, nil
}

// entityName extracts <name> from "<domain>.<name>.json".
func entityName(file, domain string) (string, bool) {
	prefix := domain + "."
	if !strings.HasPrefix(file, prefix) || !strings.HasSuffix(file, jsonSuffix) {
		return "", false
	}
	if len(file) <= len(prefix)+len(jsonSuffix) {
		return "", false
	}
	return file[len(prefix) : len(file)-len(jsonSuffix)], true
}

func (c *Catalog) readObject(fsys fs.FS, name string) (Object, bool) {
	raw, err := fs.ReadFile(fsys, name)
	if err != nil {
		return Object{}, false
	}
	obj, err := ParseObject(raw)
	if err != nil {
		c.logger.Debug("unreadable definition", "path", name, "err", err)
		return Object{}, false
	}
	return obj, true
}

func (c *Catalog) readDocument(fsys fs.FS, dir, domain, name, suffix string) ([]byte, bool) {
	if fsys == nil {
		return nil, false
	}
	if sderrors.ValidateName("domain", domain) != nil || sderrors.ValidateName("name", name) != nil {
		return nil, false
	}
	p := path.Join(dir, domain+"."+name+suffix)
	raw, err := fs.ReadFile(fsys, p)
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			c.logger.Debug("unreadable document", "path", p, "err", err)
		}
		return nil, false
	}
	if !json.Valid(raw) {
		c.logger.Debug("invalid JSON document", "path", p)
		return nil, false
	}
	return raw, true
}

// newCollator orders like a case- and accent-insensitive locale compare.
// Collators are not safe for concurrent use, so each sort gets its own.
func newCollator() *collate.Collator {
	return collate.New(language.Und, collate.Loose)
}

func sortNames(names []string) {
	col := newCollator()
	sort.SliceStable(names, func(i, j int) bool {
		return col.CompareString(names[i], names[j]) < 0
	})
}
