package cli

import (
	"context"
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/starlake-ai/starlake-site-builder/pkg/search"
	"github.com/starlake-ai/starlake-site-builder/pkg/server"
)

// searchDebounce is how long typing must pause before a query runs.
const searchDebounce = 150 * time.Millisecond

// browseCommand creates the interactive search command.
func (c *CLI) browseCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "browse",
		Short: "Search the catalog interactively",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.config()
			if err != nil {
				return err
			}
			ix := server.NewIndex(c.catalog(cfg))
			query := func(ctx context.Context, q string) ([]search.Record, error) {
				records, err := ix.Records(ctx)
				if err != nil {
					return nil, err
				}
				if err := ctx.Err(); err != nil {
					return nil, err
				}
				return search.Search(q, records), nil
			}

			final, err := tea.NewProgram(newBrowseModel(cmd.Context(), query), tea.WithContext(cmd.Context())).Run()
			if err != nil {
				return fmt.Errorf("browse: %w", err)
			}
			if m, ok := final.(browseModel); ok && m.selected != nil {
				p := printer{w: c.Out}
				p.success("%s", m.selected.Breadcrumb)
				p.file(m.selected.URL)
			}
			return nil
		},
	}
}

// =============================================================================
// browseModel - debounced live search
// =============================================================================

// queryFunc runs one search. It should give up when ctx is cancelled.
type queryFunc func(ctx context.Context, q string) ([]search.Record, error)

// debounceMsg fires when typing paused for the query with this sequence.
type debounceMsg struct{ seq int }

// resultsMsg carries the outcome of the query with this sequence.
type resultsMsg struct {
	seq     int
	results []search.Record
	err     error
}

// browseModel runs a query only after typing pauses. Every keystroke bumps
// seq; timers and results carrying an older seq are dropped, and the context
// of a superseded query is cancelled.
type browseModel struct {
	ctx    context.Context
	search queryFunc

	input     string
	seq       int
	cancel    context.CancelFunc
	searching bool

	results  []search.Record
	err      error
	cursor   int
	selected *search.Record
}

func newBrowseModel(ctx context.Context, fn queryFunc) browseModel {
	return browseModel{ctx: ctx, search: fn}
}

func (m browseModel) Init() tea.Cmd {
	return nil
}

func (m browseModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case debounceMsg:
		if msg.seq != m.seq {
			return m, nil
		}
		if strings.TrimSpace(m.input) == "" {
			return m, nil
		}
		if m.cancel != nil {
			m.cancel()
		}
		ctx, cancel := context.WithCancel(m.ctx)
		m.cancel = cancel
		seq, q, fn := m.seq, m.input, m.search
		return m, func() tea.Msg {
			results, err := fn(ctx, q)
			return resultsMsg{seq: seq, results: results, err: err}
		}

	case resultsMsg:
		if msg.seq != m.seq {
			return m, nil
		}
		m.searching = false
		m.results, m.err = groupResults(msg.results), msg.err
		m.cursor = 0
		if m.cancel != nil {
			m.cancel()
			m.cancel = nil
		}
	}
	return m, nil
}

func (m browseModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyCtrlC, tea.KeyEsc:
		m.stop()
		return m, tea.Quit
	case tea.KeyEnter:
		if len(m.results) > 0 {
			r := m.results[m.cursor]
			m.selected = &r
			m.stop()
			return m, tea.Quit
		}
		return m, nil
	case tea.KeyUp:
		if m.cursor > 0 {
			m.cursor--
		}
		return m, nil
	case tea.KeyDown:
		if m.cursor < len(m.results)-1 {
			m.cursor++
		}
		return m, nil
	case tea.KeyBackspace:
		if m.input == "" {
			return m, nil
		}
		r := []rune(m.input)
		m.input = string(r[:len(r)-1])
	case tea.KeySpace:
		m.input += " "
	case tea.KeyRunes:
		m.input += string(msg.Runes)
	default:
		return m, nil
	}
	return m.queryChanged()
}

// queryChanged supersedes whatever was pending and schedules a new search.
func (m browseModel) queryChanged() (tea.Model, tea.Cmd) {
	m.seq++
	m.stop()
	m.results, m.err, m.cursor = nil, nil, 0
	if strings.TrimSpace(m.input) == "" {
		m.searching = false
		return m, nil
	}
	m.searching = true
	seq := m.seq
	return m, tea.Tick(searchDebounce, func(time.Time) tea.Msg { return debounceMsg{seq: seq} })
}

func (m *browseModel) stop() {
	if m.cancel != nil {
		m.cancel()
		m.cancel = nil
	}
}

func (m browseModel) View() string {
	var b strings.Builder
	b.WriteString(StyleTitle.Render("Search documentation"))
	b.WriteString("\n")
	b.WriteString(StyleDim.Render("type to search  ↑/↓ navigate  ⏎ open  esc quit"))
	b.WriteString("\n\n> " + m.input + "\n\n")

	switch {
	case m.searching:
		b.WriteString(StyleDim.Render("Searching documentation..."))
	case m.err != nil:
		b.WriteString(styleIconError.Render(iconError) + " " + m.err.Error())
	case strings.TrimSpace(m.input) != "" && len(m.results) == 0:
		b.WriteString(StyleDim.Render("No results found"))
	default:
		m.writeGroup(&b, search.CategoryLoad)
		m.writeGroup(&b, search.CategoryTransform)
	}
	b.WriteString("\n")
	return b.String()
}

// writeGroup lists the results of one category, keeping their rank order.
func (m browseModel) writeGroup(b *strings.Builder, cat search.Category) {
	header := false
	for i, r := range m.results {
		if r.Category != cat {
			continue
		}
		if !header {
			b.WriteString(styleHeader.Render(string(cat)) + "\n")
			header = true
		}
		line := fmt.Sprintf("  %s  %s", r.Title, StyleDim.Render(r.Breadcrumb))
		if i == m.cursor {
			line = styleSelected.Render("▸ "+r.Title) + "  " + StyleDim.Render(r.Breadcrumb)
		}
		b.WriteString(line + "\n")
	}
}

// groupResults puts load results before transform results, keeping rank
// order inside each group, so the cursor moves in display order.
func groupResults(results []search.Record) []search.Record {
	out := make([]search.Record, 0, len(results))
	for _, cat := range []search.Category{search.CategoryLoad, search.CategoryTransform} {
		for _, r := range results {
			if r.Category == cat {
				out = append(out, r)
			}
		}
	}
	return out
}
