// Package report turns a collage diff into the artifact written to disk and
// the text printed after each run.
package report

import (
	"cmp"
	"fmt"
	"io"
	"slices"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/qepting91/collage-tracker/internal/diff"
	"github.com/qepting91/collage-tracker/internal/domain"
)

// Diff is the artifact document. Fields are in key order.
type Diff struct {
	Added    []*domain.Collage `json:"added"`
	Modified []Modification    `json:"modified"`
	Removed  []*domain.Collage `json:"removed"`
}

// Modification is one changed collage with the diff of its torrent lists.
type Modification struct {
	New      *domain.Collage              `json:"new"`
	Old      *domain.Collage              `json:"old"`
	Torrents *diff.Result[domain.Torrent] `json:"torrents,omitempty"`
}

// Build wraps a collage diff and, for every modified collage, diffs the old
// and new torrent lists by itemFields. Call it after enrichment so New
// carries the fetched torrents.
func Build(d diff.Result[*domain.Collage], itemFields []string) *Diff {
	out := &Diff{
		Added:    d.Added,
		Modified: make([]Modification, 0, len(d.Modified)),
		Removed:  d.Removed,
	}
	for _, m := range d.Modified {
		nested := diff.Compute(m.Old.Torrents, m.New.Torrents, itemFields)
		out.Modified = append(out.Modified, Modification{New: m.New, Old: m.Old, Torrents: &nested})
	}
	return out
}

// Empty reports whether the diff holds no changes.
func (d *Diff) Empty() bool {
	return len(d.Added) == 0 && len(d.Removed) == 0 && len(d.Modified) == 0
}

type Reporter struct {
	Out io.Writer
	// URL turns a collage link into an absolute URL. Nil prints links as is.
	URL func(path string) string
}

// Print writes the human-readable summary of d.
func (r *Reporter) Print(d *Diff) {
	renderer := lipgloss.NewRenderer(r.Out)
	heading := renderer.NewStyle().Bold(true)
	added := renderer.NewStyle().Foreground(lipgloss.Color("2"))
	removed := renderer.NewStyle().Foreground(lipgloss.Color("1"))

	modified := make([]*domain.Collage, 0, len(d.Modified))
	byID := make(map[string]Modification, len(d.Modified))
	for _, m := range d.Modified {
		modified = append(modified, m.New)
		byID[m.New.ID] = m
	}

	sections := []struct {
		kind     string
		collages []*domain.Collage
	}{
		{"added", d.Added},
		{"removed", d.Removed},
		{"modified", modified},
	}
	for _, s := range sections {
		fmt.Fprintln(r.Out, heading.Render(fmt.Sprintf("%d collages have been %s:", len(s.collages), s.kind)))
		for _, c := range sortedByName(s.collages) {
			fmt.Fprintf(r.Out, "--  %s :: %s (%s)\n", r.link(c.URL), c.Name, c.Updated)
			m, ok := byID[c.ID]
			if s.kind != "modified" || !ok || m.Torrents == nil {
				continue
			}
			for _, t := range m.Torrents.Added {
				fmt.Fprintln(r.Out, added.Render("      + "+describe(t)))
			}
			for _, t := range m.Torrents.Removed {
				fmt.Fprintln(r.Out, removed.Render("      - "+describe(t)))
			}
			for _, ch := range m.Torrents.Modified {
				fmt.Fprintf(r.Out, "      ~ %s -> %s\n", describe(ch.Old), describe(ch.New))
			}
		}
	}

	tw := table.NewWriter()
	tw.SetOutputMirror(r.Out)
	tw.SetStyle(table.StyleRounded)
	tw.AppendHeader(table.Row{"Change", "Collages", "Torrents +", "Torrents -"})
	var tAdded, tRemoved int
	for _, m := range d.Modified {
		if m.Torrents != nil {
			tAdded += len(m.Torrents.Added)
			tRemoved += len(m.Torrents.Removed)
		}
	}
	tw.AppendRow(table.Row{"added", len(d.Added), "", ""})
	tw.AppendRow(table.Row{"removed", len(d.Removed), "", ""})
	tw.AppendRow(table.Row{"modified", len(d.Modified), tAdded, tRemoved})
	tw.Render()

	fmt.Fprintln(r.Out, "Done.")
}

func (r *Reporter) link(path string) string {
	if r.URL == nil {
		return path
	}
	return r.URL(path)
}

func sortedByName(collages []*domain.Collage) []*domain.Collage {
	out := slices.Clone(collages)
	slices.SortStableFunc(out, func(a, b *domain.Collage) int {
		return cmp.Or(cmp.Compare(a.Name, b.Name), cmp.Compare(a.ID, b.ID))
	})
	return out
}

func describe(t domain.Torrent) string {
	names := make([]string, 0, len(t.MusicInfo.Artists))
	for _, a := range t.MusicInfo.Artists {
		names = append(names, a.Name)
	}
	s := t.Name
	if len(names) > 0 {
		s = strings.Join(names, " & ") + " - " + s
	}
	if t.Year != 0 {
		s += fmt.Sprintf(" (%d)", t.Year)
	}
	return s
}
