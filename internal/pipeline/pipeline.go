// Package pipeline runs one tracking cycle: load the previous generation,
// list the current one, diff, enrich what changed, report, persist.
package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"slices"

	"github.com/qepting91/collage-tracker/internal/diff"
	"github.com/qepting91/collage-tracker/internal/domain"
	"github.com/qepting91/collage-tracker/internal/enrich"
	"github.com/qepting91/collage-tracker/internal/report"
	"github.com/qepting91/collage-tracker/internal/storage"
)

var (
	DefaultDirtyFields     = []string{"updated", "num_torrents"}
	DefaultItemDirtyFields = []string{"name", "year", "artists"}
)

type Pipeline struct {
	Source    domain.Source
	Store     *storage.SnapshotStore
	Scheduler *enrich.Scheduler
	Reporter  *report.Reporter

	Credentials     domain.Credentials
	DiffPath        string
	DirtyFields     []string
	ItemDirtyFields []string
}

// Run executes one cycle and returns the diff it wrote. Any error leaves
// the snapshot file as it was.
func (p *Pipeline) Run(ctx context.Context) (*report.Diff, error) {
	if err := p.Credentials.Validate(); err != nil {
		return nil, err
	}

	previous, err := p.Store.Load()
	if err != nil {
		return nil, err
	}

	ok, err := p.Source.Authenticate(ctx, p.Credentials)
	if err != nil {
		return nil, &domain.AuthError{Username: p.Credentials.Username, Err: err}
	}
	if !ok {
		return nil, &domain.AuthError{Username: p.Credentials.Username}
	}

	current := slices.Collect(p.Source.ListCollections(ctx))
	// A cancelled listing ends early without error; the partial
	// generation must not be diffed or saved.
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	slog.Info("collages listed", "current", len(current), "previous", len(previous))

	changes := diff.Compute(previous, current, p.DirtyFields)
	targets := slices.Clone(changes.Added)
	for _, m := range changes.Modified {
		targets = append(targets, m.New)
	}
	slog.Info("collages changed",
		"added", len(changes.Added),
		"removed", len(changes.Removed),
		"modified", len(changes.Modified))

	_, err = p.Scheduler.Enrich(ctx, targets, func(ctx context.Context, c *domain.Collage) (domain.Detail, error) {
		return p.Source.FetchCollectionDetail(ctx, c.ID)
	})
	if err != nil {
		return nil, err
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	out := report.Build(changes, p.ItemDirtyFields)
	if p.Reporter != nil {
		p.Reporter.Print(out)
	}
	if p.DiffPath != "" {
		if err := storage.WriteDiff(p.DiffPath, out); err != nil {
			return out, err
		}
	}

	carryTorrents(previous, current)
	if err := p.Store.Save(current); err != nil {
		return out, fmt.Errorf("save snapshot: %w", err)
	}
	slog.Info("snapshot saved", "path", p.Store.FilePath, "collages", len(current))
	return out, nil
}

// carryTorrents copies torrent lists from the previous generation onto
// current collages that were not enriched this run.
func carryTorrents(previous, current []*domain.Collage) {
	byID := make(map[string]*domain.Collage, len(previous))
	for _, c := range previous {
		byID[c.ID] = c
	}
	for _, c := range current {
		if c.Torrents != nil {
			continue
		}
		if prev, ok := byID[c.ID]; ok {
			c.Torrents = prev.Torrents
		}
	}
}

// Compare diffs two stored generations without touching the network.
func Compare(oldStore, newStore *storage.SnapshotStore, dirty, itemDirty []string) (*report.Diff, error) {
	old, err := oldStore.Load()
	if err != nil {
		return nil, err
	}
	cur, err := newStore.Load()
	if err != nil {
		return nil, err
	}
	return report.Build(diff.Compute(old, cur, dirty), itemDirty), nil
}
