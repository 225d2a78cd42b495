package dashboard

import (
	"io"
	"log/slog"
	"net/http"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"
	"github.com/go-echarts/go-echarts/v2/types"
	"github.com/qepting91/collage-tracker/internal/report"
	"github.com/qepting91/collage-tracker/internal/storage"
)

// Handler renders the diff artifact at diffFile on every request.
func Handler(diffFile string) http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		var d report.Diff
		if err := storage.ReadDiff(diffFile, &d); err != nil {
			slog.Warn("dashboard could not read diff", "path", diffFile, "err", err)
			http.Error(w, "no diff available yet", http.StatusServiceUnavailable)
			return
		}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		if err := Render(w, &d); err != nil {
			slog.Error("dashboard render failed", "err", err)
		}
	})
	return mux
}

func StartServer(diffFile string, port string) error {
	return http.ListenAndServe(":"+port, Handler(diffFile))
}

// Render writes the change counts and the category split of new and
// changed collages as charts.
func Render(w io.Writer, d *report.Diff) error {
	// 1. Change counts. Torrent counts come from modified collages only.
	bar := charts.NewBar()
	bar.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{Title: "Collage Changes"}),
		charts.WithInitializationOpts(opts.Initialization{Theme: types.ThemeWesteros}),
	)
	var torrentsAdded, torrentsRemoved int
	for _, m := range d.Modified {
		if m.Torrents != nil {
			torrentsAdded += len(m.Torrents.Added)
			torrentsRemoved += len(m.Torrents.Removed)
		}
	}
	bar.SetXAxis([]string{"added", "removed", "modified"}).
		AddSeries("Collages", []opts.BarData{
			{Value: len(d.Added)},
			{Value: len(d.Removed)},
			{Value: len(d.Modified)},
		}).
		AddSeries("Torrents", []opts.BarData{
			{Value: torrentsAdded},
			{Value: torrentsRemoved},
			{Value: 0},
		})

	// 2. Category split
	pie := charts.NewPie()
	pie.SetGlobalOptions(charts.WithTitleOpts(opts.Title{Title: "Changed Categories"}))
	counts := make(map[string]int)
	var order []string
	note := func(category string) {
		if category == "" {
			category = "Unknown"
		}
		if _, ok := counts[category]; !ok {
			order = append(order, category)
		}
		counts[category]++
	}
	for _, c := range d.Added {
		note(c.Category)
	}
	for _, m := range d.Modified {
		note(m.New.Category)
	}
	items := make([]opts.PieData, 0, len(order))
	for _, k := range order {
		items = append(items, opts.PieData{Name: k, Value: counts[k]})
	}
	pie.AddSeries("Collages", items)

	if err := bar.Render(w); err != nil {
		return err
	}
	return pie.Render(w)
}
