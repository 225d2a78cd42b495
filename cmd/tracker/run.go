package main

import (
	"time"

	"github.com/qepting91/collage-tracker/internal/collector"
	"github.com/qepting91/collage-tracker/internal/enrich"
	"github.com/qepting91/collage-tracker/internal/ingest"
	"github.com/qepting91/collage-tracker/internal/pipeline"
	"github.com/qepting91/collage-tracker/internal/report"
	"github.com/qepting91/collage-tracker/internal/storage"
	"github.com/spf13/cobra"
)

var runOpts struct {
	snapshot        string
	diff            string
	credentials     string
	host            string
	minInterval     time.Duration
	maxPages        int
	dirtyFields     []string
	itemDirtyFields []string
}

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Fetch bookmarked collages, report what changed and save the new snapshot.",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		creds, err := ingest.LoadCredentials(runOpts.credentials)
		if err != nil {
			return err
		}

		src, err := collector.NewCollector(collector.GazelleOptions{
			Host:         runOpts.host,
			MaxPages:     runOpts.maxPages,
			PageInterval: runOpts.minInterval,
		})
		if err != nil {
			return err
		}

		p := &pipeline.Pipeline{
			Source:          src,
			Store:           &storage.SnapshotStore{FilePath: runOpts.snapshot},
			Scheduler:       enrich.NewScheduler(runOpts.minInterval),
			Reporter:        &report.Reporter{Out: cmd.OutOrStdout(), URL: src.URL},
			Credentials:     creds,
			DiffPath:        runOpts.diff,
			DirtyFields:     runOpts.dirtyFields,
			ItemDirtyFields: runOpts.itemDirtyFields,
		}
		_, err = p.Run(cmd.Context())
		return err
	},
}

func init() {
	f := runCmd.Flags()
	f.StringVar(&runOpts.snapshot, "snapshot", "collages.jsonlines", "snapshot file of the last run")
	f.StringVar(&runOpts.diff, "diff", "diff.json", "where to write the diff of this run")
	f.StringVar(&runOpts.credentials, "credentials", "credentials.json", "JSON5 file with username and password")
	f.StringVar(&runOpts.host, "host", "", "tracker host (default $TRACKER_HOST or "+collector.DefaultHost+")")
	f.DurationVar(&runOpts.minInterval, "min-interval", 2*time.Second, "minimum spacing between requests to the site")
	f.IntVar(&runOpts.maxPages, "max-pages", 50, "stop listing bookmarks after this many pages (0 for no limit)")
	f.StringSliceVar(&runOpts.dirtyFields, "dirty-field", pipeline.DefaultDirtyFields, "collage fields whose change marks a collage modified")
	f.StringSliceVar(&runOpts.itemDirtyFields, "item-dirty-field", pipeline.DefaultItemDirtyFields, "torrent fields whose change marks a torrent modified")

	rootCmd.AddCommand(runCmd)
	// `tracker` alone runs a cycle.
	rootCmd.RunE = runCmd.RunE
	rootCmd.Flags().AddFlagSet(runCmd.Flags())
}
