package main

import (
	"github.com/qepting91/collage-tracker/internal/pipeline"
	"github.com/qepting91/collage-tracker/internal/report"
	"github.com/qepting91/collage-tracker/internal/storage"
	"github.com/spf13/cobra"
)

var diffOpts struct {
	out             string
	dirtyFields     []string
	itemDirtyFields []string
}

var diffCmd = &cobra.Command{
	Use:   "diff OLD NEW",
	Short: "Compare two snapshot files without contacting the site.",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		d, err := pipeline.Compare(
			&storage.SnapshotStore{FilePath: args[0]},
			&storage.SnapshotStore{FilePath: args[1]},
			diffOpts.dirtyFields,
			diffOpts.itemDirtyFields,
		)
		if err != nil {
			return err
		}
		(&report.Reporter{Out: cmd.OutOrStdout()}).Print(d)
		if diffOpts.out == "" {
			return nil
		}
		return storage.WriteDiff(diffOpts.out, d)
	},
}

func init() {
	f := diffCmd.Flags()
	f.StringVarP(&diffOpts.out, "output", "o", "", "also write the diff document here")
	f.StringSliceVar(&diffOpts.dirtyFields, "dirty-field", pipeline.DefaultDirtyFields, "collage fields whose change marks a collage modified")
	f.StringSliceVar(&diffOpts.itemDirtyFields, "item-dirty-field", pipeline.DefaultItemDirtyFields, "torrent fields whose change marks a torrent modified")
	rootCmd.AddCommand(diffCmd)
}
