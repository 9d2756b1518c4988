package main

import (
	"fmt"
	"io"
	"maps"
	"os"
	"slices"

	"dirdiff/internal/collection"
	"dirdiff/internal/errors"
	"dirdiff/internal/fingerprint"
	"dirdiff/internal/snapshot"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	scanOutput string
	scanHash   string
	scanSave   string
	scanDupes  bool
)

var scanCmd = &cobra.Command{
	Use:   "scan DIR",
	Short: "Write a snapshot of a folder",
	Long: `Fingerprint every file of DIR and write the snapshot to stdout, to a file
(compressed when it ends in .zst), or to the catalog with --save. With --dupes
the files sharing a hash are listed on stdout instead of the snapshot.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		algorithm := state.cfg.Algorithm
		if cmd.Flags().Changed("hash") {
			var err error
			algorithm, err = fingerprint.ParseAlgorithm(scanHash)
			if err != nil {
				return errors.Configuration(err.Error())
			}
		}

		c, err := state.scan(args[0], algorithm)
		if err != nil {
			return err
		}

		if scanSave != "" {
			cat, err := state.catalog()
			if err != nil {
				return err
			}
			record, err := cat.Save(scanSave, c)
			if err != nil {
				return err
			}
			state.reporter.Message("snapshot saved",
				zap.String("name", record.Name),
				zap.String("id", record.ID.String()),
				zap.Int("files", record.Files))
			if scanOutput == "" && !scanDupes {
				return nil
			}
		}

		if scanDupes {
			printDuplicates(cmd.OutOrStdout(), c)
		}
		if scanOutput == "" {
			if scanDupes {
				return nil
			}
			return snapshot.Write(os.Stdout, c)
		}
		if err := snapshot.SaveFile(scanOutput, c); err != nil {
			return err
		}
		state.reporter.Message(fmt.Sprintf("snapshot written to %s", scanOutput), zap.Int("files", c.Size()))
		return nil
	},
}

func init() {
	scanCmd.Flags().StringVarP(&scanOutput, "output", "o", "", "snapshot file (.zst for zstd compression)")
	scanCmd.Flags().StringVar(&scanHash, "hash", "", "fast or secure (default from config)")
	scanCmd.Flags().StringVar(&scanSave, "save", "", "save the snapshot in the catalog under this name")
	scanCmd.Flags().BoolVar(&scanDupes, "dupes", false, "list files with identical content")
}

// printDuplicates writes one block per shared hash, hashes in order.
func printDuplicates(w io.Writer, c *collection.Collection) {
	dupes := c.Duplicates()
	for _, hash := range slices.Sorted(maps.Keys(dupes)) {
		sectionColor.Fprintln(w, hash)
		for _, path := range dupes[hash] {
			fmt.Fprintf(w, "  %s\n", path)
		}
	}
	state.reporter.Message("duplicates", zap.Int("groups", len(dupes)))
}
