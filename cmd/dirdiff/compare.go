package main

import (
	"fmt"
	"os"
	"strings"

	"dirdiff/internal/collection"
	"dirdiff/internal/diff"
	"dirdiff/internal/errors"
	"dirdiff/internal/fingerprint"
	"dirdiff/internal/snapshot"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	compareOutput string
	compareHash   string
	compareFormat string
)

var compareCmd = &cobra.Command{
	Use:   "compare LEFT RIGHT",
	Short: "Compare two folders or snapshots",
	Long: `Compare two inputs. Each input is a directory (scanned now), a snapshot file
written by "dirdiff scan", or @NAME for a snapshot saved in the catalog.`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		if compareFormat != "text" && compareFormat != "json" {
			return errors.Configuration(fmt.Sprintf("unknown format %q (want text or json)", compareFormat))
		}

		var forced *fingerprint.Algorithm
		if cmd.Flags().Changed("hash") {
			algorithm, err := fingerprint.ParseAlgorithm(compareHash)
			if err != nil {
				return errors.Configuration(err.Error())
			}
			forced = &algorithm
		}

		left, right, err := state.resolvePair(args[0], args[1], forced)
		if err != nil {
			return err
		}

		result, err := left.Compare(right)
		if err != nil {
			return err
		}
		state.logger.Debug("compared",
			zap.String("left", left.Root()),
			zap.String("right", right.Root()),
			zap.Bool("clean", result.Clean()))

		return writeResult(result)
	},
}

func init() {
	compareCmd.Flags().StringVarP(&compareOutput, "output", "o", "", "write the result to a file instead of stdout")
	compareCmd.Flags().StringVar(&compareHash, "hash", "", "algorithm for scanned folders, fast or secure (default: the snapshot compared to, then the config)")
	compareCmd.Flags().StringVarP(&compareFormat, "format", "f", "text", "output format (text, json)")
}

type input struct {
	arg  string
	dir  bool
	coll *collection.Collection
}

// resolvePair loads snapshot inputs first so that folders are scanned with
// the algorithm of the snapshot they are compared to, unless forced.
func (a *app) resolvePair(leftArg, rightArg string, forced *fingerprint.Algorithm) (*collection.Collection, *collection.Collection, error) {
	inputs := []*input{{arg: leftArg}, {arg: rightArg}}

	algorithm := a.cfg.Algorithm
	if forced != nil {
		algorithm = *forced
	}
	for _, in := range inputs {
		dir, err := isDir(in.arg)
		if err != nil {
			return nil, nil, err
		}
		if dir {
			in.dir = true
			continue
		}
		in.coll, err = a.load(in.arg)
		if err != nil {
			return nil, nil, err
		}
		if forced == nil {
			algorithm = in.coll.Algorithm()
		}
	}

	for _, in := range inputs {
		if !in.dir {
			continue
		}
		var err error
		in.coll, err = a.scan(in.arg, algorithm)
		if err != nil {
			return nil, nil, err
		}
	}
	return inputs[0].coll, inputs[1].coll, nil
}

func isDir(arg string) (bool, error) {
	if strings.HasPrefix(arg, "@") {
		return false, nil
	}
	info, err := os.Stat(arg)
	if err != nil {
		return false, errors.Wrap(err, fmt.Sprintf("reading %s", arg))
	}
	return info.IsDir(), nil
}

// load reads a snapshot file or an @NAME catalog entry.
func (a *app) load(arg string) (*collection.Collection, error) {
	if name, ok := strings.CutPrefix(arg, "@"); ok {
		cat, err := a.catalog()
		if err != nil {
			return nil, err
		}
		return cat.Load(name)
	}
	return snapshot.LoadFile(arg)
}

func (a *app) scan(dir string, algorithm fingerprint.Algorithm) (*collection.Collection, error) {
	src, err := a.source(dir)
	if err != nil {
		return nil, err
	}
	p, err := a.producer(algorithm)
	if err != nil {
		return nil, err
	}
	return p.Collect(src)
}

func writeResult(result *diff.Result) error {
	var data []byte
	switch compareFormat {
	case "json":
		var err error
		data, err = result.JSON()
		if err != nil {
			return err
		}
	default:
		if compareOutput == "" {
			printColoredResult(os.Stdout, result)
			state.reporter.Message(summaryLine(result))
			return nil
		}
		data = []byte(result.Format())
	}

	if compareOutput == "" {
		_, err := os.Stdout.Write(data)
		return err
	}
	if err := os.WriteFile(compareOutput, data, 0644); err != nil {
		return errors.Wrap(err, fmt.Sprintf("writing %s", compareOutput))
	}
	state.reporter.Message("result written", zap.String("path", compareOutput))
	state.reporter.Message(summaryLine(result))
	return nil
}
