package main

import (
	"flag"
	"fmt"
	"path/filepath"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/karrick/godirwalk"
	"github.com/pkg/errors"
	shutil "github.com/termie/go-shutil"

	"github.com/depsolve/pubgrub/core"
	"github.com/depsolve/pubgrub/scenario"
)

const batchShortHelp = `Resolve every scenario under a directory`
const batchLongHelp = `
Batch walks a directory tree, resolves every .json scenario file it finds,
and prints a per-scenario summary line with the outcome and timing. Each
scenario resolves from the package named by -root at its newest cataloged
version.

With -snapshot, the scenario tree is first copied aside, so a run over
scenarios that are concurrently being edited operates on a stable copy.
`

type batchCommand struct {
	root        string
	snapshot    string
	noLookahead bool
}

func (cmd *batchCommand) Name() string      { return "batch" }
func (cmd *batchCommand) Args() string      { return "<dir>" }
func (cmd *batchCommand) ShortHelp() string { return batchShortHelp }
func (cmd *batchCommand) LongHelp() string  { return batchLongHelp }
func (cmd *batchCommand) Hidden() bool      { return false }

func (cmd *batchCommand) Register(fs *flag.FlagSet) {
	fs.StringVar(&cmd.root, "root", "root", "root package name each scenario resolves from")
	fs.StringVar(&cmd.snapshot, "snapshot", "", "copy the scenario tree here and run against the copy")
	fs.BoolVar(&cmd.noLookahead, "no-lookahead", false, "disable the forward-conflict check at decision time")
}

func (cmd *batchCommand) Run(cx *ctx, args []string) error {
	if len(args) != 1 {
		return errors.New("batch takes exactly one directory")
	}
	dir := args[0]

	if cmd.snapshot != "" {
		opts := &shutil.CopyTreeOptions{
			Symlinks:     true,
			CopyFunction: shutil.Copy,
		}
		if err := shutil.CopyTree(dir, cmd.snapshot, opts); err != nil {
			return errors.Wrapf(err, "unable to snapshot %s to %s", dir, cmd.snapshot)
		}
		dir = cmd.snapshot
	}

	var paths []string
	err := godirwalk.Walk(dir, &godirwalk.Options{
		Callback: func(osPathname string, de *godirwalk.Dirent) error {
			if de.IsDir() {
				return nil
			}
			if strings.HasSuffix(de.Name(), ".json") {
				paths = append(paths, osPathname)
			}
			return nil
		},
	})
	if err != nil {
		return errors.Wrapf(err, "unable to walk %s", dir)
	}
	if len(paths) == 0 {
		return errors.Errorf("no .json scenarios under %s", dir)
	}

	w := tabwriter.NewWriter(cx.Out.Writer(), 0, 4, 2, ' ', 0)
	fmt.Fprintf(w, "SCENARIO\tSTATUS\tTIME\tDETAIL\n")
	failures := 0
	for _, path := range paths {
		rel, relErr := filepath.Rel(dir, path)
		if relErr != nil {
			rel = path
		}
		status, detail, took := cmd.runOne(path)
		if status != "ok" {
			failures++
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", rel, status, took.Round(time.Microsecond), detail)
	}
	w.Flush()

	if failures > 0 {
		return errors.Errorf("%d of %d scenarios failed", failures, len(paths))
	}
	cx.Out.Printf("%d scenarios resolved", len(paths))
	return nil
}

func (cmd *batchCommand) runOne(path string) (status, detail string, took time.Duration) {
	sc, err := scenario.LoadFile(path)
	if err != nil {
		return "invalid", firstLine(err.Error()), 0
	}
	ver, ok := sc.GreatestVersion(cmd.root)
	if !ok {
		return "invalid", fmt.Sprintf("no versions of root package %q", cmd.root), 0
	}

	start := time.Now()
	res := core.Resolve(core.ResolveParameters{
		RootName:         cmd.root,
		RootVersion:      ver,
		Oracle:           core.NewCachingOracle(sc.Oracle()),
		DisableLookahead: cmd.noLookahead,
	})
	took = time.Since(start)

	if res.Err != nil {
		return "unsat", firstLine(res.Err.Error()), took
	}
	return "ok", fmt.Sprintf("%d packages", len(res.Solution)), took
}

func firstLine(s string) string {
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return s[:i]
	}
	return s
}
