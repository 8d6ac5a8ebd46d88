package main

import (
	"flag"
	"fmt"
	"text/tabwriter"

	"github.com/pkg/errors"

	"github.com/depsolve/pubgrub/core"
	"github.com/depsolve/pubgrub/oracle"
	"github.com/depsolve/pubgrub/scenario"
)

const searchShortHelp = `List packages in a scenario by name prefix`
const searchLongHelp = `
Search indexes the packages declared by a scenario file and lists those
whose name starts with the given prefix, with their version counts. With no
prefix, every package is listed.
`

type searchCommand struct{}

func (cmd *searchCommand) Name() string      { return "search" }
func (cmd *searchCommand) Args() string      { return "<scenario.json> [prefix]" }
func (cmd *searchCommand) ShortHelp() string { return searchShortHelp }
func (cmd *searchCommand) LongHelp() string  { return searchLongHelp }
func (cmd *searchCommand) Hidden() bool      { return false }

func (cmd *searchCommand) Register(fs *flag.FlagSet) {}

func (cmd *searchCommand) Run(cx *ctx, args []string) error {
	if len(args) < 1 || len(args) > 2 {
		return errors.New("search takes a scenario file and an optional prefix")
	}
	sc, err := scenario.LoadFile(args[0])
	if err != nil {
		return err
	}
	prefix := ""
	if len(args) == 2 {
		prefix = args[1]
	}

	idx := oracle.NewNameIndex()
	for _, name := range sc.PackageNames() {
		vs, err := sc.Oracle().Versions(core.NewPackage(name))
		if err != nil {
			return err
		}
		idx.Insert(name, len(vs))
	}

	entries := idx.WalkPrefix(prefix)
	if len(entries) == 0 {
		return errors.Errorf("no packages match prefix %q", prefix)
	}

	w := tabwriter.NewWriter(cx.Out.Writer(), 0, 4, 2, ' ', 0)
	fmt.Fprintf(w, "PACKAGE\tVERSIONS\n")
	for _, e := range entries {
		fmt.Fprintf(w, "%s\t%d\n", e.Name, e.Versions)
	}
	return w.Flush()
}
