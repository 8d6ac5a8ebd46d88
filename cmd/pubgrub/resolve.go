package main

import (
	"flag"
	"os"
	"strings"

	"github.com/pkg/errors"
	flock "github.com/theckman/go-flock"

	"github.com/depsolve/pubgrub/core"
	"github.com/depsolve/pubgrub/oracle"
	"github.com/depsolve/pubgrub/scenario"
)

const resolveShortHelp = `Resolve one scenario and print the assignment`
const resolveLongHelp = `
Resolve loads a scenario file (a JSON catalog of packages, versions, and
dependency constraints), runs the solver from the given root, and prints the
resulting assignment as JSON: {"success": ..., "solution": ..., "error": ...}.

The root is named either with -root name@version (or just -root name, which
takes the newest cataloged version), or with -manifest, which reads the root
project's name, version, and direct constraints from a TOML manifest.

With -out, the result is written to a file instead of standard output, under
an advisory file lock so concurrent invocations cannot interleave writes.
With -cache, oracle answers persist in a BoltDB file across invocations.
`

type resolveCommand struct {
	root        string
	manifest    string
	out         string
	cache       string
	trace       bool
	noLookahead bool
}

func (cmd *resolveCommand) Name() string      { return "resolve" }
func (cmd *resolveCommand) Args() string      { return "<scenario.json>" }
func (cmd *resolveCommand) ShortHelp() string { return resolveShortHelp }
func (cmd *resolveCommand) LongHelp() string  { return resolveLongHelp }
func (cmd *resolveCommand) Hidden() bool      { return false }

func (cmd *resolveCommand) Register(fs *flag.FlagSet) {
	fs.StringVar(&cmd.root, "root", "", "root package as name@version, or name for the newest version")
	fs.StringVar(&cmd.manifest, "manifest", "", "TOML manifest supplying the root package and its constraints")
	fs.StringVar(&cmd.out, "out", "", "write the result JSON to this file instead of stdout")
	fs.StringVar(&cmd.cache, "cache", "", "BoltDB file persisting oracle answers across runs")
	fs.BoolVar(&cmd.trace, "trace", false, "log solver decisions, propagations, and backtracks")
	fs.BoolVar(&cmd.noLookahead, "no-lookahead", false, "disable the forward-conflict check at decision time")
}

func (cmd *resolveCommand) Run(cx *ctx, args []string) error {
	if len(args) != 1 {
		return errors.New("resolve takes exactly one scenario file")
	}
	sc, err := scenario.LoadFile(args[0])
	if err != nil {
		return err
	}

	rootName, rootVer, err := cmd.rootFor(sc)
	if err != nil {
		return err
	}

	var orc core.Oracle = sc.Oracle()
	if cmd.cache != "" {
		bo, err := oracle.NewBoltOracle(cmd.cache, orc)
		if err != nil {
			return err
		}
		defer bo.Close()
		orc = bo
	}
	orc = core.NewCachingOracle(orc)

	params := core.ResolveParameters{
		RootName:         rootName,
		RootVersion:      rootVer,
		Oracle:           orc,
		DisableLookahead: cmd.noLookahead,
	}
	if cmd.trace || cx.Verbose {
		params.Trace = true
		params.TraceLogger = cx.Err
	}

	result := scenario.FromResolution(core.Resolve(params))
	if cmd.out == "" {
		return result.WriteJSON(cx.Out.Writer())
	}
	return writeLocked(cmd.out, result)
}

// rootFor determines the root package and version: from the manifest (which
// also seeds the oracle with the root's constraints) or from -root.
func (cmd *resolveCommand) rootFor(sc *scenario.Scenario) (string, core.Version, error) {
	switch {
	case cmd.manifest != "" && cmd.root != "":
		return "", core.Version{}, errors.New("-root and -manifest are mutually exclusive")

	case cmd.manifest != "":
		m, err := scenario.ReadManifestFile(cmd.manifest)
		if err != nil {
			return "", core.Version{}, err
		}
		m.Seed(sc.Oracle())
		return m.Name, m.Version, nil

	case cmd.root != "":
		name, verStr, hasVer := strings.Cut(cmd.root, "@")
		if name == "" {
			return "", core.Version{}, errors.Errorf("invalid -root %q", cmd.root)
		}
		if hasVer {
			ver, err := core.ParseVersion(verStr)
			if err != nil {
				return "", core.Version{}, err
			}
			return name, ver, nil
		}
		ver, ok := sc.GreatestVersion(name)
		if !ok {
			return "", core.Version{}, &core.NoVersionsError{Package: core.NewPackage(name)}
		}
		return name, ver, nil

	default:
		return "", core.Version{}, errors.New("one of -root or -manifest is required")
	}
}

// writeLocked writes the result under an advisory lock beside the target
// file, so two concurrent invocations aimed at the same path serialize
// rather than interleave.
func writeLocked(path string, result scenario.Result) error {
	lock := flock.NewFlock(path + ".lock")
	if err := lock.Lock(); err != nil {
		return errors.Wrapf(err, "unable to lock %s", lock.Path())
	}
	defer lock.Unlock()

	f, err := os.Create(path)
	if err != nil {
		return errors.Wrapf(err, "unable to create %s", path)
	}
	if err := result.WriteJSON(f); err != nil {
		f.Close()
		return errors.Wrapf(err, "unable to write %s", path)
	}
	return f.Close()
}
