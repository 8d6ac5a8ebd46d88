// Command pubgrub resolves package dependency scenarios.
package main

import (
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"strings"
	"text/tabwriter"
)

type command interface {
	Name() string           // "foobar"
	Args() string           // "<baz> [quux...]"
	ShortHelp() string      // "Foo the first bar"
	LongHelp() string       // "Foo the first bar meeting the following conditions..."
	Register(*flag.FlagSet) // command-specific flags
	Hidden() bool           // indicates whether the command should be hidden from help output
	Run(*ctx, []string) error
}

// ctx carries the loggers every command writes through.
type ctx struct {
	Out     *log.Logger
	Err     *log.Logger
	Verbose bool
}

func main() {
	c := &config{
		Args:   os.Args,
		Stdout: os.Stdout,
		Stderr: os.Stderr,
	}
	os.Exit(c.Run())
}

// A config specifies a full configuration for a pubgrub execution.
type config struct {
	Args           []string  // Command-line arguments, starting with the program name.
	Stdout, Stderr io.Writer // Log output
}

// Run executes a configuration and returns an exit code.
func (c *config) Run() (exitCode int) {
	commands := []command{
		&resolveCommand{},
		&batchCommand{},
		&searchCommand{},
		&versionCommand{},
	}

	examples := [][2]string{
		{
			"pubgrub resolve -root app@1.0.0 scenario.json",
			"resolve a scenario starting from app@1.0.0",
		},
		{
			"pubgrub resolve -manifest Project.toml scenario.json",
			"resolve with the root taken from a TOML manifest",
		},
		{
			"pubgrub batch testdata/scenarios",
			"resolve every scenario under a directory",
		},
	}

	outLogger := log.New(c.Stdout, "", 0)
	errLogger := log.New(c.Stderr, "", 0)

	usage := func() {
		errLogger.Println("pubgrub is a dependency constraint solver")
		errLogger.Println()
		errLogger.Println("Usage: pubgrub <command>")
		errLogger.Println()
		errLogger.Println("Commands:")
		errLogger.Println()
		w := tabwriter.NewWriter(c.Stderr, 0, 4, 2, ' ', 0)
		for _, cmd := range commands {
			if !cmd.Hidden() {
				fmt.Fprintf(w, "\t%s\t%s\n", cmd.Name(), cmd.ShortHelp())
			}
		}
		w.Flush()
		errLogger.Println()
		errLogger.Println("Examples:")
		for _, example := range examples {
			fmt.Fprintf(w, "\t%s\t%s\n", example[0], example[1])
		}
		w.Flush()
		errLogger.Println()
		errLogger.Println("Use \"pubgrub help [command]\" for more information about a command.")
	}

	cmdName, printCommandHelp, exit := parseArgs(c.Args)
	if exit {
		usage()
		exitCode = 1
		return
	}

	for _, cmd := range commands {
		if cmd.Name() == cmdName {
			fs := flag.NewFlagSet(cmdName, flag.ContinueOnError)
			fs.SetOutput(c.Stderr)
			verbose := fs.Bool("v", false, "enable verbose logging")

			cmd.Register(fs)

			resetUsage(errLogger, fs, cmdName, cmd.Args(), cmd.LongHelp())

			if printCommandHelp {
				fs.Usage()
				exitCode = 1
				return
			}

			if err := fs.Parse(c.Args[2:]); err != nil {
				exitCode = 1
				return
			}

			cx := &ctx{
				Out:     outLogger,
				Err:     errLogger,
				Verbose: *verbose,
			}

			if err := cmd.Run(cx, fs.Args()); err != nil {
				errLogger.Printf("%v\n", err)
				exitCode = 1
			}
			return
		}
	}

	errLogger.Printf("pubgrub: %s: no such command\n", cmdName)
	usage()
	exitCode = 1
	return
}

func resetUsage(logger *log.Logger, fs *flag.FlagSet, name, args, longHelp string) {
	var (
		hasFlags   bool
		flagBlock  strings.Builder
		flagWriter = tabwriter.NewWriter(&flagBlock, 0, 4, 2, ' ', 0)
	)
	fs.VisitAll(func(f *flag.Flag) {
		hasFlags = true
		fmt.Fprintf(flagWriter, "\t-%s\t%s\n", f.Name, f.Usage)
	})
	flagWriter.Flush()
	fs.Usage = func() {
		logger.Printf("Usage: pubgrub %s %s\n", name, args)
		logger.Println()
		logger.Println(strings.TrimSpace(longHelp))
		logger.Println()
		if hasFlags {
			logger.Println("Flags:")
			logger.Println()
			logger.Println(flagBlock.String())
		}
	}
}

// parseArgs determines the command name and whether to print help for it.
func parseArgs(args []string) (cmdName string, printCmdUsage bool, exit bool) {
	switch len(args) {
	case 0, 1:
		exit = true
	case 2:
		if arg := args[1]; arg == "help" || arg == "-h" || arg == "-help" || arg == "--help" {
			exit = true
		} else {
			cmdName = arg
		}
	default:
		cmdName = args[1]
		if cmdName == "help" {
			cmdName = args[2]
			printCmdUsage = true
		}
	}
	return cmdName, printCmdUsage, exit
}
