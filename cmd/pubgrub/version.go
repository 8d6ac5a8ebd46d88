package main

import "flag"

// version is overridden at build time via
// -ldflags "-X main.version=...".
var version = "devel"

const versionShortHelp = `Show the pubgrub version information`

type versionCommand struct{}

func (cmd *versionCommand) Name() string              { return "version" }
func (cmd *versionCommand) Args() string              { return "" }
func (cmd *versionCommand) ShortHelp() string         { return versionShortHelp }
func (cmd *versionCommand) LongHelp() string          { return versionShortHelp }
func (cmd *versionCommand) Hidden() bool              { return false }
func (cmd *versionCommand) Register(fs *flag.FlagSet) {}

func (cmd *versionCommand) Run(cx *ctx, args []string) error {
	cx.Out.Printf("pubgrub version %s", version)
	return nil
}
