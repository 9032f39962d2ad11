package commands

import (
	"context"
	"flag"
	"fmt"
	"io"
	"runtime"
	"runtime/debug"

	"todo/internal/config"
	"todo/internal/exitcode"
	"todo/internal/output"
	"todo/internal/store"
)

// Version is overridden at link time with -ldflags "-X todo/internal/commands.Version=...".
var Version = "0.1.0"

// firestoreModule is the SDK whose version --verbose reports.
const firestoreModule = "cloud.google.com/go/firestore"

func init() {
	Register(&VersionCmd{})
}

// VersionCmd prints the release, and with --verbose the toolchain and SDK it was built with.
type VersionCmd struct {
	verbose bool
}

// SetVerbose sets the verbose flag (for testing).
func (c *VersionCmd) SetVerbose(v bool) {
	c.verbose = v
}

func (c *VersionCmd) Name() string      { return "version" }
func (c *VersionCmd) Aliases() []string { return nil }
func (c *VersionCmd) Synopsis() string  { return "Print version" }
func (c *VersionCmd) Usage() string     { return "todo version [--verbose]" }
func (c *VersionCmd) NeedsStore() bool  { return false }

func (c *VersionCmd) RegisterFlags(fs *flag.FlagSet) {
	fs.BoolVar(&c.verbose, "verbose", false, "Also print the Go and Firestore SDK versions")
}

func (c *VersionCmd) Run(ctx context.Context, cfg *config.Config, st store.Store, args []string, out, errOut io.Writer) int {
	fmt.Fprintf(out, "todo %s\n", Version)
	if !c.verbose {
		return exitcode.Success
	}

	output.FormatPair(out, "go", runtime.Version())
	output.FormatPair(out, "firestore", moduleVersion(firestoreModule))
	return exitcode.Success
}

// moduleVersion looks path up in the binary's build info; "" when absent.
func moduleVersion(path string) string {
	info, ok := debug.ReadBuildInfo()
	if !ok {
		return ""
	}
	for _, dep := range info.Deps {
		if dep.Path == path {
			if dep.Replace != nil {
				return dep.Replace.Version
			}
			return dep.Version
		}
	}
	return ""
}
