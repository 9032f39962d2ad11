// Package commands holds the todo subcommands and the registry the
// dispatcher looks them up in.
package commands

import (
	"context"
	"flag"
	"io"

	"todo/internal/config"
	"todo/internal/store"
)

// Command is one todo subcommand.
//
// Name, Aliases, Synopsis and Usage feed the registry and help. The
// dispatcher opens the store only for commands whose NeedsStore is true, so
// Run receives a nil st from the local ones (help, version, config, login,
// logout). Run gets the positional arguments left after RegisterFlags' flags
// are parsed and returns a code from package exitcode.
type Command interface {
	Name() string
	Aliases() []string
	Synopsis() string
	Usage() string
	NeedsStore() bool

	RegisterFlags(fs *flag.FlagSet)
	Run(ctx context.Context, cfg *config.Config, st store.Store, args []string, out, errOut io.Writer) int
}
