package commands

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"

	"todo/internal/backend/firebase"
	"todo/internal/config"
	"todo/internal/exitcode"
	"todo/internal/output"
	"todo/internal/store"
)

func init() {
	Register(&ConfigCmd{})
}

// ConfigCmd implements the config command: show where settings come from.
type ConfigCmd struct{}

func (c *ConfigCmd) Name() string      { return "config" }
func (c *ConfigCmd) Aliases() []string { return nil }
func (c *ConfigCmd) Synopsis() string  { return "Show Firebase settings" }
func (c *ConfigCmd) Usage() string     { return "todo config [common flags]" }
func (c *ConfigCmd) NeedsStore() bool  { return false }

func (c *ConfigCmd) RegisterFlags(fs *flag.FlagSet) {}

func (c *ConfigCmd) Run(ctx context.Context, cfg *config.Config, st store.Store, args []string, out, errOut io.Writer) int {
	output.FormatPair(out, "config_dir", cfg.Dir)
	for _, p := range cfg.Firebase.Pairs() {
		output.FormatPair(out, p[0], p[1])
	}
	output.FormatPair(out, firebase.EmulatorHostEnv, os.Getenv(firebase.EmulatorHostEnv))
	output.FormatPair(out, "credentials", credentialSource(cfg))

	if err := cfg.Firebase.Validate(); err != nil {
		fmt.Fprintf(errOut, "error: %v\n", err)
		return exitcode.AuthError
	}
	return exitcode.Success
}

// credentialSource names the credentials the store would connect with.
func credentialSource(cfg *config.Config) string {
	switch {
	case os.Getenv(firebase.EmulatorHostEnv) != "":
		return "emulator"
	case cfg.HasOAuthClient() && cfg.HasToken():
		return "login"
	default:
		return "application default"
	}
}
