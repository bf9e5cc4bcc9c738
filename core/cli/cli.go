package cli

import (
	cliContext "github.com/mudler/LocalSD/core/cli/context"
)

var CLI struct {
	cliContext.Context `embed:""`

	Run RunCMD `cmd:"" help:"Run LocalSD, this the default command if no other command is specified. Run 'local-sd run --help' for more information" default:"withargs"`
}
