// Package rootcmd parses the command line with kong and runs the selected
// command with a context that is cancelled on SIGINT or SIGTERM.
package rootcmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/alecthomas/kong"

	"go.ntppool.org/common/logger"
	"go.ntppool.org/common/version"
)

// Run parses os.Args into cmd and runs it; it exits the process on errors.
func Run(cmd any, name, description string) {
	ctx, cancel := signal.NotifyContext(context.Background(),
		os.Interrupt, syscall.SIGTERM,
	)
	defer cancel()

	log := logger.Setup()
	ctx = logger.NewContext(ctx, log)

	parser, err := newParser(ctx, cmd, name, description)
	if err != nil {
		log.Error("could not setup command line parser", "err", err)
		os.Exit(1)
	}

	kctx, err := parser.Parse(os.Args[1:])
	if err != nil {
		parser.FatalIfErrorf(err)
	}

	err = kctx.Run()
	parser.FatalIfErrorf(err)
}

func newParser(ctx context.Context, cmd any, name, description string) (*kong.Kong, error) {
	return kong.New(cmd,
		kong.Name(name),
		kong.Description(description),
		kong.BindTo(ctx, (*context.Context)(nil)),
		kong.Vars{"version": version.Version()},
		kong.ConfigureHelp(kong.HelpOptions{
			Tree: true,
		}),
		kong.UsageOnError(),
	)
}
