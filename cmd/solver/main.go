package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/alecthomas/kong"
	"github.com/charmbracelet/log"

	"github.com/lox/pokergto/internal/config"
)

// version is set by ldflags during build
var version = "dev"

// Globals are shared by every subcommand.
type Globals struct {
	Debug  bool   `help:"Enable debug logging"`
	Config string `short:"c" default:"solver.hcl" help:"Path to HCL configuration file (optional)"`
}

type CLI struct {
	Globals

	Version kong.VersionFlag `short:"v" help:"Show version"`
	Train   TrainCmd         `cmd:"" help:"Train strategies by self-play"`
	Eval    EvalCmd          `cmd:"" help:"Play trained strategies against each other"`
}

func main() {
	var cli CLI
	ctx := kong.Parse(&cli,
		kong.Name("solver"),
		kong.Description("Regret-matching poker strategy trainer"),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact: true,
		}),
		kong.Vars{
			"version": version,
		},
	)
	err := ctx.Run(&cli.Globals)
	ctx.FatalIfErrorf(err)
}

// load reads the configuration file and builds the logger it asks for.
func (g *Globals) load() (*config.Config, *log.Logger, error) {
	cfg, err := config.Load(g.Config)
	if err != nil {
		return nil, nil, err
	}

	level, err := log.ParseLevel(cfg.Output.LogLevel)
	if err != nil {
		level = log.InfoLevel
	}
	if g.Debug {
		level = log.DebugLevel
	}
	logger := log.NewWithOptions(os.Stderr, log.Options{
		Level:           level,
		ReportTimestamp: true,
	})
	return cfg, logger, nil
}

func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
}
