package main

import (
	"github.com/alecthomas/kong"
)

// version is set by ldflags during build
var version = "dev"

type CLI struct {
	Version  kong.VersionFlag `short:"v" help:"Show version"`
	Play     PlayCmd          `cmd:"" default:"withargs" help:"Play the interactive trainer"`
	Simulate SimulateCmd      `cmd:"" help:"Play the strategy engine against itself and report the results"`
	Chart    ChartCmd         `cmd:"" help:"Print the basic strategy chart and count deviations"`
}

func main() {
	var cli CLI
	ctx := kong.Parse(&cli,
		kong.Name("blackjack-trainer"),
		kong.Description("Blackjack trainer for Hi-Lo counting, basic strategy and count deviations"),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact: true,
		}),
		kong.Vars{
			"version": version,
		},
	)
	err := ctx.Run()
	ctx.FatalIfErrorf(err)
}
