package main

import (
	"path/filepath"

	"github.com/alecthomas/kong"

	"github.com/julianstephens/consultbook/internal/cli"
	"github.com/julianstephens/consultbook/internal/config"
	"github.com/julianstephens/consultbook/internal/constants"
	"github.com/julianstephens/consultbook/internal/errors"
	"github.com/julianstephens/consultbook/internal/logger"
)

var CLI struct {
	Version kong.VersionFlag
	Debug   bool   `help:"Enable debug logging to stderr."`
	Journal string `help:"Path to the booking journal database." type:"path" default:"${journal}"`

	Book    cli.BookCmd    `cmd:"" help:"Open the booking widget." default:"1"`
	Dates   cli.DatesCmd   `cmd:"" help:"List bookable dates."`
	Slots   cli.SlotsCmd   `cmd:"" help:"Show available times for a date."`
	Submit  cli.SubmitCmd  `cmd:"" help:"Submit a booking without the widget."`
	History cli.HistoryCmd `cmd:"" help:"Show recorded booking attempts."`
	Doctor  cli.DoctorCmd  `cmd:"" help:"Run health checks and diagnostics."`
}

func main() {
	ctx := kong.Parse(&CLI,
		kong.Name(constants.AppName),
		kong.Description("Book a consultation from the terminal"),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact: true,
		}),
		kong.Vars{
			"version": constants.Version,
			"journal": filepath.Join(constants.DefaultJournalDir, constants.JournalFileName),
		},
	)

	if err := logger.Init(logger.Config{
		Debug:     CLI.Debug,
		ConfigDir: filepath.Dir(CLI.Journal),
	}); err != nil {
		errors.Fatal(err)
	}

	cfg, err := config.Load()
	if err != nil {
		errors.Fatal(err)
	}
	logger.Debug("Configuration loaded", "backend", cfg.BackendURL, "timezone", cfg.Timezone)

	appCtx := cli.NewContext(cfg, CLI.Journal)
	err = ctx.Run(appCtx)
	appCtx.Close()
	errors.Fatal(err)
}
