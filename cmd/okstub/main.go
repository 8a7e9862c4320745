package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/indigo-web/okstub"
	"github.com/indigo-web/okstub/config"
	"github.com/rs/zerolog"
)

func main() {
	os.Exit(run())
}

func run() int {
	configPath := flag.String("config", "", "path to a JSON config file")
	flag.Parse()

	cfg := config.Default()
	if len(*configPath) > 0 {
		var err error
		if cfg, err = config.Load(*configPath); err != nil {
			fmt.Fprintln(os.Stderr, "E:", err)
			return 1
		}
	}

	level, err := cfg.Log.ZerologLevel()
	if err != nil {
		fmt.Fprintln(os.Stderr, "E:", err)
		return 1
	}

	log := zerolog.New(zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.TimeOnly}).
		Level(level).
		With().
		Timestamp().
		Logger()

	err = okstub.New().
		Tune(cfg).
		Logger(log).
		Serve()

	return okstub.ExitCode(err)
}
