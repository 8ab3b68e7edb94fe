package main

import (
	"github.com/alecthomas/kong"

	"irrigation_controller/internal/config"
	"irrigation_controller/internal/logger"
)

var version = "dev"

// Global is handed to every subcommand's Run.
type Global struct {
	Config *config.Config
	Source *config.Source
	Log    *logger.Logger
}

type CLI struct {
	Config  string           `short:"c" help:"Configuration file path (default configs/config.yml)" type:"path"`
	EnvFile string           `name:"env-file" help:"Optional .env file loaded before the configuration" default:".env"`
	Verbose bool             `short:"v" help:"Enable debug logging"`
	Version kong.VersionFlag `name:"version" help:"Show version and exit"`

	Serve  ServeCmd  `cmd:"" default:"1" help:"Run the dashboard API, websocket feed and optional MQTT pressure feed"`
	Backup BackupCmd `cmd:"" help:"Export or import a backup file"`
}

func main() {
	var cli CLI
	kctx := kong.Parse(&cli,
		kong.Name("irrigationd"),
		kong.Description("Drip irrigation dashboard backend."),
		kong.UsageOnError(),
		kong.Vars{"version": version},
	)

	g, err := cli.global()
	if err != nil {
		kctx.FatalIfErrorf(err)
	}
	kctx.FatalIfErrorf(kctx.Run(g))
}

// global loads .env and the config, then fixes the process logger level.
func (c *CLI) global() (*Global, error) {
	if err := config.LoadDotEnv(c.EnvFile); err != nil {
		return nil, err
	}
	src := config.NewSource(c.Config)
	cfg, err := src.Load()
	if err != nil {
		return nil, err
	}
	level := cfg.LogLevel
	if c.Verbose {
		level = logger.DebugLevel
	}
	log := logger.Get(level)
	if f := src.File(); f != "" {
		log.Debugw("config_loaded", "file", f)
	} else {
		log.Infow("no config file found; running on defaults")
	}
	return &Global{Config: cfg, Source: src, Log: log}, nil
}
