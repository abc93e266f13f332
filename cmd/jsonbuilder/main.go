package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/alecthomas/kong"
)

// Version is stamped at build time with -ldflags "-X main.Version=...".
var Version = "dev"

// Globals are flags shared by every command.
type Globals struct {
	Config   string   `help:"Path to a YAML config file. Searched for in the working directory and its parents when empty." short:"c" type:"path"`
	EnvFile  []string `help:"Env files to load before reading configuration." name:"env-file" default:".env"`
	LogLevel string   `help:"Override the configured log level." name:"log-level"`
}

// CLI defines the command-line interface
type CLI struct {
	Globals

	Serve   ServeCmd   `cmd:"" default:"1" help:"Serve the schema builder page."`
	Edit    EditCmd    `cmd:"" help:"Build a schema interactively in the terminal."`
	Version VersionCmd `cmd:"" help:"Show version information."`
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var cli CLI
	parser := kong.Must(&cli,
		kong.Name("jsonbuilder"),
		kong.Description("Build JSON document shapes from a tree of typed fields."),
		kong.UsageOnError(),
		kong.BindTo(ctx, (*context.Context)(nil)),
	)

	kctx, err := parser.Parse(os.Args[1:])
	parser.FatalIfErrorf(err)

	if err := kctx.Run(&cli.Globals); err != nil {
		fmt.Fprintf(os.Stderr, "jsonbuilder: %v\n", err)
		os.Exit(1)
	}
}
