package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/alecthomas/kong"
	kongyaml "github.com/alecthomas/kong-yaml"
	kongcompletion "github.com/jotaen/kong-completion"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/itwasneo/runer/internal/telemetry"
)

// Context is threaded into every subcommand's Run method, the same pattern
// cmd/sand's Context struct follows.
type Context struct {
	Engine string
}

// CLI is the root command tree.
type CLI struct {
	LogFile  string `default:"" placeholder:"<log-file-path>" help:"location of log file (empty logs to stderr)"`
	LogLevel string `default:"info" placeholder:"<debug|info|warn|error>" help:"the logging level (debug, info, warn, error)"`
	Engine   string `default:"" env:"RUNER_ENGINE" placeholder:"<bin>" help:"container-engine binary name (default docker)"`

	Run      RunCmd      `cmd:"" help:"run a flow from a rune file"`
	Validate ValidateCmd `cmd:"" help:"validate a rune file without running anything"`
	Cli      CliCmd      `cmd:"" help:"reserved alternate text front end (not part of this build)"`
	Desktop  DesktopCmd  `cmd:"" help:"reserved graphical front end (not part of this build)"`
	Version  VersionCmd  `cmd:"" help:"print version information"`
}

func (c *CLI) initSlog() {
	var w io.Writer = os.Stderr
	if c.LogFile != "" {
		if err := os.MkdirAll(filepath.Dir(c.LogFile), 0o755); err != nil {
			panic(err)
		}
		w = &lumberjack.Logger{Filename: c.LogFile, MaxSize: 50, MaxBackups: 3, MaxAge: 28}
	}
	slog.SetDefault(slog.New(slog.NewJSONHandler(w, &slog.HandlerOptions{Level: parseLevel(c.LogLevel)})))
}

func parseLevel(s string) slog.Level {
	switch s {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

const description = `runer is a declarative local build/deployment orchestrator: it spawns
container builds, container runs, and shell scripts in the order a rune
file declares, honouring intra-flow dependencies.`

func main() {
	var cli CLI
	parser := kong.Must(&cli,
		kong.Configuration(kongyaml.Loader, "~/.config/runer/config.yaml"),
		kong.Description(description))

	kongcompletion.Register(parser)

	kctx, err := parser.Parse(os.Args[1:])
	parser.FatalIfErrorf(err)

	cli.initSlog()

	shutdown, err := telemetry.Init(context.Background())
	if err != nil {
		fmt.Fprintf(os.Stderr, "telemetry init: %v\n", err)
		os.Exit(1)
	}
	defer shutdown(context.Background())

	err = kctx.Run(&Context{Engine: cli.Engine})
	kctx.FatalIfErrorf(err)
}
