package main

import (
	"fmt"
	"os"

	"github.com/urfave/cli/v2"

	"github.com/standardbeagle/lml/internal/config"
	"github.com/standardbeagle/lml/internal/debug"
	"github.com/standardbeagle/lml/internal/version"
)

// loadConfigWithOverrides resolves the configuration for a scan rooted at
// root and applies CLI flag overrides on top of it.
func loadConfigWithOverrides(c *cli.Context, root string) (*config.Config, error) {
	var cfg *config.Config
	if c.Bool("no-config") {
		cfg = config.Defaults(root)
		cfg.EnrichExclusions()
	} else {
		loaded, err := config.Load(c.String("config"), root)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		cfg = loaded
	}

	if c.IsSet("score") {
		cfg.Match.MinScore = c.Float64("score")
	}
	if c.IsSet("sort") {
		cfg.Match.Sort = c.Bool("sort")
	}
	if c.IsSet("workers") {
		cfg.Scan.Workers = c.Int("workers")
	}
	if c.IsSet("line-numbers") {
		cfg.Display.LineNumbers = c.Bool("line-numbers")
	}
	switch {
	case c.Bool("nocolor"):
		cfg.Display.Color = "never"
	case c.Bool("color"):
		cfg.Display.Color = "always"
	}

	if err := config.ValidateConfig(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func main() {
	app := &cli.App{
		Name:                   "lml",
		Usage:                  "Locate the source of a runtime log message",
		Version:                version.Version,
		ArgsUsage:              "<message> [directory]",
		UseShortOptionHandling: true,
		Flags: []cli.Flag{
			&cli.IntFlag{
				Name:    "after-context",
				Aliases: []string{"A"},
				Usage:   "Lines of context after each match",
			},
			&cli.IntFlag{
				Name:    "before-context",
				Aliases: []string{"B"},
				Usage:   "Lines of context before each match",
			},
			&cli.IntFlag{
				Name:    "context",
				Aliases: []string{"C"},
				Usage:   "Lines of context around each match (fills -A and -B)",
			},
			&cli.BoolFlag{
				Name:    "line-numbers",
				Aliases: []string{"n"},
				Usage:   "Prefix context lines with line numbers",
			},
			&cli.BoolFlag{
				Name:    "with-filename",
				Aliases: []string{"H"},
				Usage:   "Prefix context lines with the file path instead of summaries",
			},
			&cli.Float64Flag{
				Name:    "score",
				Aliases: []string{"s"},
				Usage:   "Minimum score for a candidate to be reported",
			},
			&cli.BoolFlag{
				Name:  "sort",
				Usage: "Order candidates by score, best first",
			},
			&cli.BoolFlag{
				Name:  "color",
				Usage: "Force match highlighting on",
			},
			&cli.BoolFlag{
				Name:  "nocolor",
				Usage: "Force match highlighting off (wins over --color)",
			},
			&cli.BoolFlag{
				Name:    "json",
				Aliases: []string{"j"},
				Usage:   "Output as JSON",
			},
			&cli.BoolFlag{
				Name:  "explain",
				Usage: "Diagnose why close literals missed the threshold",
			},
			&cli.BoolFlag{
				Name:    "watch",
				Aliases: []string{"w"},
				Usage:   "Keep scanning as files change (Ctrl+C to stop)",
			},
			&cli.IntFlag{
				Name:  "workers",
				Usage: "Scan worker count (0 = one per CPU)",
			},
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Config file path",
			},
			&cli.BoolFlag{
				Name:  "no-config",
				Usage: "Ignore config files and use built-in defaults",
			},
			&cli.BoolFlag{
				Name:  "debug",
				Usage: "Enable debug logging",
			},
		},
		Commands: []*cli.Command{
			{
				Name:      "mcp",
				Usage:     "Start MCP (Model Context Protocol) server with stdio transport",
				ArgsUsage: "[directory]",
				Action:    mcpCommand,
			},
		},
		Before: func(c *cli.Context) error {
			if c.Bool("debug") {
				debug.Enable()
			}
			return nil
		},
		Action: locateCommand,
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "Fatal error: %v\n", err)
		os.Exit(1)
	}
}
