// submodule cmd contains command definitions
package main

import (
	"fmt"
	"strings"

	"github.com/desertthunder/rhymx/internal/formatter"
	"github.com/urfave/cli/v3"
)

func formatNames() string {
	names := make([]string, len(formatter.Formats))
	for i, f := range formatter.Formats {
		names[i] = string(f)
	}
	return strings.Join(names, ", ")
}

// rootFlags are inherited by every subcommand.
func rootFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "config",
			Aliases: []string{"c"},
			Usage:   "Path to configuration file (TOML, or YAML for .yaml/.yml)",
			Value:   "config.toml",
			Sources: cli.EnvVars("RHYMX_CONFIG"),
		},
		&cli.StringFlag{
			Name:  "env-file",
			Usage: "Path to a .env file read before the environment is applied",
			Value: ".env",
		},
		&cli.BoolFlag{
			Name:  "debug",
			Usage: "Enable debug logging",
		},
	}
}

// analysisFlags select the analyzer options and the output format.
func analysisFlags() []cli.Flag {
	return []cli.Flag{
		&cli.BoolFlag{
			Name:    "all-words",
			Aliases: []string{"a"},
			Usage:   "Compare every word instead of line endings only",
		},
		&cli.IntFlag{
			Name:  "near",
			Usage: "Group near rhymes whose endings differ by at most N edits (0 = exact only)",
		},
		&cli.StringFlag{
			Name:    "format",
			Aliases: []string{"f"},
			Usage:   fmt.Sprintf("Output format (%s)", formatNames()),
			Value:   string(formatter.FormatText),
		},
		&cli.StringFlag{
			Name:    "output",
			Aliases: []string{"o"},
			Usage:   "Write to a file instead of stdout",
		},
		&cli.BoolFlag{
			Name:  "pretty",
			Usage: "Pretty-print JSON output",
		},
	}
}

func songFlags(required bool) []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:     "artist",
			Usage:    "Artist name",
			Required: required,
		},
		&cli.StringFlag{
			Name:     "title",
			Aliases:  []string{"t"},
			Usage:    "Song title",
			Required: required,
		},
	}
}

// serveCommand runs the relay.
func serveCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "Run the HTTP relay (login, refresh, lyrics)",
		Flags: []cli.Flag{
			&cli.IntFlag{
				Name:    "port",
				Aliases: []string{"p"},
				Usage:   "Port to listen on (overrides config and PORT)",
			},
			&cli.BoolFlag{
				Name:  "all-words",
				Usage: "Annotate every word instead of line endings only",
			},
			&cli.IntFlag{
				Name:  "near",
				Usage: "Group near rhymes whose endings differ by at most N edits",
			},
			&cli.BoolFlag{
				Name:  "no-metrics",
				Usage: "Disable the /metrics endpoint",
			},
		},
		Action: r.Serve,
	}
}

// analyzeCommand analyzes a local file or stdin.
func analyzeCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "analyze",
		Usage: "Detect rhymes in a lyrics file, or stdin when no file or - is given",
		Arguments: []cli.Argument{
			&cli.StringArg{Name: "file"},
		},
		Flags:  append(analysisFlags(), songFlags(false)...),
		Action: r.Analyze,
	}
}

// lyricsCommand fetches lyrics through the provider chain and analyzes them.
func lyricsCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:   "lyrics",
		Usage:  "Fetch lyrics for a song and detect its rhymes",
		Flags:  append(analysisFlags(), songFlags(true)...),
		Action: r.Lyrics,
	}
}

// batchCommand analyzes every song in a list.
func batchCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "batch",
		Usage: "Fetch and analyze every \"Artist - Title\" line of a song list, or stdin when no file or - is given",
		Arguments: []cli.Argument{
			&cli.StringArg{Name: "file"},
		},
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:    "all-words",
				Aliases: []string{"a"},
				Usage:   "Compare every word instead of line endings only",
			},
			&cli.IntFlag{
				Name:  "near",
				Usage: "Group near rhymes whose endings differ by at most N edits",
			},
			&cli.StringFlag{
				Name:    "format",
				Aliases: []string{"f"},
				Usage:   fmt.Sprintf("Format of each song file (%s)", formatNames()),
				Value:   string(formatter.FormatText),
			},
			&cli.StringFlag{
				Name:    "output-dir",
				Aliases: []string{"d"},
				Usage:   "Directory for song files and manifest.json (default: rhymx_batch_{epoch})",
			},
			&cli.IntFlag{
				Name:    "workers",
				Aliases: []string{"w"},
				Usage:   "Concurrent lookups (1-10)",
				Value:   4,
			},
			&cli.BoolFlag{
				Name:  "pretty",
				Usage: "Pretty-print JSON output",
			},
		},
		Action: r.Batch,
	}
}

// viewCommand opens the interactive viewer.
func viewCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "view",
		Aliases: []string{"ui"},
		Usage:   "Browse rhymes interactively, from a file or fetched with --artist and --title",
		Arguments: []cli.Argument{
			&cli.StringArg{Name: "file"},
		},
		Flags: append([]cli.Flag{
			&cli.BoolFlag{
				Name:    "all-words",
				Aliases: []string{"a"},
				Usage:   "Compare every word instead of line endings only",
			},
			&cli.IntFlag{
				Name:  "near",
				Usage: "Group near rhymes whose endings differ by at most N edits",
			},
		}, songFlags(false)...),
		Action: r.View,
	}
}

// configCommand manages the configuration file.
func configCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "config",
		Usage: "Configuration commands",
		Commands: []*cli.Command{
			{
				Name:   "init",
				Usage:  "Write the example configuration to --config",
				Action: r.ConfigInit,
			},
			{
				Name:  "show",
				Usage: "Print the effective configuration with secrets masked",
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "json",
						Usage: "Output JSON",
					},
				},
				Action: r.ConfigShow,
			},
		},
	}
}

// authCommand drives the authorization code flow from the terminal.
func authCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "auth",
		Usage: "Authorization helpers",
		Commands: []*cli.Command{
			{
				Name:  "url",
				Usage: "Print the provider authorization URL",
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "open",
						Usage: "Open the URL in the default browser",
					},
				},
				Action: r.AuthURL,
			},
			{
				Name:  "login",
				Usage: "Sign in through the browser and print the resulting tokens",
				Flags: []cli.Flag{
					&cli.DurationFlag{
						Name:  "timeout",
						Usage: "How long to wait for the callback",
						Value: defaultLoginTimeout,
					},
					&cli.BoolFlag{
						Name:  "json",
						Usage: "Output tokens as JSON",
					},
				},
				Action: r.AuthLogin,
			},
		},
	}
}
