package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v2"

	"github.com/commitdeck/internal/ai/gemini"
	"github.com/commitdeck/internal/app"
	"github.com/commitdeck/internal/config"
	"github.com/commitdeck/internal/deck"
	"github.com/commitdeck/internal/export"
	"github.com/commitdeck/internal/github"
	"github.com/commitdeck/internal/logging"
	"github.com/commitdeck/internal/pptx"
	"github.com/commitdeck/internal/render"
	"github.com/commitdeck/pkg/models"
)

func main() {
	cliApp := &cli.App{
		Name:  "commitdeck",
		Usage: "turn a GitHub repository's commit history into an AI-designed slide deck",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Usage:   "path to configuration file",
				EnvVars: []string{"COMMITDECK_CONFIG"},
			},
			&cli.BoolFlag{
				Name:    "verbose",
				Aliases: []string{"v"},
				Usage:   "enable debug logging",
				EnvVars: []string{"COMMITDECK_VERBOSE"},
			},
		},
		Commands: []*cli.Command{
			{
				Name:  "generate",
				Usage: "fetch commits, synthesize a presentation and export it",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "repo",
						Usage:    "repository reference in owner/name form",
						Required: true,
					},
					&cli.StringFlag{
						Name:     "since",
						Usage:    "start of the date window (YYYY-MM-DD)",
						Required: true,
					},
					&cli.StringFlag{
						Name:     "until",
						Usage:    "end of the date window (YYYY-MM-DD)",
						Required: true,
					},
					&cli.StringFlag{
						Name:    "token",
						Usage:   "GitHub personal access token (optional for public repositories)",
						EnvVars: []string{"COMMITDECK_GITHUB_TOKEN", "GITHUB_TOKEN"},
					},
					&cli.StringFlag{
						Name:  "out",
						Usage: "output directory (overrides config)",
					},
					&cli.BoolFlag{
						Name:  "simple",
						Usage: "skip rasterization and export text-only slides",
					},
					&cli.StringFlag{
						Name:  "save-deck",
						Usage: "also write the synthesized deck as JSON to this path for later re-export",
					},
				},
				Action: runGenerate,
			},
			{
				Name:  "export",
				Usage: "export a previously saved deck JSON to a .pptx file",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "deck",
						Usage:    "path to a deck JSON file written by generate --save-deck",
						Required: true,
					},
					&cli.StringFlag{
						Name:  "out",
						Usage: "output directory (overrides config)",
					},
					&cli.BoolFlag{
						Name:  "simple",
						Usage: "skip rasterization and export text-only slides",
					},
				},
				Action: runExport,
			},
			{
				Name:  "init-config",
				Usage: "write a sample configuration file",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "path",
						Value: "./commitdeck.toml",
						Usage: "where to write the sample configuration",
					},
				},
				Action: func(c *cli.Context) error {
					path := c.String("path")
					if err := config.InitConfig(path); err != nil {
						return err
					}
					fmt.Printf("wrote sample configuration to %s\n", path)
					return nil
				},
			},
		},
	}

	if err := cliApp.Run(os.Args); err != nil {
		log.Fatal().Err(err).Msg("commitdeck failed")
	}
}

func loadConfig(c *cli.Context) (*config.Config, error) {
	cfg, err := config.LoadConfig(c.String("config"))
	if err != nil {
		return nil, err
	}
	level := cfg.Log.Level
	if c.Bool("verbose") {
		level = "debug"
	}
	logging.Setup(level)
	return cfg, nil
}

func runGenerate(c *cli.Context) error {
	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}
	if err := config.Validate(cfg); err != nil {
		return err
	}

	// All input validation happens before anything touches the network.
	owner, repo, err := models.ParseRepoRef(c.String("repo"))
	if err != nil {
		return err
	}
	since, until, err := parseWindow(c.String("since"), c.String("until"))
	if err != nil {
		return err
	}

	token := c.String("token")
	if token == "" {
		token = cfg.GitHub.Token
	}

	repoCfg := models.RepoConfig{
		Owner:     owner,
		Repo:      repo,
		Token:     token,
		StartDate: since,
		EndDate:   until,
	}

	retriever := github.NewClient(token,
		github.WithBaseURL(cfg.GitHub.BaseURL),
		github.WithHTTPClient(&http.Client{Timeout: cfg.GitHub.Timeout}),
	)

	synth, err := gemini.New(c.Context, gemini.SynthesizerConfig{
		APIKey:      cfg.Gemini.APIKey,
		Model:       cfg.Gemini.Model,
		Temperature: cfg.Gemini.Temperature,
	})
	if err != nil {
		return err
	}

	// Per-request GitHub calls are bounded by the HTTP client timeout above;
	// the synthesis timeout bounds the run as a whole.
	ctx, cancel := context.WithTimeout(c.Context, cfg.Gemini.Timeout)
	defer cancel()

	pipeline := app.New(retriever, synth, deck.New())
	if _, err := pipeline.Generate(ctx, repoCfg); err != nil {
		return err
	}
	doc := pipeline.Store().Snapshot()

	if path := c.String("save-deck"); path != "" {
		if err := saveDeck(path, doc); err != nil {
			return err
		}
		log.Info().Str("path", path).Msg("deck JSON saved")
	}

	return exportDeck(c, cfg, doc)
}

func runExport(c *cli.Context) error {
	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}

	data, err := os.ReadFile(c.String("deck"))
	if err != nil {
		return fmt.Errorf("failed to read deck file: %w", err)
	}
	var doc models.PresentationData
	if err := json.Unmarshal(data, &doc); err != nil {
		return fmt.Errorf("failed to parse deck file: %w", err)
	}
	if len(doc.Slides) == 0 {
		return fmt.Errorf("deck file contains no slides")
	}

	return exportDeck(c, cfg, &doc)
}

func exportDeck(c *cli.Context, cfg *config.Config, doc *models.PresentationData) error {
	outDir := c.String("out")
	if outDir == "" {
		outDir = cfg.Output.Dir
	}

	var (
		pres     *pptx.Presentation
		degraded bool
	)
	if c.Bool("simple") {
		p, err := export.New(nil).Simple(doc)
		if err != nil {
			return err
		}
		pres = p
	} else {
		exporter := export.New(render.NewRasterizer(render.Options{
			Width:          cfg.Render.Width,
			Height:         cfg.Render.Height,
			Scale:          cfg.Render.Scale,
			SettleDelay:    cfg.Render.SettleDelay,
			CaptureTimeout: cfg.Render.CaptureTimeout,
			ChromePath:     cfg.Render.ChromePath,
		}))
		result, err := exporter.Rich(c.Context, doc)
		if err != nil {
			return err
		}
		pres = result.Presentation
		degraded = result.Degraded
	}

	path := filepath.Join(outDir, export.Filename(doc.Title))
	if err := pres.WriteFile(path); err != nil {
		return err
	}

	if degraded {
		fmt.Println("Could not generate high-fidelity slides. Wrote the simplified version instead.")
	}
	fmt.Printf("wrote %s (%d slides)\n", path, pres.SlideCount())
	return nil
}

func saveDeck(path string, doc *models.PresentationData) error {
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// parseWindow parses the inclusive date window; the end date is widened to
// the following midnight so "until 2024-03-01" covers every commit on that
// day, including the final second.
func parseWindow(since, until string) (time.Time, time.Time, error) {
	start, err := time.Parse("2006-01-02", since)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("invalid since date %q: expected YYYY-MM-DD", since)
	}
	end, err := time.Parse("2006-01-02", until)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("invalid until date %q: expected YYYY-MM-DD", until)
	}
	end = end.AddDate(0, 0, 1)
	return start, end, nil
}
