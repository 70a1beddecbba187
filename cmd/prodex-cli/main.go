package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/urfave/cli/v2"
	"go.uber.org/zap"

	"github.com/kailas-cloud/prodex"
	"github.com/kailas-cloud/prodex/internal/domain/product"
	logpkg "github.com/kailas-cloud/prodex/internal/logger"
	searchuc "github.com/kailas-cloud/prodex/internal/usecase/search"
	"github.com/kailas-cloud/prodex/internal/version"
)

func main() {
	if err := newApp().Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func catalogFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:     "catalog",
			Aliases:  []string{"c"},
			Usage:    "Path to a JSON array of products",
			Required: true,
		},
		&cli.StringFlag{
			Name:     "query",
			Aliases:  []string{"q"},
			Usage:    "Free-text search query",
			Required: true,
		},
	}
}

func newApp() *cli.App {
	return &cli.App{
		Name:    "prodex",
		Usage:   "Search a product catalog with a language model and a keyword fallback",
		Version: version.Version,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "log-level",
				Aliases: []string{"l"},
				Usage:   "Set logging level (debug, info, warn, error)",
				Value:   "warn",
			},
		},
		Before: setupLogger,
		Commands: []*cli.Command{
			{
				Name:   "search",
				Usage:  "Rank a catalog file against a query",
				Action: searchCommand,
				Flags: append(catalogFlags(),
					&cli.StringFlag{
						Name:    "api-key",
						Usage:   "Completion provider API key; empty uses the keyword scorer only",
						EnvVars: []string{"OPENROUTER_API_KEY"},
					},
					&cli.StringFlag{
						Name:    "base-url",
						Usage:   "OpenAI-compatible API base URL",
						EnvVars: []string{"COMPLETION_BASE_URL"},
					},
					&cli.StringFlag{
						Name:    "model",
						Usage:   "Completion model name",
						EnvVars: []string{"COMPLETION_MODEL"},
					},
					&cli.DurationFlag{
						Name:  "timeout",
						Usage: "Deadline for the completion call",
						Value: 10 * time.Second,
					},
					&cli.BoolFlag{
						Name:  "keyword-only",
						Usage: "Skip the language model even when a key is set",
					},
					&cli.BoolFlag{
						Name:  "json",
						Usage: "Print the result as JSON",
					},
				),
			},
			{
				Name:   "prompt",
				Usage:  "Print the prompt the language model would receive",
				Action: promptCommand,
				Flags:  catalogFlags(),
			},
		},
	}
}

func setupLogger(c *cli.Context) error {
	level := strings.ToLower(c.String("log-level"))
	switch level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("invalid log level %q: must be one of debug, info, warn, error", level)
	}

	logger, err := logpkg.NewLogger("local", level)
	if err != nil {
		return fmt.Errorf("create logger: %w", err)
	}
	zap.ReplaceGlobals(logger)
	return nil
}

func loadCatalog(path string) ([]prodex.Product, error) {
	f, err := os.Open(path) //nolint:gosec // path is an explicit operator input
	if err != nil {
		return nil, fmt.Errorf("open catalog: %w", err)
	}
	defer func() { _ = f.Close() }()

	catalog, err := prodex.ReadCatalog(f)
	if err != nil {
		return nil, fmt.Errorf("read catalog %s: %w", path, err)
	}
	return catalog, nil
}

func searchCommand(c *cli.Context) error {
	catalog, err := loadCatalog(c.String("catalog"))
	if err != nil {
		return err
	}

	opts := []prodex.Option{
		prodex.WithTimeout(c.Duration("timeout")),
		prodex.WithLogger(zap.L()),
	}
	if !c.Bool("keyword-only") {
		opts = append(opts, prodex.WithOpenAI(c.String("api-key"), c.String("base-url"), c.String("model")))
	}

	engine, err := prodex.New(opts...)
	if err != nil {
		return fmt.Errorf("create engine: %w", err)
	}

	ctx := c.Context
	if ctx == nil {
		ctx = context.Background()
	}
	res, err := engine.Search(ctx, c.String("query"), catalog)
	if err != nil {
		if errors.Is(err, prodex.ErrInvalidInput) {
			return cli.Exit(err.Error(), 2)
		}
		return fmt.Errorf("search: %w", err)
	}

	if c.Bool("json") {
		enc := json.NewEncoder(c.App.Writer)
		enc.SetIndent("", "  ")
		if err := enc.Encode(res); err != nil {
			return fmt.Errorf("encode result: %w", err)
		}
		return nil
	}
	return printResult(c.App.Writer, &res)
}

func printResult(w io.Writer, res *prodex.Result) error {
	source := "language model"
	if res.Fallback {
		source = "keyword scorer (" + res.FallbackReason + ")"
	}
	if _, err := fmt.Fprintf(w, "%d result(s) for %q via %s\n", len(res.Products), res.Query, source); err != nil {
		return fmt.Errorf("write result: %w", err)
	}
	if res.Message != "" {
		_, _ = fmt.Fprintln(w, res.Message)
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(tw, "ID\tPRICE\tRATING\tCATEGORY\tTITLE")
	for i := range res.Products {
		p := &res.Products[i]
		rating := "N/A"
		if p.Rating != nil {
			rating = fmt.Sprintf("%.1f", *p.Rating)
		}
		_, _ = fmt.Fprintf(tw, "%d\t$%.2f\t%s\t%s\t%s\n", p.ID, p.Price, rating, p.Category, p.Title)
	}
	if err := tw.Flush(); err != nil {
		return fmt.Errorf("write result: %w", err)
	}
	return nil
}

func promptCommand(c *cli.Context) error {
	catalog, err := loadCatalog(c.String("catalog"))
	if err != nil {
		return err
	}

	items := make([]product.Product, len(catalog))
	for i := range catalog {
		p := &catalog[i]
		items[i], err = product.New(p.ID, p.Title, p.Price, p.Category, p.Description, p.Rating, p.Tags)
		if err != nil {
			return cli.Exit(err.Error(), 2)
		}
	}

	_, err = fmt.Fprintf(c.App.Writer, "SYSTEM:\n%s\n\nUSER:\n%s\n",
		searchuc.SystemMessage, searchuc.BuildPrompt(c.String("query"), items))
	if err != nil {
		return fmt.Errorf("write prompt: %w", err)
	}
	return nil
}
