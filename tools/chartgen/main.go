// Command chartgen renders one player's history charts to disk: a score and
// stats line chart, a bar chart per categorical field and the PDF report.
package main

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/jessevdk/go-flags"
	"go.uber.org/zap"

	"github.com/mymatch/dashboard/internal/config"
	"github.com/mymatch/dashboard/internal/logic"
	"github.com/mymatch/dashboard/internal/report"
	"github.com/mymatch/dashboard/internal/scoring"
)

type options struct {
	URL    string `short:"u" long:"url" env:"SCORING_API_URL" description:"Scoring service base URL"`
	Player string `short:"p" long:"player" required:"true" description:"Exact player name"`
	Limit  int    `short:"l" long:"limit" default:"50" description:"Most recent records to chart"`
	Out    string `short:"o" long:"out" default:"charts" description:"Output directory"`
	PDF    bool   `long:"pdf" description:"Also write the PDF report"`
}

func main() {
	var opts options
	if _, err := flags.Parse(&opts); err != nil {
		var ferr *flags.Error
		if errors.As(err, &ferr) && ferr.Type == flags.ErrHelp {
			os.Exit(0)
		}
		os.Exit(2)
	}
	if opts.URL == "" {
		opts.URL = config.DefaultScoringURL
	}

	client := scoring.New(scoring.Config{BaseURL: opts.URL, Logger: zap.NewNop()})
	ctx := context.Background()

	catalog, err := client.FetchModels(ctx)
	if err != nil {
		log.Printf("Models unavailable, using fallback categories: %v", err)
	}

	records, err := client.FetchHistory(ctx, scoring.HistoryQuery{Limit: opts.Limit, PlayerName: opts.Player})
	if err != nil {
		log.Fatalf("Failed to load history: %v", err)
	}
	records = logic.FilterByPlayer(logic.Reverse(records), opts.Player)
	if len(records) == 0 {
		log.Fatalf("No predictions found for %q", opts.Player)
	}

	if err := os.MkdirAll(opts.Out, 0o755); err != nil {
		log.Fatal(err)
	}

	fmt.Println("Generating score history...")
	series := report.BuildSeries(records, report.NumericKeys(records))
	writeFile(filepath.Join(opts.Out, "series.svg"), []byte(report.LineChartSVG(opts.Player, series)))

	sections := []report.Section{{Label: "Score and stats", Series: series}}
	for _, stat := range series[1:] {
		one := []report.Series{stat}
		writeFile(filepath.Join(opts.Out, stat.Key+".svg"), []byte(report.LineChartSVG(stat.Label, one)))
		sections = append(sections, report.Section{Label: stat.Label, Series: one})
	}
	for i, field := range logic.CategoricalChartFields(catalog) {
		counts := report.CategoryCounts(records, field, logic.OptionsFor(catalog, field))
		if len(counts) == 0 {
			continue
		}
		fmt.Printf("Generating %s counts...\n", field)
		color := report.SeriesColor(i + 1)
		writeFile(filepath.Join(opts.Out, field+".svg"), []byte(report.BarChartSVG(report.Label(field), counts, color)))
		sections = append(sections, report.Section{Label: report.Label(field), Counts: counts, Color: color})
	}

	if opts.PDF {
		var buf bytes.Buffer
		if err := report.WritePDF(&buf, "Player report: "+opts.Player, sections); err != nil {
			log.Fatalf("Failed to render PDF: %v", err)
		}
		writeFile(filepath.Join(opts.Out, "report.pdf"), buf.Bytes())
	}
}

func writeFile(path string, data []byte) {
	if err := os.WriteFile(path, data, 0o644); err != nil {
		log.Printf("Failed to write %s: %v", path, err)
		return
	}
	fmt.Printf("Saved %s\n", path)
}
