// Command seeder fills the scoring service's history with random predictions
// so the dashboard's charts and report have something to show.
package main

import (
	"context"
	"errors"
	"math/rand"
	"os"
	"strconv"
	"time"

	"github.com/jessevdk/go-flags"
	"go.uber.org/zap"

	"github.com/mymatch/dashboard/internal/config"
	"github.com/mymatch/dashboard/internal/logic"
	"github.com/mymatch/dashboard/internal/scoring"
)

type options struct {
	URL     string        `short:"u" long:"url" env:"SCORING_API_URL" default:"http://localhost:8000" description:"Scoring service base URL"`
	Players []string      `short:"p" long:"player" default:"Ana" default:"Bruno" default:"Carla" description:"Player to seed (repeatable)"`
	Count   int           `short:"n" long:"count" default:"5" description:"Predictions per player"`
	Model   string        `short:"m" long:"model" description:"Only seed this model key"`
	Seed    int64         `long:"seed" description:"Random seed (0 picks one from the clock)"`
	Timeout time.Duration `long:"timeout" default:"15s" description:"Per-request timeout"`
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

	logger, _ := zap.NewDevelopment()
	defer logger.Sync()
	sugar := logger.Sugar()

	if opts.URL == "" {
		opts.URL = config.DefaultScoringURL
	}
	if opts.Seed == 0 {
		opts.Seed = time.Now().UnixNano()
	}
	rng := rand.New(rand.NewSource(opts.Seed))

	client := scoring.New(scoring.Config{BaseURL: opts.URL, Timeout: opts.Timeout, Logger: logger})
	ctx := context.Background()

	catalog, err := client.FetchModels(ctx)
	if err != nil {
		sugar.Fatalw("Failed to load models", "error", err, "url", opts.URL)
	}
	if catalog.Empty() {
		sugar.Fatalw("The scoring service offers no models", "url", opts.URL)
	}

	var sent, failed int
	for _, player := range opts.Players {
		for i := 0; i < opts.Count; i++ {
			desc := catalog.Models[i%len(catalog.Models)]
			if opts.Model != "" {
				var ok bool
				if desc, ok = catalog.Lookup(opts.Model); !ok {
					sugar.Fatalw("Unknown model", "model", opts.Model)
				}
			}

			form, err := logic.NewForm(desc, catalog)
			if err != nil {
				sugar.Fatalw("Model cannot be filled in", "model", desc.Key, "error", err)
			}
			form.PlayerName = player
			for _, f := range form.Fields {
				if f.Numeric() {
					form.Set(f.Name, strconv.Itoa(rng.Intn(6)))
				} else if len(f.Options) > 0 {
					form.Set(f.Name, f.Options[rng.Intn(len(f.Options))].Value)
				}
			}

			payload, err := form.Payload()
			if err != nil {
				sugar.Fatalw("Invalid payload", "error", err)
			}

			result, err := client.PredictPlayer(ctx, payload)
			if err != nil {
				failed++
				sugar.Warnw("Prediction failed", "player", player, "model", desc.Key, "error", err)
				continue
			}
			sent++
			sugar.Infow("Seeded prediction", "player", player, "model", desc.Key, "score", result.Score)
		}
	}

	sugar.Infow("Seeding finished", "sent", sent, "failed", failed, "seed", opts.Seed)
	if failed > 0 {
		os.Exit(1)
	}
}
