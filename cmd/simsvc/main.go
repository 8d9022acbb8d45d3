package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"

	"github.com/rs/zerolog"

	"lane_battle/internal/config"
	"lane_battle/internal/logging"
	"lane_battle/internal/sim"
	"lane_battle/internal/store"
)

// flagKeys maps command line flags onto settings keys.
var flagKeys = map[string]string{
	"assets":  "assetsDir",
	"stage":   "stage",
	"seed":    "seed",
	"n":       "runs",
	"workers": "workers",
	"out":     "output",
	"log":     "recordEvents",
	"level":   "logLevel",
}

func main() {
	var cfgFile string
	flag.StringVar(&cfgFile, "config", "", "settings file (yaml)")
	flag.String("assets", "assets", "master data dir")
	flag.Int("stage", 1, "stage id")
	flag.Int64("seed", 12345, "seed")
	flag.Int("n", 1, "number of simulations")
	flag.Int("workers", 8, "batch workers")
	flag.String("out", "out.json", "output file (single) or summary file (batch)")
	flag.Bool("log", true, "save full event log when n==1")
	flag.String("level", "info", "log level")
	flag.Parse()

	v := config.NewViper()
	flag.Visit(func(f *flag.Flag) {
		if key, ok := flagKeys[f.Name]; ok {
			v.Set(key, f.Value.String())
		}
	})
	s, err := config.LoadSettings(v, cfgFile)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	log := logging.New(s.LogLevel, os.Stderr, true)

	if err := run(s, log); err != nil {
		log.Fatal().Err(err).Msg("simsvc failed")
	}
}

func run(s *config.Settings, log zerolog.Logger) error {
	b, err := config.LoadBattle(s.AssetsDir, s.Stage)
	if err != nil {
		return err
	}
	setup, err := b.InitParams(nil, s)
	if err != nil {
		return err
	}
	if last := b.Stage.LastWaveFrame(); s.MaxFrames > 0 && s.MaxFrames < last {
		log.Warn().
			Int("maxFrames", s.MaxFrames).
			Int("lastWave", last).
			Msg("runs end before the last wave is spawned")
	}
	params := sim.Params{
		Init:        setup,
		Seed:        s.Seed,
		MaxFrames:   s.MaxFrames,
		SpawnChance: s.Bot.SpawnChance,
	}

	var st *store.Store
	if s.Store.Driver != "" {
		st, err = store.Open(s.Store.Driver, s.Store.DSN)
		if err != nil {
			return err
		}
		defer st.Close()
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if s.Runs <= 1 {
		params.Record = s.RecordEvents
		res, err := sim.RunSingle(params)
		if err != nil {
			return err
		}
		if err := os.WriteFile(s.Output, sim.MarshalPretty(res), 0644); err != nil {
			return err
		}
		if st != nil {
			if err := st.SaveRun(ctx, res); err != nil {
				return err
			}
		}
		log.Info().
			Str("run", res.RunID).
			Bool("win", res.Win).
			Bool("finished", res.Finished).
			Int("frames", res.Frames).
			Int("spawns", res.PlayerSpawns).
			Str("out", s.Output).
			Msg("single run finished")
		return nil
	}

	onResult := func(res sim.Result, err error) {
		if err != nil {
			log.Error().Err(err).Msg("run failed")
			return
		}
		if st != nil {
			if err := st.SaveRun(ctx, res); err != nil {
				log.Warn().Err(err).Str("run", res.RunID).Msg("store run")
			}
		}
	}
	sum := sim.RunBatch(ctx, sim.BatchParams{Base: params, Runs: s.Runs, Workers: s.Workers}, onResult)
	if err := os.WriteFile(s.Output, sim.MarshalPretty(sum), 0644); err != nil {
		return err
	}
	if st != nil {
		if err := st.SaveBatch(ctx, sum); err != nil {
			return err
		}
		if rate, n, err := st.WinRate(ctx, s.Stage); err == nil {
			log.Info().Float64("win_rate", rate).Int64("runs", n).Msg("stage history")
		}
	}
	log.Info().
		Int("runs", sum.Runs).
		Int("failed", sum.Failed).
		Float64("win_rate", sum.WinRate).
		Float64("avg_frames", sum.AvgFrames).
		Str("out", filepath.Base(s.Output)).
		Msg("batch done")
	return nil
}
