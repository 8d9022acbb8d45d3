package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"lane_battle/internal/config"
	"lane_battle/internal/live"
	"lane_battle/internal/logging"
)

func main() {
	var cfgFile string
	flag.StringVar(&cfgFile, "config", "", "settings file (yaml)")
	addr := flag.String("addr", "", "listen address, overrides live.addr")
	flag.Parse()

	v := config.NewViper()
	if *addr != "" {
		v.Set("live.addr", *addr)
	}
	s, err := config.LoadSettings(v, cfgFile)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	log := logging.New(s.LogLevel, os.Stderr, true)

	if err := run(s, log); err != nil {
		log.Fatal().Err(err).Msg("battlesrv failed")
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
	hub := live.NewHub(live.Params{Init: setup, FPS: s.Live.FPS}, log.With().Str("component", "hub").Logger())

	mux := http.NewServeMux()
	mux.HandleFunc("/ws", hub.ServeWS)
	srv := &http.Server{Addr: s.Live.Addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		err := hub.Run(ctx)
		if errors.Is(err, context.Canceled) {
			return nil
		}
		return err
	})
	g.Go(func() error {
		log.Info().Str("addr", s.Live.Addr).Msg("listening")
		if err := srv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		shutdown, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdown)
	})
	return g.Wait()
}
