package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"runtime/pprof"
	"syscall"

	"github.com/Robotino04/Thera-Engine/internal/config"
	"github.com/Robotino04/Thera-Engine/internal/journal"
	"github.com/Robotino04/Thera-Engine/internal/uci"
)

var (
	cpuprofile = flag.String("cpuprofile", "", "write cpu profile to file")
	configPath = flag.String("config", "therauci.toml", "optional engine defaults file")
)

func main() {
	flag.Parse()

	profilePath := *cpuprofile
	if profilePath == "" {
		profilePath = os.Getenv("CPUPROFILE")
	}
	if profilePath != "" {
		f, err := os.Create(profilePath)
		if err != nil {
			log.Fatal("could not create CPU profile: ", err)
		}
		defer f.Close()
		if err := pprof.StartCPUProfile(f); err != nil {
			log.Fatal("could not start CPU profile: ", err)
		}
		defer pprof.StopCPUProfile()
		log.Printf("CPU profiling enabled, writing to %s", profilePath)
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("could not load %s: %v", *configPath, err)
	}

	engine := uci.New(os.Stdout)
	engine.SetHashMB(cfg.HashMB)
	engine.SetDepthCeiling(cfg.DepthCeiling)

	if cfg.Journal {
		j, err := journal.OpenDefault()
		if err != nil {
			log.Printf("Warning: search journal not available: %v (continuing without it)", err)
		} else {
			defer j.Close()
			engine.SetJournal(j)
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := engine.Run(ctx, os.Stdin); err != nil && ctx.Err() == nil {
		log.Fatal(err)
	}
}
