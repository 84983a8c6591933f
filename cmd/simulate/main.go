// Command simulate runs a level headless with a tengo input script and prints
// the character's transitions.
package main

import (
	"flag"
	"log"
	"os"

	"github.com/milk9111/platformer/config"
	"github.com/milk9111/platformer/prefabs"
	"github.com/milk9111/platformer/report"
	"github.com/milk9111/platformer/script"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}
	if cfg.Script == "" {
		cfg.Script = "hop.tengo"
	}
	cfg.RegisterFlags(flag.CommandLine)
	ticks := flag.Int("ticks", 600, "number of ticks to simulate")
	flag.Parse()

	flush, err := report.Init(cfg.SentryDSN, "platformer-simulate")
	if err != nil {
		log.Printf("%v", err)
	}
	defer flush()
	defer report.Recover(map[string]string{"level": cfg.Level, "script": cfg.Script})

	prefabs.SetDiskDir(cfg.PrefabDir)

	source, err := script.Load(cfg.Script)
	if err != nil {
		log.Fatal(err)
	}

	sim := newSimulation(cfg.Level, source, cfg.Debug, os.Stdout)
	summary := sim.run(*ticks)
	if source.Err() != nil {
		log.Printf("simulate: script error: %v", source.Err())
	}
	log.Printf("simulate: %d ticks, %d jumps, %d landings, grounded=%t, position=(%.2f, %.2f)",
		summary.Ticks, summary.Jumps, summary.Landings, summary.Grounded, summary.X, summary.Y)
}
