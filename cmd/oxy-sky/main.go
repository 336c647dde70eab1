// Command oxy-sky opens a window and renders a mesh inside a cubemap skybox while the camera orbits it.
package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"

	"github.com/Carmen-Shannon/oxy-sky/common"
	"github.com/Carmen-Shannon/oxy-sky/config"
	"github.com/Carmen-Shannon/oxy-sky/engine"
)

func main() {
	configPath := flag.String("config", "", "path to a .toml or .yaml configuration file")
	profile := flag.Bool("profile", false, "log frame and memory statistics every second")
	flag.Parse()

	if err := run(*configPath, *profile); err != nil {
		fmt.Fprintln(os.Stderr, "oxy-sky:", err)
		os.Exit(1)
	}
}

func run(configPath string, profile bool) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	if profile {
		cfg.Renderer.Profile = true
	}

	level, err := cfg.Log.SlogLevel()
	if err != nil {
		return err
	}
	common.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))

	eng, err := engine.NewEngineFromConfig(cfg)
	if err != nil {
		return err
	}
	defer eng.Release()

	return eng.Run()
}
