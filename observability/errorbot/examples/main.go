// Command examples shows the startup sequence of an application that reports to ErrorBot.
//
// Run from this directory with ENVIRONMENT=local and ERRORBOT_API_KEY set:
//
//	go run . report   # send a manual warning
//	go run . panic    # crash and let the installed hook report it
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/rise-and-shine/errorbot/cfgloader"
	"github.com/rise-and-shine/errorbot/observability/errorbot"
	"github.com/rise-and-shine/errorbot/observability/logger"
)

type config struct {
	Logger   logger.Config   `yaml:"logger"`
	ErrorBot errorbot.Config `yaml:"errorbot"`
}

func main() {
	if len(os.Args) < 2 {
		fmt.Println("Usage: go run . <command>")
		fmt.Println("Commands:")
		fmt.Println("  report - Send a manual warning report")
		fmt.Println("  panic  - Panic and let the hook report it")
		os.Exit(1)
	}

	cfg := cfgloader.MustLoad[config]()
	logger.SetGlobal(cfg.Logger)
	defer func() { _ = logger.Sync() }()

	rep, err := errorbot.New(cfg.ErrorBot)
	if err != nil {
		logger.Errorx(err)
		os.Exit(1)
	}
	rep.Init()
	defer errorbot.Recover()

	switch os.Args[1] {
	case "report":
		rep.ReportError(context.Background(), "disk full", errorbot.WithType("warning"))
	case "panic":
		var orders map[string]int
		orders["pending"]++
	default:
		fmt.Printf("Unknown command: %s\n", os.Args[1])
		fmt.Println("Available commands: report, panic")
	}
}
