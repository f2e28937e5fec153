package main

import (
	"fmt"
	"log"
	"os"

	"git.lost.host/meutraa/lanes/internal/config"
	"git.lost.host/meutraa/lanes/internal/logx"
)

func main() {
	if err := run(); nil != err {
		log.Fatalln(err)
	}
}

func run() error {
	cfg, err := config.Parse(os.Args[1:])
	if nil != err {
		return err
	}

	level, err := logx.ParseLevel(cfg.LogLevel)
	if nil != err {
		return err
	}
	out := os.Stderr
	if cfg.LogFile != "" {
		f, err := os.OpenFile(cfg.LogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if nil != err {
			return fmt.Errorf("unable to open log file: %w", err)
		}
		defer f.Close()
		out = f
	}
	// Keep stray log lines off the game screen
	log.SetOutput(out)

	p := &Program{Config: cfg, Log: logx.New(out, level)}
	if err := p.Init(); nil != err {
		p.Close()
		return err
	}
	defer p.Close()

	if err := p.Run(); nil != err {
		return err
	}
	p.PrintResults(os.Stdout)
	return nil
}
