package main

import (
	"encoding/json"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"

	"webshare/internal/config"
	"webshare/internal/httpd"
)

func main() {
	log.SetFlags(log.LstdFlags | log.Lmicroseconds)

	cfgPath := flag.String("config", "", "path to config json (optional)")
	flag.Usage = usage
	flag.Parse()

	var cfg config.Config
	if *cfgPath != "" {
		b, err := os.ReadFile(*cfgPath)
		if err != nil {
			log.Fatalf("read config: %v", err)
		}
		if err := json.Unmarshal(b, &cfg); err != nil {
			log.Fatalf("parse config: %v", err)
		}
	} else {
		c, err := config.FromArgs(flag.Args())
		if err != nil {
			log.Fatalf("args: %v", err)
		}
		cfg = c
	}
	if err := cfg.Finalize(); err != nil {
		log.Fatalf("config: %v", err)
	}
	st, err := os.Stat(cfg.Root)
	if err != nil || !st.IsDir() {
		log.Fatalf("root %s is not a directory", cfg.Root)
	}

	srv := httpd.New(cfg)
	if err := srv.Listen(cfg.Addr()); err != nil {
		log.Fatalf("%v", err)
	}

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sig
		log.Printf("shutting down")
		srv.Shutdown()
	}()

	log.Printf("webshare listening on http://%s (root=%s)", srv.Addr(), cfg.Root)
	if err := srv.Serve(); err != nil {
		log.Fatalf("serve: %v", err)
	}
}

func usage() {
	os.Stderr.WriteString("usage: webshare [root_dir] [port]\n")
	flag.PrintDefaults()
}
