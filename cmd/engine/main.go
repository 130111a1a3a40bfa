package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/xkmsoft/stemsearch/pkg/config"
	"github.com/xkmsoft/stemsearch/pkg/tcpserver"
)

func main() {
	configPath := flag.String("config", "", "YAML configuration file (defaults to $STEMSEARCH_CONFIG)")
	envFile := flag.String("env", "", "Environment file loaded before the configuration")
	host := flag.String("host", "", "hostname")
	port := flag.String("port", "", "port")
	network := flag.String("network", "", "Network should be [tcp, tcp4, tcp6]")
	index := flag.Int("index", -1, "Abstract index [0, 27]")
	clean := flag.Bool("clean", false, "Cleans all files within the data directory if set")
	algorithm := flag.String("algorithm", "", "Stemming algorithm [lancaster, snowball, porter]")
	stripPrefix := flag.Bool("prefix", false, "Strip a known prefix before stemming")
	flag.Parse()

	var envFiles []string
	if *envFile != "" {
		envFiles = append(envFiles, *envFile)
	}
	if err := config.LoadEnv(envFiles...); err != nil {
		log.Fatal(err)
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatal(err)
	}

	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "host":
			cfg.Server.Host = *host
		case "port":
			cfg.Server.Port = *port
		case "network":
			cfg.Server.Network = *network
		case "index":
			cfg.Server.Index = *index
		case "clean":
			cfg.Server.Clean = *clean
		case "algorithm":
			cfg.Analyzer.Algorithm = *algorithm
		case "prefix":
			cfg.Analyzer.StripPrefix = *stripPrefix
		}
	})
	if err := cfg.Validate(); err != nil {
		log.Fatal(err)
	}

	analyzer, err := cfg.Analyzer.Build()
	if err != nil {
		log.Fatal(err)
	}

	tcpServer := tcpserver.NewServer(cfg.Server.Host, cfg.Server.Port, cfg.Server.Network,
		cfg.Server.DataDirectory, cfg.Server.Index, cfg.Server.Clean, analyzer)

	badgerStore, err := cfg.Storage.Open()
	if err != nil {
		log.Fatal(err)
	}
	if badgerStore != nil {
		defer func() {
			if err := badgerStore.Close(); err != nil {
				fmt.Printf("Error closing the store: %s\n", err.Error())
			}
		}()
		tcpServer.Store = badgerStore
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := tcpServer.InitializeServer(ctx); err != nil {
		log.Fatal(err)
	}

	if err := tcpServer.Listen(); err != nil {
		log.Fatal(err)
	}
	go func() {
		<-ctx.Done()
		if err := tcpServer.Close(); err != nil {
			fmt.Printf("Error closing the server: %s\n", err.Error())
		}
	}()

	if err := tcpServer.Serve(); err != nil {
		log.Fatal(err)
	}
}
