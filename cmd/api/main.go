package main

import (
	"flag"
	"fmt"
	"log"
	"net/http"

	"github.com/xkmsoft/stemsearch/pkg/apiserver"
	"github.com/xkmsoft/stemsearch/pkg/config"
	"github.com/xkmsoft/stemsearch/pkg/tcpclient"
)

func main() {
	configPath := flag.String("config", "", "YAML configuration file (defaults to $STEMSEARCH_CONFIG)")
	port := flag.Int("port", 0, "port")
	flag.Parse()

	if err := config.LoadEnv(); err != nil {
		log.Fatal(err)
	}
	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatal(err)
	}
	if *port != 0 {
		cfg.API.Port = *port
	}

	client := tcpclient.NewTCPClient(cfg.Server.Host, cfg.Server.Port, cfg.Server.Network)
	router := apiserver.NewRouter(apiserver.NewHandler(client))

	fmt.Printf("API listening connection on :%d\n", cfg.API.Port)
	log.Fatal(http.ListenAndServe(fmt.Sprintf(":%d", cfg.API.Port), router))
}
