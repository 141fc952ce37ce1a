package main

import (
	"log"
	"os"

	"github.com/damianiandrea/go-waitfor/internal/config"
	"github.com/damianiandrea/go-waitfor/internal/waitfor"
)

const defaultConfigFileName = "waitfor.yaml"

func main() {
	configFileName, found := os.LookupEnv("CONFIG_FILE")
	if !found {
		configFileName = defaultConfigFileName
	}
	cfg, err := config.Load(configFileName)
	if err != nil {
		log.Fatalf("error while loading config: %v", err)
	}
	app, err := waitfor.New(cfg)
	if err != nil {
		log.Fatalf("error while creating waitfor: %v", err)
	}
	if err = app.Run(); err != nil {
		log.Fatalf("exiting: %v", err)
	}
}
