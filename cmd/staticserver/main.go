package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/kelseyhightower/envconfig"
	"github.com/smartystreets/staticserver"
)

type settings struct {
	Port            int           `envconfig:"PORT" default:"8080"`
	MaxBindAttempts int           `envconfig:"MAX_BIND_ATTEMPTS" default:"10"`
	BindRetryDelay  time.Duration `envconfig:"BIND_RETRY_DELAY" default:"1s"`
	RootDir         string        `envconfig:"ROOT_DIR" default:"."`
}

func main() {
	logger := log.New(os.Stdout, "[server] ", 0)

	var config settings
	if err := envconfig.Process("", &config); err != nil {
		logger.Printf("[ERROR] Unable to process environment: [%s]", err)
		os.Exit(1)
	}

	flag.IntVar(&config.Port, "port", config.Port, "The TCP port to listen on.")
	flag.IntVar(&config.MaxBindAttempts, "attempts", config.MaxBindAttempts, "The maximum number of bind attempts before giving up.")
	flag.DurationVar(&config.BindRetryDelay, "delay", config.BindRetryDelay, "The delay between bind attempts.")
	flag.StringVar(&config.RootDir, "root", config.RootDir, "The directory from which files are served.")
	flag.Parse()

	server := staticserver.New(
		staticserver.Options.ListenAddress(fmt.Sprintf(":%d", config.Port)),
		staticserver.Options.MaxBindAttempts(config.MaxBindAttempts),
		staticserver.Options.BindRetryDelay(config.BindRetryDelay),
		staticserver.Options.Handler(staticserver.StaticHandler(config.RootDir)),
		staticserver.Options.Logger(logger),
	)

	if err := server.Listen(); err != nil {
		os.Exit(1) // bind retries exhausted; the failure was already logged
	}
}
