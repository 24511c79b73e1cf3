package main

import (
	"errors"
	"fmt"
	"os"
	"regexp"

	"github.com/sirupsen/logrus"
)

const DefaultListenAddr = ":8080"

var ConfigError = errors.New("invalid configuration")

type Config struct {
	DatabaseFilepath string
	ListenAddr       string
	LogLevel         logrus.Level
	// CellNamePattern further restricts cell names; nil accepts every name.
	CellNamePattern *regexp.Regexp
}

// LoadConfig reads the service configuration from the environment.
func LoadConfig(getenv func(string) string) (config Config, err error) {
	if getenv == nil {
		getenv = os.Getenv
	}

	config.DatabaseFilepath = getenv("DATABASE_FILEPATH")
	if config.DatabaseFilepath == "" {
		return config, fmt.Errorf("DATABASE_FILEPATH is empty: %w", ConfigError)
	}

	config.ListenAddr = getenv("LISTEN_ADDR")
	if config.ListenAddr == "" {
		config.ListenAddr = DefaultListenAddr
	}

	config.LogLevel = logrus.InfoLevel
	if level := getenv("LOG_LEVEL"); level != "" {
		config.LogLevel, err = logrus.ParseLevel(level)
		if err != nil {
			return config, fmt.Errorf("LOG_LEVEL: %w: %s", ConfigError, err)
		}
	}

	if pattern := getenv("CELL_NAME_PATTERN"); pattern != "" {
		config.CellNamePattern, err = regexp.Compile(pattern)
		if err != nil {
			return config, fmt.Errorf("CELL_NAME_PATTERN: %w: %s", ConfigError, err)
		}
	}

	return config, nil
}

func NewLogger(config Config) *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(os.Stderr)
	logger.SetLevel(config.LogLevel)
	logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})

	return logger
}
