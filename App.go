package main

import (
	"fmt"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
)

const ExitCodeMainError = 1

func RunApp() error {
	gin.SetMode(gin.ReleaseMode)

	config, err := LoadConfig(nil)
	if err != nil {
		return err
	}

	logger := NewLogger(config)

	serviceContainer, err := BuildServiceContainer(config, logger)
	if err != nil {
		return err
	}

	serviceContainer.WebhookDispatcher.Start()
	defer serviceContainer.WebhookDispatcher.Close()
	defer serviceContainer.Database.Close()

	logger.WithField("addr", config.ListenAddr).WithField("database", config.DatabaseFilepath).Info("listening")

	return http.ListenAndServe(config.ListenAddr, serviceContainer.Router)
}

func HandleExitError(errStream io.Writer, err error) int {
	if err != nil {
		_, _ = fmt.Fprintln(errStream, err)
	}

	if err != nil {
		return ExitCodeMainError
	}

	return 0
}
