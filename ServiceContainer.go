package main

import (
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"go.etcd.io/bbolt"
	"sheetEngine/contracts"
	"sheetEngine/spreadsheet"
)

type ServiceContainer struct {
	Database          *bbolt.DB
	Logger            logrus.FieldLogger
	Metrics           *Metrics
	ApiController     contracts.ApiController
	SheetRepository   contracts.SheetRepository
	WebhookDispatcher contracts.WebhookDispatcher
	Router            *gin.Engine
}

func BuildServiceContainer(config Config, logger logrus.FieldLogger) (container ServiceContainer, err error) {
	container.Database, err = bbolt.Open(config.DatabaseFilepath, 0600, nil)
	if err != nil {
		return
	}

	sheetOptions := make([]spreadsheet.Option, 0)
	if config.CellNamePattern != nil {
		sheetOptions = append(sheetOptions, spreadsheet.WithNamePattern(config.CellNamePattern))
	}

	serializer := NewCellBinarySerializer()
	canonicalizer := NewCanonicalizer()

	container.Logger = logger
	container.Metrics = NewMetrics()
	container.WebhookDispatcher = NewWebhookDispatcher(logger)
	container.SheetRepository = NewSheetRepository(
		container.Database, serializer, canonicalizer,
		container.WebhookDispatcher, container.Metrics, logger,
		sheetOptions...,
	)
	container.ApiController = NewApiController(container.SheetRepository, container.WebhookDispatcher, canonicalizer)

	container.Router = SetupRouter(container.ApiController, container.Metrics.Handler(), logger)

	return
}
