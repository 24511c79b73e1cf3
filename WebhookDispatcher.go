package main

import (
	"bytes"
	"net/http"
	"sync"
	"time"

	json "github.com/bytedance/sonic"
	"github.com/sirupsen/logrus"
	"sheetEngine/contracts"
)

const WebhookWorkersCount = 5

const webhookQueueSize = 20

const webhookTimeout = time.Second * 5

type SheetWebhooks map[string]string

type WebhookSendCommand struct {
	Webhook string
	Payload WebhookPayload
}

// WebhookPayload is posted to a subscriber whenever its cell is recalculated.
type WebhookPayload struct {
	SheetId string `json:"sheet_id"`
	CellId  string `json:"cell_id"`
	Value   string `json:"value"`
	Result  string `json:"result"`
}

type WebhookDispatcher struct {
	queue    chan WebhookSendCommand
	mutex    sync.RWMutex
	webhooks map[string]SheetWebhooks
	client   *http.Client
	logger   logrus.FieldLogger
}

func NewWebhookDispatcher(logger logrus.FieldLogger) *WebhookDispatcher {
	return &WebhookDispatcher{
		queue:    make(chan WebhookSendCommand, webhookQueueSize),
		webhooks: map[string]SheetWebhooks{},
		client:   &http.Client{Timeout: webhookTimeout},
		logger:   logger,
	}
}

// SetWebhookUrl subscribes webhookUrl to a cell; an empty url unsubscribes.
func (manager *WebhookDispatcher) SetWebhookUrl(canonicalSheetId string, canonicalCellId string, webhookUrl string) {
	manager.mutex.Lock()
	defer manager.mutex.Unlock()

	if _, ok := manager.webhooks[canonicalSheetId]; !ok {
		manager.webhooks[canonicalSheetId] = SheetWebhooks{}
	}

	if webhookUrl == "" {
		delete(manager.webhooks[canonicalSheetId], canonicalCellId)
	} else {
		manager.webhooks[canonicalSheetId][canonicalCellId] = webhookUrl
	}
}

func (manager *WebhookDispatcher) GetWebhookUrl(canonicalSheetId string, canonicalCellId string) string {
	manager.mutex.RLock()
	defer manager.mutex.RUnlock()

	return manager.webhooks[canonicalSheetId][canonicalCellId]
}

func (manager *WebhookDispatcher) Notify(canonicalSheetId string, cells []*contracts.Cell) {
	commands := manager.makeCommands(canonicalSheetId, cells)
	if len(commands) == 0 {
		return
	}

	go manager.addToQueue(commands)
}

func (manager *WebhookDispatcher) makeCommands(canonicalSheetId string, cells []*contracts.Cell) []WebhookSendCommand {
	manager.mutex.RLock()
	defer manager.mutex.RUnlock()

	sheetWebhooks, ok := manager.webhooks[canonicalSheetId]
	if !ok {
		return nil
	}

	commands := make([]WebhookSendCommand, 0)
	for _, cell := range cells {
		if webhook, ok := sheetWebhooks[cell.CanonicalKey]; ok {
			commands = append(commands, WebhookSendCommand{
				Webhook: webhook,
				Payload: WebhookPayload{
					SheetId: canonicalSheetId,
					CellId:  cell.CanonicalKey,
					Value:   cell.Value,
					Result:  cell.Result,
				},
			})
		}
	}

	return commands
}

func (manager *WebhookDispatcher) addToQueue(commands []WebhookSendCommand) {
	for _, command := range commands {
		manager.queue <- command
	}
}

func (manager *WebhookDispatcher) Start() {
	for i := 0; i < WebhookWorkersCount; i++ {
		go manager.runWebhookSenderWorker()
	}
}

func (manager *WebhookDispatcher) Close() {
	close(manager.queue)
}

func (manager *WebhookDispatcher) runWebhookSenderWorker() {
	for command := range manager.queue {
		manager.send(command)
	}
}

func (manager *WebhookDispatcher) send(command WebhookSendCommand) {
	log := manager.logger.WithField("webhook", command.Webhook).
		WithField("sheet", command.Payload.SheetId).
		WithField("cell", command.Payload.CellId)

	payload, err := json.Marshal(command.Payload)
	if err != nil {
		log.WithError(err).Error("encode webhook payload")
		return
	}

	response, err := manager.client.Post(command.Webhook, "application/json", bytes.NewBuffer(payload))
	if err != nil {
		log.WithError(err).Warn("webhook send error")
		return
	}
	_ = response.Body.Close()

	if response.StatusCode >= 300 {
		log.WithField("status", response.Status).Warn("unexpected webhook response")
	}
}
