package main

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"sheetEngine/contracts"
	"sheetEngine/formulas"
	"sheetEngine/spreadsheet"
)

type ApiController struct {
	SheetRepository   contracts.SheetRepository
	WebhookDispatcher contracts.WebhookDispatcher
	Canonicalizer     contracts.Canonicalizer
}

type CellEndpointParams struct {
	SheetId string `uri:"sheet_id" binding:"required"`
	CellId  string `uri:"cell_id" binding:"required"`
}

type SheetEndpointParams struct {
	SheetId string `uri:"sheet_id" binding:"required"`
}

// SetCellRequest keeps Value nullable: a missing value is rejected rather
// than treated as an empty cell.
type SetCellRequest struct {
	Value *string `json:"value"`
}

type SetCellResponse struct {
	*contracts.Cell
	Updated contracts.CellList `json:"updated"`
}

type SubscribeRequest struct {
	WebhookUrl string `json:"webhook_url" binding:"required,url"`
}

func NewApiController(
	sheetRepository contracts.SheetRepository,
	webhookDispatcher contracts.WebhookDispatcher,
	canonicalizer contracts.Canonicalizer,
) *ApiController {
	return &ApiController{
		SheetRepository:   sheetRepository,
		WebhookDispatcher: webhookDispatcher,
		Canonicalizer:     canonicalizer,
	}
}

func (api *ApiController) GetCellAction(c *gin.Context) {
	params := CellEndpointParams{}
	var response *contracts.Cell

	err := c.ShouldBindUri(&params)

	if err == nil {
		response, err = api.SheetRepository.GetCell(params.SheetId, params.CellId)
	}

	if errors.Is(err, contracts.CellNotFoundError) || errors.Is(err, contracts.SheetNotFoundError) {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	} else if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	} else {
		c.JSON(http.StatusOK, response)
	}
}

func (api *ApiController) SetCellAction(c *gin.Context) {
	params := CellEndpointParams{}
	request := SetCellRequest{}

	err := c.ShouldBindUri(&params)
	if err == nil {
		err = c.ShouldBindJSON(&request)
	}
	if err == nil && request.Value == nil {
		err = fmt.Errorf("value: %w", spreadsheet.ErrNullContent)
	}

	if err != nil {
		c.JSON(http.StatusUnprocessableEntity, &contracts.Cell{Result: err.Error()})
		return
	}

	cell, updated, err := api.SheetRepository.SetCell(params.SheetId, params.CellId, *request.Value)
	if err != nil {
		c.JSON(setCellErrorStatus(err), &contracts.Cell{Value: *request.Value, Result: err.Error()})
		return
	}

	response := SetCellResponse{Cell: cell, Updated: contracts.CellList{}}
	for _, updatedCell := range updated {
		response.Updated[updatedCell.CanonicalKey] = updatedCell
	}

	c.JSON(http.StatusCreated, response)
}

func (api *ApiController) GetSheetAction(c *gin.Context) {
	params := SheetEndpointParams{}
	var response contracts.CellList

	err := c.ShouldBindUri(&params)

	if err == nil {
		response, err = api.SheetRepository.GetCellList(params.SheetId)
	}

	if errors.Is(err, contracts.SheetNotFoundError) {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	} else if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	} else {
		c.JSON(http.StatusOK, response)
	}
}

func (api *ApiController) SubscribeAction(c *gin.Context) {
	params := CellEndpointParams{}
	request := SubscribeRequest{}

	err := c.ShouldBindUri(&params)
	if err == nil {
		err = c.ShouldBindJSON(&request)
	}

	if err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		return
	}

	sheetId := api.Canonicalizer.CanonicalizeSheetId(params.SheetId)
	cellId := api.Canonicalizer.CanonicalizeCellId(params.CellId)
	api.WebhookDispatcher.SetWebhookUrl(sheetId, cellId, request.WebhookUrl)

	c.JSON(http.StatusCreated, gin.H{"webhook_url": request.WebhookUrl})
}

// Rejected edits are the client's fault; anything else failed in storage.
func setCellErrorStatus(err error) int {
	if errors.Is(err, formulas.ErrFormat) ||
		errors.Is(err, spreadsheet.ErrCircularDependency) ||
		errors.Is(err, spreadsheet.ErrInvalidName) {
		return http.StatusUnprocessableEntity
	}

	return http.StatusInternalServerError
}
