package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"neo4j-explorer-backend/internal/model"
	"neo4j-explorer-backend/internal/service"
)

type LabelHandler struct {
	connections *service.ConnectionService
	labels      *service.LabelService
}

func NewLabelHandler(connections *service.ConnectionService, labels *service.LabelService) *LabelHandler {
	return &LabelHandler{
		connections: connections,
		labels:      labels,
	}
}

func (h *LabelHandler) List(c *gin.Context) {
	entries, err := h.labels.List(clientState(c, h.connections))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, entries)
}

func (h *LabelHandler) Select(c *gin.Context) {
	var req model.SelectLabelRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c)
		return
	}

	handoff, err := h.labels.Select(clientState(c, h.connections), req.Label)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, handoff)
}
