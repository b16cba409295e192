package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"neo4j-explorer-backend/internal/model"
	"neo4j-explorer-backend/internal/service"
	"neo4j-explorer-backend/pkg/utils"
)

type ConnectionHandler struct {
	connections *service.ConnectionService
}

func NewConnectionHandler(connections *service.ConnectionService) *ConnectionHandler {
	return &ConnectionHandler{
		connections: connections,
	}
}

// Session returns the restored state. The password is never echoed.
func (h *ConnectionHandler) Session(c *gin.Context) {
	st := clientState(c, h.connections)
	c.JSON(http.StatusOK, h.connections.View(st))
}

func (h *ConnectionHandler) Connect(c *gin.Context) {
	var req model.ConnectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c)
		return
	}

	st := clientState(c, h.connections)
	creds := model.Credentials{URI: req.URI, Username: req.Username, Password: req.Password}

	labels, err := h.connections.Connect(c.Request.Context(), st, creds)
	if err != nil {
		apiErr := asAPIError(err)
		if apiErr.Code != utils.CodeConnectivity {
			respondError(c, apiErr)
			return
		}
		c.JSON(http.StatusOK, model.ConnectResponse{
			Success: false,
			State:   st.Status,
			Labels:  []model.LabelEntry{},
			Message: apiErr.Message,
		})
		return
	}

	c.JSON(http.StatusOK, model.ConnectResponse{
		Success: true,
		State:   st.Status,
		Labels:  labels,
	})
}

func (h *ConnectionHandler) Logout(c *gin.Context) {
	st := clientState(c, h.connections)
	if err := h.connections.Logout(st); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, h.connections.View(st))
}
