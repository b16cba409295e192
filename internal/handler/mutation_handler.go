package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"neo4j-explorer-backend/internal/model"
	"neo4j-explorer-backend/internal/service"
	"neo4j-explorer-backend/pkg/utils"
)

type MutationHandler struct {
	connections *service.ConnectionService
	mutations   *service.MutationService
}

func NewMutationHandler(connections *service.ConnectionService, mutations *service.MutationService) *MutationHandler {
	return &MutationHandler{
		connections: connections,
		mutations:   mutations,
	}
}

func (h *MutationHandler) CreateNode(c *gin.Context) {
	var req model.NodeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c)
		return
	}

	st := clientState(c, h.connections)
	msg, err := h.mutations.SubmitNode(c.Request.Context(), st, req.Draft())
	respondMutation(c, model.MutationNode, msg, err)
}

func (h *MutationHandler) CreateRelationship(c *gin.Context) {
	var req model.RelationshipRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c)
		return
	}

	st := clientState(c, h.connections)
	msg, err := h.mutations.SubmitRelationship(c.Request.Context(), st, req.Draft())
	respondMutation(c, model.MutationRelationship, msg, err)
}

// respondMutation reports form outcomes in a MutationResponse; busy and
// not-connected use the generic error body.
func respondMutation(c *gin.Context, kind model.MutationKind, msg string, err error) {
	if err == nil {
		c.JSON(http.StatusOK, model.MutationResponse{Success: true, Kind: kind, Message: msg})
		return
	}

	apiErr := asAPIError(err)
	switch apiErr.Code {
	case utils.CodeValidation, utils.CodeMutationEmpty, utils.CodeMutationException:
		c.JSON(statusFor(apiErr.Code), model.MutationResponse{
			Success: false,
			Kind:    kind,
			Message: apiErr.Message,
		})
	default:
		respondError(c, apiErr)
	}
}
