package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"neo4j-explorer-backend/internal/model"
	"neo4j-explorer-backend/internal/service"
	"neo4j-explorer-backend/internal/session"
	"neo4j-explorer-backend/internal/store"
	"neo4j-explorer-backend/pkg/utils"
)

const (
	ctxClientID = "explorer.client_id"
	ctxKV       = "explorer.kv"
)

func clientID(c *gin.Context) string {
	return c.GetString(ctxClientID)
}

func clientState(c *gin.Context, connections *service.ConnectionService) *session.State {
	return connections.Restore(clientID(c), c.MustGet(ctxKV).(store.KV))
}

func statusFor(code int) int {
	switch code {
	case utils.CodeValidation:
		return http.StatusBadRequest
	case utils.CodeNotConnected:
		return http.StatusUnauthorized
	case utils.CodeBusy:
		return http.StatusConflict
	case utils.CodeSystem:
		return http.StatusInternalServerError
	default:
		return http.StatusOK
	}
}

func asAPIError(err error) *utils.APIError {
	var apiErr *utils.APIError
	if errors.As(err, &apiErr) {
		return apiErr
	}
	return utils.NewSystemError(err)
}

func respondError(c *gin.Context, err error) {
	apiErr := asAPIError(err)
	c.JSON(statusFor(apiErr.Code), model.ErrorResponse{
		Success: false,
		Code:    apiErr.Code,
		Message: apiErr.Message,
	})
}

func respondBadRequest(c *gin.Context) {
	c.JSON(http.StatusBadRequest, model.ErrorResponse{
		Success: false,
		Code:    utils.CodeValidation,
		Message: "Invalid request payload",
	})
}
