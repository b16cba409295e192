package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/sessions"
	"go.uber.org/zap"

	"neo4j-explorer-backend/internal/config"
	"neo4j-explorer-backend/internal/model"
	"neo4j-explorer-backend/internal/pkg/logger"
	"neo4j-explorer-backend/internal/store"
	"neo4j-explorer-backend/pkg/utils"
)

// ClientCookie identifies a browser across requests. It survives logout,
// unlike the session store contents.
const ClientCookie = "explorer_client"

// SessionMiddleware attaches the client id and the client's store.KV to
// the request.
func SessionMiddleware(backend sessions.Store, cfg config.SessionConfig, log *logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := c.Cookie(ClientCookie)
		if _, perr := uuid.Parse(id); err != nil || perr != nil {
			id = uuid.NewString()
			c.SetSameSite(http.SameSiteLaxMode)
			c.SetCookie(ClientCookie, id, cfg.MaxAge, "/", "", cfg.Secure, true)
		}

		// gorilla returns a fresh session alongside decode errors
		sess, err := backend.Get(c.Request, cfg.Name)
		if err != nil {
			log.Warn("discarding unreadable session cookie", zap.String("client", id), zap.Error(err))
		}
		if sess == nil {
			c.AbortWithStatusJSON(http.StatusInternalServerError, model.ErrorResponse{
				Success: false,
				Code:    utils.CodeSystem,
				Message: utils.MsgInternal,
			})
			return
		}

		c.Set(ctxClientID, id)
		c.Set(ctxKV, store.NewSession(sess, c.Request, c.Writer))
		c.Next()
	}
}

// RequestLogger logs one line per request through zap.
func RequestLogger(log *logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		log.Info("request",
			zap.String("method", c.Request.Method),
			zap.String("path", c.FullPath()),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", time.Since(start)),
			zap.String("client", c.GetString(ctxClientID)),
		)
	}
}
