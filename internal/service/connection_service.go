package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"neo4j-explorer-backend/internal/model"
	"neo4j-explorer-backend/internal/pkg/cypher"
	"neo4j-explorer-backend/internal/pkg/events"
	"neo4j-explorer-backend/internal/pkg/gateway"
	"neo4j-explorer-backend/internal/pkg/inflight"
	"neo4j-explorer-backend/internal/pkg/logger"
	"neo4j-explorer-backend/internal/session"
	"neo4j-explorer-backend/internal/store"
	"neo4j-explorer-backend/pkg/utils"
)

const (
	OpConnect      = "connect"
	OpLogout       = "logout"
	OpNode         = "node"
	OpRelationship = "relationship"
)

type ConnectionService struct {
	gateway gateway.Gateway
	guard   *inflight.Guard
	hub     *events.Hub
	logger  *logger.Logger
}

func NewConnectionService(gw gateway.Gateway, guard *inflight.Guard, hub *events.Hub, logger *logger.Logger) *ConnectionService {
	return &ConnectionService{
		gateway: gw,
		guard:   guard,
		hub:     hub,
		logger:  logger,
	}
}

// Restore loads the client's state from kv. The database is not contacted.
func (s *ConnectionService) Restore(sessionID string, kv store.KV) *session.State {
	return session.Restore(sessionID, kv, s.logger.Logger)
}

// View reports the state as the client should render it; a pending
// connect shows as connecting.
func (s *ConnectionService) View(st *session.State) *model.SessionResponse {
	state := st.Status
	if s.guard.Busy(inflight.Key(st.ID, OpConnect)) {
		state = model.Connecting
	}
	return &model.SessionResponse{
		State:    state,
		URI:      st.Credentials.URI,
		Username: st.Credentials.Username,
		Labels:   st.Labels,
	}
}

// Connect lists the database's labels with creds and, on success, stores
// creds and labels together. On failure nothing is stored, st keeps its
// previous status and the returned error carries only the generic message.
func (s *ConnectionService) Connect(ctx context.Context, st *session.State, creds model.Credentials) ([]model.LabelEntry, error) {
	release, ok := s.guard.TryAcquire(inflight.Key(st.ID, OpConnect))
	if !ok {
		return nil, utils.NewBusyError()
	}
	defer release()

	opID := uuid.NewString()
	previous := st.Status
	st.Status = model.Connecting
	s.publish(st.ID, opID, OpConnect, model.Connecting, "")
	s.logger.ConnectAttempt(opID, creds.URI, creds.Username)

	labels, err := s.fetchLabels(ctx, creds)
	if err != nil {
		st.Status = previous
		s.logger.ConnectFailed(opID, creds.URI, err)
		s.publish(st.ID, opID, OpConnect, previous, utils.MsgConnectFailed)
		return nil, utils.NewConnectivityError(err)
	}

	if err := st.Save(creds, labels); err != nil {
		st.Status = previous
		s.logger.ConnectFailed(opID, creds.URI, err)
		s.publish(st.ID, opID, OpConnect, previous, utils.MsgConnectFailed)
		return nil, utils.NewSystemError(err)
	}

	s.logger.ConnectSucceeded(opID, creds.URI, len(labels))
	s.publish(st.ID, opID, OpConnect, model.Connected, "")
	return labels, nil
}

func (s *ConnectionService) fetchLabels(ctx context.Context, creds model.Credentials) ([]model.LabelEntry, error) {
	var labels []model.LabelEntry
	err := gateway.WithSession(ctx, s.gateway, creds, s.logger.Logger, func(sess gateway.Session) error {
		records, err := sess.Run(ctx, cypher.LabelsQuery, nil)
		if err != nil {
			return err
		}
		labels = make([]model.LabelEntry, 0, len(records))
		for _, rec := range records {
			value, ok := rec.Get("label")
			if !ok {
				return fmt.Errorf("label column missing from result")
			}
			labels = append(labels, model.LabelEntry{Label: labelText(value)})
		}
		return nil
	})
	return labels, err
}

// Logout clears the store and resets st. st is reset even if the store
// write fails.
func (s *ConnectionService) Logout(st *session.State) error {
	err := st.Clear()
	s.publish(st.ID, uuid.NewString(), OpLogout, model.Disconnected, "")
	if err != nil {
		s.logger.Error("logout could not clear the session store", zap.String("session", st.ID), zap.Error(err))
		return utils.NewSystemError(err)
	}
	s.logger.Info("session logged out", zap.String("session", st.ID))
	return nil
}

func (s *ConnectionService) publish(sessionID, opID, op string, state model.ConnectionState, message string) {
	s.hub.Publish(sessionID, events.Event{
		ID:        opID,
		Operation: op,
		State:     state.String(),
		Message:   message,
	})
}

func labelText(value any) string {
	if str, ok := value.(string); ok {
		return str
	}
	return fmt.Sprint(value)
}
