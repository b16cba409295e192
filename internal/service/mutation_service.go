package service

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"neo4j-explorer-backend/internal/model"
	"neo4j-explorer-backend/internal/pkg/cypher"
	"neo4j-explorer-backend/internal/pkg/events"
	"neo4j-explorer-backend/internal/pkg/gateway"
	"neo4j-explorer-backend/internal/pkg/inflight"
	"neo4j-explorer-backend/internal/pkg/logger"
	"neo4j-explorer-backend/internal/session"
	"neo4j-explorer-backend/pkg/utils"
)

// Mutation event states.
const (
	StateSubmitting = "submitting"
	StateSucceeded  = "succeeded"
	StateFailed     = "failed"
)

var errNoRecords = errors.New("query returned no records")

type MutationService struct {
	gateway gateway.Gateway
	guard   *inflight.Guard
	hub     *events.Hub
	logger  *logger.Logger
}

func NewMutationService(gw gateway.Gateway, guard *inflight.Guard, hub *events.Hub, logger *logger.Logger) *MutationService {
	return &MutationService{
		gateway: gw,
		guard:   guard,
		hub:     hub,
		logger:  logger,
	}
}

// SubmitNode creates one node. It returns the success message, or an
// *utils.APIError whose Message is what the user sees.
func (s *MutationService) SubmitNode(ctx context.Context, st *session.State, draft model.NodeDraft) (string, error) {
	if !st.Connected() {
		return "", utils.NewNotConnectedError()
	}
	if draft.Label == "" {
		return "", utils.NewValidationError(utils.MsgLabelRequired)
	}

	release, ok := s.guard.TryAcquire(inflight.Key(st.ID, OpNode))
	if !ok {
		return "", utils.NewBusyError()
	}
	defer release()

	opID := uuid.NewString()
	s.publish(st.ID, opID, OpNode, StateSubmitting, "")

	props, err := cypher.ParseProperties(draft.Properties)
	if err != nil {
		return "", s.fail(st.ID, opID, model.MutationNode, utils.NewMutationError(err))
	}
	query, params, err := cypher.NodeQuery(draft.Label, props)
	if err != nil {
		return "", s.fail(st.ID, opID, model.MutationNode, utils.NewMutationError(err))
	}

	return s.execute(ctx, st, opID, model.MutationNode, query, params)
}

// SubmitRelationship links the nodes matched by the start and end
// label/property pairs. All five fields are required.
func (s *MutationService) SubmitRelationship(ctx context.Context, st *session.State, draft model.RelationshipDraft) (string, error) {
	if !st.Connected() {
		return "", utils.NewNotConnectedError()
	}
	if !utils.AllNonEmpty(draft.Type, draft.StartLabel, draft.StartProperties, draft.EndLabel, draft.EndProperties) {
		return "", utils.NewValidationError(utils.MsgFillAllFields)
	}

	release, ok := s.guard.TryAcquire(inflight.Key(st.ID, OpRelationship))
	if !ok {
		return "", utils.NewBusyError()
	}
	defer release()

	opID := uuid.NewString()
	s.publish(st.ID, opID, OpRelationship, StateSubmitting, "")

	startProps, err := cypher.ParseProperties(draft.StartProperties)
	if err != nil {
		return "", s.fail(st.ID, opID, model.MutationRelationship, utils.NewMutationError(err))
	}
	endProps, err := cypher.ParseProperties(draft.EndProperties)
	if err != nil {
		return "", s.fail(st.ID, opID, model.MutationRelationship, utils.NewMutationError(err))
	}
	query, params, err := cypher.RelationshipQuery(draft.Type, draft.StartLabel, startProps, draft.EndLabel, endProps)
	if err != nil {
		return "", s.fail(st.ID, opID, model.MutationRelationship, utils.NewMutationError(err))
	}

	return s.execute(ctx, st, opID, model.MutationRelationship, query, params)
}

// execute runs query in its own session. Success means at least one
// record came back; the records themselves are discarded.
func (s *MutationService) execute(ctx context.Context, st *session.State, opID string, kind model.MutationKind, query string, params map[string]any) (string, error) {
	var count int
	err := gateway.WithSession(ctx, s.gateway, st.Credentials, s.logger.Logger, func(sess gateway.Session) error {
		records, err := sess.Run(ctx, query, params)
		count = len(records)
		return err
	})
	if err != nil {
		return "", s.fail(st.ID, opID, kind, utils.NewMutationError(err))
	}
	if count == 0 {
		s.logger.Warn("mutation matched nothing",
			zap.String("op", opID),
			zap.String("kind", string(kind)),
			zap.Error(errNoRecords),
		)
		return "", s.fail(st.ID, opID, kind, utils.NewMutationEmptyError())
	}

	s.logger.MutationSucceeded(opID, string(kind))
	s.publish(st.ID, opID, string(kind), StateSucceeded, utils.MsgAdded)
	return utils.MsgAdded, nil
}

func (s *MutationService) fail(sessionID, opID string, kind model.MutationKind, apiErr *utils.APIError) error {
	if apiErr.Code == utils.CodeMutationException {
		s.logger.MutationFailed(opID, string(kind), apiErr)
	}
	s.publish(sessionID, opID, string(kind), StateFailed, apiErr.Message)
	return apiErr
}

func (s *MutationService) publish(sessionID, opID, op, state, message string) {
	s.hub.Publish(sessionID, events.Event{
		ID:        opID,
		Operation: op,
		State:     state,
		Message:   message,
	})
}
