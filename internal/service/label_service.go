package service

import (
	"go.uber.org/zap"

	"neo4j-explorer-backend/internal/model"
	"neo4j-explorer-backend/internal/pkg/logger"
	"neo4j-explorer-backend/internal/session"
	"neo4j-explorer-backend/pkg/utils"
)

// LabelService projects the cached labels; it never queries the database.
type LabelService struct {
	logger *logger.Logger
}

func NewLabelService(logger *logger.Logger) *LabelService {
	return &LabelService{logger: logger}
}

func (s *LabelService) List(st *session.State) ([]model.LabelEntry, error) {
	if !st.Connected() {
		return nil, utils.NewNotConnectedError()
	}
	return st.Labels, nil
}

// Select builds the payload the query tester screen is opened with.
func (s *LabelService) Select(st *session.State, label string) (*model.Handoff, error) {
	if !st.Connected() {
		return nil, utils.NewNotConnectedError()
	}

	entry, ok := st.FindLabel(label)
	if !ok {
		return nil, utils.NewValidationError(utils.MsgUnknownLabel)
	}

	s.logger.Debug("label selected", zap.String("session", st.ID), zap.String("label", entry.Label))
	return &model.Handoff{
		SelectedNode: entry,
		URI:          st.Credentials.URI,
		Username:     st.Credentials.Username,
		Password:     st.Credentials.Password,
	}, nil
}
