package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"neo4j-explorer-backend/internal/model"
	"neo4j-explorer-backend/internal/pkg/events"
	"neo4j-explorer-backend/internal/pkg/gateway"
	"neo4j-explorer-backend/internal/pkg/inflight"
	"neo4j-explorer-backend/internal/pkg/logger"
	"neo4j-explorer-backend/internal/session"
	"neo4j-explorer-backend/internal/store"
	"neo4j-explorer-backend/pkg/utils"
)

var testCreds = model.Credentials{URI: "bolt://h", Username: "u", Password: "p"}

type fixture struct {
	stub        *gateway.Stub
	hub         *events.Hub
	logs        *observer.ObservedLogs
	connections *ConnectionService
	mutations   *MutationService
	labels      *LabelService
}

func newFixture(records ...gateway.Record) *fixture {
	core, logs := observer.New(zapcore.DebugLevel)
	log := logger.New(zap.New(core))
	stub := gateway.NewStub(records...)
	guard := inflight.NewGuard()
	hub := events.NewHub()

	return &fixture{
		stub:        stub,
		hub:         hub,
		logs:        logs,
		connections: NewConnectionService(stub, guard, hub, log),
		mutations:   NewMutationService(stub, guard, hub, log),
		labels:      NewLabelService(log),
	}
}

func connectedState(t *testing.T, labels ...string) (*session.State, *store.Memory) {
	t.Helper()
	kv := store.NewMemory()
	st := session.Restore("sid", kv, zap.NewNop())
	entries := make([]model.LabelEntry, 0, len(labels))
	for _, l := range labels {
		entries = append(entries, model.LabelEntry{Label: l})
	}
	require.NoError(t, st.Save(testCreds, entries))
	return st, kv
}

func apiCode(t *testing.T, err error) int {
	t.Helper()
	var apiErr *utils.APIError
	require.ErrorAs(t, err, &apiErr)
	return apiErr.Code
}

func TestConnectListsLabelsInOrder(t *testing.T) {
	f := newFixture(gateway.LabelRecords("Person", "Movie", "Person")...)
	kv := store.NewMemory()
	st := f.connections.Restore("sid", kv)

	labels, err := f.connections.Connect(context.Background(), st, testCreds)
	require.NoError(t, err)

	want := []model.LabelEntry{{Label: "Person"}, {Label: "Movie"}, {Label: "Person"}}
	assert.Equal(t, want, labels)
	assert.Equal(t, model.Connected, st.Status)
	assert.Equal(t, want, st.Labels)
	for _, key := range store.Keys {
		_, ok := kv.Get(key)
		assert.True(t, ok, key)
	}

	require.Len(t, f.stub.Queries(), 1)
	assert.Equal(t, "CALL db.labels() YIELD label RETURN label", f.stub.Queries()[0].Text)
	assert.Equal(t, 1, f.stub.Opens())
	assert.Equal(t, 1, f.stub.Closes())
}

func TestConnectUsesCredentialsVerbatim(t *testing.T) {
	f := newFixture()
	st := f.connections.Restore("sid", store.NewMemory())
	creds := model.Credentials{URI: " neo4j+s://example.com ", Username: " neo4j", Password: "pw "}

	labels, err := f.connections.Connect(context.Background(), st, creds)
	require.NoError(t, err)
	assert.Empty(t, labels)
	assert.Equal(t, []model.Credentials{creds}, f.stub.Credentials())
	assert.Equal(t, model.Connected, st.Status)
}

func TestConnectFailureStoresNothing(t *testing.T) {
	tests := []struct {
		name    string
		openErr error
		runErr  error
		closes  int
	}{
		{"run fails", nil, errors.New("Neo.ClientError.Security.Unauthorized"), 1},
		{"open fails", errors.New("malformed uri"), nil, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture()
			f.stub.OpenErr = tt.openErr
			f.stub.RunErr = tt.runErr
			kv := store.NewMemory()
			st := f.connections.Restore("sid", kv)

			_, err := f.connections.Connect(context.Background(), st, testCreds)
			require.Error(t, err)

			var apiErr *utils.APIError
			require.ErrorAs(t, err, &apiErr)
			assert.Equal(t, utils.CodeConnectivity, apiErr.Code)
			assert.Equal(t, utils.MsgConnectFailed, apiErr.Message)
			assert.Equal(t, model.Disconnected, st.Status)
			assert.Equal(t, 0, kv.Len())
			assert.Equal(t, tt.closes, f.stub.Closes())

			cause := tt.runErr
			if cause == nil {
				cause = tt.openErr
			}
			assert.NotContains(t, apiErr.Message, cause.Error())
			failures := f.logs.FilterMessage("connection failed").All()
			require.Len(t, failures, 1)
			assert.Contains(t, failures[0].ContextMap()["error"], cause.Error())
		})
	}
}

func TestFailedReconnectKeepsExistingConnection(t *testing.T) {
	f := newFixture()
	f.stub.OpenErr = errors.New("connection refused")
	st, kv := connectedState(t, "Person")

	other := model.Credentials{URI: "bolt://other", Username: "x", Password: "y"}
	_, err := f.connections.Connect(context.Background(), st, other)
	assert.Equal(t, utils.CodeConnectivity, apiCode(t, err))

	assert.Equal(t, model.Connected, st.Status)
	assert.Equal(t, model.Connected, f.connections.View(st).State)

	restored := f.connections.Restore("sid", kv)
	assert.Equal(t, model.Connected, restored.Status)
	assert.Equal(t, testCreds, restored.Credentials)
}

func TestConnectRejectsConcurrentAttempt(t *testing.T) {
	f := newFixture(gateway.LabelRecords("Person")...)
	f.stub.Release = make(chan struct{})
	st := f.connections.Restore("sid", store.NewMemory())

	done := make(chan error, 1)
	go func() {
		_, err := f.connections.Connect(context.Background(), st, testCreds)
		done <- err
	}()
	<-f.stub.Started()

	second := f.connections.Restore("sid", store.NewMemory())
	assert.Equal(t, model.Connecting, f.connections.View(second).State)
	_, err := f.connections.Connect(context.Background(), second, testCreds)
	assert.Equal(t, utils.CodeBusy, apiCode(t, err))

	close(f.stub.Release)
	require.NoError(t, <-done)
	assert.Equal(t, 1, f.stub.Attempts())
	assert.Equal(t, model.Connected, f.connections.View(st).State)
}

func TestConnectPublishesTransitions(t *testing.T) {
	f := newFixture(gateway.LabelRecords("Person")...)
	ch, cancel := f.hub.Subscribe("sid")
	defer cancel()
	st := f.connections.Restore("sid", store.NewMemory())

	_, err := f.connections.Connect(context.Background(), st, testCreds)
	require.NoError(t, err)

	first, second := <-ch, <-ch
	assert.Equal(t, "connecting", first.State)
	assert.Equal(t, "connected", second.State)
	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, OpConnect, second.Operation)
}

func TestRestoreCachedStateWithoutGatewayCall(t *testing.T) {
	f := newFixture()
	kv := store.NewMemory()
	require.NoError(t, kv.SetAll(map[string]string{
		store.KeyURI:      "bolt://h",
		store.KeyUsername: "u",
		store.KeyPassword: "p",
		store.KeyNodes:    `[{"label":"Person"}]`,
	}))

	st := f.connections.Restore("sid", kv)
	assert.Equal(t, model.Connected, st.Status)
	assert.Equal(t, []model.LabelEntry{{Label: "Person"}}, st.Labels)
	assert.Equal(t, 0, f.stub.Attempts())
}

func TestLogoutThenRestore(t *testing.T) {
	f := newFixture()
	st, kv := connectedState(t, "Person")

	require.NoError(t, f.connections.Logout(st))
	assert.Equal(t, model.Disconnected, st.Status)
	assert.Equal(t, model.Credentials{}, st.Credentials)
	assert.Empty(t, st.Labels)

	reloaded := f.connections.Restore("sid", kv)
	view := f.connections.View(reloaded)
	assert.Equal(t, model.Disconnected, view.State)
	assert.Empty(t, view.URI)
	assert.Empty(t, view.Labels)
}

func TestLabelSelectHandsOffCredentials(t *testing.T) {
	f := newFixture()
	st, _ := connectedState(t, "Person", "Movie")

	handoff, err := f.labels.Select(st, "Movie")
	require.NoError(t, err)
	assert.Equal(t, &model.Handoff{
		SelectedNode: model.LabelEntry{Label: "Movie"},
		URI:          "bolt://h",
		Username:     "u",
		Password:     "p",
	}, handoff)
	assert.Equal(t, 0, f.stub.Attempts())

	_, err = f.labels.Select(st, "Nope")
	assert.Equal(t, utils.CodeValidation, apiCode(t, err))
}

func TestLabelsRequireConnection(t *testing.T) {
	f := newFixture()
	st := f.connections.Restore("sid", store.NewMemory())

	_, err := f.labels.List(st)
	assert.Equal(t, utils.CodeNotConnected, apiCode(t, err))
	_, err = f.labels.Select(st, "Person")
	assert.Equal(t, utils.CodeNotConnected, apiCode(t, err))
}

func TestSubmitNodeRequiresLabel(t *testing.T) {
	f := newFixture()
	st, _ := connectedState(t)

	_, err := f.mutations.SubmitNode(context.Background(), st, model.NodeDraft{Label: "", Properties: "x:1"})
	require.Error(t, err)

	var apiErr *utils.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, utils.CodeValidation, apiErr.Code)
	assert.Equal(t, utils.MsgLabelRequired, apiErr.Message)
	assert.Equal(t, 0, f.stub.Attempts())
}

func TestSubmitNodeOutcomes(t *testing.T) {
	tests := []struct {
		name    string
		records []gateway.Record
		runErr  error
		message string
		code    int
	}{
		{"one record", []gateway.Record{{Keys: []string{"n"}, Values: []any{"node"}}}, nil, utils.MsgAdded, 0},
		{"no records", nil, nil, utils.MsgAddFailed, utils.CodeMutationEmpty},
		{"driver error", nil, errors.New("Neo.ClientError.Statement.SyntaxError"), utils.MsgAddError, utils.CodeMutationException},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(tt.records...)
			f.stub.RunErr = tt.runErr
			st, _ := connectedState(t)

			msg, err := f.mutations.SubmitNode(context.Background(), st, model.NodeDraft{Label: "Person", Properties: "name:'A'"})
			if tt.code == 0 {
				require.NoError(t, err)
				assert.Equal(t, tt.message, msg)
			} else {
				var apiErr *utils.APIError
				require.ErrorAs(t, err, &apiErr)
				assert.Equal(t, tt.code, apiErr.Code)
				assert.Equal(t, tt.message, apiErr.Message)
			}

			assert.Equal(t, 1, f.stub.Opens())
			assert.Equal(t, 1, f.stub.Closes())
			assert.Equal(t, []model.Credentials{testCreds}, f.stub.Credentials())
			require.Len(t, f.stub.Queries(), 1)
			assert.NotContains(t, f.stub.Queries()[0].Text, "'A'")
		})
	}
}

func TestSubmitNodeLogsDriverErrorOnly(t *testing.T) {
	f := newFixture()
	f.stub.RunErr = errors.New("Neo.ClientError.Statement.SyntaxError")
	st, _ := connectedState(t)

	_, err := f.mutations.SubmitNode(context.Background(), st, model.NodeDraft{Label: "Person"})
	require.Error(t, err)

	var apiErr *utils.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.NotContains(t, apiErr.Message, "SyntaxError")

	logged := f.logs.FilterMessage("mutation failed").All()
	require.Len(t, logged, 1)
	assert.Contains(t, logged[0].ContextMap()["error"], "SyntaxError")
}

func TestSubmitNodeMalformedProperties(t *testing.T) {
	f := newFixture()
	st, _ := connectedState(t)

	for _, props := range []string{"name: 'unterminated", "name: 'A'}) DETACH DELETE (m", "a: 1}, {b: 2", "name: Ann"} {
		_, err := f.mutations.SubmitNode(context.Background(), st, model.NodeDraft{Label: "Person", Properties: props})
		var apiErr *utils.APIError
		require.ErrorAs(t, err, &apiErr)
		assert.Equal(t, utils.MsgAddError, apiErr.Message)
	}

	_, err := f.mutations.SubmitNode(context.Background(), st, model.NodeDraft{Label: "Per son"})
	assert.Equal(t, utils.CodeMutationException, apiCode(t, err))
	assert.Equal(t, 0, f.stub.Attempts())
}

func TestSubmitRequiresConnection(t *testing.T) {
	f := newFixture()
	st := f.connections.Restore("sid", store.NewMemory())

	_, err := f.mutations.SubmitNode(context.Background(), st, model.NodeDraft{Label: "Person"})
	assert.Equal(t, utils.CodeNotConnected, apiCode(t, err))
	_, err = f.mutations.SubmitRelationship(context.Background(), st, model.RelationshipDraft{})
	assert.Equal(t, utils.CodeNotConnected, apiCode(t, err))
	assert.Equal(t, 0, f.stub.Attempts())
}

func TestSubmitRelationshipRequiresAllFields(t *testing.T) {
	full := model.RelationshipDraft{
		Type:            "KNOWS",
		StartLabel:      "Person",
		StartProperties: "name: 'A'",
		EndLabel:        "Person",
		EndProperties:   "name: 'B'",
	}
	tests := []struct {
		name  string
		clear func(*model.RelationshipDraft)
	}{
		{"type", func(d *model.RelationshipDraft) { d.Type = "" }},
		{"start label", func(d *model.RelationshipDraft) { d.StartLabel = "" }},
		{"start properties", func(d *model.RelationshipDraft) { d.StartProperties = "" }},
		{"end label", func(d *model.RelationshipDraft) { d.EndLabel = "" }},
		{"end properties", func(d *model.RelationshipDraft) { d.EndProperties = "" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture()
			st, _ := connectedState(t)
			draft := full
			tt.clear(&draft)

			_, err := f.mutations.SubmitRelationship(context.Background(), st, draft)
			var apiErr *utils.APIError
			require.ErrorAs(t, err, &apiErr)
			assert.Equal(t, utils.CodeValidation, apiErr.Code)
			assert.Equal(t, utils.MsgFillAllFields, apiErr.Message)
			assert.Equal(t, 0, f.stub.Attempts())
		})
	}
}

func TestSubmitRelationshipOutcomes(t *testing.T) {
	draft := model.RelationshipDraft{
		Type:            "KNOWS",
		StartLabel:      "Person",
		StartProperties: "name: 'A'",
		EndLabel:        "Person",
		EndProperties:   "name: 'B'",
	}
	pair := gateway.Record{Keys: []string{"a", "b"}, Values: []any{"a", "b"}}

	tests := []struct {
		name    string
		records []gateway.Record
		runErr  error
		message string
	}{
		{"matched", []gateway.Record{pair}, nil, utils.MsgAdded},
		{"nothing matched", nil, nil, utils.MsgAddFailed},
		{"driver error", nil, errors.New("boom"), utils.MsgAddError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(tt.records...)
			f.stub.RunErr = tt.runErr
			st, _ := connectedState(t)

			msg, err := f.mutations.SubmitRelationship(context.Background(), st, draft)
			if err != nil {
				var apiErr *utils.APIError
				require.ErrorAs(t, err, &apiErr)
				msg = apiErr.Message
			}
			assert.Equal(t, tt.message, msg)
			assert.Equal(t, 1, f.stub.Closes())
		})
	}
}

func TestSubmitNodeRejectsResubmissionWhilePending(t *testing.T) {
	f := newFixture(gateway.Record{Keys: []string{"n"}, Values: []any{1}})
	f.stub.Release = make(chan struct{})
	st, _ := connectedState(t)
	draft := model.NodeDraft{Label: "Person", Properties: "name: 'A'"}

	done := make(chan error, 1)
	go func() {
		_, err := f.mutations.SubmitNode(context.Background(), st, draft)
		done <- err
	}()
	<-f.stub.Started()

	_, err := f.mutations.SubmitNode(context.Background(), st, draft)
	assert.Equal(t, utils.CodeBusy, apiCode(t, err))

	// a different operation is not blocked by the pending node submit
	_, err = f.mutations.SubmitRelationship(context.Background(), st, model.RelationshipDraft{})
	assert.Equal(t, utils.CodeValidation, apiCode(t, err))

	close(f.stub.Release)
	require.NoError(t, <-done)

	msg, err := f.mutations.SubmitNode(context.Background(), st, draft)
	require.NoError(t, err)
	assert.Equal(t, utils.MsgAdded, msg)
}

func TestSubmitPublishesOutcome(t *testing.T) {
	f := newFixture()
	ch, cancel := f.hub.Subscribe("sid")
	defer cancel()
	st, _ := connectedState(t)

	_, err := f.mutations.SubmitNode(context.Background(), st, model.NodeDraft{Label: "Person"})
	require.Error(t, err)

	first, second := <-ch, <-ch
	assert.Equal(t, StateSubmitting, first.State)
	assert.Equal(t, StateFailed, second.State)
	assert.Equal(t, utils.MsgAddFailed, second.Message)
}
