package gateway

import (
	"context"
	"sync"

	"neo4j-explorer-backend/internal/model"
)

// Query is a statement seen by Stub.
type Query struct {
	Text   string
	Params map[string]any
}

// Stub is an in-memory Gateway for tests. Every Run returns Records or
// RunErr. When Release is non-nil, Run blocks until it is closed.
type Stub struct {
	Records []Record
	OpenErr error
	RunErr  error
	Release chan struct{}

	mu      sync.Mutex
	opens   int
	closes  int
	queries []Query
	creds   []model.Credentials
	started chan struct{}
}

func NewStub(records ...Record) *Stub {
	return &Stub{Records: records, started: make(chan struct{}, 16)}
}

// LabelRecords builds the rows the label introspection query returns.
func LabelRecords(labels ...string) []Record {
	records := make([]Record, 0, len(labels))
	for _, label := range labels {
		records = append(records, Record{Keys: []string{"label"}, Values: []any{label}})
	}
	return records
}

func (s *Stub) Open(_ context.Context, creds model.Credentials) (Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.creds = append(s.creds, creds)
	if s.OpenErr != nil {
		return nil, s.OpenErr
	}
	s.opens++
	return &stubSession{stub: s}, nil
}

// Started receives once per Run call, before Run blocks on Release.
func (s *Stub) Started() <-chan struct{} {
	return s.started
}

func (s *Stub) Opens() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.opens
}

func (s *Stub) Closes() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closes
}

// Attempts counts Open calls, failed ones included.
func (s *Stub) Attempts() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.creds)
}

func (s *Stub) Queries() []Query {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Query(nil), s.queries...)
}

func (s *Stub) Credentials() []model.Credentials {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]model.Credentials(nil), s.creds...)
}

type stubSession struct {
	stub *Stub
}

func (ss *stubSession) Run(ctx context.Context, query string, params map[string]any) ([]Record, error) {
	s := ss.stub
	s.mu.Lock()
	s.queries = append(s.queries, Query{Text: query, Params: params})
	release := s.Release
	s.mu.Unlock()

	select {
	case s.started <- struct{}{}:
	default:
	}

	if release != nil {
		select {
		case <-release:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}

	if s.RunErr != nil {
		return nil, s.RunErr
	}
	return s.Records, nil
}

func (ss *stubSession) Close(context.Context) error {
	ss.stub.mu.Lock()
	defer ss.stub.mu.Unlock()
	ss.stub.closes++
	return nil
}
