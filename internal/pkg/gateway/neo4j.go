package gateway

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"

	"neo4j-explorer-backend/internal/model"
)

// Neo4j opens a fresh driver per session, using the caller's credentials
// verbatim.
type Neo4j struct {
	database       string
	connectTimeout time.Duration
}

// NewNeo4j returns a gateway for the official driver. An empty database
// selects the server default; a zero timeout keeps the driver default.
func NewNeo4j(database string, connectTimeout time.Duration) *Neo4j {
	return &Neo4j{database: database, connectTimeout: connectTimeout}
}

func (g *Neo4j) Open(ctx context.Context, creds model.Credentials) (Session, error) {
	driver, err := neo4j.NewDriverWithContext(
		creds.URI,
		neo4j.BasicAuth(creds.Username, creds.Password, ""),
		func(c *neo4j.Config) {
			if g.connectTimeout > 0 {
				c.SocketConnectTimeout = g.connectTimeout
			}
		},
	)
	if err != nil {
		return nil, fmt.Errorf("could not create Neo4j driver: %w", err)
	}

	session := driver.NewSession(ctx, neo4j.SessionConfig{
		AccessMode:   neo4j.AccessModeWrite,
		DatabaseName: g.database,
	})
	return &neo4jSession{driver: driver, session: session}, nil
}

type neo4jSession struct {
	driver  neo4j.DriverWithContext
	session neo4j.SessionWithContext
}

func (s *neo4jSession) Run(ctx context.Context, query string, params map[string]any) ([]Record, error) {
	result, err := s.session.Run(ctx, query, params)
	if err != nil {
		return nil, fmt.Errorf("error executing neo4j query: %w", err)
	}

	records, err := result.Collect(ctx)
	if err != nil {
		return nil, fmt.Errorf("error collecting neo4j records: %w", err)
	}

	out := make([]Record, 0, len(records))
	for _, rec := range records {
		out = append(out, Record{Keys: rec.Keys, Values: rec.Values})
	}
	return out, nil
}

func (s *neo4jSession) Close(ctx context.Context) error {
	return errors.Join(s.session.Close(ctx), s.driver.Close(ctx))
}
