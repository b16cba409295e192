// Package gateway is the boundary to the graph database. Every call
// opens its own short-lived session and releases it before returning.
package gateway

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"neo4j-explorer-backend/internal/model"
)

// Record is one result row. Keys and Values are parallel.
type Record struct {
	Keys   []string
	Values []any
}

func (r Record) Get(key string) (any, bool) {
	for i, k := range r.Keys {
		if k == key && i < len(r.Values) {
			return r.Values[i], true
		}
	}
	return nil, false
}

type Session interface {
	Run(ctx context.Context, query string, params map[string]any) ([]Record, error)
	Close(ctx context.Context) error
}

type Gateway interface {
	Open(ctx context.Context, creds model.Credentials) (Session, error)
}

// WithSession opens a session, hands it to fn and closes it on every exit
// path, including a panic in fn. Close failures are logged and do not
// change the outcome of fn.
func WithSession(ctx context.Context, gw Gateway, creds model.Credentials, log *zap.Logger, fn func(Session) error) error {
	sess, err := gw.Open(ctx, creds)
	if err != nil {
		return fmt.Errorf("open session: %w", err)
	}
	defer func() {
		// Close must run even when ctx was cancelled mid-query.
		if cerr := sess.Close(context.WithoutCancel(ctx)); cerr != nil {
			log.Warn("closing gateway session failed", zap.Error(cerr))
		}
	}()
	return fn(sess)
}
