// Package session keeps one client's connection state and mirrors it
// into a store.KV so it survives page reloads.
package session

import (
	"fmt"

	"go.uber.org/zap"

	"neo4j-explorer-backend/internal/model"
	"neo4j-explorer-backend/internal/store"
)

type State struct {
	ID          string
	Credentials model.Credentials
	Labels      []model.LabelEntry
	Status      model.ConnectionState

	kv store.KV
}

// Restore rebuilds the state from kv without contacting the database.
// A missing or unreadable label cache yields an empty label list.
func Restore(id string, kv store.KV, log *zap.Logger) *State {
	s := &State{ID: id, Labels: []model.LabelEntry{}, kv: kv}

	uri, _ := kv.Get(store.KeyURI)
	username, _ := kv.Get(store.KeyUsername)
	password, _ := kv.Get(store.KeyPassword)
	creds := model.Credentials{URI: uri, Username: username, Password: password}

	if creds.Complete() {
		s.Credentials = creds
		s.Status = model.Connected
	}

	if cached, ok := kv.Get(store.KeyNodes); ok && cached != "" {
		labels, err := model.DecodeLabels(cached)
		if err != nil {
			log.Warn("discarding unreadable label cache",
				zap.String("session", id),
				zap.Error(err),
			)
		} else {
			s.Labels = labels
		}
	}

	return s
}

// Save persists credentials and labels in one write and marks the state
// connected. Nothing changes if the write fails.
func (s *State) Save(creds model.Credentials, labels []model.LabelEntry) error {
	if labels == nil {
		labels = []model.LabelEntry{}
	}
	encoded, err := model.EncodeLabels(labels)
	if err != nil {
		return fmt.Errorf("encode labels: %w", err)
	}

	err = s.kv.SetAll(map[string]string{
		store.KeyURI:      creds.URI,
		store.KeyUsername: creds.Username,
		store.KeyPassword: creds.Password,
		store.KeyNodes:    encoded,
	})
	if err != nil {
		return fmt.Errorf("persist session: %w", err)
	}

	s.Credentials = creds
	s.Labels = labels
	s.Status = model.Connected
	return nil
}

// Clear wipes the store and resets every field. The in-memory reset
// happens even when the store cannot be cleared.
func (s *State) Clear() error {
	err := s.kv.Clear()
	s.Credentials = model.Credentials{}
	s.Labels = []model.LabelEntry{}
	s.Status = model.Disconnected
	if err != nil {
		return fmt.Errorf("clear session: %w", err)
	}
	return nil
}

func (s *State) Connected() bool {
	return s.Status == model.Connected
}

// FindLabel returns the cached entry with the given name.
func (s *State) FindLabel(label string) (model.LabelEntry, bool) {
	for _, entry := range s.Labels {
		if entry.Label == label {
			return entry, true
		}
	}
	return model.LabelEntry{}, false
}
