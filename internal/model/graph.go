package model

import (
	"encoding/json"
	"fmt"
)

type Credentials struct {
	URI      string `json:"uri"`
	Username string `json:"username"`
	Password string `json:"password"`
}

// Complete reports whether all three fields are present.
func (c Credentials) Complete() bool {
	return c.URI != "" && c.Username != "" && c.Password != ""
}

type LabelEntry struct {
	Label string `json:"label"`
}

type ConnectionState int

const (
	Disconnected ConnectionState = iota
	Connecting
	Connected
)

var connectionStateNames = map[ConnectionState]string{
	Disconnected: "disconnected",
	Connecting:   "connecting",
	Connected:    "connected",
}

func (s ConnectionState) String() string {
	if name, ok := connectionStateNames[s]; ok {
		return name
	}
	return fmt.Sprintf("ConnectionState(%d)", int(s))
}

func (s ConnectionState) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

func (s *ConnectionState) UnmarshalText(text []byte) error {
	for state, name := range connectionStateNames {
		if name == string(text) {
			*s = state
			return nil
		}
	}
	return fmt.Errorf("unknown connection state %q", text)
}

type MutationKind string

const (
	MutationNode         MutationKind = "node"
	MutationRelationship MutationKind = "relationship"
)

type NodeDraft struct {
	Label      string
	Properties string
}

type RelationshipDraft struct {
	Type            string
	StartLabel      string
	StartProperties string
	EndLabel        string
	EndProperties   string
}

// Handoff is what the label browser passes to the query tester screen.
type Handoff struct {
	SelectedNode LabelEntry `json:"selectedNode"`
	URI          string     `json:"uri"`
	Username     string     `json:"username"`
	Password     string     `json:"password"`
}

// EncodeLabels serializes labels the way the frontend cached them.
func EncodeLabels(labels []LabelEntry) (string, error) {
	if labels == nil {
		labels = []LabelEntry{}
	}
	data, err := json.Marshal(labels)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

func DecodeLabels(data string) ([]LabelEntry, error) {
	var labels []LabelEntry
	if err := json.Unmarshal([]byte(data), &labels); err != nil {
		return nil, err
	}
	if labels == nil {
		labels = []LabelEntry{}
	}
	return labels, nil
}
