package model

type ConnectRequest struct {
	URI      string `json:"uri" binding:"required"`
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type SelectLabelRequest struct {
	Label string `json:"label" binding:"required"`
}

// Required fields are checked by the mutation service so the
// user sees the form's own messages.
type NodeRequest struct {
	Label      string `json:"label"`
	Properties string `json:"properties"`
}

type RelationshipRequest struct {
	Type            string `json:"type"`
	StartLabel      string `json:"startLabel"`
	StartProperties string `json:"startProperties"`
	EndLabel        string `json:"endLabel"`
	EndProperties   string `json:"endProperties"`
}

func (r NodeRequest) Draft() NodeDraft {
	return NodeDraft{Label: r.Label, Properties: r.Properties}
}

func (r RelationshipRequest) Draft() RelationshipDraft {
	return RelationshipDraft{
		Type:            r.Type,
		StartLabel:      r.StartLabel,
		StartProperties: r.StartProperties,
		EndLabel:        r.EndLabel,
		EndProperties:   r.EndProperties,
	}
}
