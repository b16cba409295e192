package model

type SessionResponse struct {
	State    ConnectionState `json:"state"`
	URI      string          `json:"uri,omitempty"`
	Username string          `json:"username,omitempty"`
	Labels   []LabelEntry    `json:"labels"`
}

type ConnectResponse struct {
	Success bool            `json:"success"`
	State   ConnectionState `json:"state"`
	Labels  []LabelEntry    `json:"labels"`
	Message string          `json:"message,omitempty"`
}

type MutationResponse struct {
	Success bool         `json:"success"`
	Kind    MutationKind `json:"kind"`
	Message string       `json:"message"`
}

type ErrorResponse struct {
	Success bool   `json:"success"`
	Code    int    `json:"code"`
	Message string `json:"message"`
}
