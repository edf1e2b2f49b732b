package types

import "encoding/json"

// RAG is the status colour a server reports for a job.
type RAG string

const (
	RAGRed   RAG = "red"
	RAGGreen RAG = "green"
	RAGBlue  RAG = "blue"
	RAGAmber RAG = "amber"
)

// LogTimeLayout is the wire format of LogLine.Time.
const LogTimeLayout = "2006-01-02T15:04:05Z"

// Job is a unit of remote work as observed by the client.
type Job struct {
	Key           string         `json:"key"`
	StatusMessage string         `json:"status-message"`
	RAG           RAG            `json:"rag"`
	Actions       []string       `json:"actions"`
	Params        map[string]any `json:"params,omitempty"`
	Log           []LogLine      `json:"log,omitempty"`
	Dead          bool           `json:"dead,omitempty"`
}

// LogLine is a single entry of a job log.
type LogLine struct {
	Time      string  `json:"time"`
	User      *string `json:"user,omitempty"`
	StyleHint *string `json:"style-hint,omitempty"`
	Message   string  `json:"message"`
}

// Trigger is a named remote configuration. The payload is never interpreted.
type Trigger struct {
	Name    string          `json:"name"`
	Payload json.RawMessage `json:"payload"`
}

// ActionRequest is the body of a job action call.
type ActionRequest struct {
	Value   *string `json:"value"`
	Comment *string `json:"comment"`
}

// AuthRequest is the body of a login call.
type AuthRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// AuthResponse carries the opaque token issued by the server.
type AuthResponse struct {
	Token string `json:"token"`
}

// UnsealRequest is the body of a secrets unseal call.
type UnsealRequest struct {
	Secret string `json:"secret"`
}

// UnsealStatus reports whether the secrets subsystem is unsealed.
type UnsealStatus struct {
	Status bool `json:"status"`
}
