package model

// APIResponse is the envelope shared by every endpoint; failures carry only Success=false and Message.
type APIResponse struct {
	Success bool   `json:"success"`
	Data    any    `json:"data,omitempty"`
	Message string `json:"message,omitempty"`
	Token   string `json:"token,omitempty"`
}

type Empty struct{}
