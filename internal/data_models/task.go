package dto

import (
	"bytes"
	"encoding/json"
)

type CreateTaskRequest struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
	Completed   *bool   `json:"completed"`
	Status      *string `json:"status"`
}

type UpdateTaskRequest struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
	Completed   *bool   `json:"completed"`
	Status      *string `json:"status"`

	// StatusNull is set when the body carries "status": null, which a nil
	// Status alone cannot tell apart from an absent field.
	StatusNull bool `json:"-"`
}

func (r *UpdateTaskRequest) UnmarshalJSON(data []byte) error {
	type fields UpdateTaskRequest
	if err := json.Unmarshal(data, (*fields)(r)); err != nil {
		return err
	}

	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	if v, ok := raw["status"]; ok && bytes.Equal(bytes.TrimSpace(v), []byte("null")) {
		r.StatusNull = true
	}
	return nil
}

type ListTasksQuery struct {
	Status string `query:"status"`
	Q      string `query:"q"`
}
