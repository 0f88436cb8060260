package api

import (
	"encoding/json"

	"github.com/dmitrijs2005/medscribe/internal/client/models"
)

// DecodeJSON unmarshals the response into v and, when v knows how, validates
// it. Either failure is a *DecodeError.
func DecodeJSON(resp *Response, path string, v any) error {
	if err := json.Unmarshal(resp.Body, v); err != nil {
		return &DecodeError{Path: path, Err: err}
	}
	if val, ok := v.(models.Validator); ok {
		if err := val.Validate(); err != nil {
			return &DecodeError{Path: path, Err: err}
		}
	}
	return nil
}
