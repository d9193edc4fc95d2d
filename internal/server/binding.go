package server

import (
	"bytes"
	"encoding/json"
	"errors"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

type bindMessages map[string]map[string]string

type invalidPayloadError struct {
	message string
	err     error
}

func (e *invalidPayloadError) Error() string {
	return e.message
}

func (e *invalidPayloadError) Unwrap() error {
	return e.err
}

// decodePayload unmarshals a frame payload into req and runs the binding
// validators over it.
func decodePayload(raw json.RawMessage, req any) error {
	if len(bytes.TrimSpace(raw)) == 0 || bytes.Equal(bytes.TrimSpace(raw), []byte("null")) {
		raw = json.RawMessage("{}")
	}
	if err := json.Unmarshal(raw, req); err != nil {
		return &invalidPayloadError{message: "invalid payload", err: err}
	}
	if err := binding.Validator.ValidateStruct(req); err != nil {
		return &invalidPayloadError{message: resolveBindError(err, requestMessages, "invalid payload"), err: err}
	}
	return nil
}

func resolveBindError(err error, messages bindMessages, fallback string) string {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		for _, verr := range verrs {
			if fieldMsgs, ok := messages[verr.Field()]; ok {
				if msg, ok := fieldMsgs[verr.Tag()]; ok {
					return msg
				}
			}
		}
	}
	if fallback != "" {
		return fallback
	}
	return "invalid request"
}
