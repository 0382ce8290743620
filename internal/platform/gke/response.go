package gke

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
)

// Response is a fully read HTTP response from the API.
type Response struct {
	Method     string
	URL        string
	StatusCode int
	Body       []byte
}

// ReturnIfObject interprets a response under the API contract:
//
//   - 404 with allowNotFound yields no object and no error
//   - 204 yields no object and no error
//   - any other non-2xx status is a TransportError
//   - a JSON object carrying error.errors is an OperationError
//   - any other JSON object is returned as is
func ReturnIfObject(resp *Response, allowNotFound bool) (map[string]any, error) {
	if resp.StatusCode == http.StatusNotFound && allowNotFound {
		return nil, nil
	}
	if resp.StatusCode == http.StatusNoContent {
		return nil, nil
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &TransportError{
			Method:     resp.Method,
			URL:        resp.URL,
			StatusCode: resp.StatusCode,
			Message:    apiMessage(resp.Body),
		}
	}

	if len(bytes.TrimSpace(resp.Body)) == 0 {
		return nil, fmt.Errorf("%s %s returned %d with an empty body", resp.Method, resp.URL, resp.StatusCode)
	}
	var result map[string]any
	if err := json.Unmarshal(resp.Body, &result); err != nil {
		return nil, fmt.Errorf("failed to decode response of %s %s: %w", resp.Method, resp.URL, err)
	}
	if err := RaiseIfErrors(result); err != nil {
		return nil, err
	}
	return result, nil
}

// RaiseIfErrors returns an OperationError when the payload carries a
// non-empty error.errors list.
func RaiseIfErrors(payload map[string]any) error {
	errs, ok := navigate(payload, "error", "errors").([]any)
	if !ok || len(errs) == 0 {
		return nil
	}
	messages := make([]string, 0, len(errs))
	for _, e := range errs {
		entry, ok := e.(map[string]any)
		if !ok {
			continue
		}
		if msg, ok := entry["message"]; ok && msg != nil {
			messages = append(messages, fmt.Sprint(msg))
		}
	}
	return &OperationError{Messages: messages}
}

// navigate walks nested JSON objects and returns nil when any step is missing.
func navigate(payload map[string]any, path ...string) any {
	var current any = payload
	for _, key := range path {
		obj, ok := current.(map[string]any)
		if !ok {
			return nil
		}
		current = obj[key]
	}
	return current
}

// apiMessage extracts error.message from a Google API error body.
func apiMessage(body []byte) string {
	var payload map[string]any
	if err := json.Unmarshal(body, &payload); err != nil {
		return ""
	}
	if msg, ok := navigate(payload, "error", "message").(string); ok {
		return msg
	}
	return ""
}

func stringField(payload map[string]any, key string) string {
	if s, ok := payload[key].(string); ok {
		return s
	}
	return ""
}
