package client

import (
	"encoding/json"
	"strings"

	"github.com/dmitrijs2005/mobilecore/internal/common"
)

const maxErrorBody = 512

func newHTTPError(method, path string, status int, body []byte) *common.NetworkError {
	return &common.NetworkError{
		Method:     method,
		Path:       path,
		StatusCode: status,
		Body:       errorMessage(body),
	}
}

// errorMessage extracts {"error": "..."} or {"message": "..."} from a
// response body, falling back to the trimmed raw text.
func errorMessage(body []byte) string {
	var payload struct {
		Error   string `json:"error"`
		Message string `json:"message"`
	}
	if json.Unmarshal(body, &payload) == nil {
		if payload.Error != "" {
			return payload.Error
		}
		if payload.Message != "" {
			return payload.Message
		}
	}

	s := strings.TrimSpace(string(body))
	if len(s) > maxErrorBody {
		s = s[:maxErrorBody]
	}
	return s
}
