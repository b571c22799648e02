package api

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

type keywordsBody struct {
	Keyword  *string  `json:"keyword"`
	Keywords []string `json:"keywords"`
}

type tagsBody struct {
	Tags *[]string `json:"tags"`
}

// readBody returns the trimmed request body, rejecting an empty one
func readBody(c *gin.Context) ([]byte, error) {
	data, err := c.GetRawData()
	if err != nil {
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) {
			return nil, err
		}
		return nil, &ValidationError{Message: "failed to read request body"}
	}
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return nil, &ValidationError{Message: "request body is required"}
	}
	return data, nil
}

// decodeKeywordsBody accepts {"keywords": [...]}, and {"keyword": "..."}
// when allowSingle is set.
func decodeKeywordsBody(c *gin.Context, allowSingle bool) ([]string, error) {
	message := "Provide 'keywords' as a non-empty list of strings."
	if allowSingle {
		message = "Provide 'keyword' (string) or 'keywords' (list of strings)."
	}

	data, err := readBody(c)
	if err != nil {
		return nil, err
	}

	var body keywordsBody
	if err := json.Unmarshal(data, &body); err != nil {
		return nil, &ValidationError{Message: message}
	}

	switch {
	case allowSingle && body.Keyword != nil:
		return []string{*body.Keyword}, nil
	case body.Keywords != nil:
		return body.Keywords, nil
	default:
		return nil, &ValidationError{Message: message}
	}
}

// decodeTagsBody accepts a bare JSON array or {"tags": [...]}
func decodeTagsBody(c *gin.Context) ([]string, error) {
	data, err := readBody(c)
	if err != nil {
		return nil, err
	}

	const message = "Provide tags as a JSON array of strings or as {\"tags\": [...]}."

	if data[0] == '[' {
		var list []string
		if err := json.Unmarshal(data, &list); err != nil {
			return nil, &ValidationError{Message: message}
		}
		return list, nil
	}

	var body tagsBody
	if err := json.Unmarshal(data, &body); err != nil || body.Tags == nil {
		return nil, &ValidationError{Message: message}
	}
	return *body.Tags, nil
}

func hasNonBlank(values []string) bool {
	for _, value := range values {
		if strings.TrimSpace(value) != "" {
			return true
		}
	}
	return false
}
