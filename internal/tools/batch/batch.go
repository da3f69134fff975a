package batch

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Result is the outcome of one item in a batch operation.
type Result struct {
	ID      string `json:"id"`
	Success bool   `json:"success"`
	Error   string `json:"error,omitempty"`
}

// Summary aggregates per-item results. Items are processed independently:
// one failure never rolls back or stops the others.
type Summary struct {
	Total     int      `json:"total"`
	Succeeded int      `json:"succeeded"`
	Failed    int      `json:"failed"`
	FailedIDs []string `json:"failed_ids,omitempty"`
	Results   []Result `json:"results"`
}

// AllSucceeded reports whether every item in the batch succeeded.
func (s Summary) AllSucceeded() bool {
	return s.Failed == 0
}

// ParseStringOrArray parses a parameter that can be either a single string
// or an array of strings, as tool arguments arrive from JSON.
func ParseStringOrArray(param interface{}, paramName string) ([]string, error) {
	if param == nil {
		return nil, fmt.Errorf("%s is required", paramName)
	}

	var result []string

	switch v := param.(type) {
	case string:
		if v == "" {
			return nil, fmt.Errorf("%s cannot be empty", paramName)
		}
		// Some MCP clients serialize array arguments as a JSON string.
		if strings.HasPrefix(v, "[") {
			var decoded []string
			if err := json.Unmarshal([]byte(v), &decoded); err == nil {
				if len(decoded) == 0 {
					return nil, fmt.Errorf("%s cannot be empty", paramName)
				}
				for i, item := range decoded {
					if item == "" {
						return nil, fmt.Errorf("%s[%d] cannot be empty", paramName, i)
					}
				}
				return decoded, nil
			}
		}
		result = []string{v}
	case []interface{}:
		if len(v) == 0 {
			return nil, fmt.Errorf("%s cannot be empty", paramName)
		}
		for i, item := range v {
			str, ok := item.(string)
			if !ok {
				return nil, fmt.Errorf("%s[%d] must be a string", paramName, i)
			}
			if str == "" {
				return nil, fmt.Errorf("%s[%d] cannot be empty", paramName, i)
			}
			result = append(result, str)
		}
	default:
		return nil, fmt.Errorf("%s must be a string or array of strings", paramName)
	}

	return result, nil
}

// Process executes fn on each id in order and collects per-id results.
// Processing always continues past failures.
func Process(ids []string, fn func(id string) error) Summary {
	summary := Summary{
		Total:   len(ids),
		Results: make([]Result, 0, len(ids)),
	}

	for _, id := range ids {
		if err := fn(id); err != nil {
			summary.Failed++
			summary.FailedIDs = append(summary.FailedIDs, id)
			summary.Results = append(summary.Results, Result{ID: id, Error: err.Error()})
			continue
		}
		summary.Succeeded++
		summary.Results = append(summary.Results, Result{ID: id, Success: true})
	}

	return summary
}
