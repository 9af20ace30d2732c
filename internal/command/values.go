package command

import (
	"strconv"
	"strings"

	"github.com/agentbrowser/agent-browser/internal/httpheaders"
)

var recognizedSchemes = []string{
	"http:", "https:", "file:", "about:", "data:",
	"chrome:", "chrome-extension:", "ws:", "wss:",
}

// normalizeURL prepends https:// unless raw already starts with a known
// scheme.
func normalizeURL(raw string) string {
	lower := strings.ToLower(raw)
	for _, scheme := range recognizedSchemes {
		if strings.HasPrefix(lower, scheme) {
			return raw
		}
	}
	return "https://" + raw
}

func parseInt(field, raw string) (int, error) {
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, &InvalidValueError{Field: field, Value: raw, Reason: "must be an integer"}
	}
	return n, nil
}

func parsePositive(field, raw string) (int, error) {
	n, err := parseInt(field, raw)
	if err != nil {
		return 0, err
	}
	if n <= 0 {
		return 0, &InvalidValueError{Field: field, Value: raw, Reason: "must be greater than zero"}
	}
	return n, nil
}

func parseNonNegative(field, raw string) (int, error) {
	n, err := parseInt(field, raw)
	if err != nil {
		return 0, err
	}
	if n < 0 {
		return 0, &InvalidValueError{Field: field, Value: raw, Reason: "must not be negative"}
	}
	return n, nil
}

func parseCoordinate(field, raw string, limit float64) (float64, error) {
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, &InvalidValueError{Field: field, Value: raw, Reason: "must be a number"}
	}
	if f < -limit || f > limit {
		return 0, &InvalidValueError{Field: field, Value: raw, Reason: "must be between -" + strconv.FormatFloat(limit, 'f', -1, 64) + " and " + strconv.FormatFloat(limit, 'f', -1, 64)}
	}
	return f, nil
}

func parseHeaders(field, raw string) (map[string]string, error) {
	headers, err := httpheaders.Parse(raw)
	if err != nil {
		return nil, &InvalidValueError{Field: field, Value: raw, Reason: err.Error()}
	}
	return headers, nil
}

func oneOf(field, raw string, valid ...string) (string, error) {
	for _, v := range valid {
		if raw == v {
			return raw, nil
		}
	}
	return "", &InvalidValueError{Field: field, Value: raw, Reason: "must be one of " + strings.Join(valid, ", ")}
}
