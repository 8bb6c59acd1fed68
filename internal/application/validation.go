package application

import (
	"fmt"
	"net/url"
	"strings"
)

// ValidateRequired checks if a string field is non-empty (after trimming whitespace).
// Returns a ValidationError if the field is empty.
func ValidateRequired(fieldName, value string) error {
	if strings.TrimSpace(value) == "" {
		displayName := formatFieldName(fieldName)
		return &ValidationError{
			Field:   fieldName,
			Message: fmt.Sprintf("%s is required", displayName),
		}
	}
	return nil
}

// formatFieldName converts camelCase field names to space-separated words
// for more readable error messages (e.g., "parentID" -> "parent ID")
func formatFieldName(fieldName string) string {
	replacements := map[string]string{
		"parentID":      "parent ID",
		"folderID":      "folder ID",
		"sourceID":      "source ID",
		"destinationID": "destination ID",
		"title":         "title",
		"url":           "URL",
		"query":         "query",
	}

	if formatted, ok := replacements[fieldName]; ok {
		return formatted
	}

	return fieldName
}

// ValidateURL checks that a bookmark URL parses and names a scheme.
// Returns a ValidationError otherwise.
func ValidateURL(fieldName, raw string) error {
	u, err := url.Parse(raw)
	if err != nil || u.Scheme == "" {
		return &ValidationError{
			Field:   fieldName,
			Message: fmt.Sprintf("not a valid URL: %s", raw),
		}
	}
	return nil
}
