package utils

import (
	"hicm-service/internal/pkg/constvars"
	"strings"
)

// ResolvePublicURL prefixes backend-relative paths with the public base.
func ResolvePublicURL(base, location string) string {
	location = strings.TrimSpace(location)
	if location == "" {
		return ""
	}
	if strings.HasPrefix(location, "/") {
		return strings.TrimRight(base, "/") + location
	}
	return location
}

// LabelFromLocation returns the last path segment of a url or path,
// without its query string.
func LabelFromLocation(location string) string {
	if i := strings.IndexAny(location, "?#"); i >= 0 {
		location = location[:i]
	}
	location = strings.TrimRight(location, "/")
	if i := strings.LastIndex(location, "/"); i >= 0 {
		location = location[i+1:]
	}
	if location == "" {
		return constvars.DefaultEvidenceLabel
	}
	return location
}
