package service

import (
	"regexp"
	"strings"

	"github.com/vanshika/lottrace/internal/domain"
)

var whitespaceRegex = regexp.MustCompile(`\s+`)

// normalizeLotID trims and upper-cases lot ids.
func normalizeLotID(id string) string {
	return strings.ToUpper(strings.TrimSpace(id))
}

// normalizeName collapses runs of whitespace in display names.
func normalizeName(name string) string {
	return whitespaceRegex.ReplaceAllString(strings.TrimSpace(name), " ")
}

// normalizeNodeType upper-cases node types such as FARM or COLLECTOR.
func normalizeNodeType(t string) string {
	return strings.ToUpper(normalizeName(t))
}

func normalizeNodeID(id domain.NodeID) domain.NodeID {
	return domain.NodeID(strings.TrimSpace(string(id)))
}
