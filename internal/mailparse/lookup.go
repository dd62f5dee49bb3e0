package mailparse

import (
	"encoding/json"
	"fmt"
	"os"
	"regexp"
	"strings"

	"github.com/wardpost/wardpost/pkg/failure"
)

// LookupSource matches a sender address against the mapping list and
// returns the source ID of the first match, in mapping order.
//
// Pattern semantics, all case-insensitive:
//   - A pattern containing % is a wildcard pattern: % matches any run of
//     characters, everything else is literal. "%@ward43.org" matches any
//     sender at that domain.
//   - A pattern without % matches when it is a substring of the address
//     or the address is a substring of the pattern. The loose direction
//     tolerates mappings recorded with a display name around the address.
func LookupSource(fromEmail string, mappings []SourceMapping) (string, bool) {
	fromEmailLower := strings.ToLower(fromEmail)

	for _, mapping := range mappings {
		pattern := strings.ToLower(mapping.emailPattern)

		if strings.Contains(pattern, "%") {
			re, err := compileWildcard(pattern)
			if err != nil {
				continue
			}
			if re.MatchString(fromEmailLower) {
				return mapping.sourceID, true
			}
			continue
		}

		if strings.Contains(fromEmailLower, pattern) || strings.Contains(pattern, fromEmailLower) {
			return mapping.sourceID, true
		}
	}

	return "", false
}

// compileWildcard turns a %-wildcard pattern into a regexp: every
// character is literal except %, which becomes .*
func compileWildcard(pattern string) (*regexp.Regexp, error) {
	escaped := regexp.QuoteMeta(pattern)
	// QuoteMeta leaves % untouched
	return regexp.Compile(strings.ReplaceAll(escaped, "%", ".*"))
}

// LoadMappingFile reads a source-mapping document from disk: a JSON
// array of {"emailPattern": ..., "sourceId": ...} objects.
func LoadMappingFile(path string) ([]SourceMapping, failure.ClassifiedError) {
	document, err := os.ReadFile(path)
	if err != nil {
		return nil, &MappingError{
			Message: fmt.Sprintf("%v", err),
			Pattern: path,
			Cause:   ErrCauseBadMappingFile,
		}
	}
	return ParseMappings(document)
}

// ParseMappings builds the mapping list from a JSON document. Entries
// with an empty pattern or source ID are rejected rather than silently
// never matching.
func ParseMappings(document []byte) ([]SourceMapping, failure.ClassifiedError) {
	var dtos []mappingDTO
	if err := json.Unmarshal(document, &dtos); err != nil {
		return nil, &MappingError{
			Message: err.Error(),
			Pattern: "",
			Cause:   ErrCauseBadMappingJSON,
		}
	}

	mappings := make([]SourceMapping, 0, len(dtos))
	for _, dto := range dtos {
		if dto.EmailPattern == "" || dto.SourceID == "" {
			return nil, &MappingError{
				Message: "emailPattern and sourceId are both required",
				Pattern: dto.EmailPattern,
				Cause:   ErrCauseBadPattern,
			}
		}
		mappings = append(mappings, NewSourceMapping(dto.EmailPattern, dto.SourceID))
	}
	return mappings, nil
}
