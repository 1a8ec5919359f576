package model

import (
	"regexp"

	"github.com/google/uuid"
)

// ArtifactScheme prefixes artifact references in canvas content
const ArtifactScheme = "aba://"

var artifactRefRegex = regexp.MustCompile(`aba://([0-9a-fA-F]{8}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{12})`)

// ArtifactRefs returns the artifact ids referenced in content,
// in order of first appearance.
func ArtifactRefs(content string) []uuid.UUID {
	matches := artifactRefRegex.FindAllStringSubmatch(content, -1)
	if len(matches) == 0 {
		return nil
	}
	seen := make(map[uuid.UUID]bool, len(matches))
	var ids []uuid.UUID
	for _, m := range matches {
		id, err := uuid.Parse(m[1])
		if err != nil || seen[id] {
			continue
		}
		seen[id] = true
		ids = append(ids, id)
	}
	return ids
}
