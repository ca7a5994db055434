package embedded

import (
	"embed"
	"io/fs"
	"sort"
	"strings"
)

// IconsFS holds the fallback icon set as SVG markup with color placeholders.
//
//go:embed icons
var IconsFS embed.FS

// PathScheme prefixes icon paths that resolve into the embedded set instead
// of the filesystem (e.g. "embedded:file.save").
const PathScheme = "embedded:"

// IconPath returns the embedded path for a fallback icon id.
func IconPath(id string) string {
	return PathScheme + id
}

// IsEmbeddedPath reports whether path addresses the embedded icon set.
func IsEmbeddedPath(path string) bool {
	return strings.HasPrefix(path, PathScheme)
}

// ReadIcon returns the markup for an embedded icon path.
func ReadIcon(path string) ([]byte, error) {
	id := strings.TrimPrefix(path, PathScheme)
	return IconsFS.ReadFile("icons/" + id + ".svg")
}

// IconIDs lists the fallback icon ids in sorted order.
func IconIDs() []string {
	entries, err := fs.ReadDir(IconsFS, "icons")
	if err != nil {
		return nil
	}
	ids := make([]string, 0, len(entries))
	for _, e := range entries {
		ids = append(ids, strings.TrimSuffix(e.Name(), ".svg"))
	}
	sort.Strings(ids)
	return ids
}
