// Package discovery implements the recursive walk that finds site
// directories in the repository tree and extracts their hostnames.
package discovery

import (
	"regexp"

	"sitescout/internal/gitea"
)

// nodeFilePattern recognizes bare-metal node definition files.
var nodeFilePattern = regexp.MustCompile(`bm-node-.+\.yaml$`)

// MatchesNodeFile reports whether name is a node definition file.
func MatchesNodeFile(name string) bool {
	return nodeFilePattern.MatchString(name)
}

// IsSiteDir reports whether a directory listing identifies a site: at least
// one file entry matching the node file pattern. Directories with matching
// names do not count.
func IsSiteDir(entries []gitea.Entry) bool {
	for _, entry := range entries {
		if entry.IsFile() && MatchesNodeFile(entry.Name) {
			return true
		}
	}
	return false
}
