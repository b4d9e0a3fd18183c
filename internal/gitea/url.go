package gitea

import (
	"fmt"
	"net/url"
	"strings"
)

// Repo locates one repository on a Gitea host.
type Repo struct {
	BaseURL string
	Owner   string
	Name    string
}

// ContentsURL returns the contents-API listing URL for path at ref. The
// repository root is addressed with an empty path.
func (r Repo) ContentsURL(path, ref string) string {
	base := strings.TrimRight(r.BaseURL, "/")
	pathSegment := ""
	if path != "" {
		pathSegment = "/" + path
	}
	return fmt.Sprintf("%s/api/v1/repos/%s/%s/contents%s?ref=%s",
		base, r.Owner, r.Name, pathSegment, url.QueryEscape(ref))
}

// RawURL returns the raw content URL for filePath at ref.
func (r Repo) RawURL(filePath, ref string) string {
	base := strings.TrimRight(r.BaseURL, "/")
	return fmt.Sprintf("%s/%s/%s/raw/branch/%s/%s", base, r.Owner, r.Name, ref, filePath)
}

// JoinPath appends name to dir with the separator the contents API expects.
// The repository root is the empty dir.
func JoinPath(dir, name string) string {
	if dir == "" {
		return name
	}
	return dir + "/" + name
}
