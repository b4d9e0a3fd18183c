package discovery

import (
	"testing"

	"github.com/stretchr/testify/require"

	"sitescout/internal/gitea"
)

// TestMatchesNodeFile pins the node file naming pattern.
func TestMatchesNodeFile(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name string
		want bool
	}{
		{"bm-node-master-0.yaml", true},
		{"bm-node-x.yaml", true},
		{"prefix-bm-node-worker.yaml", true},
		{"bm-node-.yaml", false},
		{"bm-node-master-0.yml", false},
		{"bm-node-master-0.yaml.bak", false},
		{"node-master-0.yaml", false},
		{"", false},
	}
	for _, tc := range cases {
		require.Equal(t, tc.want, MatchesNodeFile(tc.name), "name %q", tc.name)
	}
}

// TestIsSiteDir requires at least one file entry matching the pattern.
func TestIsSiteDir(t *testing.T) {
	t.Parallel()

	file := func(name string) gitea.Entry { return gitea.Entry{Name: name, Type: gitea.EntryTypeFile} }
	dir := func(name string) gitea.Entry { return gitea.Entry{Name: name, Type: gitea.EntryTypeDir} }

	cases := []struct {
		label   string
		entries []gitea.Entry
		want    bool
	}{
		{"empty listing", nil, false},
		{"single node file", []gitea.Entry{file("bm-node-master-0.yaml")}, true},
		{"node file among others", []gitea.Entry{file("README.md"), dir("manifests"), file("bm-node-worker-1.yaml")}, true},
		{"no matching files", []gitea.Entry{file("README.md"), file("site.yaml")}, false},
		{"directory with matching name does not count", []gitea.Entry{dir("bm-node-master-0.yaml")}, false},
	}
	for _, tc := range cases {
		require.Equal(t, tc.want, IsSiteDir(tc.entries), tc.label)
	}
}
