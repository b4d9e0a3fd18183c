// Package site defines the record produced for each discovered site
// directory and the sink boundary those records flow through.
package site

// RootPath labels records describing the repository tree root, which has
// no path of its own.
const RootPath = "root"

// Record describes one site directory. Field names follow the wire format
// the dashboard consumes; a record is frozen once published.
type Record struct {
	// Path is the directory path relative to the repository root, or
	// RootPath for the root itself.
	Path string `json:"sitePath" yaml:"sitePath"`
	// Hostnames holds every hostname annotation extracted from the
	// directory's node files.
	Hostnames []string `json:"hostnames" yaml:"hostnames"`
	// NodeFiles lists the matching node file names in listing order.
	NodeFiles []string `json:"bmNodeFiles" yaml:"bmNodeFiles"`
	// Errors carries one message per node file that produced no hostname,
	// or a single listing failure message.
	Errors []string `json:"errors" yaml:"errors"`
}

// NewRecord returns a Record for path with empty, non-nil slices.
func NewRecord(path string) Record {
	return Record{
		Path:      path,
		Hostnames: []string{},
		NodeFiles: []string{},
		Errors:    []string{},
	}
}
