package site

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"
)

// TestRecordWireFormat pins the JSON field names the dashboard consumes.
func TestRecordWireFormat(t *testing.T) {
	t.Parallel()

	rec := Record{
		Path:      "zone-a/site-101",
		Hostnames: []string{"master-0.site-101.example.com"},
		NodeFiles: []string{"bm-node-master-0.yaml"},
		Errors:    []string{"No hostname annotation found in bm-node-worker-1.yaml"},
	}

	data, err := json.Marshal(rec)
	require.NoError(t, err)
	require.JSONEq(t, `{
		"sitePath": "zone-a/site-101",
		"hostnames": ["master-0.site-101.example.com"],
		"bmNodeFiles": ["bm-node-master-0.yaml"],
		"errors": ["No hostname annotation found in bm-node-worker-1.yaml"]
	}`, string(data))
}

// TestNewRecordMarshalsEmptyArrays ensures empty records serialize with []
// values, never null.
func TestNewRecordMarshalsEmptyArrays(t *testing.T) {
	t.Parallel()

	data, err := json.Marshal(NewRecord(RootPath))
	require.NoError(t, err)
	require.JSONEq(t, `{"sitePath":"root","hostnames":[],"bmNodeFiles":[],"errors":[]}`, string(data))
}
