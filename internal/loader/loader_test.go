package loader

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/Additional-Code/orderloader/pkg/errorbank"
)

func writeInput(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "orders.json")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestReadFile_ParsesRecordsInOrder(t *testing.T) {
	path := writeInput(t, `[
		{"order_id": "A1", "status": "paid", "date": "2024-01-05T10:00:00", "amount": 9.99,
		 "customer": {"region": "EU"}},
		{"order_id": "A2", "status": "pending", "date": "2024-01-06", "amount": 12,
		 "customer": {"region": "NA"}}
	]`)

	ld := New(zap.NewNop())
	records, err := ld.ReadFile(path)
	require.NoError(t, err)
	require.Len(t, records, 2)

	assert.Equal(t, "A1", records[0]["order_id"])
	assert.Equal(t, "A2", records[1]["order_id"])
	assert.Equal(t, 9.99, records[0]["amount"])
}

func TestReadFile_EmptyArray(t *testing.T) {
	path := writeInput(t, `[]`)

	ld := New(zap.NewNop())
	records, err := ld.ReadFile(path)
	require.NoError(t, err)
	assert.Empty(t, records)
}

func TestReadFile_MissingFile(t *testing.T) {
	ld := New(zap.NewNop())
	_, err := ld.ReadFile(filepath.Join(t.TempDir(), "absent.json"))

	require.Error(t, err)
	assert.Equal(t, errorbank.KindNotFound, errorbank.From(err).Kind())
}

func TestReadFile_MalformedJSON(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"truncated", `[{"order_id": "A1"`},
		{"not json", `orders go here`},
		{"object instead of array", `{"order_id": "A1"}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeInput(t, tt.content)
			ld := New(zap.NewNop())

			_, err := ld.ReadFile(path)
			require.Error(t, err)
			assert.Equal(t, errorbank.KindParse, errorbank.From(err).Kind())
		})
	}
}
