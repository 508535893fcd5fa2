package loader

import (
	"encoding/json"
	"errors"
	"io/fs"
	"os"

	"go.uber.org/fx"
	"go.uber.org/zap"

	"github.com/Additional-Code/orderloader/pkg/errorbank"
)

// Record is one raw order record as it appears in the input document. Field
// presence and types are only checked later, by the ingest pipeline.
type Record map[string]any

// Module provides the loader to Fx.
var Module = fx.Provide(New)

// Loader reads order batches from JSON documents.
type Loader struct {
	logger *zap.Logger
}

// New wires a Loader.
func New(logger *zap.Logger) *Loader {
	return &Loader{logger: logger}
}

// ReadFile parses the JSON array at path into records, preserving input
// order. A missing file and malformed JSON are both fatal to the run.
func (l *Loader) ReadFile(path string) ([]Record, error) {
	l.logger.Debug("reading input file", zap.String("path", path))

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, errorbank.NotFound("input file not found",
				errorbank.WithDetail("path", path),
				errorbank.WithCause(err))
		}
		return nil, errorbank.Internal("read input file",
			errorbank.WithDetail("path", path),
			errorbank.WithCause(err))
	}

	var records []Record
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, errorbank.Parse("input is not a valid JSON array",
			errorbank.WithDetail("path", path),
			errorbank.WithCause(err))
	}

	l.logger.Info("input file parsed",
		zap.String("path", path),
		zap.Int("records", len(records)))
	return records, nil
}
