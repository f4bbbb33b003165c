// Package backup implements per-observation buffer persistence (spec
// §4.4): each observation's circular buffer is periodically written
// to a file named by its resource path under a hub-private directory,
// and restored when an observation is first created at a path with an
// existing backup file.
package backup

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/legatoproject/datahub/internal/errors"
	"github.com/legatoproject/datahub/internal/sample"
)

// record is the on-disk encoding of one buffered sample.
type record struct {
	Timestamp float64 `json:"timestamp"`
	Type      string  `json:"type"`
	Value     string  `json:"value"`
}

// Store persists and restores observation buffers under Directory.
type Store struct {
	Directory string
}

// New creates a Store rooted at dir. dir is created lazily on first
// Save, matching internal/config's auto-create behavior for the same
// directory at startup.
func New(dir string) *Store {
	return &Store{Directory: dir}
}

func (s *Store) filePath(resourcePath string) string {
	safe := strings.ReplaceAll(strings.TrimPrefix(resourcePath, "/"), "/", "_")
	return filepath.Join(s.Directory, safe+".json")
}

// Save writes samples to resourcePath's backup file, replacing any
// prior contents.
func (s *Store) Save(resourcePath string, samples []sample.Sample) error {
	if err := os.MkdirAll(s.Directory, 0o755); err != nil {
		return errors.Wrap(err, "create backup directory")
	}

	records := make([]record, 0, len(samples))
	for _, smp := range samples {
		records = append(records, record{
			Timestamp: smp.Timestamp(),
			Type:      smp.Type().String(),
			Value:     smp.Printable(),
		})
	}

	data, err := json.Marshal(records)
	if err != nil {
		return errors.Wrap(err, "encode backup records")
	}

	tmp := s.filePath(resourcePath) + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return errors.Wrap(err, "write backup file")
	}
	return os.Rename(tmp, s.filePath(resourcePath))
}

// Load reads resourcePath's backup file, if any, and decodes it back
// into samples. Returns NotFound if no backup file exists; callers
// generally treat that as "nothing to restore" rather than an error.
func (s *Store) Load(resourcePath string) ([]sample.Sample, error) {
	data, err := os.ReadFile(s.filePath(resourcePath))
	if os.IsNotExist(err) {
		return nil, errors.ErrNotFound
	}
	if err != nil {
		return nil, errors.Wrap(err, "read backup file")
	}

	var records []record
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, errors.WrapWithCode(err, errors.ErrFormatError, "decode backup file")
	}

	out := make([]sample.Sample, 0, len(records))
	for _, r := range records {
		smp, err := decodeRecord(r)
		if err != nil {
			continue
		}
		out = append(out, smp)
	}
	return out, nil
}

func decodeRecord(r record) (sample.Sample, error) {
	switch r.Type {
	case "trigger":
		return sample.NewTrigger(r.Timestamp), nil
	case "bool":
		return sample.NewBool(r.Timestamp, r.Value == "true"), nil
	case "numeric":
		v, err := strconv.ParseFloat(r.Value, 64)
		if err != nil {
			return sample.Sample{}, errors.ErrFormatError
		}
		return sample.NewNumeric(r.Timestamp, v), nil
	case "string":
		return sample.NewString(r.Timestamp, r.Value)
	case "json":
		return sample.NewJSON(r.Timestamp, r.Value)
	default:
		return sample.Sample{}, errors.ErrFormatError
	}
}
