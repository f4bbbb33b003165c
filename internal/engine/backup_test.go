package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/legatoproject/datahub/internal/sample"
)

type fakeBackupStore struct {
	saved map[string][]sample.Sample
}

func newFakeBackupStore() *fakeBackupStore {
	return &fakeBackupStore{saved: make(map[string][]sample.Sample)}
}

func (s *fakeBackupStore) Save(path string, samples []sample.Sample) error {
	cp := make([]sample.Sample, len(samples))
	copy(cp, samples)
	s.saved[path] = cp
	return nil
}

func (s *fakeBackupStore) Load(path string) ([]sample.Sample, error) {
	return s.saved[path], nil
}

func TestScheduleBackupPersistsAfterBackupPeriodElapses(t *testing.T) {
	store := newFakeBackupStore()
	h := New(Options{Backup: store})

	require.NoError(t, h.CreateObservation("/obs"))
	require.NoError(t, h.ConfigureObservation("/obs", ObservationConfig{
		BufferMaxCount: 4,
		BackupPeriod:   10,
	}))

	require.NoError(t, h.Push("/obs", sample.NewNumeric(100, 1)))
	assert.Len(t, store.saved["/obs"], 1)

	require.NoError(t, h.Push("/obs", sample.NewNumeric(105, 2)))
	assert.Len(t, store.saved["/obs"], 1, "backup period has not elapsed yet")

	require.NoError(t, h.Push("/obs", sample.NewNumeric(111, 3)))
	assert.Len(t, store.saved["/obs"], 3, "elapsed period saves the full current buffer")
}

func TestCreateObservationRestoresExistingBackup(t *testing.T) {
	store := newFakeBackupStore()
	store.saved["/obs"] = []sample.Sample{sample.NewNumeric(1, 42)}

	h := New(Options{Backup: store})
	require.NoError(t, h.CreateObservation("/obs"))

	samples, err := h.BufferedSamples("/obs")
	require.NoError(t, err)
	require.Len(t, samples, 1)
	v, _ := samples[0].Numeric()
	assert.Equal(t, float64(42), v)
}

func TestZeroCapacityBufferSkipsBackup(t *testing.T) {
	store := newFakeBackupStore()
	h := New(Options{Backup: store})

	require.NoError(t, h.CreateObservation("/obs"))
	require.NoError(t, h.ConfigureObservation("/obs", ObservationConfig{
		BufferMaxCount: 0,
		BackupPeriod:   1,
	}))

	require.NoError(t, h.Push("/obs", sample.NewNumeric(1, 1)))
	assert.Empty(t, store.saved["/obs"])
}
