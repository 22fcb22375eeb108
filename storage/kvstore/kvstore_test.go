package kvstore

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testLogger struct{}

func (testLogger) Enable(bool)                    {}
func (testLogger) Debug(string, ...interface{})   {}
func (testLogger) Info(string, ...interface{})    {}
func (testLogger) Warn(string, ...interface{})    {}
func (testLogger) Error(string, ...interface{})   {}
func (testLogger) Fatal(string, ...interface{})   {}

type record struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

func TestStore_SaveLoadRoundTrip(t *testing.T) {
	store := NewStore(NewMemBackend(), testLogger{})

	saved := []record{{ID: 1, Name: "one"}, {ID: 2, Name: "two"}}
	store.Save("things", saved)

	var loaded []record
	require.NoError(t, store.Load("things", &loaded, []record{}))
	assert.Equal(t, saved, loaded)
}

func TestStore_LoadFallsBackToSeed(t *testing.T) {
	tests := []struct {
		name    string
		backend *MemBackend
	}{
		{name: "missing entry", backend: NewMemBackend()},
		{name: "unavailable backend", backend: &MemBackend{Unavailable: true}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := NewStore(tt.backend, testLogger{})

			seed := []record{{ID: 1, Name: "seed"}}
			var loaded []record
			require.NoError(t, store.Load("things", &loaded, seed))
			assert.Equal(t, seed, loaded)
		})
	}
}

func TestStore_LoadFallsBackOnCorruptPayload(t *testing.T) {
	backend := NewMemBackend()
	require.NoError(t, backend.Set("things", []byte("{nope")))

	store := NewStore(backend, testLogger{})
	seed := []record{{ID: 9, Name: "seed"}}
	var loaded []record
	require.NoError(t, store.Load("things", &loaded, seed))
	assert.Equal(t, seed, loaded)
}

func TestStore_LoadNilSeedLeavesDestUntouched(t *testing.T) {
	store := NewStore(NewMemBackend(), testLogger{})

	var loaded []record
	require.NoError(t, store.Load("things", &loaded, nil))
	assert.Nil(t, loaded)
}

func TestStore_SaveOverwritesWholeCollection(t *testing.T) {
	store := NewStore(NewMemBackend(), testLogger{})

	store.Save("things", []record{{ID: 1}, {ID: 2}})
	store.Save("things", []record{{ID: 3}})

	var loaded []record
	require.NoError(t, store.Load("things", &loaded, nil))
	assert.Equal(t, []record{{ID: 3}}, loaded)
}

func TestFileBackend_RoundTrip(t *testing.T) {
	backend, err := NewFileBackend(t.TempDir())
	require.NoError(t, err)

	_, ok, err := backend.Get("things")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, backend.Set("things", []byte(`[{"id":1}]`)))

	data, ok, err := backend.Get("things")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, `[{"id":1}]`, string(data))
}
