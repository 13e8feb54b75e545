// Tests for the file persisters' round-trip and error paths.
package production

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/comalice/calcx"
)

func pendingRecord(t *testing.T) Record {
	t.Helper()
	e := calcx.New()
	for _, in := range []calcx.Input{calcx.Digit(9), calcx.BinaryOperator(calcx.OpDiv), calcx.Digit(4)} {
		_, err := e.Apply(in)
		require.NoError(t, err)
	}
	return Record{
		SessionID: uuid.New().String(),
		State:     e.Snapshot(),
		Timestamp: time.Date(2026, 10, 19, 12, 0, 0, 0, time.UTC),
	}
}

func persisters(t *testing.T) map[string]Persister {
	jp, err := NewJSONPersister(t.TempDir())
	require.NoError(t, err)
	yp, err := NewYAMLPersister(t.TempDir())
	require.NoError(t, err)
	return map[string]Persister{"json": jp, "yaml": yp}
}

func TestFilePersisters_RoundTrip(t *testing.T) {
	for name, p := range persisters(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			rec := pendingRecord(t)
			require.NoError(t, p.Save(ctx, rec))

			loaded, err := p.Load(ctx, rec.SessionID)
			require.NoError(t, err)
			assert.Equal(t, rec.SessionID, loaded.SessionID)
			assert.Equal(t, rec.State, loaded.State)
			assert.True(t, rec.Timestamp.Equal(loaded.Timestamp))

			e := calcx.New()
			require.NoError(t, e.Restore(loaded.State))
			d, err := e.Apply(calcx.Equals())
			require.NoError(t, err)
			assert.Equal(t, "2.25", d)
		})
	}
}

func TestFilePersisters_NotFoundAndDelete(t *testing.T) {
	for name, p := range persisters(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			_, err := p.Load(ctx, uuid.New().String())
			assert.ErrorIs(t, err, ErrNotFound)

			rec := pendingRecord(t)
			require.NoError(t, p.Save(ctx, rec))
			require.NoError(t, p.Delete(ctx, rec.SessionID))
			_, err = p.Load(ctx, rec.SessionID)
			assert.ErrorIs(t, err, ErrNotFound)

			// Deleting twice is fine.
			assert.NoError(t, p.Delete(ctx, rec.SessionID))
		})
	}
}

func TestFilePersisters_RejectBadIDs(t *testing.T) {
	for name, p := range persisters(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			rec := pendingRecord(t)
			rec.SessionID = "../escape"
			assert.Error(t, p.Save(ctx, rec))
			_, err := p.Load(ctx, "../escape")
			assert.Error(t, err)
			assert.Error(t, p.Delete(ctx, ""))
		})
	}
}

func TestJSONPersister_RejectsCorruptState(t *testing.T) {
	dir := t.TempDir()
	p, err := NewJSONPersister(dir)
	require.NoError(t, err)

	id := uuid.New().String()
	bad := `{"sessionID":"` + id + `","state":{"display":"1","operator":"+"}}`
	require.NoError(t, os.WriteFile(filepath.Join(dir, id+".json"), []byte(bad), 0o644))

	_, err = p.Load(context.Background(), id)
	assert.ErrorIs(t, err, calcx.ErrInvalidSnapshot)
}

func TestYAMLPersister_FileFormat(t *testing.T) {
	dir := t.TempDir()
	p, err := NewYAMLPersister(dir)
	require.NoError(t, err)

	rec := pendingRecord(t)
	require.NoError(t, p.Save(context.Background(), rec))

	data, err := os.ReadFile(filepath.Join(dir, rec.SessionID+".yaml"))
	require.NoError(t, err)
	assert.Contains(t, string(data), "display: \"4\"")
	assert.Contains(t, string(data), "storedValue: 9")
	assert.Contains(t, string(data), "operator: /")
}
