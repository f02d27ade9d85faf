package schedule

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileLoader_List(t *testing.T) {
	loader := NewFileLoader(writeSchedule(t, twoJobs), time.Second)
	jobs, err := loader.List()
	require.NoError(t, err)
	require.Len(t, jobs, 2)
	assert.Equal(t, "nightly", jobs[0].Name)
	assert.Contains(t, loader.String(), "schedule.yml")
}

func TestFileLoader_Changes(t *testing.T) {
	file := writeSchedule(t, "jobs: []")
	past := time.Now().Add(-time.Minute)
	require.NoError(t, os.Chtimes(file, past, past))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	loader := NewFileLoader(file, 50*time.Millisecond)
	ch, err := loader.Changes(ctx)
	require.NoError(t, err)

	// invalid content is skipped
	require.NoError(t, os.WriteFile(file, []byte("jobs: [broken"), 0o600))
	old := time.Now().Add(-30 * time.Second)
	require.NoError(t, os.Chtimes(file, old, old))
	select {
	case <-ch:
		t.Fatal("invalid file should not be sent")
	case <-time.After(200 * time.Millisecond):
	}

	require.NoError(t, os.WriteFile(file, []byte(twoJobs), 0o600))
	older := time.Now().Add(-10 * time.Second)
	require.NoError(t, os.Chtimes(file, older, older))
	select {
	case jobs := <-ch:
		assert.Len(t, jobs, 2)
	case <-time.After(time.Second):
		t.Fatal("no update")
	}

	cancel()
	require.Eventually(t, func() bool {
		_, ok := <-ch
		return !ok
	}, time.Second, 10*time.Millisecond, "channel closed on cancel")
}

func TestFileLoader_ChangesMissingFile(t *testing.T) {
	file := filepath.Join(t.TempDir(), "later.yml")
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	ch, err := NewFileLoader(file, 50*time.Millisecond).Changes(ctx)
	require.NoError(t, err, "missing file is watched")

	require.NoError(t, os.WriteFile(file, []byte(twoJobs), 0o600))
	old := time.Now().Add(-time.Second)
	require.NoError(t, os.Chtimes(file, old, old))
	select {
	case jobs := <-ch:
		assert.Len(t, jobs, 2)
	case <-time.After(time.Second):
		t.Fatal("no update")
	}
}
