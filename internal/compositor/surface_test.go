package compositor

import (
	"testing"

	"github.com/stretchr/testify/require"
)

type fakeUploader struct {
	calls int
	lastW, lastH int32
}

func (f *fakeUploader) UploadTexture(surf *Surface, pixels []byte, width, height, stride int32, format uint32) uint32 {
	f.calls++
	f.lastW, f.lastH = width, height
	return 1
}

type fakeScheduler struct{ calls int }

func (f *fakeScheduler) ScheduleFrame() { f.calls++ }

func newTestPool(t *testing.T, size int32) *ShmPool {
	t.Helper()
	// Backs the pool with a real unlinked tmp file (no memfd), so NewBuffer
	// and Pixels run against an actual read-only mapping.
	f, err := newTempFile(size)
	require.NoError(t, err)
	pool, err := NewShmPool(int(f.Fd()), size)
	require.NoError(t, err)
	return pool
}

func TestSurfaceCommitPromotesPendingToCurrentAndUploadsTexture(t *testing.T) {
	pool := newTestPool(t, 4096)
	buf, err := NewBuffer(pool, 0, 10, 10, 40, 0)
	require.NoError(t, err)

	up := &fakeUploader{}
	sch := &fakeScheduler{}
	surf := NewSurface(nil, up, sch)

	surf.Attach(buf, 0, 0)
	surf.Damage(0, 0, 10, 10)
	require.False(t, surf.HasContent)

	surf.Commit()

	require.True(t, surf.HasContent)
	require.Equal(t, int32(10), surf.TexWidth)
	require.Equal(t, 1, up.calls)
	require.Equal(t, 1, sch.calls)

	// Pending state is cleared after commit.
	require.False(t, surf.Pending.BufferAttached)
	require.False(t, surf.Pending.HasDamage)
}

func TestSurfaceCommitIsIdempotentWithoutNewAttach(t *testing.T) {
	up := &fakeUploader{}
	sch := &fakeScheduler{}
	surf := NewSurface(nil, up, sch)

	surf.Commit()
	surf.Commit()

	require.False(t, surf.HasContent)
	require.Equal(t, 0, up.calls)
	require.Equal(t, 2, sch.calls)
}

func TestSurfaceDestroyClearsWindowBackReference(t *testing.T) {
	surf := NewSurface(nil, &fakeUploader{}, &fakeScheduler{})
	win := &Window{Surface: surf}
	surf.Window = win

	surf.Destroy()

	require.Nil(t, surf.Window)
	require.Nil(t, win.Surface)
}
