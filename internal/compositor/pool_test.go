package compositor

import (
	"os"
	"testing"

	"github.com/stretchr/testify/require"
)

func newTempFile(size int32) (*os.File, error) {
	f, err := os.CreateTemp("", "owl-shm-test-*")
	if err != nil {
		return nil, err
	}
	os.Remove(f.Name())
	if err := f.Truncate(int64(size)); err != nil {
		f.Close()
		return nil, err
	}
	return f, nil
}

func TestShmPoolResizeRejectsShrink(t *testing.T) {
	pool := newTestPool(t, 4096)
	err := pool.Resize(2048)
	require.Error(t, err)
	require.EqualValues(t, 4096, pool.Size())
}

func TestShmPoolRefCountingReleasesOnLastUnref(t *testing.T) {
	pool := newTestPool(t, 4096)
	buf, err := NewBuffer(pool, 0, 10, 10, 40, ShmFormatARGB8888stub)
	require.NoError(t, err)

	buf.Destroy()
	// Pool resource itself still holds its own ref, so the mapping stays.
	require.NotNil(t, pool.Bytes())

	// Dropping that last ref (what the wl_shm_pool resource's destructor
	// does) unmaps the pool.
	pool.unref()
	require.Nil(t, pool.Bytes())
}

func TestBufferRejectsInsufficientStride(t *testing.T) {
	pool := newTestPool(t, 4096)
	_, err := NewBuffer(pool, 0, 10, 10, 20, ShmFormatARGB8888stub)
	require.ErrorIs(t, err, ErrInvalidStride)
}

func TestBufferRejectsOversizeForPool(t *testing.T) {
	pool := newTestPool(t, 100)
	_, err := NewBuffer(pool, 0, 10, 10, 40, ShmFormatARGB8888stub)
	require.Error(t, err)
}

// ShmFormatARGB8888stub is the format the pool tests pass to NewBuffer;
// it has proto.ShmFormatARGB8888's value (0).
const ShmFormatARGB8888stub = 0
