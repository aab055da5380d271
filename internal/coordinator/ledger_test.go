package coordinator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func rec(version int64, backfilled bool) CommitRecord {
	return CommitRecord{Version: version, IsBackfilled: backfilled}
}

func TestTableLedger_EmptyDerivedViews(t *testing.T) {
	l := newTableLedger("s3://bucket/table")

	assert.Equal(t, int64(-1), l.lastRatifiedVersionLocked())
	assert.False(t, l.isActiveLocked())
	assert.False(t, l.isDisownedLocked())
	assert.Equal(t, 0, l.countUnbackfilledLocked())
}

func TestTableLedger_AppendLocked_Monotonic(t *testing.T) {
	l := newTableLedger("s3://bucket/table")

	l.appendLocked(rec(0, false))
	l.appendLocked(rec(1, false))
	l.appendLocked(rec(2, false))

	assert.Equal(t, int64(2), l.lastRatifiedVersionLocked())
	assert.True(t, l.isActiveLocked())
	assert.Equal(t, 3, l.countUnbackfilledLocked())
}

func TestTableLedger_AppendLocked_PanicsOnNonMonotonic(t *testing.T) {
	l := newTableLedger("s3://bucket/table")
	l.appendLocked(rec(5, false))

	assert.Panics(t, func() {
		l.appendLocked(rec(5, false))
	})
	assert.Panics(t, func() {
		l.appendLocked(rec(3, false))
	})
}

func TestTableLedger_AppendLocked_PanicsOnDisowned(t *testing.T) {
	l := newTableLedger("s3://bucket/table")
	l.appendLocked(CommitRecord{Version: 0, IsDisown: true})

	assert.True(t, l.isDisownedLocked())
	assert.Panics(t, func() {
		l.appendLocked(rec(1, false))
	})
}

func TestTableLedger_ApplyBackfillLocked_EqualsLast(t *testing.T) {
	l := newTableLedger("s3://bucket/table")
	for v := int64(0); v <= 3; v++ {
		l.appendLocked(rec(v, false))
	}

	l.applyBackfillLocked(3)

	require.Len(t, l.commits, 1)
	assert.Equal(t, int64(3), l.commits[0].Version)
	assert.True(t, l.commits[0].IsBackfilled)
	assert.Equal(t, int64(3), l.lastRatifiedVersionLocked())
	assert.Equal(t, 0, l.countUnbackfilledLocked())
}

func TestTableLedger_ApplyBackfillLocked_PartialTrim(t *testing.T) {
	l := newTableLedger("s3://bucket/table")
	for v := int64(0); v <= 5; v++ {
		l.appendLocked(rec(v, false))
	}

	l.applyBackfillLocked(3)

	require.Len(t, l.commits, 2)
	assert.Equal(t, int64(4), l.commits[0].Version)
	assert.Equal(t, int64(5), l.commits[1].Version)
	assert.Equal(t, int64(5), l.lastRatifiedVersionLocked())
}

func TestTableLedger_SnapshotWindowLocked_FiltersBackfilled(t *testing.T) {
	l := newTableLedger("s3://bucket/table")
	for v := int64(0); v <= 3; v++ {
		l.appendLocked(rec(v, false))
	}
	l.applyBackfillLocked(1)

	views, last := l.snapshotWindowLocked(0, 3)
	require.Len(t, views, 2)
	assert.Equal(t, int64(2), views[0].Version)
	assert.Equal(t, int64(3), views[1].Version)
	assert.Equal(t, int64(3), last)
}

func TestTableLedger_SnapshotWindowLocked_FullBackfillHidesSentinel(t *testing.T) {
	l := newTableLedger("s3://bucket/table")
	for v := int64(0); v <= 3; v++ {
		l.appendLocked(rec(v, false))
	}
	l.applyBackfillLocked(3)

	views, last := l.snapshotWindowLocked(0, 3)
	assert.Empty(t, views)
	assert.Equal(t, int64(3), last)
}

func TestTableLedger_SnapshotWindowLocked_Range(t *testing.T) {
	l := newTableLedger("s3://bucket/table")
	for v := int64(0); v <= 9; v++ {
		l.appendLocked(rec(v, false))
	}

	views, last := l.snapshotWindowLocked(3, 6)
	require.Len(t, views, 4)
	assert.Equal(t, int64(3), views[0].Version)
	assert.Equal(t, int64(6), views[3].Version)
	assert.Equal(t, int64(9), last)
}
