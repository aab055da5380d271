package coordinator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTableID_ParseRoundTrip(t *testing.T) {
	id := NewTableID()

	parsed, err := ParseTableID(id.String())
	require.NoError(t, err)
	assert.Equal(t, id, parsed)
}

func TestParseTableID_Invalid(t *testing.T) {
	_, err := ParseTableID("not-a-uuid")
	require.Error(t, err)

	var invalid *InvalidArgumentError
	require.ErrorAs(t, err, &invalid)
}

func TestCommitFilePath(t *testing.T) {
	got := commitFilePath("s3://bucket/table", "00000000000000000001.json")
	assert.Equal(t, "s3://bucket/table/_delta_log/_commits/00000000000000000001.json", got)
}

func TestCommitRecord_WithBackfilledPreservesOriginal(t *testing.T) {
	original := CommitRecord{Version: 3, IsBackfilled: false}

	updated := original.withBackfilled()

	assert.False(t, original.IsBackfilled)
	assert.True(t, updated.IsBackfilled)
	assert.Equal(t, original.Version, updated.Version)
}

func TestCommitRecord_ToView_OmitsInternalFlags(t *testing.T) {
	rec := CommitRecord{
		Version:         2,
		CommitTimestamp: 1700000000,
		IsDisown:        true,
		IsBackfilled:    true,
	}

	view := rec.toView()

	assert.Equal(t, rec.Version, view.Version)
	assert.Equal(t, rec.CommitTimestamp, view.CommitTimestamp)
}
