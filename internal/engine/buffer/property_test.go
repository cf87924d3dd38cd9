package buffer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPutProperty(t *testing.T) {
	b := New("t", WithText("abcdefgh"))

	changed, err := b.PutProperty(2, 5, "face", "bold")
	require.NoError(t, err)
	assert.Equal(t, []PropertyRun{{Begin: 2, End: 5, Value: nil}}, changed)
	assert.True(t, b.Modified())
	assert.Equal(t, "bold", b.PropertyAt(3, "face"))
	assert.Nil(t, b.PropertyAt(5, "face"))

	changed, err = b.PutProperty(0, 8, "face", "bold")
	require.NoError(t, err)
	assert.Equal(t, []PropertyRun{
		{Begin: 0, End: 2, Value: nil},
		{Begin: 5, End: 8, Value: nil},
	}, changed, "runs that already had the value are not reported")
}

func TestPutPropertyUnchanged(t *testing.T) {
	b := New("t", WithText("abc"))
	b.MarkSaved(b.VisitedFileModTime())

	changed, err := b.PutProperty(0, 3, "face", nil)
	require.NoError(t, err)
	assert.Empty(t, changed)
	assert.False(t, b.Modified())
}

func TestPropertyRuns(t *testing.T) {
	b := New("t", WithText("abcdef"))
	_, err := b.PutProperty(1, 3, "face", "x")
	require.NoError(t, err)
	_, err = b.PutProperty(3, 4, "face", []string{"y"})
	require.NoError(t, err)

	runs, err := b.PropertyRuns(0, 6, "face")
	require.NoError(t, err)
	assert.Equal(t, []PropertyRun{
		{Begin: 0, End: 1, Value: nil},
		{Begin: 1, End: 3, Value: "x"},
		{Begin: 3, End: 4, Value: []string{"y"}},
		{Begin: 4, End: 6, Value: nil},
	}, runs)

	_, err = b.PropertyRuns(4, 9, "face")
	assert.ErrorIs(t, err, ErrRangeInvalid)
}

func TestPropertiesFollowEdits(t *testing.T) {
	b := New("t", WithText("abcdef"))
	_, err := b.PutProperty(2, 4, "face", "bold")
	require.NoError(t, err)

	_, err = b.Insert(3, "XY")
	require.NoError(t, err)
	assert.Equal(t, "bold", b.PropertyAt(2, "face"))
	assert.Nil(t, b.PropertyAt(3, "face"), "inserted text carries no properties")
	assert.Equal(t, "bold", b.PropertyAt(5, "face"))

	_, err = b.Delete(0, 3)
	require.NoError(t, err)
	assert.Equal(t, "bold", b.PropertyAt(2, "face"))
	assert.Nil(t, b.PropertyAt(3, "face"))
}
