package sync

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCartesianOdometerOrder(t *testing.T) {
	combos := Cartesian([][]string{{"A", "B"}, {"X", "Y", "Z"}})

	expected := [][]string{
		{"A", "X"}, {"A", "Y"}, {"A", "Z"},
		{"B", "X"}, {"B", "Y"}, {"B", "Z"},
	}
	assert.Equal(t, expected, combos)
}

func TestCartesianSingleAxis(t *testing.T) {
	combos := Cartesian([][]string{{"S", "M", "L"}})
	assert.Equal(t, [][]string{{"S"}, {"M"}, {"L"}}, combos)
}

func TestCartesianNoAxes(t *testing.T) {
	// Zero axes yield the single empty combination, consistent with
	// CombinationCount's empty product.
	combos := Cartesian(nil)
	require.Len(t, combos, 1)
	assert.Empty(t, combos[0])
}

func TestCartesianThreeAxes(t *testing.T) {
	combos := Cartesian([][]string{{"a", "b"}, {"1", "2"}, {"x", "y"}})
	require.Len(t, combos, 8)
	// Last axis cycles fastest, first slowest.
	assert.Equal(t, []string{"a", "1", "x"}, combos[0])
	assert.Equal(t, []string{"a", "1", "y"}, combos[1])
	assert.Equal(t, []string{"a", "2", "x"}, combos[2])
	assert.Equal(t, []string{"b", "2", "y"}, combos[7])
}

func TestCartesianStableAcrossCalls(t *testing.T) {
	input := [][]string{{"A", "B"}, {"X", "Y"}, {"1", "2", "3"}}
	first := Cartesian(input)
	second := Cartesian(input)
	assert.Equal(t, first, second)
}

func TestCombinationCount(t *testing.T) {
	assert.Equal(t, 6, CombinationCount([][]string{{"A", "B"}, {"X", "Y", "Z"}}))
	assert.Equal(t, 1, CombinationCount(nil))
	assert.Equal(t, 0, CombinationCount([][]string{{"A"}, {}}))
}

func TestSliceChunkPartitionsWithoutGapsOrOverlaps(t *testing.T) {
	for _, tc := range []struct {
		total     int
		chunkSize int
	}{
		{total: 6, chunkSize: 2},
		{total: 7, chunkSize: 3},
		{total: 1, chunkSize: 20},
		{total: 20, chunkSize: 20},
		{total: 21, chunkSize: 20},
	} {
		values := make([]string, tc.total)
		for i := range values {
			values[i] = string(rune('a' + i))
		}
		combos := Cartesian([][]string{values})

		var seen []string
		offset := 0
		for {
			chunk := SliceChunk(combos, offset, tc.chunkSize)
			for _, c := range chunk {
				seen = append(seen, c[0])
			}
			offset += len(chunk)
			hasMore := offset < len(combos)
			if !hasMore {
				break
			}
			require.NotEmpty(t, chunk, "non-final chunk must not be empty")
		}

		assert.Equal(t, values, seen, "total=%d chunk=%d", tc.total, tc.chunkSize)
		assert.Equal(t, tc.total, offset)
	}
}

func TestSliceChunkClampsAtEnd(t *testing.T) {
	combos := Cartesian([][]string{{"A", "B", "C"}})

	chunk := SliceChunk(combos, 2, 5)
	require.Len(t, chunk, 1)
	assert.Equal(t, []string{"C"}, chunk[0])

	assert.Empty(t, SliceChunk(combos, 3, 5))
	assert.Empty(t, SliceChunk(combos, -1, 5))
	assert.Empty(t, SliceChunk(combos, 0, 0))
}
