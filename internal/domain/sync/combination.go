package sync

// Cartesian computes the full ordered list of N-tuples over an ordered list
// of N value-lists. Tuple ordering is odometer order: the last list's index
// cycles fastest. Chunk boundaries are derived from positions in this list,
// so the ordering must be reproduced identically on every call for the same
// input.
//
// The full list is recomputed on every step rather than persisted; that
// keeps the server stateless at the cost of O(total combinations) work per
// chunk call, which dominates for large option cardinalities.
func Cartesian(valueLists [][]string) [][]string {
	result := [][]string{{}}
	for _, values := range valueLists {
		next := make([][]string, 0, len(result)*len(values))
		for _, prefix := range result {
			for _, v := range values {
				combo := make([]string, len(prefix), len(prefix)+1)
				copy(combo, prefix)
				next = append(next, append(combo, v))
			}
		}
		result = next
	}
	return result
}

// CombinationCount returns the product of the value counts without
// materializing the combinations. Zero lists yield one (empty) combination,
// matching Cartesian.
func CombinationCount(valueLists [][]string) int {
	count := 1
	for _, values := range valueLists {
		count *= len(values)
	}
	return count
}

// SliceChunk returns combos[offset:offset+chunkSize], clamped to the list
// bounds. An offset at or past the end yields an empty chunk.
func SliceChunk(combos [][]string, offset, chunkSize int) [][]string {
	if offset >= len(combos) || offset < 0 || chunkSize <= 0 {
		return nil
	}
	end := offset + chunkSize
	if end > len(combos) {
		end = len(combos)
	}
	return combos[offset:end]
}
