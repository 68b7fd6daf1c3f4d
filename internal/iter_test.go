package internal

import (
	"maps"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSortedAll(t *testing.T) {
	assert := assert.New(t)

	m := map[string]int{"c": 3, "a": 1, "b": 2}

	var keys []string
	for key, val := range SortedAll(m) {
		keys = append(keys, key)
		assert.Equal(m[key], val)
	}

	assert.Equal([]string{"a", "b", "c"}, keys)
}

func TestIterSeq2Concat(t *testing.T) {
	assert := assert.New(t)

	a := map[string]int{"a": 1}
	b := map[string]int{"b": 2, "c": 3}

	all := maps.Collect(IterSeq2Concat(maps.All(a), maps.All(b)))
	assert.Equal(map[string]int{"a": 1, "b": 2, "c": 3}, all)

	// Early stop.
	count := 0
	for range IterSeq2Concat(SortedAll(a), SortedAll(b)) {
		count++
		if count == 2 {
			break
		}
	}
	assert.Equal(2, count)
}
