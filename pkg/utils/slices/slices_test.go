package slices_test

import (
	"strconv"
	"testing"

	"github.com/framehubio/framehub/pkg/cmp"
	"github.com/framehubio/framehub/pkg/utils/slices"
)

func TestMap(t *testing.T) {
	t.Run("it converts each item", func(t *testing.T) {
		actual := slices.Map([]int{1, 2, 3}, strconv.Itoa)
		if !cmp.SliceEq(actual, []string{"1", "2", "3"}) {
			t.Errorf("unexpected result: %v", actual)
		}
	})

	t.Run("it passes nil through", func(t *testing.T) {
		if actual := slices.Map(nil, strconv.Itoa); actual != nil {
			t.Errorf("unexpected result: %v", actual)
		}
	})
}

func TestFirst(t *testing.T) {
	t.Run("it finds the first match", func(t *testing.T) {
		v, ok := slices.First([]int{1, 2, 3, 4}, func(n int) bool { return n%2 == 0 })
		if !ok || v != 2 {
			t.Errorf("unexpected result: (%v, %v)", v, ok)
		}
	})

	t.Run("it reports missing match", func(t *testing.T) {
		_, ok := slices.First([]int{1, 3}, func(n int) bool { return n%2 == 0 })
		if ok {
			t.Error("found item unexpectedly")
		}
	})
}

func TestBatch(t *testing.T) {
	t.Run("it chunks a slice, leaving the remainder last", func(t *testing.T) {
		actual := slices.Batch([]int{1, 2, 3, 4, 5}, 2)
		expected := [][]int{{1, 2}, {3, 4}, {5}}
		if len(actual) != len(expected) {
			t.Fatalf("unexpected chunks: %v", actual)
		}
		for i := range expected {
			if !cmp.SliceEq(actual[i], expected[i]) {
				t.Errorf("chunk #%d: expected %v, got %v", i, expected[i], actual[i])
			}
		}
	})

	t.Run("non-positive size means a single chunk", func(t *testing.T) {
		actual := slices.Batch([]int{1, 2, 3}, 0)
		if len(actual) != 1 || !cmp.SliceEq(actual[0], []int{1, 2, 3}) {
			t.Errorf("unexpected chunks: %v", actual)
		}
	})

	t.Run("empty slice gives no chunk", func(t *testing.T) {
		if actual := slices.Batch([]int{}, 3); len(actual) != 0 {
			t.Errorf("unexpected chunks: %v", actual)
		}
	})
}

func TestUnique(t *testing.T) {
	t.Run("it drops duplicated items, keeping first occurrences", func(t *testing.T) {
		actual := slices.Unique([]string{"a", "b", "a", "c", "b"})
		expected := []string{"a", "b", "c"}
		if !cmp.SliceEq(actual, expected) {
			t.Errorf("expected %v, got %v", expected, actual)
		}
	})

	t.Run("a slice without duplication is kept as is", func(t *testing.T) {
		actual := slices.Unique([]int{3, 1, 2})
		if !cmp.SliceEq(actual, []int{3, 1, 2}) {
			t.Errorf("unexpected result: %v", actual)
		}
	})
}
