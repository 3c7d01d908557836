package fanout

import (
	"testing"
)

func TestMap(t *testing.T) {
	items := make([]int, 100)
	for i := range items {
		items[i] = i
	}

	for _, workers := range []int{1, 4, 100, 0, -3} {
		got := Map(items, workers, func(item, index int) int {
			return item * 2
		})

		if len(got) != len(items) {
			t.Fatalf("Map(workers=%d) returned %d results, want %d", workers, len(got), len(items))
		}
		for i, v := range got {
			if v != i*2 {
				t.Errorf("Map(workers=%d) result[%d] = %d, want %d", workers, i, v, i*2)
			}
		}
	}
}

func TestMapIndexArgument(t *testing.T) {
	got := Map([]string{"a", "b", "c"}, 2, func(item string, index int) int {
		return index
	})

	for i, v := range got {
		if v != i {
			t.Errorf("Map result[%d] = %d, want the item's own index", i, v)
		}
	}
}

func TestMapEmpty(t *testing.T) {
	got := Map(nil, 4, func(item, index int) int { return 0 })
	if len(got) != 0 {
		t.Errorf("Map(nil) returned %d results, want 0", len(got))
	}
}
