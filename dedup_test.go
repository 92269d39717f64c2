package dpc

import (
	"math"
	"testing"
)

func angleDiff(a, b float64) float64 { return b - a }

func TestDeduplicate_KeepsLowerIndex(t *testing.T) {
	kept, pairs := Deduplicate([]float64{10, 12}, angleDiff, 5)
	if len(kept) != 1 || kept[0] != 0 {
		t.Errorf("kept = %v, want [0]", kept)
	}
	if len(pairs) != 1 || pairs[0] != [2]int{0, 1} {
		t.Errorf("pairs = %v, want [[0 1]]", pairs)
	}
}

func TestDeduplicate_UsesMagnitude(t *testing.T) {
	// angleDiff(10, 7) = -3, still close.
	kept, _ := Deduplicate([]float64{10, 7}, angleDiff, 5)
	if len(kept) != 1 || kept[0] != 0 {
		t.Errorf("kept = %v, want [0]", kept)
	}
}

func TestDeduplicate_ThresholdIsExclusive(t *testing.T) {
	kept, pairs := Deduplicate([]float64{0, 5}, angleDiff, 5)
	if len(kept) != 2 || len(pairs) != 0 {
		t.Errorf("kept = %v pairs = %v, want both kept", kept, pairs)
	}
}

func TestDeduplicate_DroppedItemDoesNotDrop(t *testing.T) {
	// 0-1 close and 1-2 close, 0-2 far: 1 is dropped by 0, so 1 cannot
	// drop 2.
	kept, pairs := Deduplicate([]float64{0, 4, 8}, angleDiff, 5)
	want := []int{0, 2}
	if len(kept) != len(want) || kept[0] != want[0] || kept[1] != want[1] {
		t.Errorf("kept = %v, want %v", kept, want)
	}
	if len(pairs) != 2 {
		t.Errorf("pairs = %v, want 2 close pairs", pairs)
	}
}

func TestDeduplicate_Chain(t *testing.T) {
	kept, _ := Deduplicate([]float64{0, 1, 2, 3, 50, 51}, angleDiff, 5)
	want := []int{0, 4}
	if len(kept) != len(want) {
		t.Fatalf("kept = %v, want %v", kept, want)
	}
	for i := range want {
		if kept[i] != want[i] {
			t.Errorf("kept = %v, want %v", kept, want)
		}
	}
}

func TestDeduplicate_SmallInputs(t *testing.T) {
	if kept, pairs := Deduplicate(nil, angleDiff, 5); len(kept) != 0 || len(pairs) != 0 {
		t.Errorf("empty input: got %v %v", kept, pairs)
	}
	if kept, _ := Deduplicate([]float64{math.Pi}, angleDiff, 5); len(kept) != 1 {
		t.Errorf("single input: got %v", kept)
	}
}
