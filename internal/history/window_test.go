// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package history

import (
	"testing"
)

func seq(n int) []int {
	out := make([]int, n)
	for i := range out {
		out[i] = i
	}
	return out
}

func TestApplySlidingWindow(t *testing.T) {
	tests := []struct {
		name    string
		n       int
		max     int
		wantLen int
		first   int
	}{
		{"under limit", 5, 20, 5, 0},
		{"at limit", 20, 20, 20, 0},
		{"one over drops a pair", 21, 20, 19, 2},
		{"two over", 22, 20, 20, 2},
		{"three over", 23, 20, 19, 4},
		{"max two", 3, 2, 1, 2},
		{"empty", 0, 20, 0, 0},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := ApplySlidingWindow(seq(tc.n), tc.max)
			if len(got) != tc.wantLen {
				t.Fatalf("len = %d, want %d", len(got), tc.wantLen)
			}
			if tc.wantLen > 0 && got[0] != tc.first {
				t.Errorf("first = %d, want %d", got[0], tc.first)
			}
		})
	}
}

func TestApplySlidingWindow_Properties(t *testing.T) {
	for max := 2; max <= 12; max += 2 {
		for n := 0; n <= 30; n++ {
			in := seq(n)
			got := ApplySlidingWindow(in, max)

			if n <= max {
				if len(got) != n {
					t.Fatalf("n=%d max=%d: should be unchanged, got len %d", n, max, len(got))
				}
				continue
			}
			if len(got) != max && len(got) != max-1 {
				t.Fatalf("n=%d max=%d: len %d not in {max-1, max}", n, max, len(got))
			}
			dropped := n - len(got)
			if dropped%2 != 0 {
				t.Fatalf("n=%d max=%d: dropped %d, want even", n, max, dropped)
			}
			// Suffix of the input, order preserved
			for i, v := range got {
				if v != in[dropped+i] {
					t.Fatalf("n=%d max=%d: got[%d] = %d, want %d", n, max, i, v, in[dropped+i])
				}
			}
		}
	}
}

func TestApplySlidingWindow_DoesNotMutateInput(t *testing.T) {
	in := seq(5)
	_ = ApplySlidingWindow(in, 2)
	for i, v := range in {
		if v != i {
			t.Fatalf("input mutated at %d", i)
		}
	}
}

func TestApplySlidingWindow_Disabled(t *testing.T) {
	if got := ApplySlidingWindow(seq(50), 0); len(got) != 50 {
		t.Errorf("max 0 should disable the window, got len %d", len(got))
	}
}
