package nanoid

import (
	"math"
	"strings"
	"testing"
)

func TestNew_Length(t *testing.T) {
	for _, size := range []int{1, 2, 8, 21, 32, 64, 128} {
		id, err := New(size)
		if err != nil {
			t.Fatalf("New(%d): %v", size, err)
		}
		if len(id) != size {
			t.Errorf("New(%d) returned %d chars", size, len(id))
		}
	}
}

func TestNew_AlphabetOnly(t *testing.T) {
	id, err := New(512)
	if err != nil {
		t.Fatal(err)
	}
	for _, c := range id {
		if !strings.ContainsRune(alphabet, c) {
			t.Errorf("character %q not in alphabet", c)
		}
	}
}

func TestNew_InvalidSize(t *testing.T) {
	for _, size := range []int{0, -1, -32} {
		if _, err := New(size); err == nil {
			t.Errorf("New(%d): expected error", size)
		}
	}
}

func TestNewDefault_Size(t *testing.T) {
	id, err := NewDefault()
	if err != nil {
		t.Fatal(err)
	}
	if len(id) != DefaultSize {
		t.Errorf("expected %d chars, got %d", DefaultSize, len(id))
	}
}

func TestNew_NoRepeats(t *testing.T) {
	seen := make(map[string]bool)
	for range 1000 {
		id, err := New(21)
		if err != nil {
			t.Fatal(err)
		}
		if seen[id] {
			t.Fatalf("duplicate id %q", id)
		}
		seen[id] = true
	}
}

// TestMask_Range checks that the low-6-bit mask maps every byte value into
// a valid alphabet index.
func TestMask_Range(t *testing.T) {
	for b := 0; b < 256; b++ {
		idx := byte(b) & 63
		if idx >= 64 {
			t.Fatalf("byte %d masks to out-of-range index %d", b, idx)
		}
	}
}

// TestNew_Uniformity runs a chi-square goodness-of-fit test over character
// frequencies. With 63 degrees of freedom the 99.9% critical value is about
// 103.4; the bound sits well above it so a uniform generator passes in
// practice while a modulo-biased mapping fails by orders of magnitude.
func TestNew_Uniformity(t *testing.T) {
	const samples = 200_000
	counts := make(map[rune]int, 64)

	remaining := samples
	for remaining > 0 {
		n := 1000
		if remaining < n {
			n = remaining
		}
		id, err := New(n)
		if err != nil {
			t.Fatal(err)
		}
		for _, c := range id {
			counts[c]++
		}
		remaining -= n
	}

	expected := float64(samples) / 64
	var chi2 float64
	for _, c := range alphabet {
		diff := float64(counts[c]) - expected
		chi2 += diff * diff / expected
	}

	if chi2 > 150 {
		t.Errorf("chi-square %.1f too high for uniform distribution", chi2)
	}
	if math.IsNaN(chi2) {
		t.Error("chi-square is NaN")
	}
}
