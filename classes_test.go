package msgpool

import "testing"

func TestClassOfBoundaries(t *testing.T) {
	base := 64

	cases := []struct {
		n    int
		want int
	}{
		{1, 0},
		{64, 0},
		{65, 1},
		{128, 1},
		{129, 2},
		{256, 2},
	}

	for _, tc := range cases {
		if got := classOf(tc.n, base); got != tc.want {
			t.Errorf("classOf(%d, %d) = %d, want %d", tc.n, base, got, tc.want)
		}
	}
}

func TestSizeOfRoundTrip(t *testing.T) {
	base := 64
	for b := 0; b < 8; b++ {
		size := sizeOf(b, base)
		if classOf(size, base) != b {
			t.Errorf("classOf(sizeOf(%d, %d), %d) = %d, want %d", b, base, base, classOf(size, base), b)
		}
		if classOf(size+1, base) != b+1 {
			t.Errorf("classOf(sizeOf(%d)+1) = %d, want %d", b, classOf(size+1, base), b+1)
		}
	}
}

func TestPoolClassOfAndSizeOf(t *testing.T) {
	p, err := New(Config{BaseSize: 32})
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	if got := p.ClassOf(1); got != 0 {
		t.Errorf("ClassOf(1) = %d, want 0", got)
	}
	if got := p.SizeOf(0); got != 32 {
		t.Errorf("SizeOf(0) = %d, want 32", got)
	}
	if got := p.ClassOf(33); got != 1 {
		t.Errorf("ClassOf(33) = %d, want 1", got)
	}
}
