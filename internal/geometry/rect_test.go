package geometry

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWidthHeight_ReversedBounds(t *testing.T) {
	r := New(10, 20, 0, 5)
	assert.Equal(t, 10, r.Width())
	assert.Equal(t, 15, r.Height())
	assert.Equal(t, 150, r.Area())
}

func TestFromSize(t *testing.T) {
	assert.Equal(t, New(5, 10, 25, 50), FromSize(5, 10, 20, 40))
}

func TestOverlaps(t *testing.T) {
	tests := []struct {
		name string
		a, b Rectangle
		want bool
	}{
		{"identical", New(0, 0, 10, 10), New(0, 0, 10, 10), true},
		{"corner overlap", New(0, 0, 10, 10), New(5, 5, 15, 15), true},
		{"contained", New(0, 0, 100, 100), New(10, 10, 20, 20), true},
		{"touching right edge", New(0, 0, 10, 10), New(10, 0, 20, 10), false},
		{"touching bottom edge", New(0, 0, 10, 10), New(0, 10, 10, 20), false},
		{"touching corner", New(0, 0, 10, 10), New(10, 10, 20, 20), false},
		{"disjoint", New(0, 0, 10, 10), New(50, 50, 60, 60), false},
		{"cross", New(0, 4, 10, 6), New(4, 0, 6, 10), true},
		{"empty", New(5, 5, 5, 5), New(0, 0, 10, 10), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.a.Overlaps(tt.b))
			assert.Equal(t, tt.want, tt.b.Overlaps(tt.a), "overlap must be symmetric")
		})
	}
}

func TestSplit_CornerOverlap(t *testing.T) {
	a := New(0, 0, 10, 10)
	b := New(5, 5, 15, 15)

	overlap, remainders, ok := a.Split(b)
	require.True(t, ok)
	assert.Equal(t, New(5, 5, 10, 10), overlap)
	assert.Equal(t, []Rectangle{
		New(0, 0, 10, 5),
		New(0, 5, 5, 10),
	}, remainders)
}

func TestSplit_ContainedHasFourRemainders(t *testing.T) {
	a := New(0, 0, 30, 30)
	b := New(10, 10, 20, 20)

	overlap, remainders, ok := a.Split(b)
	require.True(t, ok)
	assert.Equal(t, b, overlap)
	assert.Len(t, remainders, 4)
}

func TestSplit_FullyCoveredHasNoRemainders(t *testing.T) {
	overlap, remainders, ok := New(2, 2, 4, 4).Split(New(0, 0, 10, 10))
	require.True(t, ok)
	assert.Equal(t, New(2, 2, 4, 4), overlap)
	assert.Empty(t, remainders)
}

func TestSplit_NoOverlap(t *testing.T) {
	_, remainders, ok := New(0, 0, 10, 10).Split(New(10, 0, 20, 10))
	assert.False(t, ok)
	assert.Nil(t, remainders)
}

// TestSplit_PartitionsOriginal checks every overlapping pair on a small grid:
// each unit cell of a is covered exactly once by the overlap and remainders.
func TestSplit_PartitionsOriginal(t *testing.T) {
	a := New(2, 2, 7, 6)
	for left := 0; left < 9; left++ {
		for top := 0; top < 8; top++ {
			for right := left + 1; right <= 9; right++ {
				for bottom := top + 1; bottom <= 8; bottom++ {
					b := New(left, top, right, bottom)
					overlap, remainders, ok := a.Split(b)
					require.Equal(t, a.Overlaps(b), ok, "split/overlaps disagree for %v", b)
					if !ok {
						continue
					}
					assertTiles(t, a, append([]Rectangle{overlap}, remainders...), b)
				}
			}
		}
	}
}

func assertTiles(t *testing.T, whole Rectangle, pieces []Rectangle, against Rectangle) {
	t.Helper()

	area := 0
	for _, p := range pieces {
		require.False(t, p.Empty(), "empty piece %v splitting %v by %v", p, whole, against)
		area += p.Area()
	}
	require.Equal(t, whole.Area(), area, "area mismatch splitting %v by %v", whole, against)

	for x := whole.Left; x < whole.Right; x++ {
		for y := whole.Top; y < whole.Bottom; y++ {
			covered := 0
			for _, p := range pieces {
				if p.ContainsPoint(x, y) {
					covered++
				}
			}
			require.Equal(t, 1, covered, "cell (%d,%d) covered %d times splitting %v by %v", x, y, covered, whole, against)
		}
	}
}

func TestContainsPoint(t *testing.T) {
	r := New(0, 0, 10, 10)
	assert.True(t, r.ContainsPoint(0, 0))
	assert.True(t, r.ContainsPoint(9, 9))
	assert.False(t, r.ContainsPoint(10, 5))
	assert.False(t, r.ContainsPoint(5, 10))
	assert.False(t, r.ContainsPoint(-1, 5))
}
