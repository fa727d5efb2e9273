package deploy

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMulberry32KnownSequence(t *testing.T) {
	m := NewMulberry32(42)
	assert.Equal(t, 0.6011037519201636, m.Float64())
	assert.Equal(t, 0.44829055899754167, m.Float64())
	assert.Equal(t, 0.8524657934904099, m.Float64())

	z := NewMulberry32(0)
	assert.Equal(t, 0.26642920868471265, z.Float64())
	assert.Equal(t, 0.0003297457005828619, z.Float64())
}

func TestMulberry32Range(t *testing.T) {
	m := NewMulberry32(7)
	for range 10000 {
		v := m.Float64()
		if v < 0 || v >= 1 {
			t.Fatalf("Float64() = %v, outside [0, 1)", v)
		}
	}
}

func TestMulberry32Reproducible(t *testing.T) {
	a, b := NewMulberry32(123456), NewMulberry32(123456)
	for range 100 {
		assert.Equal(t, a.Uint32(), b.Uint32())
	}
}

func TestSystemSourceRange(t *testing.T) {
	src := NewSystemSource()
	for range 1000 {
		v := src.Float64()
		assert.GreaterOrEqual(t, v, 0.0)
		assert.Less(t, v, 1.0)
	}
}

func TestSeedFromStrings(t *testing.T) {
	tests := []struct {
		parts []string
		want  uint32
	}{
		{[]string{"alice", "1700000000000"}, 148870265},
		{[]string{""}, 2166136261},
		{nil, 2166136261},
		{[]string{"", ""}, SeedFromStrings("|")},
		{[]string{"a"}, 468965076},
		{[]string{"🚀"}, 931276136},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, SeedFromStrings(tt.parts...), "parts %q", tt.parts)
	}

	assert.Equal(t, SeedFromStrings("a|b"), SeedFromStrings("a", "b"))
	assert.NotEqual(t, SeedFromStrings("alice", "1"), SeedFromStrings("alice", "2"))
}
