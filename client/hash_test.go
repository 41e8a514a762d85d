package client

import "testing"

// TestHashCode tests the name hashing against known values
func TestHashCode(t *testing.T) {
	cases := map[string]int32{
		"":      0,
		"abc":   96354,
		"hello": 99162322,
	}
	for name, want := range cases {
		if got := HashCode(name); got != want {
			t.Errorf("HashCode(%q) = %d, want %d", name, got, want)
		}
	}
}

// TestHashCodeDeterministic tests that repeated hashing yields the same id
func TestHashCodeDeterministic(t *testing.T) {
	for _, name := range []string{"default", "my-cache", "TEST_Cache_42"} {
		if HashCode(name) != HashCode(name) {
			t.Errorf("HashCode(%q) is not stable", name)
		}
	}
}
