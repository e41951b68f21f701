package id

import (
	"regexp"
	"testing"
)

var reID = regexp.MustCompile(`^[a-f0-9]{32}$`)

func TestNewID32_Shape(t *testing.T) {
	for i := 0; i < 10; i++ {
		got := NewID32()
		if !reID.MatchString(got) {
			t.Fatalf("id %q is not 32-char lowercase hex", got)
		}
	}
}

func TestNewID32_Uniqueness(t *testing.T) {
	const n = 500
	seen := make(map[string]struct{}, n)
	for i := 0; i < n; i++ {
		v := NewID32()
		if _, ok := seen[v]; ok {
			t.Fatalf("duplicate id after %d draws: %q", i, v)
		}
		seen[v] = struct{}{}
	}
}
