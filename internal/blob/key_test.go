package blob

import (
	"strings"
	"testing"
)

func TestObjectKeyPrefixAndSuffix(t *testing.T) {
	key := ObjectKey("task-42", "report.pdf")
	if !strings.HasPrefix(key, "task-42/") {
		t.Fatalf("key missing task prefix: %q", key)
	}
	if !strings.HasSuffix(key, "-report.pdf") {
		t.Fatalf("key missing filename suffix: %q", key)
	}
}

func TestObjectKeyUniquePerCall(t *testing.T) {
	a := ObjectKey("t1", "same.txt")
	b := ObjectKey("t1", "same.txt")
	if a == b {
		t.Fatalf("expected distinct keys, got %q twice", a)
	}
}

func TestSanitizeSegment(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"plain-name.txt", "plain-name.txt"},
		{"has spaces.png", "has_spaces.png"},
		{"weird/../..//chars", "weird_.._.._chars"},
		{"émoji☺file", "_moji_file"},
		{"", "_"},
	}
	for _, tc := range cases {
		if got := sanitizeSegment(tc.in); got != tc.want {
			t.Errorf("sanitizeSegment(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}
