package envutil

import (
	"testing"
	"time"
)

func TestDefaultsAndParsing(t *testing.T) {
	t.Setenv("ENVUTIL_INT", "42")
	t.Setenv("ENVUTIL_BAD_INT", "forty")
	t.Setenv("ENVUTIL_BOOL", "off")
	t.Setenv("ENVUTIL_DUR", "90")
	t.Setenv("ENVUTIL_DUR2", "1m30s")
	t.Setenv("ENVUTIL_STR", "  hello ")

	if got := Int("ENVUTIL_INT", 1); got != 42 {
		t.Fatalf("Int=%d", got)
	}
	if got := Int("ENVUTIL_BAD_INT", 7); got != 7 {
		t.Fatalf("Int fallback=%d", got)
	}
	if Bool("ENVUTIL_BOOL", true) {
		t.Fatalf("Bool should parse off as false")
	}
	if !Bool("ENVUTIL_MISSING", true) {
		t.Fatalf("Bool should fall back to default")
	}
	if got := Duration("ENVUTIL_DUR", time.Second); got != 90*time.Second {
		t.Fatalf("Duration seconds=%s", got)
	}
	if got := Duration("ENVUTIL_DUR2", time.Second); got != 90*time.Second {
		t.Fatalf("Duration string=%s", got)
	}
	if got := String("ENVUTIL_STR", "x"); got != "hello" {
		t.Fatalf("String=%q", got)
	}
	if got := String("ENVUTIL_MISSING", "x"); got != "x" {
		t.Fatalf("String default=%q", got)
	}
}
