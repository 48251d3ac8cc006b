package envutil

import (
	"testing"
	"time"
)

func TestDuration(t *testing.T) {
	t.Setenv("ENVUTIL_TEST_DURATION", "90s")
	if got := Duration("ENVUTIL_TEST_DURATION", time.Second); got != 90*time.Second {
		t.Fatalf("duration: want=90s got=%s", got)
	}
	t.Setenv("ENVUTIL_TEST_DURATION", "15")
	if got := Duration("ENVUTIL_TEST_DURATION", time.Second); got != 15*time.Second {
		t.Fatalf("bare seconds: want=15s got=%s", got)
	}
	t.Setenv("ENVUTIL_TEST_DURATION", "soon")
	if got := Duration("ENVUTIL_TEST_DURATION", time.Minute); got != time.Minute {
		t.Fatalf("fallback: want=1m got=%s", got)
	}
}

func TestBoolAndList(t *testing.T) {
	t.Setenv("ENVUTIL_TEST_BOOL", "off")
	if Bool("ENVUTIL_TEST_BOOL", true) {
		t.Fatalf("expected false for off")
	}
	t.Setenv("ENVUTIL_TEST_BOOL", "maybe")
	if !Bool("ENVUTIL_TEST_BOOL", true) {
		t.Fatalf("expected default for unparsable value")
	}

	t.Setenv("ENVUTIL_TEST_LIST", " a, ,b ,")
	got := List("ENVUTIL_TEST_LIST", nil)
	if len(got) != 2 || got[0] != "a" || got[1] != "b" {
		t.Fatalf("list: got=%v", got)
	}
}
