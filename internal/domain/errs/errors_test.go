package errs

import (
	"errors"
	"fmt"
	"testing"
)

func TestKindOf_Wrapped(t *testing.T) {
	base := New(KindSymbolNotFound, "Invalid stock symbol or name.")
	wrapped := fmt.Errorf("predict: %w", base)

	if KindOf(wrapped) != KindSymbolNotFound {
		t.Fatalf("kind lost through wrapping: %v", KindOf(wrapped))
	}
	if MessageOf(wrapped) != "Invalid stock symbol or name." {
		t.Fatalf("message = %q", MessageOf(wrapped))
	}
}

func TestMessageOf_UnclassifiedNeverLeaks(t *testing.T) {
	err := errors.New("dial tcp 10.0.0.1:6379: connection refused")
	if got := MessageOf(err); got != "internal error" {
		t.Fatalf("unclassified error leaked: %q", got)
	}
}

func TestWrap_PreservesCause(t *testing.T) {
	cause := errors.New("boom")
	err := Wrap(KindUpstream, "symbol search failed", cause)
	if !errors.Is(err, cause) {
		t.Fatal("cause not reachable via errors.Is")
	}
	if !Is(err, KindUpstream) {
		t.Fatal("kind not reported")
	}
}
