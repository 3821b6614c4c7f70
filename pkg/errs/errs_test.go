package errs

import (
	"errors"
	"fmt"
	"testing"
)

func TestSentinelWrapping(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want error
	}{
		{"not found", NotFoundf("cv %s", "abc"), ErrNotFound},
		{"validation", Validationf("bad status %q", "MAYBE"), ErrValidation},
		{"unsupported", UnsupportedFormatf("mime type %q", "image/png"), ErrUnsupportedFormat},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if !errors.Is(tt.err, tt.want) {
				t.Errorf("errors.Is(%v, %v) = false", tt.err, tt.want)
			}
			// Double wrapping keeps the sentinel reachable.
			wrapped := fmt.Errorf("outer: %w", tt.err)
			if !errors.Is(wrapped, tt.want) {
				t.Errorf("wrapped error lost its sentinel: %v", wrapped)
			}
		})
	}
}

func TestMessageFormatting(t *testing.T) {
	err := NotFoundf("candidate %s", "42")
	want := "candidate 42: not found"
	if err.Error() != want {
		t.Errorf("Error() = %q, want %q", err.Error(), want)
	}
}
