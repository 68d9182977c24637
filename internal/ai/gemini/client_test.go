package gemini

import (
	"net/http"
	"testing"

	"google.golang.org/genai"
)

func TestIsTemporary(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		err    error
		expect bool
	}{
		{
			name:   "internal error is temporary",
			err:    genai.APIError{Code: http.StatusInternalServerError, Status: "INTERNAL"},
			expect: true,
		},
		{
			name:   "rate limit is temporary",
			err:    genai.APIError{Code: http.StatusTooManyRequests, Status: "RESOURCE_EXHAUSTED"},
			expect: true,
		},
		{
			name:   "bad request is permanent",
			err:    genai.APIError{Code: http.StatusBadRequest, Status: "INVALID_ARGUMENT"},
			expect: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := isTemporary(tt.err); got != tt.expect {
				t.Errorf("got %v, want %v", got, tt.expect)
			}
		})
	}
}
