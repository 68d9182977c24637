package secrets

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoad(t *testing.T) {
	t.Parallel()

	keyFile := filepath.Join(t.TempDir(), "key")
	if err := os.WriteFile(keyFile, []byte("  file-secret \n"), 0o600); err != nil {
		t.Fatalf("seed file: %v", err)
	}

	tests := []struct {
		name      string
		src       Source
		expect    string
		expectErr bool
	}{
		{
			name:   "inline value",
			src:    Source{Name: "api key", Value: " inline "},
			expect: "inline",
		},
		{
			name:   "file takes precedence and trims",
			src:    Source{Name: "api key", Value: "inline", File: keyFile},
			expect: "file-secret",
		},
		{
			name:      "nothing configured",
			src:       Source{Name: "api key"},
			expectErr: true,
		},
		{
			name:      "missing file",
			src:       Source{Name: "api key", File: filepath.Join(t.TempDir(), "absent")},
			expectErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := Load(tt.src)
			if tt.expectErr {
				if err == nil {
					t.Fatal("expected an error")
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.expect {
				t.Errorf("got %q, want %q", got, tt.expect)
			}
		})
	}
}
