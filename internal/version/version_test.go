package version

import "testing"

// Tests below mutate package variables and must not run in parallel.

func TestString_NormalizesPrefix(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"no prefix", "2.0.2", "v2.0.2"},
		{"with v prefix", "v2.0.2", "v2.0.2"},
		{"dev", "dev", "vdev"},
		{"git describe", "v2.0.2-3-g1a2b3c4", "v2.0.2-3-g1a2b3c4"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			original := Version
			defer func() { Version = original }()

			Version = tt.input
			if got := String(); got != tt.want {
				t.Errorf("String() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestLong(t *testing.T) {
	origVersion, origCommit := Version, Commit
	defer func() { Version, Commit = origVersion, origCommit }()

	Version, Commit = "1.1.0", ""
	if got := Long(); got != "nrfcredstore v1.1.0" {
		t.Errorf("Long() = %q", got)
	}

	Commit = "1a2b3c4"
	if got := Long(); got != "nrfcredstore v1.1.0 (1a2b3c4)" {
		t.Errorf("Long() = %q", got)
	}
}
