// ABOUTME: Tests for version identification
// ABOUTME: Checks the version format and the banner string
package version

import (
	"regexp"
	"testing"
)

func TestVersionIsSemantic(t *testing.T) {
	if !regexp.MustCompile(`^\d+\.\d+\.\d+$`).MatchString(Version) {
		t.Errorf("Version %q is not major.minor.patch", Version)
	}
}

func TestString(t *testing.T) {
	want := "Resonate Tone v" + Version
	if got := String(); got != want {
		t.Errorf("String() = %q, want %q", got, want)
	}
}
