package version_test

import (
	"testing"

	"github.com/lsalmela/soitin/version"
)

func TestStringPrefersBuildTimeVersion(t *testing.T) {
	old := version.Version
	defer func() { version.Version = old }()
	version.Version = "v1.2.3"
	if got := version.String(); got != "v1.2.3" {
		t.Errorf("String() = %q, want v1.2.3", got)
	}
}
