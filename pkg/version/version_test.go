package version

import (
	"strings"
	"testing"
)

func TestBuildVersion(t *testing.T) {
	if !strings.HasPrefix(BuildVersion(), "docsearch version "+Version) {
		t.Errorf("unexpected version string %q", BuildVersion())
	}

	old := Commit
	Commit = "abc1234"
	defer func() { Commit = old }()
	if got := BuildVersion(); got != "docsearch version "+Version+" (abc1234)" {
		t.Errorf("unexpected version string with commit %q", got)
	}
	if APIVersion() != Version {
		t.Errorf("unexpected API version %q", APIVersion())
	}
}
