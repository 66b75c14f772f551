package version_test

import (
	"runtime"
	"strings"
	"testing"

	"github.com/ludo-technologies/unflat/internal/version"
)

func TestShort(t *testing.T) {
	if version.Short() == "" {
		t.Error("Short() should return non-empty string")
	}
}

func TestInfo(t *testing.T) {
	info := version.Info()

	if !strings.Contains(info, "unflat") {
		t.Error("Info() should contain 'unflat'")
	}
	if !strings.Contains(info, runtime.Version()) {
		t.Errorf("Info() should contain Go version %s", runtime.Version())
	}
	expectedArch := runtime.GOOS + "/" + runtime.GOARCH
	if !strings.Contains(info, expectedArch) {
		t.Errorf("Info() should contain OS/Arch %s", expectedArch)
	}
	for _, field := range []string{"Commit:", "Built:", "Go:", "OS/Arch:"} {
		if !strings.Contains(info, field) {
			t.Errorf("Info() should contain %s field", field)
		}
	}
}

func TestInfoFormat(t *testing.T) {
	lines := strings.Split(version.Info(), "\n")

	if len(lines) < 5 {
		t.Fatalf("Info() should contain 5 lines, got %d", len(lines))
	}
	expectedPrefixes := []string{"unflat ", "Commit:", "Built:", "Go:", "OS/Arch:"}
	for i, prefix := range expectedPrefixes {
		if !strings.HasPrefix(lines[i], prefix) {
			t.Errorf("line %d should start with %q, got %q", i+1, prefix, lines[i])
		}
	}
}
