package sigward

import (
	"strings"
	"testing"
)

func TestCallsiteFormat(t *testing.T) {
	t.Parallel()

	site := &Callsite{
		Frames: []CallFrame{
			{Function: "pkg.inner", File: "/path/to/pkg/inner.go", Line: 41},
			{Function: "", File: "/path/to/pkg/glue.go", Line: 7},
		},
		Parent: &Callsite{
			Frames: []CallFrame{
				{Function: "pkg.outer", File: "/path/to/pkg/outer.go", Line: 12},
			},
		},
	}

	expected := strings.Join([]string{
		"\tpkg.inner (/path/to/pkg/inner.go:41)",
		"\t<unknown function> (/path/to/pkg/glue.go:7)",
		"opened within:",
		"\tpkg.outer (/path/to/pkg/outer.go:12)",
		"",
	}, "\n")

	if got := site.String(); got != expected {
		t.Fatalf("expected %q, got %q", expected, got)
	}

	var nilSite *Callsite
	if got := nilSite.String(); got != "<unknown callsite>" {
		t.Fatalf("unexpected nil formatting %q", got)
	}
}

func TestCaptureCallsite(t *testing.T) {
	t.Parallel()

	parent := captureCallsite(nil, 0)
	site := captureCallsite(parent, 0)

	if len(site.Frames) == 0 {
		t.Fatal("no frames captured")
	}
	if len(site.Frames) > maxCallsiteFrames {
		t.Fatalf("captured %d frames, limit is %d", len(site.Frames), maxCallsiteFrames)
	}
	if site.Parent != parent {
		t.Fatal("parent link lost")
	}
	if !strings.Contains(site.Frames[0].Function, "TestCaptureCallsite") {
		t.Fatalf("first frame should be the caller, got %q", site.Frames[0].Function)
	}
	if !strings.Contains(site.String(), "opened within:") {
		t.Fatalf("parent section missing from %q", site.String())
	}
}
