package splitter

import (
	"strings"
	"testing"
)

func ranges(t *testing.T, src string) []Range {
	t.Helper()
	return Split([]byte(src))
}

func rangeText(src string, r Range) string {
	return src[r.Start:r.End]
}

func TestSplitSingleDocument(t *testing.T) {
	src := "a: 1\nb: 2\n"
	got := ranges(t, src)
	if len(got) != 1 {
		t.Fatalf("ranges = %d, want 1", len(got))
	}
	if rangeText(src, got[0]) != src {
		t.Errorf("range text = %q", rangeText(src, got[0]))
	}
}

func TestSplitEmptyInput(t *testing.T) {
	got := ranges(t, "")
	if len(got) != 1 || got[0].Start != 0 || got[0].End != 0 {
		t.Fatalf("ranges = %+v, want one empty range", got)
	}
}

func TestSplitMultiDocument(t *testing.T) {
	src := "a: 1\n---\nb: 2\n---\nc: 3\n"
	got := ranges(t, src)
	if len(got) != 3 {
		t.Fatalf("ranges = %d, want 3", len(got))
	}
	if rangeText(src, got[0]) != "a: 1\n" {
		t.Errorf("range 0 = %q", rangeText(src, got[0]))
	}
	if rangeText(src, got[1]) != "---\nb: 2\n" {
		t.Errorf("range 1 = %q", rangeText(src, got[1]))
	}
	if got[1].Origin.Line != 2 {
		t.Errorf("range 1 origin line = %d, want 2", got[1].Origin.Line)
	}
	if got[2].Origin.Line != 4 {
		t.Errorf("range 2 origin line = %d, want 4", got[2].Origin.Line)
	}
}

func TestSplitLeadingMarker(t *testing.T) {
	src := "---\na: 1\n---\nb: 2\n"
	got := ranges(t, src)
	if len(got) != 2 {
		t.Fatalf("ranges = %d, want 2", len(got))
	}
	if rangeText(src, got[0]) != "---\na: 1\n" {
		t.Errorf("range 0 = %q", rangeText(src, got[0]))
	}
}

func TestSplitLeadingCommentsAttachToFirstDocument(t *testing.T) {
	src := "# header\n%YAML 1.2\n---\na: 1\n"
	got := ranges(t, src)
	if len(got) != 1 {
		t.Fatalf("ranges = %d, want 1", len(got))
	}
	if got[0].Start != 0 {
		t.Errorf("range start = %d, want 0", got[0].Start)
	}
}

func TestSplitMarkerInsideBlockScalarIgnored(t *testing.T) {
	src := "text: |\n  ---\n  not a marker\nnext: 1\n"
	got := ranges(t, src)
	if len(got) != 1 {
		t.Fatalf("ranges = %d, want 1: %+v", len(got), got)
	}
}

func TestSplitMarkerAfterBlockScalar(t *testing.T) {
	src := "text: |\n  body\n---\nb: 2\n"
	got := ranges(t, src)
	if len(got) != 2 {
		t.Fatalf("ranges = %d, want 2", len(got))
	}
	if !strings.HasPrefix(rangeText(src, got[1]), "---") {
		t.Errorf("range 1 = %q", rangeText(src, got[1]))
	}
}

func TestSplitMarkerInsideQuotedScalarIgnored(t *testing.T) {
	src := "a: \"multi\n--- line\"\nb: 1\n"
	got := ranges(t, src)
	if len(got) != 1 {
		t.Fatalf("ranges = %d, want 1", len(got))
	}
}

func TestSplitMarkerInsideFlowIgnored(t *testing.T) {
	src := "a: [1,\n2]\n---\nb: 1\n"
	got := ranges(t, src)
	if len(got) != 2 {
		t.Fatalf("ranges = %d, want 2: %+v", len(got), got)
	}
}

func TestSplitPlainBracketsDoNotOpenFlow(t *testing.T) {
	// brackets inside a plain scalar are not flow indicators
	src := "cmd: echo a[0]\n---\nb: 1\n"
	got := ranges(t, src)
	if len(got) != 2 {
		t.Fatalf("ranges = %d, want 2", len(got))
	}
}

func TestSplitDocEndThenContent(t *testing.T) {
	src := "a: 1\n...\nb: 2\n"
	got := ranges(t, src)
	if len(got) != 2 {
		t.Fatalf("ranges = %d, want 2: %+v", len(got), got)
	}
	if rangeText(src, got[1]) != "b: 2\n" {
		t.Errorf("range 1 = %q", rangeText(src, got[1]))
	}
}

func TestSplitBareMarkers(t *testing.T) {
	src := "---\n---\n"
	got := ranges(t, src)
	if len(got) != 2 {
		t.Fatalf("ranges = %d, want 2", len(got))
	}
}
