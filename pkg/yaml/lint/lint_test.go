package lint

import (
	"encoding/json"
	"reflect"
	"strings"
	"testing"
)

func rulesOf(diags []Diagnostic) []string {
	var out []string
	for _, d := range diags {
		out = append(out, d.Rule)
	}
	return out
}

func find(diags []Diagnostic, rule string) *Diagnostic {
	for i := range diags {
		if diags[i].Rule == rule {
			return &diags[i]
		}
	}
	return nil
}

func TestLintCleanSource(t *testing.T) {
	diags := Lint([]byte("name: test\nitems:\n  - 1\n  - 2\n"), Config{})
	if len(diags) != 0 {
		t.Errorf("diagnostics = %v, want none", diags)
	}
}

func TestLintDuplicateKey(t *testing.T) {
	diags := Lint([]byte("a: 1\nb: 2\na: 3\n"), Config{})
	d := find(diags, RuleDuplicateKey)
	if d == nil {
		t.Fatalf("no duplicate-key diagnostic in %v", rulesOf(diags))
	}
	if d.Severity != SeverityError {
		t.Errorf("severity = %v, want error", d.Severity)
	}
	if d.Span.Start.Line != 3 {
		t.Errorf("primary line = %d, want 3 (second occurrence)", d.Span.Start.Line)
	}
	if len(d.Notes) != 1 || d.Notes[0].Span.Start.Line != 1 {
		t.Errorf("notes = %+v, want first occurrence on line 1", d.Notes)
	}
}

func TestLintSyntaxError(t *testing.T) {
	diags := Lint([]byte("a:\n\tb: 1\n"), Config{})
	d := find(diags, RuleSyntax)
	if d == nil {
		t.Fatalf("no syntax diagnostic in %v", rulesOf(diags))
	}
	if d.Severity != SeverityError {
		t.Errorf("severity = %v, want error", d.Severity)
	}
}

func TestLintResynchronizesAtDocumentBoundary(t *testing.T) {
	// the syntax error in document 1 must not hide document 2's
	// duplicate key
	src := "a:\n\tbad: 1\n---\nkey: 1\nkey: 2\n"
	diags := Lint([]byte(src), Config{})
	if find(diags, RuleSyntax) == nil {
		t.Errorf("missing syntax diagnostic: %v", rulesOf(diags))
	}
	d := find(diags, RuleDuplicateKey)
	if d == nil {
		t.Fatalf("missing duplicate-key diagnostic: %v", rulesOf(diags))
	}
	if d.Span.Start.Line != 5 {
		t.Errorf("duplicate-key line = %d, want 5", d.Span.Start.Line)
	}
}

func TestLintUnresolvedAlias(t *testing.T) {
	diags := Lint([]byte("a: *missing\n"), Config{})
	if find(diags, RuleUnresolvedAlias) == nil {
		t.Fatalf("rules = %v, want unresolved-alias", rulesOf(diags))
	}
}

func TestLintAnchorRedefinition(t *testing.T) {
	diags := Lint([]byte("a: &x 1\nb: &x 2\n"), Config{})
	if find(diags, RuleAnchorRedefinition) == nil {
		t.Fatalf("rules = %v, want anchor-redefinition", rulesOf(diags))
	}
}

func TestLintEmptyValue(t *testing.T) {
	diags := Lint([]byte("a:\nb: 1\n"), Config{})
	d := find(diags, RuleEmptyValue)
	if d == nil {
		t.Fatalf("rules = %v, want empty-value", rulesOf(diags))
	}
	if d.Severity != SeverityWarning {
		t.Errorf("severity = %v, want warning", d.Severity)
	}
	if len(d.Suggestions) != 1 {
		t.Fatalf("suggestions = %+v, want one", d.Suggestions)
	}
	s := d.Suggestions[0]
	if s.Replacement != " null" {
		t.Errorf("replacement = %q, want %q", s.Replacement, " null")
	}
	// the target span is the insertion point right after the colon
	if s.Span.Start.Line != 1 || s.Span.Start.Column != 3 || s.Span != d.Span {
		t.Errorf("suggestion span = %+v", s.Span)
	}
}

func TestLintTrailingWhitespace(t *testing.T) {
	diags := Lint([]byte("a: 1 \nb: 2\n"), Config{})
	d := find(diags, RuleTrailingWhitespace)
	if d == nil {
		t.Fatalf("rules = %v, want trailing-whitespace", rulesOf(diags))
	}
	if d.Span.Start.Line != 1 {
		t.Errorf("line = %d, want 1", d.Span.Start.Line)
	}
}

func TestLintTrailingWhitespaceSkipsBlockScalars(t *testing.T) {
	diags := Lint([]byte("text: |\n  content \nnext: 1\n"), Config{})
	if d := find(diags, RuleTrailingWhitespace); d != nil {
		t.Errorf("flagged trailing whitespace inside block scalar: %+v", d)
	}
}

func TestLintInconsistentIndentation(t *testing.T) {
	src := "a:\n  b: 1\nc:\n     d:\n      e: 2\n"
	diags := Lint([]byte(src), Config{})
	if find(diags, RuleIndentation) == nil {
		t.Fatalf("rules = %v, want indentation", rulesOf(diags))
	}
}

func TestLintEnabledRules(t *testing.T) {
	src := "a: 1 \na: 2\n"
	diags := Lint([]byte(src), Config{
		EnabledRules: map[string]bool{RuleDuplicateKey: true},
	})
	if len(diags) != 1 || diags[0].Rule != RuleDuplicateKey {
		t.Errorf("diagnostics = %v, want only duplicate-key", rulesOf(diags))
	}
}

func TestLintTabIndentationSuggestion(t *testing.T) {
	diags := Lint([]byte("a:\n\tb: 1\n"), Config{
		EnabledRules: map[string]bool{RuleTabIndentation: true},
	})
	d := find(diags, RuleTabIndentation)
	if d == nil {
		t.Fatalf("rules = %v, want tab-indentation", rulesOf(diags))
	}
	if len(d.Suggestions) != 1 {
		t.Fatalf("suggestions = %+v, want one", d.Suggestions)
	}
	s := d.Suggestions[0]
	if s.Replacement != "  " {
		t.Errorf("replacement = %q, want spaces", s.Replacement)
	}
	// replacing exactly the tab character
	if s.Span != d.Span || s.Span.Start.Line != 2 || s.Span.Start.Column != 1 || s.Span.End.Column != 2 {
		t.Errorf("suggestion span = %+v", s.Span)
	}
}

func TestSeverityScale(t *testing.T) {
	tests := []struct {
		sev  Severity
		name string
	}{
		{SeverityHint, "hint"},
		{SeverityInfo, "info"},
		{SeverityWarning, "warning"},
		{SeverityError, "error"},
	}
	for i, tt := range tests {
		if got := tt.sev.String(); got != tt.name {
			t.Errorf("String(%d) = %q, want %q", int(tt.sev), got, tt.name)
		}
		b, err := json.Marshal(tt.sev)
		if err != nil {
			t.Fatal(err)
		}
		var back Severity
		if err := json.Unmarshal(b, &back); err != nil {
			t.Fatalf("unmarshal %s: %v", b, err)
		}
		if back != tt.sev {
			t.Errorf("round trip of %v = %v", tt.sev, back)
		}
		// ascending severity so errors sort first under descending order
		if i > 0 && tt.sev <= tests[i-1].sev {
			t.Errorf("%v should rank above %v", tt.sev, tests[i-1].sev)
		}
	}
}

func TestLintSeverityOverrideInfoAndHint(t *testing.T) {
	diags := Lint([]byte("a: 1 \nb:\n"), Config{
		SeverityOverrides: map[string]Severity{
			RuleTrailingWhitespace: SeverityHint,
			RuleEmptyValue:         SeverityInfo,
		},
	})
	if d := find(diags, RuleTrailingWhitespace); d == nil || d.Severity != SeverityHint {
		t.Errorf("trailing-whitespace = %+v, want hint severity", d)
	}
	if d := find(diags, RuleEmptyValue); d == nil || d.Severity != SeverityInfo {
		t.Errorf("empty-value = %+v, want info severity", d)
	}
}

func TestLintSeverityOverride(t *testing.T) {
	diags := Lint([]byte("a: 1 \n"), Config{
		SeverityOverrides: map[string]Severity{RuleTrailingWhitespace: SeverityError},
	})
	d := find(diags, RuleTrailingWhitespace)
	if d == nil {
		t.Fatal("missing trailing-whitespace diagnostic")
	}
	if d.Severity != SeverityError {
		t.Errorf("severity = %v, want overridden error", d.Severity)
	}
}

func TestLintMaxDiagnostics(t *testing.T) {
	src := "a: 1 \nb: 2 \nc: 3 \n"
	all := Lint([]byte(src), Config{})
	if len(all) != 3 {
		t.Fatalf("diagnostics = %d, want 3", len(all))
	}
	capped := Lint([]byte(src), Config{MaxDiagnostics: 2})
	if len(capped) != 2 {
		t.Fatalf("capped diagnostics = %d, want 2", len(capped))
	}
	// the cap keeps the first diagnostics in sorted order
	if !reflect.DeepEqual(capped, all[:2]) {
		t.Errorf("capped = %v, want prefix of %v", capped, all)
	}
}

func TestLintDeterministicOrder(t *testing.T) {
	src := "z: 1 \na:\na: 2\n"
	first := Lint([]byte(src), Config{})
	for i := 0; i < 5; i++ {
		again := Lint([]byte(src), Config{})
		if !reflect.DeepEqual(first, again) {
			t.Fatalf("lint output not deterministic:\n%v\n%v", first, again)
		}
	}
	for i := 1; i < len(first); i++ {
		if first[i].Span.Start.Offset < first[i-1].Span.Start.Offset {
			t.Errorf("diagnostics not sorted by position: %v", first)
		}
	}
}

func TestRenderText(t *testing.T) {
	src := []byte("a: 1\na: 2\n")
	diags := Lint(src, Config{})
	out, err := Render(diags, src, FormatText, false)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, "error[duplicate-key]") {
		t.Errorf("text output missing header: %q", out)
	}
	if !strings.Contains(out, "--> 2:1") {
		t.Errorf("text output missing location: %q", out)
	}
	if !strings.Contains(out, "^") {
		t.Errorf("text output missing caret: %q", out)
	}
	if strings.Contains(out, "\x1b[") {
		t.Errorf("colorless output contains ANSI escapes: %q", out)
	}
}

func TestRenderTextColors(t *testing.T) {
	src := []byte("a: 1\na: 2\n")
	out, err := Render(Lint(src, Config{}), src, FormatText, true)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, "\x1b[31m") {
		t.Errorf("colored output missing red escape: %q", out)
	}
}

func TestRenderJSON(t *testing.T) {
	src := []byte("a: 1\na: 2\n")
	out, err := Render(Lint(src, Config{}), src, FormatJSON, false)
	if err != nil {
		t.Fatal(err)
	}
	var decoded []struct {
		Rule     string `json:"rule"`
		Severity string `json:"severity"`
		Message  string `json:"message"`
	}
	if err := json.Unmarshal([]byte(out), &decoded); err != nil {
		t.Fatalf("invalid JSON output: %v\n%s", err, out)
	}
	if len(decoded) != 1 || decoded[0].Rule != "duplicate-key" || decoded[0].Severity != "error" {
		t.Errorf("decoded = %+v", decoded)
	}
}

func TestRenderUnknownFormat(t *testing.T) {
	if _, err := Render(nil, nil, Format("xml"), false); err == nil {
		t.Error("unknown format should error")
	}
}
