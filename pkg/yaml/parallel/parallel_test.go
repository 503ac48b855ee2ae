package parallel

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"

	yamlerrors "github.com/fastyaml/fastyaml/pkg/yaml/errors"
	"github.com/fastyaml/fastyaml/pkg/yaml/value"
)

func TestSplitAndParseSingleDocument(t *testing.T) {
	docs, err := SplitAndParse([]byte("a: 1\nb: 2\n"), Config{})
	if err != nil {
		t.Fatal(err)
	}
	if len(docs) != 1 {
		t.Fatalf("documents = %d, want 1", len(docs))
	}
	if got := docs[0].Get("a").IntVal(); got != 1 {
		t.Errorf("a = %d, want 1", got)
	}
}

func TestSplitAndParseOrder(t *testing.T) {
	src := []byte("first: 1\n---\nsecond: 2\n---\nthird: 3\n")
	docs, err := SplitAndParse(src, Config{ThreadCount: 4})
	if err != nil {
		t.Fatal(err)
	}
	if len(docs) != 3 {
		t.Fatalf("documents = %d, want 3", len(docs))
	}
	for i, key := range []string{"first", "second", "third"} {
		if got := docs[i].Get(key).IntVal(); got != int64(i+1) {
			t.Errorf("document %d: %s = %d, want %d", i, key, got, i+1)
		}
	}
}

func TestSplitAndParseMatchesSequential(t *testing.T) {
	var sb strings.Builder
	for i := 0; i < 40; i++ {
		fmt.Fprintf(&sb, "---\nindex: %d\nitems: [%d, %d]\ntext: |\n  line one\n  line two\n", i, i, i+1)
	}
	src := []byte(sb.String())

	sequential, err := SplitAndParse(src, Config{ThreadCount: 1})
	if err != nil {
		t.Fatal(err)
	}
	parallel, err := SplitAndParse(src, Config{ThreadCount: 8})
	if err != nil {
		t.Fatal(err)
	}
	if len(parallel) != len(sequential) {
		t.Fatalf("documents = %d, want %d", len(parallel), len(sequential))
	}
	for i := range sequential {
		if !value.Equal(sequential[i], parallel[i]) {
			t.Errorf("document %d differs between sequential and parallel runs", i)
		}
	}
}

func TestSplitAndParseEmptyDocuments(t *testing.T) {
	docs, err := SplitAndParse([]byte("---\n---\n"), Config{})
	if err != nil {
		t.Fatal(err)
	}
	if len(docs) != 2 {
		t.Fatalf("documents = %d, want 2", len(docs))
	}
	for i, d := range docs {
		if d.Kind() != value.KindNull {
			t.Errorf("document %d kind = %v, want null", i, d.Kind())
		}
	}
}

func TestSplitAndParseInputSizeLimit(t *testing.T) {
	_, err := SplitAndParse([]byte("a: 1\nb: 2\n"), Config{MaxInputSize: 5})
	var verr *yamlerrors.ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("error = %v, want *yamlerrors.ValidationError", err)
	}
	if verr.Limit != "max input size" {
		t.Errorf("limit = %q", verr.Limit)
	}
}

func TestSplitAndParseDocumentCountLimit(t *testing.T) {
	_, err := SplitAndParse([]byte("a: 1\n---\nb: 2\n---\nc: 3\n"), Config{MaxDocumentCount: 2})
	var verr *yamlerrors.ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("error = %v, want *yamlerrors.ValidationError", err)
	}
	if verr.Limit != "max document count" {
		t.Errorf("limit = %q", verr.Limit)
	}
}

func TestSplitAndParseDocumentError(t *testing.T) {
	src := []byte("a: 1\n---\n\tbad: x\n---\nc: 3\n")
	_, err := SplitAndParse(src, Config{ThreadCount: 4})
	var derr *yamlerrors.DocumentError
	if !errors.As(err, &derr) {
		t.Fatalf("error = %v, want *yamlerrors.DocumentError", err)
	}
	if derr.Index != 1 {
		t.Errorf("index = %d, want 1", derr.Index)
	}
}

func TestSplitAndParseFirstErrorByIndex(t *testing.T) {
	// both documents are broken; the report must name the earlier one
	// regardless of which worker hits its error first
	src := []byte("ok: 1\n---\n\tbad: 1\n---\n\talso: bad\n")
	for i := 0; i < 10; i++ {
		_, err := SplitAndParse(src, Config{ThreadCount: 8})
		var derr *yamlerrors.DocumentError
		if !errors.As(err, &derr) {
			t.Fatalf("error = %v, want *yamlerrors.DocumentError", err)
		}
		if derr.Index != 1 {
			t.Fatalf("index = %d, want 1", derr.Index)
		}
	}
}

func TestSplitAndParseMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewMetrics(reg)
	if _, err := SplitAndParse([]byte("a: 1\n---\nb: 2\n"), Config{Metrics: m}); err != nil {
		t.Fatal(err)
	}
	families, err := reg.Gather()
	if err != nil {
		t.Fatal(err)
	}
	got := map[string]float64{}
	for _, mf := range families {
		for _, metric := range mf.GetMetric() {
			if c := metric.GetCounter(); c != nil {
				got[mf.GetName()] += c.GetValue()
			}
		}
	}
	if got["fastyaml_parallel_documents_total"] != 2 {
		t.Errorf("documents counter = %v, want 2", got["fastyaml_parallel_documents_total"])
	}
	if got["fastyaml_parallel_batches_total"] != 1 {
		t.Errorf("batches counter = %v, want 1", got["fastyaml_parallel_batches_total"])
	}
}
