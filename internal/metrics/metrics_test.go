package metrics

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/legisbr/legis/internal/legal"
	"github.com/legisbr/legis/internal/planalto"
)

func TestOutcome(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"nil", nil, OutcomeSuccess},
		{"not found", &planalto.FetchError{StatusCode: 404, URL: "u"}, OutcomeNotFound},
		{"wrapped not found", fmt.Errorf("fetching: %w", &planalto.FetchError{StatusCode: 404}), OutcomeNotFound},
		{"server error", &planalto.FetchError{StatusCode: 500}, OutcomeError},
		{"unsupported", fmt.Errorf("%w: Instrução Normativa", planalto.ErrUnsupportedType), OutcomeUnsupported},
		{"other", errors.New("boom"), OutcomeError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Outcome(tt.err); got != tt.want {
				t.Errorf("Outcome() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestCollector_ObserveFetch(t *testing.T) {
	c := New()
	lc := legal.NewCitation("LC 87/1996", legal.SupplementaryLaw, "87", "1996")

	c.ObserveFetch(lc, 1000, 200*time.Millisecond, nil)
	c.ObserveFetch(lc, 500, 100*time.Millisecond, nil)
	c.ObserveFetch(lc, 0, time.Second, &planalto.FetchError{StatusCode: 404})

	if got := testutil.ToFloat64(c.fetches.WithLabelValues("Lei_Complementar", OutcomeSuccess)); got != 2 {
		t.Errorf("success count = %v, want 2", got)
	}
	if got := testutil.ToFloat64(c.fetches.WithLabelValues("Lei_Complementar", OutcomeNotFound)); got != 1 {
		t.Errorf("not_found count = %v, want 1", got)
	}
	if got := testutil.ToFloat64(c.bytes.WithLabelValues("Lei_Complementar")); got != 1500 {
		t.Errorf("bytes = %v, want 1500", got)
	}
	if n := testutil.CollectAndCount(c.duration); n != 1 {
		t.Errorf("duration series = %d, want 1", n)
	}
}

func TestCollector_WriteTextfile(t *testing.T) {
	c := New()
	c.ObserveFetch(legal.NewCitation("Decreto 9580/2018", legal.Decree, "9580", "2018"), 10, time.Millisecond, nil)

	path := filepath.Join(t.TempDir(), "legis.prom")
	if err := c.WriteTextfile(path); err != nil {
		t.Fatalf("WriteTextfile() error = %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	want := `legis_fetches_total{outcome="success",type="Decreto"} 1`
	if !strings.Contains(string(data), want) {
		t.Errorf("textfile missing %q:\n%s", want, data)
	}
}
