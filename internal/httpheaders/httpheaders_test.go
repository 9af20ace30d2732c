package httpheaders

import (
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestSetReplacesEquivalentKeyCaseInsensitively(t *testing.T) {
	headers := map[string]string{
		"authorization": "Bearer old",
	}
	got := Set(headers, "Authorization", "Bearer new")

	if len(got) != 1 {
		t.Fatalf("len(got) = %d, want 1 (got=%#v)", len(got), got)
	}
	if got["Authorization"] != "Bearer new" {
		t.Fatalf(`got["Authorization"] = %q, want %q`, got["Authorization"], "Bearer new")
	}
	if _, exists := got["authorization"]; exists {
		t.Fatalf("got = %#v, want lowercase key removed", got)
	}
}

func TestSetIgnoresBlankName(t *testing.T) {
	got := Set(nil, "  ", "x")
	if got != nil {
		t.Fatalf("Set() = %#v, want nil", got)
	}
}

func TestParseObject(t *testing.T) {
	got, err := Parse(`{"Authorization":"Bearer x","X-Trace":"1"}`)
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	want := map[string]string{"Authorization": "Bearer x", "X-Trace": "1"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("Parse() mismatch (-want +got):\n%s", diff)
	}
}

func TestParseCollapsesCaseVariants(t *testing.T) {
	got, err := Parse(`{"X-Token":"a","x-token":"b"}`)
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if diff := cmp.Diff(map[string]string{"x-token": "b"}, got); diff != "" {
		t.Fatalf("Parse() mismatch (-want +got):\n%s", diff)
	}
}

func TestParseRejectsInvalidInput(t *testing.T) {
	tests := []struct {
		raw  string
		want string
	}{
		{raw: "notjson", want: "JSON object"},
		{raw: "[1,2]", want: "JSON object"},
		{raw: "null", want: "JSON object"},
		{raw: `{"X-Count":1}`, want: `header "X-Count" must have a string value`},
		{raw: `{" ":"x"}`, want: "must not be empty"},
	}

	for _, tt := range tests {
		_, err := Parse(tt.raw)
		if err == nil || !strings.Contains(err.Error(), tt.want) {
			t.Fatalf("Parse(%q) error = %v, want %q", tt.raw, err, tt.want)
		}
	}

	if _, err := Parse("[]"); !errors.Is(err, ErrNotObject) {
		t.Fatalf("Parse([]) error = %v, want ErrNotObject", err)
	}
}
