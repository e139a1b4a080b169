package artifact

import (
	"testing"

	"github.com/tidwall/gjson"

	"github.com/launchbynttdata/launch-meta-gen/internal/domain/semtag"
)

func TestFormatValue(t *testing.T) {
	t.Parallel()

	var nilSlice []int
	var nilPtr *string
	commit := "abc123"

	tests := []struct {
		name  string
		value any
		want  string
	}{
		{name: "nil", value: nil, want: "undefined"},
		{name: "int slice", value: []int{1, 2, 3}, want: "[1, 2, 3]"},
		{name: "string", value: "abc", want: `"abc"`},
		{name: "number", value: 5, want: "5"},
		{name: "bool", value: true, want: "true"},
		{name: "nil slice", value: nilSlice, want: "undefined"},
		{name: "nil pointer", value: nilPtr, want: "undefined"},
		{name: "string pointer", value: &commit, want: `"abc123"`},
		{name: "mixed list", value: []any{"a", 1, nil}, want: "[a, 1, ]"},
		{name: "nested list", value: []any{[]int{1, 2}, 3}, want: "[1,2, 3]"},
		{name: "version", value: semtag.New(1, 1, 0), want: "[1, 1, 0]"},
		{name: "json array", value: gjson.Parse(`[1, 20, 0]`), want: "[1, 20, 0]"},
		{name: "json string", value: gjson.Parse(`"1.2.3"`), want: `"1.2.3"`},
		{name: "json number", value: gjson.Parse(`7`), want: "7"},
		{name: "json null", value: gjson.Parse(`null`), want: "undefined"},
		{name: "json missing", value: gjson.Get(`{}`, "header.version"), want: "undefined"},
		{name: "json mixed array", value: gjson.Parse(`["a", 1, null, true]`), want: "[a, 1, , true]"},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := FormatValue(tt.value); got != tt.want {
				t.Fatalf("FormatValue(%v): want %s got %s", tt.value, tt.want, got)
			}
		})
	}
}
