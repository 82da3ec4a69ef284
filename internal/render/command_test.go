package render

import (
	"reflect"
	"testing"
)

func TestSplitCommand(t *testing.T) {
	cases := []struct {
		name    string
		input   string
		want    []string
		wantErr bool
	}{
		{"plain", "renderer scene.rdla -out beauty.exr", []string{"renderer", "scene.rdla", "-out", "beauty.exr"}, false},
		{"double quotes", `renderer "my scene.rdla"`, []string{"renderer", "my scene.rdla"}, false},
		{"single quotes", `renderer 'a b' c`, []string{"renderer", "a b", "c"}, false},
		{"escaped space", `renderer a\ b`, []string{"renderer", "a b"}, false},
		{"collapsed whitespace", "renderer \t  scene", []string{"renderer", "scene"}, false},
		{"empty quotes", `renderer ""`, []string{"renderer", ""}, false},
		{"unterminated quote", `renderer "scene`, nil, true},
		{"trailing backslash", `renderer scene\`, nil, true},
		{"empty", "   ", nil, true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := SplitCommand(tc.input)
			if tc.wantErr {
				if err == nil {
					t.Fatalf("expected error, got %v", got)
				}
				return
			}
			if err != nil {
				t.Fatalf("SplitCommand returned error: %v", err)
			}
			if !reflect.DeepEqual(got, tc.want) {
				t.Fatalf("got %q, want %q", got, tc.want)
			}
		})
	}
}

func TestInjectThreads(t *testing.T) {
	base := []string{"renderer", "scene.rdla"}

	got := InjectThreads(base, 8)
	want := []string{"renderer", "scene.rdla", "-threads", "8"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("got %q, want %q", got, want)
	}

	if got := InjectThreads(base, 0); !reflect.DeepEqual(got, base) {
		t.Fatalf("threads=0 should be a no-op, got %q", got)
	}

	// The original slice must not be mutated by injection.
	if len(base) != 2 {
		t.Fatalf("input slice mutated: %q", base)
	}
}
