package transform

import (
	"errors"
	"reflect"
	"testing"

	"github.com/eugenenazirov/yamlenv/codec"
	"github.com/eugenenazirov/yamlenv/envkey"
)

func TestFlatten(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		tree   map[string]any
		prefix string
		want   map[string]string
	}{
		{
			name: "NestedMapping",
			tree: map[string]any{
				"database": map[string]any{
					"host": "localhost",
					"port": 5432,
				},
			},
			prefix: "APP",
			want: map[string]string{
				"APP_DATABASE_HOST": "localhost",
				"APP_DATABASE_PORT": "5432",
			},
		},
		{
			name: "ScalarKinds",
			tree: map[string]any{
				"debug": true,
				"ratio": 0.5,
				"name":  "svc",
			},
			want: map[string]string{
				"DEBUG": "true",
				"RATIO": "0.5",
				"NAME":  "svc",
			},
		},
		{
			name: "ListsAreLeaves",
			tree: map[string]any{
				"tags": []any{"a", "b"},
			},
			prefix: "APP",
			want: map[string]string{
				"APP_TAGS": `["a","b"]`,
			},
		},
		{
			name: "EmptyContainersPreserved",
			tree: map[string]any{
				"empty_map":  map[string]any{},
				"empty_list": []any{},
			},
			want: map[string]string{
				"EMPTY_MAP":  "{}",
				"EMPTY_LIST": "[]",
			},
		},
		{
			name: "NullLeafKept",
			tree: map[string]any{
				"token": nil,
			},
			want: map[string]string{
				"TOKEN": "",
			},
		},
		{
			name: "DeepNesting",
			tree: map[string]any{
				"a": map[string]any{
					"b": map[string]any{
						"c": map[string]any{
							"d": 1,
						},
					},
				},
			},
			want: map[string]string{
				"A_B_C_D": "1",
			},
		},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			tr := Transformer{Prefix: tc.prefix}
			got, err := tr.Flatten(tc.tree)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !reflect.DeepEqual(got, tc.want) {
				t.Fatalf("expected %v, got %v", tc.want, got)
			}
		})
	}
}

func TestFlattenRejectsBadSegments(t *testing.T) {
	t.Parallel()

	tr := Transformer{}
	_, err := tr.Flatten(map[string]any{"bad-key": 1})
	if !errors.Is(err, envkey.ErrInvalidSegment) {
		t.Fatalf("expected ErrInvalidSegment, got %v", err)
	}
}

func TestUnflatten(t *testing.T) {
	t.Parallel()

	tr := Transformer{Prefix: "APP"}

	got, err := tr.Unflatten(map[string]string{
		"APP_DATABASE_HOST": "localhost",
		"APP_DATABASE_PORT": "5432",
		"APP_DEBUG":         "true",
		"APP_TAGS":          `["a","b"]`,
	}, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := map[string]any{
		"database": map[string]any{
			"host": "localhost",
			"port": 5432,
		},
		"debug": true,
		"tags":  []any{"a", "b"},
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("expected %#v, got %#v", want, got)
	}
}

func TestUnflattenWithHints(t *testing.T) {
	t.Parallel()

	tr := Transformer{Prefix: "APP"}
	hints := map[string]Hint{
		"APP_DB_HOST": {Path: []string{"db_host"}, Kind: codec.KindString},
		"APP_PORT":    {Path: []string{"port"}, Kind: codec.KindString},
	}

	got, err := tr.Unflatten(map[string]string{
		"APP_DB_HOST": "localhost",
		"APP_PORT":    "8080",
	}, hints)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// The hint keeps "db_host" a single segment and "8080" a string.
	want := map[string]any{
		"db_host": "localhost",
		"port":    "8080",
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("expected %#v, got %#v", want, got)
	}
}

func TestUnflattenHintCoercionFailure(t *testing.T) {
	t.Parallel()

	tr := Transformer{Prefix: "APP"}
	hints := map[string]Hint{
		"APP_PORT": {Path: []string{"port"}, Kind: codec.KindInt},
	}

	_, err := tr.Unflatten(map[string]string{"APP_PORT": "abc"}, hints)
	if !errors.Is(err, codec.ErrCoercion) {
		t.Fatalf("expected ErrCoercion, got %v", err)
	}
}

func TestUnflattenCollision(t *testing.T) {
	t.Parallel()

	tr := Transformer{Prefix: "APP"}

	_, err := tr.Unflatten(map[string]string{
		"APP_A":   "1",
		"APP_A_B": "2",
	}, nil)
	if !errors.Is(err, ErrKeyCollision) {
		t.Fatalf("expected ErrKeyCollision, got %v", err)
	}
}

func TestRoundTrip(t *testing.T) {
	t.Parallel()

	trees := []map[string]any{
		{
			"database": map[string]any{
				"host": "localhost",
				"port": 5432,
				"tls":  map[string]any{"enabled": false},
			},
			"tags":  []any{"a", "b"},
			"ratio": 0.25,
		},
		{
			"a": map[string]any{
				"b": map[string]any{
					"c": map[string]any{
						"d": map[string]any{"leaf": 1},
					},
				},
			},
		},
		{
			"emptymap":  map[string]any{},
			"emptylist": []any{},
		},
	}

	for _, tree := range trees {
		tr := Transformer{Prefix: "APP"}
		flat, err := tr.Flatten(tree)
		if err != nil {
			t.Fatalf("flatten: %v", err)
		}
		back, err := tr.Unflatten(flat, nil)
		if err != nil {
			t.Fatalf("unflatten: %v", err)
		}
		if !reflect.DeepEqual(back, tree) {
			t.Fatalf("round trip changed tree:\nbefore %#v\nafter  %#v", tree, back)
		}
	}
}

// A segment containing the separator flattens fine but splits apart on the
// way back; only a hint restores the original path.
func TestRoundTripSeparatorBearingSegment(t *testing.T) {
	t.Parallel()

	tr := Transformer{Prefix: "APP"}
	tree := map[string]any{"db_host": "localhost"}

	flat, err := tr.Flatten(tree)
	if err != nil {
		t.Fatalf("flatten: %v", err)
	}
	if _, ok := flat["APP_DB_HOST"]; !ok {
		t.Fatalf("unexpected flat keys: %#v", flat)
	}

	split, err := tr.Unflatten(flat, nil)
	if err != nil {
		t.Fatalf("unflatten without hints: %v", err)
	}
	wantSplit := map[string]any{"db": map[string]any{"host": "localhost"}}
	if !reflect.DeepEqual(split, wantSplit) {
		t.Fatalf("expected %#v without hints, got %#v", wantSplit, split)
	}

	back, err := tr.Unflatten(flat, map[string]Hint{
		"APP_DB_HOST": {Path: []string{"db_host"}},
	})
	if err != nil {
		t.Fatalf("unflatten with hints: %v", err)
	}
	if !reflect.DeepEqual(back, tree) {
		t.Fatalf("round trip changed tree:\nbefore %#v\nafter  %#v", tree, back)
	}
}
