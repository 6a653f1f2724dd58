package validator

import "testing"

func TestExtractValueAtPath(t *testing.T) {
	root := map[string]any{
		"name": "Ada",
		"tags": []any{"a", "b"},
		"owner": map[string]any{
			"id": "owner-1",
			"pets": []any{
				map[string]any{"name": "Rex"},
			},
		},
		"null_field": nil,
	}

	tests := []struct {
		path    string
		want    any
		present bool
	}{
		{"$", root, true},
		{"$.name", "Ada", true},
		{"$.tags[0]", "a", true},
		{"$.tags[1]", "b", true},
		{"$.tags[2]", nil, false},
		{"$.owner.id", "owner-1", true},
		{"$.owner.pets[0].name", "Rex", true},
		{"$.missing", nil, false},
		{"$.owner.missing", nil, false},
		{"$.name[0]", nil, false},   // index into a string
		{"$.name.field", nil, false}, // field of a string
		{"$.tags[-1]", nil, false},
		{"$.tags[x]", nil, false},
		{"$.null_field", nil, true}, // present but null
		{"no-dollar", nil, false},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			got, present := extractValueAtPath(root, tt.path)
			if present != tt.present {
				t.Fatalf("present = %t, want %t", present, tt.present)
			}
			if tt.present && tt.path != "$" && got != tt.want {
				t.Errorf("value = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestRebasePath(t *testing.T) {
	tests := []struct {
		path, base, want string
	}{
		{"$", "$.tags[1]", "$.tags[1]"},
		{"$.id", "$.owner", "$.owner.id"},
		{"$.a.b", "$.items[3]", "$.items[3].a.b"},
		{"$", "$", "$"},
	}
	for _, tt := range tests {
		if got := rebasePath(tt.path, tt.base); got != tt.want {
			t.Errorf("rebasePath(%q, %q) = %q, want %q", tt.path, tt.base, got, tt.want)
		}
	}
}

func TestSplitFieldPath(t *testing.T) {
	tests := []struct {
		path, container, field string
	}{
		{"$.name", "$", "name"},
		{"$.owner.id", "$.owner", "id"},
	}
	for _, tt := range tests {
		container, field := splitFieldPath(tt.path)
		if container != tt.container || field != tt.field {
			t.Errorf("splitFieldPath(%q) = %q/%q, want %q/%q",
				tt.path, container, field, tt.container, tt.field)
		}
	}
}
