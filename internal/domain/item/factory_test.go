package item

import "testing"

func TestNewFromCreateRequest(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		wantSlug string
	}{
		{name: "simple", input: "Widget", wantSlug: "widget"},
		{name: "spaces", input: "My Great Item", wantSlug: "my-great-item"},
		{name: "punctuation", input: "Hello, World!", wantSlug: "hello-world"},
		{name: "unicode folded", input: "Crème Brûlée", wantSlug: "creme-brulee"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			it := NewFromCreateRequest(CreateItemRequest{Name: tc.input, Description: "d"})

			if it.Slug != tc.wantSlug {
				t.Errorf("slug = %q, want %q", it.Slug, tc.wantSlug)
			}

			if it.ID == "" {
				t.Error("missing generated id")
			}

			if it.Name != tc.input || it.Description != "d" {
				t.Errorf("fields not carried over: %+v", it)
			}

			if it.CreatedAt.IsZero() {
				t.Error("missing creation timestamp")
			}
		})
	}
}
