package bookmark

import "testing"

func TestToggle_RoundTrip(t *testing.T) {
	b := Bookmark{
		Quote:      "It was not a story to pass on.",
		Theme:      "Memory",
		BookTitle:  "Beloved",
		BookAuthor: "Toni Morrison",
	}
	other := Bookmark{
		Quote:      "All that you touch you change.",
		Theme:      "Change",
		BookTitle:  "Parable of the Sower",
		BookAuthor: "Octavia Butler",
	}

	list, added := Toggle(nil, b)
	if !added || len(list) != 1 {
		t.Fatalf("first toggle: added=%v len=%d", added, len(list))
	}
	if list[0].DateAdded == "" {
		t.Error("DateAdded not stamped")
	}

	list, added = Toggle(list, other)
	if !added || len(list) != 2 {
		t.Fatalf("second toggle: added=%v len=%d", added, len(list))
	}

	// Toggling the identical tuple removes exactly that entry.
	list, added = Toggle(list, b)
	if added || len(list) != 1 {
		t.Fatalf("removal toggle: added=%v len=%d", added, len(list))
	}
	if list[0].Key() != other.Key() {
		t.Errorf("wrong entry removed, remaining key %q", list[0].Key())
	}
}

func TestToggle_KeyDistinguishesFields(t *testing.T) {
	base := Bookmark{Quote: "q", Theme: "t", BookTitle: "b", BookAuthor: "a"}
	variants := []Bookmark{
		{Quote: "q2", Theme: "t", BookTitle: "b", BookAuthor: "a"},
		{Quote: "q", Theme: "t2", BookTitle: "b", BookAuthor: "a"},
		{Quote: "q", Theme: "t", BookTitle: "b2", BookAuthor: "a"},
		{Quote: "q", Theme: "t", BookTitle: "b", BookAuthor: "a2"},
	}

	for _, v := range variants {
		if v.Key() == base.Key() {
			t.Errorf("key collision between %+v and base", v)
		}
	}
}

func TestValidateForCreate(t *testing.T) {
	tests := []struct {
		name    string
		b       Bookmark
		wantErr error
	}{
		{"valid", Bookmark{Quote: "q", BookTitle: "b"}, nil},
		{"empty quote", Bookmark{BookTitle: "b"}, ErrEmptyQuote},
		{"empty title", Bookmark{Quote: "q"}, ErrEmptyTitle},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.b.ValidateForCreate(); err != tt.wantErr {
				t.Errorf("ValidateForCreate() = %v, want %v", err, tt.wantErr)
			}
		})
	}
}
