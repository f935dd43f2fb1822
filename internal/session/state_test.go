package session

import (
	"errors"
	"testing"
)

func TestDefaultSelection(t *testing.T) {
	cases := []struct {
		name    string
		options []string
		want    string
	}{
		{"preferred first", []string{"AVG_PRICE", "COL_INDEX"}, "AVG_PRICE"},
		{"preferred later", []string{"COL_INDEX", "MEDIAN_INCOME", "AVG_PRICE"}, "AVG_PRICE"},
		{"no preferred", []string{"MEDIAN_INCOME", "COL_INDEX"}, "MEDIAN_INCOME"},
		{"case matters", []string{"avg_price", "COL_INDEX"}, "avg_price"},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			s, err := New(c.options, PreferredColumn)
			if err != nil {
				t.Fatalf("New: %v", err)
			}
			if s.Selected() != c.want {
				t.Fatalf("Selected = %q, want %q", s.Selected(), c.want)
			}
		})
	}
}

func TestNewWithoutOptions(t *testing.T) {
	if _, err := New(nil, PreferredColumn); !errors.Is(err, ErrNoOptions) {
		t.Fatalf("err = %v, want ErrNoOptions", err)
	}
}

func TestSelect(t *testing.T) {
	s, _ := New([]string{"AVG_PRICE", "COL_INDEX", "MEDIAN_INCOME"}, PreferredColumn)
	var events [][2]string
	s.Subscribe(func(old, selected string) { events = append(events, [2]string{old, selected}) })

	for _, name := range s.Options() {
		if err := s.Select(name); err != nil {
			t.Fatalf("Select(%q): %v", name, err)
		}
		if s.Selected() != name {
			t.Fatalf("Selected = %q after Select(%q)", s.Selected(), name)
		}
	}
	if len(events) != 2 {
		t.Fatalf("events = %v, want 2 changes", events)
	}
	if events[0] != [2]string{"AVG_PRICE", "COL_INDEX"} {
		t.Fatalf("first event = %v", events[0])
	}

	if err := s.Select("zip"); !errors.Is(err, ErrUnknownColumn) {
		t.Fatalf("Select(zip) err = %v", err)
	}
	if err := s.Select(""); !errors.Is(err, ErrUnknownColumn) {
		t.Fatalf("Select(\"\") err = %v", err)
	}
	if s.Selected() != "MEDIAN_INCOME" || s.Index() != 2 {
		t.Fatalf("invalid select changed state: %q", s.Selected())
	}
	if len(events) != 2 {
		t.Fatal("invalid select fired an event")
	}
}
