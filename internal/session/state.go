// Package session holds the dashboard's single piece of mutable UI state: the
// numeric column currently shown on the map and in the statistics panel.
package session

import (
	"errors"
	"fmt"
)

// PreferredColumn is selected by default whenever the dataset carries it.
const PreferredColumn = "AVG_PRICE"

var (
	// ErrNoOptions is returned when a dataset offers no numeric column.
	ErrNoOptions = errors.New("no numeric columns to select from")
	// ErrUnknownColumn is returned by Select for a name outside the options.
	ErrUnknownColumn = errors.New("unknown column")
)

// Listener is notified after the selection changes.
type Listener func(old, selected string)

// State keeps exactly one valid selection among a fixed option list.
type State struct {
	options   []string
	selected  string
	listeners []Listener
}

// New creates a State over options (in display order). The initial selection
// is preferred when it is an option, else the first option.
func New(options []string, preferred string) (*State, error) {
	if len(options) == 0 {
		return nil, ErrNoOptions
	}
	s := &State{options: append([]string(nil), options...), selected: options[0]}
	if preferred != "" && s.has(preferred) {
		s.selected = preferred
	}
	return s, nil
}

// Options returns the selectable column names.
func (s *State) Options() []string { return append([]string(nil), s.options...) }

// Selected returns the current selection. It is never empty.
func (s *State) Selected() string { return s.selected }

// Index returns the position of the current selection in Options.
func (s *State) Index() int {
	for i, o := range s.options {
		if o == s.selected {
			return i
		}
	}
	return 0
}

// Select makes name the current selection and notifies listeners. Selecting
// the current column is a no-op; an unknown name leaves the state unchanged.
func (s *State) Select(name string) error {
	if !s.has(name) {
		return fmt.Errorf("%w: %q", ErrUnknownColumn, name)
	}
	if name == s.selected {
		return nil
	}
	old := s.selected
	s.selected = name
	for _, l := range s.listeners {
		l(old, name)
	}
	return nil
}

// Subscribe registers l for selection changes.
func (s *State) Subscribe(l Listener) {
	s.listeners = append(s.listeners, l)
}

func (s *State) has(name string) bool {
	for _, o := range s.options {
		if o == name {
			return true
		}
	}
	return false
}
