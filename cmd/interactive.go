package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"golang.org/x/term"
)

type key int

const (
	keyNone key = iota
	keyUp
	keyDown
	keyEnter
	keyQuit
)

// readKey decodes one keypress from a raw-mode terminal. Arrow keys arrive
// either as ANSI CSI sequences or, on Windows consoles, as 0/224 followed by
// a scan code.
func readKey(reader *bufio.Reader) (key, error) {
	b1, err := reader.ReadByte()
	if err != nil {
		return keyNone, err
	}
	if b1 == 0 || b1 == 224 {
		b2, _ := reader.ReadByte()
		switch b2 {
		case 72:
			return keyUp, nil
		case 80:
			return keyDown, nil
		case 13:
			return keyEnter, nil
		}
		return keyNone, nil
	}

	switch b1 {
	case 27: // ESC or ANSI sequence
		if reader.Buffered() == 0 {
			// bare ESC
			return keyQuit, nil
		}
		b2, _ := reader.ReadByte()
		if b2 != '[' || reader.Buffered() == 0 {
			return keyNone, nil
		}
		b3, _ := reader.ReadByte()
		switch b3 {
		case 'A':
			return keyUp, nil
		case 'B':
			return keyDown, nil
		}
	case 'k':
		return keyUp, nil
	case 'j':
		return keyDown, nil
	case '\r', '\n':
		return keyEnter, nil
	case 3, 'q': // Ctrl-C
		return keyQuit, nil
	}
	return keyNone, nil
}

// selector is the terminal rendition of the column dropdown.
type selector struct {
	options  []string
	cursor   int    // highlighted option
	selected int    // option currently applied to the page
	status   string // last message shown under the list
	choose   func(name string) error
}

func newSelector(options []string, current int, choose func(name string) error) *selector {
	return &selector{options: options, cursor: current, selected: current, choose: choose}
}

// handle applies one key and reports whether the loop should stop.
func (s *selector) handle(k key) (quit bool) {
	switch k {
	case keyUp:
		if s.cursor > 0 {
			s.cursor--
		}
	case keyDown:
		if s.cursor < len(s.options)-1 {
			s.cursor++
		}
	case keyEnter:
		s.apply(s.cursor)
	case keyQuit:
		return true
	}
	return false
}

func (s *selector) apply(i int) {
	name := s.options[i]
	if err := s.choose(name); err != nil {
		s.status = fmt.Sprintf("%sfailed to render %s: %v%s", colorRed, name, err, colorReset)
		return
	}
	s.selected = i
	s.status = fmt.Sprintf("%sMap updated: %s%s", colorGreen, name, colorReset)
}

func (s *selector) draw(w io.Writer, header string) {
	// Clear screen (ANSI reset to top + clear screen)
	fmt.Fprint(w, "\033[H\033[2J")
	fmt.Fprintf(w, "%s\r\n\r\n", header)
	for i, o := range s.options {
		prefix := "  "
		if i == s.cursor {
			prefix = "> "
		}
		mark := ""
		if i == s.selected {
			mark = " *"
		}
		fmt.Fprintf(w, "%s%s%s\r\n", prefix, o, mark)
	}
	fmt.Fprint(w, "\r\n(↑/↓ or j/k to navigate, Enter to map the column, Esc or q to quit)\r\n")
	if s.status != "" {
		fmt.Fprintf(w, "%s\r\n", s.status)
	}
}

// interactiveSelect runs the selector on the terminal until the user quits.
// When stdin is not a terminal it falls back to a numbered prompt.
func interactiveSelect(s *selector, header string) error {
	fd := int(os.Stdin.Fd())
	if !term.IsTerminal(fd) {
		return promptSelect(s, os.Stdin, os.Stdout)
	}

	enableVT()
	oldState, err := term.MakeRaw(fd)
	if err != nil {
		fmt.Println("(interactive selection not supported on this terminal)")
		return promptSelect(s, os.Stdin, os.Stdout)
	}
	defer term.Restore(fd, oldState)

	reader := bufio.NewReader(os.Stdin)
	s.draw(os.Stdout, header)
	for {
		k, err := readKey(reader)
		if err != nil {
			if errors.Is(err, io.EOF) {
				return nil
			}
			return err
		}
		if s.handle(k) {
			fmt.Print("\r\n")
			return nil
		}
		if k != keyNone {
			s.draw(os.Stdout, header)
		}
	}
}

// promptSelect reads column choices line by line: an option number or a
// column name. A blank line or q ends the loop.
func promptSelect(s *selector, in io.Reader, out io.Writer) error {
	reader := bufio.NewReader(in)
	for {
		for i, o := range s.options {
			mark := " "
			if i == s.selected {
				mark = "*"
			}
			fmt.Fprintf(out, "%s %2d) %s\n", mark, i+1, o)
		}
		fmt.Fprint(out, "Select a column (number or name, blank to quit): ")
		line, err := reader.ReadString('\n')
		if err != nil && !errors.Is(err, io.EOF) {
			return err
		}
		input := strings.TrimSpace(line)
		if input == "" || strings.EqualFold(input, "q") {
			fmt.Fprintln(out)
			return nil
		}
		i, perr := parseChoice(input, s.options)
		if perr != nil {
			fmt.Fprintln(out, perr)
		} else {
			s.apply(i)
			fmt.Fprintln(out, s.status)
		}
		if errors.Is(err, io.EOF) {
			return nil
		}
	}
}

// parseChoice resolves a 1-based option number or an exact column name.
func parseChoice(input string, options []string) (int, error) {
	if n, err := strconv.Atoi(input); err == nil {
		if n < 1 || n > len(options) {
			return 0, fmt.Errorf("choice %d out of range 1-%d", n, len(options))
		}
		return n - 1, nil
	}
	for i, o := range options {
		if o == input {
			return i, nil
		}
	}
	for i, o := range options {
		if strings.EqualFold(o, input) {
			return i, nil
		}
	}
	return 0, fmt.Errorf("unknown column %q", input)
}
