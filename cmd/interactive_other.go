//go:build !windows

package main

// enableVT is a no-op: ANSI sequences work on Unix terminals as is.
func enableVT() {}
