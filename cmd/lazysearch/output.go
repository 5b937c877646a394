package main

import (
	"fmt"
	"io"

	"github.com/gookit/color"
	"github.com/zoobzio/lazysearch"
)

// Color functions used when printing results
var (
	colorCyan   = color.Cyan.Sprintf
	colorGreen  = color.Green.Sprintf
	colorYellow = color.Yellow.Sprintf
	colorRed    = color.Red.Sprintf
)

// printResult prints the outcome of one search over chain.
func printResult[T any](w io.Writer, chain *lazysearch.Chain[T], target T, index int) {
	fmt.Fprintf(w, "%s %v\n", colorCyan("%s:", chain.Name()), chain.Names())
	if index == lazysearch.NotFound {
		fmt.Fprintf(w, "  %s\n", colorYellow("%v not found", target))
		return
	}
	fmt.Fprintf(w, "  %s\n", colorGreen("%v found at index %d", target, index))
}

// printCheck prints a demo assertion and reports whether it held.
func printCheck(w io.Writer, label string, got, want int) bool {
	if got == want {
		fmt.Fprintf(w, "%s %s = %d\n", colorGreen("ok  "), label, got)
		return true
	}
	fmt.Fprintf(w, "%s %s = %d, want %d\n", colorRed("FAIL"), label, got, want)
	return false
}
