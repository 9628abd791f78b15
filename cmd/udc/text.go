package main

import (
	"fmt"
	"os"
	"strings"

	udc "github.com/dealcipher/udc"
	"golang.org/x/term"
)

const defaultTerminalWidth = 80

// printText renders a human-readable summary of output to stdout, wrapping
// the summary line and every disclosure body to the detected terminal
// width (falling back to defaultTerminalWidth when stdout is not a TTY,
// e.g. when piped into a file or another command).
func printText(output udc.UdcOutput) {
	width := terminalWidth()

	fmt.Printf("Deal %s (%s)\n", output.DealID, output.DealType)
	fmt.Println(wrap(output.Summary, width))
	fmt.Printf("\nNet tax: %s  (base %s @ %s)\n",
		output.TaxBreakdown.NetTax, output.TaxBreakdown.TaxBase, output.TaxBreakdown.EffectiveRate)

	if len(output.Validation.Warnings) > 0 {
		fmt.Printf("\nWarnings:\n")
		for _, w := range output.Validation.Warnings {
			fmt.Printf("  - [%s] %s\n", w.Code, wrap(w.Message, width-4))
		}
	}

	if len(output.Disclosures) > 0 {
		fmt.Printf("\nDisclosures:\n")
		for _, d := range output.Disclosures {
			fmt.Printf("  %s (%s)\n", d.Title, d.Code)
			fmt.Println(indent(wrap(d.Text, width-4), "    "))
		}
	}
}

func terminalWidth() int {
	if w, _, err := term.GetSize(int(os.Stdout.Fd())); err == nil && w > 0 {
		return w
	}
	return defaultTerminalWidth
}

func wrap(text string, width int) string {
	if width < 20 {
		width = 20
	}
	words := strings.Fields(text)
	if len(words) == 0 {
		return ""
	}
	var b strings.Builder
	lineLen := 0
	for i, w := range words {
		if lineLen > 0 && lineLen+1+len(w) > width {
			b.WriteByte('\n')
			lineLen = 0
		} else if i > 0 {
			b.WriteByte(' ')
			lineLen++
		}
		b.WriteString(w)
		lineLen += len(w)
	}
	return b.String()
}

func indent(text, prefix string) string {
	lines := strings.Split(text, "\n")
	for i, l := range lines {
		lines[i] = prefix + l
	}
	return strings.Join(lines, "\n")
}
