package output

import (
	"fmt"
	"io"

	"github.com/gookit/color"
)

// HeaderPrinter lists column names one per line.
type HeaderPrinter struct {
	w        io.Writer
	colorize bool
}

// NewHeaderPrinter returns a printer on w. With colorize set, names are
// highlighted when the terminal supports it.
func NewHeaderPrinter(w io.Writer, colorize bool) *HeaderPrinter {
	return &HeaderPrinter{w: w, colorize: colorize}
}

// Print writes every name on its own line.
func (p *HeaderPrinter) Print(names []string) error {
	for _, name := range names {
		if p.colorize {
			name = color.Cyan.Sprint(name)
		}
		if _, err := fmt.Fprintln(p.w, name); err != nil {
			return fmt.Errorf("failed to print headers: %w", err)
		}
	}
	return nil
}
