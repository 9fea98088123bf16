package svf

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// Program is an append-only list of SVF lines. A line may hold a statement
// spanning several physical lines. A Program is not safe for concurrent use.
type Program struct {
	lines []string
}

// NewProgram returns an empty program.
func NewProgram() *Program {
	return &Program{}
}

// Line appends a statement or any other raw line.
func (p *Program) Line(s string) {
	p.lines = append(p.lines, s)
}

// Linef appends a formatted line.
func (p *Program) Linef(format string, args ...any) {
	p.Line(fmt.Sprintf(format, args...))
}

// Comment appends a "!" comment.
func (p *Program) Comment(format string, args ...any) {
	p.Line("! " + fmt.Sprintf(format, args...))
}

// Lines returns a copy of the lines.
func (p *Program) Lines() []string {
	out := make([]string, len(p.lines))
	copy(out, p.lines)
	return out
}

// Len reports the number of lines.
func (p *Program) Len() int {
	return len(p.lines)
}

// Clone returns an independent copy, used to fork a common prefix into
// several files.
func (p *Program) Clone() *Program {
	return &Program{lines: p.Lines()}
}

// String joins the lines with newlines. There is no trailing newline.
func (p *Program) String() string {
	return strings.Join(p.lines, "\n")
}

// WriteTo writes the program text to w.
func (p *Program) WriteTo(w io.Writer) (int64, error) {
	n, err := io.WriteString(w, p.String())
	return int64(n), err
}

// WriteFile writes the program to path, creating the parent directory.
func (p *Program) WriteFile(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("svf: create %s: %w", filepath.Dir(path), err)
	}
	if err := os.WriteFile(path, []byte(p.String()), 0o644); err != nil {
		return fmt.Errorf("svf: write %s: %w", path, err)
	}
	return nil
}
