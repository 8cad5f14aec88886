package gen

import (
	"bytes"
	"fmt"
	"io"
	"strings"
)

// Vars maps template variable names to their values.
type Vars map[string]string

// Printer accumulates generated source text. Templates passed to Emit
// reference variables as $name$ ($$ prints a literal dollar) and are
// dedented first, so they can be written as indented raw strings.
//
// The first substitution error is sticky and reported by Err; later calls
// keep appending so callers check once at the end.
type Printer struct {
	buf    bytes.Buffer
	scopes []Vars
	err    error
}

// NewPrinter returns an empty printer.
func NewPrinter() *Printer {
	return &Printer{}
}

// WithVars makes v visible to every subsequent Emit until the returned
// function is called.
func (p *Printer) WithVars(v Vars) (pop func()) {
	p.scopes = append(p.scopes, v)
	n := len(p.scopes)
	return func() {
		p.scopes = p.scopes[:n-1]
	}
}

// Emit dedents tmpl, substitutes variables and appends the result. Variables
// in v shadow the ones bound with WithVars. Multi-line values are indented
// to the column of the line they are substituted in, and a line holding
// only empty values is omitted.
func (p *Printer) Emit(v Vars, tmpl string) {
	text := dedent(tmpl)
	var (
		indent      string
		atLineStart = true
		lineStart   = p.buf.Len()
		lineHasVar  bool
	)
	for len(text) > 0 {
		c := text[0]
		if c != '$' {
			text = text[1:]
			if c == '\n' {
				// A line left blank by empty variables is dropped.
				if line := p.buf.Bytes()[lineStart:]; lineHasVar && len(bytes.TrimSpace(line)) == 0 {
					p.buf.Truncate(lineStart)
				} else {
					p.buf.WriteByte(c)
				}
				indent, atLineStart, lineStart, lineHasVar = "", true, p.buf.Len(), false
				continue
			}
			p.buf.WriteByte(c)
			switch {
			case atLineStart && (c == ' ' || c == '\t'):
				indent += string(c)
			default:
				atLineStart = false
			}
			continue
		}
		j := strings.IndexByte(text[1:], '$')
		if j < 0 {
			p.fail(fmt.Errorf("unterminated variable in template: %s", text))
			return
		}
		name := text[1 : j+1]
		text = text[j+2:]
		atLineStart = false
		if name == "" {
			p.buf.WriteByte('$')
			continue
		}
		lineHasVar = true
		val, ok := p.lookup(v, name)
		if !ok {
			p.fail(fmt.Errorf("undefined template variable $%s$", name))
			continue
		}
		p.buf.WriteString(indentLines(val, indent))
	}
}

// PrintRaw appends s verbatim.
func (p *Printer) PrintRaw(s string) {
	p.buf.WriteString(s)
}

// Err returns the first error encountered while emitting.
func (p *Printer) Err() error { return p.err }

// String returns the accumulated text.
func (p *Printer) String() string { return p.buf.String() }

// WriteTo writes the accumulated text to w.
func (p *Printer) WriteTo(w io.Writer) (int64, error) {
	n, err := w.Write(p.buf.Bytes())
	return int64(n), err
}

func (p *Printer) lookup(v Vars, name string) (string, bool) {
	if val, ok := v[name]; ok {
		return val, true
	}
	for i := len(p.scopes) - 1; i >= 0; i-- {
		if val, ok := p.scopes[i][name]; ok {
			return val, true
		}
	}
	return "", false
}

func (p *Printer) fail(err error) {
	if p.err == nil {
		p.err = err
	}
}

// indentLines prefixes every non-empty line of s but the first with indent.
func indentLines(s, indent string) string {
	if indent == "" || !strings.Contains(s, "\n") {
		return s
	}
	lines := strings.Split(s, "\n")
	for i := 1; i < len(lines); i++ {
		if lines[i] != "" {
			lines[i] = indent + lines[i]
		}
	}
	return strings.Join(lines, "\n")
}

// dedent strips one leading newline, the indentation common to all
// non-blank lines and a trailing whitespace-only line.
func dedent(s string) string {
	s = strings.TrimPrefix(s, "\n")
	lines := strings.Split(s, "\n")
	if n := len(lines); n > 1 && strings.TrimSpace(lines[n-1]) == "" {
		lines[n-1] = ""
	}
	indent := -1
	for _, l := range lines {
		if strings.TrimSpace(l) == "" {
			continue
		}
		w := len(l) - len(strings.TrimLeft(l, " \t"))
		if indent < 0 || w < indent {
			indent = w
		}
	}
	for i, l := range lines {
		if strings.TrimSpace(l) == "" {
			lines[i] = ""
			continue
		}
		lines[i] = l[indent:]
	}
	return strings.Join(lines, "\n")
}
