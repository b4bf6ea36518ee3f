package fxengine

import "fmt"

// Tail is the offset sugar for the last cell of a delay line.
const Tail = -1

// LineSpec requests a delay line of Length cells.
type LineSpec struct {
	Name   string
	Length int
}

// Line is a resolved delay line: Length cells starting Base cells after the
// write cursor.
type Line struct {
	Name   string
	Base   int
	Length int
}

// End returns the first cell after the line.
func (l Line) End() int {
	return l.Base + l.Length
}

// Contains reports whether offset addresses a cell owned by the line.
// Tail always does.
func (l Line) Contains(offset int) bool {
	return offset == Tail || (offset >= 0 && offset < l.Length)
}

// ContainsSpan reports whether reads at offset and offset+1, as done by the
// interpolating reads, stay within the line and its trailing guard cell.
func (l Line) ContainsSpan(offset float64) bool {
	return offset >= 0 && int(offset)+1 <= l.Length
}

func (l Line) cell(offset int) int {
	if offset == Tail {
		return l.Base + l.Length - 1
	}
	return l.Base + offset
}

// Layout maps delay-line names to disjoint ranges of one ring buffer.
//
// Lines are packed in request order with one guard cell after each line, so
// an interpolating read one past a line's last cell never sees its
// neighbour's newest sample.
type Layout struct {
	lines  []Line
	byName map[string]int
	total  int
}

// NewLayout resolves the requested lines into base offsets by prefix sum.
func NewLayout(specs ...LineSpec) (*Layout, error) {
	if len(specs) == 0 {
		return nil, ErrEmptyLayout
	}

	l := &Layout{
		lines:  make([]Line, len(specs)),
		byName: make(map[string]int, len(specs)),
	}

	base := 0
	for i, s := range specs {
		if s.Name == "" {
			return nil, fmt.Errorf("%w: line %d has no name", ErrInvalidLine, i)
		}
		if s.Length <= 0 {
			return nil, fmt.Errorf("%w: %q length must be > 0: %d", ErrInvalidLine, s.Name, s.Length)
		}
		if _, dup := l.byName[s.Name]; dup {
			return nil, fmt.Errorf("%w: duplicate name %q", ErrInvalidLine, s.Name)
		}

		l.lines[i] = Line{Name: s.Name, Base: base, Length: s.Length}
		l.byName[s.Name] = i
		l.total += s.Length
		base += s.Length + 1
	}

	return l, nil
}

// Len returns the number of lines.
func (l *Layout) Len() int { return len(l.lines) }

// At returns the i-th line in request order.
func (l *Layout) At(i int) Line { return l.lines[i] }

// Line looks a line up by name.
func (l *Layout) Line(name string) (Line, bool) {
	i, ok := l.byName[name]
	if !ok {
		return Line{}, false
	}
	return l.lines[i], true
}

// Lines returns a copy of all lines in request order.
func (l *Layout) Lines() []Line {
	out := make([]Line, len(l.lines))
	copy(out, l.lines)
	return out
}

// Total returns the sum of all requested lengths.
func (l *Layout) Total() int { return l.total }

// Span returns the number of buffer cells the layout occupies, guard cells
// included.
func (l *Layout) Span() int { return l.total + len(l.lines) }
