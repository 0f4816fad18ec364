package cspace

import (
	"bufio"
	"bytes"
	"fmt"
	"strconv"
	"strings"

	"morphplan/alien"
)

// MarshalText writes the grid as a header line "granularity numX numY"
// followed by one block of numY rows per shape, blocks separated by a blank line.
// A grid with a start adds "prev=<label>" to the header: the label the start replaced.
func (g *Grid) MarshalText() ([]byte, error) {
	var buf bytes.Buffer
	fmt.Fprintf(&buf, "%s %d %d", strconv.FormatFloat(g.granularity, 'g', -1, 64), g.numX, g.numY)
	if g.hasStart {
		fmt.Fprintf(&buf, " %s%s", prevField, g.startPrev)
	}
	buf.WriteByte('\n')
	row := make([]rune, g.numX)
	for s := 0; s < alien.NumShapes; s++ {
		if s > 0 {
			buf.WriteByte('\n')
		}
		for y := 0; y < g.numY; y++ {
			for x := 0; x < g.numX; x++ {
				row[x] = g.Label(Cell{X: x, Y: y, Shape: alien.Shape(s)}).Rune()
			}
			buf.WriteString(string(row))
			buf.WriteByte('\n')
		}
	}
	return buf.Bytes(), nil
}

func (g *Grid) String() string {
	b, _ := g.MarshalText()
	return string(b)
}

const prevField = "prev="

// ParseGrid reads the text form written by MarshalText. At most one start cell
// is allowed. Without a prev field the start is taken to have replaced a wall.
func ParseGrid(data []byte) (*Grid, error) {
	sc := bufio.NewScanner(bytes.NewReader(data))
	if !sc.Scan() {
		return nil, fmt.Errorf("%w: missing header", ErrMalformedGrid)
	}
	header := sc.Text()
	fields := strings.Fields(header)
	if len(fields) != 3 && len(fields) != 4 {
		return nil, fmt.Errorf("%w: header %q", ErrMalformedGrid, header)
	}
	prev, hasPrev := Wall, false
	if len(fields) == 4 {
		name, ok := strings.CutPrefix(fields[3], prevField)
		if l, known := labelNamed(name); ok && known && l != Start {
			prev, hasPrev = l, true
		} else {
			return nil, fmt.Errorf("%w: header field %q", ErrMalformedGrid, fields[3])
		}
	}
	gran, err := strconv.ParseFloat(fields[0], 64)
	if err != nil || !(gran > 0) {
		return nil, fmt.Errorf("%w: granularity %q", ErrMalformedGrid, fields[0])
	}
	numX, errX := strconv.Atoi(fields[1])
	numY, errY := strconv.Atoi(fields[2])
	if errX != nil || errY != nil {
		return nil, fmt.Errorf("%w: dimensions %q %q", ErrMalformedGrid, fields[1], fields[2])
	}
	if err := checkDims(numX, numY); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformedGrid, err)
	}
	// every row needs numX runes and a newline; the last may omit the newline
	body := len(data) - len(header) - 1
	if need := alien.NumShapes*numY*(numX+1) - 1; body < need {
		return nil, fmt.Errorf("%w: %d bytes of rows, want at least %d", ErrMalformedGrid, body, need)
	}

	g := newGrid(numX, numY, gran)
	for s := 0; s < alien.NumShapes; s++ {
		if s > 0 {
			if !sc.Scan() || sc.Text() != "" {
				return nil, fmt.Errorf("%w: expected blank line before %s level", ErrMalformedGrid, alien.Shape(s))
			}
		}
		for y := 0; y < numY; y++ {
			if !sc.Scan() {
				return nil, fmt.Errorf("%w: %s level ends at row %d", ErrMalformedGrid, alien.Shape(s), y)
			}
			row := []rune(sc.Text())
			if len(row) != numX {
				return nil, fmt.Errorf("%w: %s row %d has %d cells, want %d",
					ErrMalformedGrid, alien.Shape(s), y, len(row), numX)
			}
			for x, r := range row {
				l, ok := labelOf(r)
				if !ok {
					return nil, fmt.Errorf("%w: unknown cell %q at %s row %d", ErrMalformedGrid, r, alien.Shape(s), y)
				}
				c := Cell{X: x, Y: y, Shape: alien.Shape(s)}
				if l == Start {
					if g.hasStart {
						return nil, fmt.Errorf("%w: second start at %v", ErrMalformedGrid, c)
					}
					g.setStart(c)
					continue
				}
				g.cells[g.index(c)] = l
			}
		}
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedGrid, err)
	}
	switch {
	case g.hasStart:
		g.startPrev = prev
	case hasPrev:
		return nil, fmt.Errorf("%w: prev field without a start cell", ErrMalformedGrid)
	}
	return g, nil
}
