package cspace

import (
	"bufio"
	"bytes"
	"encoding/binary"
	"fmt"
	"io"
	"math"
	"os"

	"morphplan/alien"
)

// binaryMagic opens every binary grid. Text grids start with a digit, so
// LoadGrid can tell the two apart.
var binaryMagic = [4]byte{'M', 'P', 'G', 1}

// 四个 label 打包为一个字节
const labelsPerByte = 4

// binWriter is a little-endian writer that keeps the first error.
type binWriter struct {
	w   *bufio.Writer
	buf [8]byte
	n   int64
	err error
}

func newBinWriter(w io.Writer) *binWriter {
	return &binWriter{w: bufio.NewWriter(w)}
}

func (w *binWriter) write(b []byte) {
	if w.err != nil {
		return
	}
	n, err := w.w.Write(b)
	w.n += int64(n)
	w.err = err
}

func (w *binWriter) uint8(v uint8) {
	w.buf[0] = v
	w.write(w.buf[:1])
}

func (w *binWriter) uint32(v uint32) {
	binary.LittleEndian.PutUint32(w.buf[:4], v)
	w.write(w.buf[:4])
}

func (w *binWriter) float64(v float64) {
	binary.LittleEndian.PutUint64(w.buf[:8], math.Float64bits(v))
	w.write(w.buf[:8])
}

func (w *binWriter) flush() (int64, error) {
	if w.err == nil {
		w.err = w.w.Flush()
	}
	return w.n, w.err
}

// binReader mirrors binWriter; after the first error every read returns zero.
type binReader struct {
	r   io.Reader
	buf [8]byte
	err error
}

func (r *binReader) read(b []byte) bool {
	if r.err != nil {
		return false
	}
	if _, err := io.ReadFull(r.r, b); err != nil {
		r.err = err
		return false
	}
	return true
}

func (r *binReader) uint8() uint8 {
	if !r.read(r.buf[:1]) {
		return 0
	}
	return r.buf[0]
}

func (r *binReader) uint32() uint32 {
	if !r.read(r.buf[:4]) {
		return 0
	}
	return binary.LittleEndian.Uint32(r.buf[:4])
}

func (r *binReader) float64() float64 {
	if !r.read(r.buf[:8]) {
		return 0
	}
	return math.Float64frombits(binary.LittleEndian.Uint64(r.buf[:8]))
}

// WriteTo writes the compact binary form: magic, granularity, extents, the
// start record and the labels packed two bits each in (shape, x, y) order.
func (g *Grid) WriteTo(w io.Writer) (int64, error) {
	bw := newBinWriter(w)
	bw.write(binaryMagic[:])
	bw.float64(g.granularity)
	bw.uint32(uint32(g.numX))
	bw.uint32(uint32(g.numY))
	if g.hasStart {
		bw.uint8(1)
		bw.uint32(uint32(g.start.X))
		bw.uint32(uint32(g.start.Y))
		bw.uint8(uint8(g.start.Shape))
		bw.uint8(uint8(g.startPrev))
	} else {
		bw.uint8(0)
	}

	packed := make([]byte, (len(g.cells)+labelsPerByte-1)/labelsPerByte)
	for i, l := range g.cells {
		packed[i/labelsPerByte] |= byte(l) << (2 * (i % labelsPerByte))
	}
	bw.write(packed)
	return bw.flush()
}

// ReadGrid reads the binary form written by WriteTo.
func ReadGrid(r io.Reader) (*Grid, error) {
	br := &binReader{r: bufio.NewReader(r)}
	var magic [4]byte
	if br.read(magic[:]) && magic != binaryMagic {
		return nil, fmt.Errorf("%w: bad magic %q", ErrMalformedGrid, magic[:])
	}
	gran := br.float64()
	numX, numY := int(br.uint32()), int(br.uint32())
	hasStart := br.uint8() == 1
	var start Cell
	var startPrev Label
	if hasStart {
		start = Cell{X: int(br.uint32()), Y: int(br.uint32()), Shape: alien.Shape(br.uint8())}
		startPrev = Label(br.uint8())
	}
	if br.err != nil {
		return nil, fmt.Errorf("%w: header: %v", ErrMalformedGrid, br.err)
	}
	if !(gran > 0) {
		return nil, fmt.Errorf("%w: granularity %g", ErrMalformedGrid, gran)
	}
	if err := checkDims(numX, numY); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformedGrid, err)
	}

	// read before allocating the grid so a lying header cannot outgrow the input
	need := (alien.NumShapes*numX*numY + labelsPerByte - 1) / labelsPerByte
	packed, err := io.ReadAll(io.LimitReader(br.r, int64(need)))
	if err != nil {
		return nil, fmt.Errorf("%w: cells: %v", ErrMalformedGrid, err)
	}
	if len(packed) != need {
		return nil, fmt.Errorf("%w: %d bytes of cells, want %d", ErrMalformedGrid, len(packed), need)
	}
	g := newGrid(numX, numY, gran)
	for i := range g.cells {
		g.cells[i] = Label((packed[i/labelsPerByte] >> (2 * (i % labelsPerByte))) & 0b11)
	}

	starts := g.Count(Start)
	switch {
	case hasStart && (!g.InBounds(start) || g.Label(start) != Start || starts != 1 || startPrev >= Start):
		return nil, fmt.Errorf("%w: start record %v does not match cells", ErrMalformedGrid, start)
	case !hasStart && starts != 0:
		return nil, fmt.Errorf("%w: start cell without start record", ErrMalformedGrid)
	}
	g.start, g.hasStart, g.startPrev = start, hasStart, startPrev
	return g, nil
}

// LoadGrid reads a grid file in either the binary or the text form.
func LoadGrid(path string) (*Grid, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read grid file: %w", err)
	}
	if bytes.HasPrefix(data, binaryMagic[:]) {
		return ReadGrid(bytes.NewReader(data))
	}
	return ParseGrid(data)
}
