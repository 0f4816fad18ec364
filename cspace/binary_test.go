package cspace

import (
	"bytes"
	"encoding/binary"
	"errors"
	"math"
	"os"
	"path/filepath"
	"testing"

	"morphplan/alien"
)

func sameGrid(t *testing.T, got, want *Grid) {
	t.Helper()
	if got.Granularity() != want.Granularity() {
		t.Fatalf("granularity = %v, want %v", got.Granularity(), want.Granularity())
	}
	gx, gy := got.Dims()
	wx, wy := want.Dims()
	if gx != wx || gy != wy {
		t.Fatalf("Dims() = %dx%d, want %dx%d", gx, gy, wx, wy)
	}
	want.Each(func(c Cell, l Label) {
		if got.Label(c) != l {
			t.Fatalf("Label(%v) = %v, want %v", c, got.Label(c), l)
		}
	})
	gs, gok := got.Start()
	ws, wok := want.Start()
	if gs != ws || gok != wok {
		t.Fatalf("Start() = %v, %v, want %v, %v", gs, gok, ws, wok)
	}
}

func TestBinaryRoundTrip(t *testing.T) {
	// start inside the goal, so the replaced label must survive
	want := buildTestGrid(t, newTestAlien(t, 80, 40, alien.Ball))

	var buf bytes.Buffer
	n, err := want.WriteTo(&buf)
	if err != nil {
		t.Fatalf("WriteTo failed: %v", err)
	}
	if n != int64(buf.Len()) {
		t.Fatalf("WriteTo reported %d bytes, wrote %d", n, buf.Len())
	}
	numX, numY := want.Dims()
	if cells := alien.NumShapes * numX * numY; buf.Len() >= cells {
		t.Fatalf("binary form %d bytes is not packed (%d cells)", buf.Len(), cells)
	}

	got, err := ReadGrid(&buf)
	if err != nil {
		t.Fatalf("ReadGrid failed: %v", err)
	}
	sameGrid(t, got, want)
	start, _ := got.Start()
	if !got.IsGoal(start) {
		t.Fatalf("start inside goal lost its goal status")
	}
}

func TestTextRoundTripStartInsideGoal(t *testing.T) {
	want := buildTestGrid(t, newTestAlien(t, 80, 40, alien.Ball))
	text, err := want.MarshalText()
	if err != nil {
		t.Fatalf("MarshalText failed: %v", err)
	}
	got, err := ParseGrid(text)
	if err != nil {
		t.Fatalf("ParseGrid failed: %v", err)
	}
	sameGrid(t, got, want)
	start, _ := got.Start()
	if !got.IsGoal(start) {
		t.Fatalf("start inside goal lost its goal status in the text form")
	}
}

func TestReadGridErrors(t *testing.T) {
	g, err := ParseGrid([]byte(smallGrid))
	if err != nil {
		t.Fatal(err)
	}
	var buf bytes.Buffer
	if _, err := g.WriteTo(&buf); err != nil {
		t.Fatal(err)
	}
	valid := buf.Bytes()

	badMagic := append([]byte{}, valid...)
	badMagic[0] = 'X'
	// start record at (1, 0, Ball) moved to (2, 0, Ball)
	const startX = 4 + 8 + 4 + 4 + 1
	movedStart := append([]byte{}, valid...)
	movedStart[startX] = 2

	// magic, granularity 1, then extents 0xFFFFFFFF x 0xFFFFFFFF and no start
	huge := append([]byte{}, binaryMagic[:]...)
	huge = binary.LittleEndian.AppendUint64(huge, math.Float64bits(1))
	huge = binary.LittleEndian.AppendUint32(huge, math.MaxUint32)
	huge = binary.LittleEndian.AppendUint32(huge, math.MaxUint32)
	huge = append(huge, 0)

	// extents within MaxCells but far more cells than the input holds
	lying := append([]byte{}, binaryMagic[:]...)
	lying = binary.LittleEndian.AppendUint64(lying, math.Float64bits(1))
	lying = binary.LittleEndian.AppendUint32(lying, 8000)
	lying = binary.LittleEndian.AppendUint32(lying, 8000)
	lying = append(lying, 0, 0xff)

	badPrev := append([]byte{}, valid...)
	badPrev[startX+4+4+1] = 7

	tests := map[string][]byte{
		"empty":       nil,
		"huge-dims":   huge,
		"lying-dims":  lying,
		"bad-prev":    badPrev,
		"bad-magic":   badMagic,
		"header-only": valid[:12],
		"truncated":   valid[:len(valid)-1],
		"moved-start": movedStart,
	}
	for name, data := range tests {
		t.Run(name, func(t *testing.T) {
			if _, err := ReadGrid(bytes.NewReader(data)); !errors.Is(err, ErrMalformedGrid) {
				t.Fatalf("expected ErrMalformedGrid, got %v", err)
			}
		})
	}
}

func TestLoadGrid(t *testing.T) {
	dir := t.TempDir()
	want, err := ParseGrid([]byte(smallGrid))
	if err != nil {
		t.Fatal(err)
	}

	textPath := filepath.Join(dir, "small.txt")
	if err := os.WriteFile(textPath, []byte(smallGrid), 0o644); err != nil {
		t.Fatal(err)
	}
	var buf bytes.Buffer
	if _, err := want.WriteTo(&buf); err != nil {
		t.Fatal(err)
	}
	binPath := filepath.Join(dir, "small.grid")
	if err := os.WriteFile(binPath, buf.Bytes(), 0o644); err != nil {
		t.Fatal(err)
	}

	for _, path := range []string{textPath, binPath} {
		got, err := LoadGrid(path)
		if err != nil {
			t.Fatalf("LoadGrid(%s) failed: %v", path, err)
		}
		sameGrid(t, got, want)
	}
	if _, err := LoadGrid(filepath.Join(dir, "missing")); err == nil {
		t.Fatal("expected error for missing file")
	}
}
