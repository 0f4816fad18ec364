package cspace

import (
	"bytes"
	"context"
	"encoding/binary"
	"hash/fnv"
	"math"
	"strconv"
	"sync/atomic"

	"golang.org/x/sync/singleflight"
	"golang.org/x/sync/syncmap"

	"morphplan/alien"
	"morphplan/geometry"
)

// Request is everything Build needs; it doubles as the cache key.
type Request struct {
	Alien       *alien.Alien
	Goals       []geometry.Goal
	Walls       []geometry.Segment
	Window      geometry.Window
	Granularity float64
}

// encode serialises the request so equal requests produce equal bytes.
func (r Request) encode() []byte {
	var buf bytes.Buffer
	var b [8]byte
	putF := func(v float64) {
		binary.LittleEndian.PutUint64(b[:], math.Float64bits(v))
		buf.Write(b[:])
	}

	putF(r.Granularity)
	putF(r.Window.Width)
	putF(r.Window.Height)

	cfg := r.Alien.Config()
	putF(cfg.X)
	putF(cfg.Y)
	buf.WriteByte(byte(cfg.Shape))
	for _, v := range r.Alien.Lengths() {
		putF(v)
	}
	for _, v := range r.Alien.Widths() {
		putF(v)
	}

	binary.LittleEndian.PutUint64(b[:], uint64(len(r.Walls)))
	buf.Write(b[:])
	for _, w := range r.Walls {
		putF(w.A[0])
		putF(w.A[1])
		putF(w.B[0])
		putF(w.B[1])
	}
	binary.LittleEndian.PutUint64(b[:], uint64(len(r.Goals)))
	buf.Write(b[:])
	for _, g := range r.Goals {
		putF(g.Center[0])
		putF(g.Center[1])
		putF(g.Radius)
	}
	return buf.Bytes()
}

func fingerprint(raw []byte) uint64 {
	h := fnv.New64a()
	_, _ = h.Write(raw)
	return h.Sum64()
}

// Fingerprint is a 64-bit FNV-1a hash of the request.
func (r Request) Fingerprint() uint64 {
	return fingerprint(r.encode())
}

type cacheEntry struct {
	raw  []byte
	grid *Grid
}

// Cache memoises built grids. Concurrent requests for the same workspace and
// granularity share one build.
type Cache struct {
	opts   []Option
	group  singleflight.Group
	grids  syncmap.Map // uint64 -> cacheEntry
	builds atomic.Uint32
}

func NewCache(opts ...Option) *Cache {
	return &Cache{opts: opts}
}

// Get returns the grid for req, building it on first use. A shared build is
// not cancelled by any one caller; a caller whose ctx ends stops waiting and
// returns ctx.Err() while the build finishes for the others.
func (c *Cache) Get(ctx context.Context, req Request) (*Grid, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	raw := req.encode()
	h := fingerprint(raw)
	if g, ok := c.lookup(h, raw); ok {
		return g, nil
	}

	buildCtx := context.WithoutCancel(ctx)
	ch := c.group.DoChan(strconv.FormatUint(h, 16), func() (any, error) {
		// double-check
		if g, ok := c.lookup(h, raw); ok {
			return cacheEntry{raw: raw, grid: g}, nil
		}
		g, err := Build(buildCtx, req.Alien, req.Goals, req.Walls, req.Window, req.Granularity, c.opts...)
		if err != nil {
			return nil, err
		}
		c.builds.Add(1)
		e := cacheEntry{raw: raw, grid: g}
		c.grids.LoadOrStore(h, e)
		return e, nil
	})
	var res singleflight.Result
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res = <-ch:
	}
	if res.Err != nil {
		return nil, res.Err
	}
	if e := res.Val.(cacheEntry); bytes.Equal(e.raw, raw) {
		return e.grid, nil
	}

	// hash collision with a different request in flight; build uncached
	c.builds.Add(1)
	return Build(ctx, req.Alien, req.Goals, req.Walls, req.Window, req.Granularity, c.opts...)
}

func (c *Cache) lookup(h uint64, raw []byte) (*Grid, bool) {
	v, ok := c.grids.Load(h)
	if !ok {
		return nil, false
	}
	e := v.(cacheEntry)
	if !bytes.Equal(e.raw, raw) {
		return nil, false
	}
	return e.grid, true
}

// Builds reports how many grids were actually built.
func (c *Cache) Builds() uint32 {
	return c.builds.Load()
}

// Forget drops every cached grid.
func (c *Cache) Forget() {
	c.grids.Range(func(k, _ any) bool {
		c.grids.Delete(k)
		return true
	})
}
