// Package search finds minimum-cost paths through a discrete state space
// with a best-first search over a binary heap.
package search

import (
	"container/heap"
	"context"
	"errors"
	"fmt"

	"github.com/felixgeelhaar/bolt/v3"

	"morphplan/logging"
)

var (
	ErrExpansionLimit = errors.New("search: expansion limit reached")
	ErrNoStart        = errors.New("search: no start state")
)

// Key identifies a state: grid column, grid row and shape index.
type Key struct {
	Alpha, Beta, Gamma int
}

// Less is the structural order used to break priority ties.
func (k Key) Less(o Key) bool {
	if k.Alpha != o.Alpha {
		return k.Alpha < o.Alpha
	}
	if k.Beta != o.Beta {
		return k.Beta < o.Beta
	}
	return k.Gamma < o.Gamma
}

func (k Key) String() string {
	return fmt.Sprintf("(%d, %d, %d)", k.Alpha, k.Beta, k.Gamma)
}

// State is a node of the search graph. Two states with the same Key are the
// same logical node; DistFromStart is the cost of the path that produced it.
type State interface {
	Key() Key
	DistFromStart() float64
	// Heuristic must not overestimate the remaining cost.
	Heuristic() float64
	Neighbors() []State
	IsGoal() bool
}

type node struct {
	st   State
	f    float64
	seq  uint64
	heap int
}

type openHeap []*node

func (h openHeap) Len() int { return len(h) }
func (h openHeap) Less(i, j int) bool {
	a, b := h[i], h[j]
	if a.f != b.f {
		return a.f < b.f
	}
	ka, kb := a.st.Key(), b.st.Key()
	if ka != kb {
		return ka.Less(kb)
	}
	return a.seq < b.seq
}
func (h openHeap) Swap(i, j int)  { h[i], h[j] = h[j], h[i]; h[i].heap, h[j].heap = i, j }
func (h *openHeap) Push(x any)    { n := x.(*node); n.heap = len(*h); *h = append(*h, n) }
func (h *openHeap) Pop() any {
	old := *h
	n := len(old)
	x := old[n-1]
	old[n-1] = nil
	x.heap = -1
	*h = old[:n-1]
	return x
}

// visit is the best known way to reach a key.
type visit struct {
	cost   float64
	parent Key
	root   bool
	st     State
}

// Result of a search. Found is false when no goal is reachable; that is not an error.
type Result struct {
	Path     []State
	Cost     float64
	Explored int
	Found    bool
}

type options struct {
	maxExpansions int
	logger        *bolt.Logger
	fields        []logging.Field
}

type Option func(*options)

// WithMaxExpansions aborts the search with ErrExpansionLimit after n pops.
func WithMaxExpansions(n int) Option {
	return func(o *options) {
		o.maxExpansions = n
	}
}

// WithLogger sets the logger PlanGrid reports to. BestFirst itself does not log.
func WithLogger(l *bolt.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.logger = l
		}
	}
}

// WithLogFields attaches fields to the PlanGrid summary line.
func WithLogFields(fields ...logging.Field) Option {
	return func(o *options) {
		o.fields = append(o.fields, fields...)
	}
}

func newOptions(opts []Option) options {
	var o options
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// BestFirst runs a best-first search from start ordered by DistFromStart+Heuristic.
// Superseded frontier entries are left in the heap and skipped when popped.
// ctx is checked between pops.
func BestFirst(ctx context.Context, start State, opts ...Option) (Result, error) {
	if start == nil {
		return Result{}, ErrNoStart
	}
	o := newOptions(opts)

	visited := map[Key]*visit{
		start.Key(): {cost: start.DistFromStart(), root: true, st: start},
	}
	var seq uint64
	open := &openHeap{}
	push := func(st State) {
		seq++
		heap.Push(open, &node{st: st, f: st.DistFromStart() + st.Heuristic(), seq: seq})
	}
	push(start)

	explored := 0
	for open.Len() > 0 {
		if err := ctx.Err(); err != nil {
			return Result{Explored: explored}, err
		}
		cur := heap.Pop(open).(*node).st
		k := cur.Key()
		if best := visited[k]; best.cost != cur.DistFromStart() {
			continue // stale
		}
		explored++
		if cur.IsGoal() {
			return Result{
				Path:     backtrack(visited, k),
				Cost:     cur.DistFromStart(),
				Explored: explored,
				Found:    true,
			}, nil
		}
		if o.maxExpansions > 0 && explored >= o.maxExpansions {
			return Result{Explored: explored}, fmt.Errorf("%w after %d states", ErrExpansionLimit, explored)
		}

		for _, nb := range cur.Neighbors() {
			nk := nb.Key()
			d := nb.DistFromStart()
			if old, ok := visited[nk]; ok {
				if d < old.cost {
					old.cost, old.parent, old.root, old.st = d, k, false, nb
					push(nb)
				}
				continue
			}
			visited[nk] = &visit{cost: d, parent: k, st: nb}
			push(nb)
		}
	}
	return Result{Explored: explored}, nil
}

// backtrack walks parents from goal to the start and returns the path start first.
func backtrack(visited map[Key]*visit, goal Key) []State {
	var rev []State
	for k := goal; ; {
		v := visited[k]
		rev = append(rev, v.st)
		if v.root {
			break
		}
		k = v.parent
	}
	// reverse
	for i, j := 0, len(rev)-1; i < j; i, j = i+1, j-1 {
		rev[i], rev[j] = rev[j], rev[i]
	}
	return rev
}
