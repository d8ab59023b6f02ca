// Copyright ©2012 Dan Kortschak <dan.kortschak@adelaide.edu.au>
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with this program.  If not, see <http://www.gnu.org/licenses/>.

// Package dit implements the Dynamic Interval Tree: a Left-Leaning
// Red-Black tree keyed on an interval's low endpoint, with every node
// augmented by the minimum low and maximum high across its subtree so
// that overlap queries can prune whole subtrees instead of visiting
// every node. It is the most permissive dynamic index in this module:
// it places no restriction on overlaps, containments or reference
// duplicates, and rebuilds its augmentation in O(1) per rotation.
package dit

import (
	"cmp"

	"github.com/arborix/intervalstore/collection"
	"github.com/arborix/intervalstore/internal/diag"
	"github.com/arborix/intervalstore/interval"
	"github.com/arborix/intervalstore/ivlerr"
	"github.com/arborix/intervalstore/llrb"
	"github.com/arborix/intervalstore/sweep"
	"go.uber.org/zap"
)

// node is a single tree node. Unlike ibs's node, which is keyed on an
// endpoint value and holds many intervals, a dit node holds exactly one
// interval reference; duplicates (reference-equal or otherwise) simply
// occupy distinct nodes ordered by an insertion sequence tiebreak.
type node[T cmp.Ordered, I interval.Interval[T]] struct {
	elem        I
	seq         uint64
	left, right *node[T, I]
	Color       llrb.Color

	// minLow and maxHigh span this node's own interval and both
	// children's spans; they let a query skip a subtree that cannot
	// possibly contain an overlapping interval.
	minLow, maxHigh T
}

func (n *node[T, I]) color() llrb.Color {
	if n == nil {
		return llrb.Black
	}
	return n.Color
}

// keyCompare orders nodes by (low, insertion sequence): the sequence
// tiebreak gives every node a distinct key even when many intervals
// share the same low endpoint, which general-purpose duplicates and
// containments both produce freely.
func keyCompare[T cmp.Ordered](lowA T, seqA uint64, lowB T, seqB uint64) int {
	if c := cmp.Compare(lowA, lowB); c != 0 {
		return c
	}
	return cmp.Compare(seqA, seqB)
}

// adjustRange recomputes minLow/maxHigh from n's own interval and its
// immediate children; it never recurses, so a rotation that reattaches
// two subtrees can restore augmentation in O(1).
func (n *node[T, I]) adjustRange() {
	n.minLow, n.maxHigh = n.elem.Low(), n.elem.High()
	if n.left != nil {
		if cmp.Compare(n.left.minLow, n.minLow) < 0 {
			n.minLow = n.left.minLow
		}
		if cmp.Compare(n.left.maxHigh, n.maxHigh) > 0 {
			n.maxHigh = n.left.maxHigh
		}
	}
	if n.right != nil {
		if cmp.Compare(n.right.minLow, n.minLow) < 0 {
			n.minLow = n.right.minLow
		}
		if cmp.Compare(n.right.maxHigh, n.maxHigh) > 0 {
			n.maxHigh = n.right.maxHigh
		}
	}
}

// (a,c)b -rotL-> ((a,)b,)c
func (n *node[T, I]) rotateLeft() *node[T, I] {
	root := n.right
	n.right = root.left
	n.adjustRange()
	root.left = n
	root.Color = n.Color
	n.Color = llrb.Red
	root.adjustRange()
	return root
}

// (a,c)b -rotR-> (,(,c)b)a
func (n *node[T, I]) rotateRight() *node[T, I] {
	root := n.left
	n.left = root.right
	n.adjustRange()
	root.right = n
	root.Color = n.Color
	n.Color = llrb.Red
	root.adjustRange()
	return root
}

func (n *node[T, I]) flipColors() {
	n.Color = !n.Color
	n.left.Color = !n.left.Color
	n.right.Color = !n.right.Color
}

func (n *node[T, I]) fixUp() *node[T, I] {
	n.adjustRange()
	if n.right.color() == llrb.Red {
		if llrb.Mode == llrb.TD234 && n.right.left.color() == llrb.Red {
			n.right = n.right.rotateRight()
		}
		n = n.rotateLeft()
	}
	if n.left.color() == llrb.Red && n.left.left.color() == llrb.Red {
		n = n.rotateRight()
	}
	if llrb.Mode == llrb.BU23 && n.left.color() == llrb.Red && n.right.color() == llrb.Red {
		n.flipColors()
	}
	return n
}

func (n *node[T, I]) moveRedLeft() *node[T, I] {
	n.flipColors()
	if n.right.left.color() == llrb.Red {
		n.right = n.right.rotateRight()
		n = n.rotateLeft()
		n.flipColors()
		if llrb.Mode == llrb.TD234 && n.right.right.color() == llrb.Red {
			n.right = n.right.rotateLeft()
		}
	}
	return n
}

func (n *node[T, I]) moveRedRight() *node[T, I] {
	n.flipColors()
	if n.left.left.color() == llrb.Red {
		n = n.rotateRight()
		n.flipColors()
	}
	return n
}

func (n *node[T, I]) min() *node[T, I] {
	for n.left != nil {
		n = n.left
	}
	return n
}

// Tree is a Dynamic Interval Tree.
type Tree[T cmp.Ordered, I interval.Interval[T]] struct {
	collection.Notifier[T, I]
	root    *node[T, I]
	count   int
	nextSeq uint64
	// seqOf tracks every insertion sequence number assigned to a given
	// reference, since Tree allows the same reference to be added more
	// than once (AllowsReferenceDuplicates) and each copy occupies its
	// own (Low, seq)-keyed node.
	seqOf map[any][]uint64
	log   diag.Logger
}

const opPrefix = "dit.Tree"

// New returns an empty Tree. Passing diag.WithZap(z) attaches z as the
// tree's diagnostics sink; without it, diagnostics are discarded.
func New[T cmp.Ordered, I interval.Interval[T]](opts ...diag.Option) *Tree[T, I] {
	return &Tree[T, I]{seqOf: make(map[any][]uint64), log: diag.Apply(opts)}
}

// Capabilities reports that Tree allows every shape of overlap,
// containment and duplicate, like ibs, but is a per-interval balanced
// BST rather than an endpoint-keyed one.
func (t *Tree[T, I]) Capabilities() collection.Capabilities {
	return collection.Capabilities{
		AllowsReferenceDuplicates: true,
		AllowsContainments:        true,
		AllowsOverlaps:            true,
	}
}

func (t *Tree[T, I]) IsEmpty() bool                { return t.count == 0 }
func (t *Tree[T, I]) Count() int                   { return t.count }
func (t *Tree[T, I]) CountSpeed() collection.Speed { return collection.Constant }

func (t *Tree[T, I]) Choose() (I, error) {
	var zero I
	if t.root == nil {
		return zero, ivlerr.E(ivlerr.EmptyCollection, opPrefix+".Choose", nil)
	}
	return t.root.elem, nil
}

// all returns every stored interval in ascending low order.
func (t *Tree[T, I]) all() []I {
	out := make([]I, 0, t.count)
	var walk func(n *node[T, I])
	walk = func(n *node[T, I]) {
		if n == nil {
			return
		}
		walk(n.left)
		out = append(out, n.elem)
		walk(n.right)
	}
	walk(t.root)
	return out
}

func (t *Tree[T, I]) Span() (*interval.Endpoints[T], error) {
	s, err := interval.Span[T, I](t.all())
	if err != nil {
		return nil, ivlerr.E(ivlerr.EmptyCollection, opPrefix+".Span", err)
	}
	return s, nil
}

func (t *Tree[T, I]) LowestInterval() (I, error) {
	var zero I
	items := t.all()
	if len(items) == 0 {
		return zero, ivlerr.E(ivlerr.EmptyCollection, opPrefix+".LowestInterval", nil)
	}
	best := items[0]
	for _, it := range items[1:] {
		if interval.CompareLow[T, I](it, best) < 0 {
			best = it
		}
	}
	return best, nil
}

func (t *Tree[T, I]) HighestInterval() (I, error) {
	var zero I
	items := t.all()
	if len(items) == 0 {
		return zero, ivlerr.E(ivlerr.EmptyCollection, opPrefix+".HighestInterval", nil)
	}
	best := items[0]
	for _, it := range items[1:] {
		if interval.CompareHigh[T, I](it, best) > 0 {
			best = it
		}
	}
	return best, nil
}

func (t *Tree[T, I]) LowestIntervals() ([]I, error) {
	lo, err := t.LowestInterval()
	if err != nil {
		return nil, err
	}
	var out []I
	for _, it := range t.all() {
		if it.Low() == lo.Low() {
			out = append(out, it)
		}
	}
	return out, nil
}

func (t *Tree[T, I]) HighestIntervals() ([]I, error) {
	hi, err := t.HighestInterval()
	if err != nil {
		return nil, err
	}
	var out []I
	for _, it := range t.all() {
		if it.High() == hi.High() {
			out = append(out, it)
		}
	}
	return out, nil
}

// MaximumDepth delegates to the independently-verified sweep algorithm
// rather than maintaining its own running augmentation, matching the
// cross-check the spec's testable properties call for.
func (t *Tree[T, I]) MaximumDepth() int {
	return sweep.MaxDepth[T, I](t.all())
}

func (t *Tree[T, I]) FindEquals(query I) []I {
	var out []I
	for _, it := range t.all() {
		if interval.Equals[T, I](it, query) {
			out = append(out, it)
		}
	}
	return out
}

// boundsOverlapPoint conservatively reports whether p can fall inside
// any interval stored under a node whose subtree spans [minLow,maxHigh].
func boundsOverlapPoint[T cmp.Ordered](minLow, maxHigh, p T) bool {
	return cmp.Compare(minLow, p) <= 0 && cmp.Compare(p, maxHigh) <= 0
}

// boundsOverlap is the query-interval analogue of boundsOverlapPoint.
func boundsOverlap[T cmp.Ordered, I interval.Interval[T]](minLow, maxHigh T, query I) bool {
	return cmp.Compare(query.Low(), maxHigh) <= 0 && cmp.Compare(minLow, query.High()) <= 0
}

func (t *Tree[T, I]) FindOverlapsPoint(p T) []I {
	var out []I
	var walk func(n *node[T, I])
	walk = func(n *node[T, I]) {
		if n == nil || !boundsOverlapPoint(n.minLow, n.maxHigh, p) {
			return
		}
		walk(n.left)
		if interval.OverlapsPoint[T, I](n.elem, p) {
			out = append(out, n.elem)
		}
		walk(n.right)
	}
	walk(t.root)
	return out
}

func (t *Tree[T, I]) FindOverlaps(query I) []I {
	var out []I
	var walk func(n *node[T, I])
	walk = func(n *node[T, I]) {
		if n == nil || !boundsOverlap(n.minLow, n.maxHigh, query) {
			return
		}
		walk(n.left)
		if interval.Overlaps[T, I](n.elem, query) {
			out = append(out, n.elem)
		}
		walk(n.right)
	}
	walk(t.root)
	return out
}

func (t *Tree[T, I]) FindOverlap(query I) (I, bool) {
	hits := t.FindOverlaps(query)
	if len(hits) == 0 {
		var zero I
		return zero, false
	}
	return hits[0], true
}

func (t *Tree[T, I]) CountOverlaps(query I) int {
	return len(t.FindOverlaps(query))
}

func (t *Tree[T, I]) Gaps() []*interval.Endpoints[T] {
	items := t.all()
	sweep.StableSort[T, I](items)
	var merged []*interval.Endpoints[T]
	for _, it := range items {
		span, err := interval.New(it.Low(), it.High(), it.LowInc(), it.HighInc())
		if err != nil {
			continue
		}
		if len(merged) == 0 {
			merged = append(merged, span)
			continue
		}
		last := merged[len(merged)-1]
		if touches(last, span) {
			if cmp.Compare(span.High(), last.High()) > 0 ||
				(span.High() == last.High() && span.HighInc() && !last.HighInc()) {
				extended, err := interval.New(last.Low(), span.High(), last.LowInc(), span.HighInc())
				if err == nil {
					merged[len(merged)-1] = extended
				}
			}
			continue
		}
		merged = append(merged, span)
	}
	var gaps []*interval.Endpoints[T]
	for i := 0; i+1 < len(merged); i++ {
		if g, ok := gapBetween[T](merged[i], merged[i+1]); ok {
			gaps = append(gaps, g)
		}
	}
	return gaps
}

func touches[T cmp.Ordered](a, b *interval.Endpoints[T]) bool {
	c := cmp.Compare(b.Low(), a.High())
	if c < 0 {
		return true
	}
	if c == 0 {
		return a.HighInc() || b.LowInc()
	}
	return false
}

// gapBetween returns the span strictly between a and b, if one exists.
// When a.High() == b.Low() there is still a single-point gap if both
// endpoints exclude that shared value.
func gapBetween[T cmp.Ordered](a, b *interval.Endpoints[T]) (*interval.Endpoints[T], bool) {
	switch c := cmp.Compare(a.High(), b.Low()); {
	case c > 0:
		return nil, false
	case c == 0:
		if a.HighInc() || b.LowInc() {
			return nil, false
		}
		g, err := interval.New(a.High(), b.Low(), true, true)
		if err != nil {
			return nil, false
		}
		return g, true
	default:
		g, err := interval.New(a.High(), b.Low(), !a.HighInc(), !b.LowInc())
		if err != nil {
			return nil, false
		}
		return g, true
	}
}

func (t *Tree[T, I]) FindGaps(query I) []*interval.Endpoints[T] {
	var out []*interval.Endpoints[T]
	for _, g := range t.Gaps() {
		if interval.Overlaps[T, interval.Interval[T]](g, query) {
			out = append(out, g)
		}
	}
	return out
}

func (t *Tree[T, I]) insert(n *node[T, I], e I, seq uint64) *node[T, I] {
	if n == nil {
		return &node[T, I]{elem: e, seq: seq, minLow: e.Low(), maxHigh: e.High()}
	}
	if llrb.Mode == llrb.TD234 {
		if n.left.color() == llrb.Red && n.right.color() == llrb.Red {
			n.flipColors()
		}
	}
	if keyCompare(e.Low(), seq, n.elem.Low(), n.seq) < 0 {
		n.left = t.insert(n.left, e, seq)
	} else {
		n.right = t.insert(n.right, e, seq)
	}
	return n.fixUp()
}

// Add inserts i. DIT never rejects an interval: it has no capability
// restriction to violate.
func (t *Tree[T, I]) Add(i I) (bool, error) {
	seq := t.nextSeq
	t.nextSeq++
	t.seqOf[any(i)] = append(t.seqOf[any(i)], seq)
	t.root = t.insert(t.root, i, seq)
	t.root.Color = llrb.Black
	t.count++
	t.log.Debug("dit: inserted", zap.Int("count", t.count))
	t.NotifyAdded([]I{i})
	return true, nil
}

func (t *Tree[T, I]) AddAll(items []I) (int, error) {
	for _, it := range items {
		_, _ = t.Add(it)
	}
	return len(items), nil
}

func (t *Tree[T, I]) deleteMin(n *node[T, I]) *node[T, I] {
	if n.left == nil {
		return nil
	}
	if n.left.color() == llrb.Black && n.left.left.color() == llrb.Black {
		n = n.moveRedLeft()
	}
	n.left = t.deleteMin(n.left)
	return n.fixUp()
}

func (t *Tree[T, I]) delete(n *node[T, I], low T, seq uint64) *node[T, I] {
	if keyCompare(low, seq, n.elem.Low(), n.seq) < 0 {
		if n.left != nil {
			if n.left.color() == llrb.Black && n.left.left.color() == llrb.Black {
				n = n.moveRedLeft()
			}
			n.left = t.delete(n.left, low, seq)
		}
	} else {
		if n.left.color() == llrb.Red {
			n = n.rotateRight()
		}
		if n.right == nil && n.seq == seq {
			return nil
		}
		if n.right != nil {
			if n.right.color() == llrb.Black && n.right.left.color() == llrb.Black {
				n = n.moveRedRight()
			}
			if n.seq == seq {
				succ := n.right.min()
				n.elem, n.seq = succ.elem, succ.seq
				n.right = t.deleteMin(n.right)
			} else {
				n.right = t.delete(n.right, low, seq)
			}
		}
	}
	return n.fixUp()
}

// Remove deletes one reference-equal copy of i, leaving any other
// copies of the same reference (Tree allows reference duplicates)
// untouched. Lookup of i's insertion sequences (via an internal
// reference-identity map standing in for the per-element ID the tree
// itself doesn't require of I) lets the subsequent tree walk be guided
// by key comparison the same way the rest of the tree is, rather than
// a linear scan.
func (t *Tree[T, I]) Remove(i I) (bool, error) {
	seqs, ok := t.seqOf[any(i)]
	if !ok || len(seqs) == 0 {
		return false, nil
	}
	if t.count == 0 {
		t.log.Error("dit: seqOf held an entry for an empty tree")
		return false, ivlerr.NewCorrupt(opPrefix+".Remove", "seqOf holds a reference absent from an empty tree")
	}
	seq := seqs[len(seqs)-1]
	if len(seqs) == 1 {
		delete(t.seqOf, any(i))
	} else {
		t.seqOf[any(i)] = seqs[:len(seqs)-1]
	}
	t.root = t.delete(t.root, i.Low(), seq)
	if t.root != nil {
		t.root.Color = llrb.Black
	}
	t.count--
	t.log.Debug("dit: removed", zap.Int("count", t.count))
	t.NotifyRemoved([]I{i})
	return true, nil
}

func (t *Tree[T, I]) Clear() error {
	if t.count == 0 {
		return nil
	}
	t.root = nil
	t.count = 0
	t.seqOf = make(map[any][]uint64)
	t.NotifyCleared()
	return nil
}

func (t *Tree[T, I]) Do(fn func(I) bool) bool {
	for _, it := range t.all() {
		if fn(it) {
			return true
		}
	}
	return false
}
