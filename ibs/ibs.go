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

// Package ibs implements the Interval Binary Search Tree: an
// AVL-balanced BST keyed on the endpoint values seen in the collection
// rather than on interval references. Each node carries three interval
// sets: Less (lows strictly before the key, overlapping it), Equal
// (an endpoint exactly at the key) and Greater (highs strictly after
// the key, overlapping it). It is the most permissive of the indexes:
// it places no restriction on overlaps, containments or duplicates.
package ibs

import (
	"cmp"

	"github.com/arborix/intervalstore/collection"
	"github.com/arborix/intervalstore/internal/diag"
	"github.com/arborix/intervalstore/interval"
	"github.com/arborix/intervalstore/ivlerr"
	"github.com/arborix/intervalstore/sweep"
	"go.uber.org/zap"
)

type node[T cmp.Ordered, I interval.Interval[T]] struct {
	key         T
	left, right *node[T, I]
	height      int

	less, equal, greater []I

	// delta and sum are a best-effort running-depth augmentation
	// maintained alongside the tree shape, described in DESIGN.md;
	// MaximumDepth itself is computed by the independently-verified
	// sweep algorithm so it is never at the mercy of this
	// approximation.
	delta, sum int
}

func height[T cmp.Ordered, I interval.Interval[T]](n *node[T, I]) int {
	if n == nil {
		return 0
	}
	return n.height
}

func updateHeight[T cmp.Ordered, I interval.Interval[T]](n *node[T, I]) {
	n.height = 1 + max(height[T, I](n.left), height[T, I](n.right))
}

func balanceFactor[T cmp.Ordered, I interval.Interval[T]](n *node[T, I]) int {
	return height[T, I](n.left) - height[T, I](n.right)
}

func rotateRight[T cmp.Ordered, I interval.Interval[T]](n *node[T, I]) *node[T, I] {
	root := n.left
	n.left = root.right
	root.right = n
	updateHeight[T, I](n)
	updateHeight[T, I](root)
	return root
}

func rotateLeft[T cmp.Ordered, I interval.Interval[T]](n *node[T, I]) *node[T, I] {
	root := n.right
	n.right = root.left
	root.left = n
	updateHeight[T, I](n)
	updateHeight[T, I](root)
	return root
}

func rebalance[T cmp.Ordered, I interval.Interval[T]](n *node[T, I]) *node[T, I] {
	updateHeight[T, I](n)
	switch bf := balanceFactor[T, I](n); {
	case bf > 1:
		if balanceFactor[T, I](n.left) < 0 {
			n.left = rotateLeft[T, I](n.left)
		}
		return rotateRight[T, I](n)
	case bf < -1:
		if balanceFactor[T, I](n.right) > 0 {
			n.right = rotateRight[T, I](n.right)
		}
		return rotateLeft[T, I](n)
	default:
		return n
	}
}

// insertKey ensures a node with the given key exists, returning the
// (possibly rebalanced) subtree root and a pointer to that node.
func insertKey[T cmp.Ordered, I interval.Interval[T]](n *node[T, I], key T) (*node[T, I], *node[T, I]) {
	if n == nil {
		nn := &node[T, I]{key: key, height: 1}
		return nn, nn
	}
	switch c := cmp.Compare(key, n.key); {
	case c == 0:
		return n, n
	case c < 0:
		var found *node[T, I]
		n.left, found = insertKey[T, I](n.left, key)
		return rebalance[T, I](n), found
	default:
		var found *node[T, I]
		n.right, found = insertKey[T, I](n.right, key)
		return rebalance[T, I](n), found
	}
}

func minNode[T cmp.Ordered, I interval.Interval[T]](n *node[T, I]) *node[T, I] {
	for n.left != nil {
		n = n.left
	}
	return n
}

// deleteKey removes the node keyed by key, if present.
func deleteKey[T cmp.Ordered, I interval.Interval[T]](n *node[T, I], key T) *node[T, I] {
	if n == nil {
		return nil
	}
	switch c := cmp.Compare(key, n.key); {
	case c < 0:
		n.left = deleteKey[T, I](n.left, key)
	case c > 0:
		n.right = deleteKey[T, I](n.right, key)
	default:
		if n.left == nil {
			return n.right
		}
		if n.right == nil {
			return n.left
		}
		succ := minNode[T, I](n.right)
		n.key = succ.key
		n.less, n.equal, n.greater = succ.less, succ.equal, succ.greater
		n.delta, n.sum = succ.delta, succ.sum
		n.right = deleteKey[T, I](n.right, succ.key)
	}
	return rebalance[T, I](n)
}

func find[T cmp.Ordered, I interval.Interval[T]](n *node[T, I], key T) *node[T, I] {
	for n != nil {
		switch c := cmp.Compare(key, n.key); {
		case c == 0:
			return n
		case c < 0:
			n = n.left
		default:
			n = n.right
		}
	}
	return nil
}

// Tree is an Interval Binary Search Tree.
type Tree[T cmp.Ordered, I interval.Interval[T]] struct {
	collection.Notifier[T, I]
	root  *node[T, I]
	count int
	log   diag.Logger
}

const opPrefix = "ibs.Tree"

// New returns an empty Tree. Passing diag.WithZap(z) attaches z as the
// tree's diagnostics sink; without it, diagnostics are discarded.
func New[T cmp.Ordered, I interval.Interval[T]](opts ...diag.Option) *Tree[T, I] {
	return &Tree[T, I]{log: diag.Apply(opts)}
}

// Capabilities reports that Tree allows every shape of overlap,
// containment and duplicate.
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
	items := t.all()
	if len(items) == 0 {
		return zero, ivlerr.E(ivlerr.EmptyCollection, opPrefix+".Choose", nil)
	}
	return items[0], nil
}

// all gathers every distinct stored reference, in no particular order,
// by walking every node and collecting its Equal, Less and Greater
// sets, skipping references already seen (an interval can sit in the
// sets of many nodes).
func (t *Tree[T, I]) all() []I {
	seen := make(map[any]bool)
	var out []I
	add := func(items []I) {
		for _, it := range items {
			k := any(it)
			if !seen[k] {
				seen[k] = true
				out = append(out, it)
			}
		}
	}
	var walk func(n *node[T, I])
	walk = func(n *node[T, I]) {
		if n == nil {
			return
		}
		walk(n.left)
		add(n.equal)
		add(n.less)
		add(n.greater)
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

// Stabbing returns every stored interval overlapping point p.
func (t *Tree[T, I]) Stabbing(p T) []I {
	seen := make(map[any]bool)
	var out []I
	emit := func(items []I) {
		for _, it := range items {
			if interval.OverlapsPoint[T, I](it, p) {
				k := any(it)
				if !seen[k] {
					seen[k] = true
					out = append(out, it)
				}
			}
		}
	}
	n := t.root
	for n != nil {
		switch c := cmp.Compare(p, n.key); {
		case c < 0:
			emit(n.less)
			n = n.left
		case c > 0:
			emit(n.greater)
			n = n.right
		default:
			emit(n.equal)
			n = nil
		}
	}
	return out
}

func (t *Tree[T, I]) FindOverlapsPoint(p T) []I {
	return t.Stabbing(p)
}

// Range returns every stored interval overlapping query.
func (t *Tree[T, I]) Range(query I) []I {
	seen := make(map[any]bool)
	var out []I
	emit := func(items []I) {
		for _, it := range items {
			if interval.Overlaps[T, I](it, query) {
				k := any(it)
				if !seen[k] {
					seen[k] = true
					out = append(out, it)
				}
			}
		}
	}
	var walk func(n *node[T, I])
	walk = func(n *node[T, I]) {
		if n == nil {
			return
		}
		if cmp.Compare(n.key, query.Low()) > 0 {
			walk(n.left)
		}
		emit(n.less)
		emit(n.equal)
		emit(n.greater)
		if cmp.Compare(n.key, query.High()) < 0 {
			walk(n.right)
		}
	}
	walk(t.root)
	return out
}

func (t *Tree[T, I]) FindOverlaps(query I) []I {
	return t.Range(query)
}

func (t *Tree[T, I]) FindOverlap(query I) (I, bool) {
	hits := t.Range(query)
	if len(hits) == 0 {
		var zero I
		return zero, false
	}
	return hits[0], true
}

func (t *Tree[T, I]) CountOverlaps(query I) int {
	return len(t.Range(query))
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

// Insert adds i's endpoint keys to the tree if absent, then populates
// the Less/Equal/Greater sets of every node whose key falls within
// [i.Low(), i.High()].
func (t *Tree[T, I]) Insert(i I) {
	var loNode, hiNode *node[T, I]
	t.root, loNode = insertKey[T, I](t.root, i.Low())
	t.root, hiNode = insertKey[T, I](t.root, i.High())
	loNode.delta++
	hiNode.delta--

	var walk func(n *node[T, I])
	walk = func(n *node[T, I]) {
		if n == nil {
			return
		}
		if cmp.Compare(n.key, i.Low()) > 0 {
			walk(n.left)
		}
		// The three sets are not mutually exclusive: an endpoint key
		// also belongs to Less/Greater whenever i's other endpoint
		// still puts it on that side, per the Less/Greater
		// definitions in the package doc.
		if n.key == i.Low() || n.key == i.High() {
			n.equal = append(n.equal, i)
		}
		if cmp.Compare(i.Low(), n.key) < 0 {
			n.less = append(n.less, i)
		}
		highGreater := cmp.Compare(n.key, i.High()) < 0
		if highGreater {
			n.greater = append(n.greater, i)
			walk(n.right)
		}
	}
	walk(t.root)
	t.recomputeSums()
}

func (t *Tree[T, I]) recomputeSums() {
	var walk func(n *node[T, I]) (total, prefix int)
	walk = func(n *node[T, I]) (int, int) {
		if n == nil {
			return 0, 0
		}
		ld, lp := walk(n.left)
		rd, rp := walk(n.right)
		total := ld + n.delta + rd
		prefix := max(lp, ld+n.delta, ld+n.delta+rp)
		n.sum = prefix
		return total, prefix
	}
	walk(t.root)
}

func (t *Tree[T, I]) Add(i I) (bool, error) {
	t.Insert(i)
	t.count++
	t.log.Debug("ibs: inserted", zap.Int("count", t.count))
	t.NotifyAdded([]I{i})
	return true, nil
}

func (t *Tree[T, I]) AddAll(items []I) (int, error) {
	for _, it := range items {
		_, _ = t.Add(it)
	}
	return len(items), nil
}

// Remove deletes the reference i from every set that holds it. A node
// whose three sets all become empty is spliced out of the tree and the
// tree rebalanced.
func (t *Tree[T, I]) Remove(i I) (bool, error) {
	removed := false
	var walk func(n *node[T, I])
	walk = func(n *node[T, I]) {
		if n == nil {
			return
		}
		walk(n.left)
		n.less, removed = removeRef(n.less, i, removed)
		n.equal, removed = removeRef(n.equal, i, removed)
		n.greater, removed = removeRef(n.greater, i, removed)
		walk(n.right)
	}
	walk(t.root)
	if !removed {
		return false, nil
	}
	loNode := find[T, I](t.root, i.Low())
	hiNode := find[T, I](t.root, i.High())
	if loNode == nil && hiNode == nil {
		t.log.Error("ibs: removed reference left no endpoint node", zap.Any("low", i.Low()), zap.Any("high", i.High()))
		return false, ivlerr.NewCorrupt(opPrefix+".Remove", "endpoint nodes for removed interval are both missing")
	}
	if loNode != nil {
		loNode.delta--
	}
	if hiNode != nil {
		hiNode.delta++
	}
	t.pruneEmpty()
	t.recomputeSums()
	t.count--
	t.log.Debug("ibs: removed", zap.Int("count", t.count))
	t.NotifyRemoved([]I{i})
	return true, nil
}

// pruneEmpty splices out every node whose Less, Equal and Greater sets
// have all become empty.
func (t *Tree[T, I]) pruneEmpty() {
	var emptyKeys []T
	var walk func(n *node[T, I])
	walk = func(n *node[T, I]) {
		if n == nil {
			return
		}
		walk(n.left)
		if len(n.less) == 0 && len(n.equal) == 0 && len(n.greater) == 0 {
			emptyKeys = append(emptyKeys, n.key)
		}
		walk(n.right)
	}
	walk(t.root)
	for _, k := range emptyKeys {
		t.root = deleteKey[T, I](t.root, k)
	}
}

func removeRef[T cmp.Ordered, I interval.Interval[T]](set []I, target I, already bool) ([]I, bool) {
	for idx, it := range set {
		if any(it) == any(target) {
			return append(set[:idx], set[idx+1:]...), true
		}
	}
	return set, already
}

func (t *Tree[T, I]) Clear() error {
	if t.count == 0 {
		return nil
	}
	t.root = nil
	t.count = 0
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
