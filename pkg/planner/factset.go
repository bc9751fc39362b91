package planner

import "math/bits"

// FactSet is an immutable bitset over interned fact IDs. Every operation
// returns a new FactSet rather than mutating the receiver, so a FactSet can
// be shared freely across planning-graph levels and search states without
// copying.
type FactSet struct {
	words []uint64
}

const wordBits = 64

func wordsFor(n int) int {
	if n <= 0 {
		return 0
	}
	return (n + wordBits - 1) / wordBits
}

// EmptyFactSet returns the empty set sized to hold fact IDs in [0, universe).
func EmptyFactSet(universe int) FactSet {
	return FactSet{words: make([]uint64, wordsFor(universe))}
}

// NewFactSet returns the set containing exactly the given fact IDs, sized to
// hold fact IDs in [0, universe).
func NewFactSet(universe int, ids ...int) FactSet {
	fs := EmptyFactSet(universe)
	for _, id := range ids {
		fs = fs.With(id)
	}
	return fs
}

func (fs FactSet) clone() []uint64 {
	w := make([]uint64, len(fs.words))
	copy(w, fs.words)
	return w
}

// With returns a new FactSet with id added.
func (fs FactSet) With(id int) FactSet {
	w, bit := id/wordBits, uint(id%wordBits)
	words := fs.words
	if w >= len(words) {
		grown := make([]uint64, w+1)
		copy(grown, words)
		words = grown
	} else {
		words = fs.clone()
	}
	words[w] |= 1 << bit
	return FactSet{words: words}
}

// Without returns a new FactSet with id removed.
func (fs FactSet) Without(id int) FactSet {
	w, bit := id/wordBits, uint(id%wordBits)
	if w >= len(fs.words) {
		return fs
	}
	words := fs.clone()
	words[w] &^= 1 << bit
	return FactSet{words: words}
}

// Contains reports whether id is a member of fs.
func (fs FactSet) Contains(id int) bool {
	w, bit := id/wordBits, uint(id%wordBits)
	if w >= len(fs.words) {
		return false
	}
	return fs.words[w]&(1<<bit) != 0
}

func maxLen(a, b []uint64) int {
	if len(a) > len(b) {
		return len(a)
	}
	return len(b)
}

func wordAt(words []uint64, i int) uint64 {
	if i >= len(words) {
		return 0
	}
	return words[i]
}

// Union returns fs ∪ other.
func (fs FactSet) Union(other FactSet) FactSet {
	n := maxLen(fs.words, other.words)
	words := make([]uint64, n)
	for i := 0; i < n; i++ {
		words[i] = wordAt(fs.words, i) | wordAt(other.words, i)
	}
	return FactSet{words: words}
}

// Intersect returns fs ∩ other.
func (fs FactSet) Intersect(other FactSet) FactSet {
	n := maxLen(fs.words, other.words)
	words := make([]uint64, n)
	for i := 0; i < n; i++ {
		words[i] = wordAt(fs.words, i) & wordAt(other.words, i)
	}
	return FactSet{words: words}
}

// Subtract returns fs \ other.
func (fs FactSet) Subtract(other FactSet) FactSet {
	n := len(fs.words)
	words := make([]uint64, n)
	for i := 0; i < n; i++ {
		words[i] = fs.words[i] &^ wordAt(other.words, i)
	}
	return FactSet{words: words}
}

// Intersects reports whether fs ∩ other is non-empty.
func (fs FactSet) Intersects(other FactSet) bool {
	n := maxLen(fs.words, other.words)
	for i := 0; i < n; i++ {
		if wordAt(fs.words, i)&wordAt(other.words, i) != 0 {
			return true
		}
	}
	return false
}

// IsSubsetOf reports whether every member of fs is also a member of other.
func (fs FactSet) IsSubsetOf(other FactSet) bool {
	for i, w := range fs.words {
		if w&^wordAt(other.words, i) != 0 {
			return false
		}
	}
	return true
}

// Equal reports whether fs and other have exactly the same members.
func (fs FactSet) Equal(other FactSet) bool {
	n := maxLen(fs.words, other.words)
	for i := 0; i < n; i++ {
		if wordAt(fs.words, i) != wordAt(other.words, i) {
			return false
		}
	}
	return true
}

// IsEmpty reports whether fs has no members.
func (fs FactSet) IsEmpty() bool {
	for _, w := range fs.words {
		if w != 0 {
			return false
		}
	}
	return true
}

// Len returns the number of members of fs.
func (fs FactSet) Len() int {
	n := 0
	for _, w := range fs.words {
		n += bits.OnesCount64(w)
	}
	return n
}

// ForEach calls f once for every member of fs, in ascending ID order.
func (fs FactSet) ForEach(f func(id int)) {
	for i, w := range fs.words {
		for w != 0 {
			b := bits.TrailingZeros64(w)
			f(i*wordBits + b)
			w &^= 1 << uint(b)
		}
	}
}

// ToSlice returns the members of fs as a sorted slice of fact IDs.
func (fs FactSet) ToSlice() []int {
	out := make([]int, 0, fs.Len())
	fs.ForEach(func(id int) { out = append(out, id) })
	return out
}
