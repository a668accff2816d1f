package inherit

// bitset is a grow-on-write bitmap keyed by declaration ID. Ancestor
// sets are dense in practice because the arena mints IDs
// sequentially, so a bitmap beats a map for the O(1) derived-from
// query.
type bitset []uint64

func (b *bitset) add(i uint32) {
	word := int(i >> 6)
	for len(*b) <= word {
		*b = append(*b, 0)
	}
	(*b)[word] |= 1 << (i & 63)
}

func (b bitset) has(i uint32) bool {
	word := int(i >> 6)
	if word >= len(b) {
		return false
	}
	return b[word]&(1<<(i&63)) != 0
}
