package ecs

// maskWords * 64 bounds the number of distinct component types per Engine.
const (
	maskWords         = 4
	bitsPerWord       = 64
	maxComponentTypes = maskWords * bitsPerWord
)

// typeMask is a fixed-width bitset over component-type ids. It is a
// comparable value type, so the archetype graph can key its dedup map
// on the mask directly.
type typeMask [maskWords]uint64

func (m typeMask) has(id ComponentID) bool {
	word := int(id) / bitsPerWord
	if word >= maskWords {
		return false
	}
	return m[word]&(1<<(uint(id)%bitsPerWord)) != 0
}

// with returns a copy of the mask with id set.
func (m typeMask) with(id ComponentID) typeMask {
	m[int(id)/bitsPerWord] |= 1 << (uint(id) % bitsPerWord)
	return m
}

// without returns a copy of the mask with id cleared.
func (m typeMask) without(id ComponentID) typeMask {
	m[int(id)/bitsPerWord] &^= 1 << (uint(id) % bitsPerWord)
	return m
}

// containsAll reports whether every bit of sub is set in m.
func (m typeMask) containsAll(sub typeMask) bool {
	for i := 0; i < maskWords; i++ {
		if m[i]&sub[i] != sub[i] {
			return false
		}
	}
	return true
}

func (m typeMask) isEmpty() bool {
	for i := 0; i < maskWords; i++ {
		if m[i] != 0 {
			return false
		}
	}
	return true
}

func maskOf(ids ...ComponentID) typeMask {
	var m typeMask
	for _, id := range ids {
		m = m.with(id)
	}
	return m
}
