package attr

type entry struct {
	kind  AnyKind
	value any
}

// Set holds the attributes of one type node: at most one value per kind,
// kept in the order the kinds were first attached. The zero value is empty
// and ready to use.
type Set struct {
	entries []entry
}

// Entry is a debug view of one attribute.
type Entry struct {
	Kind  string
	Value string
}

// Attach stores v for kind k. When the set already holds a value for k the
// two are combined with the kind's Combine.
func Attach[V any](s *Set, k *Kind[V], v V) error {
	return s.put(k, v)
}

// Lookup returns the value stored for kind k
func Lookup[V any](s Set, k *Kind[V]) (V, bool) {
	if i := s.index(k); i >= 0 {
		return as[V](s.entries[i].value), true
	}
	var zero V
	return zero, false
}

// Has reports whether the set holds a value for k
func (s Set) Has(k AnyKind) bool {
	return s.index(k) >= 0
}

// Len returns the number of attributes in the set
func (s Set) Len() int {
	return len(s.entries)
}

// Clone returns an independent copy of the set
func (s Set) Clone() Set {
	if len(s.entries) == 0 {
		return Set{}
	}
	out := make([]entry, len(s.entries))
	copy(out, s.entries)
	return Set{entries: out}
}

// AttachAll attaches every attribute of other to s
func (s *Set) AttachAll(other Set) error {
	for _, e := range other.entries {
		if err := s.put(e.kind, e.value); err != nil {
			return err
		}
	}
	return nil
}

// Entries returns the attributes with their values stringified by their kinds
func (s Set) Entries() []Entry {
	out := make([]Entry, 0, len(s.entries))
	for _, e := range s.entries {
		out = append(out, Entry{Kind: e.kind.Name(), Value: e.kind.stringifyAny(e.value)})
	}
	return out
}

func (s Set) index(k AnyKind) int {
	for i, e := range s.entries {
		if e.kind == k {
			return i
		}
	}
	return -1
}

func (s *Set) put(k AnyKind, v any) error {
	i := s.index(k)
	if i < 0 {
		s.entries = append(s.entries, entry{kind: k, value: v})
		return nil
	}
	combined, err := k.combineAny([]any{s.entries[i].value, v})
	if err != nil {
		return err
	}
	s.entries[i].value = combined
	return nil
}

// Merge computes the attributes of a node formed by merging nodes with the
// given sets. A kind carried by every input is combined. A kind carried by
// only some inputs is combined across those and then passed through the
// kind's MakeInferred, which may drop it.
func Merge(sets ...Set) (Set, error) {
	var kinds []AnyKind
	for _, s := range sets {
		for _, e := range s.entries {
			if !containsKind(kinds, e.kind) {
				kinds = append(kinds, e.kind)
			}
		}
	}

	var out Set
	for _, k := range kinds {
		var values []any
		for _, s := range sets {
			if i := s.index(k); i >= 0 {
				values = append(values, s.entries[i].value)
			}
		}

		v := values[0]
		if len(values) > 1 {
			combined, err := k.combineAny(values)
			if err != nil {
				return Set{}, err
			}
			v = combined
		}
		if len(values) < len(sets) {
			inferred, ok := k.inferAny(v)
			if !ok {
				continue
			}
			v = inferred
		}
		out.entries = append(out.entries, entry{kind: k, value: v})
	}
	return out, nil
}

// MergeAll combines every kind carried by any input without inference.
// It computes the attributes of an intersection, where each constituent's
// attributes apply in full.
func MergeAll(sets ...Set) (Set, error) {
	var out Set
	for _, s := range sets {
		if err := out.AttachAll(s); err != nil {
			return Set{}, err
		}
	}
	return out, nil
}

func containsKind(kinds []AnyKind, k AnyKind) bool {
	for _, existing := range kinds {
		if existing == k {
			return true
		}
	}
	return false
}
