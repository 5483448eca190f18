package attr

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var errMismatch = errors.New("mismatch")

func orKind() *Kind[bool] {
	return NewKind("or", Ops[bool]{
		Combine: func(values []bool) (bool, error) {
			for _, v := range values {
				if v {
					return true, nil
				}
			}
			return false, nil
		},
	})
}

func sameKind() *Kind[string] {
	return NewKind("same", Ops[string]{
		Combine: func(values []string) (string, error) {
			for _, v := range values[1:] {
				if v != values[0] {
					return "", errMismatch
				}
			}
			return values[0], nil
		},
		MakeInferred: func(v string) (string, bool) { return "~" + v, true },
		Stringify:    func(v string) string { return strings.ToUpper(v) },
	})
}

func TestNewKind_RequiresCombine(t *testing.T) {
	assert.Panics(t, func() { NewKind("broken", Ops[int]{}) })
}

func TestKind_Defaults(t *testing.T) {
	k := orKind()
	assert.Equal(t, "or", k.Name())
	assert.Equal(t, "true", k.Stringify(true))

	_, ok := k.MakeInferred(true)
	assert.False(t, ok, "nil MakeInferred drops the attribute")
}

func TestAttachAndLookup(t *testing.T) {
	k := orKind()
	var s Set

	_, ok := Lookup(s, k)
	assert.False(t, ok, "empty set has no attributes")

	require.NoError(t, Attach(&s, k, false))
	v, ok := Lookup(s, k)
	assert.True(t, ok)
	assert.False(t, v)

	require.NoError(t, Attach(&s, k, true))
	v, _ = Lookup(s, k)
	assert.True(t, v, "second attach combines with the first")
	assert.Equal(t, 1, s.Len(), "one value per kind")
}

func TestLookup_IdentityNotName(t *testing.T) {
	a, b := orKind(), orKind()
	var s Set
	require.NoError(t, Attach(&s, a, true))

	assert.True(t, s.Has(a))
	assert.False(t, s.Has(b), "kinds with equal names are still distinct")
}

func TestLookup_NilValue(t *testing.T) {
	k := NewKind("any", Ops[any]{
		Combine: func(values []any) (any, error) { return values[0], nil },
	})
	var s Set
	require.NoError(t, Attach[any](&s, k, nil))

	v, ok := Lookup(s, k)
	assert.True(t, ok, "a stored null is present")
	assert.Nil(t, v)
}

func TestAttach_PropagatesCombineError(t *testing.T) {
	k := sameKind()
	var s Set
	require.NoError(t, Attach(&s, k, "a"))
	assert.ErrorIs(t, Attach(&s, k, "b"), errMismatch)
}

func TestClone_IsIndependent(t *testing.T) {
	k := orKind()
	var s Set
	require.NoError(t, Attach(&s, k, false))

	c := s.Clone()
	require.NoError(t, Attach(&c, k, true))

	v, _ := Lookup(s, k)
	assert.False(t, v)
	v, _ = Lookup(c, k)
	assert.True(t, v)
}

func TestEntries(t *testing.T) {
	or, same := orKind(), sameKind()
	var s Set
	require.NoError(t, Attach(&s, same, "x"))
	require.NoError(t, Attach(&s, or, true))

	assert.Equal(t, []Entry{{Kind: "same", Value: "X"}, {Kind: "or", Value: "true"}}, s.Entries())
}

func TestMerge_CombinesWhenAllCarry(t *testing.T) {
	k := orKind()
	sets := make([]Set, 3)
	for i, v := range []bool{false, true, false} {
		require.NoError(t, Attach(&sets[i], k, v))
	}

	merged, err := Merge(sets...)
	require.NoError(t, err)
	v, ok := Lookup(merged, k)
	assert.True(t, ok)
	assert.True(t, v)
}

func TestMerge_InfersWhenSomeCarry(t *testing.T) {
	or, same := orKind(), sameKind()
	var a, b Set
	require.NoError(t, Attach(&a, or, true))
	require.NoError(t, Attach(&a, same, "v"))

	merged, err := Merge(a, b)
	require.NoError(t, err)

	assert.False(t, merged.Has(or), "nil MakeInferred drops the attribute")
	v, ok := Lookup(merged, same)
	assert.True(t, ok)
	assert.Equal(t, "~v", v)
}

func TestMerge_SingleSetPassesThrough(t *testing.T) {
	k := sameKind()
	var a Set
	require.NoError(t, Attach(&a, k, "v"))

	merged, err := Merge(a)
	require.NoError(t, err)
	v, _ := Lookup(merged, k)
	assert.Equal(t, "v", v)
}

func TestMerge_Error(t *testing.T) {
	k := sameKind()
	var a, b Set
	require.NoError(t, Attach(&a, k, "5"))
	require.NoError(t, Attach(&b, k, "7"))

	_, err := Merge(a, b)
	assert.ErrorIs(t, err, errMismatch)
}

func TestMerge_DoesNotMutateInputs(t *testing.T) {
	k := orKind()
	var a, b Set
	require.NoError(t, Attach(&a, k, false))
	require.NoError(t, Attach(&b, k, true))

	_, err := Merge(a, b)
	require.NoError(t, err)
	v, _ := Lookup(a, k)
	assert.False(t, v)
}

// Every ordering and grouping of the same boolean contributions must merge to
// the logical OR of them.
func TestMerge_OrIsAssociativeAndCommutative(t *testing.T) {
	k := orKind()
	setOf := func(v bool) Set {
		var s Set
		require.NoError(t, Attach(&s, k, v))
		return s
	}
	value := func(s Set) bool {
		v, ok := Lookup(s, k)
		require.True(t, ok)
		return v
	}

	for mask := 0; mask < 8; mask++ {
		vals := []bool{mask&1 != 0, mask&2 != 0, mask&4 != 0}
		want := vals[0] || vals[1] || vals[2]
		t.Run(fmt.Sprint(vals), func(t *testing.T) {
			flat, err := Merge(setOf(vals[0]), setOf(vals[1]), setOf(vals[2]))
			require.NoError(t, err)
			assert.Equal(t, want, value(flat))

			reversed, err := Merge(setOf(vals[2]), setOf(vals[1]), setOf(vals[0]))
			require.NoError(t, err)
			assert.Equal(t, want, value(reversed))

			left, err := Merge(setOf(vals[0]), setOf(vals[1]))
			require.NoError(t, err)
			nested, err := Merge(left, setOf(vals[2]))
			require.NoError(t, err)
			assert.Equal(t, want, value(nested))
		})
	}
}
