package pythontype

import (
	"fmt"
	"strings"

	"github.com/kiteco/pycall/kite-golib/kitectx"
)

// It is possible to write python code that generates huge union types, but
// if the number of disjuncts is above this threshold then it is unlikely
// that we were going to get anything reasonable out of it anyway, so we
// just restrict the total union size.
const maxUnionSize = 25

// Unions of unions are flattened; this bounds how deep we go.
const maxUnionDepth = 6

// Union implements the value interface for union types. A weak union also
// includes the possibility that the value is unknown.
type Union struct {
	Constituents []Value
	Weak         bool
}

// Kind categorizes this value as function/type/module/instance/union/etc
func (v Union) Kind() Kind {
	return UnionKind
}

// String provides a string representation of this value
func (v Union) String() string {
	var strs []string
	for _, x := range v.Constituents {
		strs = append(strs, fmt.Sprintf("%v", x))
	}
	if v.Weak {
		strs = append(strs, "?")
	}
	return "(" + strings.Join(strs, " | ") + ")"
}

// Disjuncts gets a list of disjuncts from a union type, none of which are themselves union types
func Disjuncts(v Value) []Value {
	if v == nil {
		return nil
	}

	u, ok := v.(Union)
	if !ok {
		return []Value{v}
	}
	return u.Constituents
}

// IsWeak returns true if v is a weak union
func IsWeak(v Value) bool {
	u, ok := v.(Union)
	return ok && u.Weak
}

// UniteNoCtx computes the union of several types, simplifying where possible
func UniteNoCtx(vs ...Value) Value {
	return Unite(kitectx.Background(), vs...)
}

// Unite computes the union of several types, simplifying where possible.
// Nil values are dropped, duplicates are removed and nested unions are flattened.
func Unite(ctx kitectx.Context, vs ...Value) Value {
	ctx.CheckAbort()

	var val Value
	ctx.WithCallLimit(maxUnionDepth, func(ctx kitectx.CallContext) error {
		val = uniteImpl(ctx, false, vs...)
		return nil
	})
	return val
}

// WeakUnite computes the union of several types together with the unknown
// type, e.g. for the result of a call whose effective type cannot be fully determined.
func WeakUnite(ctx kitectx.Context, vs ...Value) Value {
	ctx.CheckAbort()

	var val Value
	ctx.WithCallLimit(maxUnionDepth, func(ctx kitectx.CallContext) error {
		val = uniteImpl(ctx, true, vs...)
		return nil
	})
	return val
}

func uniteImpl(ctx kitectx.CallContext, weak bool, vs ...Value) Value {
	// this first switch block is just an optimization for some common cases
	if !weak {
		switch len(vs) {
		case 0:
			return nil
		case 1:
			return vs[0]
		case 2:
			if vs[0] == nil {
				return vs[1]
			}
			if vs[1] == nil {
				return vs[0]
			}
		}
	}

	var disjuncts []Value
	var add func(ctx kitectx.CallContext, v Value)
	add = func(ctx kitectx.CallContext, v Value) {
		if v == nil || len(disjuncts) >= maxUnionSize {
			return
		}
		if u, ok := v.(Union); ok {
			if u.Weak {
				weak = true
			}
			if ctx.AtCallLimit() {
				return
			}
			for _, c := range u.Constituents {
				add(ctx.Call(), c)
			}
			return
		}
		for _, d := range disjuncts {
			if Equal(d, v) {
				return
			}
		}
		disjuncts = append(disjuncts, v)
	}
	for _, v := range vs {
		add(ctx, v)
	}

	switch {
	case len(disjuncts) == 0:
		return nil
	case len(disjuncts) == 1 && !weak:
		return disjuncts[0]
	default:
		return Union{Constituents: disjuncts, Weak: weak}
	}
}
