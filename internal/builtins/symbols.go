package builtins

import "github.com/cwbudde/go-njs/internal/value"

// WellKnownSymbols are the fixed-id symbols spec.md §3.1/§8 calls out
// (iterator protocol, toPrimitive hint, toStringTag). Ids are stable across
// a clone since Value.SymbolID carries them by value, not by pointer.
type WellKnownSymbols struct {
	Iterator    value.Value
	ToPrimitive value.Value
	ToStringTag value.Value
}

const (
	symIterator = iota + 1
	symToPrimitive
	symToStringTag
)

func newWellKnownSymbols() WellKnownSymbols {
	return WellKnownSymbols{
		Iterator:    value.WellKnownSymbol(symIterator, "Symbol.iterator"),
		ToPrimitive: value.WellKnownSymbol(symToPrimitive, "Symbol.toPrimitive"),
		ToStringTag: value.WellKnownSymbol(symToStringTag, "Symbol.toStringTag"),
	}
}
