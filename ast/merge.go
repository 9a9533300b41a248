package ast

import "fmt"

// Concat appends the fields of that to those of s without removing duplicate
// keys. Index signatures are combined per key domain, the signature of that
// replacing the one of s.
func Concat(s, that *Struct) *Struct {
	fields := make([]Field, 0, len(s.Fields)+len(that.Fields))
	fields = append(fields, s.Fields...)
	fields = append(fields, that.Fields...)
	return NewStruct(fields, combineSignatures(s.IndexSignatures, that.IndexSignatures))
}

// DuplicateKeyError reports a key declared by both operands of Merge.
type DuplicateKeyError struct {
	Key string
}

func (e *DuplicateKeyError) Error() string {
	return fmt.Sprintf("ast: duplicate field key %q in struct merge", e.Key)
}

// Merge is Concat restricted to operands with disjoint field keys; it fails
// with *DuplicateKeyError on the first key both operands declare.
func Merge(s, that *Struct) (*Struct, error) {
	seen := make(map[string]struct{}, len(s.Fields))
	for _, f := range s.Fields {
		seen[f.Key] = struct{}{}
	}
	for _, f := range that.Fields {
		if _, dup := seen[f.Key]; dup {
			return nil, &DuplicateKeyError{Key: f.Key}
		}
	}
	return Concat(s, that), nil
}

func combineSignatures(a, b IndexSignatures) IndexSignatures {
	last := func(x, y *IndexSignature) *IndexSignature {
		if y != nil {
			return y
		}
		return x
	}
	return IndexSignatures{
		String: last(a.String, b.String),
		Number: last(a.Number, b.Number),
		Symbol: last(a.Symbol, b.Symbol),
	}
}
