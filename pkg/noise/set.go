package noise

import "fmt"

// Set is an ordered collection of independently seeded fields.
// Indexing wraps around, so any integer offset addresses a field.
type Set struct {
	fields []Field
}

// NewSet creates count fields seeded seed, seed+1, ... seed+count-1.
func NewSet(backend Backend, seed int64, count int) (*Set, error) {
	if count <= 0 {
		return nil, ErrEmptySet
	}
	fields := make([]Field, count)
	for i := range count {
		f, err := NewField(backend, seed+int64(i))
		if err != nil {
			return nil, fmt.Errorf("field %d: %w", i, err)
		}
		fields[i] = f
	}
	return &Set{fields: fields}, nil
}

// SetOf builds a set from existing fields.
func SetOf(fields ...Field) (*Set, error) {
	if len(fields) == 0 {
		return nil, ErrEmptySet
	}
	return &Set{fields: append([]Field(nil), fields...)}, nil
}

// Len returns the number of distinct fields.
func (s *Set) Len() int {
	return len(s.fields)
}

// At returns the field at (i mod Len).
func (s *Set) At(i int) Field {
	n := len(s.fields)
	return s.fields[((i%n)+n)%n]
}

// Range returns a view of count consecutive fields starting at offset.
func (s *Set) Range(offset, count int) (Range, error) {
	if count <= 0 {
		return Range{}, fmt.Errorf("%w: offset %d count %d", ErrEmptyRange, offset, count)
	}
	return Range{set: s, offset: offset, count: count}, nil
}

// Range is a contiguous, possibly wrapping, slice of a Set.
type Range struct {
	set      *Set
	offset   int
	count    int
	reversed bool
}

// Len returns the number of octaves in the range.
func (r Range) Len() int {
	return r.count
}

// Reversed returns the same range iterated from its last field to its first.
func (r Range) Reversed() Range {
	r.reversed = !r.reversed
	return r
}

// Shift moves the range start by n fields.
func (r Range) Shift(n int) Range {
	r.offset += n
	return r
}

// Field returns the i-th field in iteration order.
func (r Range) Field(i int) Field {
	if r.reversed {
		return r.set.At(r.offset + r.count - 1 - i)
	}
	return r.set.At(r.offset + i)
}
