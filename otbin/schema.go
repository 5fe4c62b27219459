package otbin

import (
	"fmt"
	"math"
)

// Kind is the binary codec of a record field.
type Kind uint8

// Field kinds. Sizes are given in bytes.
const (
	KindUint8          Kind = iota // 1
	KindInt8                       // 1
	KindUint16                     // 2
	KindInt16                      // 2, also FWORD
	KindUint24                     // 3
	KindUint32                     // 4
	KindInt32                      // 4
	KindFixed                      // 4, 16.16
	KindF2Dot14                    // 2, 2.14
	KindTag                        // 4
	KindGlyphID                    // 2
	KindDateTime                   // 8, LONGDATETIME
	KindVersion16Dot16             // 4
	KindOffset16                   // 2, offset role
	KindOffset32                   // 4, offset role
)

// Aliases used by the OpenType specification.
const (
	KindFWord  = KindInt16
	KindUFWord = KindUint16
)

var kindSizes = [...]int{1, 1, 2, 2, 3, 4, 4, 4, 2, 4, 2, 8, 4, 2, 4}

var kindNames = [...]string{"uint8", "int8", "uint16", "int16", "uint24", "uint32", "int32",
	"Fixed", "F2DOT14", "Tag", "GlyphID", "LONGDATETIME", "Version16Dot16", "Offset16", "Offset32"}

// Size returns the number of bytes a field of kind k occupies.
func (k Kind) Size() int {
	return kindSizes[k]
}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return fmt.Sprintf("Kind(%d)", k)
}

// IsOffset is true for offset kinds.
func (k Kind) IsOffset() bool {
	return k == KindOffset16 || k == KindOffset32
}

func (k Kind) signed() bool {
	switch k {
	case KindInt8, KindInt16, KindInt32, KindFixed, KindF2Dot14, KindDateTime:
		return true
	}
	return false
}

// Field describes a single named field of a record.
type Field struct {
	Name string
	Kind Kind
	// Target names the kind of sub-table an offset field points to. Informational,
	// used for error messages.
	Target string
}

// F creates a plain field.
func F(name string, k Kind) Field {
	return Field{Name: name, Kind: k}
}

// Off16 creates a 16-bit offset field to a sub-table named target.
func Off16(name, target string) Field {
	return Field{Name: name, Kind: KindOffset16, Target: target}
}

// Off32 creates a 32-bit offset field to a sub-table named target.
func Off32(name, target string) Field {
	return Field{Name: name, Kind: KindOffset32, Target: target}
}

// Schema is an ordered list of fields, describing a fixed-layout record. Schemas are
// immutable after creation and may be shared between goroutines.
type Schema struct {
	name   string
	fields []Field
	pos    []int // byte position of each field
	index  map[string]int
	size   int
}

// NewSchema creates a schema. Field names must be unique.
func NewSchema(name string, fields ...Field) *Schema {
	s := &Schema{
		name:   name,
		fields: fields,
		pos:    make([]int, len(fields)),
		index:  make(map[string]int, len(fields)),
	}
	for i, f := range fields {
		if _, dup := s.index[f.Name]; dup {
			panic(fmt.Sprintf("otbin: duplicate field %q in schema %s", f.Name, name))
		}
		s.index[f.Name] = i
		s.pos[i] = s.size
		s.size += f.Kind.Size()
	}
	return s
}

// Extend creates a new schema from s with additional fields appended. This is
// useful for versioned tables, where later versions append fields.
func (s *Schema) Extend(name string, fields ...Field) *Schema {
	all := make([]Field, 0, len(s.fields)+len(fields))
	all = append(all, s.fields...)
	all = append(all, fields...)
	return NewSchema(name, all...)
}

// Name returns the name of the schema.
func (s *Schema) Name() string {
	return s.name
}

// Size returns the encoded size of a record in bytes.
func (s *Schema) Size() int {
	return s.size
}

// Fields returns the fields of s. Clients must not modify the slice.
func (s *Schema) Fields() []Field {
	return s.fields
}

// Has is true if s contains a field named name.
func (s *Schema) Has(name string) bool {
	_, ok := s.index[name]
	return ok
}

// FieldPos returns the byte position of field name within an encoded record.
func (s *Schema) FieldPos(name string) int {
	return s.pos[s.lookup(name)]
}

func (s *Schema) lookup(name string) int {
	i, ok := s.index[name]
	if !ok {
		panic(fmt.Sprintf("otbin: no field %q in schema %s", name, s.name))
	}
	return i
}

// New creates a zero-valued record for s.
func (s *Schema) New() *Record {
	return &Record{schema: s, vals: make([]uint64, len(s.fields))}
}

// Decode reads a record at position pos of b.
func (s *Schema) Decode(b []byte, pos int) (*Record, error) {
	if !inBounds(pos, s.size, len(b)) {
		return nil, truncated(s.name, pos, s.size, len(b)-pos)
	}
	r := s.New()
	for i, f := range s.fields {
		p := pos + s.pos[i]
		var u uint64
		for _, c := range b[p : p+f.Kind.Size()] {
			u = u<<8 | uint64(c)
		}
		r.vals[i] = u
	}
	r.base = pos
	return r, nil
}

// Record is a decoded instance of a schema. It holds the raw bit pattern of every
// field, so a record which has been decoded re-encodes to identical bytes.
//
// Accessing a field name not present in the schema is a programming error and panics.
type Record struct {
	schema *Schema
	vals   []uint64
	base   int // position the record has been decoded from
}

// Schema returns the schema of r.
func (r *Record) Schema() *Schema {
	return r.schema
}

// Raw returns the raw bit pattern of field name, zero-extended.
func (r *Record) Raw(name string) uint64 {
	return r.vals[r.schema.lookup(name)]
}

// Int returns the value of field name, sign-extended for signed kinds.
func (r *Record) Int(name string) int64 {
	i := r.schema.lookup(name)
	k := r.schema.fields[i].Kind
	u := r.vals[i]
	if k.signed() {
		shift := 64 - 8*uint(k.Size())
		return int64(u<<shift) >> shift
	}
	return int64(u)
}

// U8 returns the value of a uint8 field.
func (r *Record) U8(name string) uint8 { return uint8(r.Raw(name)) }

// U16 returns the value of a 16-bit unsigned field.
func (r *Record) U16(name string) uint16 { return uint16(r.Raw(name)) }

// I16 returns the value of a 16-bit signed field.
func (r *Record) I16(name string) int16 { return int16(r.Raw(name)) }

// U32 returns the value of a 32-bit unsigned field.
func (r *Record) U32(name string) uint32 { return uint32(r.Raw(name)) }

// I32 returns the value of a 32-bit signed field.
func (r *Record) I32(name string) int32 { return int32(r.Raw(name)) }

// Fixed returns the value of a 16.16 field.
func (r *Record) Fixed(name string) Fixed { return Fixed(r.Raw(name)) }

// F2Dot14 returns the value of a 2.14 field.
func (r *Record) F2Dot14(name string) F2Dot14 { return F2Dot14(r.Raw(name)) }

// Tag returns the value of a tag field.
func (r *Record) Tag(name string) Tag { return Tag(r.Raw(name)) }

// DateTime returns the value of a LONGDATETIME field.
func (r *Record) DateTime(name string) LongDateTime { return LongDateTime(r.Raw(name)) }

// Version returns the value of a Version16Dot16 field.
func (r *Record) Version(name string) Version16Dot16 { return Version16Dot16(r.Raw(name)) }

// Set sets field name to v. Signed kinds accept negative values. If v is not
// representable in the field, an error is returned and r is unchanged.
func (r *Record) Set(name string, v int64) error {
	i := r.schema.lookup(name)
	k := r.schema.fields[i].Kind
	bits := 8 * uint(k.Size())
	var lo, hi int64
	if k.signed() {
		if bits == 64 {
			lo, hi = math.MinInt64, math.MaxInt64
		} else {
			lo, hi = -1<<(bits-1), 1<<(bits-1)-1
		}
	} else {
		lo, hi = 0, 1<<bits-1
	}
	if v < lo || v > hi {
		return fmt.Errorf("%s.%s: value %d out of range for %s", r.schema.name, name, v, k)
	}
	u := uint64(v)
	if bits < 64 {
		u &= 1<<bits - 1
	}
	r.vals[i] = u
	return nil
}

// SetRaw sets the raw bit pattern of field name, truncated to the field size.
func (r *Record) SetRaw(name string, u uint64) {
	i := r.schema.lookup(name)
	bits := 8 * uint(r.schema.fields[i].Kind.Size())
	if bits < 64 {
		u &= 1<<bits - 1
	}
	r.vals[i] = u
}

// MustSet is Set for values known to be in range; it panics otherwise.
func (r *Record) MustSet(name string, v int64) {
	if err := r.Set(name, v); err != nil {
		panic(err)
	}
}

// Append appends the encoding of r to dst.
func (r *Record) Append(dst []byte) []byte {
	for i, f := range r.schema.fields {
		n := f.Kind.Size()
		u := r.vals[i]
		for j := n - 1; j >= 0; j-- {
			dst = append(dst, byte(u>>(8*uint(j))))
		}
	}
	return dst
}

// Bytes returns the encoding of r.
func (r *Record) Bytes() []byte {
	return r.Append(make([]byte, 0, r.schema.size))
}

// Link resolves offset field name against buffer b, taking base as the position
// the offset is relative to.
func (r *Record) Link(name string, b []byte, base int) Link {
	i := r.schema.lookup(name)
	f := r.schema.fields[i]
	if !f.Kind.IsOffset() {
		panic(fmt.Sprintf("otbin: field %q of schema %s is not an offset", name, r.schema.name))
	}
	target := f.Target
	if target == "" {
		target = name
	}
	return Link{Name: target, Base: base, Offset: uint32(r.vals[i]), Width: 8 * f.Kind.Size(), size: len(b)}
}

// Clone returns a copy of r.
func (r *Record) Clone() *Record {
	c := &Record{schema: r.schema, vals: make([]uint64, len(r.vals)), base: r.base}
	copy(c.vals, r.vals)
	return c
}

// Equal is true if r and other have the same schema and identical field values.
func (r *Record) Equal(other *Record) bool {
	if other == nil || r.schema != other.schema {
		return false
	}
	for i := range r.vals {
		if r.vals[i] != other.vals[i] {
			return false
		}
	}
	return true
}
