package ot

import (
	"fmt"

	"github.com/npillmayer/fonttools/otbin"
)

// schemaTable is the common base of fixed-layout tables. All fields are held in
// a record; bytes following the record are kept verbatim.
type schemaTable struct {
	tableBase
	rec  *otbin.Record
	tail []byte
}

// Fields returns the record holding all fields of the table. Clients may read and
// set fields by name, using the field names of the OpenType specification, e.g.
//
//	head.Fields().U16("macStyle")
//	head.Fields().Set("lowestRecPPEM", 9)
//
// Fields derived by Save will be overwritten.
func (t *schemaTable) Fields() *otbin.Record {
	return t.rec
}

func (t *schemaTable) schemaBase() *schemaTable {
	return t
}

type schemaBacked interface {
	schemaBase() *schemaTable
}

func decodeSchemaTable(s *otbin.Schema, tag Tag, b []byte, offset uint32) (schemaTable, error) {
	rec, err := s.Decode(b, 0)
	if err != nil {
		return schemaTable{}, fmt.Errorf("table %s: %w", tag, err)
	}
	return schemaTable{
		tableBase: makeBase(tag, b, offset),
		rec:       rec,
		tail:      b[s.Size():],
	}, nil
}

func newSchemaTable(s *otbin.Schema, tag Tag) schemaTable {
	return schemaTable{
		tableBase: tableBase{name: tag},
		rec:       s.New(),
	}
}

func encodeSchemaTable(t Table, _ otbin.Packer) ([]byte, error) {
	st, ok := t.(schemaBacked)
	if !ok {
		return nil, fmt.Errorf("table %s is not a fixed-layout table", t.Self().NameTag())
	}
	base := st.schemaBase()
	return append(base.rec.Bytes(), base.tail...), nil
}
