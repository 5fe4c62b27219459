package ot

import (
	"fmt"

	"github.com/npillmayer/fonttools/otbin"
)

var fvarSchema = otbin.NewSchema("fvar",
	otbin.F("majorVersion", otbin.KindUint16),
	otbin.F("minorVersion", otbin.KindUint16),
	otbin.Off16("axesArrayOffset", "axes"),
	otbin.F("reserved", otbin.KindUint16),
	otbin.F("axisCount", otbin.KindUint16),
	otbin.F("axisSize", otbin.KindUint16),
	otbin.F("instanceCount", otbin.KindUint16),
	otbin.F("instanceSize", otbin.KindUint16),
)

const fvarAxisSize = 20

// VariationAxis is a design axis of a variable font.
type VariationAxis struct {
	Tag     Tag
	Min     otbin.Fixed
	Default otbin.Fixed
	Max     otbin.Fixed
	Flags   uint16
	NameID  NameID
}

// NamedInstance is a predefined position in the design space of a variable font.
type NamedInstance struct {
	SubfamilyNameID  NameID
	Flags            uint16
	Coordinates      []otbin.Fixed // one per axis
	PostScriptNameID Option[NameID]
}

// FVarTable (font variations) defines the axes of a variable font and its named
// instances.
type FVarTable struct {
	tableBase
	header    *otbin.Record
	Axes      []VariationAxis
	Instances []NamedInstance
}

// NewFVarTable creates a font variations table.
func NewFVarTable(axes ...VariationAxis) *FVarTable {
	t := &FVarTable{tableBase: tableBase{name: TagFVar}, header: fvarSchema.New(), Axes: axes}
	t.header.MustSet("majorVersion", 1)
	t.header.MustSet("reserved", 2)
	t.self = t
	return t
}

func decodeFVar(otf *Font, tag Tag, b []byte, offset uint32) (Table, error) {
	header, err := fvarSchema.Decode(b, 0)
	if err != nil {
		return nil, err
	}
	if v := header.U16("majorVersion"); v != 1 {
		return nil, errTableVersion(tag, v)
	}
	t := &FVarTable{tableBase: makeBase(tag, b, offset), header: header}
	t.self = t
	axisCount := int(header.U16("axisCount"))
	if header.U16("axisSize") != fvarAxisSize {
		return nil, fmt.Errorf("fvar axis size %d: %w", header.U16("axisSize"), ErrUnsupportedTableVersion)
	}
	instanceSize := int(header.U16("instanceSize"))
	withPSName := instanceSize == 4*axisCount+6
	if instanceSize != 4*axisCount+4 && !withPSName {
		return nil, fmt.Errorf("fvar instance size %d for %d axes: %w", instanceSize, axisCount, ErrUnsupportedTableVersion)
	}
	axes, err := header.Link("axesArrayOffset", b, 0).Jump(b)
	if err != nil {
		return nil, err
	}
	r := otbin.NewReader(axes)
	for i := 0; i < axisCount; i++ {
		var axis VariationAxis
		axis.Tag, _ = r.Tag()
		axis.Min, _ = r.Fixed()
		axis.Default, _ = r.Fixed()
		axis.Max, _ = r.Fixed()
		axis.Flags, _ = r.U16()
		id, err := r.U16()
		if err != nil {
			return nil, fmt.Errorf("fvar axis %d: %w", i, err)
		}
		axis.NameID = NameID(id)
		if axis.Min > axis.Default || axis.Default > axis.Max {
			otf.warn(tag, fmt.Sprintf("axis %s: default outside of [min, max]", axis.Tag), offset)
		}
		t.Axes = append(t.Axes, axis)
	}
	for i := 0; i < int(header.U16("instanceCount")); i++ {
		var inst NamedInstance
		id, _ := r.U16()
		inst.SubfamilyNameID = NameID(id)
		inst.Flags, _ = r.U16()
		if inst.Coordinates, err = otbin.ReadArray[otbin.Fixed](r, axisCount); err != nil {
			return nil, fmt.Errorf("fvar instance %d: %w", i, err)
		}
		if withPSName {
			id, err := r.U16()
			if err != nil {
				return nil, fmt.Errorf("fvar instance %d: %w", i, err)
			}
			inst.PostScriptNameID = Some(NameID(id))
		}
		t.Instances = append(t.Instances, inst)
	}
	return t, nil
}

func encodeFVar(t Table, p otbin.Packer) ([]byte, error) {
	fvar := t.Self().AsFVar()
	if fvar == nil {
		return nil, fmt.Errorf("table %s is not a fvar table", t.Self().NameTag())
	}
	n := len(fvar.Axes)
	withPSName := len(fvar.Instances) > 0 && fvar.Instances[0].PostScriptNameID.IsSome()
	instanceSize := 4*n + 4
	if withPSName {
		instanceSize += 2
	}
	axes := otbin.NewNode("fvar axes")
	for _, axis := range fvar.Axes {
		axes.Tag(axis.Tag)
		axes.Fixed(axis.Min)
		axes.Fixed(axis.Default)
		axes.Fixed(axis.Max)
		axes.U16(axis.Flags)
		axes.U16(uint16(axis.NameID))
	}
	for i, inst := range fvar.Instances {
		if len(inst.Coordinates) != n {
			return nil, fmt.Errorf("fvar instance %d has %d coordinates for %d axes", i, len(inst.Coordinates), n)
		}
		if inst.PostScriptNameID.IsSome() != withPSName {
			return nil, fmt.Errorf("fvar instance %d: PostScript name IDs must be given for all instances or none", i)
		}
		axes.U16(uint16(inst.SubfamilyNameID))
		axes.U16(inst.Flags)
		for _, c := range inst.Coordinates {
			axes.Fixed(c)
		}
		if id, ok := inst.PostScriptNameID.Unwrap(); ok {
			axes.U16(uint16(id))
		}
	}
	h := fvar.header
	root := otbin.NewNode("fvar")
	root.U16(h.U16("majorVersion"))
	root.U16(h.U16("minorVersion"))
	root.Offset16(axes)
	root.U16(h.U16("reserved"))
	root.U16(uint16(n))
	root.U16(fvarAxisSize)
	root.U16(uint16(len(fvar.Instances)))
	root.U16(uint16(instanceSize))
	return p.Pack(root)
}

// AxisCount returns the number of variation axes.
func (t *FVarTable) AxisCount() int {
	return len(t.Axes)
}
