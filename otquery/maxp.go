package otquery

import (
	"github.com/npillmayer/fonttools/ot"
	"github.com/npillmayer/fonttools/otbin"
)

// MaxPTableInfo is a flat view of OpenType table 'maxp'.
// For version 1.0 tables, the TrueType profile fields are filled in.
type MaxPTableInfo struct {
	Version   otbin.Version16Dot16
	NumGlyphs uint16

	// TrueType profile fields (version 1.0 only)
	HasExtendedProfile    bool
	MaxPoints             uint16
	MaxContours           uint16
	MaxCompositePoints    uint16
	MaxCompositeContours  uint16
	MaxZones              uint16
	MaxTwilightPoints     uint16
	MaxStorage            uint16
	MaxFunctionDefs       uint16
	MaxInstructionDefs    uint16
	MaxStackElements      uint16
	MaxSizeOfInstructions uint16
	MaxComponentElements  uint16
	MaxComponentDepth     uint16
}

// MaxPInfo collects the fields of table 'maxp'.
// Returns (info, true) on success, or (zero, false) if the table is missing or
// could not be decoded.
func MaxPInfo(otf *ot.Font) (MaxPTableInfo, bool) {
	var info MaxPTableInfo
	maxp := otf.MaxP()
	if maxp == nil {
		return info, false
	}
	info.Version = maxp.Version()
	info.NumGlyphs = uint16(maxp.NumGlyphs())
	if info.Version.Major() < 1 {
		return info, true
	}
	f := maxp.Fields()
	info.HasExtendedProfile = true
	info.MaxPoints = f.U16("maxPoints")
	info.MaxContours = f.U16("maxContours")
	info.MaxCompositePoints = f.U16("maxCompositePoints")
	info.MaxCompositeContours = f.U16("maxCompositeContours")
	info.MaxZones = f.U16("maxZones")
	info.MaxTwilightPoints = f.U16("maxTwilightPoints")
	info.MaxStorage = f.U16("maxStorage")
	info.MaxFunctionDefs = f.U16("maxFunctionDefs")
	info.MaxInstructionDefs = f.U16("maxInstructionDefs")
	info.MaxStackElements = f.U16("maxStackElements")
	info.MaxSizeOfInstructions = f.U16("maxSizeOfInstructions")
	info.MaxComponentElements = f.U16("maxComponentElements")
	info.MaxComponentDepth = f.U16("maxComponentDepth")
	return info, true
}
