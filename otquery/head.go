package otquery

import (
	"time"

	"github.com/npillmayer/fonttools/ot"
)

// HeadTableInfo is a flat view of OpenType table 'head'.
type HeadTableInfo struct {
	FontRevision       float64
	CheckSumAdjustment uint32
	Flags              uint16
	UnitsPerEm         uint16
	Created            time.Time
	Modified           time.Time
	XMin, YMin         int16
	XMax, YMax         int16
	MacStyle           uint16
	LowestRecPPEM      uint16
	IndexToLocFormat   int16
}

// HeadInfo collects the fields of table 'head'.
// Returns (info, true) on success, or (zero, false) if the table is missing or
// could not be decoded.
func HeadInfo(otf *ot.Font) (HeadTableInfo, bool) {
	var info HeadTableInfo
	head := otf.Head()
	if head == nil {
		return info, false
	}
	bounds := head.Bounds()
	info = HeadTableInfo{
		FontRevision:       head.FontRevision().Float(),
		CheckSumAdjustment: head.CheckSumAdjustment(),
		Flags:              head.Flags(),
		UnitsPerEm:         head.UnitsPerEm(),
		Created:            head.Created(),
		Modified:           head.Modified(),
		XMin:               bounds.XMin,
		YMin:               bounds.YMin,
		XMax:               bounds.XMax,
		YMax:               bounds.YMax,
		MacStyle:           head.MacStyle(),
		LowestRecPPEM:      head.Fields().U16("lowestRecPPEM"),
		IndexToLocFormat:   head.IndexToLocFormat(),
	}
	return info, true
}
