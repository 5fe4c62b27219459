package main

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/npillmayer/fonttools/ot"
	"github.com/pterm/pterm"
)

func layoutTable(t ot.Table) *ot.LayoutTable {
	if gsub := t.Self().AsGSub(); gsub != nil {
		return &gsub.LayoutTable
	}
	if gpos := t.Self().AsGPos(); gpos != nil {
		return &gpos.LayoutTable
	}
	return nil
}

func (intp *Intp) checkLayoutTable() (*ot.LayoutTable, error) {
	if err := intp.checkTable(); err != nil {
		return nil, err
	}
	lyt := layoutTable(intp.table)
	if lyt == nil {
		return nil, fmt.Errorf("table %s is not a decoded layout table", intp.table.Self().NameTag())
	}
	return lyt, nil
}

// scriptsOp lists the scripts of a layout table. With an argument, it selects a
// script and lists its language systems.
func scriptsOp(intp *Intp, op *Op) (bool, error) {
	lyt, err := intp.checkLayoutTable()
	if err != nil {
		return false, err
	}
	tag, ok := op.hasArg()
	if !ok {
		var tags []string
		for _, s := range lyt.Scripts() {
			tags = append(tags, s.Tag.String())
		}
		pterm.Printf("ScriptList keys: %v\n", tags)
		return false, nil
	}
	script, ok := lyt.Script(ot.T(tag))
	if !ok {
		return false, fmt.Errorf("script lookup [%s] returns null", ot.T(tag))
	}
	intp.script = script.Tag
	data := [][]string{{"Language", "Required", "Features"}}
	if ls, ok := script.DefaultLangSys.Unwrap(); ok {
		data = append(data, langSysRow("(default)", ls, lyt))
	}
	for _, rec := range script.LangSys {
		data = append(data, langSysRow(rec.Tag.String(), rec.LangSys, lyt))
	}
	return false, pterm.DefaultTable.WithHasHeader().WithData(data).Render()
}

func langSysRow(name string, ls ot.LangSys, lyt *ot.LayoutTable) []string {
	features := lyt.Features()
	featureName := func(i uint16) string {
		if int(i) < len(features) {
			return fmt.Sprintf("%s(%d)", features[i].Tag, i)
		}
		return fmt.Sprintf("?(%d)", i)
	}
	req := "-"
	if i, ok := ls.RequiredFeature.Unwrap(); ok {
		req = featureName(i)
	}
	var fs []string
	for _, i := range ls.FeatureIndices {
		fs = append(fs, featureName(i))
	}
	return []string{name, req, strings.Join(fs, " ")}
}

func featuresOp(intp *Intp, op *Op) (bool, error) {
	lyt, err := intp.checkLayoutTable()
	if err != nil {
		return false, err
	}
	features := lyt.Features()
	if op.noArg() {
		pterm.Printf("FeatureList has %d entries\n", len(features))
		data := [][]string{{"Index", "Tag", "Lookups", "Params"}}
		for i, f := range features {
			data = append(data, []string{strconv.Itoa(i), f.Tag.String(),
				formatIndices(f.LookupIndices), strconv.FormatBool(f.HasParams())})
		}
		return false, pterm.DefaultTable.WithHasHeader().WithData(data).Render()
	}
	i, err := strconv.Atoi(op.arg)
	if err != nil || i < 0 || i >= len(features) {
		return false, fmt.Errorf("feature index invalid: %v", op.arg)
	}
	pterm.Printf("FeatureList index %d holds feature %s with lookups %s\n", i,
		features[i].Tag, formatIndices(features[i].LookupIndices))
	return false, nil
}

func lookupsOp(intp *Intp, op *Op) (bool, error) {
	lyt, err := intp.checkLayoutTable()
	if err != nil {
		return false, err
	}
	if op.noArg() {
		return false, printLookupList(lyt)
	}
	i, err := strconv.Atoi(op.arg)
	if err != nil {
		tracer().Errorf("Lookup index not numeric: %v\n", op.arg)
		return false, errors.New("invalid lookup index")
	}
	return false, printLookup(lyt, i)
}

func printLookupList(table *ot.LayoutTable) error {
	lookups := table.Lookups()
	pterm.Printf("LookupList has %d entries\n", len(lookups))
	if len(lookups) == 0 {
		return nil
	}
	data := [][]string{
		{"Index", "Type", "Subtables", "Flags"},
	}
	for i, lookup := range lookups {
		data = append(data, []string{
			strconv.Itoa(i),
			strconv.Itoa(int(lookup.Type)),
			strconv.Itoa(lookup.SubtableCount()),
			formatLookupFlags(lookup),
		})
	}
	return pterm.DefaultTable.WithHasHeader().WithData(data).Render()
}

func printLookup(table *ot.LayoutTable, index int) error {
	lookups := table.Lookups()
	if index < 0 || index >= len(lookups) {
		return fmt.Errorf("lookup index out of range: %d", index)
	}
	lookup := lookups[index]
	pterm.Printf("Lookup %d: type=%d flags=%s subtables=%d\n",
		index, lookup.Type, formatLookupFlags(lookup), lookup.SubtableCount())
	data := [][]string{
		{"Sub", "Format", "Bytes"},
	}
	for i := range lookup.SubtableCount() {
		sub, err := table.LookupSubtable(index, i)
		if err != nil {
			return err
		}
		format := "-"
		if len(sub) >= 2 {
			format = strconv.Itoa(int(sub[0])<<8 | int(sub[1]))
		}
		data = append(data, []string{strconv.Itoa(i), format, fmt.Sprintf("% x", sub[:min(len(sub), 16)])})
	}
	return pterm.DefaultTable.WithHasHeader().WithData(data).Render()
}

func formatLookupFlags(lookup ot.Lookup) string {
	flag := lookup.Flag
	if flag == 0 {
		return "-"
	}
	parts := make([]string, 0, 6)
	if flag&ot.LookupRightToLeft != 0 {
		parts = append(parts, "RightToLeft")
	}
	if flag&ot.LookupIgnoreBaseGlyphs != 0 {
		parts = append(parts, "IgnoreBase")
	}
	if flag&ot.LookupIgnoreLigatures != 0 {
		parts = append(parts, "IgnoreLigatures")
	}
	if flag&ot.LookupIgnoreMarks != 0 {
		parts = append(parts, "IgnoreMarks")
	}
	if set, ok := lookup.MarkFilteringSet.Unwrap(); ok {
		parts = append(parts, fmt.Sprintf("UseMarkFilteringSet=%d", set))
	}
	if flag&0xFF00 != 0 {
		parts = append(parts, fmt.Sprintf("MarkAttachType=%d", flag>>8))
	}
	return strings.Join(parts, "|")
}

func formatIndices(indices []uint16) string {
	s := make([]string, len(indices))
	for i, x := range indices {
		s[i] = strconv.Itoa(int(x))
	}
	return strings.Join(s, ",")
}
