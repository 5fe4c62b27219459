package main

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/npillmayer/fonttools"
	"github.com/npillmayer/fonttools/ot"
	"github.com/npillmayer/fonttools/otbin"
	"github.com/npillmayer/fonttools/otquery"
	"github.com/npillmayer/fonttools/outline"
	"github.com/pterm/pterm"
)

var ErrNoTable = errors.New("no table set")

func (intp *Intp) checkTable() error {
	if intp.table == nil {
		return ErrNoTable
	}
	return nil
}

func quitOp(intp *Intp, op *Op) (bool, error) {
	pterm.Println("Goodbye!")
	return true, nil
}

func tableOp(intp *Intp, op *Op) (bool, error) {
	tag, ok := op.hasArg()
	if !ok {
		return false, errors.New("table: tag missing")
	}
	t := intp.font.Table(ot.T(tag))
	if t == nil {
		return false, fmt.Errorf("table %s not found in font", ot.T(tag))
	}
	intp.table, intp.script = t, 0
	tracer().Infof("setting table: %v", tag)
	return false, nil
}

// listOp lists the tables of the font.
func listOp(intp *Intp, op *Op) (bool, error) {
	dir := make(map[ot.Tag]ot.TableRecord)
	for _, rec := range intp.font.Directory() {
		dir[rec.Tag] = rec
	}
	data := [][]string{{"Tag", "Checksum", "Offset", "Length", "Representation"}}
	for _, tag := range intp.font.TableTags() {
		rec, inFile := dir[tag]
		row := []string{tag.String(), "-", "-", "-", tableKind(intp.font.Table(tag))}
		if inFile {
			row[1] = fmt.Sprintf("%08x", rec.Checksum)
			row[2] = strconv.Itoa(int(rec.Offset))
			row[3] = strconv.Itoa(int(rec.Length))
		}
		data = append(data, row)
	}
	return false, pterm.DefaultTable.WithHasHeader().WithData(data).Render()
}

func tableKind(t ot.Table) string {
	if t.Self().AsRaw() != nil {
		return "raw"
	}
	return strings.TrimPrefix(fmt.Sprintf("%T", t), "*ot.")
}

type fieldsTable interface {
	Fields() *otbin.Record
}

// printOp prints the contents of the current table.
func printOp(intp *Intp, op *Op) (bool, error) {
	if err := intp.checkTable(); err != nil {
		return false, err
	}
	t := intp.table
	offset, size := t.Extent()
	pterm.Printf("table %s (%s) at offset %d, %d bytes\n", t.Self().NameTag(), tableKind(t), offset, size)
	if ft, ok := t.(fieldsTable); ok {
		rec := ft.Fields()
		data := [][]string{{"Field", "Type", "Value"}}
		for _, f := range rec.Schema().Fields() {
			data = append(data, []string{f.Name, f.Kind.String(), formatField(rec, f)})
		}
		return false, pterm.DefaultTable.WithHasHeader().WithData(data).Render()
	}
	switch {
	case t.Self().AsHMtx() != nil:
		hmtx := t.Self().AsHMtx()
		pterm.Printf("metrics for %d glyphs\n", hmtx.NumGlyphs())
	case t.Self().AsLoca() != nil:
		loca := t.Self().AsLoca()
		pterm.Printf("%d glyph locations, long format = %v\n", loca.NumGlyphs(), loca.IsLong())
	case t.Self().AsGlyf() != nil:
		pterm.Printf("%d glyphs\n", t.Self().AsGlyf().NumGlyphs())
	case t.Self().AsCMap() != nil:
		data := [][]string{{"Platform", "Encoding", "Format", "Mappings"}}
		for _, enc := range t.Self().AsCMap().Encodings() {
			data = append(data, []string{
				strconv.Itoa(int(enc.PlatformID)),
				strconv.Itoa(int(enc.EncodingID)),
				strconv.Itoa(int(enc.Subtable.Format)),
				strconv.Itoa(len(enc.Subtable.Mapping())),
			})
		}
		return false, pterm.DefaultTable.WithHasHeader().WithData(data).Render()
	case t.Self().AsName() != nil:
		return namesOp(intp, op)
	case t.Self().AsGSub() != nil, t.Self().AsGPos() != nil:
		lyt := layoutTable(t)
		major, minor := lyt.Version()
		pterm.Printf("version %d.%d, %d scripts, %d features, %d lookups\n", major, minor,
			len(lyt.Scripts()), len(lyt.Features()), len(lyt.Lookups()))
	default:
		b := t.Binary()
		pterm.Printf("% x\n", b[:min(len(b), 32)])
	}
	return false, nil
}

func formatField(rec *otbin.Record, f otbin.Field) string {
	switch f.Kind {
	case otbin.KindTag:
		return rec.Tag(f.Name).String()
	case otbin.KindFixed:
		return rec.Fixed(f.Name).String()
	case otbin.KindF2Dot14:
		return rec.F2Dot14(f.Name).String()
	case otbin.KindVersion16Dot16:
		return rec.Version(f.Name).String()
	case otbin.KindDateTime:
		return rec.DateTime(f.Name).String()
	}
	return strconv.FormatInt(rec.Int(f.Name), 10)
}

// mapOp looks up a character in the cmap, either given literally or as U+XXXX.
func mapOp(intp *Intp, op *Op) (bool, error) {
	arg, ok := op.hasArg()
	if !ok {
		return false, errors.New("map: character missing")
	}
	r, _ := utf8.DecodeRuneInString(arg)
	if hex, ok := strings.CutPrefix(strings.ToUpper(arg), "U+"); ok {
		u, err := strconv.ParseUint(hex, 16, 32)
		if err != nil {
			return false, fmt.Errorf("map: %w", err)
		}
		r = rune(u)
	}
	if intp.font.CMap() == nil {
		return false, errors.New("font has no decodable cmap table")
	}
	gid := otquery.GlyphIndex(intp.font, r)
	name := ""
	if post := intp.font.Post(); post != nil {
		name, _ = post.GlyphName(gid)
	}
	pterm.Printf("%#U => glyph %d %s\n", r, gid, name)
	return false, nil
}

func namesOp(intp *Intp, op *Op) (bool, error) {
	names := intp.font.Names()
	if names == nil {
		return false, errors.New("font has no decodable name table")
	}
	data := [][]string{{"Platform", "Encoding", "Language", "Name ID", "Value"}}
	for _, rec := range names.Records() {
		s, err := rec.Text()
		if err != nil {
			s = fmt.Sprintf("<%v>", err)
		}
		data = append(data, []string{
			strconv.Itoa(int(rec.PlatformID)),
			strconv.Itoa(int(rec.EncodingID)),
			fmt.Sprintf("0x%04x", rec.LanguageID),
			strconv.Itoa(int(rec.NameID)),
			s,
		})
	}
	return false, pterm.DefaultTable.WithHasHeader().WithData(data).Render()
}

// glyphOp prints outline information and metrics of a glyph.
func glyphOp(intp *Intp, op *Op) (bool, error) {
	glyf := intp.font.Glyf()
	if glyf == nil {
		return false, errors.New("font has no decodable glyf table")
	}
	n, err := strconv.Atoi(op.arg)
	if err != nil || n < 0 || n >= glyf.NumGlyphs() {
		return false, fmt.Errorf("glyph: invalid glyph index %q", op.arg)
	}
	gid := ot.GlyphIndex(n)
	g, err := glyf.Glyph(gid)
	if err != nil {
		return false, err
	}
	m := otquery.GlyphMetrics(intp.font, gid)
	pterm.Printf("glyph %d: advance=%d lsb=%d rsb=%d\n", gid, m.Advance, m.LSB, m.RSB)
	switch g := g.(type) {
	case nil:
		pterm.Println("empty glyph")
		return false, nil
	case *outline.SimpleGlyph:
		pterm.Printf("simple glyph, %d contours, %d points, bounds %v\n", len(g.Contours), g.NumPoints(), g.Rect)
	case *outline.CompositeGlyph:
		pterm.Printf("composite glyph, %d components, bounds %v\n", len(g.Components), g.Rect)
		closure, err := outline.Closure([]ot.GlyphIndex{gid}, glyf)
		if err != nil {
			return false, err
		}
		var ids []string
		for i, ok := closure.NextSet(0); ok; i, ok = closure.NextSet(i + 1) {
			ids = append(ids, strconv.Itoa(int(i)))
		}
		pterm.Printf("glyph closure: %s\n", strings.Join(ids, " "))
	}
	contours, err := outline.Flatten(gid, glyf)
	if err != nil {
		return false, err
	}
	for i, c := range contours {
		pterm.Printf("contour %d: %d points, %d segments\n", i, len(c), len(outline.Segments(c)))
	}
	return false, nil
}

// diagOp prints the errors and warnings collected while parsing the font.
func diagOp(intp *Intp, op *Op) (bool, error) {
	errs, warnings := intp.font.Errors(), intp.font.Warnings()
	if len(errs)+len(warnings) == 0 {
		pterm.Success.Println("no diagnostics")
		return false, nil
	}
	for _, e := range errs {
		pterm.Error.Println(e.Error())
	}
	for _, w := range warnings {
		pterm.Warning.Println(w.String())
	}
	return false, nil
}

func saveOp(intp *Intp, op *Op) (bool, error) {
	path, ok := op.hasArg()
	if !ok {
		return false, errors.New("save: file name missing")
	}
	if err := fonttools.SaveFile(intp.font, path, ot.SaveParallel); err != nil {
		return false, err
	}
	pterm.Success.Printf("font saved to %s\n", path)
	return false, nil
}
