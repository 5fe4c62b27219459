package otbin

import (
	"errors"
	"testing"
	"time"

	"github.com/npillmayer/schuko/tracing/gotestingadapter"
)

func TestDecodeScalars(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "font.opentype")
	defer teardown()
	//
	b := []byte{0x12, 0x34, 0xff, 0xfe, 0x00, 0x01, 0x80, 0x00}
	if v, n, err := Decode[uint16](b, 0); err != nil || v != 0x1234 || n != 2 {
		t.Errorf("expected uint16 0x1234/2, have %#x/%d (%v)", v, n, err)
	}
	if v, _, _ := Decode[int16](b, 2); v != -2 {
		t.Errorf("expected int16 -2, have %d", v)
	}
	if v, _, _ := Decode[Fixed](b, 4); v.Float() != 1.5 {
		t.Errorf("expected Fixed 1.5, have %v", v)
	}
	if v, n, _ := DecodeUint24(b, 0); v != 0x1234ff || n != 3 {
		t.Errorf("expected uint24 0x1234ff, have %#x", v)
	}
	if _, _, err := Decode[uint32](b, 6); !errors.Is(err, ErrTruncated) {
		t.Errorf("expected ErrTruncated for read past end, have %v", err)
	}
	if _, _, err := Decode[uint16](b, -1); !errors.Is(err, ErrTruncated) {
		t.Errorf("expected ErrTruncated for negative position, have %v", err)
	}
}

func TestAppendScalars(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "font.opentype")
	defer teardown()
	//
	var b []byte
	b = Append(b, uint16(0x1234))
	b = Append(b, int16(-2))
	b = Append(b, FixedFrom(1.5))
	b = AppendUint24(b, 0xabcdef)
	want := []byte{0x12, 0x34, 0xff, 0xfe, 0x00, 0x01, 0x80, 0x00, 0xab, 0xcd, 0xef}
	if string(b) != string(want) {
		t.Errorf("expected % x, have % x", want, b)
	}
}

func TestFixedQuantization(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "font.opentype")
	defer teardown()
	//
	if f := FixedFrom(1.5); f != 0x18000 {
		t.Errorf("expected 0x18000, have %#x", int32(f))
	}
	if f := FixedFrom(-0.5 / 65536); f != -1 {
		t.Errorf("expected ties away from zero (-1), have %d", f)
	}
	if f := FixedFrom(1e9); f != 0x7fffffff {
		t.Errorf("expected clamping to max, have %#x", int32(f))
	}
	if f := F2Dot14(0x7000); f.Float() != 1.75 {
		t.Errorf("expected 1.75, have %v", f.Float())
	}
	if f := F2Dot14From(-1.0); uint16(f) != 0xc000 {
		t.Errorf("expected 0xc000, have %#x", uint16(f))
	}
	if f := F2Dot14From(2.0); f != 0x7fff {
		t.Errorf("expected 2.0 to clamp to 0x7fff, have %#x", int16(f))
	}
	// untouched bit patterns survive a float round trip
	for _, raw := range []int32{0, 1, -1, 0x10000, 0x7fffffff, -0x80000000, 0x12345} {
		if f := FixedFrom(Fixed(raw).Float()); int32(f) != raw {
			t.Errorf("expected %#x to survive round trip, have %#x", raw, int32(f))
		}
	}
}

func TestDateTime(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "font.opentype")
	defer teardown()
	//
	unix := time.Date(1970, 1, 1, 0, 0, 0, 0, time.UTC)
	if d := DateTimeFrom(unix); d != 2082844800 {
		t.Errorf("expected Unix epoch at 2082844800, have %d", d)
	}
	if d := LongDateTime(0); d.Time().Year() != 1904 {
		t.Errorf("expected epoch in 1904, have %v", d)
	}
	when := time.Date(2021, 3, 4, 5, 6, 7, 0, time.UTC)
	if !DateTimeFrom(when).Time().Equal(when) {
		t.Errorf("expected %v to round trip", when)
	}
}

func TestTag(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "font.opentype")
	defer teardown()
	//
	if s := T("cvt").String(); s != "cvt " {
		t.Errorf("expected tag to be padded, have %q", s)
	}
	if T("cmap") != Tag(0x636d6170) {
		t.Errorf("expected cmap = 0x636d6170")
	}
	valid := map[string]bool{"cmap": true, "OS/2": true, "cvt ": true, " abc": false, "a b ": false, "\x01abc": false}
	for s, ok := range valid {
		if T(s).IsValid() != ok {
			t.Errorf("expected IsValid(%q) = %v", s, ok)
		}
	}
	if Version16Dot16(0x00005000).String() != "0.5" || Version16Dot16(0x00010000).String() != "1" {
		t.Errorf("unexpected version formatting")
	}
}

func TestReader(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "font.opentype")
	defer teardown()
	//
	r := NewReader([]byte{'h', 'e', 'a', 'd', 0, 3, 0, 1, 0, 2, 0, 3, 9})
	tag, err := r.Tag()
	if err != nil || tag != T("head") {
		t.Fatalf("expected tag head, have %v (%v)", tag, err)
	}
	n, _ := r.U16()
	arr, err := ReadArray[uint16](r, int(n))
	if err != nil || len(arr) != 3 || arr[2] != 3 {
		t.Fatalf("expected [1 2 3], have %v (%v)", arr, err)
	}
	if _, err := ReadArray[uint16](r, 1000000); !errors.Is(err, ErrTruncated) {
		t.Errorf("expected oversized array to be rejected, have %v", err)
	}
	if r.Offset() != 12 {
		t.Errorf("expected failed read to leave cursor at 12, have %d", r.Offset())
	}
	if _, err := r.U16(); !errors.Is(err, ErrTruncated) {
		t.Errorf("expected ErrTruncated, have %v", err)
	}
	if b, _ := r.U8(); b != 9 || r.Remaining() != 0 {
		t.Errorf("expected last byte 9")
	}
}
