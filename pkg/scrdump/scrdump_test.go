package scrdump

import (
	"errors"
	"image/color"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func sampleScreen() *Screen {
	s := &Screen{Window: 3, Number: 2, Cols: 4, Rows: 2, CurX: 3, CurY: 1}
	fg := color.RGBA{A: 0xff}
	bg := color.RGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff}
	for i := 0; i < s.Cols*s.Rows; i++ {
		s.Cells = append(s.Cells, Cell{R: ' ', FG: fg, BG: bg})
	}
	s.Cells[0].R = 'h'
	s.Cells[1].R = 'i'
	s.Cells[1].Attr = 1
	s.Cells[4].R = '世'
	s.Cells[5] = Cell{FG: fg, BG: bg, Cont: true}
	return s
}

func TestRoundTripWriteRead(t *testing.T) {
	for _, opts := range []Options{{}, {Compress: true}, {Compress: true, Password: "pw"}} {
		path := filepath.Join(t.TempDir(), "win3-2.scr")
		if err := WriteFile(path, sampleScreen(), opts); err != nil {
			t.Fatalf("write failed: %v", err)
		}
		got, err := ReadFile(path, opts.Password)
		if err != nil {
			t.Fatalf("read failed: %v", err)
		}
		if diff := cmp.Diff(sampleScreen(), got); diff != "" {
			t.Fatalf("snapshot mismatch with %+v (-want +got):\n%s", opts, diff)
		}
		if got.Row(1) != "hi" || got.Row(2) != "世" {
			t.Fatalf("unexpected rows %q %q", got.Row(1), got.Row(2))
		}
	}
}

func TestDecodeRejectsBadMagic(t *testing.T) {
	if _, err := Decode([]byte("not a snapshot at all, really"), ""); !errors.Is(err, ErrInvalidMagic) {
		t.Fatalf("expected ErrInvalidMagic, got %v", err)
	}
}

func TestDecodeDetectsCorruption(t *testing.T) {
	blob, err := Encode(sampleScreen(), Options{})
	if err != nil {
		t.Fatal(err)
	}
	blob[len(blob)-3] ^= 0xff
	if _, err := Decode(blob, ""); !errors.Is(err, ErrChecksum) {
		t.Fatalf("expected ErrChecksum, got %v", err)
	}
	if _, err := Decode(blob[:len(blob)-1], ""); !errors.Is(err, ErrTruncated) {
		t.Fatalf("expected ErrTruncated, got %v", err)
	}
}

func TestEncryptedNeedsRightPassword(t *testing.T) {
	blob, err := Encode(sampleScreen(), Options{Password: "secret"})
	if err != nil {
		t.Fatal(err)
	}
	if _, err := Decode(blob, ""); !errors.Is(err, ErrPasswordRequired) {
		t.Fatalf("expected ErrPasswordRequired, got %v", err)
	}
	if _, err := Decode(blob, "wrong"); !errors.Is(err, ErrInvalidPassword) {
		t.Fatalf("expected ErrInvalidPassword, got %v", err)
	}
}

func TestEncodeRejectsMismatchedCells(t *testing.T) {
	s := sampleScreen()
	s.Cells = s.Cells[:3]
	if _, err := Encode(s, Options{}); err == nil {
		t.Fatalf("expected error for short cell slice")
	}
}
