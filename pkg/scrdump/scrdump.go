// Package scrdump reads and writes screen snapshots: the character contents
// of one screen buffer, optionally compressed and password protected.
package scrdump

import (
	"bytes"
	"compress/zlib"
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"encoding/binary"
	"errors"
	"fmt"
	"hash/crc32"
	"image/color"
	"io"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/crypto/pbkdf2"
)

const (
	Magic     = "CELLWIN-SCREEN"
	VersionV1 = uint16(1)

	flagCompressed = uint16(1 << 0)
	flagEncrypted  = uint16(1 << 1)

	saltSize      = 16
	nonceSize     = 12
	headerSize    = len(Magic) + 2 + 2 + saltSize + nonceSize + 8
	bodyHeader    = 7 * 4
	cellSize      = 4 + 4 + 4 + 2 + 1
	kdfIterations = 200000
)

var (
	ErrInvalidMagic     = errors.New("scrdump: invalid magic")
	ErrUnsupportedVer   = errors.New("scrdump: unsupported version")
	ErrTruncated        = errors.New("scrdump: truncated snapshot")
	ErrChecksum         = errors.New("scrdump: checksum mismatch")
	ErrPasswordRequired = errors.New("scrdump: password required")
	ErrInvalidPassword  = errors.New("scrdump: invalid password")
)

type Cell struct {
	R    rune
	FG   color.RGBA
	BG   color.RGBA
	Attr uint16
	Cont bool
}

// Screen is one screen buffer of one window.
type Screen struct {
	Window int
	Number int
	Cols   int
	Rows   int
	CurX   int
	CurY   int
	Cells  []Cell
}

// Row returns the text of row y (1-based) with trailing blanks removed.
func (s *Screen) Row(y int) string {
	if y < 1 || y > s.Rows || len(s.Cells) < s.Cols*s.Rows {
		return ""
	}
	var sb strings.Builder
	for _, c := range s.Cells[(y-1)*s.Cols : y*s.Cols] {
		if !c.Cont {
			sb.WriteRune(c.R)
		}
	}
	return strings.TrimRight(sb.String(), " ")
}

type Options struct {
	Compress bool
	// Password encrypts the snapshot when set.
	Password string
}

func Encode(s *Screen, opts Options) ([]byte, error) {
	if s == nil {
		return nil, errors.New("scrdump: screen is nil")
	}
	if len(s.Cells) != s.Cols*s.Rows {
		return nil, fmt.Errorf("scrdump: %d cells for %dx%d screen", len(s.Cells), s.Cols, s.Rows)
	}
	body := encodeBody(s)
	var flags uint16
	var err error
	if opts.Compress {
		flags |= flagCompressed
		if body, err = compressBytes(body); err != nil {
			return nil, err
		}
	}
	salt := make([]byte, saltSize)
	nonce := make([]byte, nonceSize)
	if strings.TrimSpace(opts.Password) != "" {
		flags |= flagEncrypted
		if _, err := io.ReadFull(rand.Reader, salt); err != nil {
			return nil, err
		}
		if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
			return nil, err
		}
		gcm, err := newGCM(opts.Password, salt)
		if err != nil {
			return nil, err
		}
		body = gcm.Seal(nil, nonce, body, nil)
	}

	out := make([]byte, headerSize, headerSize+len(body))
	off := copy(out, Magic)
	binary.LittleEndian.PutUint16(out[off:], VersionV1)
	binary.LittleEndian.PutUint16(out[off+2:], flags)
	off += 4
	off += copy(out[off:], salt)
	off += copy(out[off:], nonce)
	binary.LittleEndian.PutUint64(out[off:], uint64(len(body)))
	return append(out, body...), nil
}

func Decode(b []byte, password string) (*Screen, error) {
	if len(b) < len(Magic) || string(b[:len(Magic)]) != Magic {
		return nil, ErrInvalidMagic
	}
	if len(b) < headerSize {
		return nil, ErrTruncated
	}
	off := len(Magic)
	if v := binary.LittleEndian.Uint16(b[off:]); v != VersionV1 {
		return nil, fmt.Errorf("%w: %d", ErrUnsupportedVer, v)
	}
	flags := binary.LittleEndian.Uint16(b[off+2:])
	off += 4
	salt := b[off : off+saltSize]
	off += saltSize
	nonce := b[off : off+nonceSize]
	off += nonceSize
	if uint64(len(b)-headerSize) != binary.LittleEndian.Uint64(b[off:]) {
		return nil, ErrTruncated
	}
	body := append([]byte(nil), b[headerSize:]...)

	if flags&flagEncrypted != 0 {
		if strings.TrimSpace(password) == "" {
			return nil, ErrPasswordRequired
		}
		gcm, err := newGCM(password, salt)
		if err != nil {
			return nil, err
		}
		if body, err = gcm.Open(nil, nonce, body, nil); err != nil {
			return nil, ErrInvalidPassword
		}
	}
	if flags&flagCompressed != 0 {
		var err error
		if body, err = decompressBytes(body); err != nil {
			return nil, fmt.Errorf("scrdump: decompress: %w", err)
		}
	}
	return decodeBody(body)
}

// WriteFile stores s at path, replacing any previous file atomically.
func WriteFile(path string, s *Screen, opts Options) error {
	blob, err := Encode(s, opts)
	if err != nil {
		return err
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, blob, 0o644); err != nil {
		return err
	}
	return os.Rename(tmp, path)
}

func ReadFile(path, password string) (*Screen, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Decode(b, password)
}

func encodeBody(s *Screen) []byte {
	cells := make([]byte, 0, len(s.Cells)*cellSize)
	for _, c := range s.Cells {
		cells = appendU32(cells, uint32(c.R))
		cells = appendRGBA(cells, c.FG)
		cells = appendRGBA(cells, c.BG)
		cells = appendU16(cells, c.Attr)
		if c.Cont {
			cells = append(cells, 1)
		} else {
			cells = append(cells, 0)
		}
	}
	out := make([]byte, 0, bodyHeader+len(cells))
	for _, v := range []int{s.Window, s.Number, s.Cols, s.Rows, s.CurX, s.CurY} {
		out = appendU32(out, uint32(int32(v)))
	}
	out = appendU32(out, crc32.ChecksumIEEE(cells))
	return append(out, cells...)
}

func decodeBody(b []byte) (*Screen, error) {
	if len(b) < bodyHeader {
		return nil, ErrTruncated
	}
	var v [6]int
	for i := range v {
		v[i] = int(int32(binary.LittleEndian.Uint32(b[i*4:])))
	}
	sum := binary.LittleEndian.Uint32(b[24:])
	cells := b[bodyHeader:]
	s := &Screen{Window: v[0], Number: v[1], Cols: v[2], Rows: v[3], CurX: v[4], CurY: v[5]}
	if s.Cols < 0 || s.Rows < 0 || len(cells) != s.Cols*s.Rows*cellSize {
		return nil, ErrTruncated
	}
	if crc32.ChecksumIEEE(cells) != sum {
		return nil, ErrChecksum
	}
	s.Cells = make([]Cell, s.Cols*s.Rows)
	for i := range s.Cells {
		p := cells[i*cellSize:]
		s.Cells[i] = Cell{
			R:    rune(binary.LittleEndian.Uint32(p)),
			FG:   readRGBA(p[4:]),
			BG:   readRGBA(p[8:]),
			Attr: binary.LittleEndian.Uint16(p[12:]),
			Cont: p[14] != 0,
		}
	}
	return s, nil
}

func newGCM(password string, salt []byte) (cipher.AEAD, error) {
	key := pbkdf2.Key([]byte(password), salt, kdfIterations, 32, sha256.New)
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}
	return cipher.NewGCM(block)
}

func appendU16(dst []byte, v uint16) []byte {
	return binary.LittleEndian.AppendUint16(dst, v)
}

func appendU32(dst []byte, v uint32) []byte {
	return binary.LittleEndian.AppendUint32(dst, v)
}

func appendRGBA(dst []byte, c color.RGBA) []byte {
	return append(dst, c.R, c.G, c.B, c.A)
}

func readRGBA(p []byte) color.RGBA {
	return color.RGBA{R: p[0], G: p[1], B: p[2], A: p[3]}
}

func compressBytes(in []byte) ([]byte, error) {
	var buf bytes.Buffer
	w, err := zlib.NewWriterLevel(&buf, zlib.BestSpeed)
	if err != nil {
		return nil, err
	}
	if _, err := w.Write(in); err != nil {
		_ = w.Close()
		return nil, err
	}
	if err := w.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func decompressBytes(in []byte) ([]byte, error) {
	r, err := zlib.NewReader(bytes.NewReader(in))
	if err != nil {
		return nil, err
	}
	defer r.Close()
	return io.ReadAll(r)
}
