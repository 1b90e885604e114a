// Package clip gives access to the clipboard: text through the host's text
// clipboard and pictures as PNG.
package clip

import (
	"bytes"
	"fmt"
	"image"
	"image/png"
	"sync"

	"github.com/atotto/clipboard"
	xclip "golang.design/x/clipboard"
)

type Board interface {
	WriteText(s string) error
	ReadText() (string, error)
	WriteImage(img image.Image) error
}

// System is the host clipboard.
type System struct {
	once    sync.Once
	initErr error
}

func (s *System) WriteText(text string) error {
	return clipboard.WriteAll(text)
}

func (s *System) ReadText() (string, error) {
	return clipboard.ReadAll()
}

func (s *System) WriteImage(img image.Image) error {
	s.once.Do(func() { s.initErr = xclip.Init() })
	if s.initErr != nil {
		return fmt.Errorf("clip: picture clipboard unavailable: %w", s.initErr)
	}
	data, err := encodePNG(img)
	if err != nil {
		return err
	}
	xclip.Write(xclip.FmtImage, data)
	return nil
}

// Memory is a process local clipboard for headless runs.
type Memory struct {
	mu    sync.Mutex
	text  string
	image []byte
}

func (m *Memory) WriteText(text string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.text = text
	return nil
}

func (m *Memory) ReadText() (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.text, nil
}

func (m *Memory) WriteImage(img image.Image) error {
	data, err := encodePNG(img)
	if err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.image = data
	return nil
}

// Image returns the PNG encoding of the last picture written.
func (m *Memory) Image() []byte {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]byte(nil), m.image...)
}

func encodePNG(img image.Image) ([]byte, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("clip: encode picture: %w", err)
	}
	return buf.Bytes(), nil
}
