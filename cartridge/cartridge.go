// Copyright 2026 Brett Vickers. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package cartridge loads Game Gear and Master System cartridge images and
// inspects their "TMR SEGA" headers.
package cartridge

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"

	"github.com/beevik/goz80/cpu"
)

// Image size limits.
const (
	MinSize = 8 * 1024
	MaxSize = cpu.MaxProgramSize
)

// Magic is the signature that starts a cartridge header.
const Magic = "TMR SEGA"

// Image offsets searched for the header, in order.
var headerOffsets = []int{0x7ff0, 0x3ff0, 0x1ff0}

const headerSize = 16

// A LoadError describes why a cartridge image could not be loaded.
type LoadError struct {
	Path   string
	Reason string
	Err    error
}

func (e *LoadError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("loading %s: %s: %v", e.Path, e.Reason, e.Err)
	}
	return fmt.Sprintf("loading %s: %s", e.Path, e.Reason)
}

func (e *LoadError) Unwrap() error {
	return e.Err
}

// ErrNoHeader is returned by FindHeader when no signature is present.
var ErrNoHeader = errors.New("no TMR SEGA header")

// A Header holds the fields of a cartridge header.
type Header struct {
	Offset      int    // image offset of the signature
	Checksum    uint16 // little-endian checksum
	ProductCode uint32 // decimal product code
	Version     byte   // low nibble of byte +0x0E
	RegionCode  byte   // high nibble of byte +0x0F
	SizeCode    byte   // low nibble of byte +0x0F
}

type romSize struct {
	label string
	bytes int
}

var romSizes = map[byte]romSize{
	0xa: {"8KB (unused)", 8 * 1024},
	0xb: {"16KB (unused)", 16 * 1024},
	0xc: {"32KB", 32 * 1024},
	0xd: {"48KB (unused, buggy)", 48 * 1024},
	0xe: {"64KB (rarely used)", 64 * 1024},
	0xf: {"128KB", 128 * 1024},
	0x0: {"256KB", 256 * 1024},
	0x1: {"512KB (rarely used)", 512 * 1024},
	0x2: {"1MB (unused, buggy)", 1024 * 1024},
}

var regionNames = map[byte]string{
	3: "SMS Japan",
	4: "SMS Export",
	5: "GG Japan",
	6: "GG Export",
	7: "GG International",
}

// SizeLabel returns the description of the header's ROM-size code.
func (h *Header) SizeLabel() string {
	if s, ok := romSizes[h.SizeCode]; ok {
		return s.label
	}
	return "Unknown"
}

// DeclaredSize returns the image size in bytes declared by the header, or
// 0 if the size code is unknown.
func (h *Header) DeclaredSize() int {
	return romSizes[h.SizeCode].bytes
}

// Region returns the name of the header's region code.
func (h *Header) Region() string {
	if name, ok := regionNames[h.RegionCode]; ok {
		return name
	}
	return "Unknown"
}

func bcd(b byte) uint32 {
	return uint32(b>>4)*10 + uint32(b&0xf)
}

// FindHeader searches the image for a cartridge header.
func FindHeader(image []byte) (*Header, error) {
	for _, off := range headerOffsets {
		if off+headerSize > len(image) || string(image[off:off+len(Magic)]) != Magic {
			continue
		}
		h := image[off : off+headerSize]
		return &Header{
			Offset:      off,
			Checksum:    uint16(h[0x0b])<<8 | uint16(h[0x0a]),
			ProductCode: uint32(h[0x0e]>>4)*10000 + bcd(h[0x0d])*100 + bcd(h[0x0c]),
			Version:     h[0x0e] & 0xf,
			RegionCode:  h[0x0f] >> 4,
			SizeCode:    h[0x0f] & 0xf,
		}, nil
	}
	return nil, ErrNoHeader
}

// A Cartridge is a loaded program image.
type Cartridge struct {
	Path   string
	Image  []byte
	Header *Header // nil if the image has no header
}

// Load reads a cartridge image from a file.
func Load(path string) (*Cartridge, error) {
	image, err := os.ReadFile(path)
	if err != nil {
		reason := "cannot read file"
		if errors.Is(err, fs.ErrNotExist) {
			reason = "file not found"
		}
		return nil, &LoadError{Path: path, Reason: reason, Err: err}
	}
	return New(path, image)
}

// New validates an in-memory cartridge image.
func New(path string, image []byte) (*Cartridge, error) {
	switch {
	case len(image) < MinSize:
		return nil, &LoadError{Path: path, Reason: fmt.Sprintf("image of %d bytes is smaller than %d bytes", len(image), MinSize)}
	case len(image) > MaxSize:
		return nil, &LoadError{Path: path, Reason: fmt.Sprintf("image of %d bytes is larger than %d bytes", len(image), MaxSize)}
	}

	c := &Cartridge{Path: path, Image: image}
	if h, err := FindHeader(image); err == nil {
		if n := h.DeclaredSize(); n > len(image) {
			return nil, &LoadError{Path: path, Reason: fmt.Sprintf("image of %d bytes is shorter than the declared %s", len(image), h.SizeLabel())}
		}
		c.Header = h
	}
	return c, nil
}

// WriteInfo writes a human-readable description of the cartridge to w.
func (c *Cartridge) WriteInfo(w io.Writer) {
	fmt.Fprintf(w, "Image:        %s (%d bytes)\n", c.Path, len(c.Image))
	if c.Header == nil {
		fmt.Fprintf(w, "Header:       none\n")
		return
	}
	h := c.Header
	fmt.Fprintf(w, "Header:       $%04X\n", h.Offset)
	fmt.Fprintf(w, "Checksum:     $%04X\n", h.Checksum)
	fmt.Fprintf(w, "Product code: %d\n", h.ProductCode)
	fmt.Fprintf(w, "Version:      %d\n", h.Version)
	fmt.Fprintf(w, "Region:       %s\n", h.Region())
	fmt.Fprintf(w, "ROM size:     %s\n", h.SizeLabel())
}
