// Copyright 2026 Brett Vickers. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package video presents the contents of video RAM. The CPU never calls
// into this package; the host passes VRAM to a Presenter once per frame.
package video

import (
	"fmt"
	"image/color"
)

// Screen geometry of the Game Gear LCD.
const (
	Width  = 160
	Height = 144

	// FrameBytes is the number of VRAM bytes shown on screen at 4 bits per
	// pixel.
	FrameBytes = Width * Height / 2
)

// A Presenter displays frames built from video RAM.
type Presenter interface {
	// Init opens the display.
	Init() error

	// Present displays the frame held in vram.
	Present(vram []byte) error

	// Destroy closes the display.
	Destroy() error
}

// Palette maps each 4-bit pixel value to a grey level, 0 being black.
var Palette = func() (p [16]color.RGBA) {
	for i := range p {
		v := byte(i * 0x11)
		p[i] = color.RGBA{v, v, v, 0xff}
	}
	return
}()

// Convert expands the 4-bit-per-pixel frame in vram into RGBA pixels in
// dst, which must hold Width*Height*4 bytes. The high nibble of each VRAM
// byte is the left pixel.
func Convert(dst, vram []byte) error {
	if len(vram) < FrameBytes {
		return fmt.Errorf("video: frame needs %d bytes of VRAM, got %d", FrameBytes, len(vram))
	}
	if len(dst) < Width*Height*4 {
		return fmt.Errorf("video: destination needs %d bytes, got %d", Width*Height*4, len(dst))
	}

	for i, b := range vram[:FrameBytes] {
		hi, lo := Palette[b>>4], Palette[b&0xf]
		o := i * 8
		dst[o], dst[o+1], dst[o+2], dst[o+3] = hi.R, hi.G, hi.B, hi.A
		dst[o+4], dst[o+5], dst[o+6], dst[o+7] = lo.R, lo.G, lo.B, lo.A
	}
	return nil
}
