// Copyright 2026 Brett Vickers. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package video

import "errors"

// A Recorder is a Presenter that keeps the most recent frame in memory
// instead of displaying it.
type Recorder struct {
	Frame  []byte // RGBA pixels of the last presented frame
	Frames int    // number of frames presented
	open   bool
}

// Init implements Presenter.
func (r *Recorder) Init() error {
	r.Frame = make([]byte, Width*Height*4)
	r.open = true
	return nil
}

// Present implements Presenter.
func (r *Recorder) Present(vram []byte) error {
	if !r.open {
		return errors.New("video: presenter not initialized")
	}
	if err := Convert(r.Frame, vram); err != nil {
		return err
	}
	r.Frames++
	return nil
}

// Destroy implements Presenter.
func (r *Recorder) Destroy() error {
	r.open = false
	return nil
}
