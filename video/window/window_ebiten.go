// Copyright 2026 Brett Vickers. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

//go:build !headless

// Package window opens a desktop window that displays video frames. Build
// with the headless tag to replace the window with a video.Recorder.
package window

import (
	"errors"
	"sync"

	"github.com/beevik/goz80/video"
	"github.com/hajimehoshi/ebiten/v2"
)

// Window presents frames in a desktop window.
type Window struct {
	title       string
	scale       int
	window      *ebiten.Image
	frameBuffer []byte
	bufferMutex sync.RWMutex
	started     bool
	closing     bool
	vsyncChan   chan struct{}
	done        chan struct{}
	err         error
}

// New returns a Presenter that opens a window of the given title, scaled
// by an integer factor.
func New(title string, scale int) video.Presenter {
	if scale < 1 {
		scale = 1
	}
	return &Window{
		title:       title,
		scale:       scale,
		frameBuffer: make([]byte, video.Width*video.Height*4),
		vsyncChan:   make(chan struct{}, 1),
		done:        make(chan struct{}),
	}
}

// Init opens the window and waits for the first frame to be drawn.
func (w *Window) Init() error {
	ebiten.SetWindowSize(video.Width*w.scale, video.Height*w.scale)
	ebiten.SetWindowTitle(w.title)
	ebiten.SetRunnableOnUnfocused(true)

	w.started = true
	go func() {
		defer close(w.done)
		if err := ebiten.RunGame(w); err != nil {
			w.bufferMutex.Lock()
			w.err = err
			w.bufferMutex.Unlock()
		}
	}()

	select {
	case <-w.vsyncChan:
		return nil
	case <-w.done:
		w.bufferMutex.RLock()
		defer w.bufferMutex.RUnlock()
		if w.err != nil {
			return w.err
		}
		return errors.New("window: window closed during startup")
	}
}

// Present converts vram and queues it for the next draw.
func (w *Window) Present(vram []byte) error {
	select {
	case <-w.done:
		return errors.New("window: window closed")
	default:
	}

	w.bufferMutex.Lock()
	defer w.bufferMutex.Unlock()
	return video.Convert(w.frameBuffer, vram)
}

// Destroy closes the window and waits for the game loop to exit.
func (w *Window) Destroy() error {
	if !w.started {
		return nil
	}
	w.bufferMutex.Lock()
	w.closing = true
	w.bufferMutex.Unlock()
	<-w.done
	return nil
}

// Update implements ebiten.Game.
func (w *Window) Update() error {
	w.bufferMutex.RLock()
	closing := w.closing
	w.bufferMutex.RUnlock()
	if closing || ebiten.IsWindowBeingClosed() {
		return ebiten.Termination
	}
	return nil
}

// Draw implements ebiten.Game.
func (w *Window) Draw(screen *ebiten.Image) {
	if w.window == nil {
		w.window = ebiten.NewImage(video.Width, video.Height)
	}

	w.bufferMutex.RLock()
	w.window.WritePixels(w.frameBuffer)
	w.bufferMutex.RUnlock()
	screen.DrawImage(w.window, nil)

	select {
	case w.vsyncChan <- struct{}{}:
	default:
	}
}

// Layout implements ebiten.Game.
func (w *Window) Layout(_, _ int) (int, int) {
	return video.Width, video.Height
}
