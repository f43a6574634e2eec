// Copyright 2026 Brett Vickers. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

//go:build headless

package window

import "github.com/beevik/goz80/video"

// New returns a Presenter that converts frames without displaying them.
// It is selected by the headless build tag.
func New(title string, scale int) video.Presenter {
	return &video.Recorder{}
}
