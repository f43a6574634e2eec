package video_test

import (
	"testing"

	"github.com/beevik/goz80/video"
)

func TestConvert(t *testing.T) {
	vram := make([]byte, video.FrameBytes)
	vram[0] = 0xf0
	vram[video.FrameBytes-1] = 0x08

	dst := make([]byte, video.Width*video.Height*4)
	if err := video.Convert(dst, vram); err != nil {
		t.Fatal(err)
	}

	exp := []byte{0xff, 0xff, 0xff, 0xff, 0x00, 0x00, 0x00, 0xff}
	for i, v := range exp {
		if dst[i] != v {
			t.Errorf("first pixels incorrect. exp: % X, got: % X", exp, dst[:8])
			break
		}
	}

	last := dst[len(dst)-4:]
	if last[0] != 0x88 || last[3] != 0xff {
		t.Errorf("last pixel incorrect: % X", last)
	}
}

func TestConvertShortBuffers(t *testing.T) {
	if err := video.Convert(make([]byte, video.Width*video.Height*4), make([]byte, 10)); err == nil {
		t.Error("short VRAM should be rejected")
	}
	if err := video.Convert(make([]byte, 10), make([]byte, video.FrameBytes)); err == nil {
		t.Error("short destination should be rejected")
	}
}

func TestRecorder(t *testing.T) {
	var r video.Recorder
	if err := r.Present(make([]byte, video.FrameBytes)); err == nil {
		t.Error("present before init should fail")
	}

	var p video.Presenter = &r
	if err := p.Init(); err != nil {
		t.Fatal(err)
	}
	vram := make([]byte, 16*1024)
	vram[1] = 0x1f
	if err := p.Present(vram); err != nil {
		t.Fatal(err)
	}
	if r.Frames != 1 || r.Frame[8] != 0x11 || r.Frame[12] != 0xff {
		t.Errorf("recorded frame incorrect: % X", r.Frame[8:16])
	}
	p.Destroy()
}
