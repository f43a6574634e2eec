package cartridge_test

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/beevik/goz80/cartridge"
)

func headerImage(size, offset int, tail []byte) []byte {
	image := make([]byte, size)
	copy(image[offset:], cartridge.Magic)
	copy(image[offset+8:], tail)
	return image
}

func TestFindHeader(t *testing.T) {
	// Reserved, checksum $1234, product code 12345, version 6, GG Export, 32KB.
	image := headerImage(32*1024, 0x7ff0, []byte{0, 0, 0x34, 0x12, 0x45, 0x23, 0x16, 0x6c})

	c, err := cartridge.New("test.gg", image)
	if err != nil {
		t.Fatal(err)
	}
	h := c.Header
	if h == nil {
		t.Fatal("header not found")
	}
	if h.Offset != 0x7ff0 {
		t.Errorf("header offset incorrect. exp: $7FF0, got: $%04X", h.Offset)
	}
	if h.Checksum != 0x1234 {
		t.Errorf("checksum incorrect. exp: $1234, got: $%04X", h.Checksum)
	}
	if h.ProductCode != 12345 {
		t.Errorf("product code incorrect. exp: 12345, got: %d", h.ProductCode)
	}
	if h.Version != 6 {
		t.Errorf("version incorrect. exp: 6, got: %d", h.Version)
	}
	if h.Region() != "GG Export" {
		t.Errorf("region incorrect. exp: GG Export, got: %s", h.Region())
	}
	if h.SizeLabel() != "32KB" {
		t.Errorf("size label incorrect. exp: 32KB, got: %s", h.SizeLabel())
	}

	var b strings.Builder
	c.WriteInfo(&b)
	if !strings.Contains(b.String(), "Product code: 12345") {
		t.Errorf("info output incorrect:\n%s", b.String())
	}
}

func TestHeaderFallbackOffsets(t *testing.T) {
	image := headerImage(16*1024, 0x3ff0, []byte{0, 0, 0, 0, 0, 0, 0, 0x7b})
	h, err := cartridge.FindHeader(image)
	if err != nil {
		t.Fatal(err)
	}
	if h.Offset != 0x3ff0 || h.Region() != "GG International" || h.SizeLabel() != "16KB (unused)" {
		t.Errorf("header incorrect: %+v", h)
	}

	image = headerImage(8*1024, 0x1ff0, []byte{0, 0, 0, 0, 0, 0, 0, 0x9a})
	h, err = cartridge.FindHeader(image)
	if err != nil {
		t.Fatal(err)
	}
	if h.Region() != "Unknown" || h.SizeLabel() != "8KB (unused)" {
		t.Errorf("header incorrect: %+v", h)
	}

	if _, err := cartridge.FindHeader(make([]byte, 32*1024)); !errors.Is(err, cartridge.ErrNoHeader) {
		t.Errorf("expected ErrNoHeader, got: %v", err)
	}
}

func TestSizeLabels(t *testing.T) {
	exp := map[byte]string{
		0xa: "8KB (unused)",
		0xb: "16KB (unused)",
		0xc: "32KB",
		0xd: "48KB (unused, buggy)",
		0xe: "64KB (rarely used)",
		0xf: "128KB",
		0x0: "256KB",
		0x1: "512KB (rarely used)",
		0x2: "1MB (unused, buggy)",
		0x5: "Unknown",
	}
	for code, label := range exp {
		h := cartridge.Header{SizeCode: code}
		if h.SizeLabel() != label {
			t.Errorf("size code $%X label incorrect. exp: %q, got: %q", code, label, h.SizeLabel())
		}
	}
}

func TestLoadFailures(t *testing.T) {
	dir := t.TempDir()

	_, err := cartridge.Load(filepath.Join(dir, "missing.gg"))
	var le *cartridge.LoadError
	if !errors.As(err, &le) || !errors.Is(err, fs.ErrNotExist) {
		t.Errorf("expected a missing-file load error, got: %v", err)
	}

	tests := []struct {
		name  string
		image []byte
	}{
		{"small.gg", make([]byte, cartridge.MinSize-1)},
		{"large.gg", make([]byte, cartridge.MaxSize+1)},
		{"short.gg", headerImage(32*1024, 0x7ff0, []byte{0, 0, 0, 0, 0, 0, 0, 0x6f})},
	}
	for _, test := range tests {
		path := filepath.Join(dir, test.name)
		if err := os.WriteFile(path, test.image, 0o644); err != nil {
			t.Fatal(err)
		}
		if _, err := cartridge.Load(path); !errors.As(err, &le) {
			t.Errorf("%s: expected a load error, got: %v", test.name, err)
		}
	}
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "plain.gg")
	if err := os.WriteFile(path, make([]byte, cartridge.MinSize), 0o644); err != nil {
		t.Fatal(err)
	}
	c, err := cartridge.Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if c.Header != nil || len(c.Image) != cartridge.MinSize {
		t.Error("headerless image loaded incorrectly")
	}
}
