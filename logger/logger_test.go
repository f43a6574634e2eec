package logger_test

import (
	"strings"
	"testing"

	"github.com/beevik/goz80/logger"
)

func TestRepeatFolding(t *testing.T) {
	l := logger.New(8)
	l.Log("memory", "out of range")
	l.Log("memory", "out of range")
	l.Log("memory", "out of range")
	l.Log("cpu", "halted")

	if l.Len() != 2 {
		t.Fatalf("entry count incorrect. exp: 2, got: %d", l.Len())
	}

	var b strings.Builder
	l.Write(&b)
	exp := "memory: out of range (repeat x3)\ncpu: halted\n"
	if b.String() != exp {
		t.Errorf("log output incorrect.\nexp: %q\ngot: %q", exp, b.String())
	}
}

func TestMaxEntries(t *testing.T) {
	l := logger.New(3)
	for i := 0; i < 10; i++ {
		l.Logf("test", "entry %d", i)
	}

	entries := l.Entries()
	if len(entries) != 3 {
		t.Fatalf("entry count incorrect. exp: 3, got: %d", len(entries))
	}
	if entries[0].Detail != "entry 7" || entries[2].Detail != "entry 9" {
		t.Errorf("wrong entries retained: %q .. %q", entries[0].Detail, entries[2].Detail)
	}
}

func TestTail(t *testing.T) {
	l := logger.New(0)
	l.Log("a", "1")
	l.Log("b", "2")
	l.Log("c", "3")

	var b strings.Builder
	l.Tail(&b, 2)
	if b.String() != "b: 2\nc: 3\n" {
		t.Errorf("tail output incorrect: %q", b.String())
	}

	b.Reset()
	l.Tail(&b, 100)
	if strings.Count(b.String(), "\n") != 3 {
		t.Errorf("oversized tail should print every entry: %q", b.String())
	}
}

func TestEchoAndClear(t *testing.T) {
	var echo strings.Builder
	l := logger.New(4)
	l.SetEcho(&echo)
	l.Log("x", "y\nz")
	if echo.String() != "x: yz\n" {
		t.Errorf("echo output incorrect: %q", echo.String())
	}

	l.Clear()
	var b strings.Builder
	if l.Write(&b) {
		t.Error("Write on an empty log should return false")
	}
}
