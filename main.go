// Copyright 2026 Brett Vickers. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"flag"
	"fmt"
	"os"
	"os/signal"

	"github.com/beevik/goz80/cartridge"
	"github.com/beevik/goz80/host"
	"github.com/beevik/goz80/video/window"
	"github.com/beevik/term"
)

var (
	romPath string
	scale   int
)

func init() {
	flag.StringVar(&romPath, "rom", "rom/mega_man.gg", "cartridge image to load")
	flag.IntVar(&scale, "scale", 3, "video window scale")
	flag.CommandLine.Usage = func() {
		fmt.Println("Usage: goz80 [-rom <path>] [-scale <n>] [-h] [script ...]\nOptions:")
		flag.PrintDefaults()
	}
}

func main() {
	flag.Parse()

	cart, err := cartridge.Load(romPath)
	if err != nil {
		exitOnError(err)
	}

	presenter := window.New("goz80", scale)
	if err := presenter.Init(); err != nil {
		exitOnError(err)
	}
	defer presenter.Destroy()

	h := host.New(presenter)
	if err := h.LoadCartridge(cart); err != nil {
		exitOnError(err)
	}

	// Break on Ctrl-C.
	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt)
	go handleInterrupt(h, c)

	// Run commands contained in command-line files.
	for _, filename := range flag.Args() {
		file, err := os.Open(filename)
		if err != nil {
			exitOnError(err)
		}
		h.RunCommands(file, os.Stdout, false)
		file.Close()
	}

	// Run commands from stdin, interactively when it is a terminal.
	h.RunCommands(os.Stdin, os.Stdout, term.IsTerminal(int(os.Stdin.Fd())))
}

func handleInterrupt(h *host.Host, c chan os.Signal) {
	for {
		<-c
		h.Break()
	}
}

func exitOnError(err error) {
	fmt.Fprintf(os.Stderr, "ERROR: %v\n", err)
	os.Exit(1)
}
