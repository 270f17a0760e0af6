//go:build !windows

// keyboard_host.go - Raw stdin reader that turns key presses into notes

/*
 ██▓ ███▄    █ ▄▄▄█████▓ █    ██  ██▓▄▄▄█████▓ ██▓ ▒█████   ███▄    █    ▓█████  ███▄    █   ▄████  ██▓ ███▄    █ ▓█████
▓██▒ ██ ▀█   █ ▓  ██▒ ▓▒ ██  ▓██▒▓██▒▓  ██▒ ▓▒▓██▒▒██▒  ██▒ ██ ▀█   █    ▓█   ▀  ██ ▀█   █  ██▒ ▀█▒▓██▒ ██ ▀█   █ ▓█   ▀
▒██▒▓██  ▀█ ██▒▒ ▓██░ ▒░▓██  ▒██░▒██▒▒ ▓██░ ▒░▒██▒▒██░  ██▒▓██  ▀█ ██▒   ▒███   ▓██  ▀█ ██▒▒██░▄▄▄░▒██▒▓██  ▀█ ██▒▒███
░██░▓██▒  ▐▌██▒░ ▓██▓ ░ ▓▓█  ░██░░██░░ ▓██▓ ░ ░██░▒██   ██░▓██▒  ▐▌██▒   ▒▓█  ▄ ▓██▒  ▐▌██▒░▓█  ██▓░██░▓██▒  ▐▌██▒▒▓█  ▄
░██░▒██░   ▓██░  ▒██▒ ░ ▒▒█████▓ ░██░  ▒██▒ ░ ░██░░ ████▓▒░▒██░   ▓██░   ░▒████▒▒██░   ▓██░░▒▓███▀▒░██░▒██░   ▓██░░▒████▒
░▓  ░ ▒░   ▒ ▒   ▒ ░░   ░▒▓▒ ▒ ▒ ░▓    ▒ ░░   ░▓  ░ ▒░▒░▒░ ░ ▒░   ▒ ▒    ░░ ▒░ ░░ ▒░   ▒ ▒  ░▒   ▒ ░▓  ░ ▒░   ▒ ▒ ░░ ▒░ ░
 ▒ ░░ ░░   ░ ▒░    ░    ░░▒░ ░ ░  ▒ ░    ░     ▒ ░  ░ ▒ ▒░ ░ ░░   ░ ▒░    ░ ░  ░░ ░░   ░ ▒░  ░   ░  ▒ ░░ ░░   ░ ▒░ ░ ░  ░
 ▒ ░   ░   ░ ░   ░       ░░░ ░ ░  ▒ ░  ░       ▒ ░░ ░ ░ ▒     ░   ░ ░       ░      ░   ░ ░ ░ ░   ░  ▒ ░   ░   ░ ░    ░
 ░           ░             ░      ░            ░      ░ ░           ░       ░  ░         ░       ░  ░           ░    ░  ░

(c) 2024 - 2026 Zayn Otley
https://github.com/IntuitionAmiga/beepsynth
License: GPLv3 or later
*/

package main

import (
	"fmt"
	"os"
	"sync"
	"syscall"
	"time"

	"go.uber.org/zap"
	"golang.org/x/term"
)

const (
	KEY_CTRL_C = 0x03
	KEY_CTRL_D = 0x04
	KEY_ESC    = 0x1b
)

// KeyboardHost reads raw stdin and hands every byte to onKey. Esc, Ctrl-C
// and Ctrl-D close the channel returned by Quit instead.
type KeyboardHost struct {
	onKey        func(byte)
	log          *zap.Logger
	stopCh       chan struct{}
	done         chan struct{}
	quit         chan struct{}
	stopped      sync.Once
	quitOnce     sync.Once
	fd           int
	nonblockSet  bool
	oldTermState *term.State
}

func NewKeyboardHost(log *zap.Logger, onKey func(byte)) *KeyboardHost {
	return &KeyboardHost{
		onKey:  onKey,
		log:    log.Named("keyboard"),
		stopCh: make(chan struct{}),
		done:   make(chan struct{}),
		quit:   make(chan struct{}),
	}
}

// Start puts stdin in raw non-blocking mode and begins reading in a goroutine.
// Call Stop to restore the terminal.
func (h *KeyboardHost) Start() error {
	h.fd = int(os.Stdin.Fd())

	oldState, err := term.MakeRaw(h.fd)
	if err != nil {
		close(h.done)
		return fmt.Errorf("keyboard: raw mode: %w", err)
	}
	h.oldTermState = oldState

	if err := syscall.SetNonblock(h.fd, true); err != nil {
		_ = term.Restore(h.fd, h.oldTermState)
		h.oldTermState = nil
		close(h.done)
		return fmt.Errorf("keyboard: nonblocking stdin: %w", err)
	}
	h.nonblockSet = true

	go func() {
		defer close(h.done)
		buf := make([]byte, 1)

		for {
			select {
			case <-h.stopCh:
				return
			default:
			}

			n, err := syscall.Read(h.fd, buf)
			if n > 0 && h.route(buf[0]) {
				return
			}
			if err == syscall.EAGAIN || err == syscall.EWOULDBLOCK {
				time.Sleep(5 * time.Millisecond)
				continue
			}
			if err != nil {
				h.log.Warn("stdin read failed", zap.Error(err))
				h.signalQuit()
				return
			}
			if n == 0 {
				// EOF
				h.signalQuit()
				return
			}
		}
	}()
	return nil
}

// route reports whether b was a quit key.
func (h *KeyboardHost) route(b byte) bool {
	switch b {
	case KEY_CTRL_C, KEY_CTRL_D, KEY_ESC:
		h.signalQuit()
		return true
	}
	h.onKey(b)
	return false
}

func (h *KeyboardHost) signalQuit() {
	h.quitOnce.Do(func() { close(h.quit) })
}

// Quit is closed when the user asks to leave.
func (h *KeyboardHost) Quit() <-chan struct{} {
	return h.quit
}

// Stop terminates the reading goroutine and restores stdin.
func (h *KeyboardHost) Stop() {
	h.stopped.Do(func() {
		close(h.stopCh)
	})
	<-h.done
	if h.nonblockSet {
		_ = syscall.SetNonblock(h.fd, false)
		h.nonblockSet = false
	}
	if h.oldTermState != nil {
		_ = term.Restore(h.fd, h.oldTermState)
		h.oldTermState = nil
	}
}
