package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/abrezinsky/liftmeet/internal/logger"
)

// keyActions binds single keystrokes to server controls
type keyActions struct {
	out       io.Writer
	log       logger.Logger
	openURL   func(string) error
	browseURL string
	quit      func()
}

// handle runs the action bound to key and reports whether the listener should stop
func (k *keyActions) handle(key byte) bool {
	switch strings.ToLower(string(key)) {
	case "a":
		fmt.Fprintf(k.out, "%sOpening %s in browser...%s\n", cyan, k.browseURL, reset)
		if err := k.openURL(k.browseURL); err != nil {
			fmt.Fprintf(k.out, "%sError opening browser: %v%s\n", red, err, reset)
		}
	case "h":
		if k.log.IsHTTPLoggingEnabled() {
			k.log.DisableHTTPLogging()
			fmt.Fprintf(k.out, "%sHTTP logging disabled%s\n", yellow, reset)
		} else {
			k.log.EnableHTTPLogging()
			fmt.Fprintf(k.out, "%sHTTP logging enabled%s\n", green, reset)
		}
	case "l":
		next := cycleLogLevel(k.log)
		fmt.Fprintf(k.out, "%sLog level: %s%s%s\n", green, yellow, next, reset)
	case "q", "\x03": // Ctrl+C arrives as a byte in raw mode
		fmt.Fprintf(k.out, "%sShutting down server...%s\n", yellow, reset)
		k.quit()
		return true
	case "?":
		printKeyboardHelp(k.out)
	}
	return false
}

// readKeys feeds bytes from r to k until a quit key or a read error
func readKeys(r io.Reader, k *keyActions) {
	buf := make([]byte, 1)
	for {
		n, err := r.Read(buf)
		if err != nil {
			return
		}
		if n == 0 {
			continue
		}
		if k.handle(buf[0]) {
			return
		}
	}
}
