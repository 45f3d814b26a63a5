//go:build windows

package main

import "os"

// listenForKeyboard reads keystrokes line-buffered; the console stays in cooked mode
func listenForKeyboard(k *keyActions) {
	readKeys(os.Stdin, k)
}
