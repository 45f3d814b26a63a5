//go:build !linux && !darwin && !windows

package main

import "os"

func listenForKeyboard(k *keyActions) {
	readKeys(os.Stdin, k)
}
