// Package memzero clears secrets from memory once they are no longer needed.
package memzero

import "crypto/subtle"

// Zero overwrites every given slice with zeros.
func Zero(bufs ...[]byte) {
	for _, b := range bufs {
		if len(b) == 0 {
			continue
		}
		subtle.ConstantTimeCopy(1, b, make([]byte, len(b)))
	}
}

