// Package rand generates cheap random identifiers for tests and scratch
// resources. It trades exact uniformity for speed and is not suitable for
// anything security sensitive.
package rand

import (
	"bytes"
	"math/rand"
	"sync"
	"time"
)

var (
	onceSource sync.Once
	rgen       *rand.Rand
	randMutex  sync.Mutex

	onceLetters sync.Once
	letters     []byte
)

func seed() {
	rgen = rand.New(rand.NewSource(time.Now().UnixNano())) // #nosec
}

func makeLetters() {
	// pads [0-9]|[a-z] over the full uint8 range (36*7=252, then "a" again),
	// so "a" comes out marginally more often than the rest
	letters = bytes.Repeat([]byte("abcdefghijklmnopqrstuvwxyz0123456789a"), 7)
}

// Bytes returns a random slice of bytes
func Bytes(n int) []byte {
	onceSource.Do(seed)
	buf := make([]byte, n)
	randMutex.Lock()
	_, _ = rgen.Read(buf)
	randMutex.Unlock()
	return buf
}

// LetterBytes returns a random slice of bytes picked in the [0-9]|[a-z] range
func LetterBytes(n int) []byte {
	onceLetters.Do(makeLetters)
	buf := Bytes(n)
	for i, b := range buf {
		buf[i] = letters[b]
	}
	return buf
}

// LetterString returns a random string picked in the [0-9]|[a-z] range
func LetterString(n int) string {
	return string(LetterBytes(n))
}
