// Fixed size keys for dedup signatures
package hash

import (
	"fmt"

	"golang.org/x/crypto/blake2b"
)

const KeySize int = blake2b.Size256

// Digest used as cache key in place of the full signature text
type Key [KeySize]byte

// Creates key of a signature
func Signature(signature string) (key Key) {
	key = blake2b.Sum256([]byte(signature))
	return
}

func (key Key) String() (text string) {
	text = fmt.Sprintf("%x", key[:])
	return
}
