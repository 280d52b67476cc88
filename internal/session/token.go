package session

import (
	"crypto/rand"
	"fmt"
	"math/big"
)

// Session keys are 16 characters drawn uniformly from this fixed alphabet.
const (
	sessionKeyAlphabet = "abcdefghijklmnopqrstuvwxyz" +
		"ABCDEFGHIJKLMNOPQRSTUVWXYZ" +
		"0123456789" + "-_'()!?,.:/"
	sessionKeyLength = 16
)

// newSessionKey generates a session key. Collisions are not checked; the
// keyspace is 73^16 and the live set is keyed by (username, key), so a
// cross-user collision cannot shadow another session.
func newSessionKey() (string, error) {
	alphabetLen := big.NewInt(int64(len(sessionKeyAlphabet)))
	key := make([]byte, sessionKeyLength)
	for i := range key {
		n, err := rand.Int(rand.Reader, alphabetLen)
		if err != nil {
			return "", fmt.Errorf("generate session key: %w", err)
		}
		key[i] = sessionKeyAlphabet[n.Int64()]
	}
	return string(key), nil
}
