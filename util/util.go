package util

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"math/big"
	"sync"
)

// RandomToken returns n random bytes hex-encoded, from crypto/rand only.
func RandomToken(n int) (string, error) {
	bz := make([]byte, n)
	if _, err := rand.Read(bz); err != nil {
		return "", err
	}
	return hex.EncodeToString(bz), nil
}

// RandomNumericCode returns a fixed-length numeric code from crypto/rand.
func RandomNumericCode(length int) (string, error) {
	max := new(big.Int).Exp(big.NewInt(10), big.NewInt(int64(length)), nil)
	n, err := rand.Int(rand.Reader, max)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%0*d", length, n), nil
}

// RandomBytes returns n bytes from crypto/rand.
func RandomBytes(n int) ([]byte, error) {
	bz := make([]byte, n)
	if _, err := rand.Read(bz); err != nil {
		return nil, err
	}
	return bz, nil
}

// IsNumeric reports whether s is non-empty and all ASCII digits.
func IsNumeric(s string) bool {
	if len(s) == 0 {
		return false
	}
	for _, c := range s {
		if c < '0' || c > '9' {
			return false
		}
	}
	return true
}

// KeyedMutex serializes operations per key. Vote casting locks the voter id,
// OTP operations lock the phone number; unrelated keys proceed in parallel.
type KeyedMutex struct {
	mu    sync.Mutex
	locks map[string]*keyedLock
}

type keyedLock struct {
	mu   sync.Mutex
	refs int
}

func NewKeyedMutex() *KeyedMutex {
	return &KeyedMutex{
		locks: make(map[string]*keyedLock),
	}
}

// Lock acquires the lock for key and returns the matching unlock func.
func (k *KeyedMutex) Lock(key string) func() {
	k.mu.Lock()
	l, ok := k.locks[key]
	if !ok {
		l = &keyedLock{}
		k.locks[key] = l
	}
	l.refs++
	k.mu.Unlock()

	l.mu.Lock()

	return func() {
		l.mu.Unlock()
		k.mu.Lock()
		l.refs--
		if l.refs == 0 {
			delete(k.locks, key)
		}
		k.mu.Unlock()
	}
}
