package util

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRandomNumericCode(t *testing.T) {
	for i := 0; i < 50; i++ {
		code, err := RandomNumericCode(6)
		require.NoError(t, err)
		require.Len(t, code, 6)
		require.True(t, IsNumeric(code))
	}
}

func TestRandomToken(t *testing.T) {
	a, err := RandomToken(32)
	require.NoError(t, err)
	b, err := RandomToken(32)
	require.NoError(t, err)
	require.Len(t, a, 64)
	require.NotEqual(t, a, b)
}

func TestIsNumeric(t *testing.T) {
	require.True(t, IsNumeric("9876543210"))
	require.False(t, IsNumeric(""))
	require.False(t, IsNumeric("98a76"))
	require.False(t, IsNumeric("98 76"))
}

func TestKeyedMutexSerializesSameKey(t *testing.T) {
	km := NewKeyedMutex()
	counter := 0

	var wg sync.WaitGroup
	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			unlock := km.Lock("voter-1")
			counter++
			unlock()
		}()
	}
	wg.Wait()

	require.Equal(t, 100, counter)
}

func TestKeyedMutexIndependentKeys(t *testing.T) {
	km := NewKeyedMutex()

	unlockA := km.Lock("a")
	done := make(chan struct{})
	go func() {
		unlockB := km.Lock("b")
		unlockB()
		close(done)
	}()
	<-done
	unlockA()
}
