package id

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewULID_Unique(t *testing.T) {
	const n = 1000
	var (
		mu   sync.Mutex
		seen = make(map[string]struct{}, n)
		wg   sync.WaitGroup
	)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			v := NewULID()
			mu.Lock()
			seen[v] = struct{}{}
			mu.Unlock()
		}()
	}
	wg.Wait()
	assert.Len(t, seen, n)
}

func TestValidators(t *testing.T) {
	assert.True(t, IsULID(NewULID()))
	assert.True(t, IsUUID(NewUUID()))
	assert.False(t, IsULID("nope"))
	assert.False(t, IsUUID("nope"))
}
