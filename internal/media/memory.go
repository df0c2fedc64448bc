package media

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/google/uuid"

	"github.com/murkotick/catalog-service/internal/app/catalog/contracts"
)

// ErrInjected is returned by Memory when a failure was injected.
var ErrInjected = errors.New("injected media failure")

// Memory is an in-memory media store for tests and local runs. Failures can
// be injected to exercise compensation paths.
type Memory struct {
	mu             sync.Mutex
	assets         map[string][]byte
	stores         int
	failStoreAfter int
	releaseErr     error
	released       []string
}

func NewMemory() *Memory {
	return &Memory{
		assets:         make(map[string][]byte),
		failStoreAfter: -1,
	}
}

// FailStoreAfter lets n more Store calls succeed, then fails every call.
// A negative n disables the failure.
func (m *Memory) FailStoreAfter(n int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.stores = 0
	m.failStoreAfter = n
}

// FailRelease makes every Release call fail with err. nil clears it.
func (m *Memory) FailRelease(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.releaseErr = err
}

func (m *Memory) Store(ctx context.Context, a contracts.Asset, purpose contracts.Purpose) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.failStoreAfter >= 0 && m.stores >= m.failStoreAfter {
		return "", fmt.Errorf("store %s: %w", a.Filename, ErrInjected)
	}
	m.stores++

	locator := fmt.Sprintf("mem://%s/%s", purpose, uuid.New().String())
	m.assets[locator] = append([]byte(nil), a.Content...)
	return locator, nil
}

func (m *Memory) Release(ctx context.Context, locator string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.releaseErr != nil {
		return m.releaseErr
	}
	delete(m.assets, locator)
	m.released = append(m.released, locator)
	return nil
}

// Has reports whether locator is currently stored.
func (m *Memory) Has(locator string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.assets[locator]
	return ok
}

// Len is the number of stored assets.
func (m *Memory) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.assets)
}

// Released lists every locator passed to a successful Release, in order.
func (m *Memory) Released() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.released...)
}

// Put stores content under a caller-chosen locator.
func (m *Memory) Put(locator string, content []byte) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.assets[locator] = append([]byte(nil), content...)
}
