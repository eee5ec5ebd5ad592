package input

import (
	"sync"

	"github.com/temoto/kiosk/internal/types"
)

// MockSource is controlled by tests and the headless mode.
type MockSource struct {
	mu     sync.Mutex
	levels Levels
	Err    error
}

var _ Source = new(MockSource)

func NewMockSource() *MockSource { return &MockSource{} }

func (self *MockSource) String() string { return "mock" }
func (self *MockSource) Close() error   { return nil }

func (self *MockSource) Set(b types.ButtonId, low bool) {
	self.mu.Lock()
	self.levels[b] = low
	self.mu.Unlock()
}

func (self *MockSource) ReadLevels(levels *Levels) error {
	self.mu.Lock()
	defer self.mu.Unlock()
	if self.Err != nil {
		return self.Err
	}
	*levels = self.levels
	return nil
}
