package treeview

import (
	"sort"
	"sync"

	"github.com/mattsolo1/notesplusplus/pkg/paths"
)

// State tracks which folders are expanded, keyed by folder path.
type State struct {
	mu   sync.RWMutex
	open map[string]bool
}

// New returns a state with every folder closed.
func New() *State {
	return &State{open: map[string]bool{}}
}

func (s *State) Open(p string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.open[paths.Clean(p)] = true
}

func (s *State) Close(p string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.open, paths.Clean(p))
}

// Toggle flips a folder and returns its new state.
func (s *State) Toggle(p string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	p = paths.Clean(p)
	if s.open[p] {
		delete(s.open, p)
		return false
	}
	s.open[p] = true
	return true
}

func (s *State) IsOpen(p string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.open[paths.Clean(p)]
}

// Capture returns the open flags of prefix and everything below it.
func (s *State) Capture(prefix string) map[string]bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := map[string]bool{}
	for p, open := range s.open {
		if paths.IsSameOrDescendant(p, prefix) {
			out[p] = open
		}
	}
	return out
}

// Restore re-applies captured flags after the folder moved from oldPrefix
// to newPrefix. Flags still recorded under oldPrefix are dropped.
func (s *State) Restore(captured map[string]bool, oldPrefix, newPrefix string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for p := range s.open {
		if paths.IsSameOrDescendant(p, oldPrefix) {
			delete(s.open, p)
		}
	}
	for p, open := range captured {
		moved, _ := paths.ReplacePrefix(p, oldPrefix, newPrefix)
		if open {
			s.open[moved] = true
		}
	}
}

// Forget drops flags of prefix and everything below it.
func (s *State) Forget(prefix string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for p := range s.open {
		if paths.IsSameOrDescendant(p, prefix) {
			delete(s.open, p)
		}
	}
}

// Reset closes every folder.
func (s *State) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.open = map[string]bool{}
}

// OpenPaths returns the open folders in sorted order.
func (s *State) OpenPaths() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]string, 0, len(s.open))
	for p := range s.open {
		out = append(out, p)
	}
	sort.Strings(out)
	return out
}

// Load replaces the state with the given open folders.
func (s *State) Load(open []string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.open = make(map[string]bool, len(open))
	for _, p := range open {
		s.open[paths.Clean(p)] = true
	}
}
