package treestore

import (
	"sync"

	"github.com/mattsolo1/notesplusplus/pkg/models"
	"github.com/mattsolo1/notesplusplus/pkg/paths"
	"github.com/mattsolo1/notesplusplus/pkg/tree"
)

// Store holds the last built tree, the selected note and a browser-like
// history of visited notes.
type Store struct {
	mu      sync.RWMutex
	root    *models.Node
	current string
	history []string
	index   int
}

// Snapshot is the persistable part of the store.
type Snapshot struct {
	Current string   `yaml:"current,omitempty"`
	History []string `yaml:"history,omitempty"`
	Index   int      `yaml:"index"`
}

// New returns an empty store.
func New() *Store {
	return &Store{index: -1}
}

// Tree returns the current snapshot. It is replaced wholesale and never
// mutated in place, so callers may read it without locking.
func (s *Store) Tree() *models.Node {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.root
}

// Replace swaps in a freshly built tree.
func (s *Store) Replace(root *models.Node) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.root = root
}

// FindNode looks up a node in the current snapshot.
func (s *Store) FindNode(p string) *models.Node {
	return tree.FindNode(s.Tree(), p)
}

// FirstNote returns the first note of the current snapshot.
func (s *Store) FirstNote() *models.Node {
	return tree.FirstNote(s.Tree())
}

// Current returns the selected note path, or "".
func (s *Store) Current() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current
}

// Select makes p the current note. Selecting while back in history drops
// the forward entries.
func (s *Store) Select(p string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if p == "" {
		s.current = ""
		return
	}
	if s.index >= 0 && s.index < len(s.history) && s.history[s.index] == p {
		s.current = p
		return
	}
	s.history = append(s.history[:s.index+1], p)
	s.index = len(s.history) - 1
	s.current = p
}

// Clear drops the selection without touching history.
func (s *Store) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.current = ""
}

func (s *Store) CanGoBack() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.index > 0
}

func (s *Store) CanGoForward() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.index >= 0 && s.index < len(s.history)-1
}

// Back moves one step back in history and returns the new selection.
func (s *Store) Back() (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.index <= 0 {
		return s.current, false
	}
	s.index--
	s.current = s.history[s.index]
	return s.current, true
}

// Forward moves one step forward in history and returns the new selection.
func (s *Store) Forward() (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.index < 0 || s.index >= len(s.history)-1 {
		return s.current, false
	}
	s.index++
	s.current = s.history[s.index]
	return s.current, true
}

// History returns a copy of the visited paths and the current position.
func (s *Store) History() ([]string, int) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]string(nil), s.history...), s.index
}

// RewritePrefix follows a move: the selection and every history entry at
// or below oldPrefix are rewritten to live under newPrefix.
func (s *Store) RewritePrefix(oldPrefix, newPrefix string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if p, ok := paths.ReplacePrefix(s.current, oldPrefix, newPrefix); ok && s.current != "" {
		s.current = p
	}
	for i, h := range s.history {
		if p, ok := paths.ReplacePrefix(h, oldPrefix, newPrefix); ok {
			s.history[i] = p
		}
	}
}

// Prune removes every history entry at or below prefix and clears the
// selection if it was inside. It reports whether the selection was cleared.
func (s *Store) Prune(prefix string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	cleared := false
	if s.current != "" && paths.IsSameOrDescendant(s.current, prefix) {
		s.current = ""
		cleared = true
	}

	kept := s.history[:0]
	newIndex := -1
	for i, h := range s.history {
		if paths.IsSameOrDescendant(h, prefix) {
			continue
		}
		// Drop consecutive duplicates left behind by the removal.
		if len(kept) > 0 && kept[len(kept)-1] == h {
			if i <= s.index {
				newIndex = len(kept) - 1
			}
			continue
		}
		kept = append(kept, h)
		if i <= s.index {
			newIndex = len(kept) - 1
		}
	}
	s.history = kept
	s.index = newIndex
	return cleared
}

// Reset forgets the tree, selection and history.
func (s *Store) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.root = nil
	s.current = ""
	s.history = nil
	s.index = -1
}

// Snapshot returns the persistable state.
func (s *Store) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return Snapshot{
		Current: s.current,
		History: append([]string(nil), s.history...),
		Index:   s.index,
	}
}

// Restore loads persisted state, clamping an out of range index.
func (s *Store) Restore(snap Snapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.current = snap.Current
	s.history = append([]string(nil), snap.History...)
	s.index = snap.Index
	if s.index >= len(s.history) {
		s.index = len(s.history) - 1
	}
	if s.index < -1 || (s.index == -1 && len(s.history) > 0) {
		s.index = len(s.history) - 1
	}
}
