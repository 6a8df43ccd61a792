package tree

import (
	"errors"

	"github.com/mattsolo1/notesplusplus/pkg/models"
	"github.com/mattsolo1/notesplusplus/pkg/paths"
)

// SkipChildren can be returned from a WalkFunc on a folder to skip its contents.
var SkipChildren = errors.New("skip children")

// WalkFunc is called for every node visited by Walk.
type WalkFunc func(n *models.Node) error

// Walk visits n and its descendants depth first, in child order.
func Walk(n *models.Node, fn WalkFunc) error {
	if n == nil {
		return nil
	}
	if err := fn(n); err != nil {
		if errors.Is(err, SkipChildren) {
			return nil
		}
		return err
	}
	for _, child := range n.Children {
		if err := Walk(child, fn); err != nil {
			return err
		}
	}
	return nil
}

// FindNode returns the node at path p, or nil.
func FindNode(root *models.Node, p string) *models.Node {
	if root == nil {
		return nil
	}
	target := paths.Clean(p)
	var found *models.Node
	_ = Walk(root, func(n *models.Node) error {
		if found != nil {
			return SkipChildren
		}
		if n.Path == target {
			found = n
			return SkipChildren
		}
		if n.IsFolder() && !paths.IsSameOrDescendant(target, n.Path) {
			return SkipChildren
		}
		return nil
	})
	return found
}

// FirstNote returns the note a fresh selection should land on: a direct
// note child of the folder if there is one, otherwise the first note found
// in its subfolders, in order.
func FirstNote(folder *models.Node) *models.Node {
	if folder == nil {
		return nil
	}
	for _, child := range folder.Children {
		if child.IsNote() {
			return child
		}
	}
	for _, child := range folder.Children {
		if child.IsFolder() {
			if note := FirstNote(child); note != nil {
				return note
			}
		}
	}
	return nil
}

// Notes returns every note under n in walk order.
func Notes(n *models.Node) []*models.Node {
	var notes []*models.Node
	_ = Walk(n, func(node *models.Node) error {
		if node.IsNote() {
			notes = append(notes, node)
		}
		return nil
	})
	return notes
}

// FolderPaths returns the paths of n and every folder below it.
func FolderPaths(n *models.Node) []string {
	var out []string
	_ = Walk(n, func(node *models.Node) error {
		if node.IsFolder() {
			out = append(out, node.Path)
		}
		return nil
	})
	return out
}

// ChildNames returns the display names of a folder's direct children of the given type.
func ChildNames(folder *models.Node, typ models.NodeType) map[string]struct{} {
	names := map[string]struct{}{}
	if folder == nil {
		return names
	}
	for _, child := range folder.Children {
		if child.Type == typ {
			names[child.Name] = struct{}{}
		}
	}
	return names
}
