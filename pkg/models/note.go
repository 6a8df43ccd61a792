package models

import "time"

// NodeType tags a tree node as a note or a folder
type NodeType string

const (
	NodeTypeNote   NodeType = "note"
	NodeTypeFolder NodeType = "folder"
)

// Metadata holds the timestamps reported by the storage backend
type Metadata struct {
	CreatedAt  time.Time `json:"createdAt" yaml:"createdAt"`
	ModifiedAt time.Time `json:"modifiedAt" yaml:"modifiedAt"`
}

// Node is a single entry of a project's note tree. Notes carry Content,
// folders carry Children in the order the backend listed them.
type Node struct {
	Path     string       `json:"path"`
	Name     string       `json:"name"`
	Type     NodeType     `json:"type"`
	Metadata Metadata     `json:"metadata"`
	Content  *NoteContent `json:"content,omitempty"`
	IsLegacy bool         `json:"isLegacy,omitempty"`
	Children []*Node      `json:"children,omitempty"`
}

// IsFolder reports whether the node is a folder.
func (n *Node) IsFolder() bool {
	return n != nil && n.Type == NodeTypeFolder
}

// IsNote reports whether the node is a note.
func (n *Node) IsNote() bool {
	return n != nil && n.Type == NodeTypeNote
}

// NewFolder returns an empty folder node.
func NewFolder(path, name string, meta Metadata) *Node {
	return &Node{
		Path:     path,
		Name:     name,
		Type:     NodeTypeFolder,
		Metadata: meta,
		Children: []*Node{},
	}
}

// NewNote returns a note node.
func NewNote(path, name string, content *NoteContent, meta Metadata) *Node {
	return &Node{
		Path:     path,
		Name:     name,
		Type:     NodeTypeNote,
		Metadata: meta,
		Content:  content,
	}
}

// LegacyNote is a pre-JSON note discovered under the legacy root.
type LegacyNote struct {
	// Path is relative to the legacy root, slash separated, without extension changes.
	Path    string `json:"path"`
	Content string `json:"content"`
}
