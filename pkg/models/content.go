package models

import (
	"encoding/json"
	"fmt"
	"strings"
)

// ItemKind is the type tag of a ContentItem.
type ItemKind string

const (
	KindDoc            ItemKind = "doc"
	KindParagraph      ItemKind = "paragraph"
	KindHeading        ItemKind = "heading"
	KindCodeBlock      ItemKind = "codeBlock"
	KindBulletList     ItemKind = "bulletList"
	KindOrderedList    ItemKind = "orderedList"
	KindListItem       ItemKind = "listItem"
	KindTaskList       ItemKind = "taskList"
	KindTaskItem       ItemKind = "taskItem"
	KindBlockquote     ItemKind = "blockquote"
	KindHorizontalRule ItemKind = "horizontalRule"
	KindHardBreak      ItemKind = "hardBreak"
	KindImage          ItemKind = "image"
	KindTable          ItemKind = "table"
	KindTableRow       ItemKind = "tableRow"
	KindTableCell      ItemKind = "tableCell"
	KindTableHeader    ItemKind = "tableHeader"
	KindText           ItemKind = "text"
	KindMention        ItemKind = "mention"
	KindFileMention    ItemKind = "fileMention"
)

var knownKinds = map[ItemKind]struct{}{
	KindDoc: {}, KindParagraph: {}, KindHeading: {}, KindCodeBlock: {},
	KindBulletList: {}, KindOrderedList: {}, KindListItem: {}, KindTaskList: {},
	KindTaskItem: {}, KindBlockquote: {}, KindHorizontalRule: {}, KindHardBreak: {},
	KindImage: {}, KindTable: {}, KindTableRow: {}, KindTableCell: {},
	KindTableHeader: {}, KindText: {}, KindMention: {}, KindFileMention: {},
}

// Known reports whether k belongs to the set of item kinds the editor produces.
// Unknown kinds are still stored and read back unchanged.
func (k ItemKind) Known() bool {
	_, ok := knownKinds[k]
	return ok
}

// Mark kinds applied to text items.
const (
	MarkBold      = "bold"
	MarkItalic    = "italic"
	MarkCode      = "code"
	MarkStrike    = "strike"
	MarkUnderline = "underline"
	MarkLink      = "link"
)

// Mark is an inline formatting annotation on a text item.
type Mark struct {
	Type  string         `json:"type"`
	Attrs map[string]any `json:"attrs,omitzero"`
}

// ContentItem is one node of the rich-text document tree. Empty attrs,
// content and marks survive a round trip; only absent ones are omitted.
type ContentItem struct {
	Type    ItemKind       `json:"type"`
	Attrs   map[string]any `json:"attrs,omitzero"`
	Content []ContentItem  `json:"content,omitzero"`
	Text    string         `json:"text,omitempty"`
	Marks   []Mark         `json:"marks,omitzero"`
}

// Attr returns the attribute value for key, or nil.
func (c ContentItem) Attr(key string) any {
	if c.Attrs == nil {
		return nil
	}
	return c.Attrs[key]
}

// AttrString returns the attribute as a string when it is one.
func (c ContentItem) AttrString(key string) string {
	if s, ok := c.Attr(key).(string); ok {
		return s
	}
	return ""
}

// HasMark reports whether the item carries a mark of the given type.
func (c ContentItem) HasMark(markType string) bool {
	for _, m := range c.Marks {
		if m.Type == markType {
			return true
		}
	}
	return false
}

// NoteContent is the persisted body of a note: a document root.
type NoteContent struct {
	Type    ItemKind      `json:"type"`
	Content []ContentItem `json:"content"`
}

// EmptyDoc returns a fresh empty document.
func EmptyDoc() *NoteContent {
	return &NoteContent{Type: KindDoc, Content: []ContentItem{}}
}

// Validate checks the structural rules every stored document must satisfy.
func (d *NoteContent) Validate() error {
	if d == nil {
		return InvalidInputf("note content is required")
	}
	if d.Type != KindDoc {
		return InvalidInputf("note content must be a %q document, got %q", KindDoc, d.Type)
	}
	for i := range d.Content {
		if err := validateItem(&d.Content[i], fmt.Sprintf("content[%d]", i)); err != nil {
			return err
		}
	}
	return nil
}

func validateItem(item *ContentItem, at string) error {
	if item.Type == "" {
		return InvalidInputf("%s: item type is required", at)
	}
	if item.Type == KindText && len(item.Content) > 0 {
		return InvalidInputf("%s: text items cannot have children", at)
	}
	for i := range item.Content {
		if err := validateItem(&item.Content[i], fmt.Sprintf("%s.content[%d]", at, i)); err != nil {
			return err
		}
	}
	return nil
}

// ParseContent decodes a stored document. Any decode failure or a root that
// is not a document is reported as an error; callers decide on the fallback.
func ParseContent(data []byte) (*NoteContent, error) {
	var doc NoteContent
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("decode note content: %w", err)
	}
	if doc.Type != KindDoc {
		return nil, fmt.Errorf("decode note content: unexpected root type %q", doc.Type)
	}
	if doc.Content == nil {
		doc.Content = []ContentItem{}
	}
	return &doc, nil
}

// Encode renders a document the way it is written to disk.
func (d *NoteContent) Encode() ([]byte, error) {
	out := d
	if out.Content == nil {
		out = &NoteContent{Type: d.Type, Content: []ContentItem{}}
	}
	return json.MarshalIndent(out, "", "  ")
}

// Clone returns a deep copy of the document.
func (d *NoteContent) Clone() *NoteContent {
	if d == nil {
		return nil
	}
	data, err := json.Marshal(d)
	if err != nil {
		return EmptyDoc()
	}
	clone, err := ParseContent(data)
	if err != nil {
		return EmptyDoc()
	}
	return clone
}

// PlainText flattens the document into text, one line per block.
func (d *NoteContent) PlainText() string {
	if d == nil {
		return ""
	}
	var b strings.Builder
	for _, item := range d.Content {
		writePlain(&b, item)
	}
	return strings.TrimSpace(b.String())
}

func writePlain(b *strings.Builder, item ContentItem) {
	switch item.Type {
	case KindText:
		b.WriteString(item.Text)
		return
	case KindHardBreak:
		b.WriteString("\n")
		return
	case KindMention, KindFileMention:
		if label := item.AttrString("label"); label != "" {
			b.WriteString(label)
		} else {
			b.WriteString(item.AttrString("id"))
		}
		return
	}
	for _, child := range item.Content {
		writePlain(b, child)
	}
	switch item.Type {
	case KindParagraph, KindHeading, KindCodeBlock, KindListItem, KindTaskItem, KindTableRow:
		b.WriteString("\n")
	case KindTableCell, KindTableHeader:
		b.WriteString(" ")
	}
}

// Excerpt returns at most n runes of the document's plain text.
func (d *NoteContent) Excerpt(n int) string {
	text := strings.Join(strings.Fields(d.PlainText()), " ")
	runes := []rune(text)
	if len(runes) <= n {
		return text
	}
	return string(runes[:n])
}
