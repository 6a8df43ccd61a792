// Package markdown converts between markdown text and the structured
// document format notes are stored in.
package markdown

import (
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	east "github.com/yuin/goldmark/extension/ast"
	"github.com/yuin/goldmark/text"

	"github.com/mattsolo1/notesplusplus/pkg/models"
)

var md = goldmark.New(
	goldmark.WithExtensions(extension.Strikethrough, extension.Table, extension.TaskList),
)

// Converter turns legacy note text into a document.
type Converter func(source string) (*models.NoteContent, error)

// ToDoc parses markdown into a document.
func ToDoc(source string) (*models.NoteContent, error) {
	src := []byte(source)
	root := md.Parser().Parse(text.NewReader(src))
	c := &converter{src: src}
	doc := models.EmptyDoc()
	doc.Content = append(doc.Content, c.blocks(root)...)
	return doc, nil
}

type converter struct {
	src []byte
}

func (c *converter) blocks(parent ast.Node) []models.ContentItem {
	items := []models.ContentItem{}
	for n := parent.FirstChild(); n != nil; n = n.NextSibling() {
		if item, ok := c.block(n); ok {
			items = append(items, item)
		}
	}
	return items
}

func (c *converter) block(n ast.Node) (models.ContentItem, bool) {
	switch node := n.(type) {
	case *ast.Paragraph, *ast.TextBlock:
		return models.ContentItem{Type: models.KindParagraph, Content: c.inlines(node, nil)}, true
	case *ast.Heading:
		return models.ContentItem{
			Type:    models.KindHeading,
			Attrs:   map[string]any{"level": node.Level},
			Content: c.inlines(node, nil),
		}, true
	case *ast.FencedCodeBlock:
		item := models.ContentItem{Type: models.KindCodeBlock, Attrs: map[string]any{"language": string(node.Language(c.src))}}
		if code := c.lines(node); code != "" {
			item.Content = []models.ContentItem{{Type: models.KindText, Text: code}}
		}
		return item, true
	case *ast.CodeBlock:
		item := models.ContentItem{Type: models.KindCodeBlock, Attrs: map[string]any{"language": nil}}
		if code := c.lines(node); code != "" {
			item.Content = []models.ContentItem{{Type: models.KindText, Text: code}}
		}
		return item, true
	case *ast.HTMLBlock:
		raw := c.lines(node)
		if raw == "" {
			return models.ContentItem{}, false
		}
		return models.ContentItem{Type: models.KindParagraph, Content: []models.ContentItem{{Type: models.KindText, Text: raw}}}, true
	case *ast.List:
		return c.list(node), true
	case *ast.Blockquote:
		return models.ContentItem{Type: models.KindBlockquote, Content: c.blocks(node)}, true
	case *ast.ThematicBreak:
		return models.ContentItem{Type: models.KindHorizontalRule}, true
	case *east.Table:
		return c.table(node), true
	}
	if n.HasChildren() {
		return models.ContentItem{Type: models.KindParagraph, Content: c.inlines(n, nil)}, true
	}
	return models.ContentItem{}, false
}

func (c *converter) list(node *ast.List) models.ContentItem {
	isTask := false
	for li := node.FirstChild(); li != nil; li = li.NextSibling() {
		if taskBox(li) != nil {
			isTask = true
			break
		}
	}

	var item models.ContentItem
	switch {
	case isTask:
		item.Type = models.KindTaskList
	case node.IsOrdered():
		item.Type = models.KindOrderedList
		item.Attrs = map[string]any{"start": node.Start}
	default:
		item.Type = models.KindBulletList
	}

	for li := node.FirstChild(); li != nil; li = li.NextSibling() {
		child := models.ContentItem{Type: models.KindListItem, Content: c.blocks(li)}
		if isTask {
			child.Type = models.KindTaskItem
			checked := false
			if box := taskBox(li); box != nil {
				checked = box.IsChecked
			}
			child.Attrs = map[string]any{"checked": checked}
			trimLeadingSpace(child.Content)
		}
		item.Content = append(item.Content, child)
	}
	return item
}

func trimLeadingSpace(blocks []models.ContentItem) {
	if len(blocks) == 0 || len(blocks[0].Content) == 0 {
		return
	}
	first := &blocks[0].Content[0]
	if first.Type == models.KindText {
		first.Text = strings.TrimLeft(first.Text, " ")
	}
}

func taskBox(li ast.Node) *east.TaskCheckBox {
	first := li.FirstChild()
	if first == nil {
		return nil
	}
	if box, ok := first.FirstChild().(*east.TaskCheckBox); ok {
		return box
	}
	return nil
}

func (c *converter) table(node *east.Table) models.ContentItem {
	table := models.ContentItem{Type: models.KindTable}
	for r := node.FirstChild(); r != nil; r = r.NextSibling() {
		cellKind := models.KindTableCell
		if _, ok := r.(*east.TableHeader); ok {
			cellKind = models.KindTableHeader
		}
		row := models.ContentItem{Type: models.KindTableRow}
		for cell := r.FirstChild(); cell != nil; cell = cell.NextSibling() {
			row.Content = append(row.Content, models.ContentItem{
				Type: cellKind,
				Content: []models.ContentItem{
					{Type: models.KindParagraph, Content: c.inlines(cell, nil)},
				},
			})
		}
		table.Content = append(table.Content, row)
	}
	return table
}

func (c *converter) lines(n ast.Node) string {
	var b strings.Builder
	lines := n.Lines()
	for i := 0; i < lines.Len(); i++ {
		seg := lines.At(i)
		b.Write(seg.Value(c.src))
	}
	return strings.TrimRight(b.String(), "\n")
}

func (c *converter) inlines(parent ast.Node, marks []models.Mark) []models.ContentItem {
	var items []models.ContentItem
	for n := parent.FirstChild(); n != nil; n = n.NextSibling() {
		items = append(items, c.inline(n, marks)...)
	}
	return mergeText(items)
}

func withMark(marks []models.Mark, m models.Mark) []models.Mark {
	out := make([]models.Mark, 0, len(marks)+1)
	out = append(out, marks...)
	return append(out, m)
}

func textItem(s string, marks []models.Mark) models.ContentItem {
	item := models.ContentItem{Type: models.KindText, Text: s}
	if len(marks) > 0 {
		item.Marks = marks
	}
	return item
}

func (c *converter) inline(n ast.Node, marks []models.Mark) []models.ContentItem {
	switch node := n.(type) {
	case *ast.Text:
		var out []models.ContentItem
		if v := string(node.Segment.Value(c.src)); v != "" {
			out = append(out, textItem(v, marks))
		}
		switch {
		case node.HardLineBreak():
			out = append(out, models.ContentItem{Type: models.KindHardBreak})
		case node.SoftLineBreak():
			out = append(out, textItem(" ", marks))
		}
		return out
	case *ast.String:
		if len(node.Value) == 0 {
			return nil
		}
		return []models.ContentItem{textItem(string(node.Value), marks)}
	case *ast.CodeSpan:
		var b strings.Builder
		for child := node.FirstChild(); child != nil; child = child.NextSibling() {
			if t, ok := child.(*ast.Text); ok {
				b.Write(t.Segment.Value(c.src))
			}
		}
		return []models.ContentItem{textItem(b.String(), withMark(marks, models.Mark{Type: models.MarkCode}))}
	case *ast.Emphasis:
		mark := models.MarkItalic
		if node.Level >= 2 {
			mark = models.MarkBold
		}
		return c.inlines(node, withMark(marks, models.Mark{Type: mark}))
	case *east.Strikethrough:
		return c.inlines(node, withMark(marks, models.Mark{Type: models.MarkStrike}))
	case *ast.Link:
		attrs := map[string]any{"href": string(node.Destination)}
		if len(node.Title) > 0 {
			attrs["title"] = string(node.Title)
		}
		return c.inlines(node, withMark(marks, models.Mark{Type: models.MarkLink, Attrs: attrs}))
	case *ast.AutoLink:
		url := string(node.URL(c.src))
		return []models.ContentItem{textItem(string(node.Label(c.src)), withMark(marks, models.Mark{Type: models.MarkLink, Attrs: map[string]any{"href": url}}))}
	case *ast.Image:
		attrs := map[string]any{"src": string(node.Destination), "alt": c.plain(node)}
		if len(node.Title) > 0 {
			attrs["title"] = string(node.Title)
		}
		return []models.ContentItem{{Type: models.KindImage, Attrs: attrs}}
	case *ast.RawHTML:
		var b strings.Builder
		for i := 0; i < node.Segments.Len(); i++ {
			seg := node.Segments.At(i)
			b.Write(seg.Value(c.src))
		}
		return []models.ContentItem{textItem(b.String(), marks)}
	case *east.TaskCheckBox:
		return nil
	}
	return c.inlines(n, marks)
}

func (c *converter) plain(n ast.Node) string {
	var b strings.Builder
	_ = ast.Walk(n, func(child ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		if t, ok := child.(*ast.Text); ok {
			b.Write(t.Segment.Value(c.src))
		}
		return ast.WalkContinue, nil
	})
	return b.String()
}

// mergeText joins neighbouring text items that carry identical marks.
func mergeText(items []models.ContentItem) []models.ContentItem {
	var out []models.ContentItem
	for _, item := range items {
		if n := len(out); n > 0 && item.Type == models.KindText && out[n-1].Type == models.KindText && sameMarks(out[n-1].Marks, item.Marks) {
			out[n-1].Text += item.Text
			continue
		}
		out = append(out, item)
	}
	return out
}

func sameMarks(a, b []models.Mark) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i].Type != b[i].Type || !sameAttrs(a[i].Attrs, b[i].Attrs) {
			return false
		}
	}
	return true
}

func sameAttrs(a, b map[string]any) bool {
	if len(a) != len(b) {
		return false
	}
	for k, v := range a {
		if b[k] != v {
			return false
		}
	}
	return true
}
