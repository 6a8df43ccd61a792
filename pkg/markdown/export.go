package markdown

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/mattsolo1/notesplusplus/pkg/models"
)

// MentionResolver returns the raw request behind a replay session id.
type MentionResolver func(sessionID string) (string, bool)

type exportOptions struct {
	resolve MentionResolver
}

// ExportOption configures ToMarkdown.
type ExportOption func(*exportOptions)

// WithMentionResolver renders resolvable mentions as http code blocks.
func WithMentionResolver(r MentionResolver) ExportOption {
	return func(o *exportOptions) {
		o.resolve = r
	}
}

// ToMarkdown renders a document as markdown.
func ToMarkdown(doc *models.NoteContent, options ...ExportOption) string {
	opts := &exportOptions{}
	for _, opt := range options {
		opt(opts)
	}
	if doc == nil {
		return ""
	}
	w := &writer{opts: opts}
	out := w.blocks(doc.Content, "\n\n")
	if out == "" {
		return ""
	}
	return out + "\n"
}

type writer struct {
	opts *exportOptions
}

func (w *writer) blocks(items []models.ContentItem, sep string) string {
	parts := make([]string, 0, len(items))
	for _, item := range items {
		if s := w.block(item); s != "" {
			parts = append(parts, s)
		}
	}
	return strings.Join(parts, sep)
}

func (w *writer) block(item models.ContentItem) string {
	switch item.Type {
	case models.KindParagraph:
		return w.inlines(item.Content)
	case models.KindHeading:
		level := intAttr(item, "level", 1)
		if level < 1 || level > 6 {
			level = 1
		}
		return strings.Repeat("#", level) + " " + w.inlines(item.Content)
	case models.KindCodeBlock:
		return fence(item.AttrString("language"), rawText(item.Content))
	case models.KindBulletList:
		return w.list(item.Content, func(int, models.ContentItem) string { return "- " })
	case models.KindOrderedList:
		start := intAttr(item, "start", 1)
		return w.list(item.Content, func(i int, _ models.ContentItem) string { return strconv.Itoa(start+i) + ". " })
	case models.KindTaskList:
		return w.list(item.Content, func(_ int, li models.ContentItem) string {
			if checked, _ := li.Attr("checked").(bool); checked {
				return "- [x] "
			}
			return "- [ ] "
		})
	case models.KindBlockquote:
		return prefixLines(w.blocks(item.Content, "\n\n"), "> ", "> ")
	case models.KindHorizontalRule:
		return "---"
	case models.KindTable:
		return w.table(item)
	case models.KindMention:
		return w.mention(item, true)
	case models.KindImage, models.KindText, models.KindFileMention, models.KindHardBreak:
		return w.inlines([]models.ContentItem{item})
	}
	if len(item.Content) > 0 {
		if isInline(item.Content[0]) {
			return w.inlines(item.Content)
		}
		return w.blocks(item.Content, "\n\n")
	}
	return item.Text
}

func isInline(item models.ContentItem) bool {
	switch item.Type {
	case models.KindText, models.KindHardBreak, models.KindImage, models.KindMention, models.KindFileMention:
		return true
	}
	return false
}

func (w *writer) list(items []models.ContentItem, marker func(int, models.ContentItem) string) string {
	lines := make([]string, 0, len(items))
	for i, li := range items {
		m := marker(i, li)
		body := w.blocks(li.Content, "\n")
		lines = append(lines, prefixLines(body, m, strings.Repeat(" ", len(m))))
	}
	return strings.Join(lines, "\n")
}

func (w *writer) table(item models.ContentItem) string {
	var rows [][]string
	for _, row := range item.Content {
		var cells []string
		for _, cell := range row.Content {
			cells = append(cells, strings.ReplaceAll(w.blocks(cell.Content, " "), "|", `\|`))
		}
		rows = append(rows, cells)
	}
	if len(rows) == 0 {
		return ""
	}
	var b strings.Builder
	b.WriteString("| " + strings.Join(rows[0], " | ") + " |\n")
	sep := make([]string, len(rows[0]))
	for i := range sep {
		sep[i] = "---"
	}
	b.WriteString("| " + strings.Join(sep, " | ") + " |")
	for _, r := range rows[1:] {
		b.WriteString("\n| " + strings.Join(r, " | ") + " |")
	}
	return b.String()
}

func (w *writer) mention(item models.ContentItem, block bool) string {
	id := item.AttrString("id")
	if w.opts.resolve != nil {
		if raw, ok := w.opts.resolve(id); ok {
			code := fence("http", raw)
			if block {
				return code
			}
			return "\n\n" + code + "\n\n"
		}
	}
	return fmt.Sprintf("[Replay Session: %s (unavailable)]", id)
}

func (w *writer) inlines(items []models.ContentItem) string {
	var b strings.Builder
	for _, item := range items {
		switch item.Type {
		case models.KindText:
			b.WriteString(applyMarks(item.Text, item.Marks))
		case models.KindHardBreak:
			b.WriteString("  \n")
		case models.KindImage:
			src := item.AttrString("src")
			if title := item.AttrString("title"); title != "" {
				src += fmt.Sprintf(" %q", title)
			}
			fmt.Fprintf(&b, "![%s](%s)", item.AttrString("alt"), src)
		case models.KindMention:
			b.WriteString(w.mention(item, false))
		case models.KindFileMention:
			name := item.AttrString("label")
			if name == "" {
				name = item.AttrString("name")
			}
			if name == "" {
				name = item.AttrString("id")
			}
			fmt.Fprintf(&b, "[File: %s]", name)
		default:
			b.WriteString(w.inlines(item.Content))
		}
	}
	return b.String()
}

func applyMarks(s string, marks []models.Mark) string {
	if s == "" {
		return s
	}
	var link *models.Mark
	for i := range marks {
		m := marks[i]
		switch m.Type {
		case models.MarkCode:
			s = "`" + s + "`"
		case models.MarkBold:
			s = "**" + s + "**"
		case models.MarkItalic:
			s = "*" + s + "*"
		case models.MarkStrike:
			s = "~~" + s + "~~"
		case models.MarkLink:
			link = &marks[i]
		}
	}
	if link != nil {
		href, _ := link.Attrs["href"].(string)
		s = fmt.Sprintf("[%s](%s)", s, href)
	}
	return s
}

func fence(lang, code string) string {
	ticks := "```"
	for strings.Contains(code, ticks) {
		ticks += "`"
	}
	return ticks + lang + "\n" + code + "\n" + ticks
}

func rawText(items []models.ContentItem) string {
	var b strings.Builder
	for _, item := range items {
		if item.Type == models.KindText {
			b.WriteString(item.Text)
		} else if item.Type == models.KindHardBreak {
			b.WriteString("\n")
		}
	}
	return b.String()
}

func prefixLines(s, first, rest string) string {
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		p := rest
		if i == 0 {
			p = first
		}
		if line == "" && i > 0 {
			lines[i] = strings.TrimRight(p, " ")
			continue
		}
		lines[i] = p + line
	}
	return strings.Join(lines, "\n")
}

func intAttr(item models.ContentItem, key string, def int) int {
	switch v := item.Attr(key).(type) {
	case int:
		return v
	case float64:
		return int(v)
	case int64:
		return int(v)
	}
	return def
}
