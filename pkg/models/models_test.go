package models

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestItemKindKnown(t *testing.T) {
	tests := []struct {
		kind  ItemKind
		known bool
	}{
		{KindParagraph, true},
		{KindText, true},
		{KindMention, true},
		{KindFileMention, true},
		{ItemKind("callout"), false},
		{ItemKind(""), false},
	}

	for _, tt := range tests {
		t.Run(string(tt.kind), func(t *testing.T) {
			assert.Equal(t, tt.known, tt.kind.Known())
		})
	}
}

func TestParseContent(t *testing.T) {
	t.Run("valid document", func(t *testing.T) {
		doc, err := ParseContent([]byte(`{"type":"doc","content":[{"type":"paragraph","content":[{"type":"text","text":"hi","marks":[{"type":"bold"}]}]}]}`))
		require.NoError(t, err)
		require.Len(t, doc.Content, 1)
		assert.Equal(t, KindParagraph, doc.Content[0].Type)
		assert.True(t, doc.Content[0].Content[0].HasMark(MarkBold))
	})

	t.Run("missing content becomes empty slice", func(t *testing.T) {
		doc, err := ParseContent([]byte(`{"type":"doc"}`))
		require.NoError(t, err)
		assert.NotNil(t, doc.Content)
		assert.Empty(t, doc.Content)
	})

	t.Run("unknown kinds are preserved", func(t *testing.T) {
		doc, err := ParseContent([]byte(`{"type":"doc","content":[{"type":"callout","attrs":{"tone":"warn"}}]}`))
		require.NoError(t, err)
		assert.Equal(t, ItemKind("callout"), doc.Content[0].Type)
		assert.Equal(t, "warn", doc.Content[0].AttrString("tone"))
	})

	t.Run("garbage", func(t *testing.T) {
		_, err := ParseContent([]byte("not json"))
		assert.Error(t, err)
	})

	t.Run("wrong root", func(t *testing.T) {
		_, err := ParseContent([]byte(`{"type":"paragraph"}`))
		assert.Error(t, err)
	})
}

func TestEncodeRoundTrip(t *testing.T) {
	doc := &NoteContent{Type: KindDoc}
	data, err := doc.Encode()
	require.NoError(t, err)
	assert.Contains(t, string(data), `"content": []`)

	back, err := ParseContent(data)
	require.NoError(t, err)
	assert.Equal(t, EmptyDoc(), back)
}

func TestValidate(t *testing.T) {
	assert.NoError(t, EmptyDoc().Validate())

	bad := &NoteContent{Type: KindParagraph}
	assert.ErrorIs(t, bad.Validate(), ErrInvalidInput)

	nested := &NoteContent{Type: KindDoc, Content: []ContentItem{
		{Type: KindParagraph, Content: []ContentItem{{Type: ""}}},
	}}
	err := nested.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "content[0].content[0]")

	var nilDoc *NoteContent
	assert.ErrorIs(t, nilDoc.Validate(), ErrInvalidInput)
}

func TestPlainTextAndExcerpt(t *testing.T) {
	doc := &NoteContent{Type: KindDoc, Content: []ContentItem{
		{Type: KindHeading, Attrs: map[string]any{"level": 1}, Content: []ContentItem{{Type: KindText, Text: "Title"}}},
		{Type: KindParagraph, Content: []ContentItem{
			{Type: KindText, Text: "see "},
			{Type: KindMention, Attrs: map[string]any{"id": "42", "label": "Replay 42"}},
		}},
	}}
	assert.Equal(t, "Title\nsee Replay 42", doc.PlainText())
	assert.Equal(t, "Title see", doc.Excerpt(9))
}

func TestErrorKinds(t *testing.T) {
	err := fmt.Errorf("create note: %w", AlreadyExistsf("note %s already exists", "/a.json"))
	assert.ErrorIs(t, err, ErrAlreadyExists)
	assert.NotErrorIs(t, err, ErrNotFound)
	assert.Equal(t, KindAlreadyExists, KindOf(err))
	assert.Equal(t, KindIOFailure, KindOf(errors.New("disk on fire")))
	assert.Equal(t, ErrorKind(""), KindOf(nil))

	wrapped := IOFailure(errors.New("EACCES"), "write %s", "/x.json")
	assert.Equal(t, "write /x.json: EACCES", wrapped.Error())
}

func TestResult(t *testing.T) {
	ok := Ok(3)
	assert.True(t, ok.OK())
	assert.NoError(t, ok.Err())

	failed := Fail[int](NotFoundf("note /a.json not found"))
	assert.False(t, failed.OK())
	assert.Equal(t, KindNotFound, failed.ErrorKind)
	assert.Equal(t, "note /a.json not found", failed.Error)
	_, err := failed.Unwrap()
	assert.ErrorIs(t, err, ErrNotFound)
}
