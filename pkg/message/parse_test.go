package message

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStripSelfMentions(t *testing.T) {
	tests := []struct {
		name    string
		content string
		selfID  string
		want    string
	}{
		{"bang form", "<@!42> hello", "42", "hello"},
		{"plain form", "hi <@42>", "42", "hi"},
		{"other user kept", "<@!7> hello", "42", "<@!7> hello"},
		{"no self id trims", "  hello ", "", "hello"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, StripSelfMentions(tt.content, tt.selfID))
		})
	}
}

func TestParse_Markup(t *testing.T) {
	elems, brief := Parse("hi <@!123> <emoji:4> see <#99> @everyone", nil)

	assert.Equal(t, Elements{
		Text("hi "),
		At("123"),
		Text(" "),
		Face("4"),
		Text(" see "),
		{Type: SegmentLink, ID: "99"},
		Text(" "),
		At(MentionAll),
	}, elems)
	assert.Equal(t, "hi [@123] [face:4] see [#99] [@all]", brief)
}

func TestParse_Attachments(t *testing.T) {
	elems, brief := Parse("look", []Attachment{
		{URL: "gchat.qpic.cn/a.png", ContentType: "image/png", Filename: "a.png"},
		{URL: "https://x/v.mp4", ContentType: "video/mp4"},
		{URL: "", ContentType: "image/png"},
	})

	if assert.Len(t, elems, 3) {
		assert.Equal(t, SegmentImage, elems[1].Type)
		assert.Equal(t, "https://gchat.qpic.cn/a.png", elems[1].URL)
		assert.Equal(t, "a.png", elems[1].Name)
		assert.Equal(t, SegmentVideo, elems[2].Type)
	}
	assert.Equal(t, "look[image][video]", brief)
}

func TestParse_Empty(t *testing.T) {
	elems, brief := Parse("", nil)
	assert.Empty(t, elems)
	assert.Equal(t, "", brief)
}

func TestElements_StringRoundTripsMarkup(t *testing.T) {
	content := "hi <@!123> <emoji:4> <#99> @everyone"
	elems, _ := Parse(content, nil)
	assert.Equal(t, content, elems.String())
}

func TestElements_QuotedIDAndMedia(t *testing.T) {
	s := NewSendable(Reply("M1"), Text("ok"), Image("https://x/a.png"))
	assert.Equal(t, "M1", s.QuotedID())
	assert.Equal(t, "ok", s.String())

	media, ok := s.FirstMedia()
	assert.True(t, ok)
	assert.Equal(t, "https://x/a.png", media.URL)

	_, ok = NewSendable(Text("plain")).FirstMedia()
	assert.False(t, ok)
}

func TestMessage_CloneDoesNotAlias(t *testing.T) {
	m := Message{
		Content: Elements{Text("a")},
		Sender:  Sender{Permissions: []string{PermissionNormal}},
	}
	c := m.Clone()
	c.Content[0] = Text("b")
	c.Sender.Permissions[0] = "admin"

	assert.Equal(t, "a", m.Content[0].Text)
	assert.Equal(t, PermissionNormal, m.Sender.Permissions[0])
}
