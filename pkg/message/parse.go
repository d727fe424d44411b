package message

import (
	"regexp"
	"strings"
)

// Attachment is a media item delivered alongside the message body.
type Attachment struct {
	URL         string `json:"url"`
	ContentType string `json:"content_type"`
	Filename    string `json:"filename"`
}

var markupPattern = regexp.MustCompile(`<@!?([^>\s]+)>|<emoji:(\d+)>|<#(\d+)>|@everyone`)

// StripSelfMentions removes the bot's own mention tokens from a message body.
// With an empty selfID only surrounding whitespace is trimmed; group @ events
// arrive with the mention already removed but a leading space left behind.
func StripSelfMentions(content, selfID string) string {
	if selfID != "" {
		content = strings.ReplaceAll(content, "<@!"+selfID+">", "")
		content = strings.ReplaceAll(content, "<@"+selfID+">", "")
	}
	return strings.TrimSpace(content)
}

// Parse turns a raw message body and its attachments into structured
// content plus a brief.
func Parse(content string, attachments []Attachment) (Elements, string) {
	var elems Elements

	last := 0
	for _, loc := range markupPattern.FindAllStringSubmatchIndex(content, -1) {
		if loc[0] > last {
			elems = append(elems, Text(content[last:loc[0]]))
		}
		switch {
		case loc[2] >= 0:
			elems = append(elems, At(content[loc[2]:loc[3]]))
		case loc[4] >= 0:
			elems = append(elems, Face(content[loc[4]:loc[5]]))
		case loc[6] >= 0:
			elems = append(elems, Segment{Type: SegmentLink, ID: content[loc[6]:loc[7]]})
		default:
			elems = append(elems, At(MentionAll))
		}
		last = loc[1]
	}
	if last < len(content) {
		elems = append(elems, Text(content[last:]))
	}

	for _, a := range attachments {
		if a.URL == "" {
			continue
		}
		elems = append(elems, Segment{
			Type: attachmentType(a.ContentType),
			URL:  normalizeURL(a.URL),
			Name: a.Filename,
		})
	}

	return elems, elems.Brief()
}

func attachmentType(contentType string) SegmentType {
	switch {
	case strings.HasPrefix(contentType, "image"):
		return SegmentImage
	case strings.HasPrefix(contentType, "video"):
		return SegmentVideo
	case strings.HasPrefix(contentType, "audio"), contentType == "voice":
		return SegmentAudio
	default:
		return SegmentFile
	}
}

// Attachment urls sometimes arrive without a scheme.
func normalizeURL(u string) string {
	if strings.HasPrefix(u, "http://") || strings.HasPrefix(u, "https://") {
		return u
	}
	return "https://" + u
}
