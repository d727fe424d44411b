package message

import (
	"strings"
)

type SegmentType string

const (
	SegmentText  SegmentType = "text"
	SegmentAt    SegmentType = "at"
	SegmentFace  SegmentType = "face"
	SegmentLink  SegmentType = "link"
	SegmentImage SegmentType = "image"
	SegmentVideo SegmentType = "video"
	SegmentAudio SegmentType = "audio"
	SegmentFile  SegmentType = "file"
	SegmentReply SegmentType = "reply"
)

// MentionAll is the at-segment id used for @everyone.
const MentionAll = "all"

// Segment is one node of structured message content. Which fields are set
// depends on Type: Text for text, ID for at/face/link/reply, URL and Name
// for media.
type Segment struct {
	Type SegmentType `json:"type"`
	Text string      `json:"text,omitempty"`
	ID   string      `json:"id,omitempty"`
	URL  string      `json:"url,omitempty"`
	Name string      `json:"name,omitempty"`
}

// Elements is parsed inbound content and, equally, outbound content handed
// to a send call.
type Elements []Segment

// Sendable is content accepted by reply and the send collaborators.
type Sendable = Elements

func Text(s string) Segment { return Segment{Type: SegmentText, Text: s} }
func At(userID string) Segment { return Segment{Type: SegmentAt, ID: userID} }
func Face(id string) Segment { return Segment{Type: SegmentFace, ID: id} }
func Image(url string) Segment { return Segment{Type: SegmentImage, URL: url} }
func Reply(messageID string) Segment { return Segment{Type: SegmentReply, ID: messageID} }

// NewSendable builds outbound content from segments.
func NewSendable(segments ...Segment) Sendable {
	return append(Elements(nil), segments...)
}

// Clone returns a copy that shares no backing array with e.
func (e Elements) Clone() Elements {
	if e == nil {
		return nil
	}
	return append(Elements(nil), e...)
}

// Brief renders a human-readable preview of the content.
func (e Elements) Brief() string {
	var sb strings.Builder
	for _, seg := range e {
		switch seg.Type {
		case SegmentText:
			sb.WriteString(seg.Text)
		case SegmentAt:
			sb.WriteString("[@" + seg.ID + "]")
		case SegmentFace:
			sb.WriteString("[face:" + seg.ID + "]")
		case SegmentLink:
			sb.WriteString("[#" + seg.ID + "]")
		case SegmentReply:
			sb.WriteString("[reply:" + seg.ID + "]")
		case SegmentImage, SegmentVideo, SegmentAudio, SegmentFile:
			sb.WriteString("[" + string(seg.Type) + "]")
		}
	}
	return strings.TrimSpace(sb.String())
}

// String renders the content back to platform markup. Media and reply
// segments carry no inline markup and are skipped.
func (e Elements) String() string {
	var sb strings.Builder
	for _, seg := range e {
		switch seg.Type {
		case SegmentText:
			sb.WriteString(seg.Text)
		case SegmentAt:
			if seg.ID == MentionAll {
				sb.WriteString("@everyone")
			} else {
				sb.WriteString("<@!" + seg.ID + ">")
			}
		case SegmentFace:
			sb.WriteString("<emoji:" + seg.ID + ">")
		case SegmentLink:
			sb.WriteString("<#" + seg.ID + ">")
		}
	}
	return sb.String()
}

// QuotedID returns the id of the first reply segment, if any.
func (e Elements) QuotedID() string {
	for _, seg := range e {
		if seg.Type == SegmentReply {
			return seg.ID
		}
	}
	return ""
}

// FirstMedia returns the first media segment, if any.
func (e Elements) FirstMedia() (Segment, bool) {
	for _, seg := range e {
		switch seg.Type {
		case SegmentImage, SegmentVideo, SegmentAudio, SegmentFile:
			return seg, true
		}
	}
	return Segment{}, false
}
