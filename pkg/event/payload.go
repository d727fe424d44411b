package event

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/zhaopengme/qqevents/pkg/message"
)

// Payload is the raw message event as delivered by the platform. Which
// identifier fields are populated depends on the event kind.
type Payload struct {
	ID          string               `json:"id"`
	Content     string               `json:"content"`
	Timestamp   json.RawMessage      `json:"timestamp,omitempty"`
	Author      *Author              `json:"author,omitempty"`
	Member      *Member              `json:"member,omitempty"`
	GroupID     string               `json:"group_id,omitempty"`
	GroupOpenID string               `json:"group_openid,omitempty"`
	GroupName   string               `json:"group_name,omitempty"`
	GuildID     string               `json:"guild_id,omitempty"`
	GuildName   string               `json:"guild_name,omitempty"`
	ChannelID   string               `json:"channel_id,omitempty"`
	ChannelName string               `json:"channel_name,omitempty"`
	Attachments []message.Attachment `json:"attachments,omitempty"`
}

type Author struct {
	ID           string `json:"id"`
	Username     string `json:"username,omitempty"`
	Bot          bool   `json:"bot,omitempty"`
	UserOpenID   string `json:"user_openid,omitempty"`
	MemberOpenID string `json:"member_openid,omitempty"`
}

type Member struct {
	Nick  string   `json:"nick,omitempty"`
	Roles []string `json:"roles,omitempty"`
}

// ParsePayload decodes a raw JSON event body.
func ParsePayload(data []byte) (*Payload, error) {
	var p Payload
	if err := json.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedPayload, err)
	}
	return &p, nil
}

func (p *Payload) groupID() string {
	if p.GroupID != "" {
		return p.GroupID
	}
	return p.GroupOpenID
}

func (p *Payload) openID() string {
	if p.Author == nil {
		return ""
	}
	if p.Author.UserOpenID != "" {
		return p.Author.UserOpenID
	}
	return p.Author.MemberOpenID
}

// permissions returns "normal" followed by the member roles in order.
func (p *Payload) permissions() []string {
	perms := []string{message.PermissionNormal}
	if p.Member != nil {
		perms = append(perms, p.Member.Roles...)
	}
	return perms
}

// ParseTimestamp converts epoch milliseconds (number or numeric string) or
// an ISO-8601 string to epoch seconds. An absent value yields 0.
func ParseTimestamp(raw json.RawMessage) (float64, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return 0, nil
	}

	var ms float64
	if err := json.Unmarshal(raw, &ms); err == nil {
		return ms / 1000, nil
	}

	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return 0, fmt.Errorf("timestamp %s: %w", string(raw), err)
	}
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, nil
	}
	if n, err := strconv.ParseFloat(s, 64); err == nil {
		return n / 1000, nil
	}
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return 0, fmt.Errorf("timestamp %q: %w", s, err)
	}
	return float64(t.UnixMilli()) / 1000, nil
}
