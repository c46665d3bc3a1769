package types

import (
	"time"
)

// Profile is a user's display metadata as read from the user directory.
type Profile struct {
	Id       int    `json:"id"`
	Name     string `json:"name,omitempty"`
	Username string `json:"username,omitempty"`
	Email    string `json:"email,omitempty"`
	Avatar   string `json:"avatar,omitempty"`
	Picture  string `json:"picture,omitempty"`
}

// ChatMessage is an in-flight message enriched with denormalized
// sender/receiver display fields. It is built once per send and shared
// between the recipient broadcast and the sender confirmation.
type ChatMessage struct {
	From             string `json:"from"`
	To               string `json:"to"`
	Message          string `json:"message"`
	Timestamp        string `json:"timestamp"`
	SenderName       string `json:"sender_name"`
	SenderUsername   string `json:"sender_username,omitempty"`
	SenderEmail      string `json:"sender_email,omitempty"`
	SenderAvatar     string `json:"sender_avatar,omitempty"`
	ReceiverName     string `json:"receiver_name"`
	ReceiverUsername string `json:"receiver_username,omitempty"`
	ReceiverEmail    string `json:"receiver_email,omitempty"`
	ReceiverAvatar   string `json:"receiver_avatar,omitempty"`
}

// MessageRecord is a stored message annotated with display fields for the
// query endpoints.
type MessageRecord struct {
	Id             int       `json:"id"`
	SenderId       int       `json:"sender_id"`
	ReceiverId     int       `json:"receiver_id"`
	Message        string    `json:"message"`
	IsRead         bool      `json:"is_read"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
	SenderName     string    `json:"sender_name"`
	SenderEmail    string    `json:"sender_email,omitempty"`
	SenderAvatar   string    `json:"sender_avatar,omitempty"`
	ReceiverName   string    `json:"receiver_name"`
	ReceiverEmail  string    `json:"receiver_email,omitempty"`
	ReceiverAvatar string    `json:"receiver_avatar,omitempty"`
}

// DisplayName resolves a profile's display name with precedence
// name, username, email. A missing or empty profile falls back to a name
// synthesized from the raw id, so a display name is always computable.
func DisplayName(p *Profile, rawId string) string {
	if p != nil {
		if p.Name != "" {
			return p.Name
		}
		if p.Username != "" {
			return p.Username
		}
		if p.Email != "" {
			return p.Email
		}
	}

	return "User " + rawId
}

// AvatarURL resolves a profile's avatar with precedence avatar, picture.
func AvatarURL(p *Profile) string {
	if p == nil {
		return ""
	}
	if p.Avatar != "" {
		return p.Avatar
	}

	return p.Picture
}
