package database

import "time"

type User struct {
	Id       int
	Name     string
	Username string
	Email    string
	Avatar   string
	Picture  string
}

type Message struct {
	Id         int
	SenderId   int
	ReceiverId int
	Content    string
	IsRead     bool
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// ConversationMessage is a message row joined with the sender and receiver
// profiles. A missing profile scans as the User zero value.
type ConversationMessage struct {
	Message
	Sender   User
	Receiver User
}

// CreateMessageParams carries a normalized message for insertion. The
// timestamps are pre-formatted "YYYY-MM-DD HH:MM:SS" strings so the stored
// value matches the one already delivered in real time.
type CreateMessageParams struct {
	SenderId   int
	ReceiverId int
	Content    string
	CreatedAt  string
	UpdatedAt  string
}
