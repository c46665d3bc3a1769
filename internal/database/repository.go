package database

// MessageRepository is the persistence collaborator for the relay: a user
// directory read path and the message store.
type MessageRepository interface {
	Ping() error
	GetUserById(id int) (User, error)
	GetUsersByIds(ids []int) ([]User, error)
	CreateMessage(params CreateMessageParams) error
	GetConversation(user1, user2 int) ([]ConversationMessage, error)
	ListUserMessages(userId int) ([]ConversationMessage, error)
}
