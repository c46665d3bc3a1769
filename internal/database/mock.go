package database

import (
	"github.com/stretchr/testify/mock"
)

type MockMessageRepository struct {
	mock.Mock
}

func (m *MockMessageRepository) Ping() error {
	args := m.Called()
	return args.Error(0)
}

func (m *MockMessageRepository) GetUserById(id int) (User, error) {
	args := m.Called(id)
	return args.Get(0).(User), args.Error(1)
}

func (m *MockMessageRepository) GetUsersByIds(ids []int) ([]User, error) {
	args := m.Called(ids)
	if users, ok := args.Get(0).([]User); ok {
		return users, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockMessageRepository) CreateMessage(params CreateMessageParams) error {
	args := m.Called(params)
	return args.Error(0)
}

func (m *MockMessageRepository) GetConversation(user1, user2 int) ([]ConversationMessage, error) {
	args := m.Called(user1, user2)
	if msgs, ok := args.Get(0).([]ConversationMessage); ok {
		return msgs, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockMessageRepository) ListUserMessages(userId int) ([]ConversationMessage, error) {
	args := m.Called(userId)
	if msgs, ok := args.Get(0).([]ConversationMessage); ok {
		return msgs, args.Error(1)
	}
	return nil, args.Error(1)
}
