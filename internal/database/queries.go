package database

import (
	"database/sql"

	"github.com/lib/pq"
)

const (
	userColumns = "id, COALESCE(name, ''), COALESCE(username, ''), COALESCE(email, ''), " +
		"COALESCE(avatar, ''), COALESCE(picture, '')"

	conversationColumns = `
		m.id,
		m.sender_id,
		m.receiver_id,
		m.message,
		m.is_read,
		m.created_at,
		m.updated_at,
		COALESCE(s.id, 0),
		COALESCE(s.name, ''),
		COALESCE(s.username, ''),
		COALESCE(s.email, ''),
		COALESCE(s.avatar, ''),
		COALESCE(s.picture, ''),
		COALESCE(r.id, 0),
		COALESCE(r.name, ''),
		COALESCE(r.username, ''),
		COALESCE(r.email, ''),
		COALESCE(r.avatar, ''),
		COALESCE(r.picture, '')`
)

func (db *PgMessageRepository) GetUserById(id int) (User, error) {
	row := db.conn.QueryRow(
		"SELECT "+userColumns+" FROM users WHERE id = $1 LIMIT 1",
		id,
	)

	var u User
	err := row.Scan(
		&u.Id,
		&u.Name,
		&u.Username,
		&u.Email,
		&u.Avatar,
		&u.Picture,
	)

	return u, err
}

func (db *PgMessageRepository) GetUsersByIds(ids []int) ([]User, error) {
	rows, err := db.conn.Query(
		"SELECT "+userColumns+" FROM users WHERE id = ANY($1)",
		pq.Array(ids),
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var users []User
	for rows.Next() {
		var u User
		if err := rows.Scan(
			&u.Id,
			&u.Name,
			&u.Username,
			&u.Email,
			&u.Avatar,
			&u.Picture,
		); err != nil {
			return nil, err
		}
		users = append(users, u)
	}

	return users, rows.Err()
}

func (db *PgMessageRepository) CreateMessage(params CreateMessageParams) error {
	_, err := db.conn.Exec(
		"INSERT INTO messages (sender_id, receiver_id, message, is_read, created_at, updated_at) "+
			"VALUES ($1, $2, $3, $4, $5, $6)",
		params.SenderId,
		params.ReceiverId,
		params.Content,
		false,
		params.CreatedAt,
		params.UpdatedAt,
	)

	return err
}

func (db *PgMessageRepository) GetConversation(user1, user2 int) ([]ConversationMessage, error) {
	rows, err := db.conn.Query(
		"SELECT "+conversationColumns+
			" FROM messages m"+
			" LEFT JOIN users s ON s.id = m.sender_id"+
			" LEFT JOIN users r ON r.id = m.receiver_id"+
			" WHERE (m.sender_id = $1 AND m.receiver_id = $2)"+
			" OR (m.sender_id = $2 AND m.receiver_id = $1)"+
			" ORDER BY m.created_at ASC",
		user1,
		user2,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanConversationRows(rows)
}

func (db *PgMessageRepository) ListUserMessages(userId int) ([]ConversationMessage, error) {
	rows, err := db.conn.Query(
		"SELECT "+conversationColumns+
			" FROM messages m"+
			" LEFT JOIN users s ON s.id = m.sender_id"+
			" LEFT JOIN users r ON r.id = m.receiver_id"+
			" WHERE m.sender_id = $1 OR m.receiver_id = $1"+
			" ORDER BY m.created_at DESC",
		userId,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanConversationRows(rows)
}

func scanConversationRows(rows *sql.Rows) ([]ConversationMessage, error) {
	var messages []ConversationMessage
	for rows.Next() {
		var m ConversationMessage
		if err := rows.Scan(
			&m.Id,
			&m.SenderId,
			&m.ReceiverId,
			&m.Content,
			&m.IsRead,
			&m.CreatedAt,
			&m.UpdatedAt,
			&m.Sender.Id,
			&m.Sender.Name,
			&m.Sender.Username,
			&m.Sender.Email,
			&m.Sender.Avatar,
			&m.Sender.Picture,
			&m.Receiver.Id,
			&m.Receiver.Name,
			&m.Receiver.Username,
			&m.Receiver.Email,
			&m.Receiver.Avatar,
			&m.Receiver.Picture,
		); err != nil {
			return nil, err
		}
		messages = append(messages, m)
	}

	return messages, rows.Err()
}
