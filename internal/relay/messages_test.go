package relay

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClientMessageDecoding(t *testing.T) {
	t.Run("join with string id", func(t *testing.T) {
		var msg ClientMessage
		require.NoError(t, json.Unmarshal([]byte(`{"join":{"user_id":"42"}}`), &msg))
		require.NotNil(t, msg.Join, "expected join variant")
		assert.Equal(t, "42", roomKey(msg.Join.UserId), "expected string id as room key")
	})

	t.Run("join with numeric id", func(t *testing.T) {
		var msg ClientMessage
		require.NoError(t, json.Unmarshal([]byte(`{"join":{"user_id":42}}`), &msg))
		require.NotNil(t, msg.Join, "expected join variant")
		assert.Equal(t, "42", roomKey(msg.Join.UserId), "expected numeric id formatted as room key")
	})

	t.Run("join with missing id", func(t *testing.T) {
		var msg ClientMessage
		require.NoError(t, json.Unmarshal([]byte(`{"join":{}}`), &msg))
		require.NotNil(t, msg.Join, "expected join variant")
		assert.Equal(t, "", roomKey(msg.Join.UserId), "expected empty room key")
	})

	t.Run("leave_room", func(t *testing.T) {
		var msg ClientMessage
		require.NoError(t, json.Unmarshal([]byte(`{"leave_room":{}}`), &msg))
		assert.NotNil(t, msg.Leave, "expected leave variant")
		assert.Nil(t, msg.Join, "expected no join variant")
	})

	t.Run("private_message", func(t *testing.T) {
		var msg ClientMessage
		require.NoError(t, json.Unmarshal([]byte(`{"private_message":{"to":"2","from":"1","message":"hi"}}`), &msg))
		require.NotNil(t, msg.Private, "expected private_message variant")
		assert.Equal(t, "2", msg.Private.To, "expected to field")
		assert.Equal(t, "1", msg.Private.From, "expected from field")
		assert.Equal(t, "hi", msg.Private.Message, "expected message field")
	})

	t.Run("empty envelope", func(t *testing.T) {
		var msg ClientMessage
		require.NoError(t, json.Unmarshal([]byte(`{}`), &msg))
		assert.Nil(t, msg.Join, "expected no join variant")
		assert.Nil(t, msg.Leave, "expected no leave variant")
		assert.Nil(t, msg.Private, "expected no private variant")
	})
}

func TestServerMessageEncoding(t *testing.T) {
	t.Run("error event", func(t *testing.T) {
		raw, err := json.Marshal(ErrInvalidMessage())
		require.NoError(t, err)
		assert.JSONEq(t, `{"error":{"message":"Invalid message format"}}`, string(raw))
	})

	t.Run("database error event", func(t *testing.T) {
		raw, err := json.Marshal(ErrDatabase("Failed to save message to database", "timeout"))
		require.NoError(t, err)
		assert.JSONEq(t, `{"database_error":{"message":"Failed to save message to database","error":"timeout"}}`, string(raw))
	})
}

func Test_roomKey(t *testing.T) {
	assert.Equal(t, "", roomKey(nil), "expected empty key for nil")
	assert.Equal(t, "abc", roomKey("abc"), "expected string passthrough")
	assert.Equal(t, "7", roomKey(float64(7)), "expected integral float formatted without fraction")
	assert.Equal(t, "true", roomKey(true), "expected non-string scalars formatted")
}
