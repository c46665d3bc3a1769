package api

import (
	"database/sql"
	"encoding/json"
	"errors"
	"net/http"
	"slices"
	"strconv"
	"time"

	"github.com/gorilla/websocket"
	"github.com/samber/lo"
	"github.com/teris-io/shortid"

	"github.com/propchat/relay/internal/database"
	"github.com/propchat/relay/internal/relay"
	"github.com/propchat/relay/internal/types"
)

type MessagesResponse struct {
	Messages []types.MessageRecord `json:"messages"`
}

type HealthResponse struct {
	Status    string `json:"status"`
	Timestamp string `json:"timestamp"`
}

func (s *RelayApp) writeJson(w http.ResponseWriter, statusCode int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if v == nil {
		return
	}

	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.log.Printf("json encode: %v", err)
	}
}

func (s *RelayApp) getMessages(w http.ResponseWriter, r *http.Request) {
	user1Str := r.URL.Query().Get("user1")
	user2Str := r.URL.Query().Get("user2")
	if user1Str == "" || user2Str == "" {
		errResp := NewBadRequestError("Missing user1 or user2 query parameter")
		s.writeJson(w, errResp.StatusCode, errResp)
		return
	}

	user1, err1 := strconv.Atoi(user1Str)
	user2, err2 := strconv.Atoi(user2Str)
	if err1 != nil || err2 != nil {
		errResp := NewBadRequestError("Invalid user1 or user2 query parameter")
		s.writeJson(w, errResp.StatusCode, errResp)
		return
	}

	msgs, err := s.db.GetConversation(user1, user2)
	if err != nil {
		s.log.Println("get conversation:", err)
		errResp := NewInternalServerError(err)
		s.writeJson(w, errResp.StatusCode, errResp)
		return
	}

	records := make([]types.MessageRecord, 0, len(msgs))
	for _, m := range msgs {
		records = append(records, toMessageRecord(m))
	}

	s.writeJson(w, http.StatusOK, MessagesResponse{Messages: records})
}

func (s *RelayApp) getInbox(w http.ResponseWriter, r *http.Request) {
	userIdStr := r.URL.Query().Get("userId")
	if userIdStr == "" {
		errResp := NewBadRequestError("Missing userId parameter")
		s.writeJson(w, errResp.StatusCode, errResp)
		return
	}

	userId, err := strconv.Atoi(userIdStr)
	if err != nil {
		errResp := NewBadRequestError("Invalid userId parameter")
		s.writeJson(w, errResp.StatusCode, errResp)
		return
	}

	msgs, err := s.db.ListUserMessages(userId)
	if err != nil {
		s.log.Println("list user messages:", err)
		errResp := NewInternalServerError(err)
		s.writeJson(w, errResp.StatusCode, errResp)
		return
	}

	msgs = s.backfillProfiles(msgs)

	records := make([]types.MessageRecord, 0, len(msgs))
	for _, m := range msgs {
		records = append(records, toMessageRecord(m))
	}

	s.writeJson(w, http.StatusOK, records)
}

// backfillProfiles re-fetches profiles for rows whose join produced no
// display data, in a single batch over the distinct missing user ids.
func (s *RelayApp) backfillProfiles(msgs []database.ConversationMessage) []database.ConversationMessage {
	var missing []int
	for _, m := range msgs {
		if profileBlank(m.Sender) {
			missing = append(missing, m.SenderId)
		}
		if profileBlank(m.Receiver) {
			missing = append(missing, m.ReceiverId)
		}
	}

	missing = lo.Uniq(missing)
	if len(missing) == 0 {
		return msgs
	}

	users, err := s.db.GetUsersByIds(missing)
	if err != nil {
		s.log.Println("backfill profiles:", err)
		return msgs
	}

	byId := lo.KeyBy(users, func(u database.User) int { return u.Id })
	for i := range msgs {
		if profileBlank(msgs[i].Sender) {
			if u, ok := byId[msgs[i].SenderId]; ok {
				msgs[i].Sender = u
			}
		}
		if profileBlank(msgs[i].Receiver) {
			if u, ok := byId[msgs[i].ReceiverId]; ok {
				msgs[i].Receiver = u
			}
		}
	}

	return msgs
}

func profileBlank(u database.User) bool {
	return u.Name == "" && u.Username == "" && u.Email == ""
}

func profileOf(id int, u database.User) *types.Profile {
	if profileBlank(u) {
		return nil
	}

	return &types.Profile{
		Id:       id,
		Name:     u.Name,
		Username: u.Username,
		Email:    u.Email,
		Avatar:   u.Avatar,
		Picture:  u.Picture,
	}
}

func toMessageRecord(m database.ConversationMessage) types.MessageRecord {
	sender := profileOf(m.SenderId, m.Sender)
	receiver := profileOf(m.ReceiverId, m.Receiver)

	rec := types.MessageRecord{
		Id:             m.Id,
		SenderId:       m.SenderId,
		ReceiverId:     m.ReceiverId,
		Message:        m.Content,
		IsRead:         m.IsRead,
		CreatedAt:      m.CreatedAt,
		UpdatedAt:      m.UpdatedAt,
		SenderName:     types.DisplayName(sender, strconv.Itoa(m.SenderId)),
		SenderAvatar:   types.AvatarURL(sender),
		ReceiverName:   types.DisplayName(receiver, strconv.Itoa(m.ReceiverId)),
		ReceiverAvatar: types.AvatarURL(receiver),
	}
	if sender != nil {
		rec.SenderEmail = sender.Email
	}
	if receiver != nil {
		rec.ReceiverEmail = receiver.Email
	}

	return rec
}

func (s *RelayApp) getUser(w http.ResponseWriter, r *http.Request) {
	userIdStr := r.PathValue("userId")
	userId, err := strconv.Atoi(userIdStr)
	if err != nil {
		errResp := NewBadRequestError("Invalid userId parameter")
		s.writeJson(w, errResp.StatusCode, errResp)
		return
	}

	user, err := s.db.GetUserById(userId)
	if err != nil {
		var errResp *ApiError
		if errors.Is(err, sql.ErrNoRows) {
			errResp = NewNotFoundError("User not found")
		} else {
			s.log.Println("get user:", err)
			errResp = NewInternalServerError(err)
		}
		s.writeJson(w, errResp.StatusCode, errResp)
		return
	}

	s.writeJson(w, http.StatusOK, types.Profile{
		Id:       user.Id,
		Name:     user.Name,
		Username: user.Username,
		Email:    user.Email,
		Avatar:   user.Avatar,
		Picture:  user.Picture,
	})
}

func (s *RelayApp) healthCheck(w http.ResponseWriter, _ *http.Request) {
	if err := s.db.Ping(); err != nil {
		s.log.Println("health check:", err)
		errResp := NewInternalServerError(err)
		s.writeJson(w, errResp.StatusCode, errResp)
		return
	}

	s.writeJson(w, http.StatusOK, HealthResponse{
		Status:    "OK",
		Timestamp: time.Now().UTC().Format("2006-01-02T15:04:05.000Z"),
	})
}

func (s *RelayApp) serveWs(w http.ResponseWriter, r *http.Request) {
	if len(s.signingKey) > 0 {
		if _, err := s.extractUserIdFromToken(r); err != nil {
			s.log.Println("ws auth:", err)
			errResp := NewUnauthorizedError()
			s.writeJson(w, errResp.StatusCode, errResp)
			return
		}
	}

	upgrader := websocket.Upgrader{
		CheckOrigin: func(r *http.Request) bool {
			origin := r.Header.Get("Origin")
			if origin == "" || slices.Contains(s.allowedOrigins, "*") {
				return true
			}

			return slices.Contains(s.allowedOrigins, origin)
		},
	}
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.log.Println("error upgrading connection:", err)
		return
	}

	sid, err := shortid.Generate()
	if err != nil {
		s.log.Println("generate connection id:", err)
		conn.Close()
		return
	}

	client := relay.NewClient(sid, conn, s.rs, s.log)
	s.rs.RegisterClient(client)
	go client.Write()
	go client.Read()
}
