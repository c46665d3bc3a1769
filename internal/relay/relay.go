package relay

import (
	"database/sql"
	"errors"
	"log"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/propchat/relay/internal/database"
	"github.com/propchat/relay/internal/stats"
	"github.com/propchat/relay/internal/types"
)

const (
	// isoTimestampLayout is the wire form of the send timestamp; the
	// relay only ever formats UTC times with it.
	isoTimestampLayout = "2006-01-02T15:04:05.000Z"
	// sqlTimestampLayout is the stored form of the same timestamp.
	sqlTimestampLayout = "2006-01-02 15:04:05"
)

const (
	metricActiveConnections   = "NumActiveConnections"
	metricMessagesDelivered   = "NumMessagesDelivered"
	metricMessagesPersisted   = "NumMessagesPersisted"
	metricPersistenceFailures = "NumPersistenceFailures"
)

// RelayServer fans out private messages to per-user rooms and persists
// them off the delivery path.
type RelayServer struct {
	log         *log.Logger
	db          database.MessageRepository
	presence    *PresenceRegistry
	clients     map[*Client]struct{}
	clientsLock sync.Mutex
	validate    *validator.Validate
	stats       stats.StatsProvider
}

func NewRelayServer(logger *log.Logger, db database.MessageRepository, presence *PresenceRegistry, sp stats.StatsProvider) (*RelayServer, error) {
	rs := &RelayServer{
		log:      logger,
		db:       db,
		presence: presence,
		clients:  make(map[*Client]struct{}),
		validate: validator.New(),
		stats:    sp,
	}

	sp.RegisterMetric(metricActiveConnections)
	sp.RegisterMetric(metricMessagesDelivered)
	sp.RegisterMetric(metricMessagesPersisted)
	sp.RegisterMetric(metricPersistenceFailures)

	return rs, nil
}

func (rs *RelayServer) Presence() *PresenceRegistry {
	return rs.presence
}

func (rs *RelayServer) RegisterClient(c *Client) {
	rs.clientsLock.Lock()
	defer rs.clientsLock.Unlock()

	rs.clients[c] = struct{}{}
	rs.stats.Incr(metricActiveConnections)
	rs.log.Printf("added connection %s", c.id)
}

// DeregisterClient removes a connection and its room subscription.
// Equivalent to a leave followed by removal from the client set.
func (rs *RelayServer) DeregisterClient(c *Client) {
	rs.presence.Leave(c)

	rs.clientsLock.Lock()
	defer rs.clientsLock.Unlock()

	if _, ok := rs.clients[c]; !ok {
		return
	}

	delete(rs.clients, c)
	rs.stats.Decr(metricActiveConnections)
	rs.log.Printf("removed connection %s", c.id)
}

// Shutdown stops all live connections.
func (rs *RelayServer) Shutdown() {
	rs.clientsLock.Lock()
	defer rs.clientsLock.Unlock()

	rs.log.Println("stopping connections")
	for c := range rs.clients {
		c.stopClient()
	}
}

// handlePrivateMessage validates, enriches and delivers one message, then
// hands it to the persistence writer. Both emits complete before the
// write is attempted; storage latency never delays delivery.
func (rs *RelayServer) handlePrivateMessage(c *Client, pm *PrivateMessage) {
	if err := rs.validate.Struct(pm); err != nil {
		rs.log.Println("invalid private message:", err)
		c.queueMessage(ErrInvalidMessage())
		return
	}

	var senderInfo, receiverInfo *types.Profile
	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		senderInfo = rs.getUserInfo(pm.From)
	}()
	go func() {
		defer wg.Done()
		receiverInfo = rs.getUserInfo(pm.To)
	}()
	wg.Wait()

	now := time.Now().UTC()
	msg := &types.ChatMessage{
		From:           pm.From,
		To:             pm.To,
		Message:        pm.Message,
		Timestamp:      now.Format(isoTimestampLayout),
		SenderName:     types.DisplayName(senderInfo, pm.From),
		SenderAvatar:   types.AvatarURL(senderInfo),
		ReceiverName:   types.DisplayName(receiverInfo, pm.To),
		ReceiverAvatar: types.AvatarURL(receiverInfo),
	}
	if senderInfo != nil {
		msg.SenderUsername = senderInfo.Username
		msg.SenderEmail = senderInfo.Email
	}
	if receiverInfo != nil {
		msg.ReceiverUsername = receiverInfo.Username
		msg.ReceiverEmail = receiverInfo.Email
	}

	for _, member := range rs.presence.RoomMembers(pm.To) {
		member.queueMessage(&ServerMessage{Private: msg})
	}
	c.queueMessage(&ServerMessage{Confirmation: msg})
	rs.stats.Incr(metricMessagesDelivered)

	go rs.persistMessage(c, pm, now)
}

// persistMessage stores a delivered message. Non-integer ids abort the
// write silently; delivery has already happened and the sender is only
// told about storage failures.
func (rs *RelayServer) persistMessage(c *Client, pm *PrivateMessage, ts time.Time) {
	senderId, ok := parseUserID(pm.From)
	if !ok {
		rs.log.Printf("not persisting message: non-integer sender id %q", pm.From)
		return
	}
	receiverId, ok := parseUserID(pm.To)
	if !ok {
		rs.log.Printf("not persisting message: non-integer receiver id %q", pm.To)
		return
	}

	params := database.CreateMessageParams{
		SenderId:   senderId,
		ReceiverId: receiverId,
		Content:    strings.TrimSpace(pm.Message),
		CreatedAt:  ts.Format(sqlTimestampLayout),
		UpdatedAt:  ts.Format(sqlTimestampLayout),
	}

	if err := rs.db.CreateMessage(params); err != nil {
		rs.log.Println("error saving message:", err)
		rs.stats.Incr(metricPersistenceFailures)
		c.queueMessage(ErrDatabase("Failed to save message to database", err.Error()))
		return
	}

	rs.stats.Incr(metricMessagesPersisted)
}

// getUserInfo resolves a raw user id to a profile. Lookup misses are not
// errors; enrichment falls back to id-based display values.
func (rs *RelayServer) getUserInfo(rawId string) *types.Profile {
	id, ok := parseUserID(rawId)
	if !ok {
		rs.log.Printf("skipping user lookup for non-integer id %q", rawId)
		return nil
	}

	u, err := rs.db.GetUserById(id)
	if err != nil {
		if !errors.Is(err, sql.ErrNoRows) {
			rs.log.Printf("error fetching user %d: %v", id, err)
		}
		return nil
	}

	return &types.Profile{
		Id:       u.Id,
		Name:     u.Name,
		Username: u.Username,
		Email:    u.Email,
		Avatar:   u.Avatar,
		Picture:  u.Picture,
	}
}

// parseUserID converts a wire user id to its storage form. Room keys are
// free-form strings; only integer ids are persistable.
func parseUserID(raw string) (int, bool) {
	id, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return 0, false
	}

	return id, true
}
