package fanout

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
	"github.com/ukydev/school-transit/internal/models"
)

// Scope identifies one of the addressing modes.
type Scope string

const (
	ScopeUser   Scope = "USER"
	ScopeRole   Scope = "ROLE"
	ScopeSchool Scope = "SCHOOL"
	ScopeAll    Scope = "ALL"
	ScopeTopic  Scope = "TOPIC"
)

// Delivery is the explicit outcome of one fan-out call. A failed
// delivery is captured here and logged, never returned as an error:
// the durable stores are the system of record and the real-time
// channel is best-effort, at-most-once.
type Delivery struct {
	Scope     Scope
	Topic     string
	Payload   models.RealtimeNotification
	Delivered bool
	Err       error
}

// Session is the per-connection context a client declares when it
// subscribes. It is owned by the router's registry, never shared
// mutable state keyed loosely by connection.
type Session struct {
	ClientID    string
	UserID      string
	Role        string
	SchoolID    string
	Topics      []string
	ConnectedAt time.Time
}

// SubscribeMessage is the payload clients publish to the control topic.
// Clients register their MQTT last-will as the same message with
// Disconnect set, so a dropped connection clears the session.
type SubscribeMessage struct {
	ClientID   string `json:"clientId"`
	UserID     string `json:"userId"`
	UserRole   string `json:"userRole"`
	SchoolID   string `json:"schoolId"`
	Disconnect bool   `json:"disconnect,omitempty"`
}

// TopicMessage joins or leaves an ad-hoc conversation topic.
type TopicMessage struct {
	ClientID string `json:"clientId"`
	TopicID  string `json:"topicId"`
}

// ChatMessage is relayed to everyone listening on a conversation topic.
type ChatMessage struct {
	ClientID string `json:"clientId"`
	TopicID  string `json:"topicId"`
	Sender   string `json:"sender"`
	Content  string `json:"content"`
}

// Router delivers real-time notification payloads to exactly one of
// four addressing scopes. Every outbound payload is re-stamped with a
// fresh id, a server-side timestamp and an unread flag; caller-supplied
// values for those fields do not survive.
type Router struct {
	pub Publisher

	mu       sync.RWMutex
	sessions map[string]Session
}

// NewRouter creates a router over the given publisher.
func NewRouter(pub Publisher) *Router {
	return &Router{
		pub:      pub,
		sessions: make(map[string]Session),
	}
}

// ToUser delivers a notification on a single user's private channel.
func (r *Router) ToUser(n models.RealtimeNotification, userID string) Delivery {
	n.UserID = userID
	return r.deliver(ScopeUser, UserTopic(userID), n)
}

// ToRole delivers a notification to every client that declared the role.
func (r *Router) ToRole(n models.RealtimeNotification, role string) Delivery {
	n.Role = role
	return r.deliver(ScopeRole, RoleTopic(role), n)
}

// ToSchool delivers a notification to every client of a school tenant.
func (r *Router) ToSchool(n models.RealtimeNotification, schoolID string) Delivery {
	n.SchoolID = schoolID
	return r.deliver(ScopeSchool, SchoolTopic(schoolID), n)
}

// ToAll delivers a notification to every connected client.
func (r *Router) ToAll(n models.RealtimeNotification) Delivery {
	return r.deliver(ScopeAll, AllTopic, n)
}

func (r *Router) deliver(scope Scope, topic string, n models.RealtimeNotification) Delivery {
	n.ID = uuid.NewString()
	n.Timestamp = time.Now()
	n.Read = false

	d := Delivery{Scope: scope, Topic: topic, Payload: n}

	payload, err := json.Marshal(n)
	if err != nil {
		d.Err = err
		log.WithError(err).WithField("topic", topic).Error("Failed to marshal notification")
		return d
	}

	if err := r.pub.Publish(topic, payload); err != nil {
		d.Err = err
		log.WithFields(log.Fields{
			"topic": topic,
			"scope": scope,
			"type":  n.Type,
		}).WithError(err).Warn("Notification delivery failed")
		return d
	}

	d.Delivered = true
	return d
}

// HandleSubscribe registers a client session and, when a school id was
// declared, immediately acknowledges the connection on that school's
// channel. The returned ack is nil when no school was declared.
func (r *Router) HandleSubscribe(msg SubscribeMessage) *Delivery {
	clientID := msg.ClientID
	if clientID == "" {
		clientID = uuid.NewString()
	}

	r.mu.Lock()
	r.sessions[clientID] = Session{
		ClientID:    clientID,
		UserID:      msg.UserID,
		Role:        msg.UserRole,
		SchoolID:    msg.SchoolID,
		ConnectedAt: time.Now(),
	}
	r.mu.Unlock()

	log.WithFields(log.Fields{
		"client_id": clientID,
		"role":      msg.UserRole,
		"school_id": msg.SchoolID,
	}).Info("Client subscribed")

	if msg.SchoolID == "" {
		return nil
	}

	ack := r.ToSchool(models.RealtimeNotification{
		Type:     models.NotifyConnection,
		Title:    "Connection established",
		Message:  "Real-time notifications active",
		Priority: models.PriorityLow,
	}, msg.SchoolID)
	return &ack
}

// HandleTopicJoin records a conversation topic on the client's session.
// A client unknown to the registry gets a bare session so membership
// survives a subscribe message arriving late.
func (r *Router) HandleTopicJoin(msg TopicMessage) {
	if msg.ClientID == "" || msg.TopicID == "" {
		return
	}
	r.mu.Lock()
	session, ok := r.sessions[msg.ClientID]
	if !ok {
		session = Session{ClientID: msg.ClientID, ConnectedAt: time.Now()}
	}
	if !containsTopic(session.Topics, msg.TopicID) {
		session.Topics = append(session.Topics, msg.TopicID)
	}
	r.sessions[msg.ClientID] = session
	r.mu.Unlock()

	log.WithFields(log.Fields{
		"client_id": msg.ClientID,
		"topic_id":  msg.TopicID,
	}).Info("Client joined conversation topic")
}

// HandleTopicLeave removes a conversation topic from the client's session.
func (r *Router) HandleTopicLeave(msg TopicMessage) {
	r.mu.Lock()
	if session, ok := r.sessions[msg.ClientID]; ok {
		kept := session.Topics[:0]
		for _, id := range session.Topics {
			if id != msg.TopicID {
				kept = append(kept, id)
			}
		}
		session.Topics = kept
		r.sessions[msg.ClientID] = session
	}
	r.mu.Unlock()

	log.WithFields(log.Fields{
		"client_id": msg.ClientID,
		"topic_id":  msg.TopicID,
	}).Info("Client left conversation topic")
}

// HandleChat relays a chat message onto its conversation's broadcast
// topic. The payload is re-stamped like every other delivery.
func (r *Router) HandleChat(msg ChatMessage) Delivery {
	return r.deliver(ScopeTopic, ConversationTopic(msg.TopicID), models.RealtimeNotification{
		Type:     models.NotifyChat,
		Title:    msg.Sender,
		Message:  msg.Content,
		Priority: models.PriorityLow,
		UserID:   msg.Sender,
	})
}

// HandleChatAddUser registers the sender on the conversation topic and
// announces the join to everyone already listening.
func (r *Router) HandleChatAddUser(msg ChatMessage) Delivery {
	r.HandleTopicJoin(TopicMessage{ClientID: msg.ClientID, TopicID: msg.TopicID})
	return r.deliver(ScopeTopic, ConversationTopic(msg.TopicID), models.RealtimeNotification{
		Type:     models.NotifyChat,
		Title:    msg.Sender,
		Message:  msg.Sender + " joined the conversation",
		Priority: models.PriorityLow,
		UserID:   msg.Sender,
	})
}

func containsTopic(topics []string, topicID string) bool {
	for _, id := range topics {
		if id == topicID {
			return true
		}
	}
	return false
}

// DropSession removes a client's session; presence ends when the
// underlying connection drops.
func (r *Router) DropSession(clientID string) {
	r.mu.Lock()
	delete(r.sessions, clientID)
	r.mu.Unlock()
}

// Session returns the declared session for a client id.
func (r *Router) Session(clientID string) (Session, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	s, ok := r.sessions[clientID]
	return s, ok
}

// SessionCount returns the number of registered sessions.
func (r *Router) SessionCount() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.sessions)
}
