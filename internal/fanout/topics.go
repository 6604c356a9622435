package fanout

// Topic layout for the real-time channel. The broker performs the
// physical fan-out; one topic exists per addressing scope.
const (
	topicPrefix = "school-transit/notify"

	// SubscribeTopic is the control topic clients publish their
	// subscription declaration to.
	SubscribeTopic = "school-transit/subscribe"

	// Chat and conversation control topics. Clients publish here;
	// the router relays onto the conversation's broadcast topic.
	ChatSendTopic    = "school-transit/chat/send"
	ChatAddUserTopic = "school-transit/chat/add-user"
	TopicJoinTopic   = "school-transit/topic/join"
	TopicLeaveTopic  = "school-transit/topic/leave"

	// AllTopic is the single global broadcast topic.
	AllTopic = topicPrefix + "/all"
)

// UserTopic returns the private topic for a single user.
func UserTopic(userID string) string {
	return topicPrefix + "/user/" + userID
}

// RoleTopic returns the broadcast topic for a role.
func RoleTopic(role string) string {
	return topicPrefix + "/role/" + role
}

// SchoolTopic returns the broadcast topic for a school tenant.
func SchoolTopic(schoolID string) string {
	return topicPrefix + "/school/" + schoolID
}

// ConversationTopic returns the broadcast topic for an ad-hoc
// conversation joined through the topic control messages.
func ConversationTopic(topicID string) string {
	return topicPrefix + "/topic/" + topicID
}
