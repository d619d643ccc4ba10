package domain

import "time"

// Payload is the closed set of frames pushed to connected clients.
type Payload interface {
	payload()
}

// NotificationPayload is delivered on notifications:{userId}.
type NotificationPayload struct {
	ID              string    `json:"id"`
	Message         string    `json:"message"`
	NotifType       NotifType `json:"notif_type"`
	CreatedAt       time.Time `json:"created_at"`
	RelatedObjectID *string   `json:"related_object_id"`
}

func NewNotificationPayload(n Notification) NotificationPayload {
	return NotificationPayload{
		ID:              n.ID,
		Message:         n.Message,
		NotifType:       n.NotifType,
		CreatedAt:       n.CreatedAt,
		RelatedObjectID: n.RelatedObjectID,
	}
}

const (
	FeedItemHelpRequest   = "new_help_request"
	FeedItemCommunityPost = "new_community_post"
	HelpRequestUpdateType = "help_request_update"
	DonationUpdateType    = "donation_update"
	ErrorType             = "error"
)

// HelpRequestFeedItem flattens the help request next to its type tag.
type HelpRequestFeedItem struct {
	Type string `json:"type"`
	HelpRequest
}

func NewHelpRequestFeedItem(r HelpRequest) HelpRequestFeedItem {
	return HelpRequestFeedItem{Type: FeedItemHelpRequest, HelpRequest: r}
}

type CommunityPostFeedItem struct {
	Type string `json:"type"`
	CommunityPost
}

func NewCommunityPostFeedItem(p CommunityPost) CommunityPostFeedItem {
	return CommunityPostFeedItem{Type: FeedItemCommunityPost, CommunityPost: p}
}

// HelpRequestUpdate is delivered on help-request:{requestId}.
type HelpRequestUpdate struct {
	Type    string `json:"type"`
	ID      string `json:"id"`
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
}

type DonationUpdate struct {
	Type       string `json:"type"`
	Message    string `json:"message"`
	CampaignID int64  `json:"campaign_id"`
}

// ChatPayload is the single canonical chat frame. Sender carries the user id.
type ChatPayload struct {
	Message   string    `json:"message"`
	Sender    *string   `json:"sender"`
	Username  string    `json:"username"`
	Timestamp time.Time `json:"timestamp"`
}

func NewChatPayload(m ChatMessage) ChatPayload {
	return ChatPayload{
		Message:   m.Content,
		Sender:    m.SenderID,
		Username:  m.Username,
		Timestamp: m.Timestamp,
	}
}

// ErrorPayload is only ever written to the session that caused it.
type ErrorPayload struct {
	Type  string `json:"type"`
	Error string `json:"error"`
}

func NewErrorPayload(err error) ErrorPayload {
	return ErrorPayload{Type: ErrorType, Error: err.Error()}
}

func (NotificationPayload) payload()   {}
func (HelpRequestFeedItem) payload()   {}
func (CommunityPostFeedItem) payload() {}
func (HelpRequestUpdate) payload()     {}
func (DonationUpdate) payload()        {}
func (ChatPayload) payload()           {}
func (ErrorPayload) payload()          {}
