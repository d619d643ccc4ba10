package domain

import (
	"fmt"
	"strings"
)

const (
	CommunityFeedTopic = "community-feed"
	DonationsTopic     = "donations"
)

type TargetKind int

const (
	TargetUnknown TargetKind = iota
	TargetNotifications
	TargetHelpRequest
	TargetFeed
	TargetChat
	TargetDonations
)

func (k TargetKind) String() string {
	switch k {
	case TargetNotifications:
		return "notifications"
	case TargetHelpRequest:
		return "help-request"
	case TargetFeed:
		return "feed"
	case TargetChat:
		return "chat"
	case TargetDonations:
		return "donations"
	default:
		return "unknown"
	}
}

func NotificationsTopic(userID string) string {
	return "notifications:" + userID
}

func HelpRequestTopic(requestID string) string {
	return "help-request:" + requestID
}

func ChatTopic(room string) string {
	return "chat:" + room
}

const (
	GroupRoomPrefix = "group_"
	EventRoomPrefix = "event_"
)

// GroupRoom and EventRoom name the chat rooms attached to groups and events.
func GroupRoom(groupID string) string { return GroupRoomPrefix + groupID }
func EventRoom(eventID string) string { return EventRoomPrefix + eventID }

// Target is a parsed connection target.
type Target struct {
	Kind  TargetKind
	Key   string // userId, requestId or room name; empty for singletons
	Topic string
}

// ParseTarget maps a handshake target such as "notifications/42" or
// "/ws/chat/group_5/" onto its topic.
func ParseTarget(target string) (Target, error) {
	trimmed := strings.Trim(target, "/")
	trimmed = strings.TrimPrefix(trimmed, "ws/")
	if trimmed == "" {
		return Target{}, fmt.Errorf("%w: empty target", ErrUnroutableTarget)
	}

	parts := strings.Split(trimmed, "/")
	family := parts[0]
	args := parts[1:]

	switch family {
	case "feed":
		if len(args) != 0 {
			break
		}
		return Target{Kind: TargetFeed, Topic: CommunityFeedTopic}, nil
	case "donations":
		if len(args) != 0 {
			break
		}
		return Target{Kind: TargetDonations, Topic: DonationsTopic}, nil
	case "notifications":
		if len(args) != 1 || args[0] == "" {
			break
		}
		return Target{Kind: TargetNotifications, Key: args[0], Topic: NotificationsTopic(args[0])}, nil
	case "help-request":
		if len(args) != 1 || args[0] == "" {
			break
		}
		return Target{Kind: TargetHelpRequest, Key: args[0], Topic: HelpRequestTopic(args[0])}, nil
	case "chat":
		if len(args) != 1 || args[0] == "" {
			break
		}
		return Target{Kind: TargetChat, Key: args[0], Topic: ChatTopic(args[0])}, nil
	}

	return Target{}, fmt.Errorf("%w: %q", ErrUnroutableTarget, target)
}
