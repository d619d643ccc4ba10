package domain

type ctxKey string

const (
	RequesterIdCtxKey       ctxKey = "cc-requesterId"
	RequesterUsernameCtxKey ctxKey = "cc-requesterUsername"
)

const (
	RequesterIdHeader       = "cc-requester-id"
	RequesterUsernameHeader = "cc-requester-username"
)

type NotifType string

const (
	NotifTypeApplication       NotifType = "application"
	NotifTypeEmergency         NotifType = "emergency"
	NotifTypeEvent             NotifType = "event"
	NotifTypeGroup             NotifType = "group"
	NotifTypePost              NotifType = "post"
	NotifTypeApplicationResult NotifType = "application_result"
)

func (t NotifType) Valid() bool {
	switch t {
	case NotifTypeApplication,
		NotifTypeEmergency,
		NotifTypeEvent,
		NotifTypeGroup,
		NotifTypePost,
		NotifTypeApplicationResult:
		return true
	default:
		return false
	}
}

const (
	ApplicationStatusPending  = "pending"
	ApplicationStatusApproved = "approved"
	ApplicationStatusRejected = "rejected"
)

const AnonymousUsername = "Anonymous"
