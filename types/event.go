package types

import "time"

// Member event kinds published to the audit channel.
const (
	EventMemberCreated = "member.created"
	EventMemberUpdated = "member.updated"
	EventMemberDeleted = "member.deleted"
)

// MemberEvent records a change to the members table.
type MemberEvent struct {
	ID         string    `json:"id"`
	Kind       string    `json:"kind"`
	MemberID   int       `json:"memberID"`
	Name       string    `json:"name,omitempty"`
	Actor      string    `json:"actor"`
	OccurredAt time.Time `json:"occurred_at"`
}
