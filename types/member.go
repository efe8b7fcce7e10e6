package types

// Member is a contact record in the member directory.
type Member struct {
	// MemberID is the unique, auto-assigned identifier of the member.
	MemberID int `json:"memberID" db:"member_id"`

	// Name is the member's name, unique across the directory.
	Name string `json:"name" db:"name"`

	// Email is the member's email address.
	Email string `json:"email" db:"email"`

	// Phone is the member's phone number.
	Phone string `json:"phone" db:"phone"`
}
