package types

// Access tiers. Each tier includes everything below it.
const (
	AccessNone   = 0
	AccessRead   = 1
	AccessWrite  = 2
	AccessDelete = 3
)

// Credential is a login account. Credentials are only consulted at login
// and are never exposed through the member API.
type Credential struct {
	// Username is the unique login name.
	Username string `json:"username" db:"username"`

	// PasswordHash stores the bcrypt hash of the account password.
	// Never exposed in API responses.
	PasswordHash string `json:"-" db:"password_hash"`

	// AccessRights is the account's access tier (0-3).
	AccessRights int `json:"access_rights" db:"access_rights"`
}

// Identity is the authenticated principal recovered from a verified token.
type Identity struct {
	Username     string `json:"username"`
	AccessRights int    `json:"access_rights"`
}
