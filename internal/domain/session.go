package domain

// Keys under which the session is persisted in the local store.
// The three keys are always written and removed together.
const (
	StoreKeyToken  = "token"
	StoreKeyUser   = "user"
	StoreKeyUserID = "userId"
)

// SessionKeys lists every persisted session key.
//
//nolint:gochecknoglobals
var SessionKeys = []string{StoreKeyToken, StoreKeyUser, StoreKeyUserID}

// Session is the in-memory authentication state of the client.
type Session struct {
	Token           string
	UserID          string
	Profile         *UserProfile
	IsAuthenticated bool
	IsLoading       bool
	LastError       error
}
