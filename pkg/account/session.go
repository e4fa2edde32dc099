package account

// Session describes the authentication state the wizard runs under. The zero
// value is an anonymous visitor.
type Session struct {
	Authenticated bool
	Email         string
	CustomerID    string
	Token         string
}

// Anonymous is the session for a visitor with no account.
func Anonymous() Session {
	return Session{}
}
