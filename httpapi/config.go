package httpapi

import "pkt.systems/coxswain/schema"

// Config defines HTTP API settings.
type Config struct {
	Addr string
	// UserID is the user requests act as. Placeholder pending real
	// authentication; overridable per request via the X-User header.
	UserID schema.UserID
}
