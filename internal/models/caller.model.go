package models

// Caller is the authenticated identity attached to a request by the auth
// middleware. Identity management itself lives outside this service; the only
// privilege the core understands is the binary admin flag.
type Caller struct {
	ID      int64 `json:"id"`
	IsAdmin bool  `json:"isAdmin"`
}
