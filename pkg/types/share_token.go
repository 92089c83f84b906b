package types

import "time"

// ShareToken is the access-policy envelope behind every sharing link. The
// token itself is the capability: whoever presents it gets whatever the
// policy allows, independent of any account.
type ShareToken struct {
	ID           int64  `json:"id" db:"id"`
	Kind         string `json:"kind" db:"kind"`                   // which resource table the token resolves into
	ResourceID   string `json:"resource_id" db:"resource_id"`     // id of the shared record
	Token        string `json:"token" db:"token"`                 // >=128 bit crypto-random, unique across kinds
	PasswordHash string `json:"-" db:"password_hash"`             // bcrypt, empty when the link is not password protected
	ExpireAt     int64  `json:"expire_at" db:"expire_at"`         // unix seconds, 0 means the link never expires
	MaxViews     int    `json:"max_views" db:"max_views"`         // 0 means unlimited
	ViewCount    int    `json:"view_count" db:"view_count"`       // increments exactly once per successful validation
	IssuedBy     string `json:"issued_by" db:"issued_by"`         // staff principal that created the link
	CreatedAt    int64  `json:"created_at" db:"created_at"`
}

const (
	SHARE_KIND_LETTER = "letter"
	SHARE_KIND_PLAN   = "plan"
	SHARE_KIND_BUNDLE = "bundle"
)

func (s *ShareToken) Expired(now time.Time) bool {
	return s.ExpireAt > 0 && s.ExpireAt <= now.Unix()
}

func (s *ShareToken) ViewsExhausted() bool {
	return s.MaxViews > 0 && s.ViewCount >= s.MaxViews
}

// SharePolicy carries the optional constraints a staff member attaches when
// issuing a link.
type SharePolicy struct {
	Password string // plain text, hashed before storage
	ExpireAt int64
	MaxViews int
}
