package model

import "time"

// Certificate is the accreditation certificate minted when an application
// reaches the accepted status. Certificates are immutable once issued.
type Certificate struct {
	ID            string     `json:"id" db:"id"`
	ApplicationID string     `json:"application_id" db:"application_id"`
	CenterName    string     `json:"center_name" db:"center_name"`
	CenterType    CenterType `json:"center_type" db:"center_type"`
	Serial        string     `json:"serial" db:"serial"`
	VerifyToken   string     `json:"verify_token" db:"verify_token"`
	IssuedAt      time.Time  `json:"issued_at" db:"issued_at"`
	ExpiresAt     time.Time  `json:"expires_at" db:"expires_at"`
}

// Expired reports whether the certificate's validity window has passed.
func (c *Certificate) Expired(now time.Time) bool {
	return now.After(c.ExpiresAt)
}
