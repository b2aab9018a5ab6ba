package dto

// SessionResponse describes the identity carried by the caller's token.
type SessionResponse struct {
	UserID int64  `json:"userId"`
	Role   string `json:"role"`
}
