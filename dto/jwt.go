package dto

// Identity is the authenticated learner attached to a request.
type Identity struct {
	UserID string `json:"userId"`
	Email  string `json:"email,omitempty"`
}

type TokenPair struct {
	AccessToken string `json:"access_token"`
	ExpiresIn   int64  `json:"expires_in"`
}
