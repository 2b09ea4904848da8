package domain

// AccessToken is a short-lived LINE channel access token. It is acquired for a
// single dispatch and discarded afterwards.
type AccessToken struct {
	AccessToken string
	ExpiresIn   int
	TokenType   string
}

// IsEmpty reports whether the token has no usable value.
func (t *AccessToken) IsEmpty() bool {
	return t == nil || t.AccessToken == ""
}
