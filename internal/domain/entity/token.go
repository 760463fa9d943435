package entity

// Token is the credential pair issued by a successful authentication.
// Its contents are opaque to the domain.
type Token struct {
	jwt     string
	refresh string
}

func NewToken(jwt, refresh string) Token {
	return Token{jwt: jwt, refresh: refresh}
}

func (t Token) JWT() string     { return t.jwt }
func (t Token) Refresh() string { return t.refresh }
