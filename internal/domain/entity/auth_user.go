package entity

// AuthUser is a credential presented for sign-up or authentication.
type AuthUser struct {
	email         Email
	password      Password
	verifyCode    string
	hasVerifyCode bool
}

// BuildAuthUser parses email then password and returns the first failure as a *AuthUserError.
func BuildAuthUser(email, password string, verifyCode *string) (AuthUser, error) {
	e, err := ParseEmail(email)
	if err != nil {
		return AuthUser{}, authFieldError(err)
	}
	p, err := ParsePassword(password)
	if err != nil {
		return AuthUser{}, authFieldError(err)
	}
	a := AuthUser{email: e, password: p}
	if verifyCode != nil {
		a.verifyCode = *verifyCode
		a.hasVerifyCode = true
	}
	return a, nil
}

func (a AuthUser) Email() Email       { return a.email }
func (a AuthUser) Password() Password { return a.password }

func (a AuthUser) VerifyCode() (string, bool) {
	return a.verifyCode, a.hasVerifyCode
}

// String and GoString keep the password out of formatted output.
func (a AuthUser) String() string {
	return "AuthUser{email: " + a.email.String() + ", password: " + redactedPassword + "}"
}

func (a AuthUser) GoString() string { return a.String() }
