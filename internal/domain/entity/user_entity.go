package entity

// User is the aggregate root for the user profile.
// Values are immutable: the With* methods return modified copies.
type User struct {
	id              UserID
	email           Email
	name            Name
	userType        UserType
	profileIconPath string
	hasProfileIcon  bool
}

// BuildUser parses every field in order (id, email, name, user type) and
// returns the first failure as a *UserError.
func BuildUser(id, email, name string, userType int, profileIconPath *string) (User, error) {
	uid, err := ParseUserID(id)
	if err != nil {
		return User{}, userFieldError(err)
	}
	return buildUser(uid, email, name, userType, profileIconPath)
}

// NewUser builds a user with a freshly generated id.
func NewUser(email, name string, userType int, profileIconPath *string) (User, error) {
	return buildUser(NewUserID(), email, name, userType, profileIconPath)
}

func buildUser(id UserID, email, name string, userType int, profileIconPath *string) (User, error) {
	e, err := ParseEmail(email)
	if err != nil {
		return User{}, userFieldError(err)
	}
	n, err := ParseName(name)
	if err != nil {
		return User{}, userFieldError(err)
	}
	t, err := ParseUserType(userType)
	if err != nil {
		return User{}, userFieldError(err)
	}
	u := User{id: id, email: e, name: n, userType: t}
	if profileIconPath != nil {
		u.profileIconPath = *profileIconPath
		u.hasProfileIcon = true
	}
	return u, nil
}

func (u User) ID() UserID         { return u.id }
func (u User) Email() Email       { return u.email }
func (u User) Name() Name         { return u.name }
func (u User) UserType() UserType { return u.userType }

// ProfileIconPath returns the icon path and whether one is set.
func (u User) ProfileIconPath() (string, bool) {
	return u.profileIconPath, u.hasProfileIcon
}

func (u User) WithName(name string) (User, error) {
	n, err := ParseName(name)
	if err != nil {
		return User{}, userFieldError(err)
	}
	u.name = n
	return u, nil
}

func (u User) WithUserType(code int) (User, error) {
	t, err := ParseUserType(code)
	if err != nil {
		return User{}, userFieldError(err)
	}
	u.userType = t
	return u, nil
}

func (u User) WithProfileIconPath(path string) User {
	u.profileIconPath = path
	u.hasProfileIcon = true
	return u
}
