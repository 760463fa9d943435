package application

import "github.com/oksasatya/go-ddd-identity/internal/domain/entity"

// UserDocument is the flat form of a User used by caches, the search index and HTTP.
type UserDocument struct {
	UserID          string `json:"user_id"`
	Email           string `json:"email"`
	Name            string `json:"name"`
	UserType        int    `json:"user_type"`
	ProfileIconPath string `json:"profile_icon_path,omitempty"`
}

func DocumentFromUser(u entity.User) UserDocument {
	doc := UserDocument{
		UserID:   u.ID().String(),
		Email:    u.Email().String(),
		Name:     u.Name().String(),
		UserType: u.UserType().Code(),
	}
	if p, ok := u.ProfileIconPath(); ok {
		doc.ProfileIconPath = p
	}
	return doc
}

// ToUser rebuilds the aggregate, validating every field again.
func (d UserDocument) ToUser() (entity.User, error) {
	var icon *string
	if d.ProfileIconPath != "" {
		icon = &d.ProfileIconPath
	}
	return entity.BuildUser(d.UserID, d.Email, d.Name, d.UserType, icon)
}
