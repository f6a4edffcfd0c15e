package user

import "time"

type User struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"` // never expose hash in JSON
	IsActive     bool      `json:"isActive"`
	IsSuperuser  bool      `json:"isSuperuser"`
	CreatedAt    time.Time `json:"createdAt"`

	// Role names, loaded via the user_roles association.
	Roles []string `json:"roles"`
}

// HasRole reports whether the user carries the named role.
// Superusers pass every role check.
func (u User) HasRole(name string) bool {
	if u.IsSuperuser {
		return true
	}

	for _, r := range u.Roles {
		if r == name {
			return true
		}
	}

	return false
}
