package domain

const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// User as stored in the record store. The password hash never serializes
// into API responses.
type User struct {
	ID        int    `json:"id"`
	Email     string `json:"email"`
	Password  string `json:"-"`
	Role      string `json:"role"`
	CreatedAt string `json:"createdAt"`
}

// Identity is the verified caller derived from a bearer token, scoped to
// one request and never persisted.
type Identity struct {
	UserID int
	Email  string
	Role   string
}

func (i Identity) IsAdmin() bool { return i.Role == RoleAdmin }

// UserFromRecord maps a raw store record onto a User, including the
// password hash for in-process credential checks.
func UserFromRecord(r map[string]any) User {
	return User{
		ID:        intField(r, "id"),
		Email:     stringField(r, "email"),
		Password:  stringField(r, "password"),
		Role:      stringField(r, "role"),
		CreatedAt: stringField(r, "createdAt"),
	}
}
