package models

// User is the authenticated account as returned by /auth/login/ and /auth/user/.
type User struct {
	ID        int64  `json:"id"`
	Username  string `json:"username"`
	Email     string `json:"email"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	IsStaff   bool   `json:"is_staff"`
}

func (u User) Validate() error {
	if err := validateID("user", u.ID); err != nil {
		return err
	}
	if u.Username == "" {
		return invalid("user %d has no username", u.ID)
	}
	return nil
}

type Credentials struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type LoginResponse struct {
	Access  string `json:"access"`
	Refresh string `json:"refresh"`
	User    User   `json:"user"`
}

func (r LoginResponse) Validate() error {
	if r.Access == "" || r.Refresh == "" {
		return invalid("login response without tokens")
	}
	return r.User.Validate()
}

type RefreshRequest struct {
	Refresh string `json:"refresh"`
}

type RefreshResponse struct {
	Access string `json:"access"`
}

func (r RefreshResponse) Validate() error {
	if r.Access == "" {
		return invalid("refresh response without access token")
	}
	return nil
}

type PasswordChange struct {
	CurrentPassword string `json:"current_password"`
	NewPassword     string `json:"new_password"`
}

type Registration struct {
	Username  string `json:"username"`
	Email     string `json:"email"`
	Password  string `json:"password"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
}
