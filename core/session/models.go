package session

// Session is the authenticated state of the admin client.
type Session struct {
	Token         string
	Authenticated bool
}

// Profile is the account returned alongside a token.
type Profile struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// Credentials is the login input. It is never persisted.
type Credentials struct {
	Identifier string
	Secret     string
	ReturnPath string
}

// Account is the register input. A non-empty ID selects the update path.
type Account struct {
	ID     string
	Name   string
	Email  string
	Secret string
}

func (a Account) IsUpdate() bool { return a.ID != "" }

// TokenResponse is the body of `POST /tokens`.
type TokenResponse struct {
	Token string  `json:"token"`
	User  Profile `json:"user"`
}

// Persisted is the state kept across runs: `{"auth": {"token": "..."}}`.
type Persisted struct {
	Auth *PersistedAuth `json:"auth,omitempty"`
}

type PersistedAuth struct {
	Token string `json:"token,omitempty"`
}

// Token returns the persisted token, or "" when there is none.
func (p Persisted) Token() string {
	if p.Auth == nil {
		return ""
	}
	return p.Auth.Token
}

type (
	tokenRequest struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}

	accountRequest struct {
		Email    string `json:"email"`
		Name     string `json:"name"`
		Password string `json:"password,omitempty"`
	}
)
