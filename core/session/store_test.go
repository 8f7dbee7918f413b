package session

import (
	"testing"

	"github.com/trezcool/masomo-admin/core/effects"
)

func TestStore_Reduce(t *testing.T) {
	loggedIn := State{
		Session: Session{Token: "tok", Authenticated: true},
		Profile: Profile{ID: "u1", Name: "Ada", Email: "ada@test.cd"},
	}

	tests := []struct {
		name    string
		initial State
		actions []effects.Action
		want    State
	}{
		{
			name:    "login request starts loading",
			actions: []effects.Action{LoginRequest(Credentials{Identifier: "a", Secret: "b"})},
			want:    State{Loading: true},
		},
		{
			name: "login success",
			actions: []effects.Action{
				LoginRequest(Credentials{}),
				LoginSuccess(TokenResponse{Token: "tok", User: Profile{ID: "u1", Name: "Ada", Email: "ada@test.cd"}}),
			},
			want: loggedIn,
		},
		{name: "login failure resets", initial: loggedIn, actions: []effects.Action{LoginFailure()}, want: State{}},
		{name: "logout resets", initial: loggedIn, actions: []effects.Action{Logout()}, want: State{}},
		{
			name:    "rehydrate with token",
			actions: []effects.Action{PersistRehydrate(Persisted{Auth: &PersistedAuth{Token: "abc"}})},
			want:    State{Session: Session{Token: "abc", Authenticated: true}},
		},
		{name: "rehydrate without token", actions: []effects.Action{PersistRehydrate(Persisted{})}, want: State{}},
		{
			name:    "register update refreshes profile",
			initial: loggedIn,
			actions: []effects.Action{
				RegisterRequest(Account{ID: "u1", Name: "Ada L", Email: "adal@test.cd"}),
				RegisterUpdatedSuccess(Account{Name: "Ada L", Email: "adal@test.cd"}),
			},
			want: State{
				Session: loggedIn.Session,
				Profile: Profile{ID: "u1", Name: "Ada L", Email: "adal@test.cd"},
			},
		},
		{
			name:    "register failure stops loading",
			initial: loggedIn,
			actions: []effects.Action{RegisterRequest(Account{}), RegisterFailure()},
			want:    loggedIn,
		},
		{name: "unknown actions are ignored", initial: loggedIn, actions: []effects.Action{{Type: "@student/SAVED"}}, want: loggedIn},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := &Store{state: tt.initial}
			for _, act := range tt.actions {
				store.Reduce(act)
			}
			if got := store.State(); got != tt.want {
				t.Errorf("State() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestStore_Persisted(t *testing.T) {
	store := NewStore()
	if got := store.Persisted(); got.Auth != nil {
		t.Errorf("Persisted() = %+v, want no auth", got)
	}

	store.Reduce(LoginSuccess(TokenResponse{Token: "tok"}))
	if got := store.Persisted().Token(); got != "tok" {
		t.Errorf("Persisted().Token() = %q, want tok", got)
	}
}
