package tests

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/dgrijalva/jwt-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trezcool/masomo-admin/apps/api/echo"
	"github.com/trezcool/masomo-admin/tests"
)

func Test_userApi_login(t *testing.T) {
	b := setup()
	usr := testutil.CreateUser(t, b.UserRepo, "Ada Lovelace", "ada@test.cd", "s3cretPass!")

	tests := []httpTest{
		{
			name:     "empty",
			body:     []byte(`{}`),
			wantCode: http.StatusBadRequest,
			wantData: errResponse("this field is required", "this field is required"),
		},
		{
			name:     "unknown email",
			body:     []byte(`{"email": "bob@test.cd", "password": "s3cretPass!"}`),
			wantCode: http.StatusUnauthorized,
			wantData: errResponse("invalid credentials"),
		},
		{
			name:     "wrong password",
			body:     []byte(`{"email": "ada@test.cd", "password": "s3cretPass?"}`),
			wantCode: http.StatusUnauthorized,
			wantData: errResponse("invalid credentials"),
		},
		{
			name:     "malformed body",
			body:     []byte(`{"email": `),
			wantCode: http.StatusBadRequest,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, rec := newRequest(http.MethodPost, "/tokens", tt.body)
			b.App.ServeHTTP(rec, req)
			checkCodeAndData(t, tt, rec)
		})
	}

	t.Run("success", func(t *testing.T) {
		req, rec := newRequest(http.MethodPost, "/tokens", []byte(`{"email": " ADA@test.cd", "password": "s3cretPass!"}`))
		b.App.ServeHTTP(rec, req)
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

		var res echoapi.TokenResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &res))
		assert.Equal(t, echoapi.Account{ID: usr.ID, Name: "Ada Lovelace", Email: "ada@test.cd"}, res.User)

		claims := new(echoapi.Claims)
		token, err := jwt.ParseWithClaims(res.Token, claims, func(*jwt.Token) (interface{}, error) {
			return []byte(b.Conf.Server.SecretKey), nil
		})
		require.NoError(t, err)
		assert.True(t, token.Valid)
		assert.Equal(t, usr.ID, claims.Subject)
		assert.Equal(t, "Masomo", claims.Issuer)

		logged, err := b.Users.GetByID(usr.ID)
		require.NoError(t, err)
		assert.False(t, logged.LastLogin.IsZero())
	})
}

func Test_userApi_create(t *testing.T) {
	b := setup()
	testutil.CreateUser(t, b.UserRepo, "Ada Lovelace", "ada@test.cd", "s3cretPass!")

	tests := []httpTest{
		{
			name:     "empty",
			body:     []byte(`{}`),
			wantCode: http.StatusBadRequest,
			wantData: errResponse("this field is required", "this field is required", "this field is required"),
		},
		{
			name:     "invalid email",
			body:     []byte(`{"name": "Bob", "email": "bob", "password": "s3cretPass!"}`),
			wantCode: http.StatusBadRequest,
			wantData: errResponse("Invalid E-mail."),
		},
		{
			name:     "duplicate email",
			body:     []byte(`{"name": "Bob", "email": "ADA@test.cd", "password": "s3cretPass!"}`),
			wantCode: http.StatusBadRequest,
			wantData: errResponse("a user with this email already exists"),
		},
		{
			name:     "short password",
			body:     []byte(`{"name": "Bob", "email": "bob@test.cd", "password": "s3cret"}`),
			wantCode: http.StatusBadRequest,
			wantData: errResponse("password must contain at least 8 characters"),
		},
		{
			name:     "spaced password",
			body:     []byte(`{"name": "Bob", "email": "bob@test.cd", "password": "s3cret Pass"}`),
			wantCode: http.StatusBadRequest,
			wantData: errResponse("password must not contain whitespace"),
		},
		{
			name:     "numeric password",
			body:     []byte(`{"name": "Bob", "email": "bob@test.cd", "password": "1234567890"}`),
			wantCode: http.StatusBadRequest,
			wantData: errResponse("password cannot be entirely numeric"),
		},
		{
			name:     "password similar to name",
			body:     []byte(`{"name": "Grace Hopper", "email": "grace@test.cd", "password": "gracehopper1"}`),
			wantCode: http.StatusBadRequest,
			wantData: errResponse("password cannot be similar to user attributes"),
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, rec := newRequest(http.MethodPost, "/users", tt.body)
			b.App.ServeHTTP(rec, req)
			checkCodeAndData(t, tt, rec)
		})
	}

	t.Run("success", func(t *testing.T) {
		req, rec := newRequest(http.MethodPost, "/users", []byte(`{"name": " Bob ", "email": "Bob@test.cd", "password": "s3cretPass!"}`))
		b.App.ServeHTTP(rec, req)
		require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

		var acc echoapi.Account
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &acc))
		assert.NotEmpty(t, acc.ID)
		assert.Equal(t, "Bob", acc.Name)
		assert.Equal(t, "bob@test.cd", acc.Email)

		usr, err := b.Users.Authenticate("bob@test.cd", "s3cretPass!")
		require.NoError(t, err)
		assert.Equal(t, acc.ID, usr.ID)
	})
}

func Test_userApi_update(t *testing.T) {
	b := setup()
	ada := testutil.CreateUser(t, b.UserRepo, "Ada Lovelace", "ada@test.cd", "s3cretPass!")
	testutil.CreateUser(t, b.UserRepo, "Bob", "bob@test.cd", "s3cretPass!")
	token := b.Token(t, ada)

	tests := []httpTest{
		{
			name:     "no token",
			body:     []byte(`{"name": "Ada"}`),
			wantCode: http.StatusUnauthorized,
			wantData: errMissingToken,
		},
		{
			name:     "invalid token",
			body:     []byte(`{"name": "Ada"}`),
			token:    "not-a-token",
			wantCode: http.StatusUnauthorized,
			wantData: errResponse("invalid or expired jwt"),
		},
		{
			name:     "email taken",
			body:     []byte(`{"email": "bob@test.cd"}`),
			token:    token,
			wantCode: http.StatusBadRequest,
			wantData: errResponse("a user with this email already exists"),
		},
		{
			name:     "name only",
			body:     []byte(`{"name": "Augusta Ada"}`),
			token:    token,
			wantCode: http.StatusOK,
			wantData: marchallObj(t, echoapi.Account{ID: ada.ID, Name: "Augusta Ada", Email: "ada@test.cd"}),
		},
		{
			name:     "same email",
			body:     []byte(`{"name": "Augusta Ada", "email": "ada@test.cd"}`),
			token:    token,
			wantCode: http.StatusOK,
			wantData: marchallObj(t, echoapi.Account{ID: ada.ID, Name: "Augusta Ada", Email: "ada@test.cd"}),
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, rec := newAuthRequest(http.MethodPut, "/users", tt.token, tt.body)
			b.App.ServeHTTP(rec, req)
			checkCodeAndData(t, tt, rec)
		})
	}

	t.Run("password omitted keeps the password", func(t *testing.T) {
		_, err := b.Users.Authenticate("ada@test.cd", "s3cretPass!")
		assert.NoError(t, err)
	})

	t.Run("password changed", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodPut, "/users", token, []byte(`{"password": "n3wSecret!"}`))
		b.App.ServeHTTP(rec, req)
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

		_, err := b.Users.Authenticate("ada@test.cd", "n3wSecret!")
		assert.NoError(t, err)
	})
}

func Test_userApi_retrieve(t *testing.T) {
	b := setup()
	ada := testutil.CreateUser(t, b.UserRepo, "Ada Lovelace", "ada@test.cd", "s3cretPass!")
	ghost := ada
	ghost.ID = "ghost"

	tests := []httpTest{
		{name: "no token", wantCode: http.StatusUnauthorized, wantData: errMissingToken},
		{name: "unknown user", token: b.Token(t, ghost), wantCode: http.StatusUnauthorized, wantData: errResponse("user not authenticated")},
		{
			name:     "me",
			token:    b.Token(t, ada),
			wantCode: http.StatusOK,
			wantData: marchallObj(t, echoapi.Account{ID: ada.ID, Name: ada.Name, Email: ada.Email}),
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, rec := newAuthRequest(http.MethodGet, "/users/me", tt.token)
			b.App.ServeHTTP(rec, req)
			checkCodeAndData(t, tt, rec)
		})
	}
}
