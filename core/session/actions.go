package session

import "github.com/trezcool/masomo-admin/core/effects"

// Action types.
const (
	TypeLoginRequest           = "@auth/LOGIN_REQUEST"
	TypeLoginSuccess           = "@auth/LOGIN_SUCCESS"
	TypeLoginFailure           = "@auth/LOGIN_FAILURE"
	TypeRegisterRequest        = "@auth/REGISTER_REQUEST"
	TypeRegisterCreatedSuccess = "@auth/REGISTER_CREATED_SUCCESS"
	TypeRegisterUpdatedSuccess = "@auth/REGISTER_UPDATED_SUCCESS"
	TypeRegisterFailure        = "@auth/REGISTER_FAILURE"
	TypeLogout                 = "@auth/LOGOUT"
	TypePersistRehydrate       = "persist/REHYDRATE"
)

func LoginRequest(creds Credentials) effects.Action {
	if creds.ReturnPath == "" {
		creds.ReturnPath = "/"
	}
	return effects.Action{Type: TypeLoginRequest, Payload: creds}
}

func LoginSuccess(resp TokenResponse) effects.Action {
	return effects.Action{Type: TypeLoginSuccess, Payload: resp}
}

func LoginFailure() effects.Action {
	return effects.Action{Type: TypeLoginFailure}
}

func RegisterRequest(acc Account) effects.Action {
	return effects.Action{Type: TypeRegisterRequest, Payload: acc}
}

func RegisterCreatedSuccess(acc Account) effects.Action {
	return effects.Action{Type: TypeRegisterCreatedSuccess, Payload: acc}
}

func RegisterUpdatedSuccess(acc Account) effects.Action {
	return effects.Action{Type: TypeRegisterUpdatedSuccess, Payload: acc}
}

func RegisterFailure() effects.Action {
	return effects.Action{Type: TypeRegisterFailure}
}

func Logout() effects.Action {
	return effects.Action{Type: TypeLogout}
}

func PersistRehydrate(state Persisted) effects.Action {
	return effects.Action{Type: TypePersistRehydrate, Payload: state}
}
