package session

import (
	"context"

	"spendbook/internal/api"
	"spendbook/internal/core"
)

// APIAuth adapts the REST auth service to the Authenticator port.
type APIAuth struct {
	Auth *api.AuthService
}

func (a APIAuth) Login(ctx context.Context, username, password string) (string, error) {
	resp, err := a.Auth.Login(ctx, username, password)
	if err != nil {
		return "", err
	}
	return resp.AccessToken, nil
}

func (a APIAuth) CurrentUser(ctx context.Context) (core.User, error) {
	return a.Auth.CurrentUser(ctx)
}
