package api

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/mazi76erX2/trac8-frontend/internal/record"
)

// UserProfileAdapter is the user_profile resource plus the signed-in
// user's own profile and the password reset flow.
type UserProfileAdapter struct {
	*CrudAdapter
}

// NewUserProfileAdapter returns the user profile adapter.
func NewUserProfileAdapter(conn Conn) *UserProfileAdapter {
	return &UserProfileAdapter{CrudAdapter: NewCrudAdapter(conn, ResourceUserProfile, basePaths[ResourceUserProfile])}
}

// GetByUserID returns the profile belonging to a user.
func (a *UserProfileAdapter) GetByUserID(ctx context.Context, userID string) (record.Value, error) {
	if userID == "" {
		return record.Value{}, fmt.Errorf("get user profile: empty user id")
	}
	return a.conn.callValue(ctx, http.MethodGet, a.base+"/user/"+url.PathEscape(userID), nil, "get user profile")
}

// GetOwn returns the caller's profile.
func (a *UserProfileAdapter) GetOwn(ctx context.Context) (record.Value, error) {
	return a.conn.callValue(ctx, http.MethodGet, a.base+"/own", nil, "get own profile")
}

// UpdateOwn saves the caller's profile.
func (a *UserProfileAdapter) UpdateOwn(ctx context.Context, r record.Record) (record.Value, error) {
	return a.conn.callValue(ctx, http.MethodPut, a.base+"/own", r, "update own profile")
}

// ForgotPassword asks the API to mail a reset link to email.
func (a *UserProfileAdapter) ForgotPassword(ctx context.Context, email string) (record.Value, error) {
	if email == "" {
		return record.Value{}, fmt.Errorf("request password reset: empty email")
	}
	body := record.New(record.Field{Name: "email", Value: record.String(email)})
	return a.conn.callValue(ctx, http.MethodPost, "/authenticate/request_reset", body, "request password reset")
}

// ResetPassword submits r authorized by the reset token from the mailed
// link rather than the client's own token.
func (a *UserProfileAdapter) ResetPassword(ctx context.Context, r record.Record, resetToken string) (record.Value, error) {
	if resetToken == "" {
		return record.Value{}, fmt.Errorf("reset password: empty token")
	}
	req, err := a.conn.newRequest(ctx, http.MethodPost, "/authenticate/reset", nil, r)
	if err != nil {
		return record.Value{}, err
	}
	req.Header.Set("Authorization", "Bearer "+resetToken)
	data, err := a.conn.send(req, "reset password")
	if err != nil {
		return record.Value{}, err
	}
	return decodeValue(data, "reset password")
}
