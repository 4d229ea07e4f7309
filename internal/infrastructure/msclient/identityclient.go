package msclient

import (
	"context"

	sharedErrors "nexus/internal/shared/errors"

	"nexus/internal/application/membership/usecases"
)

// IdentityClient resolves user details from the identity service.
type IdentityClient struct {
	client  *Client
	subject string
}

// NewIdentityClient creates an identity service client.
func NewIdentityClient(client *Client, subject string) *IdentityClient {
	return &IdentityClient{client: client, subject: subject}
}

type userInfoResponse struct {
	ID       string `json:"id"`
	Email    string `json:"email"`
	FullName string `json:"full_name"`
	Phone    string `json:"phone"`
}

// GetDetailedInfo fetches a user's profile by ID.
func (c *IdentityClient) GetDetailedInfo(ctx context.Context, userID string) (*usecases.UserInfo, error) {
	var resp userInfoResponse
	err := c.client.request(ctx, c.subject, "users.get_detailed_info", map[string]string{"user_id": userID}, &resp)
	if err != nil {
		return nil, err
	}
	if resp.ID == "" {
		return nil, sharedErrors.NewNotFoundError("user not found")
	}
	return &usecases.UserInfo{
		ID:       resp.ID,
		Email:    resp.Email,
		FullName: resp.FullName,
		Phone:    resp.Phone,
	}, nil
}

// FindByEmail fetches a user's profile by email address.
func (c *IdentityClient) FindByEmail(ctx context.Context, email string) (*usecases.UserInfo, error) {
	var resp userInfoResponse
	err := c.client.request(ctx, c.subject, "users.find_by_email", map[string]string{"email": email}, &resp)
	if err != nil {
		return nil, err
	}
	if resp.ID == "" {
		return nil, sharedErrors.NewNotFoundError("user not found")
	}
	return &usecases.UserInfo{
		ID:       resp.ID,
		Email:    resp.Email,
		FullName: resp.FullName,
		Phone:    resp.Phone,
	}, nil
}
