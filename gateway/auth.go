package gateway

import "context"

// Credentials is the auth service's successful login payload.
type Credentials struct {
	Token    string `json:"token"`
	Username string `json:"username"`
	Email    string `json:"email"`
}

// AuthAPI is the auth-service slice of the gateway: credential exchange and
// account registration. Login failures surface as *APIError carrying the
// server's display message; no retry is performed.
type AuthAPI struct {
	client *Client
}

func NewAuthAPI(client *Client) *AuthAPI {
	return &AuthAPI{client: client}
}

type loginRequest struct {
	Identifier string `json:"identifier"`
	Password   string `json:"password"`
}

type registerRequest struct {
	Email    string `json:"email"`
	Username string `json:"username"`
	Password string `json:"password"`
}

type messageResponse struct {
	Message string `json:"message"`
}

// Login exchanges credentials for a bearer token and profile.
func (a *AuthAPI) Login(ctx context.Context, identifier, password string) (*Credentials, error) {
	creds := &Credentials{}
	err := a.client.Post(ctx, "/auth/login", loginRequest{
		Identifier: identifier,
		Password:   password,
	}, creds)
	if err != nil {
		return nil, err
	}
	return creds, nil
}

// Register creates an account and returns the server's confirmation message.
// It does not log the new account in.
func (a *AuthAPI) Register(ctx context.Context, email, username, password string) (string, error) {
	var res messageResponse
	err := a.client.Post(ctx, "/auth/register", registerRequest{
		Email:    email,
		Username: username,
		Password: password,
	}, &res)
	if err != nil {
		return "", err
	}
	return res.Message, nil
}
