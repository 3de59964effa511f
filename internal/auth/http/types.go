package http

// CredentialsRequest is the body of both register and login.
type CredentialsRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}
