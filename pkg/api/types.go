package api

// ErrorResponse is the JSON body for every failed request.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
	Code    int    `json:"code"`
}

// HealthResponse reports server liveness.
type HealthResponse struct {
	Status  string `json:"status"`
	Version string `json:"version"`
	Uptime  string `json:"uptime"`
}

// TokenResponse carries issued tokens after registration, login, or refresh.
type TokenResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	ExpiresIn    int64  `json:"expires_in"`
	UserID       int64  `json:"user_id"`
}

// RefreshRequest carries a refresh token exchange.
type RefreshRequest struct {
	RefreshToken string `json:"refresh_token"`
}

// deletedResponse acknowledges a delete.
type deletedResponse struct {
	Deleted int64 `json:"deleted"`
}
