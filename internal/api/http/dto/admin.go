package dto

type TokenRequest struct {
	APIKey string `json:"api_key" binding:"required"`
}

type TokenResponse struct {
	Token string `json:"token"`
}

type RosterRefreshResponse struct {
	Entries int `json:"entries"`
}
