package dto

type InviteRequest struct {
	Emails []string `json:"emails"`
}

type InviteResult struct {
	Email   string `json:"email"`
	Success bool   `json:"success"`
	Error   string `json:"error,omitempty"`
}

type InviteResponse struct {
	Message string         `json:"message"`
	Results []InviteResult `json:"results"`
}
