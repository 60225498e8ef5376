package linkedin

type sendConnectRequest struct {
	ProfileURL string `json:"profile_url"`
	Note       string `json:"note,omitempty"`
}

type sendMessageRequest struct {
	ProfileURL string `json:"profile_url"`
	Body       string `json:"body"`
}

type apiResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error,omitempty"`
}
