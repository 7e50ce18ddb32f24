package remna

// createUserRequest is the Remnawave user-creation payload. The tag,
// status and inbound identifiers must already exist on the panel.
type createUserRequest struct {
	Username           string   `json:"username"`
	Tag                string   `json:"tag"`
	ExpireAt           string   `json:"expireAt"`
	Status             string   `json:"status"`
	ActiveUserInbounds []string `json:"activeUserInbounds"`
}

type subscriptionResponse struct {
	Response struct {
		Links []string `json:"links"`
	} `json:"response"`
}

// CreateResult distinguishes a fresh creation from the idempotent
// "already exists" conflict. Both are success for callers.
type CreateResult int

const (
	Created CreateResult = iota
	AlreadyExists
)

func (r CreateResult) String() string {
	if r == AlreadyExists {
		return "already_exists"
	}
	return "created"
}
