package dto

// ProvisionRequest is the body of both credential flows. The MAC is
// validated by the workflow, not by binding, so an empty value maps to
// the INVALID_MAC_ADDRESS envelope instead of a bare binding error.
type ProvisionRequest struct {
	MacAddress string `json:"mac_address"`
}

// ErrorResponse is the failure envelope for every endpoint.
type ErrorResponse struct {
	Error     string `json:"error"`
	ErrorCode string `json:"error_code"`
	Timestamp string `json:"timestamp"`
}
