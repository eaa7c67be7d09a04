package response

// DetailResponse is the body of every error reply.
type DetailResponse struct {
	Detail string `json:"detail"`
}

// MessageResponse carries a human-readable outcome, e.g. of assign/revoke.
type MessageResponse struct {
	Message string `json:"message"`
}

// Detail returns an error body wrapping msg.
func Detail(msg string) DetailResponse {
	return DetailResponse{Detail: msg}
}

// Message returns a status body wrapping msg.
func Message(msg string) MessageResponse {
	return MessageResponse{Message: msg}
}
