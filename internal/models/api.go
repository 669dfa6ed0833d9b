package models

type RegisterRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     Role   `json:"role"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type AuthResponse struct {
	Token     string `json:"token"`
	OwnerID   string `json:"ownerId"`
	Anonymous bool   `json:"anonymous"`
}

type SaveDocumentRequest struct {
	Title   string `json:"title"`
	Content string `json:"content"`
}

// AcceptedResponse is returned for writes that finish in the background.
type AcceptedResponse struct {
	ID     string `json:"id,omitempty"`
	Status string `json:"status"`
}

const StatusPending = "pending"
