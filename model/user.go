package model

// User is an account on the worship backend.
type User struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Email       string `json:"email"`
	FirebaseUID string `json:"firebaseUid,omitempty"`
	ImageURL    string `json:"imageUrl,omitempty"`
}

// ProfileUpdate carries the editable profile fields.
type ProfileUpdate struct {
	Name     string `json:"name,omitempty"`
	ImageURL string `json:"imageUrl,omitempty"`
}

// LoginResult is returned by the authentication endpoint.
type LoginResult struct {
	Token string `json:"token"`
	User  User   `json:"user"`
}
