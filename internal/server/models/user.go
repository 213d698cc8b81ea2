package models

// User is a stored account. Email is the primary key. PasswordHash holds a
// bcrypt digest, never the plaintext password.
type User struct {
	Email        string `json:"email"`
	UserName     string `json:"username"`
	PasswordHash string `json:"password"`
}
