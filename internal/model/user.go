package model

import "time"

// Role values accepted by the service. Registration always produces a
// student; promotion to admin happens through the admin API or the
// createadmin command.
const (
	RoleStudent = "student"
	RoleAdmin   = "admin"
)

// User represents an application user record as stored in the `users`
// table. The json tags match the response contract of the API; the
// password hash is excluded from serialization so projections returned
// by handlers never leak the credential.
//
// Fields:
//  ID           – primary key identifier of the user.
//  Name         – display name.
//  Email        – unique, normalized (lower-cased) email address.
//  Phone        – contact phone number.
//  StudentID    – university roll number or external identifier.
//  PasswordHash – bcrypt hashed password.
//  Role         – "student" or "admin".
//  CreatedAt    – timestamp of creation.
//  UpdatedAt    – timestamp of last update.
type User struct {
	ID           uint64    `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	Phone        string    `json:"phone"`
	StudentID    string    `json:"student_id"`
	PasswordHash string    `json:"-"`
	Role         string    `json:"role"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}
