package model

import "time"

// Roles accepted by the API.  Passengers book for themselves; agents
// operate the console on behalf of passengers.
const (
    RolePassenger = "PASSENGER"
    RoleAgent     = "AGENT"
)

// User represents an application user record as stored in the
// `users` table.  Each field corresponds to a column in the database.
// Handlers define separate response types with JSON tags.
//
// Fields:
//  ID           – primary key identifier of the user.
//  Username     – unique, lower-cased login name.
//  PasswordHash – bcrypt hashed password.
//  Role         – PASSENGER or AGENT.
//  CreatedAt    – timestamp of creation.
type User struct {
    ID           uint64    // users.id
    Username     string    // users.username
    PasswordHash string    // users.password_hash
    Role         string    // users.role
    CreatedAt    time.Time // users.created_at
}
