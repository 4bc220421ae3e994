package model

import "time"

// User represents an application user record as stored in the `users` table.
// Each field corresponds to a column in the database.  PasswordHash is never
// serialized; handlers define separate response types for user data.
//
// Fields:
//
//	ID           – primary key identifier of the user.
//	Email        – unique email address, stored lowercased.
//	PasswordHash – bcrypt hashed password.
//	FullName     – display name used on documents (invoices, receipts).
//	Phone        – contact number (optional).
//	Role         – "participant" or "admin"; immutable after signup.
//	IsActive     – whether the account is active.
//	CreatedAt    – timestamp of creation.
//	UpdatedAt    – timestamp of last update.
type User struct {
	ID           uint64    // users.id
	Email        string    // users.email
	PasswordHash string    // users.password_hash
	FullName     string    // users.full_name
	Phone        string    // users.phone
	Role         string    // users.role
	IsActive     bool      // users.is_active
	CreatedAt    time.Time // users.created_at
	UpdatedAt    time.Time // users.updated_at
}

// RefreshToken models an entry in the `refresh_tokens` table.  Each refresh
// token belongs to a user and contains metadata for expiry and revocation.
// The plain token is not stored; only its SHA‑256 hash.
type RefreshToken struct {
	ID        uint64     // refresh_tokens.id
	UserID    uint64     // refresh_tokens.user_id
	TokenHash string     // refresh_tokens.token_hash
	ExpiresAt time.Time  // refresh_tokens.expires_at
	RevokedAt *time.Time // refresh_tokens.revoked_at (nullable)
	CreatedAt time.Time  // refresh_tokens.created_at
}
