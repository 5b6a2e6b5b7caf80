package auth

import (
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// User is the account model. Every account belongs to exactly one email
// address; the store enforces uniqueness with an exact-match (case
// sensitive) constraint. PasswordHash and VerificationToken never serialize
// to JSON, so API responses cannot leak credentials.
type User struct {
	bun.BaseModel `bun:"table:users,alias:usr"`

	ID        uuid.UUID `bun:"id,pk,nullzero,type:uuid" json:"id,omitempty"`
	FirstName string    `bun:"first_name,notnull" json:"first_name,omitempty"`
	LastName  string    `bun:"last_name,notnull" json:"last_name,omitempty"`
	Email     string    `bun:"email,notnull,unique" json:"email,omitempty"`
	Phone     string    `bun:"phone_number,notnull" json:"phone_number,omitempty"`

	PasswordHash string `bun:"password_hash,notnull" json:"-"`

	// EmailVerified implies VerificationToken is nil; the pair is only ever
	// mutated together, inside the verification update.
	EmailVerified     bool    `bun:"is_email_verified,notnull,default:false" json:"is_email_verified"`
	VerificationToken *string `bun:"verification_token,unique,nullzero" json:"-"`

	LoginAttempts  int        `bun:"login_attempts" json:"login_attempts,omitempty"`
	LoginAttemptAt *time.Time `bun:"login_attempt_at" json:"login_attempt_at,omitempty"`
	LoggedInAt     *time.Time `bun:"loggedin_at" json:"loggedin_at,omitempty"`

	CreatedAt *time.Time `bun:"created_at,nullzero,default:current_timestamp" json:"created_at,omitempty"`
	UpdatedAt *time.Time `bun:"updated_at,nullzero,default:current_timestamp" json:"updated_at,omitempty"`
	DeletedAt *time.Time `bun:"deleted_at,soft_delete,nullzero" json:"deleted_at,omitempty"`
}

// State derives the lifecycle state from the persisted flags.
func (u *User) State() AccountState {
	if u != nil && u.EmailVerified {
		return StateVerified
	}
	return StateUnverified
}

// MarkVerified applies the single allowed mutation: unverified accounts
// become verified and the token is consumed.
func (u *User) MarkVerified() {
	u.EmailVerified = true
	u.VerificationToken = nil
}
