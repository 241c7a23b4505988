package domain

import (
	"errors"
	"net/mail"
	"strings"
	"time"

	"github.com/google/uuid"
)

// User-specific validation errors
var (
	ErrEmptyUserID        = errors.New("user ID cannot be empty")
	ErrEmptyName          = errors.New("name cannot be empty")
	ErrEmptyEmail         = errors.New("email cannot be empty")
	ErrPasswordTooShort   = errors.New("password must be at least 7 characters long")
	ErrPasswordTooLong    = errors.New("password must be at most 72 characters long")
	ErrPasswordTooObvious = errors.New("password cannot contain the word \"password\"")
	ErrEmptyPassword      = errors.New("password cannot be empty")
	ErrNegativeAge        = errors.New("age must be a non-negative number")
)

// User represents a registered account. The plaintext Password field is only
// populated transiently during signup or a password change; persistence always
// goes through HashedPassword. Neither is ever serialized to JSON, and the
// avatar blob is served through its own endpoint rather than inlined.
type User struct {
	ID             uuid.UUID `json:"id"`
	Name           string    `json:"name"`
	Email          string    `json:"email"`
	Password       string    `json:"-"` // Plaintext, only set during signup/updates
	HashedPassword string    `json:"-"` // Never expose the hash in JSON
	Age            int       `json:"age"`
	Avatar         []byte    `json:"-"` // Served via GET /users/{id}/avatar
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// NewUser creates a new User with the given profile fields and plaintext
// password. It generates a new UUID and sets the creation/update timestamps.
// The caller (in practice the user store) is responsible for hashing the
// password before persistence. Returns an error if validation fails.
func NewUser(name, email, password string, age int) (*User, error) {
	now := time.Now().UTC()
	user := &User{
		ID:        uuid.New(),
		Name:      strings.TrimSpace(name),
		Email:     strings.ToLower(strings.TrimSpace(email)),
		Password:  password,
		Age:       age,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := user.Validate(); err != nil {
		return nil, err
	}

	return user, nil
}

// Validate checks if the User has valid data.
// Returns an error if any field fails validation.
func (u *User) Validate() error {
	if u.ID == uuid.Nil {
		return ErrEmptyUserID
	}

	if u.Name == "" {
		return ErrEmptyName
	}

	if u.Email == "" {
		return ErrEmptyEmail
	}

	if _, err := mail.ParseAddress(u.Email); err != nil {
		return ErrInvalidEmail
	}

	if u.Age < 0 {
		return ErrNegativeAge
	}

	if u.Password != "" {
		return ValidatePassword(u.Password)
	}

	// Without a plaintext password the user must already carry a hash
	// (the case for records read back from the store).
	if u.HashedPassword == "" {
		return ErrEmptyPassword
	}

	return nil
}

// ValidatePassword checks a plaintext password against the account rules:
// between 7 and 72 characters (bcrypt's practical limit) and not containing
// the literal word "password" in any casing.
func ValidatePassword(password string) error {
	if len(password) < 7 {
		return ErrPasswordTooShort
	}
	if len(password) > 72 {
		return ErrPasswordTooLong
	}
	if strings.Contains(strings.ToLower(password), "password") {
		return ErrPasswordTooObvious
	}
	return nil
}
