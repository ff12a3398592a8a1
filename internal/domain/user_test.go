package domain

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewUser(t *testing.T) {
	t.Parallel()

	user, err := NewUser("  maria  ", " maria@example.com ", "password123", "Maria", "Silva")
	require.NoError(t, err)

	assert.NotEqual(t, "", user.ID.String())
	assert.Equal(t, "maria", user.Username, "username should be trimmed")
	assert.Equal(t, "maria@example.com", user.Email, "email should be trimmed")
	assert.Equal(t, "Maria", user.FirstName)
	assert.Equal(t, "Silva", user.LastName)
	assert.False(t, user.CreatedAt.IsZero())
}

func TestUserValidate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		username string
		email    string
		password string
		wantErr  error
	}{
		{
			name:     "valid user",
			username: "joao",
			email:    "joao@example.com",
			password: "password123",
		},
		{
			name:     "empty username",
			username: "",
			email:    "joao@example.com",
			password: "password123",
			wantErr:  ErrEmptyUsername,
		},
		{
			name:     "username too long",
			username: strings.Repeat("a", 151),
			email:    "joao@example.com",
			password: "password123",
			wantErr:  ErrUsernameTooLong,
		},
		{
			name:     "empty email",
			username: "joao",
			email:    "",
			password: "password123",
			wantErr:  ErrEmptyEmail,
		},
		{
			name:     "email without at sign",
			username: "joao",
			email:    "joao.example.com",
			password: "password123",
			wantErr:  ErrInvalidEmail,
		},
		{
			name:     "email without domain dot",
			username: "joao",
			email:    "joao@example",
			password: "password123",
			wantErr:  ErrInvalidEmail,
		},
		{
			name:     "password too short",
			username: "joao",
			email:    "joao@example.com",
			password: "short",
			wantErr:  ErrPasswordTooShort,
		},
		{
			name:     "password too long",
			username: "joao",
			email:    "joao@example.com",
			password: strings.Repeat("p", 73),
			wantErr:  ErrPasswordTooLong,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, err := NewUser(tt.username, tt.email, tt.password, "", "")
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
		})
	}
}

func TestUserValidateStoredUser(t *testing.T) {
	t.Parallel()

	user, err := NewUser("ana", "ana@example.com", "password123", "", "")
	require.NoError(t, err)

	// Simulate the post-hashing state the store persists.
	user.HashedPassword = "$2a$10$abcdefghijklmnopqrstuv"
	user.Password = ""
	assert.NoError(t, user.Validate())

	// A user without either form of password is invalid.
	user.HashedPassword = ""
	assert.ErrorIs(t, user.Validate(), ErrEmptyPassword)
}

func TestUserDisplayName(t *testing.T) {
	t.Parallel()

	withFirst, err := NewUser("pedro", "pedro@example.com", "password123", "Pedro", "Santos")
	require.NoError(t, err)
	assert.Equal(t, "Pedro", withFirst.DisplayName())

	withoutFirst, err := NewUser("pedro2", "pedro2@example.com", "password123", "", "")
	require.NoError(t, err)
	assert.Equal(t, "pedro2", withoutFirst.DisplayName())
}
