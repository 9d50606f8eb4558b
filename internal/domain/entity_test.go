package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEntityValidate(t *testing.T) {
	tests := []struct {
		name    string
		entity  Entity
		wantErr error
	}{
		{
			name:   "valid group",
			entity: Entity{Type: EntityTypeGroup, Title: "Sharks", Status: EntityStatusPublish},
		},
		{
			name:    "unknown type",
			entity:  Entity{Type: "lesson", Status: EntityStatusPublish},
			wantErr: ErrInvalidEntityType,
		},
		{
			name:    "unknown status",
			entity:  Entity{Type: EntityTypeLevel, Status: "pending"},
			wantErr: ErrInvalidEntityStatus,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.entity.Validate()
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestIsWeekday(t *testing.T) {
	for _, d := range Weekdays {
		assert.True(t, IsWeekday(d), d)
	}
	assert.False(t, IsWeekday("Funday"))
	assert.False(t, IsWeekday("monday")) // case-sensitive, matches stored form
}

func TestIsValidDimension(t *testing.T) {
	assert.True(t, IsValidDimension(DimensionCamp))
	assert.True(t, IsValidDimension(DimensionAnimal))
	assert.False(t, IsValidDimension("color"))
}

func TestNewUser(t *testing.T) {
	user, err := NewUser("coach@example.com", "a-long-enough-password")
	require.NoError(t, err)
	assert.NotEmpty(t, user.ID)
	assert.Equal(t, "coach@example.com", user.Email)
}

func TestNewUserValidation(t *testing.T) {
	_, err := NewUser("", "a-long-enough-password")
	assert.ErrorIs(t, err, ErrEmptyEmail)

	_, err = NewUser("not-an-email", "a-long-enough-password")
	assert.ErrorIs(t, err, ErrInvalidEmail)

	_, err = NewUser("coach@example.com", "short")
	assert.ErrorIs(t, err, ErrPasswordTooShort)
}
