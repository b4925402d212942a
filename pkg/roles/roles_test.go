package roles

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHasPermission(t *testing.T) {
	assert.True(t, Admin.HasPermission(User))
	assert.True(t, Admin.HasPermission(Moderator))
	assert.True(t, Moderator.HasPermission(User))
	assert.True(t, User.HasPermission(User))

	assert.False(t, User.HasPermission(Moderator))
	assert.False(t, User.HasPermission(Admin))
	assert.False(t, Moderator.HasPermission(Admin))
}

func TestIsValid(t *testing.T) {
	assert.True(t, User.IsValid())
	assert.True(t, Moderator.IsValid())
	assert.True(t, Admin.IsValid())
	assert.False(t, Role("root").IsValid())
	assert.False(t, Role("").IsValid())
}
