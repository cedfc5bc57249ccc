package auth

import (
	"testing"

	"github.com/mbdelmundo/thesisdesk/internal/app/models"
	"github.com/stretchr/testify/assert"
)

func TestZeroRoleSetAllowsNothing(t *testing.T) {
	var set RoleSet
	for _, role := range []models.Role{models.RoleStudent, models.RoleStaff, models.RoleFaculty, models.RoleAdmin} {
		assert.False(t, set.Contains(role))
	}
}

func TestAnyRoleAllowsEveryRole(t *testing.T) {
	set := AnyRole()
	for _, role := range []models.Role{models.RoleStudent, models.RoleStaff, models.RoleFaculty, models.RoleAdmin} {
		assert.True(t, set.Contains(role))
	}
	assert.Nil(t, set.Roles())
}

func TestOneOf(t *testing.T) {
	set := OneOf(models.RoleStaff, models.RoleAdmin)
	assert.True(t, set.Contains(models.RoleStaff))
	assert.True(t, set.Contains(models.RoleAdmin))
	assert.False(t, set.Contains(models.RoleStudent))
	assert.False(t, set.Contains(models.RoleFaculty))
	assert.ElementsMatch(t, []models.Role{models.RoleStaff, models.RoleAdmin}, set.Roles())
}

func TestNamedGates(t *testing.T) {
	assert.False(t, Staff().Contains(models.RoleFaculty), "faculty cannot manage the directory")
	assert.True(t, Staff().Contains(models.RoleStaff))

	assert.True(t, AdminOnly().Contains(models.RoleAdmin))
	assert.False(t, AdminOnly().Contains(models.RoleStaff))

	assert.True(t, Advising().Contains(models.RoleFaculty))
	assert.True(t, Advising().Contains(models.RoleStaff))
	assert.True(t, Advising().Contains(models.RoleAdmin))
	assert.False(t, Advising().Contains(models.RoleStudent))
}
