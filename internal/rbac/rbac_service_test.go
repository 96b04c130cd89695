package rbac

import (
	"testing"

	"github.com/casbin/casbin/v2"
	"github.com/casbin/casbin/v2/model"
	"github.com/stretchr/testify/assert"
)

type mockRepo struct {
	rows []EmployeeRoleRow
}

func (m *mockRepo) GetEmployeeRoles(companyID string) ([]EmployeeRoleRow, error) {
	return m.rows, nil
}

func newTestEnforcer(t *testing.T) *casbin.Enforcer {
	modelText := `[request_definition]
r = sub, dom, obj, act

[policy_definition]
p = sub, dom, obj, act

[role_definition]
g = _, _, _

[policy_effect]
e = some(where (p.eft == allow))

[matchers]
m = g(r.sub, p.sub, r.dom) && r.dom == p.dom && keyMatch(r.obj, p.obj) && keyMatch(r.act, p.act)
`

	m, err := model.NewModelFromString(modelText)
	assert.NoError(t, err)

	e, err := casbin.NewEnforcer(m)
	assert.NoError(t, err)

	return e
}

func TestRBACService_Enforce(t *testing.T) {
	repo := &mockRepo{rows: []EmployeeRoleRow{
		{EmployeeID: "emp-1", Role: "supervisor"},
		{EmployeeID: "emp-2", Role: "employee"},
		{EmployeeID: "emp-3", Role: "admin"},
	}}
	service := NewService(repo, newTestEnforcer(t))

	// Supervisors may review team reports
	allowed, err := service.Enforce(EnforceRequest{
		EmployeeID: "emp-1",
		CompanyID:  "company-1",
		Resource:   "report",
		Action:     "review",
	})
	assert.NoError(t, err)
	assert.True(t, allowed)

	// Plain employees may not
	allowed, err = service.Enforce(EnforceRequest{
		EmployeeID: "emp-2",
		CompanyID:  "company-1",
		Resource:   "report",
		Action:     "review",
	})
	assert.NoError(t, err)
	assert.False(t, allowed)

	// Admins match everything through the wildcard rule
	allowed, err = service.Enforce(EnforceRequest{
		EmployeeID: "emp-3",
		CompanyID:  "company-1",
		Resource:   "employee",
		Action:     "manage",
	})
	assert.NoError(t, err)
	assert.True(t, allowed)

	// Unknown employees have no grouping policy at all
	allowed, err = service.Enforce(EnforceRequest{
		EmployeeID: "emp-unknown",
		CompanyID:  "company-1",
		Resource:   "report",
		Action:     "read",
	})
	assert.NoError(t, err)
	assert.False(t, allowed)
}
