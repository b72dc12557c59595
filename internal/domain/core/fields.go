package core

import "hrdash/internal/domain/auth"

// FilterEmployeeFields hides salary from anyone other than HR, admins and
// the employee themself.
func FilterEmployeeFields(emp *Employee, user auth.UserContext) {
	switch user.Role {
	case auth.RoleAdmin, auth.RoleHR:
		return
	}
	if user.EmployeeID != "" && user.EmployeeID == emp.ID {
		return
	}
	emp.BasicSalary = 0
}
