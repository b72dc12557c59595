package auth

import "context"

const (
	RoleAdmin    = "Admin"
	RoleHR       = "HR"
	RoleEmployee = "Employee"
)

const (
	PermEmployeesRead     = "core.employees.read"
	PermEmployeesWrite    = "core.employees.write"
	PermOrgRead           = "core.org.read"
	PermOrgWrite          = "core.org.write"
	PermStateRefresh      = "state.refresh"
	PermAttendancePunch   = "attendance.punch"
	PermAttendanceRead    = "attendance.read"
	PermPayrollRead       = "payroll.read"
	PermPayrollWrite      = "payroll.write"
	PermPayrollPay        = "payroll.pay"
	PermPayrollPurge      = "payroll.purge"
	PermBankRead          = "bank.read"
	PermBankWrite         = "bank.write"
	PermIntegrityRead     = "integrity.read"
	PermIntegrityRun      = "integrity.run"
	PermAlertsRead        = "alerts.read"
	PermAlertsWrite       = "alerts.write"
	PermAnnouncementsRead = "announcements.read"
	PermAnnouncementsPost = "announcements.write"
	PermTasksRead         = "tasks.read"
	PermTasksWrite        = "tasks.write"
	PermLeaveRead         = "leave.read"
	PermLeaveWrite        = "leave.write"
	PermLeaveApprove      = "leave.approve"
	PermLoansRead         = "loans.read"
	PermLoansWrite        = "loans.write"
	PermReportsRead       = "reports.read"
	PermImportsRun        = "imports.run"
	PermAuditRead         = "audit.read"
)

var DefaultPermissions = []string{
	PermEmployeesRead,
	PermEmployeesWrite,
	PermOrgRead,
	PermOrgWrite,
	PermStateRefresh,
	PermAttendancePunch,
	PermAttendanceRead,
	PermPayrollRead,
	PermPayrollWrite,
	PermPayrollPay,
	PermPayrollPurge,
	PermBankRead,
	PermBankWrite,
	PermIntegrityRead,
	PermIntegrityRun,
	PermAlertsRead,
	PermAlertsWrite,
	PermAnnouncementsRead,
	PermAnnouncementsPost,
	PermTasksRead,
	PermTasksWrite,
	PermLeaveRead,
	PermLeaveWrite,
	PermLeaveApprove,
	PermLoansRead,
	PermLoansWrite,
	PermReportsRead,
	PermImportsRun,
	PermAuditRead,
}

// RolePermissions is the static role matrix. Admin is granted everything
// in DefaultPermissions and is therefore not listed.
var RolePermissions = map[string][]string{
	RoleEmployee: {
		PermOrgRead,
		PermStateRefresh,
		PermAttendancePunch,
		PermAnnouncementsRead,
		PermTasksRead,
		PermTasksWrite,
		PermLeaveRead,
		PermLeaveWrite,
		PermLoansRead,
	},
	RoleHR: {
		PermEmployeesRead,
		PermEmployeesWrite,
		PermOrgRead,
		PermOrgWrite,
		PermStateRefresh,
		PermAttendancePunch,
		PermAttendanceRead,
		PermPayrollRead,
		PermPayrollWrite,
		PermBankRead,
		PermBankWrite,
		PermIntegrityRead,
		PermAlertsRead,
		PermAlertsWrite,
		PermAnnouncementsRead,
		PermAnnouncementsPost,
		PermTasksRead,
		PermTasksWrite,
		PermLeaveRead,
		PermLeaveWrite,
		PermLeaveApprove,
		PermLoansRead,
		PermLoansWrite,
		PermReportsRead,
		PermImportsRun,
	},
}

var validRoles = map[string]struct{}{RoleAdmin: {}, RoleHR: {}, RoleEmployee: {}}

func ValidRole(role string) bool {
	_, ok := validRoles[role]
	return ok
}

// StaticPermissions answers permission checks from RolePermissions.
type StaticPermissions struct{}

func (StaticPermissions) HasPermission(_ context.Context, role, permission string) (bool, error) {
	if role == RoleAdmin {
		return true, nil
	}
	for _, perm := range RolePermissions[role] {
		if perm == permission {
			return true, nil
		}
	}
	return false, nil
}
