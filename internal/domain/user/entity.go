package user

type Role string

const (
	// RolePayroll covers the DP/HR staff that prepares and finalizes payroll.
	RolePayroll Role = "payroll"
	// RoleFinance covers the treasury staff that consumes remittance files.
	RoleFinance Role = "finance"
	RoleAdmin   Role = "admin"
)

type Permission string

const (
	PermissionFinalizePeriod     Permission = "period:finalize"
	PermissionReopenPeriod       Permission = "period:reopen"
	PermissionGenerateRemittance Permission = "remittance:generate"
)

var rolePermissions = map[Role][]Permission{
	RolePayroll: {
		PermissionFinalizePeriod,
	},
	RoleFinance: {
		PermissionReopenPeriod,
		PermissionGenerateRemittance,
	},
	RoleAdmin: {
		PermissionFinalizePeriod,
		PermissionReopenPeriod,
		PermissionGenerateRemittance,
	},
}

// HasPermission checks if a role grants the given permission.
func HasPermission(role Role, permission Permission) bool {
	for _, p := range rolePermissions[role] {
		if p == permission {
			return true
		}
	}
	return false
}
