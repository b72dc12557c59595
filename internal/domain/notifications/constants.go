package notifications

const (
	TypePayroll      = "PAYROLL"
	TypeLeave        = "LEAVE"
	TypeMission      = "MISSION"
	TypeTask         = "TASK"
	TypeAnnouncement = "ANNOUNCEMENT"
	TypeSecurity     = "SECURITY"
	TypeGeneral      = "GENERAL"
)
