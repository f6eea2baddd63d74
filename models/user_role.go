package models

type UserRole string

const (
	StudentRole UserRole = "STUDENT_ROLE"
	CompanyRole UserRole = "COMPANY_ROLE"
	AdminRole   UserRole = "ADMIN_ROLE"
)

var roleHumanName = map[UserRole]string{
	StudentRole: "Студент",
	CompanyRole: "Работодатель",
	AdminRole:   "Администратор платформы",
}

func (r UserRole) ToHuman() string {
	if human, exist := roleHumanName[r]; exist {
		return human
	}
	return string(r)
}

func (r UserRole) IsAdmin() bool {
	return r == AdminRole
}
