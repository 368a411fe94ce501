package models

import "time"

type Role string

const (
	RoleProfessional  Role = "professional"
	RoleJobSeeker     Role = "jobSeeker"
	RoleEmployer      Role = "employer"
	RoleBusinessOwner Role = "businessOwner"
	RoleInvestor      Role = "investor"
	RoleAdmin         Role = "admin"
)

// AllRoles - фиксированный словарь ролей платформы
var AllRoles = []Role{
	RoleProfessional,
	RoleJobSeeker,
	RoleEmployer,
	RoleBusinessOwner,
	RoleInvestor,
	RoleAdmin,
}

func (r Role) IsValid() bool {
	for _, known := range AllRoles {
		if r == known {
			return true
		}
	}
	return false
}

// Column - имя колонки флага в user_roles
func (r Role) Column() string {
	switch r {
	case RoleProfessional:
		return "professional"
	case RoleJobSeeker:
		return "job_seeker"
	case RoleEmployer:
		return "employer"
	case RoleBusinessOwner:
		return "business_owner"
	case RoleInvestor:
		return "investor"
	case RoleAdmin:
		return "admin"
	}
	return ""
}

// RoleSet - набор ролей аккаунта (1:1 с Account).
// В БД хранится шестью флагами, в коде работаем только через Has/Set/Roles.
type RoleSet struct {
	UserID        string    `gorm:"type:varchar(128);primaryKey" json:"-"`
	Professional  bool      `gorm:"not null" json:"professional"`
	JobSeeker     bool      `gorm:"not null" json:"jobSeeker"`
	Employer      bool      `gorm:"not null" json:"employer"`
	BusinessOwner bool      `gorm:"not null" json:"businessOwner"`
	Investor      bool      `gorm:"not null" json:"investor"`
	Admin         bool      `gorm:"not null" json:"admin"`
	UpdatedAt     time.Time `json:"-"`
}

func (RoleSet) TableName() string {
	return "user_roles"
}

func NewRoleSet(userID string, roles ...Role) *RoleSet {
	rs := &RoleSet{UserID: userID}
	for _, r := range roles {
		rs.Set(r, true)
	}
	return rs
}

func (rs *RoleSet) flag(role Role) *bool {
	switch role {
	case RoleProfessional:
		return &rs.Professional
	case RoleJobSeeker:
		return &rs.JobSeeker
	case RoleEmployer:
		return &rs.Employer
	case RoleBusinessOwner:
		return &rs.BusinessOwner
	case RoleInvestor:
		return &rs.Investor
	case RoleAdmin:
		return &rs.Admin
	}
	return nil
}

func (rs *RoleSet) Has(role Role) bool {
	if rs == nil {
		return false
	}
	if f := rs.flag(role); f != nil {
		return *f
	}
	return false
}

func (rs *RoleSet) Set(role Role, on bool) {
	if f := rs.flag(role); f != nil {
		*f = on
	}
}

// Roles возвращает роли в порядке AllRoles
func (rs *RoleSet) Roles() []Role {
	roles := make([]Role, 0, len(AllRoles))
	for _, r := range AllRoles {
		if rs.Has(r) {
			roles = append(roles, r)
		}
	}
	return roles
}

func (rs *RoleSet) HasNonAdminRole() bool {
	for _, r := range rs.Roles() {
		if r != RoleAdmin {
			return true
		}
	}
	return false
}
