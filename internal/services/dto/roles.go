package dto

import (
	"encoding/json"
	"fmt"

	"proconnect_backend/internal/models"
)

// RoleSelection - набор ролей на границе API.
// Канонические ключи совпадают с models.Role, старые клиенты присылают isEmployer и т.п.
type RoleSelection struct {
	Professional  bool `json:"professional"`
	JobSeeker     bool `json:"jobSeeker"`
	Employer      bool `json:"employer"`
	BusinessOwner bool `json:"businessOwner"`
	Investor      bool `json:"investor"`
	Admin         bool `json:"admin"`
}

// legacyRoleKeys - алиасы, которые принимаются только при разборе запроса
var legacyRoleKeys = map[string]models.Role{
	"isProfessional":  models.RoleProfessional,
	"isJobSeeker":     models.RoleJobSeeker,
	"isEmployer":      models.RoleEmployer,
	"isBusinessOwner": models.RoleBusinessOwner,
	"isInvestor":      models.RoleInvestor,
	"isAdmin":         models.RoleAdmin,
}

// UnknownFieldError - ключ, которого нет в схеме
type UnknownFieldError struct {
	Field string
}

func (e *UnknownFieldError) Error() string {
	return fmt.Sprintf("unknown field %q", e.Field)
}

// FieldTypeError - значение не того типа
type FieldTypeError struct {
	Field    string
	Expected string
}

func (e *FieldTypeError) Error() string {
	return fmt.Sprintf("field %q must be a %s", e.Field, e.Expected)
}

func (r *RoleSelection) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return &FieldTypeError{Field: "roles", Expected: "object"}
	}

	var sel RoleSelection
	for key, value := range raw {
		role := models.Role(key)
		if alias, ok := legacyRoleKeys[key]; ok {
			role = alias
		}
		if !role.IsValid() {
			return &UnknownFieldError{Field: "roles." + key}
		}

		var on bool
		if err := json.Unmarshal(value, &on); err != nil {
			return &FieldTypeError{Field: "roles." + key, Expected: "boolean"}
		}
		// Алиас и канонический ключ вместе: достаточно одного true
		if on {
			sel.set(role)
		}
	}

	*r = sel
	return nil
}

func (r *RoleSelection) set(role models.Role) {
	switch role {
	case models.RoleProfessional:
		r.Professional = true
	case models.RoleJobSeeker:
		r.JobSeeker = true
	case models.RoleEmployer:
		r.Employer = true
	case models.RoleBusinessOwner:
		r.BusinessOwner = true
	case models.RoleInvestor:
		r.Investor = true
	case models.RoleAdmin:
		r.Admin = true
	}
}

// ToRoleSet переводит выбор в модель
func (r RoleSelection) ToRoleSet(userID string) *models.RoleSet {
	return &models.RoleSet{
		UserID:        userID,
		Professional:  r.Professional,
		JobSeeker:     r.JobSeeker,
		Employer:      r.Employer,
		BusinessOwner: r.BusinessOwner,
		Investor:      r.Investor,
		Admin:         r.Admin,
	}
}

func RoleSelectionFromSet(rs *models.RoleSet) RoleSelection {
	if rs == nil {
		return RoleSelection{}
	}
	return RoleSelection{
		Professional:  rs.Professional,
		JobSeeker:     rs.JobSeeker,
		Employer:      rs.Employer,
		BusinessOwner: rs.BusinessOwner,
		Investor:      rs.Investor,
		Admin:         rs.Admin,
	}
}
