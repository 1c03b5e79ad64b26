package models

import "time"

// ProjectMember ties a named student to one project and one cohort. Rows go
// away with either parent.
type ProjectMember struct {
	ID          uint      `gorm:"primaryKey"`
	ProjectID   uint      `gorm:"not null;index"`
	CohortID    uint      `gorm:"not null;index"`
	StudentName string    `gorm:"size:100;not null"`
	Role        string    `gorm:"size:50"`
	JoinedAt    time.Time `gorm:"not null"`
}

func (m *ProjectMember) Validate() error {
	if shorterThan(m.StudentName, 3) {
		return NewValidationError("Student name must be at least 3 characters long.")
	}
	if shorterThan(m.Role, 3) {
		return NewValidationError("Role must be at least 3 characters long.")
	}
	return nil
}

type ProjectMemberResponse struct {
	ID          uint   `json:"id"`
	StudentName string `json:"student_name"`
	Role        string `json:"role"`
	JoinedAt    string `json:"joined_at"`
	ProjectID   uint   `json:"project_id"`
	CohortID    uint   `json:"cohort_id"`
}

func (m *ProjectMember) ToResponse() ProjectMemberResponse {
	return ProjectMemberResponse{
		ID:          m.ID,
		StudentName: m.StudentName,
		Role:        m.Role,
		JoinedAt:    formatTimestamp(m.JoinedAt),
		ProjectID:   m.ProjectID,
		CohortID:    m.CohortID,
	}
}

func membersToResponse(members []ProjectMember) []ProjectMemberResponse {
	result := make([]ProjectMemberResponse, 0, len(members))
	for i := range members {
		result = append(result, members[i].ToResponse())
	}
	return result
}

// AllModels lists every table in migration order.
func AllModels() []interface{} {
	return []interface{}{
		&User{},
		&Cohort{},
		&Project{},
		&ProjectMember{},
	}
}
