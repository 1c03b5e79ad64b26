package models

import "time"

type Cohort struct {
	ID               uint            `gorm:"primaryKey"`
	Name             string          `gorm:"size:50;uniqueIndex;not null"`
	Description      string          `gorm:"size:100;not null"`
	StartDate        time.Time       `gorm:"type:date;not null"`
	EndDate          time.Time       `gorm:"type:date;not null"`
	NumberOfStudents int             `gorm:"not null"`
	ProjectMembers   []ProjectMember `gorm:"foreignKey:CohortID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
}

func (c *Cohort) Validate() error {
	if shorterThan(c.Name, 3) {
		return NewValidationError("Cohort name must be at least 3 characters long.")
	}
	if c.NumberOfStudents <= 0 {
		return NewValidationError("Cohort must have a positive number of students.")
	}
	return nil
}

type CohortResponse struct {
	ID               uint                    `json:"id"`
	Name             string                  `json:"name"`
	Description      string                  `json:"description"`
	StartDate        string                  `json:"start_date"`
	EndDate          string                  `json:"end_date"`
	NumberOfStudents int                     `json:"number_of_students"`
	ProjectMembers   []ProjectMemberResponse `json:"project_members"`
}

func (c *Cohort) ToResponse() CohortResponse {
	return CohortResponse{
		ID:               c.ID,
		Name:             c.Name,
		Description:      c.Description,
		StartDate:        formatDate(c.StartDate),
		EndDate:          formatDate(c.EndDate),
		NumberOfStudents: c.NumberOfStudents,
		ProjectMembers:   membersToResponse(c.ProjectMembers),
	}
}
