package models

import (
	"strings"
	"time"
)

type Project struct {
	ID             uint            `gorm:"primaryKey"`
	Name           string          `gorm:"size:100;not null"`
	Description    string          `gorm:"type:text;not null"`
	GithubURL      string          `gorm:"size:200;not null"`
	Type           string          `gorm:"size:50;not null"`
	ImageURL       *string         `gorm:"size:255"`
	CreatedAt      time.Time       `gorm:"autoCreateTime"`
	ProjectMembers []ProjectMember `gorm:"foreignKey:ProjectID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
}

func (p *Project) Validate() error {
	if shorterThan(p.Name, 3) {
		return NewValidationError("Project name must be at least 3 characters long.")
	}
	if shorterThan(p.Description, 10) {
		return NewValidationError("Description must be at least 10 characters long.")
	}
	if !strings.HasPrefix(p.GithubURL, "http") {
		return NewValidationError("Invalid GitHub URL format.")
	}
	return nil
}

type ProjectResponse struct {
	ID             uint                    `json:"id"`
	Name           string                  `json:"name"`
	Description    string                  `json:"description"`
	GithubURL      string                  `json:"github_url"`
	Type           string                  `json:"type"`
	ImageURL       *string                 `json:"image_url"`
	CreatedAt      string                  `json:"created_at"`
	ProjectMembers []ProjectMemberResponse `json:"project_members"`
}

func (p *Project) ToResponse() ProjectResponse {
	return ProjectResponse{
		ID:             p.ID,
		Name:           p.Name,
		Description:    p.Description,
		GithubURL:      p.GithubURL,
		Type:           p.Type,
		ImageURL:       p.ImageURL,
		CreatedAt:      formatTimestamp(p.CreatedAt),
		ProjectMembers: membersToResponse(p.ProjectMembers),
	}
}
