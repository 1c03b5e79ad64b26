package controllers

import (
	"fmt"
	"projecttracker/backend/models"
	"projecttracker/backend/utils"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
	"gorm.io/gorm"
)

type ProjectMemberController struct {
	DB     *gorm.DB
	Logger zerolog.Logger
}

func NewProjectMemberController(db *gorm.DB, logger zerolog.Logger) *ProjectMemberController {
	return &ProjectMemberController{DB: db, Logger: logger}
}

type CreateProjectMemberRequest struct {
	ProjectID   uint    `json:"project_id" validate:"required"`
	CohortID    uint    `json:"cohort_id" validate:"required"`
	StudentName string  `json:"student_name"`
	Role        string  `json:"role"`
	JoinedAt    *string `json:"joined_at"`
}

type UpdateProjectMemberRequest struct {
	ProjectID   *uint   `json:"project_id"`
	CohortID    *uint   `json:"cohort_id"`
	StudentName *string `json:"student_name"`
	Role        *string `json:"role"`
	JoinedAt    *string `json:"joined_at"`
}

// checkParents gives a readable error for dangling references instead of
// leaning on whatever the driver reports for the foreign key.
func checkParents(tx *gorm.DB, projectID, cohortID uint) error {
	var count int64
	if err := tx.Model(&models.Project{}).Where("id = ?", projectID).Count(&count).Error; err != nil {
		return err
	}
	if count == 0 {
		return models.NewValidationError(fmt.Sprintf("Project %d does not exist.", projectID))
	}
	if err := tx.Model(&models.Cohort{}).Where("id = ?", cohortID).Count(&count).Error; err != nil {
		return err
	}
	if count == 0 {
		return models.NewValidationError(fmt.Sprintf("Cohort %d does not exist.", cohortID))
	}
	return nil
}

// GetProjectMembers godoc
// @Summary List project members
// @Tags project_members
// @Produce json
// @Success 200 {array} models.ProjectMemberResponse
// @Router /project_members [get]
func (mc *ProjectMemberController) GetProjectMembers(c *fiber.Ctx) error {
	var members []models.ProjectMember
	if err := mc.DB.Order("id").Find(&members).Error; err != nil {
		return respondError(c, mc.Logger, err, "")
	}

	result := make([]models.ProjectMemberResponse, 0, len(members))
	for i := range members {
		result = append(result, members[i].ToResponse())
	}
	return c.JSON(result)
}

// CreateProjectMember godoc
// @Summary Add a student to a project
// @Tags project_members
// @Accept json
// @Produce json
// @Param member body CreateProjectMemberRequest true "Member data"
// @Success 201 {object} models.ProjectMemberResponse
// @Failure 400 {object} utils.ErrorResponse
// @Router /project_members [post]
func (mc *ProjectMemberController) CreateProjectMember(c *fiber.Ctx) error {
	var input CreateProjectMemberRequest
	if handled, err := utils.ParseBody(c, &input); handled {
		return err
	}

	joinedAt := time.Now().UTC()
	if input.JoinedAt != nil && *input.JoinedAt != "" {
		d, err := parseDateField("joined_at", *input.JoinedAt)
		if err != nil {
			return respondError(c, mc.Logger, err, "")
		}
		joinedAt = d
	}

	member := models.ProjectMember{
		ProjectID:   input.ProjectID,
		CohortID:    input.CohortID,
		StudentName: input.StudentName,
		Role:        input.Role,
		JoinedAt:    joinedAt,
	}

	if err := member.Validate(); err != nil {
		return respondError(c, mc.Logger, err, "")
	}

	if err := mc.DB.Transaction(func(tx *gorm.DB) error {
		if err := checkParents(tx, member.ProjectID, member.CohortID); err != nil {
			return err
		}
		return tx.Create(&member).Error
	}); err != nil {
		return respondError(c, mc.Logger, err, "")
	}

	return c.Status(fiber.StatusCreated).JSON(member.ToResponse())
}

// GetProjectMember godoc
// @Summary Get project member
// @Tags project_members
// @Produce json
// @Param id path int true "Project member ID"
// @Success 200 {object} models.ProjectMemberResponse
// @Failure 404 {object} utils.ErrorResponse
// @Router /project_members/{id} [get]
func (mc *ProjectMemberController) GetProjectMember(c *fiber.Ctx) error {
	id, ok := parseID(c)
	if !ok {
		return utils.BadRequest(c, "Invalid project member ID")
	}

	var member models.ProjectMember
	if err := mc.DB.First(&member, id).Error; err != nil {
		return respondError(c, mc.Logger, err, "Project member not found")
	}

	return c.JSON(member.ToResponse())
}

// UpdateProjectMember godoc
// @Summary Update project member
// @Description Overwrites only the fields present in the body, then re-validates
// @Tags project_members
// @Accept json
// @Produce json
// @Param id path int true "Project member ID"
// @Param member body UpdateProjectMemberRequest true "Fields to change"
// @Success 200 {object} models.ProjectMemberResponse
// @Failure 400 {object} utils.ErrorResponse
// @Failure 404 {object} utils.ErrorResponse
// @Router /project_members/{id} [put]
func (mc *ProjectMemberController) UpdateProjectMember(c *fiber.Ctx) error {
	id, ok := parseID(c)
	if !ok {
		return utils.BadRequest(c, "Invalid project member ID")
	}

	var input UpdateProjectMemberRequest
	if handled, err := utils.ParseBody(c, &input); handled {
		return err
	}

	var member models.ProjectMember
	err := mc.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&member, id).Error; err != nil {
			return err
		}

		if input.ProjectID != nil {
			member.ProjectID = *input.ProjectID
		}
		if input.CohortID != nil {
			member.CohortID = *input.CohortID
		}
		if input.StudentName != nil {
			member.StudentName = *input.StudentName
		}
		if input.Role != nil {
			member.Role = *input.Role
		}
		if input.JoinedAt != nil && *input.JoinedAt != "" {
			d, err := parseDateField("joined_at", *input.JoinedAt)
			if err != nil {
				return err
			}
			member.JoinedAt = d
		}

		if err := member.Validate(); err != nil {
			return err
		}
		if input.ProjectID != nil || input.CohortID != nil {
			if err := checkParents(tx, member.ProjectID, member.CohortID); err != nil {
				return err
			}
		}
		return tx.Save(&member).Error
	})
	if err != nil {
		return respondError(c, mc.Logger, err, "Project member not found")
	}

	return c.JSON(member.ToResponse())
}

// DeleteProjectMember godoc
// @Summary Delete project member
// @Tags project_members
// @Param id path int true "Project member ID"
// @Success 204
// @Failure 404 {object} utils.ErrorResponse
// @Router /project_members/{id} [delete]
func (mc *ProjectMemberController) DeleteProjectMember(c *fiber.Ctx) error {
	id, ok := parseID(c)
	if !ok {
		return utils.BadRequest(c, "Invalid project member ID")
	}

	err := mc.DB.Transaction(func(tx *gorm.DB) error {
		var member models.ProjectMember
		if err := tx.First(&member, id).Error; err != nil {
			return err
		}
		return tx.Delete(&member).Error
	})
	if err != nil {
		return respondError(c, mc.Logger, err, "Project member not found")
	}

	return utils.NoContent(c)
}
