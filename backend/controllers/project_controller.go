package controllers

import (
	"projecttracker/backend/models"
	"projecttracker/backend/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
	"gorm.io/gorm"
)

type ProjectController struct {
	DB     *gorm.DB
	Logger zerolog.Logger
}

func NewProjectController(db *gorm.DB, logger zerolog.Logger) *ProjectController {
	return &ProjectController{DB: db, Logger: logger}
}

type CreateProjectRequest struct {
	Name        string  `json:"name"`
	Description string  `json:"description"`
	GithubURL   string  `json:"github_url"`
	Type        string  `json:"type" validate:"required"`
	ImageURL    *string `json:"image_url"`
}

type UpdateProjectRequest struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
	GithubURL   *string `json:"github_url"`
	Type        *string `json:"type"`
	ImageURL    *string `json:"image_url"`
}

func (pc *ProjectController) load(db *gorm.DB, id uint) (*models.Project, error) {
	var project models.Project
	if err := db.Preload("ProjectMembers").First(&project, id).Error; err != nil {
		return nil, err
	}
	return &project, nil
}

// GetProjects godoc
// @Summary List projects
// @Tags projects
// @Produce json
// @Success 200 {array} models.ProjectResponse
// @Router /projects [get]
func (pc *ProjectController) GetProjects(c *fiber.Ctx) error {
	var projects []models.Project
	if err := pc.DB.Preload("ProjectMembers").Order("id").Find(&projects).Error; err != nil {
		return respondError(c, pc.Logger, err, "")
	}

	result := make([]models.ProjectResponse, 0, len(projects))
	for i := range projects {
		result = append(result, projects[i].ToResponse())
	}
	return c.JSON(result)
}

// CreateProject godoc
// @Summary Create project
// @Tags projects
// @Accept json
// @Produce json
// @Param project body CreateProjectRequest true "Project data"
// @Success 201 {object} models.ProjectResponse
// @Failure 400 {object} utils.ErrorResponse
// @Router /projects [post]
func (pc *ProjectController) CreateProject(c *fiber.Ctx) error {
	var input CreateProjectRequest
	if handled, err := utils.ParseBody(c, &input); handled {
		return err
	}

	project := models.Project{
		Name:        input.Name,
		Description: input.Description,
		GithubURL:   input.GithubURL,
		Type:        input.Type,
		ImageURL:    input.ImageURL,
	}

	if err := project.Validate(); err != nil {
		return respondError(c, pc.Logger, err, "")
	}

	if err := pc.DB.Transaction(func(tx *gorm.DB) error {
		return tx.Create(&project).Error
	}); err != nil {
		return respondError(c, pc.Logger, err, "")
	}

	return c.Status(fiber.StatusCreated).JSON(project.ToResponse())
}

// GetProject godoc
// @Summary Get project
// @Tags projects
// @Produce json
// @Param id path int true "Project ID"
// @Success 200 {object} models.ProjectResponse
// @Failure 404 {object} utils.ErrorResponse
// @Router /projects/{id} [get]
func (pc *ProjectController) GetProject(c *fiber.Ctx) error {
	id, ok := parseID(c)
	if !ok {
		return utils.BadRequest(c, "Invalid project ID")
	}

	project, err := pc.load(pc.DB, id)
	if err != nil {
		return respondError(c, pc.Logger, err, "Project not found")
	}

	return c.JSON(project.ToResponse())
}

// UpdateProject godoc
// @Summary Update project
// @Description Overwrites only the fields present in the body, then re-validates
// @Tags projects
// @Accept json
// @Produce json
// @Param id path int true "Project ID"
// @Param project body UpdateProjectRequest true "Fields to change"
// @Success 200 {object} models.ProjectResponse
// @Failure 400 {object} utils.ErrorResponse
// @Failure 404 {object} utils.ErrorResponse
// @Router /projects/{id} [put]
func (pc *ProjectController) UpdateProject(c *fiber.Ctx) error {
	id, ok := parseID(c)
	if !ok {
		return utils.BadRequest(c, "Invalid project ID")
	}

	var input UpdateProjectRequest
	if handled, err := utils.ParseBody(c, &input); handled {
		return err
	}

	var updated *models.Project
	err := pc.DB.Transaction(func(tx *gorm.DB) error {
		var project models.Project
		if err := tx.First(&project, id).Error; err != nil {
			return err
		}

		if input.Name != nil {
			project.Name = *input.Name
		}
		if input.Description != nil {
			project.Description = *input.Description
		}
		if input.GithubURL != nil {
			project.GithubURL = *input.GithubURL
		}
		if input.Type != nil {
			project.Type = *input.Type
		}
		if input.ImageURL != nil {
			project.ImageURL = input.ImageURL
		}

		if err := project.Validate(); err != nil {
			return err
		}
		if err := tx.Save(&project).Error; err != nil {
			return err
		}

		reloaded, err := pc.load(tx, id)
		if err != nil {
			return err
		}
		updated = reloaded
		return nil
	})
	if err != nil {
		return respondError(c, pc.Logger, err, "Project not found")
	}

	return c.JSON(updated.ToResponse())
}

// DeleteProject godoc
// @Summary Delete project
// @Description Removes the project and its project members
// @Tags projects
// @Param id path int true "Project ID"
// @Success 204
// @Failure 404 {object} utils.ErrorResponse
// @Router /projects/{id} [delete]
func (pc *ProjectController) DeleteProject(c *fiber.Ctx) error {
	id, ok := parseID(c)
	if !ok {
		return utils.BadRequest(c, "Invalid project ID")
	}

	err := pc.DB.Transaction(func(tx *gorm.DB) error {
		var project models.Project
		if err := tx.First(&project, id).Error; err != nil {
			return err
		}
		if err := tx.Where("project_id = ?", id).Delete(&models.ProjectMember{}).Error; err != nil {
			return err
		}
		return tx.Delete(&project).Error
	})
	if err != nil {
		return respondError(c, pc.Logger, err, "Project not found")
	}

	return utils.NoContent(c)
}
