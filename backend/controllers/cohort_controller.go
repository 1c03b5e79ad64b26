package controllers

import (
	"projecttracker/backend/models"
	"projecttracker/backend/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
	"gorm.io/gorm"
)

type CohortController struct {
	DB     *gorm.DB
	Logger zerolog.Logger
}

func NewCohortController(db *gorm.DB, logger zerolog.Logger) *CohortController {
	return &CohortController{DB: db, Logger: logger}
}

type CreateCohortRequest struct {
	Name             string `json:"name"`
	Description      string `json:"description" validate:"required"`
	StartDate        string `json:"start_date" validate:"required"`
	EndDate          string `json:"end_date" validate:"required"`
	NumberOfStudents *int   `json:"number_of_students" validate:"required"`
}

type UpdateCohortRequest struct {
	Name             *string `json:"name"`
	Description      *string `json:"description"`
	StartDate        *string `json:"start_date"`
	EndDate          *string `json:"end_date"`
	NumberOfStudents *int    `json:"number_of_students"`
}

func (cc *CohortController) load(db *gorm.DB, id uint) (*models.Cohort, error) {
	var cohort models.Cohort
	if err := db.Preload("ProjectMembers").First(&cohort, id).Error; err != nil {
		return nil, err
	}
	return &cohort, nil
}

// GetCohorts godoc
// @Summary List cohorts
// @Tags cohorts
// @Produce json
// @Success 200 {array} models.CohortResponse
// @Router /cohorts [get]
func (cc *CohortController) GetCohorts(c *fiber.Ctx) error {
	var cohorts []models.Cohort
	if err := cc.DB.Preload("ProjectMembers").Order("id").Find(&cohorts).Error; err != nil {
		return respondError(c, cc.Logger, err, "")
	}

	result := make([]models.CohortResponse, 0, len(cohorts))
	for i := range cohorts {
		result = append(result, cohorts[i].ToResponse())
	}
	return c.JSON(result)
}

// CreateCohort godoc
// @Summary Create cohort
// @Tags cohorts
// @Accept json
// @Produce json
// @Param cohort body CreateCohortRequest true "Cohort data"
// @Success 201 {object} models.CohortResponse
// @Failure 400 {object} utils.ErrorResponse
// @Router /cohorts [post]
func (cc *CohortController) CreateCohort(c *fiber.Ctx) error {
	var input CreateCohortRequest
	if handled, err := utils.ParseBody(c, &input); handled {
		return err
	}

	startDate, err := parseDateField("start_date", input.StartDate)
	if err != nil {
		return respondError(c, cc.Logger, err, "")
	}
	endDate, err := parseDateField("end_date", input.EndDate)
	if err != nil {
		return respondError(c, cc.Logger, err, "")
	}

	cohort := models.Cohort{
		Name:             input.Name,
		Description:      input.Description,
		StartDate:        startDate,
		EndDate:          endDate,
		NumberOfStudents: *input.NumberOfStudents,
	}

	if err := cohort.Validate(); err != nil {
		return respondError(c, cc.Logger, err, "")
	}

	if err := cc.DB.Transaction(func(tx *gorm.DB) error {
		return tx.Create(&cohort).Error
	}); err != nil {
		return respondError(c, cc.Logger, err, "")
	}

	return c.Status(fiber.StatusCreated).JSON(cohort.ToResponse())
}

// GetCohort godoc
// @Summary Get cohort
// @Tags cohorts
// @Produce json
// @Param id path int true "Cohort ID"
// @Success 200 {object} models.CohortResponse
// @Failure 404 {object} utils.ErrorResponse
// @Router /cohorts/{id} [get]
func (cc *CohortController) GetCohort(c *fiber.Ctx) error {
	id, ok := parseID(c)
	if !ok {
		return utils.BadRequest(c, "Invalid cohort ID")
	}

	cohort, err := cc.load(cc.DB, id)
	if err != nil {
		return respondError(c, cc.Logger, err, "Cohort not found")
	}

	return c.JSON(cohort.ToResponse())
}

// UpdateCohort godoc
// @Summary Update cohort
// @Description Overwrites only the fields present in the body, then re-validates
// @Tags cohorts
// @Accept json
// @Produce json
// @Param id path int true "Cohort ID"
// @Param cohort body UpdateCohortRequest true "Fields to change"
// @Success 200 {object} models.CohortResponse
// @Failure 400 {object} utils.ErrorResponse
// @Failure 404 {object} utils.ErrorResponse
// @Router /cohorts/{id} [put]
func (cc *CohortController) UpdateCohort(c *fiber.Ctx) error {
	id, ok := parseID(c)
	if !ok {
		return utils.BadRequest(c, "Invalid cohort ID")
	}

	var input UpdateCohortRequest
	if handled, err := utils.ParseBody(c, &input); handled {
		return err
	}

	var updated *models.Cohort
	err := cc.DB.Transaction(func(tx *gorm.DB) error {
		var cohort models.Cohort
		if err := tx.First(&cohort, id).Error; err != nil {
			return err
		}

		if input.Name != nil {
			cohort.Name = *input.Name
		}
		if input.Description != nil {
			cohort.Description = *input.Description
		}
		if input.StartDate != nil {
			d, err := parseDateField("start_date", *input.StartDate)
			if err != nil {
				return err
			}
			cohort.StartDate = d
		}
		if input.EndDate != nil {
			d, err := parseDateField("end_date", *input.EndDate)
			if err != nil {
				return err
			}
			cohort.EndDate = d
		}
		if input.NumberOfStudents != nil {
			cohort.NumberOfStudents = *input.NumberOfStudents
		}

		if err := cohort.Validate(); err != nil {
			return err
		}
		if err := tx.Save(&cohort).Error; err != nil {
			return err
		}

		reloaded, err := cc.load(tx, id)
		if err != nil {
			return err
		}
		updated = reloaded
		return nil
	})
	if err != nil {
		return respondError(c, cc.Logger, err, "Cohort not found")
	}

	return c.JSON(updated.ToResponse())
}

// DeleteCohort godoc
// @Summary Delete cohort
// @Description Removes the cohort and every project member that references it
// @Tags cohorts
// @Param id path int true "Cohort ID"
// @Success 204
// @Failure 404 {object} utils.ErrorResponse
// @Router /cohorts/{id} [delete]
func (cc *CohortController) DeleteCohort(c *fiber.Ctx) error {
	id, ok := parseID(c)
	if !ok {
		return utils.BadRequest(c, "Invalid cohort ID")
	}

	err := cc.DB.Transaction(func(tx *gorm.DB) error {
		var cohort models.Cohort
		if err := tx.First(&cohort, id).Error; err != nil {
			return err
		}
		if err := tx.Where("cohort_id = ?", id).Delete(&models.ProjectMember{}).Error; err != nil {
			return err
		}
		return tx.Delete(&cohort).Error
	})
	if err != nil {
		return respondError(c, cc.Logger, err, "Cohort not found")
	}

	return utils.NoContent(c)
}
