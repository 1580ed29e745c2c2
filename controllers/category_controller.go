package controllers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/ncerda/simulator-server/config"
	"github.com/ncerda/simulator-server/models"
	"github.com/ncerda/simulator-server/utils"
)

/* ========== Create category ========== */

type categoryReq struct {
	Name            string `json:"name" binding:"required,min=1,max=100"`
	SuperCategoryID *uint  `json:"superCategoryId"`
}

func CreateCategory(c *gin.Context) {
	var req categoryReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"message": err.Error()})
		return
	}

	var count int64
	config.DB.Model(&models.Category{}).Where("name = ?", req.Name).Count(&count)
	if count > 0 {
		c.JSON(http.StatusConflict, gin.H{"message": "Category already exists"})
		return
	}

	category := models.Category{Name: req.Name, SuperCategoryID: req.SuperCategoryID}
	if err := config.DB.Create(&category).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Could not create category"})
		return
	}
	c.JSON(http.StatusCreated, category)
}

/* ========== Update category ========== */

func UpdateCategory(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid ID"})
		return
	}

	var req categoryReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"message": err.Error()})
		return
	}

	var category models.Category
	if err := config.DB.First(&category, id).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"message": "Category not found"})
		return
	}

	category.Name = req.Name
	category.SuperCategoryID = req.SuperCategoryID
	if err := config.DB.Save(&category).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Could not update category"})
		return
	}
	c.JSON(http.StatusOK, category)
}

/* ========== Delete category (questions and subcategories survive) ========== */

// DeleteCategory re-homes the category's questions and subcategories to the
// reserved Uncategorized category, then removes it, all in one transaction.
func DeleteCategory(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid ID"})
		return
	}

	var category models.Category
	if err := config.DB.First(&category, id).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"message": "Category not found"})
		return
	}

	err = config.DB.Transaction(func(tx *gorm.DB) error {
		fallback, err := getOrCreateUncategorized(tx)
		if err != nil {
			return err
		}
		if fallback.ID == category.ID {
			return errors.New("the Uncategorized category cannot be deleted")
		}

		if err := tx.Model(&models.Question{}).
			Where("category_id = ?", category.ID).
			Update("category_id", fallback.ID).Error; err != nil {
			return err
		}
		if err := tx.Model(&models.Category{}).
			Where("super_category_id = ?", category.ID).
			Update("super_category_id", fallback.ID).Error; err != nil {
			return err
		}
		return tx.Delete(&category).Error
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": err.Error()})
		return
	}
	c.Status(http.StatusNoContent)
}

func getOrCreateUncategorized(tx *gorm.DB) (*models.Category, error) {
	var category models.Category
	err := tx.Where("name = ?", models.UncategorizedName).First(&category).Error
	if err == nil {
		return &category, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}
	category = models.Category{Name: models.UncategorizedName}
	if err := tx.Create(&category).Error; err != nil {
		return nil, err
	}
	return &category, nil
}

/* ========== List / get ========== */

type categoryRow struct {
	ID              uint   `json:"id"`
	Name            string `json:"name"`
	SuperCategoryID *uint  `json:"super_category_id"`
	QuestionCount   int64  `json:"question_count"`
}

func ListCategories(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	count, _ := strconv.Atoi(c.DefaultQuery("count", "5"))

	var total int64
	if err := config.DB.Model(&models.Category{}).Count(&total).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Could not list categories"})
		return
	}
	p := utils.CalculatePagination(page, count, total)

	var categories []models.Category
	if err := config.DB.
		Offset(p.Offset()).Limit(p.Count).
		Order("name ASC").
		Find(&categories).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Could not list categories"})
		return
	}

	rows := make([]categoryRow, 0, len(categories))
	for _, cat := range categories {
		var questionCount int64
		config.DB.Model(&models.Question{}).Where("category_id = ?", cat.ID).Count(&questionCount)
		rows = append(rows, categoryRow{
			ID:              cat.ID,
			Name:            cat.Name,
			SuperCategoryID: cat.SuperCategoryID,
			QuestionCount:   questionCount,
		})
	}

	c.JSON(http.StatusOK, gin.H{
		"page":        p.Page,
		"count":       p.Count,
		"total":       p.Total,
		"total_pages": p.TotalPages,
		"data":        rows,
	})
}

func GetCategoryByID(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid ID"})
		return
	}

	var category models.Category
	if err := config.DB.Preload("SuperCategory").First(&category, id).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"message": "Category not found"})
		return
	}

	var questionCount int64
	config.DB.Model(&models.Question{}).Where("category_id = ?", category.ID).Count(&questionCount)

	c.JSON(http.StatusOK, categoryRow{
		ID:              category.ID,
		Name:            category.Name,
		SuperCategoryID: category.SuperCategoryID,
		QuestionCount:   questionCount,
	})
}
