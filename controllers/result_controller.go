package controllers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/ncerda/simulator-server/config"
	"github.com/ncerda/simulator-server/models"
	"github.com/ncerda/simulator-server/utils"
)

type resultView struct {
	ID       uint   `json:"id"`
	Name     string `json:"name"`
	Score    int    `json:"score"`
	Career   string `json:"career"`
	Order    int    `json:"order"`
	ImageURL string `json:"image_url"`
}

// signResult resolves the stored image key to a signed URL. Results without
// an image pass through with an empty URL.
func signResult(r models.Result) (resultView, error) {
	view := resultView{
		ID:     r.ID,
		Name:   r.Name,
		Score:  r.Score,
		Career: r.Career,
		Order:  r.Order,
	}
	if r.ImageKey == "" {
		return view, nil
	}
	url, err := config.Blob.SignedURL(r.ImageKey)
	if err != nil {
		return view, err
	}
	view.ImageURL = url
	return view, nil
}

/* ========== Create result (multipart: fields + image) ========== */

func CreateResult(c *gin.Context) {
	name := c.PostForm("name")
	career := c.PostForm("career")
	score, _ := strconv.Atoi(c.PostForm("score"))
	order, _ := strconv.Atoi(c.PostForm("order"))
	if name == "" {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"message": "name is required"})
		return
	}

	result := models.Result{Name: name, Score: score, Career: career, Order: order}

	if fileHeader, err := c.FormFile("image"); err == nil {
		f, err := fileHeader.Open()
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"message": "Could not read uploaded file"})
			return
		}
		defer f.Close()

		key := "result/" + fileHeader.Filename
		if err := config.Blob.Put(key, f, fileHeader.Header.Get("Content-Type")); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"message": "storage error: " + err.Error()})
			return
		}
		result.ImageKey = key
	}

	if err := config.DB.Create(&result).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Could not create result"})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"id": result.ID})
}

/* ========== Update result ========== */

func UpdateResult(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid ID"})
		return
	}

	var result models.Result
	if err := config.DB.First(&result, id).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"message": "Result not found"})
		return
	}

	if v := c.PostForm("name"); v != "" {
		result.Name = v
	}
	if v := c.PostForm("career"); v != "" {
		result.Career = v
	}
	if v := c.PostForm("score"); v != "" {
		if score, err := strconv.Atoi(v); err == nil {
			result.Score = score
		}
	}
	if v := c.PostForm("order"); v != "" {
		if order, err := strconv.Atoi(v); err == nil {
			result.Order = order
		}
	}

	if fileHeader, err := c.FormFile("image"); err == nil {
		f, err := fileHeader.Open()
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"message": "Could not read uploaded file"})
			return
		}
		defer f.Close()

		key := "result/" + fileHeader.Filename
		if err := config.Blob.Put(key, f, fileHeader.Header.Get("Content-Type")); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"message": "storage error: " + err.Error()})
			return
		}
		// The previous blob is only removed once the new one is stored.
		if result.ImageKey != "" && result.ImageKey != key {
			if err := config.Blob.Remove([]string{result.ImageKey}); err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"message": "storage error: " + err.Error()})
				return
			}
		}
		result.ImageKey = key
	}

	if err := config.DB.Save(&result).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Could not update result"})
		return
	}

	view, err := signResult(result)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "an error occurred generating signed URLs"})
		return
	}
	c.JSON(http.StatusOK, view)
}

/* ========== Get / list / delete ========== */

func GetResultByID(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid ID"})
		return
	}

	var result models.Result
	if err := config.DB.First(&result, id).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"message": "Result not found"})
		return
	}

	view, err := signResult(result)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "an error occurred generating signed URLs"})
		return
	}
	c.JSON(http.StatusOK, view)
}

func ListResults(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	count, _ := strconv.Atoi(c.DefaultQuery("count", "5"))

	var total int64
	if err := config.DB.Model(&models.Result{}).Count(&total).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Could not list results"})
		return
	}
	p := utils.CalculatePagination(page, count, total)

	var results []models.Result
	if err := config.DB.
		Offset(p.Offset()).Limit(p.Count).
		Order("display_order ASC, score ASC, career ASC, name ASC").
		Find(&results).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Could not list results"})
		return
	}

	views := make([]resultView, 0, len(results))
	for _, r := range results {
		view, err := signResult(r)
		if err != nil {
			// Partial lists are never returned; one signing failure fails the page.
			c.JSON(http.StatusInternalServerError, gin.H{"message": "an error occurred generating signed URLs"})
			return
		}
		views = append(views, view)
	}

	c.JSON(http.StatusOK, gin.H{
		"page":        p.Page,
		"count":       p.Count,
		"total":       p.Total,
		"total_pages": p.TotalPages,
		"data":        views,
	})
}

func DeleteResult(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid ID"})
		return
	}

	var result models.Result
	if err := config.DB.First(&result, id).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"message": "Result not found"})
		return
	}

	if err := config.DB.Delete(&result).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Could not delete result"})
		return
	}
	if result.ImageKey != "" {
		if err := config.Blob.Remove([]string{result.ImageKey}); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"message": "storage error: " + err.Error()})
			return
		}
	}
	c.Status(http.StatusNoContent)
}
