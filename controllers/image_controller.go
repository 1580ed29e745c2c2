package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ncerda/simulator-server/config"
	"github.com/ncerda/simulator-server/models"
)

var validImageTypes = map[string]bool{
	models.ImageTypeQuestion:      true,
	models.ImageTypeJustification: true,
	models.ImageTypeOption:        true,
}

// UploadImage pushes a document image to blob storage under
// "{type}/{filename}". Clients upload before saving the document that
// references the image; the metadata row is created when the question is
// saved.
func UploadImage(c *gin.Context) {
	imageType := c.PostForm("type")
	if !validImageTypes[imageType] {
		c.JSON(http.StatusBadRequest, gin.H{"message": "The type must be one of question, justification, option"})
		return
	}

	fileHeader, err := c.FormFile("image")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "No file uploaded"})
		return
	}

	f, err := fileHeader.Open()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Could not read uploaded file"})
		return
	}
	defer f.Close()

	key := imageType + "/" + fileHeader.Filename
	contentType := fileHeader.Header.Get("Content-Type")
	if err := config.Blob.Put(key, f, contentType); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "storage error: " + err.Error()})
		return
	}

	c.Status(http.StatusNoContent)
}
