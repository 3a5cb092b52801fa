package handlers

import (
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/democodex/mcp-server-automation/internal/models"
	"github.com/democodex/mcp-server-automation/internal/services"
)

const maxUploadSize = 100 * 1024 * 1024

func GenerateDockerfile(c *gin.Context) {
	file, header, err := c.Request.FormFile("zip")
	if err != nil {
		c.JSON(http.StatusBadRequest, models.DockerfileResponse{
			Success: false,
			Message: "No zip file provided",
		})
		return
	}
	defer file.Close()

	if header.Size > maxUploadSize {
		c.JSON(http.StatusBadRequest, models.DockerfileResponse{
			Success: false,
			Message: "File size exceeds 100MB limit",
		})
		return
	}

	fileContent, err := io.ReadAll(io.LimitReader(file, maxUploadSize))
	if err != nil {
		c.JSON(http.StatusInternalServerError, models.DockerfileResponse{
			Success: false,
			Message: "Failed to read uploaded file",
		})
		return
	}

	processor := services.NewZipProcessor()
	result, err := processor.ProcessZip(fileContent)
	if err != nil {
		logrus.WithError(err).WithField("filename", header.Filename).Warn("dockerfile generation failed")
		c.JSON(http.StatusBadRequest, models.DockerfileResponse{
			Success: false,
			Message: err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, result)
}
