package handlers

import (
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/freshcast/backend-go/internal/service"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

// datasetFields are the multipart field names one upload request may carry,
// imported in this order.
var datasetFields = [...]string{"sales", "products", "weather"}

type DatasetHandler struct {
	datasetService *service.DatasetService
	maxUploadBytes int64
}

func NewDatasetHandler(datasetService *service.DatasetService, maxUploadSizeMB int64) *DatasetHandler {
	if maxUploadSizeMB <= 0 {
		maxUploadSizeMB = 16
	}
	return &DatasetHandler{
		datasetService: datasetService,
		maxUploadBytes: maxUploadSizeMB << 20,
	}
}

// Upload ingests up to three CSV files in one multipart request, one per
// dataset field name. Fields that are absent are skipped; at least one must
// be present.
func (h *DatasetHandler) Upload(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.maxUploadBytes)

	var files []service.DatasetFile
	for _, dataset := range datasetFields {
		file, err := c.FormFile(dataset)
		if err != nil || file.Filename == "" {
			continue
		}
		if file.Size > h.maxUploadBytes {
			c.JSON(http.StatusRequestEntityTooLarge, gin.H{
				"error": fmt.Sprintf("%s file exceeds upload size limit", dataset),
			})
			return
		}
		if !strings.EqualFold(filepath.Ext(file.Filename), ".csv") {
			c.JSON(http.StatusBadRequest, gin.H{
				"error": fmt.Sprintf("invalid file type for %s, only CSV files allowed", dataset),
			})
			return
		}

		data, err := readUpload(file)
		if err != nil {
			log.Error().Err(err).Str("filename", file.Filename).Msg("failed to read uploaded file")
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to read uploaded file"})
			return
		}
		files = append(files, service.DatasetFile{Dataset: dataset, Data: data})
	}

	if len(files) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "no valid files uploaded"})
		return
	}

	uploaded, err := h.datasetService.Upload(c.Request.Context(), files)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":        "Files uploaded successfully",
		"uploaded_files": uploaded,
	})
}

func readUpload(file *multipart.FileHeader) ([]byte, error) {
	src, err := file.Open()
	if err != nil {
		return nil, err
	}
	defer src.Close()

	return io.ReadAll(src)
}
