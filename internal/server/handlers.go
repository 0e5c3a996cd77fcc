package server

import (
	"errors"
	"image"
	"log/slog"
	"net/http"
	"path/filepath"
	"strings"

	// Decoders for the accepted upload formats.
	_ "image/jpeg"
	_ "image/png"

	"github.com/gin-gonic/gin"

	"github.com/verdant-labs/cropscan/internal/advice"
	"github.com/verdant-labs/cropscan/internal/model"
)

var allowedExtensions = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
}

type analyzeResponse struct {
	Plant         string         `json:"plant"`
	Disease       string         `json:"disease"`
	Confidence    float64        `json:"confidence"`
	DetailedClass string         `json:"detailed_class"`
	ModelUsed     string         `json:"model_used"`
	Advice        model.Advisory `json:"advice"`
}

func (s *Server) handleRoot(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"message": "cropscan - crop disease detection",
		"status":  "active",
		"endpoints": gin.H{
			"/":        "Get this info",
			"/analyze": `POST - Analyze crop image (file form field "image")`,
			"/health":  "Check server status",
			"/classes": "List supported diseases and mappings (grouped by crop)",
			"/metrics": "Prometheus metrics",
		},
	})
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":             "healthy",
		"model_loaded":       s.cls.ModelLoaded(),
		"supported_diseases": s.cls.Vocabulary().Len(),
	})
}

func (s *Server) handleClasses(c *gin.Context) {
	v := s.cls.Vocabulary()

	adviceMap := make(map[string]model.Advisory)
	for slug, detailed := range v.ClassMap() {
		info := advice.Lookup(slug)
		if len(info.ExampleClasses) == 0 {
			info.ExampleClasses = []string{detailed}
		}
		adviceMap[slug] = info
	}

	c.JSON(http.StatusOK, gin.H{
		"classes":                v.Classes(),
		"plantvillage_to_simple": v.SlugMap(),
		"simple_to_plantvillage": v.ClassMap(),
		"by_plant":               v.ByPlant(),
		"disease_info":           adviceMap,
	})
}

// handleAnalyze validates the upload, classifies it, and attaches advisory
// text. Validation failures never reach the classifier.
func (s *Server) handleAnalyze(c *gin.Context) {
	// Bound ingestion before the multipart body is parsed, so an oversized
	// upload is rejected without being buffered in full.
	if c.Request.ContentLength > s.cfg.MaxUploadBytes {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Image too large"})
		return
	}
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, s.cfg.MaxUploadBytes)

	fileHeader, err := c.FormFile("image")
	if err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Image too large"})
			return
		}
		c.JSON(http.StatusBadRequest, gin.H{"error": "No image uploaded"})
		return
	}
	if fileHeader.Filename == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "No file selected"})
		return
	}
	if !allowedExtensions[strings.ToLower(filepath.Ext(fileHeader.Filename))] {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Please upload JPG or PNG image"})
		return
	}
	if fileHeader.Size > s.cfg.MaxUploadBytes {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Image too large"})
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Could not read uploaded file"})
		return
	}
	defer file.Close()

	img, _, err := image.Decode(file)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Could not decode image"})
		return
	}

	bounds := img.Bounds()
	if bounds.Dx() < s.cfg.MinDimension || bounds.Dy() < s.cfg.MinDimension {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Image too small. Please upload a larger image."})
		return
	}

	result := s.cls.Predict(img)
	predictionsBySource.WithLabelValues(sourceLabel(result)).Inc()

	slog.Info("analyze complete",
		"request_id", requestID(c),
		"file", fileHeader.Filename,
		"plant", result.Plant,
		"disease", result.Disease,
		"confidence", result.Confidence,
		"model_used", result.ModelUsed,
	)

	c.JSON(http.StatusOK, analyzeResponse{
		Plant:         result.Plant,
		Disease:       result.Disease,
		Confidence:    result.Confidence,
		DetailedClass: result.DetailedClass,
		ModelUsed:     result.ModelUsed,
		Advice:        advice.Lookup(result.Disease),
	})
}

func sourceLabel(p model.Prediction) string {
	if p.Source == model.SourceModel {
		return "model"
	}
	return p.ModelUsed
}
