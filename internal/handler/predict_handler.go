package handler

import (
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/fleveque/foodninja-api/internal/model"
	"github.com/fleveque/foodninja-api/internal/service"
)

// PredictHandler accepts an uploaded food photo and returns the
// classification, gated by confidence.
type PredictHandler struct {
	predictions *service.PredictionService
	maxUpload   int64
	logger      *zap.Logger
}

// NewPredictHandler creates a PredictHandler. Request bodies larger than
// maxUpload bytes are rejected with 413.
func NewPredictHandler(predictions *service.PredictionService, maxUpload int64, logger *zap.Logger) *PredictHandler {
	return &PredictHandler{
		predictions: predictions,
		maxUpload:   maxUpload,
		logger:      logger,
	}
}

// Predict classifies the multipart "image" part.
// Route: POST /predict
func (h *PredictHandler) Predict(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.maxUpload)

	upload, err := h.readUpload(c)
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			c.JSON(http.StatusRequestEntityTooLarge, gin.H{
				"error": fmt.Sprintf("file too large, maximum is %d MB", h.maxUpload>>20),
			})
			return
		}
		h.writeValidation(c, err)
		return
	}

	result, err := h.predictions.Predict(c.Request.Context(), upload)
	if err != nil {
		var verr *service.ValidationError
		if errors.As(err, &verr) {
			c.JSON(http.StatusBadRequest, gin.H{"error": verr.Message})
			return
		}
		h.logger.Error("prediction failed",
			zap.String("filename", upload.Filename),
			zap.Error(err),
		)
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Internal server error during prediction",
		})
		return
	}

	c.JSON(http.StatusOK, PredictionResponse(result))
}

func (h *PredictHandler) writeValidation(c *gin.Context, err error) {
	msg := err.Error()
	var verr *service.ValidationError
	if errors.As(err, &verr) {
		msg = verr.Message
	}
	c.JSON(http.StatusBadRequest, gin.H{"error": msg})
}

// readUpload extracts the "image" part. Oversized bodies surface as
// *http.MaxBytesError.
func (h *PredictHandler) readUpload(c *gin.Context) (service.Upload, error) {
	file, header, err := c.Request.FormFile("image")
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return service.Upload{}, err
		}
		// A part sent without a filename is parsed as a plain form value.
		if form := c.Request.MultipartForm; form != nil && len(form.Value["image"]) > 0 {
			return service.Upload{}, &service.ValidationError{Message: "No image selected"}
		}
		return service.Upload{}, &service.ValidationError{Message: "No image uploaded"}
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		return service.Upload{}, fmt.Errorf("reading upload: %w", err)
	}
	return service.Upload{Filename: header.Filename, Data: data}, nil
}

// PredictionResponse renders a result in the shape the web frontend expects.
func PredictionResponse(r *model.PredictionResult) gin.H {
	switch r.Outcome {
	case model.OutcomeLowConfidence:
		low := r.LowConfidence
		return gin.H{
			"low_confidence": true,
			"min_confidence": r.Threshold,
			"food_name":      low.Top.Label,
			"probability":    low.Top.Confidence,
			"alternatives":   low.Alternatives,
			"message":        low.Advisory,
			"nutrition":      nil,
			"ai_answer":      low.Guidance,
		}
	case model.OutcomeConfident:
		conf := r.Confident
		var nutrition any
		if conf.Nutrition != nil {
			nutrition = conf.Nutrition
		}
		return gin.H{
			"food_name":      conf.Top.Label,
			"probability":    conf.Top.Confidence,
			"nutrition":      nutrition,
			"ai_answer":      conf.Narrative,
			"low_confidence": false,
			"min_confidence": r.Threshold,
		}
	default:
		return gin.H{
			"no_food_detected": true,
			"error":            service.NoFoodText,
		}
	}
}
