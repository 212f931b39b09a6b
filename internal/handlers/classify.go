// internal/handlers/classify.go
package handlers

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"texthunter-back/internal/apierr"
	"texthunter-back/internal/middleware"
	"texthunter-back/internal/models"
	"texthunter-back/internal/predictor"
	"texthunter-back/internal/sanitize"
)

const defaultModel = "naive_bayes_bow"

type ClassifyRequest struct {
	Text  string `json:"text"`
	Model string `json:"model"`
}

type CompareRequest struct {
	Text string `json:"text"`
}

type SavePredictionRequest struct {
	InputText        string  `json:"input_text"`
	Prediction       string  `json:"prediction"`
	HumanProbability float64 `json:"human_probability"`
	AIProbability    float64 `json:"ai_probability"`
	ModelName        string  `json:"model_name"`
}

func ListModels() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"models": predictor.ModelNames})
	}
}

func Classify(p *predictor.Predictor) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req ClassifyRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			apierr.Respond(c, apierr.New(http.StatusBadRequest, apierr.CodeValidation, err))
			return
		}

		if strings.TrimSpace(req.Text) == "" {
			apierr.Respond(c, apierr.Validation(map[string]string{"text": "Please enter some text."}))
			return
		}
		if req.Model == "" {
			req.Model = defaultModel
		}

		text := sanitize.Sanitize(req.Text)

		result, err := p.Predict(c.Request.Context(), text, req.Model)
		if err != nil {
			respondPredictionError(c, err)
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"text":   text,
			"model":  req.Model,
			"result": result,
		})
	}
}

func Compare(p *predictor.Predictor) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req CompareRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			apierr.Respond(c, apierr.New(http.StatusBadRequest, apierr.CodeValidation, err))
			return
		}

		if strings.TrimSpace(req.Text) == "" {
			apierr.Respond(c, apierr.Validation(map[string]string{"text": "Please enter some text."}))
			return
		}

		text := sanitize.Sanitize(req.Text)

		results, err := p.PredictAll(c.Request.Context(), text)
		if err != nil {
			respondPredictionError(c, err)
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"text":    text,
			"results": results,
		})
	}
}

// SavePrediction persists a classification outcome for the logged-in user.
// Results are only written when the user explicitly asks for it.
func SavePrediction(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.GetUint(middleware.CtxUserID)

		var req SavePredictionRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			apierr.Respond(c, apierr.New(http.StatusBadRequest, apierr.CodeValidation, err))
			return
		}

		fields := map[string]string{}
		if strings.TrimSpace(req.InputText) == "" {
			fields["input_text"] = "Input text is required."
		}
		if strings.TrimSpace(req.Prediction) == "" {
			fields["prediction"] = "Prediction is required."
		}
		if strings.TrimSpace(req.ModelName) == "" {
			fields["model_name"] = "Model name is required."
		}
		if len(fields) > 0 {
			apierr.Respond(c, apierr.Validation(fields))
			return
		}

		record := models.PredictionRecord{
			UserID:           userID,
			InputText:        req.InputText,
			Prediction:       req.Prediction,
			HumanProbability: req.HumanProbability,
			AIProbability:    req.AIProbability,
			ModelName:        req.ModelName,
			AnalyzedAt:       time.Now().UTC(),
		}

		if err := db.Create(&record).Error; err != nil {
			apierr.Respond(c, err)
			return
		}

		c.JSON(http.StatusCreated, record)
	}
}

func GetHistory(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.GetUint(middleware.CtxUserID)

		var records []models.PredictionRecord
		if err := db.Where("user_id = ?", userID).
			Order("analyzed_at DESC").
			Limit(50).
			Find(&records).Error; err != nil {
			apierr.Respond(c, err)
			return
		}

		c.JSON(http.StatusOK, records)
	}
}

// respondPredictionError collapses every bridge failure into one generic
// client message. The bridge has already logged the diagnostic detail;
// stderr and parse errors never reach the client.
func respondPredictionError(c *gin.Context, err error) {
	var launchErr *predictor.LaunchError
	var procErr *predictor.ProcessError
	var malErr *predictor.MalformedOutputError

	status := http.StatusBadGateway
	if !errors.As(err, &launchErr) && !errors.As(err, &procErr) && !errors.As(err, &malErr) {
		status = http.StatusInternalServerError
	}

	apierr.Respond(c, &apierr.Error{
		Status: status,
		Code:   apierr.CodePredictionFailed,
		Err:    errors.New("classification failed, please try again"),
	})
}
