package middleware

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/marketplace/backend/internal/interfaces/http/dto"
)

type lineInput struct {
	Quantity int `json:"quantity" binding:"required,min=1"`
}

type createInput struct {
	Email    string      `json:"email" binding:"required,email"`
	Currency string      `json:"currency_code" binding:"required,len=3"`
	Status   string      `json:"status" binding:"omitempty,oneof=draft published"`
	Lines    []lineInput `json:"line_items" binding:"required,min=1,dive"`
}

func bindDetails(t *testing.T, body string) []dto.ValidationDetail {
	t.Helper()
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
	c.Request.Header.Set("Content-Type", "application/json")
	var in createInput
	err := c.ShouldBindJSON(&in)
	require.Error(t, err)
	return ValidationDetails(err)
}

func TestValidationDetails(t *testing.T) {
	SetupValidator()

	details := bindDetails(t, `{"email":"nope","currency_code":"us","status":"gone","line_items":[{"quantity":0}]}`)
	byField := make(map[string]string, len(details))
	for _, d := range details {
		byField[d.Field] = d.Message
	}
	assert.Equal(t, map[string]string{
		"email":                  "Invalid email format",
		"currency_code":          "Must be exactly 3 characters",
		"status":                 "Must be one of: draft published",
		"line_items[0].quantity": "This field is required",
	}, byField)

	details = bindDetails(t, `{"currency_code":"usd","line_items":[]}`)
	fields := make([]string, 0, len(details))
	for _, d := range details {
		fields = append(fields, d.Field)
	}
	assert.ElementsMatch(t, []string{"email", "line_items"}, fields)
}

func TestValidationDetails_NotValidation(t *testing.T) {
	assert.Nil(t, ValidationDetails(errors.New("unexpected EOF")))
	assert.Nil(t, bindDetails(t, `{"email":`))
}
