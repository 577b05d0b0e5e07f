package handler

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/marketplace/backend/internal/infrastructure/auth"
	"github.com/marketplace/backend/internal/interfaces/http/middleware"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// withClaims stands in for the Authenticate middleware
func withClaims(claims *auth.Claims) gin.HandlerFunc {
	return func(c *gin.Context) {
		if claims != nil {
			c.Set(middleware.ClaimsKey, claims)
		}
		c.Next()
	}
}

func customerClaims(id uuid.UUID) *auth.Claims {
	return &auth.Claims{ActorType: "customer", ActorID: id.String()}
}

func userClaims(id uuid.UUID) *auth.Claims {
	return &auth.Claims{ActorType: "user", ActorID: id.String(), Role: "admin"}
}

func sellerClaims(sellerID, memberID uuid.UUID, role string) *auth.Claims {
	return &auth.Claims{ActorType: "seller", ActorID: memberID.String(), SellerID: sellerID.String(), Role: role}
}

func newEngine(claims *auth.Claims) *gin.Engine {
	r := gin.New()
	r.Use(middleware.RequestID(), withClaims(claims))
	return r
}

func jsonRequest(t *testing.T, method, path string, body any) *http.Request {
	t.Helper()
	var reader io.Reader
	if body != nil {
		switch b := body.(type) {
		case string:
			reader = bytes.NewBufferString(b)
		default:
			raw, err := json.Marshal(b)
			require.NoError(t, err)
			reader = bytes.NewReader(raw)
		}
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return req
}

func serve(r *gin.Engine, req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body
}
