package middleware

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func TestMaxRequestSize(t *testing.T) {
	gin.SetMode(gin.TestMode)

	router := gin.New()
	router.Use(MaxRequestSize(1024)) // 1KB limit
	router.POST("/test", func(c *gin.Context) {
		body, err := c.GetRawData()
		if err != nil {
			c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": "too large"})
			return
		}
		c.JSON(200, gin.H{"size": len(body)})
	})

	// Small request passes
	smallBody := strings.Repeat("a", 500)
	w1 := httptest.NewRecorder()
	req1, _ := http.NewRequest("POST", "/test", bytes.NewBufferString(smallBody))
	router.ServeHTTP(w1, req1)
	assert.Equal(t, http.StatusOK, w1.Code)

	// Oversized request fails to read fully
	largeBody := strings.Repeat("a", 2000)
	w2 := httptest.NewRecorder()
	req2, _ := http.NewRequest("POST", "/test", bytes.NewBufferString(largeBody))
	router.ServeHTTP(w2, req2)
	assert.Equal(t, http.StatusRequestEntityTooLarge, w2.Code)
}

func TestValidateContentType(t *testing.T) {
	gin.SetMode(gin.TestMode)

	router := gin.New()
	router.Use(ValidateContentType("application/json", "multipart/form-data"))
	router.POST("/test", func(c *gin.Context) {
		c.JSON(200, gin.H{"message": "ok"})
	})
	router.GET("/test", func(c *gin.Context) {
		c.JSON(200, gin.H{"message": "ok"})
	})
	router.OPTIONS("/test", func(c *gin.Context) {
		c.Status(204)
	})

	// POST with correct content type
	w1 := httptest.NewRecorder()
	req1, _ := http.NewRequest("POST", "/test", bytes.NewBufferString("{}"))
	req1.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w1, req1)
	assert.Equal(t, http.StatusOK, w1.Code)

	// POST with a multipart boundary parameter still matches
	w2 := httptest.NewRecorder()
	req2, _ := http.NewRequest("POST", "/test", bytes.NewBufferString("data"))
	req2.Header.Set("Content-Type", "multipart/form-data; boundary=xyz")
	router.ServeHTTP(w2, req2)
	assert.Equal(t, http.StatusOK, w2.Code)

	// POST with incorrect content type
	w3 := httptest.NewRecorder()
	req3, _ := http.NewRequest("POST", "/test", bytes.NewBufferString("<xml/>"))
	req3.Header.Set("Content-Type", "application/xml")
	router.ServeHTTP(w3, req3)
	assert.Equal(t, http.StatusBadRequest, w3.Code)

	// GET skips validation
	w4 := httptest.NewRecorder()
	req4, _ := http.NewRequest("GET", "/test", nil)
	router.ServeHTTP(w4, req4)
	assert.Equal(t, http.StatusOK, w4.Code)

	// OPTIONS skips validation
	w5 := httptest.NewRecorder()
	req5, _ := http.NewRequest("OPTIONS", "/test", nil)
	router.ServeHTTP(w5, req5)
	assert.Equal(t, http.StatusNoContent, w5.Code)

	// POST without a declared content type carries no body to validate
	w6 := httptest.NewRecorder()
	req6, _ := http.NewRequest("POST", "/test", nil)
	router.ServeHTTP(w6, req6)
	assert.Equal(t, http.StatusOK, w6.Code)
}

func TestValidateContentType_WithCharset(t *testing.T) {
	gin.SetMode(gin.TestMode)

	router := gin.New()
	router.Use(ValidateContentType("application/json"))
	router.POST("/test", func(c *gin.Context) {
		c.JSON(200, gin.H{"message": "ok"})
	})

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("POST", "/test", bytes.NewBufferString("{}"))
	req.Header.Set("Content-Type", "application/json; charset=utf-8")
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestSanitizeInput(t *testing.T) {
	gin.SetMode(gin.TestMode)

	router := gin.New()
	router.Use(SanitizeInput())
	router.GET("/test", func(c *gin.Context) {
		query := c.Query("q")
		c.JSON(200, gin.H{"query": query})
	})

	// Null byte removal
	w1 := httptest.NewRecorder()
	req1, _ := http.NewRequest("GET", "/test?q=hello%00world", nil)
	router.ServeHTTP(w1, req1)
	assert.Equal(t, http.StatusOK, w1.Code)
	assert.Contains(t, w1.Body.String(), "helloworld")

	// Whitespace trimming
	w2 := httptest.NewRecorder()
	req2, _ := http.NewRequest("GET", "/test?q=%20%20test%20%20", nil)
	router.ServeHTTP(w2, req2)
	assert.Equal(t, http.StatusOK, w2.Code)
	assert.Contains(t, w2.Body.String(), "test")
}

func TestSanitizeString(t *testing.T) {
	assert.Equal(t, "helloworld", sanitizeString("hello\x00world"))
	assert.Equal(t, "test", sanitizeString("  test  "))

	long := strings.Repeat("a", 11000)
	assert.Equal(t, 10000, len(sanitizeString(long)))

	assert.Equal(t, "helloworld", sanitizeString("  hello\x00world  "))
}
