package web

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
)

func TestSwaggerServer_New(t *testing.T) {
	// Test Swagger server creation
	swaggerServer := NewSwaggerServer(true)
	if swaggerServer == nil {
		t.Error("Expected Swagger server to be created, got nil")
	}

	if !swaggerServer.enabled {
		t.Error("Expected Swagger server to be enabled")
	}

	// Test disabled Swagger server
	swaggerServer = NewSwaggerServer(false)
	if swaggerServer == nil {
		t.Error("Expected Swagger server to be created, got nil")
	}

	if swaggerServer.enabled {
		t.Error("Expected Swagger server to be disabled")
	}
}

func TestSwaggerServer_ServesDocument(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := gin.New()

	NewSwaggerServer(true).RegisterRoutes(router, "localhost:9090")

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/swagger/doc.json", nil)
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", w.Code)
	}

	var doc struct {
		Host  string                     `json:"host"`
		Paths map[string]json.RawMessage `json:"paths"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &doc); err != nil {
		t.Fatalf("Expected valid JSON document, got %v", err)
	}
	if doc.Host != "localhost:9090" {
		t.Errorf("Expected host localhost:9090, got %q", doc.Host)
	}
	for _, path := range []string{"/keywords", "/articles", "/tags", "/ingest/run"} {
		if _, ok := doc.Paths[path]; !ok {
			t.Errorf("Expected path %s in document", path)
		}
	}
}

func TestSwaggerServer_Disabled(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := gin.New()

	NewSwaggerServer(false).RegisterRoutes(router, "")

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/swagger/doc.json", nil)
	router.ServeHTTP(w, req)

	if w.Code != http.StatusNotFound {
		t.Errorf("Expected status 404 when disabled, got %d", w.Code)
	}
}
