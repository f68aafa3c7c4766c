package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
)

func TestServeOpenAPI3Spec(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/openapi.json", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	if err := ServeOpenAPI3Spec(c); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", rec.Code)
	}

	var spec map[string]interface{}
	if err := json.Unmarshal(rec.Body.Bytes(), &spec); err != nil {
		t.Fatalf("Failed to unmarshal spec: %v", err)
	}
	if spec["openapi"] != "3.0.3" {
		t.Errorf("Expected openapi '3.0.3', got %v", spec["openapi"])
	}
	if strings.Contains(rec.Body.String(), "#/definitions/") {
		t.Error("Expected every $ref to point at components/schemas")
	}

	paths := spec["paths"].(map[string]interface{})
	if _, ok := paths["/schedule/upcoming"]; !ok {
		t.Error("Expected /schedule/upcoming in paths")
	}

	create := paths["/payments"].(map[string]interface{})["post"].(map[string]interface{})
	if _, ok := create["requestBody"]; !ok {
		t.Error("Expected create payment to declare a requestBody")
	}
	if _, ok := create["parameters"]; ok {
		t.Error("Expected body parameter to be removed from parameters")
	}
}

func TestTransformParameter_QueryParam(t *testing.T) {
	param := map[string]interface{}{
		"name":        "days",
		"in":          "query",
		"type":        "integer",
		"description": "Days ahead",
	}

	result := transformParameter(param)

	schema, ok := result["schema"].(map[string]interface{})
	if !ok {
		t.Fatal("Expected schema object")
	}
	if schema["type"] != "integer" {
		t.Errorf("Expected schema type 'integer', got %v", schema["type"])
	}
	if _, ok := result["type"]; ok {
		t.Error("Expected type to move into schema")
	}
}
