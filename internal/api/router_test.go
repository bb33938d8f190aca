package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/goliatone/go-formengine/internal/service"
	"github.com/goliatone/go-formengine/pkg/model"
	"github.com/goliatone/go-formengine/pkg/render"
	"github.com/goliatone/go-formengine/pkg/renderers/vanilla"
	"github.com/goliatone/go-formengine/pkg/repository/memory"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func testRouter(t *testing.T) *gin.Engine {
	t.Helper()
	store := memory.New()
	templates := service.NewTemplateService(store, nil)
	assets := service.NewAssetService(store, store, store, nil)

	htmlRenderer, err := vanilla.New()
	require.NoError(t, err)
	registry := render.NewRegistry()
	registry.MustRegister(htmlRenderer)
	renders := service.NewRenderService(store, registry, "vanilla", nil, nil)

	return NewRouter(templates, assets, renders, nil)
}

func do(t *testing.T, router *gin.Engine, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func decodeEnvelope(t *testing.T, rec *httptest.ResponseRecorder) (code, message string, fieldErrors []map[string]any) {
	t.Helper()
	var envelope struct {
		Error struct {
			Code        string           `json:"code"`
			Message     string           `json:"message"`
			FieldErrors []map[string]any `json:"field_errors"`
		} `json:"error"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
	return envelope.Error.Code, envelope.Error.Message, envelope.Error.FieldErrors
}

func templateBody() map[string]any {
	return map[string]any{
		"configurationName": "conf-produit",
		"entityType":        "PRODUCT",
		"active":            true,
		"sections": []map[string]any{
			{
				"id":    "s1",
				"name":  "Informations",
				"order": 1,
				"fields": []map[string]any{
					{"id": "f1", "name": "Modèle", "type": "text", "required": true},
					{"id": "f2", "name": "Matériau", "type": "select", "options": []string{"Inox", "Acier"}},
				},
			},
		},
	}
}

func createTemplate(t *testing.T, router *gin.Engine) model.ConfigurationTemplate {
	t.Helper()
	rec := do(t, router, http.MethodPost, "/api/v1/configurations", templateBody())
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var tpl model.ConfigurationTemplate
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &tpl))
	return tpl
}

func TestHealthz(t *testing.T) {
	rec := do(t, testRouter(t), http.MethodGet, "/healthz", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}

func TestConfigurations_CreateAndGet(t *testing.T) {
	router := testRouter(t)
	tpl := createTemplate(t, router)
	assert.NotEmpty(t, tpl.ID)
	assert.True(t, tpl.DefaultConfig)
	assert.Equal(t, 1, tpl.SectionCount)
	assert.Equal(t, 2, tpl.TotalFieldCount)

	rec := do(t, router, http.MethodGet, "/api/v1/configurations/"+tpl.ID, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = do(t, router, http.MethodGet, "/api/v1/configurations/missing", nil)
	require.Equal(t, http.StatusNotFound, rec.Code)
	code, _, _ := decodeEnvelope(t, rec)
	assert.Equal(t, "NOT_FOUND", code)
}

func TestConfigurations_ListFilter(t *testing.T) {
	router := testRouter(t)
	createTemplate(t, router)

	rec := do(t, router, http.MethodGet, "/api/v1/configurations?type=PRODUCT", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var summaries []model.TemplateSummary
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &summaries))
	assert.Len(t, summaries, 1)

	rec = do(t, router, http.MethodGet, "/api/v1/configurations?type=MACHINE", nil)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	code, _, _ := decodeEnvelope(t, rec)
	assert.Equal(t, "UNKNOWN_ENTITY_TYPE", code)
}

func TestConfigurations_CreateWithoutSections(t *testing.T) {
	router := testRouter(t)
	body := templateBody()
	body["sections"] = []map[string]any{}

	rec := do(t, router, http.MethodPost, "/api/v1/configurations", body)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	code, _, _ := decodeEnvelope(t, rec)
	assert.Equal(t, "NO_SECTIONS", code)
}

func TestConfigurations_ToggleAndDeleteProtectDefault(t *testing.T) {
	router := testRouter(t)
	tpl := createTemplate(t, router)

	rec := do(t, router, http.MethodPut, "/api/v1/configurations/"+tpl.ID+"/toggle", map[string]any{"active": false})
	require.Equal(t, http.StatusConflict, rec.Code)
	code, _, _ := decodeEnvelope(t, rec)
	assert.Equal(t, "DEFAULT_TEMPLATE", code)

	rec = do(t, router, http.MethodDelete, "/api/v1/configurations/"+tpl.ID, nil)
	require.Equal(t, http.StatusConflict, rec.Code)
	code, _, _ = decodeEnvelope(t, rec)
	assert.Equal(t, "DEFAULT_TEMPLATE", code)
}

func TestConfigurations_ToggleRequiresActiveFlag(t *testing.T) {
	router := testRouter(t)
	tpl := createTemplate(t, router)

	rec := do(t, router, http.MethodPut, "/api/v1/configurations/"+tpl.ID+"/toggle", map[string]any{})
	require.Equal(t, http.StatusBadRequest, rec.Code)
	code, _, _ := decodeEnvelope(t, rec)
	assert.Equal(t, "INVALID_BODY", code)
}

func TestConfigurations_UpdateAndDelete(t *testing.T) {
	router := testRouter(t)
	createTemplate(t, router)

	body := templateBody()
	body["configurationName"] = "conf-produit-2"
	rec := do(t, router, http.MethodPost, "/api/v1/configurations", body)
	require.Equal(t, http.StatusCreated, rec.Code)
	var second model.ConfigurationTemplate
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &second))

	update := templateBody()
	update["configurationName"] = "conf-produit-2-rev"
	rec = do(t, router, http.MethodPut, "/api/v1/configurations/"+second.ID, update)
	require.Equal(t, http.StatusOK, rec.Code)
	var updated model.ConfigurationTemplate
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &updated))
	assert.Equal(t, "conf-produit-2-rev", updated.ConfigurationName)

	rec = do(t, router, http.MethodDelete, "/api/v1/configurations/"+second.ID, nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)
}

func TestAssets_SubmitLifecycle(t *testing.T) {
	router := testRouter(t)
	tpl := createTemplate(t, router)

	rec := do(t, router, http.MethodPost, "/api/v1/assets", map[string]any{
		"name":            "Pompe X200",
		"type":            "PRODUCT",
		"configurationId": tpl.ID,
		"values":          map[string]any{"f1": "X200", "f2": "Inox"},
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var record struct {
		ID string `json:"id"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &record))

	// One use is recorded against the template, which now blocks deletion.
	rec = do(t, router, http.MethodGet, "/api/v1/configurations/"+tpl.ID, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var stored model.ConfigurationTemplate
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &stored))
	assert.Equal(t, 1, stored.UsageCount)

	rec = do(t, router, http.MethodGet, "/api/v1/assets?type=PRODUCT", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = do(t, router, http.MethodPut, "/api/v1/assets/"+record.ID, map[string]any{
		"name":            "Pompe X200 rev B",
		"configurationId": tpl.ID,
		"values":          map[string]any{"f1": "X200-B"},
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = do(t, router, http.MethodDelete, "/api/v1/assets/"+record.ID, nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)
}

func TestAssets_ValidationErrorEnvelope(t *testing.T) {
	router := testRouter(t)
	tpl := createTemplate(t, router)

	rec := do(t, router, http.MethodPost, "/api/v1/assets", map[string]any{
		"name":            "Pompe X200",
		"type":            "PRODUCT",
		"configurationId": tpl.ID,
		"values":          map[string]any{},
	})
	require.Equal(t, http.StatusBadRequest, rec.Code)
	code, _, fieldErrors := decodeEnvelope(t, rec)
	assert.Equal(t, "VALIDATION_ERROR", code)
	require.Len(t, fieldErrors, 1)
	assert.Equal(t, "Informations > Modèle", fieldErrors[0]["field"])
}

func TestAssets_MissingRequiredBodyKeys(t *testing.T) {
	router := testRouter(t)

	rec := do(t, router, http.MethodPost, "/api/v1/assets", map[string]any{
		"values": map[string]any{},
	})
	require.Equal(t, http.StatusBadRequest, rec.Code)
	code, _, _ := decodeEnvelope(t, rec)
	assert.Equal(t, "INVALID_BODY", code)
}

func TestAssets_EmptyNameReportsThroughValidator(t *testing.T) {
	router := testRouter(t)
	tpl := createTemplate(t, router)

	// Absent and whitespace-only names take the same field-error path.
	for _, name := range []string{"", "   "} {
		rec := do(t, router, http.MethodPost, "/api/v1/assets", map[string]any{
			"name":            name,
			"type":            "PRODUCT",
			"configurationId": tpl.ID,
			"values":          map[string]any{"f1": "X200"},
		})
		require.Equal(t, http.StatusBadRequest, rec.Code, rec.Body.String())
		code, _, fieldErrors := decodeEnvelope(t, rec)
		assert.Equal(t, "VALIDATION_ERROR", code)
		require.NotEmpty(t, fieldErrors)
		assert.Equal(t, "name", fieldErrors[0]["field"])
	}
}

func TestConfigurations_Preview(t *testing.T) {
	router := testRouter(t)
	tpl := createTemplate(t, router)

	rec := do(t, router, http.MethodGet, "/api/v1/configurations/"+tpl.ID+"/preview", nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Contains(t, rec.Header().Get("Content-Type"), "text/html")
	body := rec.Body.String()
	assert.Contains(t, body, "<form")
	assert.Contains(t, body, "Modèle")

	rec = do(t, router, http.MethodGet, "/api/v1/configurations/"+tpl.ID+"/preview?renderer=vanilla", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = do(t, router, http.MethodGet, "/api/v1/configurations/"+tpl.ID+"/preview?renderer=latex", nil)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	code, _, _ := decodeEnvelope(t, rec)
	assert.Equal(t, "UNKNOWN_RENDERER", code)

	rec = do(t, router, http.MethodGet, "/api/v1/configurations/missing/preview", nil)
	require.Equal(t, http.StatusNotFound, rec.Code)
}
