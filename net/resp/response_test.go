package resp

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/ncobase/cookscorner/ecode"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decode(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var m map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &m))
	return m
}

func TestSuccess_Message(t *testing.T) {
	rec := httptest.NewRecorder()
	Success(rec, "User successfully verified")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json; charset=utf-8", rec.Header().Get("Content-Type"))
	assert.Equal(t, map[string]any{"Message": "User successfully verified"}, decode(t, rec))
}

func TestWithStatusCode_Data(t *testing.T) {
	rec := httptest.NewRecorder()
	WithStatusCode(rec, http.StatusCreated, map[string]string{"access": "a", "refresh": "r"})

	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, map[string]any{"access": "a", "refresh": "r"}, decode(t, rec))
}

func TestFail(t *testing.T) {
	rec := httptest.NewRecorder()
	Fail(rec, NotFound("Recipe is not found."))

	assert.Equal(t, http.StatusNotFound, rec.Code)
	body := decode(t, rec)
	assert.Equal(t, "Recipe is not found.", body["Error"])
	assert.EqualValues(t, ecode.NothingFound, body["code"])
	assert.NotContains(t, body, "errors")
}

func TestFail_WithErrorsAndDefaults(t *testing.T) {
	rec := httptest.NewRecorder()
	Fail(rec, InvalidParams("", map[string]string{"email": "The field 'email' is required."}))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	body := decode(t, rec)
	assert.Equal(t, ecode.Text(ecode.ParamErr), body["Error"])
	assert.Equal(t, map[string]any{"email": "The field 'email' is required."}, body["errors"])

	rec = httptest.NewRecorder()
	Fail(rec, nil)
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}
