package errors

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
)

var errMissing = errors.New("missing thing")

func TestResolve_StrictUsesMappers(t *testing.T) {
	r := NewChainedResponder("", ModeStrict, Is(ErrNotFound, errMissing))

	problem := r.Resolve(fmt.Errorf("load: %w", errMissing))
	require.Equal(t, http.StatusNotFound, problem.Status)
	require.Contains(t, problem.Detail, "missing thing")

	problem = r.Resolve(errors.New("boom"))
	require.Equal(t, http.StatusInternalServerError, problem.Status)
	require.NotContains(t, problem.Detail, "boom")
}

func TestResolve_LegacyIsAlwaysServerFault(t *testing.T) {
	r := NewChainedResponder("", ModeLegacy, Is(ErrNotFound, errMissing))

	require.Equal(t, http.StatusInternalServerError, r.Resolve(errMissing).Status)
	require.Equal(t, http.StatusInternalServerError, r.Resolve(ErrForbidden).Status)
}

func TestParseMode(t *testing.T) {
	mode, err := ParseMode("")
	require.NoError(t, err)
	require.Equal(t, ModeStrict, mode)

	mode, err = ParseMode(" Legacy ")
	require.NoError(t, err)
	require.Equal(t, ModeLegacy, mode)

	_, err = ParseMode("loud")
	require.Error(t, err)
}

func TestRespondError_WritesProblemJSON(t *testing.T) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/orders/o1", nil)

	NewChainedResponder("https://shop.example", ModeStrict).RespondError(c, ErrForbidden)

	require.Equal(t, http.StatusForbidden, w.Code)
	require.Equal(t, ContentTypeProblemJSON, w.Header().Get("Content-Type"))
	var body ProblemDetail
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	require.Equal(t, "https://shop.example"+TypeForbidden, body.Type)
	require.Equal(t, "/orders/o1", body.Instance)
}
