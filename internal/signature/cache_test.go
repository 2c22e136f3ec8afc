package signature

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	store := cookie.NewStore([]byte("test-secret"))
	r.Use(sessions.Sessions("test_session", store))

	r.GET("/guardar", func(c *gin.Context) {
		Store(c, 7, "Juan Pérez")
		c.Status(http.StatusOK)
	})
	r.GET("/consumir", func(c *gin.Context) {
		name, ok := Consume(c, 7)
		c.JSON(http.StatusOK, gin.H{"name": name, "ok": ok})
	})
	r.GET("/consumir-otro", func(c *gin.Context) {
		name, ok := Consume(c, 8)
		c.JSON(http.StatusOK, gin.H{"name": name, "ok": ok})
	})

	return r
}

func do(t *testing.T, r *gin.Engine, path string, cookies []*http.Cookie) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	for _, ck := range cookies {
		req.AddCookie(ck)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

type consumeResponse struct {
	Name string `json:"name"`
	OK   bool   `json:"ok"`
}

func decode(t *testing.T, w *httptest.ResponseRecorder) consumeResponse {
	t.Helper()
	var resp consumeResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp
}

func TestConsumeOnce(t *testing.T) {
	r := newTestRouter()

	w := do(t, r, "/guardar", nil)
	cookies := w.Result().Cookies()
	require.NotEmpty(t, cookies)

	// primera lectura entrega la firma
	w = do(t, r, "/consumir", cookies)
	resp := decode(t, w)
	assert.True(t, resp.OK)
	assert.Equal(t, "Juan Pérez", resp.Name)

	// la lectura borra la firma de la sesión
	if updated := w.Result().Cookies(); len(updated) > 0 {
		cookies = updated
	}
	w = do(t, r, "/consumir", cookies)
	resp = decode(t, w)
	assert.False(t, resp.OK)
	assert.Empty(t, resp.Name)
}

func TestConsumeUnknownDiagnostic(t *testing.T) {
	r := newTestRouter()

	w := do(t, r, "/guardar", nil)
	cookies := w.Result().Cookies()

	resp := decode(t, do(t, r, "/consumir-otro", cookies))
	assert.False(t, resp.OK)
	assert.Empty(t, resp.Name)
}

func TestConsumeWithoutSession(t *testing.T) {
	r := newTestRouter()

	resp := decode(t, do(t, r, "/consumir", nil))
	assert.False(t, resp.OK)
}
