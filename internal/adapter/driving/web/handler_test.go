package web

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ericfisherdev/updatepanel/internal/adapter/driven/flatfile"
)

const testCSRF = "test-csrf-token"

// setupWeb creates a mux backed by a real flat-file store seeded with content.
func setupWeb(t *testing.T, content string) (http.Handler, string) {
	t.Helper()

	path := filepath.Join(t.TempDir(), "statistic_servers.txt")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	mux := http.NewServeMux()
	RegisterRoutes(mux, NewHandler(flatfile.NewStore(path, logger), logger))
	return mux, path
}

func postForm(mux http.Handler, path string, values url.Values, withCSRF bool) *httptest.ResponseRecorder {
	if withCSRF {
		values.Set(csrfFormField, testCSRF)
	}
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(values.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.AddCookie(&http.Cookie{Name: csrfCookieName, Value: testCSRF})

	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)
	return rec
}

func get(mux http.Handler, path string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
	return rec
}

func fileContent(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	return string(data)
}

func TestServerList_RendersServers(t *testing.T) {
	mux, _ := setupWeb(t, "Primary,https://a.example,db1\nBackup,https://b.example,db2,bob")

	rec := get(mux, "/")
	require.Equal(t, http.StatusOK, rec.Code)

	body := rec.Body.String()
	assert.Contains(t, body, "Primary")
	assert.Contains(t, body, "Web-URL: &#34;https://b.example&#34; - Database: &#34;db2&#34;")
	assert.Contains(t, body, `action="/servers/1/delete"`)
	assert.Contains(t, body, `action="/servers"`)
	assert.NotContains(t, body, "press")

	var csrfSet bool
	for _, c := range rec.Result().Cookies() {
		if c.Name == csrfCookieName && c.Value != "" {
			csrfSet = true
		}
	}
	assert.True(t, csrfSet, "csrf cookie must be issued")
}

func TestServerList_EscapesFields(t *testing.T) {
	mux, _ := setupWeb(t, "<script>x</script>,https://a.example,db1")

	body := get(mux, "/").Body.String()
	assert.NotContains(t, body, "<script>x</script>")
	assert.Contains(t, body, "&lt;script&gt;")
}

func TestServerList_EmptyFile(t *testing.T) {
	mux, _ := setupWeb(t, "")

	rec := get(mux, "/")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "No statistics servers configured.")
}

func TestServerList_MissingFileFails(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	mux := http.NewServeMux()
	RegisterRoutes(mux, NewHandler(flatfile.NewStore(filepath.Join(t.TempDir(), "missing.txt"), logger), logger))

	rec := get(mux, "/")
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Contains(t, rec.Body.String(), "Error while loading the servers.")
}

func TestAddServer_Form(t *testing.T) {
	mux, path := setupWeb(t, "")

	rec := postForm(mux, "/servers", url.Values{
		"name":          {"X"},
		"web_url":       {" u "},
		"database_name": {"<b>d</b>"},
		"username":      {"usr"},
	}, true)

	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/", rec.Header().Get("Location"))
	assert.Equal(t, "X,u,d,usr", fileContent(t, path))
}

func TestAddServer_ValidationKeepsForm(t *testing.T) {
	mux, path := setupWeb(t, "")

	rec := postForm(mux, "/servers", url.Values{
		"name":          {"a,b"},
		"web_url":       {"https://c.example"},
		"database_name": {"db3"},
	}, true)

	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "Error while saving the server")
	assert.Contains(t, body, `value="https://c.example"`)
	assert.Equal(t, "", fileContent(t, path))
}

func TestAddServer_RejectsMissingCSRF(t *testing.T) {
	mux, path := setupWeb(t, "")

	rec := postForm(mux, "/servers", url.Values{"name": {"X"}, "web_url": {"u"}, "database_name": {"d"}}, false)

	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Equal(t, "", fileContent(t, path))
}

func TestDeleteServer_Form(t *testing.T) {
	mux, path := setupWeb(t, "Primary,https://a.example,db1\nBackup,https://b.example,db2")

	rec := postForm(mux, "/servers/0/delete", url.Values{}, true)

	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "Backup,https://b.example,db2,", fileContent(t, path))
}

func TestDeleteServer_UnknownIndex(t *testing.T) {
	mux, path := setupWeb(t, "Primary,https://a.example,db1")

	rec := postForm(mux, "/servers/3/delete", url.Values{}, true)

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), "no longer exists")
	assert.Equal(t, "Primary,https://a.example,db1", fileContent(t, path))
}

func TestSelectList_ShowsPrompt(t *testing.T) {
	mux, _ := setupWeb(t, "Primary,https://a.example,db1,alice")

	rec := get(mux, "/select")
	require.Equal(t, http.StatusOK, rec.Code)

	body := rec.Body.String()
	assert.Contains(t, body, "<strong>Enter</strong>")
	assert.Contains(t, body, `action="/select/0"`)
	assert.NotContains(t, body, `action="/servers"`)
}

func TestSelectServer_Form(t *testing.T) {
	mux, _ := setupWeb(t, "Primary,https://a.example,db1,alice\nBackup,https://b.example,db2,bob")

	rec := postForm(mux, "/select/1", url.Values{}, true)
	require.Equal(t, http.StatusOK, rec.Code)

	body := rec.Body.String()
	assert.Contains(t, body, `<dd id="selected-database">db2</dd>`)
	assert.Contains(t, body, `<dd id="selected-url">https://b.example</dd>`)
	assert.Contains(t, body, `<dd id="selected-username">bob</dd>`)
}

func TestSelectServer_UnknownIndex(t *testing.T) {
	mux, _ := setupWeb(t, "Primary,https://a.example,db1")

	rec := postForm(mux, "/select/4", url.Values{}, true)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestStaticAssets(t *testing.T) {
	mux, _ := setupWeb(t, "")

	rec := get(mux, "/static/app.css")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), ".server-list")
}
