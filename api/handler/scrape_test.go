package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leadlens/leadlens/engine"
	"github.com/leadlens/leadlens/models"
	"github.com/leadlens/leadlens/pipeline"
)

type stubFetcher struct {
	html string
	err  error
}

func (f *stubFetcher) Fetch(context.Context, string, string) (*engine.FetchResult, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &engine.FetchResult{HTML: f.html, StatusCode: 200}, nil
}

func newScrapeRouter(f engine.Fetcher) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.POST("/api/v1/scrape", Scrape(pipeline.New(f, nil, nil, nil, nil)))
	return r
}

func doScrape(t *testing.T, r *gin.Engine, body string) (*httptest.ResponseRecorder, models.ScrapeResponse) {
	t.Helper()
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/scrape", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	var resp models.ScrapeResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return w, resp
}

func TestScrapeHandlerSuccess(t *testing.T) {
	r := newScrapeRouter(&stubFetcher{html: `<html><head><title>Acme</title></head><body><main>
		<p>A server rendered page with more than enough visible body text to avoid
		any escalation heuristics during this handler-level test run.</p>
		<a href="mailto:hi@acme.io">hi</a>
	</main></body></html>`})

	w, resp := doScrape(t, r, `{"url":"acme.io"}`)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.True(t, resp.Success)
	require.NotNil(t, resp.Record)
	assert.Equal(t, "Acme", resp.Record.Title)
	assert.Equal(t, "https://acme.io", resp.Record.URL)
	assert.Nil(t, resp.Error)
}

func TestScrapeHandlerMissingURL(t *testing.T) {
	r := newScrapeRouter(&stubFetcher{html: "<html></html>"})

	w, resp := doScrape(t, r, `{}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.False(t, resp.Success)
	require.NotNil(t, resp.Error)
	assert.Equal(t, models.ErrCodeInvalidInput, resp.Error.Code)
}

func TestScrapeHandlerBadContentFormat(t *testing.T) {
	r := newScrapeRouter(&stubFetcher{html: "<html></html>"})

	w, _ := doScrape(t, r, `{"url":"acme.io","content_format":"pdf"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestScrapeHandlerInvalidURL(t *testing.T) {
	r := newScrapeRouter(&stubFetcher{html: "<html></html>"})

	w, resp := doScrape(t, r, `{"url":"ftp://files.acme.io"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	require.NotNil(t, resp.Error)
	assert.Equal(t, models.ErrCodeInvalidURL, resp.Error.Code)
}

func TestScrapeHandlerFetchFailure(t *testing.T) {
	r := newScrapeRouter(&stubFetcher{
		err: models.NewFetchError(models.ErrCodeFetchFailed, "fetch failed after 3 attempts", 3, errors.New("refused")),
	})

	w, resp := doScrape(t, r, `{"url":"down.acme.io"}`)
	assert.Equal(t, http.StatusBadGateway, w.Code)
	require.NotNil(t, resp.Error)
	assert.Equal(t, models.ErrCodeFetchFailed, resp.Error.Code)
	assert.Equal(t, 3, resp.Error.Attempts)
}

func TestScrapeHandlerTimeoutMapsTo504(t *testing.T) {
	r := newScrapeRouter(&stubFetcher{
		err: models.NewFetchError(models.ErrCodeTimeout, "fetch failed after 3 attempts", 3, context.DeadlineExceeded),
	})

	w, _ := doScrape(t, r, `{"url":"slow.acme.io"}`)
	assert.Equal(t, http.StatusGatewayTimeout, w.Code)
}
