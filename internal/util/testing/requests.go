package test_utils

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
)

type ControllerInterface interface {
	RegisterRoutes(router *gin.RouterGroup)
}

type RequestOptions struct {
	Method         string
	URL            string
	Body           any
	ExpectedStatus int
}

type TestResponse struct {
	StatusCode int
	Body       []byte
}

// CreateTestRouter mounts the controllers under /api/v1 the way main does.
func CreateTestRouter(controllers ...ControllerInterface) *gin.Engine {
	gin.SetMode(gin.TestMode)

	router := gin.New()
	v1 := router.Group("/api/v1")
	for _, controller := range controllers {
		controller.RegisterRoutes(v1)
	}

	return router
}

func MakeRequest(t *testing.T, router *gin.Engine, options RequestOptions) *TestResponse {
	t.Helper()

	var body *bytes.Reader
	if options.Body != nil {
		data, err := json.Marshal(options.Body)
		require.NoError(t, err)
		body = bytes.NewReader(data)
	} else {
		body = bytes.NewReader(nil)
	}

	request := httptest.NewRequest(options.Method, options.URL, body)
	if options.Body != nil {
		request.Header.Set("Content-Type", "application/json")
	}

	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, request)

	if options.ExpectedStatus != 0 {
		require.Equal(t, options.ExpectedStatus, recorder.Code, "unexpected status, body: %s", recorder.Body.String())
	}

	return &TestResponse{
		StatusCode: recorder.Code,
		Body:       recorder.Body.Bytes(),
	}
}

func MakeGetRequest(t *testing.T, router *gin.Engine, url string, expectedStatus int) *TestResponse {
	t.Helper()
	return MakeRequest(t, router, RequestOptions{Method: http.MethodGet, URL: url, ExpectedStatus: expectedStatus})
}

func MakeGetRequestAndUnmarshal(t *testing.T, router *gin.Engine, url string, expectedStatus int, target any) {
	t.Helper()
	response := MakeGetRequest(t, router, url, expectedStatus)
	require.NoError(t, json.Unmarshal(response.Body, target))
}

func MakePostRequest(t *testing.T, router *gin.Engine, url string, body any, expectedStatus int) *TestResponse {
	t.Helper()
	return MakeRequest(t, router, RequestOptions{
		Method:         http.MethodPost,
		URL:            url,
		Body:           body,
		ExpectedStatus: expectedStatus,
	})
}

func MakePostRequestAndUnmarshal(
	t *testing.T,
	router *gin.Engine,
	url string,
	body any,
	expectedStatus int,
	target any,
) {
	t.Helper()
	response := MakePostRequest(t, router, url, body, expectedStatus)
	require.NoError(t, json.Unmarshal(response.Body, target))
}

func MakePutRequest(t *testing.T, router *gin.Engine, url string, body any, expectedStatus int) *TestResponse {
	t.Helper()
	return MakeRequest(t, router, RequestOptions{
		Method:         http.MethodPut,
		URL:            url,
		Body:           body,
		ExpectedStatus: expectedStatus,
	})
}

func MakeDeleteRequest(t *testing.T, router *gin.Engine, url string, expectedStatus int) *TestResponse {
	t.Helper()
	return MakeRequest(t, router, RequestOptions{Method: http.MethodDelete, URL: url, ExpectedStatus: expectedStatus})
}
