package api

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLogin(t *testing.T) {
	ts := newTestServer(t)

	w := ts.do("POST", "/api/auth/login", map[string]string{
		"email":    "Fatima@CHW.example",
		"password": "secret-pass",
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var resp struct {
		Token string `json:"token"`
	}
	decode(t, w, &resp)
	assert.NotEmpty(t, resp.Token)

	claims, err := ts.auth.Validate(resp.Token)
	require.NoError(t, err)
	id, err := claims.WorkerID()
	require.NoError(t, err)
	assert.Equal(t, int64(2), id)
}

func TestLoginRejected(t *testing.T) {
	ts := newTestServer(t)

	var resp ErrorResponse

	w := ts.do("POST", "/api/auth/login", map[string]string{
		"email":    "fatima@chw.example",
		"password": "wrong-pass",
	})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	decode(t, w, &resp)
	assert.Equal(t, int64(1002), resp.Code)

	w = ts.do("POST", "/api/auth/login", map[string]string{
		"email":    "nobody@chw.example",
		"password": "secret-pass",
	})
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = ts.do("POST", "/api/auth/login", "not an object")
	assert.Equal(t, http.StatusBadRequest, w.Code)
	decode(t, w, &resp)
	assert.Equal(t, int64(1011), resp.Code)
}

func TestSignUp(t *testing.T) {
	ts := newTestServer(t)

	body := map[string]string{
		"full_name": "Ngozi Eze",
		"email":     "ngozi@chw.example",
		"phone":     "+2348045678901",
		"password":  "long-enough",
	}

	w := ts.do("POST", "/api/auth/signup", body)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var resp struct {
		Token string `json:"token"`
	}
	decode(t, w, &resp)

	// the new worker can use the dashboard right away
	w = ts.do("GET", "/api/alerts", nil, "Authorization", "Bearer "+resp.Token)
	assert.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = ts.do("POST", "/api/auth/signup", body)
	assert.Equal(t, http.StatusConflict, w.Code)

	var errResp ErrorResponse
	decode(t, w, &errResp)
	assert.Equal(t, int64(1100), errResp.Code)
}

func TestSignUpValidation(t *testing.T) {
	ts := newTestServer(t)

	cases := []struct {
		name string
		body map[string]string
		code int64
	}{
		{
			name: "missing name",
			body: map[string]string{"email": "a@chw.example", "phone": "+2348045678901", "password": "long-enough"},
			code: 1102,
		},
		{
			name: "missing email",
			body: map[string]string{"full_name": "A", "phone": "+2348045678901", "password": "long-enough"},
			code: 1103,
		},
		{
			name: "short password",
			body: map[string]string{"full_name": "A", "email": "a@chw.example", "phone": "+2348045678901", "password": "short"},
			code: 1104,
		},
		{
			name: "bad phone",
			body: map[string]string{"full_name": "A", "email": "a@chw.example", "phone": "0801", "password": "long-enough"},
			code: 1105,
		},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			w := ts.do("POST", "/api/auth/signup", c.body)
			assert.Equal(t, http.StatusBadRequest, w.Code)

			var resp ErrorResponse
			decode(t, w, &resp)
			assert.Equal(t, c.code, resp.Code)
		})
	}
}

func TestAuthRateLimit(t *testing.T) {
	ts := newTestServer(t)
	ts.authLimiter = newVisitorRateLimiter(0, 2)
	ts.router = ts.setupRouter()

	body := map[string]string{"email": "adebayo@chw.example", "password": "wrong-pass"}

	for i := 0; i < 2; i++ {
		w := ts.do("POST", "/api/auth/login", body)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	}

	w := ts.do("POST", "/api/auth/login", body)
	assert.Equal(t, http.StatusTooManyRequests, w.Code)

	var resp ErrorResponse
	decode(t, w, &resp)
	assert.Equal(t, int64(1004), resp.Code)

	// other requests are not limited
	w = ts.do("GET", "/api/information", nil)
	assert.Equal(t, http.StatusOK, w.Code)
}
