package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func okHandler(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
}

func TestAuth(t *testing.T) {
	tests := []struct {
		name   string
		header string
		want   int
	}{
		{name: "missing header", header: "", want: http.StatusUnauthorized},
		{name: "not a number", header: "abc", want: http.StatusUnauthorized},
		{name: "non positive", header: "0", want: http.StatusUnauthorized},
		{name: "valid", header: "42", want: http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var seen int64
			h := Auth(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				seen, _ = GetUserID(r.Context())
				w.WriteHeader(http.StatusOK)
			}))

			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.header != "" {
				req.Header.Set(UserIDHeader, tt.header)
			}
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)

			assert.Equal(t, tt.want, rec.Code)
			if tt.want == http.StatusOK {
				assert.Equal(t, int64(42), seen)
			}
		})
	}
}

func TestAdminOnly(t *testing.T) {
	tests := []struct {
		name   string
		admins []int64
		userID string
		want   int
	}{
		{name: "empty list allows everyone", admins: nil, userID: "7", want: http.StatusOK},
		{name: "admin allowed", admins: []int64{1, 7}, userID: "7", want: http.StatusOK},
		{name: "non admin forbidden", admins: []int64{1}, userID: "7", want: http.StatusForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := Auth(AdminOnly(tt.admins)(http.HandlerFunc(okHandler)))

			req := httptest.NewRequest(http.MethodGet, "/", nil)
			req.Header.Set(UserIDHeader, tt.userID)
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)

			assert.Equal(t, tt.want, rec.Code)
		})
	}
}
