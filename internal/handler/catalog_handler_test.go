package handler

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/zevliandragovets/EcoBankWebsite/internal/service"

	"github.com/gin-gonic/gin"
)

func queryContext(t *testing.T, rawQuery string) *gin.Context {
	t.Helper()
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest(http.MethodGet, "/api/waste-items?"+rawQuery, nil)
	return c
}

func TestBoolQuery(t *testing.T) {
	cases := []struct {
		name  string
		query string
		want  *bool
		bad   bool
	}{
		{"absent", "", nil, false},
		{"true", "isActive=true", ptr(true), false},
		{"false", "isActive=false", ptr(false), false},
		{"numeric true", "isActive=1", ptr(true), false},
		{"numeric false", "isActive=0", ptr(false), false},
		{"capitalized", "isActive=True", ptr(true), false},
		{"garbage", "isActive=banana", nil, true},
		{"empty value", "isActive=", nil, true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := boolQuery(queryContext(t, tc.query), "isActive")

			if tc.bad {
				var fieldErr *service.FieldError
				if !errors.As(err, &fieldErr) || fieldErr.Field != "isActive" {
					t.Fatalf("expected isActive FieldError, got value=%v err=%v", got, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if (got == nil) != (tc.want == nil) {
				t.Fatalf("got %v, want %v", got, tc.want)
			}
			if got != nil && *got != *tc.want {
				t.Errorf("got %v, want %v", *got, *tc.want)
			}
		})
	}
}

func ptr(b bool) *bool { return &b }
