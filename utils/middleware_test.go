package utils

import (
	"context"
	"html/template"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"cafelist/model"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeResolver map[uint]*model.User

func (f fakeResolver) Resolve(_ context.Context, id uint) (*model.User, error) {
	return f[id], nil
}

func init() {
	gin.SetMode(gin.TestMode)
}

func newGuardedRouter(tokens *TokenIssuer, users UserResolver) *gin.Engine {
	log := logrus.New()
	log.SetLevel(logrus.PanicLevel)

	r := gin.New()
	r.SetHTMLTemplate(template.Must(template.New("error.html").Parse(`{{.status}} {{.message}}`)))
	r.Use(Session(tokens, users, log))
	ok := func(c *gin.Context) { c.String(http.StatusOK, "ok") }
	r.GET("/admin", Require(AdminOnly), ok)
	r.GET("/user", Require(UserOnly), ok)
	return r
}

func TestGuards(t *testing.T) {
	tokens := NewTokenIssuer("test-secret", time.Hour)
	users := fakeResolver{
		1: {ID: 1, Email: "admin@example.com", Role: model.Admin},
		2: {ID: 2, Email: "member@example.com", Role: model.Member},
	}
	router := newGuardedRouter(tokens, users)

	adminToken, err := tokens.Generate(1)
	require.NoError(t, err)
	memberToken, err := tokens.Generate(2)
	require.NoError(t, err)
	goneToken, err := tokens.Generate(3)
	require.NoError(t, err)
	foreignToken, err := NewTokenIssuer("other-secret", time.Hour).Generate(1)
	require.NoError(t, err)

	tests := []struct {
		name   string
		path   string
		token  string
		header bool
		want   int
	}{
		{"admin may reach admin route", "/admin", adminToken, false, http.StatusOK},
		{"member is forbidden on admin route", "/admin", memberToken, false, http.StatusForbidden},
		{"anonymous is forbidden on admin route", "/admin", "", false, http.StatusForbidden},
		{"member may reach user route", "/user", memberToken, false, http.StatusOK},
		{"bearer header works too", "/user", memberToken, true, http.StatusOK},
		{"anonymous is forbidden on user route", "/user", "", false, http.StatusForbidden},
		{"deleted account is anonymous", "/user", goneToken, false, http.StatusForbidden},
		{"token signed with another key is anonymous", "/admin", foreignToken, false, http.StatusForbidden},
		{"garbage token is anonymous", "/user", "not-a-token", false, http.StatusForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, tt.path, http.NoBody)
			if tt.token != "" {
				if tt.header {
					req.Header.Set("Authorization", "Bearer "+tt.token)
				} else {
					req.AddCookie(&http.Cookie{Name: SessionCookie, Value: tt.token})
				}
			}
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, req)

			assert.Equal(t, tt.want, rec.Code)
			if tt.want == http.StatusOK {
				assert.Equal(t, "ok", rec.Body.String())
			}
		})
	}
}

func TestVerdictsArePure(t *testing.T) {
	assert.ErrorIs(t, AdminOnly(nil), ErrForbidden)
	assert.ErrorIs(t, AdminOnly(&model.User{ID: 1, Role: model.Member}), ErrForbidden)
	assert.NoError(t, AdminOnly(&model.User{ID: 7, Role: model.Admin}))

	assert.ErrorIs(t, UserOnly(nil), ErrForbidden)
	assert.NoError(t, UserOnly(&model.User{ID: 7}))
}

func TestTokenExpiry(t *testing.T) {
	tokens := NewTokenIssuer("test-secret", -time.Minute)
	token, err := tokens.Generate(5)
	require.NoError(t, err)

	_, err = tokens.Validate(token)
	assert.Error(t, err)
}

func TestTokenRoundTrip(t *testing.T) {
	tokens := NewTokenIssuer("test-secret", time.Minute)
	token, err := tokens.Generate(5)
	require.NoError(t, err)

	id, err := tokens.Validate(token)
	require.NoError(t, err)
	assert.EqualValues(t, 5, id)
}
