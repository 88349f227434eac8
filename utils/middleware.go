package utils

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"cafelist/model"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

const (
	SessionCookie = "session"
	userKey       = "current_user"
)

// ErrForbidden is the verdict of a guard that rejects the request.
var ErrForbidden = errors.New("forbidden")

// UserResolver loads the user a session is bound to; nil means anonymous.
type UserResolver interface {
	Resolve(ctx context.Context, id uint) (*model.User, error)
}

// Session binds the request to a user when it carries a valid session token,
// from the session cookie or a Bearer header. Anything else is anonymous.
func Session(tokens *TokenIssuer, users UserResolver, log logrus.FieldLogger) gin.HandlerFunc {
	return func(c *gin.Context) {
		raw := sessionToken(c)
		if raw == "" {
			c.Next()
			return
		}

		id, err := tokens.Validate(raw)
		if err != nil {
			log.WithError(err).Debug("ignoring session token")
			c.Next()
			return
		}

		user, err := users.Resolve(c.Request.Context(), id)
		if err != nil {
			log.WithError(err).WithField("user_id", id).Error("resolve session user")
			c.AbortWithStatus(http.StatusInternalServerError)
			return
		}
		if user != nil {
			c.Set(userKey, user)
		}
		c.Next()
	}
}

func sessionToken(c *gin.Context) string {
	if authHeader := c.GetHeader("Authorization"); strings.HasPrefix(authHeader, "Bearer ") {
		return strings.TrimPrefix(authHeader, "Bearer ")
	}
	token, err := c.Cookie(SessionCookie)
	if err != nil {
		return ""
	}
	return token
}

// CurrentUser returns the user bound to the request, or nil.
func CurrentUser(c *gin.Context) *model.User {
	v, ok := c.Get(userKey)
	if !ok {
		return nil
	}
	user, _ := v.(*model.User)
	return user
}

// Login stores a session token for the user in the response cookie.
func Login(c *gin.Context, tokens *TokenIssuer, user *model.User) error {
	token, err := tokens.Generate(user.ID)
	if err != nil {
		return err
	}
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(SessionCookie, token, int(tokens.TTL().Seconds()), "/", "", false, true)
	c.Set(userKey, user)
	return nil
}

// Logout clears the session cookie whether or not one was set.
func Logout(c *gin.Context) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(SessionCookie, "", -1, "/", "", false, true)
	delete(c.Keys, userKey)
}

// Check is an authorization predicate over the current user.
type Check func(user *model.User) error

func AdminOnly(user *model.User) error {
	if !user.IsAdmin() {
		return ErrForbidden
	}
	return nil
}

func UserOnly(user *model.User) error {
	if user == nil {
		return ErrForbidden
	}
	return nil
}

// Require runs check before the handler and stops the chain with 403 when it fails.
func Require(check Check) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := check(CurrentUser(c)); err != nil {
			c.HTML(http.StatusForbidden, "error.html", gin.H{
				"status":  http.StatusForbidden,
				"message": "You are not allowed to do that.",
				"user":    CurrentUser(c),
			})
			c.Abort()
			return
		}
		c.Next()
	}
}
