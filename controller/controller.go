package controller

import (
	"errors"
	"net/http"
	"reflect"
	"strconv"

	"cafelist/auth"
	"cafelist/database"
	"cafelist/utils"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/go-playground/validator/v10/non-standard/validators"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

func init() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		_ = v.RegisterValidation("notblank", validators.NotBlank)
	}
}

// Controller carries everything the handlers need. It is built once at
// startup and shared by all requests.
type Controller struct {
	db     *gorm.DB
	cafes  *database.CafeStore
	users  *auth.Service
	tokens *utils.TokenIssuer
	log    logrus.FieldLogger
}

func New(db *gorm.DB, cafes *database.CafeStore, users *auth.Service, tokens *utils.TokenIssuer, log logrus.FieldLogger) *Controller {
	return &Controller{
		db:     db,
		cafes:  cafes,
		users:  users,
		tokens: tokens,
		log:    log,
	}
}

// render fills in the values every page uses.
func (h *Controller) render(c *gin.Context, status int, page string, data gin.H) {
	if data == nil {
		data = gin.H{}
	}
	user := utils.CurrentUser(c)
	data["user"] = user
	data["admin"] = user.IsAdmin()
	data["flash"] = utils.PopFlash(c)
	if _, ok := data["errors"]; !ok {
		data["errors"] = map[string]string{}
	}
	c.HTML(status, page, data)
}

func (h *Controller) notFound(c *gin.Context) {
	h.render(c, http.StatusNotFound, "error.html", gin.H{
		"status":  http.StatusNotFound,
		"message": "Not found.",
	})
}

func (h *Controller) fail(c *gin.Context, err error) {
	_ = c.Error(err)
	h.log.WithError(err).WithField("path", c.Request.URL.Path).Error("request failed")
	h.render(c, http.StatusInternalServerError, "error.html", gin.H{
		"status":  http.StatusInternalServerError,
		"message": "Something went wrong.",
	})
}

func (h *Controller) Health(c *gin.Context) {
	sqlDB, err := h.db.DB()
	if err == nil {
		err = sqlDB.PingContext(c.Request.Context())
	}
	if err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": "ok"})
}

func (h *Controller) About(c *gin.Context) {
	h.render(c, http.StatusOK, "about.html", gin.H{"title": "About"})
}

func (h *Controller) Contact(c *gin.Context) {
	h.render(c, http.StatusOK, "contact.html", gin.H{"title": "Contact"})
}

func idParam(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil || id == 0 {
		return 0, false
	}
	return uint(id), true
}

// fieldErrors maps binding errors to form field names.
func fieldErrors(form any, err error) map[string]string {
	errs := map[string]string{}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		errs["form"] = err.Error()
		return errs
	}

	t := reflect.TypeOf(form)
	if t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	for _, fe := range verrs {
		name := fe.Field()
		if f, ok := t.FieldByName(fe.StructField()); ok {
			if tag := f.Tag.Get("form"); tag != "" {
				name = tag
			}
		}
		switch fe.Tag() {
		case "required", "notblank":
			errs[name] = "This field is required."
		case "url":
			errs[name] = "Invalid URL."
		case "email":
			errs[name] = "Invalid email address."
		default:
			errs[name] = "Invalid value."
		}
	}
	return errs
}
