package controller

import (
	"errors"
	"net/http"

	"cafelist/auth"
	"cafelist/utils"

	"github.com/gin-gonic/gin"
)

type registerForm struct {
	Email    string `form:"email" binding:"required,notblank,email"`
	Password string `form:"password" binding:"required,notblank"`
	Name     string `form:"name" binding:"required,notblank"`
}

type loginForm struct {
	Email    string `form:"email" binding:"required,notblank,email"`
	Password string `form:"password" binding:"required,notblank"`
}

func (h *Controller) RegisterForm(c *gin.Context) {
	h.render(c, http.StatusOK, "register.html", gin.H{"title": "Register", "email": "", "name": ""})
}

func (h *Controller) Register(c *gin.Context) {
	var form registerForm
	if err := c.ShouldBind(&form); err != nil {
		h.render(c, http.StatusBadRequest, "register.html", gin.H{
			"title":  "Register",
			"email":  form.Email,
			"name":   form.Name,
			"errors": fieldErrors(&form, err),
		})
		return
	}

	user, err := h.users.Register(c.Request.Context(), form.Email, form.Password, form.Name)
	if err != nil {
		if errors.Is(err, auth.ErrDuplicateEmail) {
			utils.SetFlash(c, "You have already signed up with that email, please login.")
			c.Redirect(http.StatusFound, "/login")
			return
		}
		if errors.Is(err, auth.ErrMissingField) {
			h.render(c, http.StatusBadRequest, "register.html", gin.H{
				"title":  "Register",
				"email":  form.Email,
				"name":   form.Name,
				"errors": map[string]string{"name": "This field is required."},
			})
			return
		}
		h.fail(c, err)
		return
	}

	if err := utils.Login(c, h.tokens, user); err != nil {
		h.fail(c, err)
		return
	}
	h.log.WithField("user_id", user.ID).WithField("role", user.Role).Info("user registered")
	c.Redirect(http.StatusFound, "/")
}

func (h *Controller) LoginForm(c *gin.Context) {
	h.render(c, http.StatusOK, "login.html", gin.H{"title": "Log in", "email": ""})
}

func (h *Controller) Login(c *gin.Context) {
	var form loginForm
	if err := c.ShouldBind(&form); err != nil {
		h.render(c, http.StatusBadRequest, "login.html", gin.H{
			"title":  "Log in",
			"email":  form.Email,
			"errors": fieldErrors(&form, err),
		})
		return
	}

	user, err := h.users.Login(c.Request.Context(), form.Email, form.Password)
	switch {
	case errors.Is(err, auth.ErrUnknownEmail):
		utils.SetFlash(c, "The email doesn't exist, please try again")
		c.Redirect(http.StatusFound, "/login")
		return
	case errors.Is(err, auth.ErrInvalidCredential):
		utils.SetFlash(c, "Password incorrect, please try again")
		c.Redirect(http.StatusFound, "/login")
		return
	case err != nil:
		h.fail(c, err)
		return
	}

	if err := utils.Login(c, h.tokens, user); err != nil {
		h.fail(c, err)
		return
	}
	c.Redirect(http.StatusFound, "/")
}

func (h *Controller) Logout(c *gin.Context) {
	utils.Logout(c)
	c.Redirect(http.StatusFound, "/")
}
