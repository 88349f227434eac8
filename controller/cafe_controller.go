package controller

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"cafelist/database"
	"cafelist/model"

	"github.com/gin-gonic/gin"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

const noCafeAtLocation = "Sorry, we don't have a cafe at that location"

type cafeForm struct {
	Name         string `form:"name" binding:"required,notblank"`
	Location     string `form:"location" binding:"required,notblank"`
	Seats        string `form:"seats" binding:"required,notblank"`
	CoffeePrice  string `form:"coffee_price" binding:"required,notblank"`
	MapURL       string `form:"map_url" binding:"required,notblank"`
	ImgURL       string `form:"img_url" binding:"required,notblank,url"`
	HasWifi      bool   `form:"has_wifi"`
	HasToilet    bool   `form:"has_toilet"`
	HasSockets   bool   `form:"has_sockets"`
	CanTakeCalls bool   `form:"can_take_calls"`
}

func formFromCafe(cafe *model.Cafe) cafeForm {
	return cafeForm{
		Name:         cafe.Name,
		Location:     cafe.Location,
		Seats:        cafe.Seats,
		CoffeePrice:  cafe.Price(),
		MapURL:       cafe.MapURL,
		ImgURL:       cafe.ImgURL,
		HasWifi:      cafe.HasWifi,
		HasToilet:    cafe.HasToilet,
		HasSockets:   cafe.HasSockets,
		CanTakeCalls: cafe.CanTakeCalls,
	}
}

func (f cafeForm) toCafe() *model.Cafe {
	cafe := &model.Cafe{
		Name:         strings.TrimSpace(f.Name),
		Location:     strings.TrimSpace(f.Location),
		Seats:        strings.TrimSpace(f.Seats),
		MapURL:       strings.TrimSpace(f.MapURL),
		ImgURL:       strings.TrimSpace(f.ImgURL),
		HasWifi:      f.HasWifi,
		HasToilet:    f.HasToilet,
		HasSockets:   f.HasSockets,
		CanTakeCalls: f.CanTakeCalls,
	}
	if price := strings.TrimSpace(f.CoffeePrice); price != "" {
		cafe.CoffeePrice = &price
	}
	return cafe
}

// ListCafes renders every cafe ordered by name.
func (h *Controller) ListCafes(c *gin.Context) {
	cafes, err := h.cafes.List(c.Request.Context())
	if err != nil {
		h.fail(c, err)
		return
	}
	h.render(c, http.StatusOK, "index.html", gin.H{"cafes": cafes})
}

func (h *Controller) ShowCafe(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		h.notFound(c)
		return
	}

	cafe, err := h.cafes.Get(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			h.notFound(c)
			return
		}
		h.fail(c, err)
		return
	}
	h.render(c, http.StatusOK, "cafe.html", gin.H{"title": cafe.Name, "cafe": cafe})
}

func (h *Controller) RandomCafe(c *gin.Context) {
	cafe, err := h.cafes.Random(c.Request.Context())
	if err != nil {
		if errors.Is(err, database.ErrEmptyCollection) {
			c.JSON(http.StatusNotFound, gin.H{"error": gin.H{"Not Found": "Sorry, there are no cafes yet"}})
			return
		}
		_ = c.Error(err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch cafes"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"cafe": cafe})
}

// SearchCafes finds cafes whose location equals the title-cased loc query.
// A miss is reported in the body, not the status.
func (h *Controller) SearchCafes(c *gin.Context) {
	loc, ok := c.GetQuery("loc")
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": gin.H{"Bad Request": "loc query parameter is required"}})
		return
	}

	cafes, err := h.cafes.ByLocation(c.Request.Context(), titleCase(loc))
	if err != nil {
		_ = c.Error(err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to search cafes"})
		return
	}
	if len(cafes) == 0 {
		c.JSON(http.StatusOK, gin.H{"error": gin.H{"Not Found": noCafeAtLocation}})
		return
	}
	c.JSON(http.StatusOK, gin.H{"cafes": cafes})
}

func titleCase(s string) string {
	// a Caser keeps state, so one per call
	return cases.Title(language.Und).String(s)
}

func (h *Controller) NewCafeForm(c *gin.Context) {
	h.render(c, http.StatusOK, "make-cafe.html", gin.H{"title": "New cafe", "form": cafeForm{}})
}

func (h *Controller) CreateCafe(c *gin.Context) {
	var form cafeForm
	if err := c.ShouldBind(&form); err != nil {
		h.render(c, http.StatusBadRequest, "make-cafe.html", gin.H{
			"title":  "New cafe",
			"form":   form,
			"errors": fieldErrors(&form, err),
		})
		return
	}

	cafe := form.toCafe()
	if err := h.cafes.Create(c.Request.Context(), cafe); err != nil {
		h.fail(c, err)
		return
	}

	h.log.WithField("cafe_id", cafe.ID).Info("cafe created")
	c.Redirect(http.StatusFound, "/all")
}

func (h *Controller) EditCafeForm(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		h.notFound(c)
		return
	}

	cafe, err := h.cafes.Get(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			h.notFound(c)
			return
		}
		h.fail(c, err)
		return
	}
	h.render(c, http.StatusOK, "make-cafe.html", gin.H{
		"title": "Edit " + cafe.Name,
		"edit":  true,
		"form":  formFromCafe(cafe),
	})
}

func (h *Controller) UpdateCafe(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		h.notFound(c)
		return
	}

	var form cafeForm
	if err := c.ShouldBind(&form); err != nil {
		h.render(c, http.StatusBadRequest, "make-cafe.html", gin.H{
			"title":  "Edit cafe",
			"edit":   true,
			"form":   form,
			"errors": fieldErrors(&form, err),
		})
		return
	}

	if err := h.cafes.Update(c.Request.Context(), id, form.toCafe()); err != nil {
		if errors.Is(err, database.ErrNotFound) {
			h.notFound(c)
			return
		}
		h.fail(c, err)
		return
	}

	h.log.WithField("cafe_id", id).Info("cafe updated")
	c.Redirect(http.StatusFound, fmt.Sprintf("/cafe/%d", id))
}

// DeleteCafe redirects to the list whether or not the cafe existed.
func (h *Controller) DeleteCafe(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		h.notFound(c)
		return
	}

	if err := h.cafes.Delete(c.Request.Context(), id); err != nil {
		h.fail(c, err)
		return
	}

	h.log.WithField("cafe_id", id).Info("cafe deleted")
	c.Redirect(http.StatusFound, "/all")
}
