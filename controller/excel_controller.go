package controller

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"cafelist/model"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/xuri/excelize/v2"
)

const exportSheet = "Cafes"

// ExportCafes streams every cafe as an xlsx workbook, one column per table column.
func (h *Controller) ExportCafes(c *gin.Context) {
	cafes, err := h.cafes.List(c.Request.Context())
	if err != nil {
		_ = c.Error(err)
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Failed to fetch cafes"})
		return
	}

	xl := excelize.NewFile()
	defer xl.Close()

	if err := xl.SetSheetName("Sheet1", exportSheet); err != nil {
		h.exportFailed(c, err)
		return
	}

	header := make([]interface{}, len(model.CafeColumns))
	for i, col := range model.CafeColumns {
		header[i] = col
	}
	if err := xl.SetSheetRow(exportSheet, "A1", &header); err != nil {
		h.exportFailed(c, err)
		return
	}

	for i, cafe := range cafes {
		row := []interface{}{
			cafe.ID, cafe.Name, cafe.MapURL, cafe.ImgURL, cafe.Location, cafe.Seats,
			cafe.HasToilet, cafe.HasWifi, cafe.HasSockets, cafe.CanTakeCalls, cafe.Price(),
		}
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			h.exportFailed(c, err)
			return
		}
		if err := xl.SetSheetRow(exportSheet, cell, &row); err != nil {
			h.exportFailed(c, err)
			return
		}
	}

	c.Header("Content-Disposition", `attachment; filename="cafes.xlsx"`)
	c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Status(http.StatusOK)
	if err := xl.Write(c.Writer); err != nil {
		h.log.WithError(err).Error("write cafes workbook")
	}
}

func (h *Controller) exportFailed(c *gin.Context, err error) {
	_ = c.Error(err)
	c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Failed to build workbook"})
}

// ImportCafes adds cafes from the first sheet of an uploaded workbook. The
// first row names the columns; id is ignored. Rows failing the same checks
// as the new-cafe form, or naming a cafe that already exists, are skipped.
func (h *Controller) ImportCafes(c *gin.Context) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Excel file is required"})
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Unable to open Excel file"})
		return
	}
	defer file.Close()

	xl, err := excelize.OpenReader(file)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Failed to parse Excel file"})
		return
	}
	defer xl.Close()

	rows, err := xl.GetRows(xl.GetSheetName(0))
	if err != nil || len(rows) < 2 {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Excel must have at least one row of data"})
		return
	}

	existing, err := h.cafes.List(c.Request.Context())
	if err != nil {
		_ = c.Error(err)
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Failed to fetch cafes"})
		return
	}
	seen := make(map[string]bool, len(existing))
	for _, cafe := range existing {
		seen[cafe.Name] = true
	}

	columns := make(map[string]int, len(rows[0]))
	for i, name := range rows[0] {
		columns[strings.ToLower(strings.TrimSpace(name))] = i
	}

	var cafes []model.Cafe
	skipped := 0
	for rowIndex, row := range rows[1:] {
		form := formFromRow(columns, row)
		if err := binding.Validator.ValidateStruct(&form); err != nil {
			h.log.WithField("row", rowIndex+2).WithError(err).Debug("skipping invalid row")
			skipped++
			continue
		}

		cafe := form.toCafe()
		if seen[cafe.Name] {
			h.log.WithField("row", rowIndex+2).WithField("name", cafe.Name).Debug("skipping duplicate cafe")
			skipped++
			continue
		}
		seen[cafe.Name] = true
		cafes = append(cafes, *cafe)
	}

	if len(cafes) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "No valid rows found", "skipped": skipped})
		return
	}

	if err := h.cafes.CreateBatch(c.Request.Context(), cafes); err != nil {
		_ = c.Error(err)
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": fmt.Sprintf("Failed to insert cafes: %v", err)})
		return
	}

	h.log.WithField("count", len(cafes)).WithField("skipped", skipped).Info("cafes imported")
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Bulk cafe upload successful",
		"count":   len(cafes),
		"skipped": skipped,
	})
}

func formFromRow(columns map[string]int, row []string) cafeForm {
	cell := func(name string) string {
		i, ok := columns[name]
		if !ok || i >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[i])
	}
	flag := func(name string) bool {
		v, _ := strconv.ParseBool(cell(name))
		return v
	}

	return cafeForm{
		Name:         cell("name"),
		Location:     cell("location"),
		Seats:        cell("seats"),
		CoffeePrice:  cell("coffee_price"),
		MapURL:       cell("map_url"),
		ImgURL:       cell("img_url"),
		HasWifi:      flag("has_wifi"),
		HasToilet:    flag("has_toilet"),
		HasSockets:   flag("has_sockets"),
		CanTakeCalls: flag("can_take_calls"),
	}
}
