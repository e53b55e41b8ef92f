package export

import (
	"bytes"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/mjwalters/stockroom/pkg/stockroom/groupref"
	"github.com/mjwalters/stockroom/pkg/stockroom/models"
	"github.com/xuri/excelize/v2"
	"gorm.io/gorm"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// Handler handles inventory export requests
type Handler struct {
	db       *gorm.DB
	strategy groupref.Strategy
}

// NewHandler creates a new export handler
func NewHandler(db *gorm.DB, strategy groupref.Strategy) *Handler {
	return &Handler{db: db, strategy: strategy}
}

// Items writes the whole inventory as an xlsx workbook
// @Summary Export items
// @Description Download all items as an xlsx workbook
// @Tags export
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Success 200 {file} binary
// @Security BearerAuth
// @Router /export/items [get]
func (h *Handler) Items(c *gin.Context) {
	var items []models.Item
	if err := h.db.Order("created_at DESC").Find(&items).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch items"})
		return
	}

	// Group names in the export follow the same consistency policy as reads.
	if err := h.strategy.Refresh(h.db, items); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch items"})
		return
	}

	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	sheet := f.GetSheetName(f.GetActiveSheetIndex())

	header := []interface{}{"id", "name", "sku", "description", "quantity", "location", "price", "group", "image", "created_at"}
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to build export"})
		return
	}

	row := 2
	for _, item := range items {
		cell, err := excelize.CoordinatesToCellName(1, row)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to build export"})
			return
		}
		values := []interface{}{
			item.ID,
			item.Name,
			item.SKU,
			item.Description,
			item.Quantity,
			item.Location,
			item.Price,
			item.Group.Name,
			item.Image,
			item.CreatedAt.Format("2006-01-02T15:04:05Z"),
		}
		if err := f.SetSheetRow(sheet, cell, &values); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to build export"})
			return
		}
		row++
	}

	buf := &bytes.Buffer{}
	if err := f.Write(buf); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to build export"})
		return
	}

	c.Header("Content-Disposition", `attachment; filename="items.xlsx"`)
	c.Data(http.StatusOK, xlsxContentType, buf.Bytes())
}

// RegisterRoutes registers export routes on the given router group
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/items", h.Items)
}
