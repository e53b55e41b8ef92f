package items

import (
	"errors"
	"math/rand"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/mjwalters/stockroom/pkg/stockroom/auth"
	"github.com/mjwalters/stockroom/pkg/stockroom/groupref"
	"github.com/mjwalters/stockroom/pkg/stockroom/models"
	"github.com/mjwalters/stockroom/pkg/stockroom/policy"
	"github.com/mjwalters/stockroom/pkg/stockroom/uploads"
	"gorm.io/gorm"
)

const (
	defaultPage  = 1
	defaultLimit = 20
)

// Handler handles item-related requests
type Handler struct {
	db       *gorm.DB
	strategy groupref.Strategy
	store    *uploads.Store
}

// NewHandler creates a new items handler
func NewHandler(db *gorm.DB, strategy groupref.Strategy, store *uploads.Store) *Handler {
	return &Handler{db: db, strategy: strategy, store: store}
}

// CreateItemRequest represents the multipart form fields to create an item
type CreateItemRequest struct {
	Name        string  `form:"name"`
	SKU         string  `form:"sku"`
	Description string  `form:"description"`
	Quantity    int     `form:"quantity"`
	Location    string  `form:"location"`
	Price       float64 `form:"price"`
	GroupID     uint    `form:"groupId"`
}

// UpdateItemRequest represents the multipart form fields to update an item.
// Pointer fields so that only provided fields are applied.
type UpdateItemRequest struct {
	Name        *string  `form:"name"`
	SKU         *string  `form:"sku"`
	Description *string  `form:"description"`
	Quantity    *int     `form:"quantity"`
	Location    *string  `form:"location"`
	Price       *float64 `form:"price"`
	GroupID     uint     `form:"groupId"`
}

// GroupInfo represents the item's group data in responses
type GroupInfo struct {
	ID          uint   `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Colour      string `json:"colour"`
}

// ItemResponse represents an item in API responses
type ItemResponse struct {
	ID          uint      `json:"id"`
	Name        string    `json:"name"`
	SKU         string    `json:"sku"`
	Description string    `json:"description"`
	Quantity    int       `json:"quantity"`
	Colour      string    `json:"colour"`
	Location    string    `json:"location"`
	Price       float64   `json:"price"`
	Image       string    `json:"image"`
	CreatedByID uint      `json:"created_by_id"`
	Group       GroupInfo `json:"group"`
	CreatedAt   string    `json:"created_at"`
	UpdatedAt   string    `json:"updated_at"`
}

// ListItemsResponse represents a page of items
type ListItemsResponse struct {
	Total int64          `json:"total"`
	Page  int            `json:"page"`
	Limit int            `json:"limit"`
	Items []ItemResponse `json:"items"`
}

func itemToResponse(item models.Item) ItemResponse {
	return ItemResponse{
		ID:          item.ID,
		Name:        item.Name,
		SKU:         item.SKU,
		Description: item.Description,
		Quantity:    item.Quantity,
		Colour:      item.Colour,
		Location:    item.Location,
		Price:       item.Price,
		Image:       item.Image,
		CreatedByID: item.CreatedByID,
		Group: GroupInfo{
			ID:          item.Group.GroupID,
			Name:        item.Group.Name,
			Description: item.Group.Description,
			Colour:      item.Group.Colour,
		},
		CreatedAt: item.CreatedAt.Format("2006-01-02T15:04:05Z"),
		UpdatedAt: item.UpdatedAt.Format("2006-01-02T15:04:05Z"),
	}
}

// randomColour returns a random "#RRGGBB" hex colour
func randomColour() string {
	const hexChars = "0123456789ABCDEF"
	b := make([]byte, 7)
	b[0] = '#'
	for i := 1; i < len(b); i++ {
		b[i] = hexChars[rand.Intn(len(hexChars))]
	}
	return string(b)
}

// saveImage stores the optional "image" multipart field and returns its
// public path, or "" when the field is absent.
func (h *Handler) saveImage(c *gin.Context) (string, error) {
	fh, err := c.FormFile("image")
	if err != nil {
		// No file supplied.
		return "", nil
	}
	return h.store.Save(fh)
}

// List returns a page of items
// @Summary List items
// @Description Page through items with optional name search and group filter
// @Tags items
// @Produce json
// @Param search query string false "Case-insensitive substring match on name"
// @Param groupId query int false "Filter by group id"
// @Param page query int false "Page number (default 1)"
// @Param limit query int false "Page size (default 20)"
// @Success 200 {object} ListItemsResponse
// @Security BearerAuth
// @Router /items [get]
func (h *Handler) List(c *gin.Context) {
	page, err := strconv.Atoi(c.DefaultQuery("page", strconv.Itoa(defaultPage)))
	if err != nil || page < 1 {
		page = defaultPage
	}
	limit, err := strconv.Atoi(c.DefaultQuery("limit", strconv.Itoa(defaultLimit)))
	if err != nil || limit < 1 {
		limit = defaultLimit
	}

	query := h.db.Model(&models.Item{})
	if search := c.Query("search"); search != "" {
		query = query.Where("LOWER(name) LIKE ?", "%"+strings.ToLower(search)+"%")
	}
	if groupID := c.Query("groupId"); groupID != "" {
		query = query.Where("group_group_id = ?", groupID)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch items"})
		return
	}

	var items []models.Item
	if err := query.Order("created_at DESC").
		Offset((page - 1) * limit).
		Limit(limit).
		Find(&items).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch items"})
		return
	}

	if err := h.strategy.Refresh(h.db, items); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch items"})
		return
	}

	responses := make([]ItemResponse, len(items))
	for i, item := range items {
		responses[i] = itemToResponse(item)
	}

	c.JSON(http.StatusOK, ListItemsResponse{
		Total: total,
		Page:  page,
		Limit: limit,
		Items: responses,
	})
}

// Get returns a single item
// @Summary Get an item
// @Description Get a single item by id with its group data brought current
// @Tags items
// @Produce json
// @Param id path int true "Item ID"
// @Success 200 {object} ItemResponse
// @Failure 404 {object} map[string]string "Item not found"
// @Security BearerAuth
// @Router /items/{id} [get]
func (h *Handler) Get(c *gin.Context) {
	itemID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid item ID"})
		return
	}

	var item models.Item
	if err := h.db.First(&item, itemID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Not found"})
		return
	}

	page := []models.Item{item}
	if err := h.strategy.Refresh(h.db, page); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch item"})
		return
	}

	c.JSON(http.StatusOK, itemToResponse(page[0]))
}

// Create creates a new item
// @Summary Create an item
// @Description Create an item with an optional multipart image upload
// @Tags items
// @Accept mpfd
// @Produce json
// @Param name formData string true "Item name"
// @Param groupId formData int true "Group id"
// @Param image formData file false "Image (max 5 MiB)"
// @Success 200 {object} ItemResponse
// @Failure 400 {object} map[string]string "Validation error"
// @Security BearerAuth
// @Router /items [post]
func (h *Handler) Create(c *gin.Context) {
	userID, _ := auth.GetUserID(c)

	var req CreateItemRequest
	if err := c.ShouldBind(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if req.Name == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "name required"})
		return
	}
	if req.GroupID == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "groupId required"})
		return
	}

	snapshot, err := h.strategy.Snapshot(h.db, req.GroupID)
	if err != nil {
		if errors.Is(err, groupref.ErrGroupNotFound) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid groupId"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create item"})
		return
	}

	image, err := h.saveImage(c)
	if err != nil {
		if errors.Is(err, uploads.ErrTooLarge) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Image exceeds the 5 MiB limit"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to store image"})
		return
	}

	item := models.Item{
		Name:        req.Name,
		SKU:         req.SKU,
		Description: req.Description,
		Quantity:    req.Quantity,
		Colour:      randomColour(),
		Location:    req.Location,
		Price:       req.Price,
		Image:       image,
		CreatedByID: userID,
		Group:       snapshot,
	}
	if err := h.db.Create(&item).Error; err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Failed to create item"})
		return
	}

	c.JSON(http.StatusOK, itemToResponse(item))
}

// Update applies a partial patch to an item
// @Summary Update an item
// @Description Update an item; a new groupId re-validates and re-snapshots,
// @Description an absent groupId leaves the stored group data untouched
// @Tags items
// @Accept mpfd
// @Produce json
// @Param id path int true "Item ID"
// @Success 200 {object} ItemResponse
// @Failure 400 {object} map[string]string "Validation error"
// @Failure 404 {object} map[string]string "Item not found"
// @Security BearerAuth
// @Router /items/{id} [put]
func (h *Handler) Update(c *gin.Context) {
	itemID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid item ID"})
		return
	}

	var item models.Item
	if err := h.db.First(&item, itemID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Not found"})
		return
	}

	var req UpdateItemRequest
	if err := c.ShouldBind(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	// Reassigning the group re-snapshots from the new group exactly like
	// create; an omitted groupId leaves the stored value as it is, however
	// stale it may be.
	if req.GroupID != 0 {
		snapshot, err := h.strategy.Snapshot(h.db, req.GroupID)
		if err != nil {
			if errors.Is(err, groupref.ErrGroupNotFound) {
				c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid groupId"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update item"})
			return
		}
		item.Group = snapshot
	}

	if req.Name != nil {
		item.Name = *req.Name
	}
	if req.SKU != nil {
		item.SKU = *req.SKU
	}
	if req.Description != nil {
		item.Description = *req.Description
	}
	if req.Quantity != nil {
		item.Quantity = *req.Quantity
	}
	if req.Location != nil {
		item.Location = *req.Location
	}
	if req.Price != nil {
		item.Price = *req.Price
	}

	image, err := h.saveImage(c)
	if err != nil {
		if errors.Is(err, uploads.ErrTooLarge) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Image exceeds the 5 MiB limit"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to store image"})
		return
	}
	if image != "" {
		item.Image = image
	}

	if err := h.db.Save(&item).Error; err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Failed to update item"})
		return
	}

	c.JSON(http.StatusOK, itemToResponse(item))
}

// Delete removes an item; only admins and the item's creator may do so
// @Summary Delete an item
// @Description Delete an item (admin or original creator only)
// @Tags items
// @Produce json
// @Param id path int true "Item ID"
// @Success 200 {object} map[string]string
// @Failure 403 {object} map[string]string "Forbidden"
// @Failure 404 {object} map[string]string "Item not found"
// @Security BearerAuth
// @Router /items/{id} [delete]
func (h *Handler) Delete(c *gin.Context) {
	userID, _ := auth.GetUserID(c)
	role, _ := auth.GetRole(c)

	itemID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid item ID"})
		return
	}

	var item models.Item
	if err := h.db.First(&item, itemID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Not found"})
		return
	}

	if !policy.CanDeleteItem(policy.Identity{UserID: userID, Role: role}, item) {
		c.JSON(http.StatusForbidden, gin.H{"error": "Forbidden"})
		return
	}

	if err := h.db.Delete(&item).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete item"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Deleted"})
}

// RegisterRoutes registers item routes on the given router group
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("", h.List)
	rg.POST("", h.Create)
	rg.GET("/:id", h.Get)
	rg.PUT("/:id", h.Update)
	rg.DELETE("/:id", h.Delete)
}
