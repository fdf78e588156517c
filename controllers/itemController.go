package controllers

import (
	"context"
	"encoding/base64"
	"log"
	"net/http"
	"strconv"
	"time"

	"lostfound-be/mailer"
	"lostfound-be/models"
	"lostfound-be/store"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

const requestTimeout = 10 * time.Second

// ItemController serves the public item endpoints: reporting, browsing and
// claim submission.
type ItemController struct {
	items      store.ItemStore
	dispatcher *mailer.Dispatcher
}

func NewItemController(items store.ItemStore, dispatcher *mailer.Dispatcher) *ItemController {
	return &ItemController{items: items, dispatcher: dispatcher}
}

// CreateItem handles a public lost/found report.
func (ic *ItemController) CreateItem(c *gin.Context) {
	var input struct {
		Title        string   `form:"title" json:"title" binding:"required,max=200"`
		Description  string   `form:"description" json:"description" binding:"max=1000"`
		DetailedInfo string   `form:"detailedInfo" json:"detailedInfo" binding:"max=1000"`
		Category     string   `form:"category" json:"category" binding:"required"`
		Status       string   `form:"status" json:"status"`
		Location     string   `form:"location" json:"location" binding:"required,max=200"`
		Date         string   `form:"date" json:"date"`
		Images       []string `form:"images" json:"images"`
		FirstName    string   `form:"firstName" json:"firstName" binding:"required,max=100"`
		LastName     string   `form:"lastName" json:"lastName" binding:"required,max=100"`
		Email        string   `form:"email" json:"email" binding:"required,email"`
		Phone        string   `form:"phone" json:"phone" binding:"required,max=30"`
	}

	if err := c.ShouldBind(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Missing required fields", "details": err.Error()})
		return
	}

	if !models.ValidCategory(models.ItemCategory(input.Category)) {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid category", "details": "Category must be one of: Electronics, Clothing, Documents, Accessories, Other"})
		return
	}

	// The public form only reports unclaimed items.
	status := models.Found
	if input.Status != "" {
		switch models.ItemStatus(input.Status) {
		case models.Lost, models.Found:
			status = models.ItemStatus(input.Status)
		default:
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid status", "details": "Status must be one of: lost, found"})
			return
		}
	}

	description := input.Description
	if description == "" {
		description = input.DetailedInfo
	}
	if description == "" {
		description = "No description provided"
	}

	date := time.Now()
	if input.Date != "" {
		parsed, err := parseDate(input.Date)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid date", "details": "Date must be YYYY-MM-DD or RFC3339"})
			return
		}
		date = parsed
	}

	images := input.Images
	if images == nil {
		images = []string{}
	}

	now := time.Now()
	item := models.Item{
		ID:          primitive.NewObjectID(),
		Title:       input.Title,
		Description: description,
		Category:    models.ItemCategory(input.Category),
		Status:      status,
		Location:    input.Location,
		Date:        date,
		Images:      images,
		Reporter: models.Contact{
			FirstName: input.FirstName,
			LastName:  input.LastName,
			Email:     input.Email,
			Phone:     input.Phone,
		},
		CreatedAt: now,
		UpdatedAt: now,
	}

	ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
	defer cancel()

	if err := ic.items.Insert(ctx, &item); err != nil {
		log.Println("Error creating item:", err)
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Error creating item"})
		return
	}

	c.JSON(http.StatusCreated, item)
}

// GetAllItems lists items newest first with optional category/status/location
// filters, free-text search and pagination.
func (ic *ItemController) GetAllItems(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}

	filter := store.ItemFilter{
		Category: c.Query("category"),
		Status:   c.Query("status"),
		Location: c.Query("location"),
		Search:   c.Query("search"),
		Page:     page,
		Limit:    limit,
	}

	ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
	defer cancel()

	items, total, err := ic.items.FindAll(ctx, filter)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Error fetching items"})
		return
	}

	totalPages := (total + int64(limit) - 1) / int64(limit)
	c.JSON(http.StatusOK, gin.H{
		"items":       items,
		"totalItems":  total,
		"totalPages":  totalPages,
		"currentPage": page,
	})
}

// SearchItems is the free-text search endpoint over title, description,
// category and location.
func (ic *ItemController) SearchItems(c *gin.Context) {
	ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
	defer cancel()

	items, _, err := ic.items.FindAll(ctx, store.ItemFilter{Search: c.Query("query")})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Error searching items"})
		return
	}
	c.JSON(http.StatusOK, items)
}

// FilterItems narrows items by exact category/status and location substring.
func (ic *ItemController) FilterItems(c *gin.Context) {
	ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
	defer cancel()

	filter := store.ItemFilter{
		Category: c.Query("category"),
		Status:   c.Query("status"),
		Location: c.Query("location"),
	}
	items, _, err := ic.items.FindAll(ctx, filter)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Error filtering items"})
		return
	}
	c.JSON(http.StatusOK, items)
}

// GetItem retrieves one item by id.
func (ic *ItemController) GetItem(c *gin.Context) {
	itemID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid item ID"})
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
	defer cancel()

	item, err := ic.items.FindByID(ctx, itemID)
	if err == store.ErrNotFound {
		c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "Item not found"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Error fetching item"})
		return
	}
	c.JSON(http.StatusOK, item)
}

// ClaimItem submits a claim: lost/found (or previously rejected) -> pending.
// The guard and the write are one conditional update in the store, so two
// concurrent claims cannot both succeed. Reporter fields are never written.
func (ic *ItemController) ClaimItem(c *gin.Context) {
	var input struct {
		ItemID    string `json:"itemId" binding:"required"`
		FirstName string `json:"firstName" binding:"required,max=100"`
		LastName  string `json:"lastName" binding:"required,max=100"`
		Email     string `json:"email" binding:"required,email"`
		Phone     string `json:"phone" binding:"required,max=30"`
	}

	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"message": "Missing required fields",
			"details": "Please provide item ID and all contact information",
		})
		return
	}

	itemID, err := primitive.ObjectIDFromHex(input.ItemID)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid item ID"})
		return
	}

	claimant := models.Contact{
		FirstName: input.FirstName,
		LastName:  input.LastName,
		Email:     input.Email,
		Phone:     input.Phone,
	}

	ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
	defer cancel()

	item, err := ic.items.SubmitClaim(ctx, itemID, claimant)
	switch err {
	case nil:
	case store.ErrNotFound:
		c.JSON(http.StatusNotFound, gin.H{
			"success": false,
			"message": "Item not found",
			"details": "The item ID provided could not be found",
		})
		return
	case store.ErrStatusConflict:
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"message": "Item already claimed",
			"details": "This item has already been claimed by someone else",
		})
		return
	default:
		log.Println("Error processing claim:", err)
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Error processing claim"})
		return
	}

	response := gin.H{
		"success": true,
		"message": "Claim request submitted successfully",
		"data": gin.H{
			"itemId":    item.ID,
			"title":     item.Title,
			"status":    item.Status,
			"claimedBy": item.ClaimedBy,
		},
	}

	// The claim is committed; a failed confirmation email must not undo it.
	if err := ic.dispatcher.ClaimReceived(item); err != nil {
		log.Println("Claim confirmation email failed:", err)
		response["warning"] = "Confirmation email could not be sent"
	}

	c.JSON(http.StatusOK, response)
}

// GenerateQRCode returns the pickup-verification QR code for an item as a
// data URL.
func (ic *ItemController) GenerateQRCode(c *gin.Context) {
	itemID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid item ID"})
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
	defer cancel()

	item, err := ic.items.FindByID(ctx, itemID)
	if err == store.ErrNotFound {
		c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "Item not found"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Error fetching item"})
		return
	}

	png, err := mailer.VerificationQR(item)
	if err != nil {
		log.Println("Error generating QR code:", err)
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Error generating QR code"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":   true,
		"qrCode":    "data:image/png;base64," + base64.StdEncoding.EncodeToString(png),
		"qrContent": mailer.VerificationQRContent(item),
	})
}

func parseDate(s string) (time.Time, error) {
	if t, err := time.Parse("2006-01-02", s); err == nil {
		return t, nil
	}
	return time.Parse(time.RFC3339, s)
}
