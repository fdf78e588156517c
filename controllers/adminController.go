package controllers

import (
	"context"
	"log"
	"net/http"

	"lostfound-be/mailer"
	"lostfound-be/models"
	"lostfound-be/store"
	authUtils "lostfound-be/utils"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// AdminController serves the admin console: login, claim review and
// inventory management.
type AdminController struct {
	items      store.ItemStore
	admins     store.AdminStore
	dispatcher *mailer.Dispatcher
	jwtSecret  string
}

func NewAdminController(items store.ItemStore, admins store.AdminStore, dispatcher *mailer.Dispatcher, jwtSecret string) *AdminController {
	return &AdminController{items: items, admins: admins, dispatcher: dispatcher, jwtSecret: jwtSecret}
}

// Login checks the admin credential and issues a bearer token.
func (ac *AdminController) Login(c *gin.Context) {
	var input struct {
		Email    string `json:"email" binding:"required,email"`
		Password string `json:"password" binding:"required"`
	}

	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": err.Error()})
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
	defer cancel()

	admin, err := ac.admins.FindByEmail(ctx, input.Email)
	if err != nil || !admin.ComparePassword(input.Password) {
		c.JSON(http.StatusUnauthorized, gin.H{"success": false, "message": "Invalid credentials"})
		return
	}

	token, err := authUtils.GenerateAdminToken(ac.jwtSecret, admin.ID.Hex())
	if err != nil {
		log.Println("Error generating token:", err)
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Something went wrong"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"token":   token,
		"email":   admin.Email,
	})
}

// GetClaimRequests lists every item that entered the claim workflow with its
// claimant populated, newest claim first.
func (ac *AdminController) GetClaimRequests(c *gin.Context) {
	ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
	defer cancel()

	items, err := ac.items.ListClaims(ctx)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Error fetching claim requests"})
		return
	}

	claims := make([]gin.H, 0, len(items))
	for _, item := range items {
		claims = append(claims, gin.H{
			"_id": item.ID,
			"item": gin.H{
				"title":       item.Title,
				"category":    item.Category,
				"location":    item.Location,
				"description": item.Description,
				"images":      item.Images,
			},
			"claimedBy": item.ClaimedBy,
			"status":    item.Status,
			"createdAt": item.CreatedAt,
		})
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "claims": claims})
}

// ApproveClaim resolves a pending claim as approved and notifies the
// claimant. The transition commits first; a failed email becomes a warning
// on the successful response.
func (ac *AdminController) ApproveClaim(c *gin.Context) {
	ac.resolveClaim(c, models.Claimed)
}

// RejectClaim resolves a pending claim as rejected. The claimant sub-record
// is kept so the claim history survives.
func (ac *AdminController) RejectClaim(c *gin.Context) {
	ac.resolveClaim(c, models.Rejected)
}

func (ac *AdminController) resolveClaim(c *gin.Context, to models.ItemStatus) {
	itemID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid claim ID"})
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
	defer cancel()

	item, err := ac.items.Transition(ctx, itemID, to)
	switch err {
	case nil:
	case store.ErrNotFound:
		c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "Claim not found"})
		return
	case store.ErrStatusConflict:
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"message": "Invalid claim status",
			"details": "Only pending claims can be approved or rejected",
		})
		return
	default:
		log.Println("Error resolving claim:", err)
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Error resolving claim"})
		return
	}

	message := "Claim approved"
	notify := ac.dispatcher.ClaimApproved
	if to == models.Rejected {
		message = "Claim rejected"
		notify = ac.dispatcher.ClaimRejected
	}

	response := gin.H{
		"success": true,
		"message": message,
		"data": gin.H{
			"itemId": item.ID,
			"status": item.Status,
		},
	}

	if item.ClaimedBy != nil && item.ClaimedBy.Email != "" {
		if err := notify(item); err != nil {
			log.Printf("Notification email failed for item %s: %v", item.ID.Hex(), err)
			response["warning"] = "Notification email could not be sent"
		}
	}

	c.JSON(http.StatusOK, response)
}

// SendItemDetails emails the item summary with a plain-text attachment, used
// for verification handoff before a claim is filed.
func (ac *AdminController) SendItemDetails(c *gin.Context) {
	var input struct {
		ItemID string `json:"itemId" binding:"required"`
		Email  string `json:"email" binding:"required,email"`
	}

	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Item ID and email are required"})
		return
	}

	itemID, err := primitive.ObjectIDFromHex(input.ItemID)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid item ID"})
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
	defer cancel()

	item, err := ac.items.FindByID(ctx, itemID)
	if err == store.ErrNotFound {
		c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "Item not found"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Error fetching item"})
		return
	}

	if err := ac.dispatcher.ItemDetails(input.Email, item); err != nil {
		log.Println("Error sending item information:", err)
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Error sending item information"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Item information sent successfully"})
}

// UpdateItem is the unguarded inventory override: any provided field,
// including status, is written directly. Intended for correcting data entry
// errors, not for the claim workflow.
func (ac *AdminController) UpdateItem(c *gin.Context) {
	itemID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid item ID"})
		return
	}

	var input struct {
		Title       *string   `json:"title,omitempty"`
		Description *string   `json:"description,omitempty"`
		Category    *string   `json:"category,omitempty"`
		Status      *string   `json:"status,omitempty"`
		Location    *string   `json:"location,omitempty"`
		Date        *string   `json:"date,omitempty"`
		Images      *[]string `json:"images,omitempty"`
		FirstName   *string   `json:"firstName,omitempty"`
		LastName    *string   `json:"lastName,omitempty"`
		Email       *string   `json:"email,omitempty"`
		Phone       *string   `json:"phone,omitempty"`
	}

	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": err.Error()})
		return
	}

	patch := store.ItemPatch{
		Title:       input.Title,
		Description: input.Description,
		Location:    input.Location,
		Images:      input.Images,
	}

	if input.Category != nil {
		category := models.ItemCategory(*input.Category)
		if !models.ValidCategory(category) {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid category"})
			return
		}
		patch.Category = &category
	}
	if input.Status != nil {
		// Enum membership only; the override bypasses the transition table.
		status := models.ItemStatus(*input.Status)
		if !models.ValidStatus(status) {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid status"})
			return
		}
		patch.Status = &status
	}
	if input.Date != nil {
		parsed, err := parseDate(*input.Date)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid date"})
			return
		}
		patch.Date = &parsed
	}
	if input.FirstName != nil || input.LastName != nil || input.Email != nil || input.Phone != nil {
		// Reporter correction requires the full contact record.
		if input.FirstName == nil || input.LastName == nil || input.Email == nil || input.Phone == nil {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Reporter update requires firstName, lastName, email and phone"})
			return
		}
		patch.Reporter = &models.Contact{
			FirstName: *input.FirstName,
			LastName:  *input.LastName,
			Email:     *input.Email,
			Phone:     *input.Phone,
		}
	}

	ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
	defer cancel()

	item, err := ac.items.UpdateFields(ctx, itemID, patch)
	if err == store.ErrNotFound {
		c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "Item not found"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Error updating item"})
		return
	}

	c.JSON(http.StatusOK, item)
}

// DeleteItem removes an item record outright.
func (ac *AdminController) DeleteItem(c *gin.Context) {
	itemID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid item ID"})
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
	defer cancel()

	err = ac.items.Delete(ctx, itemID)
	if err == store.ErrNotFound {
		c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "Item not found"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Error deleting item"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Item deleted successfully"})
}
