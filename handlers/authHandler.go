package handlers

import (
	"log"
	"net/http"

	"Hospitality/middlewares"
	"Hospitality/session"
	"Hospitality/utils"

	"github.com/gin-gonic/gin"
	validation "github.com/go-ozzo/ozzo-validation/v4"
)

type AuthHandler struct {
	store *session.Store
}

func NewAuthHandler(store *session.Store) *AuthHandler {
	return &AuthHandler{store: store}
}

type createSessionRequest struct {
	UserID       string `json:"user_id"`
	UserType     string `json:"user_type"`
	StaffSubRole string `json:"staff_sub_role"`
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	Email        string `json:"email"`
}

func (r createSessionRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.UserID, validation.Required),
		validation.Field(&r.UserType, validation.Required),
		validation.Field(&r.AccessToken, validation.Required),
	)
}

// CreateSession records a login: the hospital-issued tokens and the user's
// identity go into the session store, and the client gets back a session
// token to present on every later call.
func (h *AuthHandler) CreateSession(c *gin.Context) {
	var req createSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}
	if err := req.Validate(); err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		return
	}

	sess, err := h.store.Create(c.Request.Context(), session.Session{
		UserID:       req.UserID,
		UserType:     req.UserType,
		StaffSubRole: req.StaffSubRole,
		AccessToken:  req.AccessToken,
		RefreshToken: req.RefreshToken,
		Email:        req.Email,
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create session"})
		return
	}

	token, err := utils.GenerateSessionToken(sess.ID, sess.UserType)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate session token"})
		return
	}

	log.Printf("Session created for user %s (%s)", sess.UserID, sess.UserType)
	c.JSON(http.StatusCreated, gin.H{
		"session_id":    sess.ID,
		"session_token": token,
	})
}

// DestroySession is logout: the session is removed so every later call with
// its token fails authentication.
func (h *AuthHandler) DestroySession(c *gin.Context) {
	sess, err := middlewares.ExtractSession(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Session not found in context"})
		return
	}
	if err := h.store.Destroy(c.Request.Context(), sess.ID); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to destroy session"})
		return
	}
	log.Printf("Session %s destroyed", sess.ID)
	c.Status(http.StatusNoContent)
}
