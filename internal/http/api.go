// Package http wires the JSON API routes to the domain services.
package http

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"notevault/internal/domain"
	"notevault/internal/service"
	"notevault/internal/token"
)

// Handler wires HTTP routes to domain services.
type Handler struct {
	auth       service.AuthService
	notes      service.NoteService
	users      service.UserService
	issuer     *token.Issuer
	cookieName string
	cookieTTL  time.Duration
}

func NewHandler(auth service.AuthService, notes service.NoteService, users service.UserService, issuer *token.Issuer, cookieName string, cookieTTL time.Duration) *Handler {
	return &Handler{
		auth:       auth,
		notes:      notes,
		users:      users,
		issuer:     issuer,
		cookieName: cookieName,
		cookieTTL:  cookieTTL,
	}
}

func (h *Handler) RegisterRoutes(router *gin.Engine) {
	auth := router.Group("/auth")
	{
		auth.POST("/register", h.register)
		auth.POST("/login", h.login)
		auth.POST("/logout", h.logout)
		auth.POST("/confirmemail", h.resendConfirmEmail)
		auth.POST("/confirmemail/:token", h.confirmEmail)
		auth.POST("/forgotpassword", h.forgotPassword)
		auth.POST("/resetpassword/:token", h.resetPassword)
		auth.PUT("/updatedetails/:id", h.verify(), h.requireSelf(), h.updateDetails)
		auth.PUT("/updatepassword/:id", h.verify(), h.requireSelf(), h.updatePassword)
	}

	users := router.Group("/users")
	{
		users.GET("", h.listUsers)
		users.GET("/:id", h.getUser)
		users.POST("", h.verify(), h.requireRole(domain.RoleAdmin), h.createUser)
		users.DELETE("/:id", h.verify(), h.requireRole(domain.RoleAdmin), h.deleteUser)
	}

	notes := router.Group("/notes", h.verify())
	{
		notes.GET("", h.requireRole(domain.RoleAdmin), h.listAllNotes)
		notes.GET("/:id", h.requireSelf(), h.listNotes)
		notes.POST("/:id", h.requireSelf(), h.createNote)
		notes.GET("/:id/:nid", h.requireSelf(), h.getNote)
		notes.PUT("/:id/:nid", h.requireSelf(), h.updateNote)
		notes.DELETE("/:id/:nid", h.requireSelf(), h.deleteNote)
	}

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"success": true})
	})
}

type registerRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type emailRequest struct {
	Email string `json:"email" binding:"required"`
}

type resetPasswordRequest struct {
	Password string `json:"password"`
}

type updateDetailsRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
}

type updatePasswordRequest struct {
	CurrentPassword string `json:"currentPassword"`
	NewPassword     string `json:"newPassword"`
}

type createUserRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     string `json:"role"`
}

type noteRequest struct {
	Note string `json:"note"`
}

func (h *Handler) register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadJSON(c)
		return
	}

	user, session, err := h.auth.Register(c.Request.Context(), req.Username, req.Email, req.Password)
	if err != nil {
		respondError(c, err)
		return
	}

	h.setSessionCookie(c, session)
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"token":   session,
		"data":    userToResponse(user),
	})
}

func (h *Handler) login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadJSON(c)
		return
	}

	user, session, err := h.auth.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		respondError(c, err)
		return
	}

	h.setSessionCookie(c, session)
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"token":   session,
		"data":    userToResponse(user),
	})
}

// logout clears the client-held token. Sessions are stateless, so there is
// nothing to revoke server-side.
func (h *Handler) logout(c *gin.Context) {
	c.SetCookie(h.cookieName, "", -1, "/", "", false, true)
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Logged out.",
	})
}

func (h *Handler) forgotPassword(c *gin.Context) {
	var req emailRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadJSON(c)
		return
	}

	if err := h.auth.ForgotPassword(c.Request.Context(), req.Email); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Password reset email sent.",
	})
}

func (h *Handler) resetPassword(c *gin.Context) {
	var req resetPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadJSON(c)
		return
	}

	user, session, err := h.auth.ResetPassword(c.Request.Context(), c.Param("token"), req.Password)
	if err != nil {
		respondError(c, err)
		return
	}

	h.setSessionCookie(c, session)
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"token":   session,
		"data":    userToResponse(user),
	})
}

func (h *Handler) confirmEmail(c *gin.Context) {
	user, err := h.auth.ConfirmEmail(c.Request.Context(), c.Param("token"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Email confirmed.",
		"data":    userToResponse(user),
	})
}

func (h *Handler) resendConfirmEmail(c *gin.Context) {
	var req emailRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadJSON(c)
		return
	}

	err := h.auth.ResendConfirmEmail(c.Request.Context(), req.Email)
	if errors.Is(err, service.ErrAlreadyConfirmed) {
		c.JSON(http.StatusOK, gin.H{
			"success": true,
			"message": "Email already confirmed.",
		})
		return
	}
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Confirmation email sent.",
	})
}

func (h *Handler) updateDetails(c *gin.Context) {
	var req updateDetailsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadJSON(c)
		return
	}

	user, err := h.auth.UpdateDetails(c.Request.Context(), c.Param("id"), req.Username, req.Email)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    userToResponse(user),
	})
}

func (h *Handler) updatePassword(c *gin.Context) {
	var req updatePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadJSON(c)
		return
	}

	user, session, err := h.auth.UpdatePassword(c.Request.Context(), c.Param("id"), req.CurrentPassword, req.NewPassword)
	if err != nil {
		respondError(c, err)
		return
	}

	h.setSessionCookie(c, session)
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"token":   session,
		"data":    userToResponse(user),
	})
}

func (h *Handler) listUsers(c *gin.Context) {
	users, err := h.users.List(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}

	resp := make([]UserResponse, len(users))
	for i := range users {
		resp[i] = userToResponse(&users[i])
	}
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    resp,
	})
}

func (h *Handler) getUser(c *gin.Context) {
	user, err := h.users.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    userToResponse(user),
	})
}

func (h *Handler) createUser(c *gin.Context) {
	var req createUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadJSON(c)
		return
	}

	user, err := h.users.Create(c.Request.Context(), req.Username, req.Email, req.Password, domain.Role(req.Role))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"data":    userToResponse(user),
	})
}

func (h *Handler) deleteUser(c *gin.Context) {
	if err := h.users.Delete(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    gin.H{},
	})
}

func (h *Handler) listAllNotes(c *gin.Context) {
	notes, err := h.notes.ListAll(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    notesToResponse(notes),
	})
}

func (h *Handler) listNotes(c *gin.Context) {
	notes, err := h.notes.ListByUser(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    notesToResponse(notes),
	})
}

func (h *Handler) createNote(c *gin.Context) {
	var req noteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadJSON(c)
		return
	}

	note, err := h.notes.Create(c.Request.Context(), c.Param("id"), req.Note)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"data":    noteToResponse(*note),
	})
}

func (h *Handler) getNote(c *gin.Context) {
	note, err := h.notes.Get(c.Request.Context(), c.Param("id"), c.Param("nid"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    noteToResponse(*note),
	})
}

func (h *Handler) updateNote(c *gin.Context) {
	var req noteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadJSON(c)
		return
	}

	note, err := h.notes.Update(c.Request.Context(), c.Param("id"), c.Param("nid"), req.Note)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    noteToResponse(*note),
	})
}

func (h *Handler) deleteNote(c *gin.Context) {
	if err := h.notes.Delete(c.Request.Context(), c.Param("id"), c.Param("nid")); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    gin.H{},
	})
}

func (h *Handler) setSessionCookie(c *gin.Context, session string) {
	c.SetCookie(h.cookieName, session, int(h.cookieTTL.Seconds()), "/", "", false, true)
}

// UserResponse is the public view of a user; hash and token fields never
// appear here.
type UserResponse struct {
	ID               string `json:"id"`
	Username         string `json:"username"`
	Email            string `json:"email"`
	Role             string `json:"role"`
	IsEmailConfirmed bool   `json:"isEmailConfirmed"`
	CreatedAt        string `json:"createdAt"`
}

type NoteResponse struct {
	ID        string `json:"id"`
	Note      string `json:"note"`
	UserID    string `json:"user"`
	CreatedAt string `json:"createdAt"`
	UpdatedAt string `json:"updatedAt"`
}

func userToResponse(user *domain.User) UserResponse {
	return UserResponse{
		ID:               user.ID,
		Username:         user.Username,
		Email:            user.Email,
		Role:             string(user.Role),
		IsEmailConfirmed: user.IsEmailConfirmed,
		CreatedAt:        user.CreatedAt.Format(time.RFC3339),
	}
}

func noteToResponse(note domain.Note) NoteResponse {
	return NoteResponse{
		ID:        note.ID,
		Note:      note.Text,
		UserID:    note.UserID,
		CreatedAt: note.CreatedAt.Format(time.RFC3339),
		UpdatedAt: note.UpdatedAt.Format(time.RFC3339),
	}
}

func notesToResponse(notes []domain.Note) []NoteResponse {
	resp := make([]NoteResponse, len(notes))
	for i := range notes {
		resp[i] = noteToResponse(notes[i])
	}
	return resp
}

func respondBadJSON(c *gin.Context) {
	c.JSON(http.StatusBadRequest, gin.H{
		"success": false,
		"message": "Invalid request body.",
	})
}

// respondError maps service failures onto the response envelope. Unknown
// errors collapse to a generic 500 without leaking detail.
func respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrValidation):
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": err.Error()})
	case errors.Is(err, service.ErrInvalidCredentials):
		c.JSON(http.StatusUnauthorized, gin.H{"success": false, "message": "Invalid credentials."})
	case errors.Is(err, service.ErrEmailTaken):
		c.JSON(http.StatusConflict, gin.H{"success": false, "message": "Email is already registered."})
	case errors.Is(err, service.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "Resource not found."})
	case errors.Is(err, service.ErrTokenNotFoundOrExpired):
		c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "Token is invalid or has expired."})
	case errors.Is(err, service.ErrMailDelivery):
		c.JSON(http.StatusBadGateway, gin.H{"success": false, "message": "Email could not be sent."})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Something went wrong."})
	}
}
