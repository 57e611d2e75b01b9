package handler

import (
	"net/http"
	"time"

	"github.com/assetlog/internal/db"
	"github.com/assetlog/internal/service"
	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
)

type registerPayload struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginPayload struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type accountUpdatePayload struct {
	Name     *string `json:"name"`
	Email    *string `json:"email"`
	Password *string `json:"password"`
}

type userPayload struct {
	ID        uint      `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"created_at"`
}

func userToPayload(user *db.User) userPayload {
	return userPayload{ID: user.ID, Name: user.Name, Email: user.Email, CreatedAt: user.CreatedAt}
}

// Register 创建账号并直接登录
func (a *API) Register(c *gin.Context) {
	var payload registerPayload
	if !bindJSON(c, &payload, "invalid registration payload") {
		return
	}

	user, err := a.users.Register(service.RegisterInput{
		Name:     payload.Name,
		Email:    payload.Email,
		Password: payload.Password,
	})
	if err != nil {
		a.respondServiceError(c, err, "failed to register user")
		return
	}

	if !a.startSession(c, user) {
		return
	}
	a.log.Info("user registered", "user_id", user.ID)
	c.JSON(http.StatusCreated, userToPayload(user))
}

// Login 校验邮箱与密码并写入会话
func (a *API) Login(c *gin.Context) {
	var payload loginPayload
	if !bindJSON(c, &payload, "invalid login payload") {
		return
	}

	user, err := a.users.Authenticate(payload.Email, payload.Password)
	if err != nil {
		a.respondServiceError(c, err, "failed to log in")
		return
	}

	if !a.startSession(c, user) {
		return
	}
	c.JSON(http.StatusOK, userToPayload(user))
}

// LoginCheck reports the user bound to the current session.
func (a *API) LoginCheck(c *gin.Context) {
	userID, _ := currentUserID(c)
	user, err := a.users.Get(userID)
	if err != nil {
		a.respondServiceError(c, err, "failed to load user")
		return
	}
	c.JSON(http.StatusOK, gin.H{"logged_in": true, "user": userToPayload(user)})
}

// Logout 清除会话
func (a *API) Logout(c *gin.Context) {
	if !a.clearSession(c) {
		return
	}
	c.Status(http.StatusNoContent)
}

// UpdateAccount changes the logged-in user's name, email or password.
func (a *API) UpdateAccount(c *gin.Context) {
	var payload accountUpdatePayload
	if !bindJSON(c, &payload, "invalid account payload") {
		return
	}

	userID, _ := currentUserID(c)
	user, err := a.users.Update(userID, service.UserUpdate{
		Name:     payload.Name,
		Email:    payload.Email,
		Password: payload.Password,
	})
	if err != nil {
		a.respondServiceError(c, err, "failed to update account")
		return
	}
	c.JSON(http.StatusOK, userToPayload(user))
}

// DeleteAccount removes the logged-in user with all assets and records.
func (a *API) DeleteAccount(c *gin.Context) {
	userID, _ := currentUserID(c)
	if err := a.users.Delete(userID); err != nil {
		a.respondServiceError(c, err, "failed to delete account")
		return
	}
	if !a.clearSession(c) {
		return
	}
	a.log.Info("user deleted", "user_id", userID)
	c.Status(http.StatusNoContent)
}

// AuthRequired 是一个简单的认证中间件
func AuthRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		session := sessions.Default(c)
		userID, ok := session.Get(userIDContextKey).(uint)
		if !ok || userID == 0 {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
			return
		}
		c.Set(userIDContextKey, userID)
		c.Next()
	}
}

func (a *API) startSession(c *gin.Context, user *db.User) bool {
	session := sessions.Default(c)
	session.Set(userIDContextKey, user.ID)
	if err := session.Save(); err != nil {
		a.log.Error("save session", "error", err)
		respondError(c, http.StatusInternalServerError, "failed to save session")
		return false
	}
	return true
}

func (a *API) clearSession(c *gin.Context) bool {
	session := sessions.Default(c)
	session.Clear()
	session.Options(sessions.Options{Path: "/", MaxAge: -1})
	if err := session.Save(); err != nil {
		a.log.Error("clear session", "error", err)
		respondError(c, http.StatusInternalServerError, "failed to clear session")
		return false
	}
	return true
}
