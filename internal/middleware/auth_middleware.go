package middleware

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/farellandr/boxoffice/internal/helpers"
	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const (
	userIDKey = "user_id"
	roleKey   = "role"
)

// JWTAuthMiddleware accepts "Authorization: Bearer <token>" signed with
// secret and stores the caller's id and role on the context.
func JWTAuthMiddleware(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		tokenString, found := strings.CutPrefix(header, "Bearer ")
		if !found || tokenString == "" {
			helpers.AbortWithError(c, http.StatusUnauthorized, "Missing bearer token.")
			return
		}

		userID, role, err := ParseToken(tokenString, secret)
		if err != nil {
			helpers.AbortWithError(c, http.StatusUnauthorized, "Invalid or expired token.")
			return
		}

		c.Set(userIDKey, userID)
		c.Set(roleKey, role)
		c.Next()
	}
}

func IssueToken(userID uuid.UUID, role, secret string, ttl time.Duration) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id": userID.String(),
		"role":    role,
		"exp":     time.Now().Add(ttl).Unix(),
	})
	return token.SignedString([]byte(secret))
}

func ParseToken(tokenString, secret string) (uuid.UUID, string, error) {
	claims := jwt.MapClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		return []byte(secret), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithExpirationRequired())
	if err != nil {
		return uuid.Nil, "", err
	}
	if !token.Valid {
		return uuid.Nil, "", errors.New("invalid token")
	}

	rawID, _ := claims["user_id"].(string)
	userID, err := uuid.Parse(rawID)
	if err != nil {
		return uuid.Nil, "", errors.New("invalid user_id claim")
	}
	role, _ := claims["role"].(string)
	return userID, role, nil
}

// RequireRole lets the request through only for the listed roles.
func RequireRole(roles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		role := GetRole(c)
		for _, allowed := range roles {
			if role == allowed {
				c.Next()
				return
			}
		}
		helpers.AbortWithError(c, http.StatusForbidden, "You don't have permission to access this resource.")
	}
}

func GetUserID(c *gin.Context) (uuid.UUID, bool) {
	value, exists := c.Get(userIDKey)
	if !exists {
		return uuid.Nil, false
	}
	userID, ok := value.(uuid.UUID)
	return userID, ok
}

func GetRole(c *gin.Context) string {
	return c.GetString(roleKey)
}
