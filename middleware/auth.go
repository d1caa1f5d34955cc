package middleware

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/mkowalczyk/prodtrack-api/config"
	"github.com/mkowalczyk/prodtrack-api/models"
)

const identityKey = "identity"

// tokenTTL is how long a login token stays valid
const tokenTTL = 24 * time.Hour

// Identity is the resolved caller passed explicitly to handlers. Services
// never read it; they take their arguments directly.
type Identity struct {
	UserID   uint
	Username string
	Role     string
}

// GenerateToken issues an HS256 token for the user
func GenerateToken(user *models.User, secret string) (string, error) {
	claims := jwt.MapClaims{
		"user_id": user.ID,
		"role":    user.Role,
		"exp":     time.Now().Add(tokenTTL).Unix(),
		"iat":     time.Now().Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}

// RequireAuth validates the bearer token, loads the account and stores the
// resolved Identity in the request context
func RequireAuth(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenStr := extractBearerToken(c.Request)
		if tokenStr == "" {
			abortUnauthorized(c, "MISSING_TOKEN", "Authorization header with bearer token is required")
			return
		}

		token, err := jwt.Parse(tokenStr, func(t *jwt.Token) (interface{}, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, jwt.ErrSignatureInvalid
			}
			return []byte(cfg.JWTSecret), nil
		})
		if err != nil || !token.Valid {
			abortUnauthorized(c, "INVALID_TOKEN", "Failed to validate token")
			return
		}

		claims, ok := token.Claims.(jwt.MapClaims)
		if !ok {
			abortUnauthorized(c, "INVALID_TOKEN", "Token claims are malformed")
			return
		}
		userIDFloat, ok := claims["user_id"].(float64)
		if !ok {
			abortUnauthorized(c, "INVALID_TOKEN", "Token claims are malformed")
			return
		}

		var user models.User
		if err := config.GetDB().First(&user, uint(userIDFloat)).Error; err != nil {
			abortUnauthorized(c, "UNKNOWN_USER", "Account no longer exists")
			return
		}
		if !user.Active {
			c.JSON(http.StatusForbidden, gin.H{
				"success": false,
				"error": gin.H{
					"code":    "USER_INACTIVE",
					"message": "Account is deactivated",
				},
			})
			c.Abort()
			return
		}

		c.Set(identityKey, Identity{
			UserID:   user.ID,
			Username: user.Username,
			Role:     user.Role,
		})
		c.Next()
	}
}

// RequireRole allows only callers whose resolved role is in the given set.
// It must run after RequireAuth.
func RequireRole(roles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		identity, err := GetIdentity(c)
		if err != nil {
			abortUnauthorized(c, "MISSING_IDENTITY", "Caller identity not resolved")
			return
		}

		for _, role := range roles {
			if identity.Role == role {
				c.Next()
				return
			}
		}

		c.JSON(http.StatusForbidden, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "FORBIDDEN",
				"message": "Insufficient permissions to access this resource",
			},
		})
		c.Abort()
	}
}

// GetIdentity extracts the resolved caller identity from the Gin context
func GetIdentity(c *gin.Context) (Identity, error) {
	value, exists := c.Get(identityKey)
	if !exists {
		return Identity{}, &AuthError{Code: "MISSING_IDENTITY", Message: "Identity not found in context"}
	}

	identity, ok := value.(Identity)
	if !ok {
		return Identity{}, &AuthError{Code: "INVALID_IDENTITY", Message: "Identity is not in the expected format"}
	}

	return identity, nil
}

// SetIdentity stores an identity in the context. Tests use this to simulate
// an authenticated caller without minting tokens.
func SetIdentity(c *gin.Context, identity Identity) {
	c.Set(identityKey, identity)
}

func extractBearerToken(r *http.Request) string {
	auth := r.Header.Get("Authorization")
	if auth == "" {
		return ""
	}
	parts := strings.SplitN(auth, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
		return ""
	}
	return parts[1]
}

func abortUnauthorized(c *gin.Context, code, message string) {
	c.JSON(http.StatusUnauthorized, gin.H{
		"success": false,
		"error": gin.H{
			"code":    code,
			"message": message,
		},
	})
	c.Abort()
}

// AuthError represents an authentication error
type AuthError struct {
	Code    string
	Message string
}

func (e *AuthError) Error() string {
	return e.Message
}
