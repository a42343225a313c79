package middleware

import (
	"legacy_portal/pkg"
	"log"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

const (
	UserIDKey = "user_id"
	RoleKey   = "role"

	RoleAdmin = "admin"
	RolePM    = "pm"
)

var (
	errUnauthorized = pkg.NewDomainErrorSimple("UNAUTHORIZED", "Missing or invalid credentials", http.StatusUnauthorized)
	errForbidden    = pkg.NewDomainErrorSimple("FORBIDDEN", "Not allowed for this role", http.StatusForbidden)
)

// Claims is the token body issued to back office staff.
type Claims struct {
	Role string `json:"role"`
	jwt.RegisteredClaims
}

func abort(c *gin.Context, appErr *pkg.AppError) {
	c.AbortWithStatusJSON(appErr.HTTPStatus, appErr.ToHTTPError())
}

// AuthMiddleware accepts HS256 bearer tokens signed with secret and whose
// role is one of roles. An empty secret rejects every request.
func AuthMiddleware(secret string, roles ...string) gin.HandlerFunc {
	allowed := make(map[string]bool, len(roles))
	for _, r := range roles {
		allowed[r] = true
	}

	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || strings.TrimSpace(parts[1]) == "" {
			abort(c, errUnauthorized)
			return
		}
		if secret == "" {
			log.Printf("[auth][middleware] JWT_SECRET not set; rejecting path=%s", c.FullPath())
			abort(c, errUnauthorized)
			return
		}

		claims := &Claims{}
		token, err := jwt.ParseWithClaims(strings.TrimSpace(parts[1]), claims, func(token *jwt.Token) (interface{}, error) {
			return []byte(secret), nil
		}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithExpirationRequired())
		if err != nil || !token.Valid {
			log.Printf("[auth][middleware] token rejected path=%s err=%v", c.FullPath(), err)
			abort(c, errUnauthorized)
			return
		}
		if len(allowed) > 0 && !allowed[claims.Role] {
			log.Printf("[auth][middleware] role denied sub=%s role=%s path=%s", claims.Subject, claims.Role, c.FullPath())
			abort(c, errForbidden)
			return
		}

		c.Set(UserIDKey, claims.Subject)
		c.Set(RoleKey, claims.Role)
		c.Next()
	}
}
