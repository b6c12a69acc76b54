package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/SAP-F-2025/exam-service/internal/config"
	"github.com/SAP-F-2025/exam-service/internal/models"
	"github.com/SAP-F-2025/exam-service/internal/utils"
	"github.com/casdoor/casdoor-go-sdk/casdoorsdk"
	"github.com/gin-gonic/gin"
)

// NewAuthMiddleware verifies the Casdoor bearer token and places the acting
// account id and role on the gin context. Services never see the token; they
// take ids explicitly.
func NewAuthMiddleware(cfg *config.Config, logger utils.Logger) gin.HandlerFunc {
	casdoorsdk.InitConfig(
		cfg.CasdoorEndpoint,
		cfg.CasdoorClientID,
		cfg.CasdoorClientSecret,
		cfg.CasdoorCertificate,
		cfg.CasdoorOrganization,
		cfg.CasdoorApplication,
	)

	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if !strings.HasPrefix(header, "Bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, ErrorResponse{
				Message: "Missing bearer token",
			})
			return
		}

		token := strings.TrimPrefix(header, "Bearer ")
		claims, err := casdoorsdk.ParseJwtToken(token)
		if err != nil {
			logger.Warn("Rejected invalid token", "error", err)
			c.AbortWithStatusJSON(http.StatusUnauthorized, ErrorResponse{
				Message: "Invalid token",
			})
			return
		}

		// The account id is carried in the Casdoor user id.
		accountID, err := strconv.ParseUint(claims.User.Id, 10, 32)
		if err != nil {
			logger.Warn("Token carries non-numeric account id", "casdoor_id", claims.User.Id)
			c.AbortWithStatusJSON(http.StatusUnauthorized, ErrorResponse{
				Message: "Invalid token subject",
			})
			return
		}

		c.Set("user_id", uint(accountID))
		c.Set("user_role", roleFromClaims(claims))
		c.Next()
	}
}

// roleFromClaims maps the Casdoor user onto the service's role set; the user
// tag carries the school role, IsAdmin overrides it.
func roleFromClaims(claims *casdoorsdk.Claims) models.UserRole {
	if claims.User.IsAdmin {
		return models.RoleAdmin
	}
	switch models.UserRole(claims.User.Tag) {
	case models.RoleTeacher:
		return models.RoleTeacher
	case models.RoleAdmin:
		return models.RoleAdmin
	default:
		return models.RoleStudent
	}
}
