package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// OwnerHeader carries the authenticated owner id, set by the fronting auth
// layer. Every catalog operation is scoped to it.
const OwnerHeader = "X-Owner-ID"

const ownerKey = "owner_id"

// OwnerRequired rejects requests without an owner identity. Owner scoping is
// mandatory on every query, so there is no anonymous path.
func OwnerRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		owner := c.GetHeader(OwnerHeader)
		if owner == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing owner identity"})
			return
		}
		c.Set(ownerKey, owner)
		c.Next()
	}
}

func ownerID(c *gin.Context) string {
	return c.GetString(ownerKey)
}
