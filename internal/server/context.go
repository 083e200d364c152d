package server

import (
	"github.com/bwmarrin/snowflake"
	"github.com/gin-gonic/gin"
	"github.com/smallbiznis/northstar/internal/orgcontext"
)

func actorID(c *gin.Context) (snowflake.ID, error) {
	id, ok := orgcontext.UserIDFromContext(c.Request.Context())
	if !ok {
		return 0, ErrUnauthorized
	}
	return id, nil
}

// tenantIDs parses the org and product route params together; handlers under
// /orgs/:orgId/products/:productId always need both.
func tenantIDs(c *gin.Context) (orgID, productID snowflake.ID, err error) {
	orgID, err = parseIDParam(c, "orgId")
	if err != nil {
		return 0, 0, err
	}
	productID, err = parseIDParam(c, "productId")
	if err != nil {
		return 0, 0, err
	}
	return orgID, productID, nil
}
