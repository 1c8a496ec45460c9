package cache

import (
	"fmt"
	"time"
)

const (
	UserSummaryKeyPrefix = "user:%s:summary"
	PlanCatalogKey       = "payments:plans"
)

const (
	UserSummaryTTL = 5 * time.Minute
	PlanCatalogTTL = time.Hour
)

// UserSummaryKey is the key holding a user's display fields.
func UserSummaryKey(userID string) string {
	return fmt.Sprintf(UserSummaryKeyPrefix, userID)
}
