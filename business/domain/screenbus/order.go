package screenbus

import "github.com/rhettharrison/platform-api/business/sdk/order"

// DefaultOrderBy represents the default way we sort.
var DefaultOrderBy = order.NewBy(OrderByPath, order.ASC)

// Set of fields that the results can be ordered by.
const (
	OrderByPath      = "path"
	OrderByCreatedAt = "created_at"
)
