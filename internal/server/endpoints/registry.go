package endpoints

import (
	"github.com/verdantbooks/receiptor/internal/api"
)

// All returns all endpoint instances.
func All() []api.Endpoint {
	return []api.Endpoint{
		// Health endpoints
		&HealthEndpoint{},
		&ReadyEndpoint{},
		&StatusEndpoint{},

		// Receipt endpoints
		&ProcessEndpoint{},
	}
}
