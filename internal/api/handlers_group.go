package api

import "shinypull/internal/api/handler"

// HandlersGroup bundles the initialized handler instances.
type HandlersGroup struct {
	RequestHandler *handler.RequestHandler
}
