package handler

const (
	// RootPath is the root path of a route group.
	RootPath = "/"

	// APIPath is the prefix of every JSON route.
	APIPath = "/api"

	// AdminPath is the prefix of the staff routes.
	AdminPath = APIPath + "/admin"

	// IDParam is the route parameter holding a numeric id.
	IDParam = "id"

	// ErrNilDepsFatalLogMsg is used if app or deps is nil.
	ErrNilDepsFatalLogMsg = "app or handler dependencies are nil"
)
