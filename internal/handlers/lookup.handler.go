package handlers

import (
	"maintlog/internal/app"

	lookupsController "maintlog/internal/controllers/lookups"

	logger "github.com/Bparsons0904/goLogger"
	"github.com/gofiber/fiber/v2"
)

type LookupHandler struct {
	Handler
	lookupsController lookupsController.LookupsControllerInterface
}

func NewLookupHandler(app app.App, router fiber.Router) *LookupHandler {
	return &LookupHandler{
		lookupsController: app.Controllers.Lookups,
		Handler: Handler{
			log:        logger.New("handlers").File("lookup_handler"),
			router:     router,
			middleware: app.Middleware,
		},
	}
}

func (h *LookupHandler) Register() {
	h.router.Get("/lookups", h.getLookups)
}

func (h *LookupHandler) getLookups(c *fiber.Ctx) error {
	log := logger.New("handlers").TraceFromContext(c.UserContext()).File("lookup_handler").Function("getLookups")

	lookups, err := h.lookupsController.GetLookups(c.UserContext())
	if err != nil {
		return respondError(c, log, "Failed to load lookups", err)
	}

	return c.JSON(lookups)
}
