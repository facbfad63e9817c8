package controller

import (
	"context"

	"studyspace-be/internal/dto"
	"studyspace-be/internal/entity"
	"studyspace-be/internal/pkg/serverutils"
	"studyspace-be/internal/service"
	"studyspace-be/pkg/workspace"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type IWorkspaceController interface {
	RegisterRoutes(api fiber.Router, jwtMiddleware fiber.Handler)
}

type workspaceController struct {
	workspaceService service.WorkspaceService
}

func NewWorkspaceController(workspaceService service.WorkspaceService) IWorkspaceController {
	return &workspaceController{
		workspaceService: workspaceService,
	}
}

func (c *workspaceController) RegisterRoutes(api fiber.Router, jwtMiddleware fiber.Handler) {
	h := api.Group("/workspace", jwtMiddleware)
	h.Get("", c.Show)
	h.Get("history", c.History)
	h.Get("library", c.Library)
	h.Put("view", c.SetView)

	tabs := h.Group("/tabs/:tab")
	tabs.Put("input", c.SetInput)
	tabs.Post("lock", c.Lock)
	tabs.Post("unlock", c.Unlock)
	tabs.Post("generate", c.Generate)
	tabs.Post("reset", c.Reset)
	tabs.Post("save", c.Save)
}

func tabParam(ctx *fiber.Ctx) (entity.TabID, error) {
	tab := entity.TabID(ctx.Params("tab"))
	if !tab.IsValid() {
		return "", workspace.ErrTabNotFound
	}
	return tab, nil
}

// parseBody binds and validates a JSON request body.
func parseBody(ctx *fiber.Ctx, req interface{}) error {
	if err := ctx.BodyParser(req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
	}
	return serverutils.ValidateRequest(req)
}

func (c *workspaceController) Show(ctx *fiber.Ctx) error {
	caller, err := serverutils.CurrentUser(ctx)
	if err != nil {
		return err
	}

	res, err := c.workspaceService.Open(ctx.UserContext(), caller.UserID, caller.DisplayName, caller.Timezone)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Success get workspace", res))
}

func (c *workspaceController) SetInput(ctx *fiber.Ctx) error {
	caller, err := serverutils.CurrentUser(ctx)
	if err != nil {
		return err
	}
	tab, err := tabParam(ctx)
	if err != nil {
		return err
	}

	var req dto.SetInputRequest
	if err := parseBody(ctx, &req); err != nil {
		return err
	}

	res, err := c.workspaceService.SetInput(ctx.UserContext(), caller.UserID, tab, &req)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Success update input", res))
}

func (c *workspaceController) Lock(ctx *fiber.Ctx) error {
	return c.tabAction(ctx, "Success lock tab", c.workspaceService.Lock)
}

func (c *workspaceController) Unlock(ctx *fiber.Ctx) error {
	return c.tabAction(ctx, "Success unlock tab", c.workspaceService.Unlock)
}

func (c *workspaceController) Reset(ctx *fiber.Ctx) error {
	return c.tabAction(ctx, "Success reset tab", c.workspaceService.Reset)
}

type tabActionFunc func(ctx context.Context, userId uuid.UUID, tab entity.TabID) (*dto.TabResponse, error)

func (c *workspaceController) tabAction(ctx *fiber.Ctx, message string, action tabActionFunc) error {
	caller, err := serverutils.CurrentUser(ctx)
	if err != nil {
		return err
	}
	tab, err := tabParam(ctx)
	if err != nil {
		return err
	}

	res, err := action(ctx.UserContext(), caller.UserID, tab)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse(message, res))
}

func (c *workspaceController) Generate(ctx *fiber.Ctx) error {
	caller, err := serverutils.CurrentUser(ctx)
	if err != nil {
		return err
	}
	tab, err := tabParam(ctx)
	if err != nil {
		return err
	}

	var req dto.GenerateRequest
	if err := parseBody(ctx, &req); err != nil {
		return err
	}

	res, err := c.workspaceService.Generate(ctx.UserContext(), caller.UserID, tab, &req)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Success generate", res))
}

func (c *workspaceController) Save(ctx *fiber.Ctx) error {
	caller, err := serverutils.CurrentUser(ctx)
	if err != nil {
		return err
	}
	tab, err := tabParam(ctx)
	if err != nil {
		return err
	}

	var req dto.SaveRequest
	if err := parseBody(ctx, &req); err != nil {
		return err
	}

	res, err := c.workspaceService.Save(ctx.UserContext(), caller.UserID, tab, &req)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Success save to library", res))
}

func (c *workspaceController) History(ctx *fiber.Ctx) error {
	caller, err := serverutils.CurrentUser(ctx)
	if err != nil {
		return err
	}

	res, err := c.workspaceService.History(ctx.UserContext(), caller.UserID)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Success get history", res))
}

func (c *workspaceController) Library(ctx *fiber.Ctx) error {
	caller, err := serverutils.CurrentUser(ctx)
	if err != nil {
		return err
	}

	res, err := c.workspaceService.Library(ctx.UserContext(), caller.UserID)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Success get library", res))
}

func (c *workspaceController) SetView(ctx *fiber.Ctx) error {
	caller, err := serverutils.CurrentUser(ctx)
	if err != nil {
		return err
	}

	var req dto.ViewRequest
	if err := parseBody(ctx, &req); err != nil {
		return err
	}

	res, err := c.workspaceService.SetView(ctx.UserContext(), caller.UserID, &req)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Success update view", res))
}
