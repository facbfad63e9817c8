package controller

import (
	"context"

	"studyspace-be/internal/dto"
	"studyspace-be/internal/pkg/serverutils"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// LeaderboardReader is the part of the leaderboard service the REST
// endpoints need.
type LeaderboardReader interface {
	GetLeaderboard(ctx context.Context, userId uuid.UUID) *dto.LeaderboardResponse
	DismissAchievement(ctx context.Context, userId uuid.UUID)
}

type ILeaderboardController interface {
	RegisterRoutes(api fiber.Router, jwtMiddleware fiber.Handler)
}

type leaderboardController struct {
	leaderboard LeaderboardReader
}

func NewLeaderboardController(leaderboard LeaderboardReader) ILeaderboardController {
	return &leaderboardController{leaderboard: leaderboard}
}

func (c *leaderboardController) RegisterRoutes(api fiber.Router, jwtMiddleware fiber.Handler) {
	h := api.Group("/leaderboard", jwtMiddleware)
	h.Get("", c.Show)
	h.Post("achievement/dismiss", c.Dismiss)
}

func (c *leaderboardController) Show(ctx *fiber.Ctx) error {
	caller, err := serverutils.CurrentUser(ctx)
	if err != nil {
		return err
	}
	res := c.leaderboard.GetLeaderboard(ctx.UserContext(), caller.UserID)
	return ctx.JSON(serverutils.SuccessResponse("Success get leaderboard", res))
}

func (c *leaderboardController) Dismiss(ctx *fiber.Ctx) error {
	caller, err := serverutils.CurrentUser(ctx)
	if err != nil {
		return err
	}
	c.leaderboard.DismissAchievement(ctx.UserContext(), caller.UserID)
	return ctx.JSON(serverutils.SuccessResponse("Achievement dismissed", nil))
}
