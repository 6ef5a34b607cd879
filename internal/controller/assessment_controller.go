package controller

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"credit-assess-be/internal/dto"
	"credit-assess-be/internal/pkg/serverutils"
	"credit-assess-be/internal/service"
)

type IAssessmentController interface {
	RegisterRoutes(r fiber.Router)
	Init(ctx *fiber.Ctx) error
	GenerateNarrative(ctx *fiber.Ctx) error
	SubmitNarrativeFeedback(ctx *fiber.Ctx) error
	GenerateCreditNote(ctx *fiber.Ctx) error
	SubmitCreditNoteFeedback(ctx *fiber.Ctx) error
}

type assessmentController struct {
	service  service.IAssessmentService
	tokenTTL time.Duration
}

func NewAssessmentController(service service.IAssessmentService, tokenTTL time.Duration) IAssessmentController {
	return &assessmentController{
		service:  service,
		tokenTTL: tokenTTL,
	}
}

func (c *assessmentController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/assessment/v1")
	// Init alone accepts an absent token: with one it resets that session,
	// without one it starts a fresh workflow.
	h.Post("/init", serverutils.OptionalSessionMiddleware, c.Init)
	h.Post("/narrative", serverutils.SessionMiddleware, c.GenerateNarrative)
	h.Post("/narrative/feedback", serverutils.SessionMiddleware, c.SubmitNarrativeFeedback)
	h.Post("/credit-note", serverutils.SessionMiddleware, c.GenerateCreditNote)
	h.Post("/credit-note/feedback", serverutils.SessionMiddleware, c.SubmitCreditNoteFeedback)
}

func (c *assessmentController) Init(ctx *fiber.Ctx) error {
	var req dto.InitAssessmentRequest
	if err := ctx.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.service.InitAssessment(ctx.Context(), serverutils.SessionId(ctx), &req)
	if err != nil {
		return err
	}

	token, err := serverutils.IssueSessionToken(res.SessionId, c.tokenTTL)
	if err != nil {
		return err
	}
	res.Token = token

	return ctx.JSON(serverutils.SuccessResponse("Assessment session initialized", res))
}

func (c *assessmentController) GenerateNarrative(ctx *fiber.Ctx) error {
	res, err := c.service.GenerateNarrative(ctx.Context(), serverutils.SessionId(ctx))
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Narrative generated", res))
}

func (c *assessmentController) SubmitNarrativeFeedback(ctx *fiber.Ctx) error {
	var req dto.SubmitFeedbackRequest
	if err := ctx.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.service.SubmitNarrativeFeedback(ctx.Context(), serverutils.SessionId(ctx), &req)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Feedback accepted", res))
}

func (c *assessmentController) GenerateCreditNote(ctx *fiber.Ctx) error {
	res, err := c.service.GenerateCreditNote(ctx.Context(), serverutils.SessionId(ctx))
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Credit note generated", res))
}

func (c *assessmentController) SubmitCreditNoteFeedback(ctx *fiber.Ctx) error {
	var req dto.SubmitFeedbackRequest
	if err := ctx.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.service.SubmitCreditNoteFeedback(ctx.Context(), serverutils.SessionId(ctx), &req)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Credit note feedback accepted", res))
}
