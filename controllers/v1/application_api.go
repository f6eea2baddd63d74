package apiv1

import (
	"github.com/gofiber/fiber/v2"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"

	"recruit-flow-backend/controllers"
	"recruit-flow-backend/lib/workflow"
	"recruit-flow-backend/lib/workflow/wferrors"
	"recruit-flow-backend/middleware"
	"recruit-flow-backend/models"
	apimodels "recruit-flow-backend/models/api"
	workflowapimodels "recruit-flow-backend/models/api/workflow"
)

type applicationApiController struct {
	controllers.BaseAPIController
}

func InitApplicationApiRouters(app *fiber.App) {
	controller := applicationApiController{}
	app.Route("applications", func(router fiber.Router) {
		router.Post("", middleware.StudentRoleRequired(), controller.submit)
		router.Route(":id", func(idRouter fiber.Router) {
			idRouter.Get("", controller.get)
			idRouter.Post("transition", middleware.CompanyOrAdminRequired(), controller.transition)
			idRouter.Post("withdraw", middleware.StudentRoleRequired(), controller.withdraw)
			idRouter.Post("process", controller.process)
		})
	})
}

// @Summary Подать отклик на вакансию
// @Tags Отклики
// @Description Создает отклик на начальном этапе процесса подбора
// @Param   Authorization	header	string	true	"Authorization token"
// @Param   body	body	workflowapimodels.SubmitRequest	true	"данные отклика"
// @Success 200 {object} apimodels.Response{data=workflowapimodels.ApplicationView}
// @Failure 400 {object} apimodels.Response
// @Failure 403
// @router /api/v1/applications [post]
func (c *applicationApiController) submit(ctx *fiber.Ctx) error {
	body := workflowapimodels.SubmitRequest{}
	if err := c.BodyParser(ctx, &body); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	if err := body.Validate(); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	studentID := middleware.GetUserID(ctx)
	view, err := workflow.Instance.Submit(ctx.UserContext(), studentID, body)
	if err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(apimodels.NewError(err.Error()))
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(view))
}

// @Summary Получить отклик
// @Tags Отклики
// @Description Перед чтением выполняется отложенная проверка автоматических переходов
// @Param   Authorization	header	string	true	"Authorization token"
// @Param   id	path	string	true	"ID отклика"
// @Success 200 {object} apimodels.Response{data=workflowapimodels.ApplicationView}
// @Failure 400 {object} apimodels.Response
// @Failure 404 {object} apimodels.Response
// @router /api/v1/applications/{id} [get]
func (c *applicationApiController) get(ctx *fiber.Ctx) error {
	id, err := c.GetID(ctx)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	// ленивая проверка автоматики при чтении, ошибка не мешает отдать заявку
	if err = workflow.Instance.ProcessAutomatedWorkflow(ctx.UserContext(), id); err != nil &&
		!errors.Is(err, wferrors.ErrApplicationNotFound) {
		log.WithError(err).WithField("application_id", id).Warn("отложенная автоматическая обработка не выполнена")
	}
	view, err := workflow.Instance.GetByID(ctx.UserContext(), id)
	if err != nil {
		return workflowError(ctx, err)
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(view))
}

// @Summary Перевести отклик на другой этап
// @Tags Отклики
// @Description Валидирует переход по реестру этапов и выполняет действия входа
// @Param   Authorization	header	string	true	"Authorization token"
// @Param   id	path	string	true	"ID отклика"
// @Param   body	body	workflowapimodels.TransitionRequest	true	"целевой этап и данные"
// @Success 200 {object} apimodels.Response{data=workflowapimodels.ApplicationView}
// @Failure 400 {object} apimodels.Response
// @Failure 404 {object} apimodels.Response
// @Failure 409 {object} apimodels.Response
// @router /api/v1/applications/{id}/transition [post]
func (c *applicationApiController) transition(ctx *fiber.Ctx) error {
	id, err := c.GetID(ctx)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	body := workflowapimodels.TransitionRequest{}
	if err = c.BodyParser(ctx, &body); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	if err = body.Validate(); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	actor := middleware.GetUserID(ctx)
	view, err := workflow.Instance.Transition(ctx.UserContext(), id, body.Target, actor, body.Reason, body.Data)
	if err != nil {
		return workflowError(ctx, err)
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(view))
}

// @Summary Отозвать отклик
// @Tags Отклики
// @Description Студент отзывает свой отклик с любого нетерминального этапа
// @Param   Authorization	header	string	true	"Authorization token"
// @Param   id	path	string	true	"ID отклика"
// @Param   body	body	workflowapimodels.WithdrawRequest	true	"причина"
// @Success 200 {object} apimodels.Response{data=workflowapimodels.ApplicationView}
// @Failure 400 {object} apimodels.Response
// @Failure 404 {object} apimodels.Response
// @Failure 409 {object} apimodels.Response
// @router /api/v1/applications/{id}/withdraw [post]
func (c *applicationApiController) withdraw(ctx *fiber.Ctx) error {
	id, err := c.GetID(ctx)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	body := workflowapimodels.WithdrawRequest{}
	if err = c.BodyParser(ctx, &body); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	actor := middleware.GetUserID(ctx)
	reason := body.Reason
	if reason == "" {
		reason = "Withdrawn by student"
	}
	view, err := workflow.Instance.Transition(ctx.UserContext(), id, models.StageWithdrawn, actor, reason, nil)
	if err != nil {
		return workflowError(ctx, err)
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(view))
}

// @Summary Разовая проверка автоматических переходов
// @Tags Отклики
// @Param   Authorization	header	string	true	"Authorization token"
// @Param   id	path	string	true	"ID отклика"
// @Success 200 {object} apimodels.Response
// @Failure 400 {object} apimodels.Response
// @Failure 404 {object} apimodels.Response
// @router /api/v1/applications/{id}/process [post]
func (c *applicationApiController) process(ctx *fiber.Ctx) error {
	id, err := c.GetID(ctx)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	if err = workflow.Instance.ProcessAutomatedWorkflow(ctx.UserContext(), id); err != nil {
		return workflowError(ctx, err)
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(nil))
}

// workflowError транслирует ошибки движка в коды ответов:
// заявка не найдена - 404, недопустимый переход - 409, нет полей - 400
func workflowError(ctx *fiber.Ctx, err error) error {
	if errors.Is(err, wferrors.ErrApplicationNotFound) {
		return ctx.Status(fiber.StatusNotFound).JSON(apimodels.NewError(err.Error()))
	}
	var invalidTransition wferrors.InvalidTransitionError
	if errors.As(err, &invalidTransition) {
		return ctx.Status(fiber.StatusConflict).JSON(apimodels.NewError(err.Error()))
	}
	var missingFields wferrors.MissingFieldsError
	if errors.As(err, &missingFields) {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	return ctx.Status(fiber.StatusInternalServerError).JSON(apimodels.NewError(err.Error()))
}
