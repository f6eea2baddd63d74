package apiv1

import (
	"github.com/gofiber/fiber/v2"

	"recruit-flow-backend/controllers"
	"recruit-flow-backend/lib/workflow"
	healthstore "recruit-flow-backend/lib/workflow/health-store"
	"recruit-flow-backend/lib/workflow/registry"
	"recruit-flow-backend/middleware"
	"recruit-flow-backend/models"
	apimodels "recruit-flow-backend/models/api"
	workflowapimodels "recruit-flow-backend/models/api/workflow"
)

type workflowApiController struct {
	controllers.BaseAPIController
	healthStore healthstore.Provider
}

func InitWorkflowApiRouters(app *fiber.App, healthStore healthstore.Provider) {
	controller := workflowApiController{
		healthStore: healthStore,
	}
	app.Route("workflow", func(router fiber.Router) {
		router.Get("stages/:stage/actions", controller.stageActions)
		router.Get("stages/:stage/decision", controller.decisionPoint)
		router.Get("health", middleware.AdminRoleRequired(), controller.health)
	})
}

func (c *workflowApiController) getStage(ctx *fiber.Ctx) (models.ApplicationStage, error) {
	stage := models.ApplicationStage(ctx.Params("stage"))
	if _, ok := registry.Get(stage); !ok {
		return "", fiber.NewError(fiber.StatusNotFound, "этап не найден")
	}
	return stage, nil
}

// @Summary Доступные действия этапа
// @Tags Процесс подбора
// @Description Возвращает допустимые следующие этапы с обязательными полями
// @Param   Authorization	header	string	true	"Authorization token"
// @Param   stage	path	string	true	"этап процесса"
// @Success 200 {object} apimodels.Response{data=[]workflowapimodels.StageActionView}
// @Failure 404 {object} apimodels.Response
// @router /api/v1/workflow/stages/{stage}/actions [get]
func (c *workflowApiController) stageActions(ctx *fiber.Ctx) error {
	stage, err := c.getStage(ctx)
	if err != nil {
		return ctx.Status(fiber.StatusNotFound).JSON(apimodels.NewError(err.Error()))
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(workflow.Instance.GetAvailableActions(stage)))
}

// @Summary Точка решения этапа
// @Tags Процесс подбора
// @Description Вопрос и варианты следующего этапа, если этап является точкой решения
// @Param   Authorization	header	string	true	"Authorization token"
// @Param   stage	path	string	true	"этап процесса"
// @Success 200 {object} apimodels.Response{data=workflowapimodels.DecisionPointView}
// @Failure 404 {object} apimodels.Response
// @router /api/v1/workflow/stages/{stage}/decision [get]
func (c *workflowApiController) decisionPoint(ctx *fiber.Ctx) error {
	stage, err := c.getStage(ctx)
	if err != nil {
		return ctx.Status(fiber.StatusNotFound).JSON(apimodels.NewError(err.Error()))
	}
	dp := workflow.Instance.GetDecisionPoint(stage)
	if dp == nil {
		return ctx.Status(fiber.StatusNotFound).JSON(apimodels.NewError("этап не является точкой решения"))
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(dp))
}

// @Summary Последний отчет о состоянии процесса подбора
// @Tags Процесс подбора
// @Param   Authorization	header	string	true	"Authorization token"
// @Success 200 {object} apimodels.Response{data=workflowapimodels.HealthReportView}
// @Failure 403
// @Failure 404 {object} apimodels.Response
// @router /api/v1/workflow/health [get]
func (c *workflowApiController) health(ctx *fiber.Ctx) error {
	rec, err := c.healthStore.GetLatest()
	if err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(apimodels.NewError(err.Error()))
	}
	if rec == nil {
		return ctx.Status(fiber.StatusNotFound).JSON(apimodels.NewError("проверка состояния еще не выполнялась"))
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(workflowapimodels.HealthReportConvert(*rec)))
}
