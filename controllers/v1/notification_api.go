package apiv1

import (
	"github.com/gofiber/fiber/v2"

	"recruit-flow-backend/controllers"
	"recruit-flow-backend/lib/notification"
	"recruit-flow-backend/middleware"
	apimodels "recruit-flow-backend/models/api"
	workflowapimodels "recruit-flow-backend/models/api/workflow"
)

type notificationApiController struct {
	controllers.BaseAPIController
}

func InitNotificationApiRouters(app *fiber.App) {
	controller := notificationApiController{}
	app.Route("notifications", func(router fiber.Router) {
		router.Get("", controller.list)
		router.Put(":id/read", controller.markRead)
	})
}

// @Summary Уведомления пользователя
// @Tags Уведомления
// @Param   Authorization	header	string	true	"Authorization token"
// @Success 200 {object} apimodels.Response{data=[]workflowapimodels.NotificationView}
// @router /api/v1/notifications [get]
func (c *notificationApiController) list(ctx *fiber.Ctx) error {
	userID := middleware.GetUserID(ctx)
	list, err := notification.Instance.ListByUser(userID)
	if err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(apimodels.NewError(err.Error()))
	}
	result := make([]workflowapimodels.NotificationView, 0, len(list))
	for _, rec := range list {
		result = append(result, workflowapimodels.NotificationConvert(rec))
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(result))
}

// @Summary Отметить уведомление прочитанным
// @Tags Уведомления
// @Param   Authorization	header	string	true	"Authorization token"
// @Param   id	path	string	true	"ID уведомления"
// @Success 200 {object} apimodels.Response
// @Failure 400 {object} apimodels.Response
// @router /api/v1/notifications/{id}/read [put]
func (c *notificationApiController) markRead(ctx *fiber.Ctx) error {
	id, err := c.GetID(ctx)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	userID := middleware.GetUserID(ctx)
	if err = notification.Instance.MarkRead(userID, id); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(nil))
}
