package notification

import (
	"fmt"

	"recruit-flow-backend/models"
)

type template struct {
	subject string
	body    string // шаблон для fmt, аргумент - ид заявки
}

var templates = map[models.NotificationCode]template{
	models.NotificationNewApplication:    {"Новый отклик", "По вашей вакансии получен новый отклик %v"},
	models.NotificationReviewTask:        {"Задача на рассмотрение", "Вам назначено рассмотрение отклика %v"},
	models.NotificationHiringManager:     {"Требуется решение", "Отклик %v прошел первичное рассмотрение и ожидает решения"},
	models.NotificationInterviewInvite:   {"Приглашение на интервью", "По отклику %v назначено интервью"},
	models.NotificationOfferLetter:       {"Оффер", "По отклику %v направлен оффер"},
	models.NotificationRejection:         {"Отклик отклонен", "Отклик %v отклонен"},
	models.NotificationReviewOverdue:     {"Просрочено рассмотрение", "Отклик %v ожидает первичного рассмотрения дольше нормы"},
	models.NotificationInterviewReminder: {"Напоминание об интервью", "Интервью по отклику %v состоится в ближайшие 24 часа"},
	models.NotificationOfferExpiring:     {"Срок оффера истекает", "Срок ответа на оффер по отклику %v истекает в ближайшие дни"},
	models.NotificationSlaEscalation:     {"Нарушение SLA", "По отклику %v зафиксировано существенное нарушение SLA этапа"},
	models.NotificationHealthAlert:       {"Деградация процесса подбора", "Процесс подбора требует внимания, подробности в отчете %v"},
	models.NotificationStageChanged:      {"Смена этапа", "Отклик %v переведен на другой этап"},
}

func renderTemplate(code models.NotificationCode, payload map[string]interface{}) (subject, body string) {
	tpl, ok := templates[code]
	if !ok {
		return string(code), fmt.Sprintf("Событие %v", code)
	}
	ref := payload["application_id"]
	if ref == nil {
		ref = payload["report_id"]
	}
	return tpl.subject, fmt.Sprintf(tpl.body, ref)
}
