package notification

import (
	log "github.com/sirupsen/logrus"

	"recruit-flow-backend/db"
	notificationstore "recruit-flow-backend/lib/notification/store"
	"recruit-flow-backend/lib/smtp"
	userstore "recruit-flow-backend/lib/users/store"
	"recruit-flow-backend/models"
	dbmodels "recruit-flow-backend/models/db"
)

// Диспетчер уведомлений. Сохраняет внутрисистемное уведомление и дублирует
// его на почту, если у пользователя включена почтовая доставка.
// Вызывается по принципу fire-and-forget: ошибки доставки только логируются

type Provider interface {
	Notify(userID string, code models.NotificationCode, payload map[string]interface{})
	NotifyAdmins(code models.NotificationCode, payload map[string]interface{})
	ListByUser(userID string) ([]dbmodels.Notification, error)
	MarkRead(userID, id string) error
}

var Instance Provider

func NewHandler() {
	Instance = impl{
		userStore:         userstore.NewInstance(db.DB),
		notificationStore: notificationstore.NewInstance(db.DB),
	}
}

type impl struct {
	userStore         userstore.Provider
	notificationStore notificationstore.Provider
}

func (i impl) getLogger(userID string, code models.NotificationCode) *log.Entry {
	logger := log.
		WithField("user_id", userID).
		WithField("event_code", string(code))
	return logger
}

func (i impl) Notify(userID string, code models.NotificationCode, payload map[string]interface{}) {
	logger := i.getLogger(userID, code)
	user, err := i.userStore.GetByID(userID)
	if err != nil {
		logger.WithError(err).Error("ошибка получения пользователя")
		return
	}
	if user == nil {
		logger.Error("пользователь не найден")
		return
	}
	subject, body := renderTemplate(code, payload)
	rec := dbmodels.Notification{
		UserID:  userID,
		Code:    code,
		Subject: subject,
		Body:    body,
		Payload: payload,
	}
	_, err = i.notificationStore.Create(rec)
	if err != nil {
		logger.WithError(err).Error("ошибка сохранения уведомления")
		return
	}
	if user.EmailEnabled && user.Email != "" {
		err = smtp.Instance.SendEMail(user.Email, subject, body)
		if err != nil {
			logger.WithError(err).Error("ошибка отправки почтового уведомления")
		}
	}
}

// NotifyAdmins - рассылка администраторам платформы (алерты процесса подбора)
func (i impl) NotifyAdmins(code models.NotificationCode, payload map[string]interface{}) {
	admins, err := i.userStore.ListByRole(models.AdminRole)
	if err != nil {
		log.WithError(err).WithField("event_code", string(code)).Error("ошибка получения списка администраторов")
		return
	}
	for _, admin := range admins {
		i.Notify(admin.ID, code, payload)
	}
}

func (i impl) ListByUser(userID string) ([]dbmodels.Notification, error) {
	return i.notificationStore.ListByUser(userID)
}

func (i impl) MarkRead(userID, id string) error {
	return i.notificationStore.MarkRead(userID, id)
}
