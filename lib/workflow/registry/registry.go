package registry

import (
	"fmt"

	"recruit-flow-backend/models"
)

// Статическая конфигурация этапов подбора. Заполняется на старте процесса
// и далее только читается, поэтому доступ без блокировок

type StageDefinition struct {
	Name               string
	Description        string
	AllowedTransitions []models.ApplicationStage
	AutoActions        []models.WorkflowActionID
	RequiredFields     []string
}

type DecisionPoint struct {
	Stage    models.ApplicationStage
	Question string
	Options  []DecisionOption
}

type DecisionOption struct {
	Answer    string
	NextStage models.ApplicationStage
	Weight    float64
}

const EntryStage = models.StageSubmitted

var stages = map[models.ApplicationStage]StageDefinition{
	models.StageSubmitted: {
		Name:               "Новый отклик",
		Description:        "Отклик подан и ожидает первичного рассмотрения",
		AllowedTransitions: []models.ApplicationStage{models.StageFirstLevelReview, models.StageRejected, models.StageWithdrawn},
		AutoActions:        []models.WorkflowActionID{models.ActionNotifyCompany, models.ActionAssignReviewer},
		RequiredFields:     []string{},
	},
	models.StageFirstLevelReview: {
		Name:               "Первичное рассмотрение",
		Description:        "Отклик на первичном рассмотрении рекрутером",
		AllowedTransitions: []models.ApplicationStage{models.StagePendingAcceptance, models.StageRejected, models.StageWithdrawn},
		AutoActions:        []models.WorkflowActionID{models.ActionCreateReviewTask},
		RequiredFields:     []string{"reviewer_assigned"},
	},
	models.StagePendingAcceptance: {
		Name:               "Ожидает решения",
		Description:        "Первичное рассмотрение пройдено, ожидается решение о принятии",
		AllowedTransitions: []models.ApplicationStage{models.StageAccepted, models.StageRejected, models.StageWithdrawn},
		AutoActions:        []models.WorkflowActionID{models.ActionNotifyHiringManager},
		RequiredFields:     []string{"first_review_completed"},
	},
	models.StageAccepted: {
		Name:               "Принят в работу",
		Description:        "Отклик принят, начато детальное рассмотрение",
		AllowedTransitions: []models.ApplicationStage{models.StageShortlisted, models.StageRejected, models.StageWithdrawn},
		AutoActions:        []models.WorkflowActionID{models.ActionStartDetailedReview},
		RequiredFields:     []string{"acceptance_reason"},
	},
	models.StageShortlisted: {
		Name:               "В шорт-листе",
		Description:        "Кандидат включен в шорт-лист для интервью",
		AllowedTransitions: []models.ApplicationStage{models.StageInterviewScheduled, models.StageRejected, models.StageWithdrawn},
		AutoActions:        []models.WorkflowActionID{models.ActionPrepareInterview},
		RequiredFields:     []string{"shortlist_reason"},
	},
	models.StageInterviewScheduled: {
		Name:               "Интервью назначено",
		Description:        "С кандидатом назначено интервью",
		AllowedTransitions: []models.ApplicationStage{models.StageInterviewCompleted, models.StageRejected, models.StageWithdrawn},
		AutoActions:        []models.WorkflowActionID{models.ActionSendInterviewInvite},
		RequiredFields:     []string{"interview_scheduled_at"},
	},
	models.StageInterviewCompleted: {
		Name:        "Интервью проведено",
		Description: "Интервью завершено, ожидается решение по кандидату",
		// повторное интервью - легальный цикл в графе
		AllowedTransitions: []models.ApplicationStage{models.StageOfferExtended, models.StageInterviewScheduled, models.StageRejected, models.StageWithdrawn},
		AutoActions:        []models.WorkflowActionID{models.ActionCollectFeedback},
		RequiredFields:     []string{"interview_feedback"},
	},
	models.StageOfferExtended: {
		Name:               "Оффер направлен",
		Description:        "Кандидату направлен оффер",
		AllowedTransitions: []models.ApplicationStage{models.StageOfferAccepted, models.StageOfferDeclined, models.StageRejected, models.StageWithdrawn},
		AutoActions:        []models.WorkflowActionID{models.ActionSendOfferLetter},
		RequiredFields:     []string{"offer_letter_url"},
	},
	models.StageOfferAccepted: {
		Name:               "Оффер принят",
		Description:        "Кандидат принял оффер",
		AllowedTransitions: []models.ApplicationStage{},
		AutoActions:        []models.WorkflowActionID{models.ActionStartOnboarding},
		RequiredFields:     []string{"acceptance_confirmation"},
	},
	models.StageOfferDeclined: {
		Name:               "Оффер отклонен",
		Description:        "Кандидат отклонил оффер",
		AllowedTransitions: []models.ApplicationStage{},
		AutoActions:        []models.WorkflowActionID{models.ActionUpdateTalentPool},
		RequiredFields:     []string{"decline_reason"},
	},
	models.StageRejected: {
		Name:               "Отклонен",
		Description:        "Отклик отклонен работодателем",
		AllowedTransitions: []models.ApplicationStage{},
		AutoActions:        []models.WorkflowActionID{models.ActionSendRejectionNotice},
		RequiredFields:     []string{"rejection_reason"},
	},
	models.StageWithdrawn: {
		Name:               "Отозван кандидатом",
		Description:        "Кандидат отозвал свой отклик",
		AllowedTransitions: []models.ApplicationStage{},
		AutoActions:        []models.WorkflowActionID{models.ActionNotifyStageChanged},
		RequiredFields:     []string{},
	},
}

var decisionPoints = map[models.ApplicationStage]DecisionPoint{
	models.StageFirstLevelReview: {
		Stage:    models.StageFirstLevelReview,
		Question: "Соответствует ли отклик базовым требованиям?",
		Options: []DecisionOption{
			{Answer: "Да", NextStage: models.StagePendingAcceptance, Weight: 1},
			{Answer: "Нет", NextStage: models.StageRejected, Weight: 0},
		},
	},
	models.StagePendingAcceptance: {
		Stage:    models.StagePendingAcceptance,
		Question: "Принять отклик в детальное рассмотрение?",
		Options: []DecisionOption{
			{Answer: "Принять", NextStage: models.StageAccepted, Weight: 1},
			{Answer: "Отклонить", NextStage: models.StageRejected, Weight: 0},
		},
	},
	models.StageAccepted: {
		Stage:    models.StageAccepted,
		Question: "Включить кандидата в шорт-лист для интервью?",
		Options: []DecisionOption{
			{Answer: "В шорт-лист", NextStage: models.StageShortlisted, Weight: 1},
			{Answer: "Отклонить", NextStage: models.StageRejected, Weight: 0},
		},
	},
	models.StageInterviewCompleted: {
		Stage:    models.StageInterviewCompleted,
		Question: "Какое решение по итогам интервью?",
		Options: []DecisionOption{
			{Answer: "Направить оффер", NextStage: models.StageOfferExtended, Weight: 1},
			{Answer: "Дополнительное интервью", NextStage: models.StageInterviewScheduled, Weight: 0.5},
			{Answer: "Отклонить", NextStage: models.StageRejected, Weight: 0},
		},
	},
}

func Get(stage models.ApplicationStage) (StageDefinition, bool) {
	def, ok := stages[stage]
	return def, ok
}

func AllowedTransitions(stage models.ApplicationStage) []models.ApplicationStage {
	return stages[stage].AllowedTransitions
}

func RequiredFields(stage models.ApplicationStage) []string {
	return stages[stage].RequiredFields
}

func AutoActions(stage models.ApplicationStage) []models.WorkflowActionID {
	return stages[stage].AutoActions
}

func IsTransitionAllowed(from, to models.ApplicationStage) bool {
	for _, allowed := range stages[from].AllowedTransitions {
		if allowed == to {
			return true
		}
	}
	return false
}

func IsTerminal(stage models.ApplicationStage) bool {
	def, ok := stages[stage]
	return ok && len(def.AllowedTransitions) == 0
}

// ActiveStages - все нетерминальные этапы, кандидаты для автоматической обработки
func ActiveStages() []models.ApplicationStage {
	result := make([]models.ApplicationStage, 0, len(stages))
	for stage, def := range stages {
		if len(def.AllowedTransitions) > 0 {
			result = append(result, stage)
		}
	}
	return result
}

func DecisionPointFor(stage models.ApplicationStage) *DecisionPoint {
	dp, ok := decisionPoints[stage]
	if !ok {
		return nil
	}
	return &dp
}

// Validate проверяет согласованность графа этапов. Вызывается один раз на
// старте, ошибка означает невалидную сборку и фатальна
func Validate() error {
	for stage, def := range stages {
		for _, target := range def.AllowedTransitions {
			if target == stage {
				return fmt.Errorf("этап %q содержит переход сам в себя", stage)
			}
			if _, ok := stages[target]; !ok {
				return fmt.Errorf("этап %q ссылается на неизвестный этап %q", stage, target)
			}
		}
	}
	if _, ok := stages[EntryStage]; !ok {
		return fmt.Errorf("входной этап %q отсутствует в конфигурации", EntryStage)
	}
	// все терминальные этапы должны быть достижимы из входного
	reachable := map[models.ApplicationStage]bool{EntryStage: true}
	queue := []models.ApplicationStage{EntryStage}
	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]
		for _, target := range stages[current].AllowedTransitions {
			if !reachable[target] {
				reachable[target] = true
				queue = append(queue, target)
			}
		}
	}
	for stage, def := range stages {
		if len(def.AllowedTransitions) == 0 && !reachable[stage] {
			return fmt.Errorf("терминальный этап %q недостижим из входного", stage)
		}
	}
	for stage, dp := range decisionPoints {
		if _, ok := stages[stage]; !ok {
			return fmt.Errorf("точка принятия решения ссылается на неизвестный этап %q", stage)
		}
		for _, opt := range dp.Options {
			if !IsTransitionAllowed(stage, opt.NextStage) {
				return fmt.Errorf("точка принятия решения этапа %q предлагает недопустимый переход на %q", stage, opt.NextStage)
			}
		}
	}
	return nil
}
