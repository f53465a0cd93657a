package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/averarp/community-backend/internal/goroutine"
	"github.com/averarp/community-backend/internal/logger"
	"github.com/averarp/community-backend/internal/models"
	"github.com/averarp/community-backend/internal/pkg/apperror"
	"github.com/averarp/community-backend/internal/validation"
)

// notifyTimeout ограничивает фоновые уведомления в Discord после ревью.
const notifyTimeout = 15 * time.Second

// ApplicationStore — файловое хранилище заявок.
type ApplicationStore interface {
	List() []models.Application
	ListByUser(userID string) []models.Application
	Get(id string) (models.Application, bool)
	Insert(app models.Application) error
	Replace(app models.Application) (bool, error)
}

// Notifier отправляет уведомления в Discord. Все отправки best-effort:
// их сбой не влияет на уже сохранённое решение по заявке.
type Notifier interface {
	Configured() bool
	SendChannelMessage(ctx context.Context, channelID, content string) error
	SendDirectMessage(ctx context.Context, userID, content string) error
}

// SubmitApplicationInput — данные новой заявки от пользователя.
// ID опционален: пустой означает сгенерированный time-based id.
type SubmitApplicationInput struct {
	ID     string
	Type   string
	Fields map[string]string
}

// ReviewApplicationInput — решение администратора по заявке.
type ReviewApplicationInput struct {
	ID                string
	Status            string
	ReviewNote        *string
	RequiresInterview *bool
}

// ApplicationService обслуживает заявки: подача пользователем,
// просмотр и решение администратором.
type ApplicationService struct {
	repo               ApplicationStore
	audit              AuditLog
	notifier           Notifier
	whitelistChannelID string
}

// NewApplicationService создаёт сервис заявок.
func NewApplicationService(repo ApplicationStore, audit AuditLog, notifier Notifier, whitelistChannelID string) *ApplicationService {
	return &ApplicationService{
		repo:               repo,
		audit:              audit,
		notifier:           notifier,
		whitelistChannelID: whitelistChannelID,
	}
}

// Submit создаёт заявку от имени вызывающего. Пользователь подаёт заявки
// только за себя; статус всегда pending. Клиентский id сохраняется,
// при его отсутствии генерируется time-based id.
func (s *ApplicationService) Submit(callerID, callerName string, input SubmitApplicationInput) (models.Application, error) {
	if err := validation.ValidateUserID(callerID); err != nil {
		return models.Application{}, apperror.Wrap(err, apperror.ErrCodeValidation, err.Error())
	}
	if err := validation.ValidateApplicationFields(input.Type, input.Fields); err != nil {
		return models.Application{}, apperror.Wrap(err, apperror.ErrCodeValidation, err.Error())
	}

	id := strings.TrimSpace(input.ID)
	if id == "" {
		id = fmt.Sprint(time.Now().UnixMilli())
	} else if err := validation.ValidateLength("id заявки", id, 0, validation.MaxApplicationIDLength); err != nil {
		return models.Application{}, apperror.Wrap(err, apperror.ErrCodeValidation, err.Error())
	}

	app := models.Application{
		ID:          id,
		UserID:      callerID,
		UserName:    callerName,
		Type:        input.Type,
		Status:      models.ApplicationStatusPending,
		SubmittedAt: time.Now().UTC(),
		Fields:      input.Fields,
	}
	if app.UserName == "" {
		app.UserName = "Unknown"
	}

	if err := s.repo.Insert(app); err != nil {
		return models.Application{}, apperror.Wrap(err, apperror.ErrCodeInternal, "не удалось сохранить заявку")
	}
	return app, nil
}

// List возвращает заявки с учётом прав: администратор без фильтра видит все,
// обычный пользователь — только свои. Чужой userId для не-админа — FORBIDDEN.
func (s *ApplicationService) List(callerID string, isAdmin bool, requestedUserID string) ([]models.Application, error) {
	if !isAdmin && requestedUserID != "" && requestedUserID != callerID {
		return nil, apperror.ErrForbidden
	}

	if isAdmin && requestedUserID == "" {
		return s.repo.List(), nil
	}

	targetID := requestedUserID
	if targetID == "" {
		targetID = callerID
	}

	apps := s.repo.ListByUser(targetID)
	if apps == nil {
		apps = []models.Application{}
	}
	return apps, nil
}

// Review применяет решение по заявке: accepted или rejected. Решение
// сохраняется синхронно; уведомления whitelist-заявителю уходят в фоне.
func (s *ApplicationService) Review(input ReviewApplicationInput, actor string) (models.Application, error) {
	if input.ID == "" {
		return models.Application{}, apperror.New(apperror.ErrCodeValidation, "id заявки обязателен")
	}
	if input.Status != models.ApplicationStatusAccepted && input.Status != models.ApplicationStatusRejected {
		return models.Application{}, apperror.New(apperror.ErrCodeValidation,
			fmt.Sprintf("недопустимый статус %q (допустимы accepted, rejected)", input.Status))
	}
	if input.ReviewNote != nil {
		if err := validation.ValidateLength("заметка ревью", *input.ReviewNote, 0, validation.MaxNoteLength); err != nil {
			return models.Application{}, apperror.Wrap(err, apperror.ErrCodeValidation, err.Error())
		}
	}

	app, ok := s.repo.Get(input.ID)
	if !ok {
		return models.Application{}, apperror.ErrApplicationNotFound
	}

	now := time.Now().UTC()
	app.Status = input.Status
	app.ReviewedAt = &now
	app.ReviewedBy = &actor
	if input.ReviewNote != nil && strings.TrimSpace(*input.ReviewNote) != "" {
		app.ReviewNote = input.ReviewNote
	}
	// Требование собеседования имеет смысл только для принятой whitelist-заявки.
	if app.Type == models.ApplicationTypeWhitelist &&
		input.Status == models.ApplicationStatusAccepted &&
		input.RequiresInterview != nil {
		app.RequiresInterview = input.RequiresInterview
	}

	replaced, err := s.repo.Replace(app)
	if err != nil {
		return models.Application{}, apperror.Wrap(err, apperror.ErrCodeInternal, "не удалось сохранить заявку")
	}
	if !replaced {
		return models.Application{}, apperror.ErrApplicationNotFound
	}

	verdict := "accepteret"
	action := models.ActionApplicationAccepted
	if input.Status == models.ApplicationStatusRejected {
		verdict = "afvist"
		action = models.ActionApplicationRejected
	}
	details := fmt.Sprintf("Ansøgning %s (%s) %s af %s", app.ID, app.Type, verdict, actor)
	if app.ReviewNote != nil {
		details += ". Note: " + *app.ReviewNote
	}
	s.audit.Append(action, app.UserID, actor, details)

	if app.Type == models.ApplicationTypeWhitelist && s.notifier != nil && s.notifier.Configured() {
		reviewed := app
		ctx, cancel := context.WithTimeout(context.Background(), notifyTimeout)
		goroutine.SafeGoWithContext(ctx, func(ctx context.Context) {
			defer cancel()
			s.sendWhitelistNotifications(ctx, reviewed)
		})
	}

	return app, nil
}

// sendWhitelistNotifications отправляет заявителю уведомления о решении по
// whitelist-заявке: сообщение в канал и личное сообщение. Ошибки только
// логируются.
func (s *ApplicationService) sendWhitelistNotifications(ctx context.Context, app models.Application) {
	log := logger.WithComponent("applications")

	interview := app.RequiresInterview != nil && *app.RequiresInterview

	var channelMessage, dmMessage string
	switch app.Status {
	case models.ApplicationStatusAccepted:
		if interview {
			channelMessage = fmt.Sprintf("<@%s> - Du er blevet indkaldt til samtale omkring din whitelist ansøgning", app.UserID)
			dmMessage = fmt.Sprintf("Hej %s,\n\n"+
				"Din ansøgning er blevet godkendt!\n"+
				"Du skal nu gøre dig klar til en samtale med en staff eller whitelist modtager.\n\n"+
				"Husk at læse op på reglerne!\n"+
				"https://averarp.dk/rules\n\n"+
				"vh. Avera RP Staff", app.UserName)
		} else {
			channelMessage = fmt.Sprintf("<@%s> - Din whitelist ansøgning er blevet godkendt", app.UserID)
			dmMessage = fmt.Sprintf("Hej %s,\n\n"+
				"Din ansøgning er blevet godkendt!\n\n"+
				"Husk at læse op på reglerne!\n"+
				"https://averarp.dk/rules\n\n"+
				"vh. Avera RP Staff", app.UserName)
		}
	case models.ApplicationStatusRejected:
		channelMessage = fmt.Sprintf("<@%s> - Din whitelist ansøgning er blevet afvist", app.UserID)
		dmMessage = fmt.Sprintf("Hej %s,\n\n"+
			"Din whitelist ansøgning er blevet afvist.\n\n"+
			"vh. Avera RP Staff", app.UserName)
	default:
		return
	}

	if err := s.notifier.SendDirectMessage(ctx, app.UserID, dmMessage); err != nil {
		log.Warnf("не удалось отправить DM по заявке %s: %v", app.ID, err)
	}

	if s.whitelistChannelID != "" {
		if err := s.notifier.SendChannelMessage(ctx, s.whitelistChannelID, channelMessage); err != nil {
			log.Warnf("не удалось отправить сообщение в канал по заявке %s: %v", app.ID, err)
		}
	}
}
