package bot

import (
	"context"
	"fmt"
	"html"
	"log"
	"strconv"
	"strings"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"todo-planner/internal/model"
	"todo-planner/internal/repository"
	"todo-planner/internal/service"
)

// Bot is a deliberately thin Telegram surface: registration, a digest of
// today's recurring tasks, a template overview, and a manual regeneration
// trigger. Template editing happens in the main app, not here.
type Bot struct {
	api           *tgbotapi.BotAPI
	userRepo      *repository.UserRepository
	templateSvc   *service.TemplateService
	reminderSvc   *service.ReminderService
	generationSvc *service.GenerationService
	holidaySvc    *service.HolidayService
}

func New(token string, userRepo *repository.UserRepository, templateSvc *service.TemplateService, reminderSvc *service.ReminderService, generationSvc *service.GenerationService, holidaySvc *service.HolidayService) (*Bot, error) {
	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("create bot api: %w", err)
	}

	log.Printf("[info] bot authorized on account %s", api.Self.UserName)

	return &Bot{
		api:           api,
		userRepo:      userRepo,
		templateSvc:   templateSvc,
		reminderSvc:   reminderSvc,
		generationSvc: generationSvc,
		holidaySvc:    holidaySvc,
	}, nil
}

// Start polls for updates until the context is cancelled.
func (b *Bot) Start(ctx context.Context) error {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = 30
	updates := b.api.GetUpdatesChan(u)

	for {
		select {
		case <-ctx.Done():
			b.api.StopReceivingUpdates()
			return ctx.Err()
		case update := <-updates:
			if update.Message == nil || !update.Message.IsCommand() {
				continue
			}
			if err := b.handleCommand(ctx, update.Message); err != nil {
				log.Printf("[warn] handle %q from %d: %v", update.Message.Command(), update.Message.From.ID, err)
			}
		}
	}
}

func (b *Bot) handleCommand(ctx context.Context, msg *tgbotapi.Message) error {
	user, err := b.ensureUser(ctx, msg.From)
	if err != nil {
		return err
	}

	switch msg.Command() {
	case "start":
		return b.sendText(msg.Chat.ID,
			"Hi! I deliver your recurring task schedule.\n"+
				"/today — what recurs today\n"+
				"/templates — your recurrence templates\n"+
				"/holidays — your custom days off\n"+
				"/addholiday 2025-12-24 Family day — add a day off\n"+
				"/delholiday 3 — remove a day off by number\n"+
				"/refresh — regenerate the schedule now")
	case "help":
		return b.sendText(msg.Chat.ID, "/today, /templates, /holidays, /addholiday, /delholiday, /refresh")
	case "today":
		digest, err := b.reminderSvc.DailyDigest(ctx, *user, time.Now())
		if err != nil {
			return err
		}
		return b.sendText(msg.Chat.ID, digest)
	case "templates":
		return b.sendTemplateList(ctx, msg.Chat.ID, user)
	case "holidays":
		return b.sendHolidayList(ctx, msg.Chat.ID, user)
	case "addholiday":
		return b.addHoliday(ctx, msg, user)
	case "delholiday":
		return b.removeHoliday(ctx, msg, user)
	case "refresh":
		if err := b.generationSvc.RegenerateOwner(ctx, user.ID, time.Now()); err != nil {
			return err
		}
		return b.sendText(msg.Chat.ID, "Schedule regenerated ✅")
	default:
		return b.sendText(msg.Chat.ID, "Unknown command, try /help")
	}
}

func (b *Bot) sendTemplateList(ctx context.Context, chatID int64, user *model.User) error {
	templates, err := b.templateSvc.List(ctx, user.ID)
	if err != nil {
		return err
	}
	if len(templates) == 0 {
		return b.sendText(chatID, "No recurrence templates yet.")
	}

	var sb strings.Builder
	sb.WriteString("♻️ <b>Recurrence templates</b>\n\n")
	for _, tpl := range templates {
		state := "✅"
		if !tpl.IsActive {
			state = "⏸"
		}
		sb.WriteString(fmt.Sprintf("%s %s — %s\n", state, html.EscapeString(tpl.Title), describeRecurrence(tpl)))
	}
	return b.sendText(chatID, strings.TrimSpace(sb.String()))
}

func (b *Bot) sendHolidayList(ctx context.Context, chatID int64, user *model.User) error {
	holidays, err := b.holidaySvc.List(ctx, user.ID)
	if err != nil {
		return err
	}
	if len(holidays) == 0 {
		return b.sendText(chatID, "No custom days off yet. Add one with /addholiday 2025-12-24 Family day")
	}

	var sb strings.Builder
	sb.WriteString("🏖 <b>Custom days off</b>\n\n")
	for _, h := range holidays {
		repeat := ""
		if h.IsRecurring {
			repeat = " (every year)"
		}
		sb.WriteString(fmt.Sprintf("%d. %s — %s%s\n", h.ID, h.Date, html.EscapeString(h.Name), repeat))
	}
	return b.sendText(chatID, strings.TrimSpace(sb.String()))
}

// addHoliday parses "/addholiday YYYY-MM-DD [yearly] name...".
func (b *Bot) addHoliday(ctx context.Context, msg *tgbotapi.Message, user *model.User) error {
	fields := strings.Fields(msg.CommandArguments())
	if len(fields) == 0 {
		return b.sendText(msg.Chat.ID, "Usage: /addholiday 2025-12-24 Family day\nAdd \"yearly\" after the date to repeat every year.")
	}

	dateStr := fields[0]
	rest := fields[1:]
	recurring := false
	if len(rest) > 0 && strings.EqualFold(rest[0], "yearly") {
		recurring = true
		rest = rest[1:]
	}

	h, err := b.holidaySvc.Add(ctx, user.ID, dateStr, strings.Join(rest, " "), recurring)
	if err != nil {
		return b.sendText(msg.Chat.ID, fmt.Sprintf("Could not add: %v", err))
	}
	return b.sendText(msg.Chat.ID, fmt.Sprintf("Added %s — %s. Schedule updated ✅", h.Date, html.EscapeString(h.Name)))
}

func (b *Bot) removeHoliday(ctx context.Context, msg *tgbotapi.Message, user *model.User) error {
	arg := strings.TrimSpace(msg.CommandArguments())
	id, err := strconv.ParseUint(arg, 10, 32)
	if err != nil {
		return b.sendText(msg.Chat.ID, "Usage: /delholiday <number from /holidays>")
	}
	if err := b.holidaySvc.Remove(ctx, user.ID, uint(id)); err != nil {
		return b.sendText(msg.Chat.ID, fmt.Sprintf("Could not remove: %v", err))
	}
	return b.sendText(msg.Chat.ID, "Removed. Schedule updated ✅")
}

// SendDailyDigests delivers the digest to every registered user. Used by
// the scheduled daily job.
func (b *Bot) SendDailyDigests(ctx context.Context) error {
	users, err := b.userRepo.ListAll(ctx)
	if err != nil {
		return err
	}
	now := time.Now()
	for _, user := range users {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}
		digest, err := b.reminderSvc.DailyDigest(ctx, user, now)
		if err != nil {
			log.Printf("[warn] build digest for user %d: %v", user.TelegramID, err)
			continue
		}
		if err := b.sendText(user.TelegramID, digest); err != nil {
			log.Printf("[warn] send digest to %d: %v", user.TelegramID, err)
		}
	}
	return nil
}

func (b *Bot) ensureUser(ctx context.Context, from *tgbotapi.User) (*model.User, error) {
	user, err := b.userRepo.UpsertFromTelegram(ctx, from.ID, from.FirstName, from.LastName, from.UserName)
	if err != nil {
		return nil, err
	}
	// Users registering after startup still get a live template watch.
	b.generationSvc.EnsureWatch(user.ID)
	return user, nil
}

func (b *Bot) sendText(chatID int64, text string) error {
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ParseMode = tgbotapi.ModeHTML
	_, err := b.api.Send(msg)
	return err
}

var weekdayNames = [7]string{"Sun", "Mon", "Tue", "Wed", "Thu", "Fri", "Sat"}

func describeRecurrence(tpl model.RecurringTemplate) string {
	switch tpl.Recurrence {
	case model.RecurDaily:
		return "daily"
	case model.RecurWeekly:
		if tpl.Weekday != nil && *tpl.Weekday >= 0 && *tpl.Weekday <= 6 {
			return "weekly on " + weekdayNames[*tpl.Weekday]
		}
		return "weekly"
	case model.RecurMonthly:
		if tpl.MonthlyPattern == model.MonthlyByWeekday && tpl.MonthlyWeekday != nil {
			return fmt.Sprintf("monthly, %s %s", tpl.MonthlyWeek, weekdayNames[*tpl.MonthlyWeekday])
		}
		if tpl.MonthlyDate != nil {
			switch *tpl.MonthlyDate {
			case model.MonthlyLastDay:
				return "monthly, last day"
			case model.MonthlyFirstWorkday:
				return "monthly, first workday"
			case model.MonthlyLastWorkday:
				return "monthly, last workday"
			default:
				return fmt.Sprintf("monthly on day %d", *tpl.MonthlyDate)
			}
		}
		return "monthly"
	default:
		return string(tpl.Recurrence)
	}
}
