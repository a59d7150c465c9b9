package bot

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"pawpal/internal/model"
	"pawpal/internal/planner"
	"pawpal/internal/repository"
	"pawpal/internal/service"
)

type conversationStage int

const (
	stageNone conversationStage = iota

	stagePetName
	stagePetSpecies
	stagePetAge
	stagePetHealth

	stageTaskPet
	stageTaskName
	stageTaskDuration
	stageTaskPriority
	stageTaskCategory
	stageTaskMedical
	stageTaskPreferred
	stageTaskRecurring
	stageTaskPattern
	stageTaskWeekdays
)

const cbDonePrefix = "done:"

const (
	btnSkip         = "⏭ Skip"
	btnYes          = "Yes"
	btnNo           = "No"
	btnCancelDialog = "⏪ Cancel"

	menuLabelPlan    = "📅 Today's plan"
	menuLabelTasks   = "📋 Tasks"
	menuLabelNewTask = "➕ New task"
	menuLabelNewPet  = "🐾 New pet"
	menuLabelHelp    = "ℹ️ Help"
)

type petChoice struct {
	id   uint
	name string
}

type conversationState struct {
	stage      conversationStage
	pet        service.PetInput
	task       service.TaskInput
	petChoices []petChoice
}

// Bot aggregates the Telegram API with the planner services.
type Bot struct {
	api           *tgbotapi.BotAPI
	userRepo      *repository.UserRepository
	petSvc        *service.PetService
	taskSvc       *service.TaskService
	plannerSvc    *service.PlannerService
	logger        zerolog.Logger
	conversations map[int64]*conversationState
	mu            sync.Mutex
}

func New(token string, userRepo *repository.UserRepository, petSvc *service.PetService, taskSvc *service.TaskService, plannerSvc *service.PlannerService, logger zerolog.Logger) (*Bot, error) {
	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("create bot api: %w", err)
	}

	logger.Info().Str("account", api.Self.UserName).Msg("bot authorized")

	return &Bot{
		api:           api,
		userRepo:      userRepo,
		petSvc:        petSvc,
		taskSvc:       taskSvc,
		plannerSvc:    plannerSvc,
		logger:        logger,
		conversations: make(map[int64]*conversationState),
	}, nil
}

// Start begins polling updates until ctx is cancelled.
func (b *Bot) Start(ctx context.Context) error {
	updateConfig := tgbotapi.NewUpdate(0)
	updateConfig.Timeout = 60
	updates := b.api.GetUpdatesChan(updateConfig)

	b.logger.Info().Msg("start polling updates")

	go func() {
		<-ctx.Done()
		b.api.StopReceivingUpdates()
	}()

	for update := range updates {
		switch {
		case update.CallbackQuery != nil:
			if err := b.handleCallback(ctx, update.CallbackQuery); err != nil {
				b.logger.Error().Err(err).Msg("handle callback")
			}
		case update.Message != nil:
			if update.Message.Chat == nil || !update.Message.Chat.IsPrivate() {
				continue
			}
			if err := b.handleMessage(ctx, update.Message); err != nil {
				b.logger.Error().Err(err).Msg("handle message")
			}
		}
	}

	return nil
}

func (b *Bot) handleMessage(ctx context.Context, msg *tgbotapi.Message) error {
	if msg.From == nil {
		return nil
	}

	if !msg.IsCommand() && strings.TrimSpace(msg.Text) == btnCancelDialog {
		b.clearConversation(msg.From.ID)
		return b.sendText(msg.Chat.ID, "⏪ Input cancelled.")
	}

	if msg.IsCommand() {
		b.logger.Info().Int64("user", msg.From.ID).Str("command", msg.Command()).Msg("command")
		return b.handleCommand(ctx, msg)
	}

	if b.hasConversation(msg.From.ID) {
		return b.handleConversation(ctx, msg)
	}

	if handled, err := b.handleMenuAlias(ctx, msg); handled {
		return err
	}

	return b.sendText(msg.Chat.ID, "I didn't catch that. Try /plan for today's schedule or /help for all commands.")
}

func (b *Bot) handleMenuAlias(ctx context.Context, msg *tgbotapi.Message) (bool, error) {
	switch strings.TrimSpace(msg.Text) {
	case menuLabelPlan:
		return true, b.handlePlan(ctx, msg)
	case menuLabelTasks:
		return true, b.handleTasks(ctx, msg)
	case menuLabelNewTask:
		return true, b.startNewTaskConversation(ctx, msg)
	case menuLabelNewPet:
		return true, b.startNewPetConversation(ctx, msg)
	case menuLabelHelp:
		return true, b.handleHelp(msg)
	}
	return false, nil
}

func (b *Bot) handleCommand(ctx context.Context, msg *tgbotapi.Message) error {
	switch msg.Command() {
	case "start":
		return b.handleStart(ctx, msg)
	case "help":
		return b.handleHelp(msg)
	case "addpet":
		return b.startNewPetConversation(ctx, msg)
	case "pets", "tasks":
		return b.handleTasks(ctx, msg)
	case "newtask":
		return b.startNewTaskConversation(ctx, msg)
	case "plan":
		return b.handlePlan(ctx, msg)
	case "complete":
		return b.handleComplete(ctx, msg)
	case "delete":
		return b.handleDelete(ctx, msg)
	case "availability":
		return b.handleAvailability(ctx, msg)
	case "report":
		return b.handlePlan(ctx, msg)
	case "cancel":
		b.clearConversation(msg.From.ID)
		return b.sendText(msg.Chat.ID, "⏪ Input cancelled.")
	default:
		return b.sendText(msg.Chat.ID, "Unknown command. See /help.")
	}
}

func (b *Bot) handleStart(ctx context.Context, msg *tgbotapi.Message) error {
	if _, err := b.ensureUser(ctx, msg.From); err != nil {
		return err
	}

	name := strings.TrimSpace(msg.From.FirstName)
	if name == "" {
		name = "there"
	}

	text := fmt.Sprintf(
		"👋 Hi, %s!\n<b>I plan your pets' care day: feeding, walks, medication.</b>\n\nCommands:\n"+
			"• /addpet — register a pet\n"+
			"• /newtask — add a care task\n"+
			"• /tasks — list pets and their tasks\n"+
			"• /plan [YYYY-MM-DD] — build the day's schedule\n"+
			"• /complete &lt;task id&gt; — mark a planned task done\n"+
			"• /availability &lt;HH:MM-HH:MM ...&gt; — set your free windows\n"+
			"• /help — hints",
		escape(name),
	)

	return b.sendText(msg.Chat.ID, text)
}

func (b *Bot) handleHelp(msg *tgbotapi.Message) error {
	text := "ℹ️ <b>Hints</b>\n" +
		"• /addpet — register a pet step by step\n" +
		"• /newtask — add a care task (duration, priority, medication flag, preferred time, recurrence)\n" +
		"• /tasks — pets with their tasks and ids\n" +
		"• /plan — schedule today; /plan 2026-03-01 for another day\n" +
		"• /complete &lt;task id&gt; — mark a planned task done; recurring tasks get their next due date\n" +
		"• /delete &lt;task id&gt; — remove a task\n" +
		"• /availability 09:00-12:00 14:00-18:00 — your free windows (medication is planned even outside them)\n" +
		"• /cancel — abort the current input"
	return b.sendText(msg.Chat.ID, text)
}

// ---- pet creation conversation ----

func (b *Bot) startNewPetConversation(ctx context.Context, msg *tgbotapi.Message) error {
	if _, err := b.ensureUser(ctx, msg.From); err != nil {
		return err
	}
	b.setConversation(msg.From.ID, &conversationState{stage: stagePetName})
	return b.sendWithReplyMarkup(msg.Chat.ID, "🐾 New pet.\n<b>Step 1:</b> what's their name?", cancelKeyboard())
}

// ---- task creation conversation ----

func (b *Bot) startNewTaskConversation(ctx context.Context, msg *tgbotapi.Message) error {
	user, err := b.ensureUser(ctx, msg.From)
	if err != nil {
		return err
	}
	pets, err := b.petSvc.List(ctx, user)
	if err != nil {
		return b.sendText(msg.Chat.ID, fmt.Sprintf("Could not load pets: %s", escape(err.Error())))
	}
	if len(pets) == 0 {
		return b.sendText(msg.Chat.ID, "Add a pet first with /addpet.")
	}

	state := &conversationState{stage: stageTaskPet}
	var lines []string
	for i, pet := range pets {
		state.petChoices = append(state.petChoices, petChoice{id: pet.ID, name: pet.Name})
		lines = append(lines, fmt.Sprintf("%d. %s", i+1, escape(pet.Name)))
	}
	b.setConversation(msg.From.ID, state)
	return b.sendWithReplyMarkup(msg.Chat.ID,
		"🆕 New care task.\n<b>Step 1:</b> which pet? Reply with a number:\n"+strings.Join(lines, "\n"),
		cancelKeyboard())
}

func (b *Bot) handleConversation(ctx context.Context, msg *tgbotapi.Message) error {
	state := b.getConversation(msg.From.ID)
	if state == nil {
		return nil
	}

	text := strings.TrimSpace(msg.Text)
	switch state.stage {
	case stagePetName:
		if text == "" {
			return b.sendWithReplyMarkup(msg.Chat.ID, "The name can't be empty. What's the pet called?", cancelKeyboard())
		}
		state.pet.Name = text
		state.stage = stagePetSpecies
		return b.sendWithReplyMarkup(msg.Chat.ID, "What species? (dog, cat, ...)", cancelKeyboard())
	case stagePetSpecies:
		state.pet.Species = text
		state.stage = stagePetAge
		return b.sendWithReplyMarkup(msg.Chat.ID, "How old are they? (years)", cancelKeyboard())
	case stagePetAge:
		age, err := strconv.Atoi(text)
		if err != nil || age < 0 || age > 50 {
			return b.sendWithReplyMarkup(msg.Chat.ID, "Age should be a number between 0 and 50.", cancelKeyboard())
		}
		state.pet.Age = age
		state.stage = stagePetHealth
		return b.sendWithReplyMarkup(msg.Chat.ID, "Any health notes? (or Skip)", skipKeyboard())
	case stagePetHealth:
		if text != btnSkip {
			state.pet.HealthNotes = text
		}
		err := b.finishPetCreation(ctx, msg.From, state.pet, msg.Chat.ID)
		b.clearConversation(msg.From.ID)
		return err

	case stageTaskPet:
		idx, err := strconv.Atoi(text)
		if err != nil || idx < 1 || idx > len(state.petChoices) {
			return b.sendWithReplyMarkup(msg.Chat.ID, fmt.Sprintf("Reply with a number between 1 and %d.", len(state.petChoices)), cancelKeyboard())
		}
		state.task.PetID = state.petChoices[idx-1].id
		state.stage = stageTaskName
		return b.sendWithReplyMarkup(msg.Chat.ID, "What's the task? (e.g. Morning walk)", cancelKeyboard())
	case stageTaskName:
		if text == "" {
			return b.sendWithReplyMarkup(msg.Chat.ID, "The task needs a name.", cancelKeyboard())
		}
		state.task.Name = text
		state.stage = stageTaskDuration
		return b.sendWithReplyMarkup(msg.Chat.ID, "How long does it take, in minutes? (1-240)", cancelKeyboard())
	case stageTaskDuration:
		minutes, err := strconv.Atoi(text)
		if err != nil || minutes < 1 || minutes > 240 {
			return b.sendWithReplyMarkup(msg.Chat.ID, "Duration should be a number of minutes between 1 and 240.", cancelKeyboard())
		}
		state.task.Duration = minutes
		state.stage = stageTaskPriority
		return b.sendWithReplyMarkup(msg.Chat.ID, "How important is it?", priorityKeyboard())
	case stageTaskPriority:
		state.task.PriorityLabel = text
		state.stage = stageTaskCategory
		return b.sendWithReplyMarkup(msg.Chat.ID, "Category? (feeding, walk, medication, ... or Skip)", skipKeyboard())
	case stageTaskCategory:
		if text != btnSkip {
			state.task.Category = text
		}
		state.stage = stageTaskMedical
		return b.sendWithReplyMarkup(msg.Chat.ID, "💊 Is this medication? Medication is always scheduled, even outside your availability.", yesNoKeyboard())
	case stageTaskMedical:
		state.task.Medical = isYes(text)
		state.stage = stageTaskPreferred
		return b.sendWithReplyMarkup(msg.Chat.ID, "Preferred time of day?", preferredTimeKeyboard())
	case stageTaskPreferred:
		state.task.PreferredTime = model.PreferredTime(strings.ToLower(text))
		state.stage = stageTaskRecurring
		return b.sendWithReplyMarkup(msg.Chat.ID, "🔁 Does it repeat?", yesNoKeyboard())
	case stageTaskRecurring:
		if !isYes(text) {
			err := b.finishTaskCreation(ctx, msg.From, state.task, msg.Chat.ID)
			b.clearConversation(msg.From.ID)
			return err
		}
		state.task.Recurring = true
		state.stage = stageTaskPattern
		return b.sendWithReplyMarkup(msg.Chat.ID, "How often?", patternKeyboard())
	case stageTaskPattern:
		switch strings.ToLower(text) {
		case "daily":
			state.task.Pattern = model.RecurDaily
		case "every other day", "every_other_day":
			state.task.Pattern = model.RecurEveryOtherDay
		case "weekly":
			state.task.Pattern = model.RecurWeekly
			state.stage = stageTaskWeekdays
			return b.sendWithReplyMarkup(msg.Chat.ID, "Which weekdays? e.g. <code>mon,wed,fri</code>", cancelKeyboard())
		default:
			return b.sendWithReplyMarkup(msg.Chat.ID, "Pick daily, every other day or weekly.", patternKeyboard())
		}
		err := b.finishTaskCreation(ctx, msg.From, state.task, msg.Chat.ID)
		b.clearConversation(msg.From.ID)
		return err
	case stageTaskWeekdays:
		days, err := parseWeekdays(text)
		if err != nil {
			return b.sendWithReplyMarkup(msg.Chat.ID, "Couldn't read that. Use day names like <code>mon,wed,fri</code>.", cancelKeyboard())
		}
		state.task.Weekdays = days
		err = b.finishTaskCreation(ctx, msg.From, state.task, msg.Chat.ID)
		b.clearConversation(msg.From.ID)
		return err

	default:
		b.clearConversation(msg.From.ID)
		return b.sendText(msg.Chat.ID, "Input reset. Start again with /newtask.")
	}
}

func (b *Bot) finishPetCreation(ctx context.Context, from *tgbotapi.User, input service.PetInput, chatID int64) error {
	user, err := b.ensureUser(ctx, from)
	if err != nil {
		return err
	}

	pet, err := b.petSvc.AddPet(ctx, user, input)
	if err != nil {
		return b.sendText(chatID, fmt.Sprintf("Could not save the pet: %s", escape(err.Error())))
	}

	b.logger.Info().Uint("pet", pet.ID).Uint("user", user.ID).Msg("pet created")
	return b.sendText(chatID, fmt.Sprintf("✅ <b>%s</b> is registered. Add their tasks with /newtask.", escape(pet.Name)))
}

func (b *Bot) finishTaskCreation(ctx context.Context, from *tgbotapi.User, input service.TaskInput, chatID int64) error {
	user, err := b.ensureUser(ctx, from)
	if err != nil {
		return err
	}

	task, err := b.taskSvc.CreateTask(ctx, user, input)
	if err != nil {
		return b.sendText(chatID, fmt.Sprintf("Could not save the task: %s", escape(err.Error())))
	}

	b.logger.Info().Uint("task", task.ID).Uint("user", user.ID).Bool("recurring", task.Recurring).Msg("task created")

	var summary strings.Builder
	summary.WriteString("✅ <b>Task saved</b>\n")
	summary.WriteString(fmt.Sprintf("• <b>ID:</b> %d\n", task.ID))
	summary.WriteString(fmt.Sprintf("• <b>Name:</b> %s\n", escape(task.Name)))
	summary.WriteString(fmt.Sprintf("• <b>Duration:</b> %d min\n", task.DurationMinutes))
	summary.WriteString(fmt.Sprintf("• <b>Priority:</b> %d/5\n", task.Priority))
	if task.Medical {
		summary.WriteString("• 💊 medication\n")
	}
	if task.Recurring {
		summary.WriteString(fmt.Sprintf("• <b>Repeats:</b> %s\n", recurrenceLabel(*task)))
	}

	msg := tgbotapi.NewMessage(chatID, strings.TrimSpace(summary.String()))
	msg.ReplyMarkup = mainMenuKeyboard()
	msg.ParseMode = tgbotapi.ModeHTML
	_, err = b.api.Send(msg)
	return err
}

// ---- plan and completion ----

func (b *Bot) handlePlan(ctx context.Context, msg *tgbotapi.Message) error {
	user, err := b.ensureUser(ctx, msg.From)
	if err != nil {
		return err
	}

	date := time.Now()
	if args := strings.TrimSpace(msg.CommandArguments()); args != "" {
		parsed, err := time.Parse("2006-01-02", args)
		if err != nil {
			return b.sendText(msg.Chat.ID, "Use the date format <code>2026-03-01</code>, or /plan with no argument for today.")
		}
		date = parsed
	}

	return b.sendPlan(ctx, msg.Chat.ID, user, date)
}

func (b *Bot) sendPlan(ctx context.Context, chatID int64, user *model.User, date time.Time) error {
	pets, err := b.petSvc.List(ctx, user)
	if err != nil {
		return b.sendText(chatID, fmt.Sprintf("Could not load pets: %s", escape(err.Error())))
	}
	if len(pets) == 0 {
		return b.sendText(chatID, "Add a pet first with /addpet, then tasks with /newtask.")
	}

	sched, err := b.plannerSvc.PlanDay(ctx, user, date)
	if err != nil && sched == nil {
		return b.sendText(chatID, fmt.Sprintf("Could not build the plan: %s", escape(err.Error())))
	}
	if err != nil {
		b.logger.Error().Err(err).Uint("user", user.ID).Msg("plan not persisted")
	}

	petNames := make(map[uint]string, len(pets))
	for _, pet := range pets {
		petNames[pet.ID] = pet.Name
	}

	text := renderPlan(sched, petNames)
	out := tgbotapi.NewMessage(chatID, text)
	out.ParseMode = tgbotapi.ModeHTML
	if buttons := completionButtons(sched); len(buttons) > 0 {
		out.ReplyMarkup = tgbotapi.NewInlineKeyboardMarkup(buttons...)
	}
	_, err = b.api.Send(out)
	return err
}

func completionButtons(sched *model.DailySchedule) [][]tgbotapi.InlineKeyboardButton {
	var buttons [][]tgbotapi.InlineKeyboardButton
	for _, st := range sched.TasksByTime() {
		if st.Status == model.StatusCompleted {
			continue
		}
		data := fmt.Sprintf("%s%d:%s", cbDonePrefix, st.TaskID, sched.Date.Format("2006-01-02"))
		label := fmt.Sprintf("✅ %s %s", st.Start, shortTitle(st.TaskName(), 24))
		buttons = append(buttons, []tgbotapi.InlineKeyboardButton{
			tgbotapi.NewInlineKeyboardButtonData(label, data),
		})
	}
	return buttons
}

func (b *Bot) handleComplete(ctx context.Context, msg *tgbotapi.Message) error {
	args := strings.Fields(strings.TrimSpace(msg.CommandArguments()))
	if len(args) == 0 {
		return b.sendText(msg.Chat.ID, "Give me the task id: /complete 12")
	}

	taskID64, err := strconv.ParseUint(args[0], 10, 64)
	if err != nil {
		return b.sendText(msg.Chat.ID, "The task id should be a number.")
	}

	date := time.Now()
	if len(args) > 1 {
		parsed, err := time.Parse("2006-01-02", args[1])
		if err != nil {
			return b.sendText(msg.Chat.ID, "Use the date format <code>2026-03-01</code>.")
		}
		date = parsed
	}

	user, err := b.ensureUser(ctx, msg.From)
	if err != nil {
		return err
	}

	return b.completeTask(ctx, msg.Chat.ID, user, uint(taskID64), date)
}

func (b *Bot) completeTask(ctx context.Context, chatID int64, user *model.User, taskID uint, date time.Time) error {
	message, err := b.plannerSvc.CompleteTask(ctx, user, date, taskID, date)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return b.sendText(chatID, "There's no stored plan for that day. Build one with /plan first.")
		}
		return b.sendText(chatID, fmt.Sprintf("Could not complete the task: %s", escape(err.Error())))
	}

	b.logger.Info().Uint("task", taskID).Uint("user", user.ID).Msg("task completed")
	return b.sendText(chatID, "✅ "+escape(message))
}

func (b *Bot) handleDelete(ctx context.Context, msg *tgbotapi.Message) error {
	args := strings.TrimSpace(msg.CommandArguments())
	if args == "" {
		return b.sendText(msg.Chat.ID, "Give me the task id: /delete 12")
	}

	taskID64, err := strconv.ParseUint(args, 10, 64)
	if err != nil {
		return b.sendText(msg.Chat.ID, "The task id should be a number.")
	}

	user, err := b.ensureUser(ctx, msg.From)
	if err != nil {
		return err
	}

	task, err := b.taskSvc.GetTask(ctx, user, uint(taskID64))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return b.sendText(msg.Chat.ID, "Task not found.")
		}
		return b.sendText(msg.Chat.ID, fmt.Sprintf("Error: %s", escape(err.Error())))
	}

	if err := b.taskSvc.DeleteTask(ctx, user, uint(taskID64)); err != nil {
		return b.sendText(msg.Chat.ID, fmt.Sprintf("Could not delete the task: %s", escape(err.Error())))
	}

	return b.sendText(msg.Chat.ID, fmt.Sprintf("🗑 Task \"%s\" deleted.", escape(task.Name)))
}

func (b *Bot) handleAvailability(ctx context.Context, msg *tgbotapi.Message) error {
	user, err := b.ensureUser(ctx, msg.From)
	if err != nil {
		return err
	}

	args := strings.Fields(strings.TrimSpace(msg.CommandArguments()))
	if len(args) == 0 {
		windows := planner.Windows(user.AvailabilityList())
		var parts []string
		for _, w := range windows {
			parts = append(parts, fmt.Sprintf("%s-%s", w.Start, w.End))
		}
		return b.sendText(msg.Chat.ID, fmt.Sprintf(
			"Your availability: <b>%s</b>\nChange it like this: /availability 09:00-12:00 14:00-18:00",
			strings.Join(parts, ", ")))
	}

	var accepted []string
	for _, arg := range args {
		if _, err := planner.ParseWindow(arg); err != nil {
			return b.sendText(msg.Chat.ID, fmt.Sprintf("I can't read %q. Windows look like <code>09:00-17:00</code> or <code>9-17</code>.", arg))
		}
		accepted = append(accepted, arg)
	}

	if err := b.userRepo.SetAvailability(ctx, user, accepted); err != nil {
		return b.sendText(msg.Chat.ID, fmt.Sprintf("Could not save availability: %s", escape(err.Error())))
	}

	return b.sendText(msg.Chat.ID, fmt.Sprintf("✅ Availability set to <b>%s</b>.", strings.Join(accepted, ", ")))
}

func (b *Bot) handleTasks(ctx context.Context, msg *tgbotapi.Message) error {
	user, err := b.ensureUser(ctx, msg.From)
	if err != nil {
		return err
	}
	pets, err := b.petSvc.List(ctx, user)
	if err != nil {
		return b.sendText(msg.Chat.ID, fmt.Sprintf("Could not load pets: %s", escape(err.Error())))
	}
	return b.sendText(msg.Chat.ID, renderPets(pets))
}

func (b *Bot) handleCallback(ctx context.Context, cb *tgbotapi.CallbackQuery) error {
	if cb == nil || cb.From == nil || cb.Message == nil {
		return nil
	}

	if _, err := b.api.Request(tgbotapi.NewCallback(cb.ID, "")); err != nil {
		b.logger.Error().Err(err).Msg("callback ack")
	}

	if !strings.HasPrefix(cb.Data, cbDonePrefix) {
		return nil
	}

	payload := strings.TrimPrefix(cb.Data, cbDonePrefix)
	idPart, datePart, ok := strings.Cut(payload, ":")
	if !ok {
		return nil
	}
	taskID64, err := strconv.ParseUint(idPart, 10, 64)
	if err != nil {
		return nil
	}
	date, err := time.Parse("2006-01-02", datePart)
	if err != nil {
		return nil
	}

	user, err := b.ensureUser(ctx, cb.From)
	if err != nil {
		return err
	}
	return b.completeTask(ctx, cb.Message.Chat.ID, user, uint(taskID64), date)
}

// SendDailyReports builds and sends today's plan to every user with pets.
func (b *Bot) SendDailyReports(ctx context.Context, now time.Time) error {
	users, err := b.userRepo.ListAll(ctx)
	if err != nil {
		return err
	}
	for _, user := range users {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}
		pets, err := b.petSvc.List(ctx, &user)
		if err != nil {
			b.logger.Error().Err(err).Int64("telegram", user.TelegramID).Msg("load pets for report")
			continue
		}
		if len(pets) == 0 {
			continue
		}
		if err := b.sendPlan(ctx, user.TelegramID, &user, now); err != nil {
			b.logger.Error().Err(err).Int64("telegram", user.TelegramID).Msg("send report")
		}
	}
	return nil
}

func (b *Bot) ensureUser(ctx context.Context, from *tgbotapi.User) (*model.User, error) {
	return b.userRepo.UpsertFromTelegram(ctx, from.ID, from.FirstName, from.LastName, from.UserName)
}

func (b *Bot) sendText(chatID int64, text string) error {
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ParseMode = tgbotapi.ModeHTML
	msg.ReplyMarkup = mainMenuKeyboard()
	_, err := b.api.Send(msg)
	return err
}

func (b *Bot) sendWithReplyMarkup(chatID int64, text string, markup interface{}) error {
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ParseMode = tgbotapi.ModeHTML
	msg.ReplyMarkup = markup
	_, err := b.api.Send(msg)
	return err
}

func (b *Bot) setConversation(userID int64, state *conversationState) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.conversations[userID] = state
}

func (b *Bot) getConversation(userID int64) *conversationState {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.conversations[userID]
}

func (b *Bot) hasConversation(userID int64) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	_, ok := b.conversations[userID]
	return ok
}

func (b *Bot) clearConversation(userID int64) {
	b.mu.Lock()
	defer b.mu.Unlock()
	delete(b.conversations, userID)
}

func isYes(text string) bool {
	switch strings.ToLower(strings.TrimSpace(text)) {
	case "yes", "y", strings.ToLower(btnYes):
		return true
	}
	return false
}

func parseWeekdays(text string) ([]time.Weekday, error) {
	names := map[string]time.Weekday{
		"sun": time.Sunday, "mon": time.Monday, "tue": time.Tuesday, "wed": time.Wednesday,
		"thu": time.Thursday, "fri": time.Friday, "sat": time.Saturday,
	}
	var days []time.Weekday
	for _, part := range strings.Split(text, ",") {
		key := strings.ToLower(strings.TrimSpace(part))
		if len(key) > 3 {
			key = key[:3]
		}
		day, ok := names[key]
		if !ok {
			return nil, fmt.Errorf("unknown weekday %q", part)
		}
		days = append(days, day)
	}
	if len(days) == 0 {
		return nil, fmt.Errorf("no weekdays given")
	}
	return days, nil
}
