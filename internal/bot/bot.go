package bot

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"quiz_platform_backend/internal/config"
	"quiz_platform_backend/internal/service"
	"quiz_platform_backend/pkg/logger"

	"go.uber.org/zap"
	telebot "gopkg.in/telebot.v4"
)

// Bot is the telegram front door: it registers players, lists the
// attemptable catalog and hands off to the mini app for the attempt itself.
type Bot struct {
	bot       *telebot.Bot
	users     *service.UserService
	tests     *service.TestService
	quiz      *service.QuizService
	webAppURL string
}

func New(cfg config.TelegramConfig, users *service.UserService, tests *service.TestService, quiz *service.QuizService) (*Bot, error) {
	tb, err := telebot.NewBot(telebot.Settings{
		Token:  cfg.Token,
		Poller: &telebot.LongPoller{Timeout: 10 * time.Second},
	})
	if err != nil {
		return nil, fmt.Errorf("telegram bot init: %w", err)
	}

	b := &Bot{
		bot:       tb,
		users:     users,
		tests:     tests,
		quiz:      quiz,
		webAppURL: cfg.WebAppURL,
	}
	b.registerHandlers()
	return b, nil
}

// Start begins long polling. It blocks; run it on its own goroutine.
func (b *Bot) Start() {
	logger.Log.Info("telegram bot started")
	b.bot.Start()
}

func (b *Bot) Stop() {
	b.bot.Stop()
}

func (b *Bot) registerHandlers() {
	listBtn := telebot.InlineButton{Unique: "list_tests", Text: "Available tests"}
	resultsBtn := telebot.InlineButton{Unique: "my_results", Text: "My results"}

	b.bot.Handle("/start", func(c telebot.Context) error {
		sender := c.Sender()
		user, err := b.users.RegisterTelegramUser(
			strconv.FormatInt(sender.ID, 10),
			usernameFor(sender),
			sender.FirstName,
			sender.LastName,
		)
		if err != nil {
			logger.Log.Error("telegram registration failed",
				zap.Int64("telegramId", sender.ID), zap.Error(err))
			return c.Send("Registration failed, please try again later.")
		}

		rows := [][]telebot.InlineButton{{listBtn}, {resultsBtn}}
		if b.webAppURL != "" {
			rows = append([][]telebot.InlineButton{{{
				Text:   "Open test app",
				WebApp: &telebot.WebApp{URL: b.webAppURL},
			}}}, rows...)
		}

		greeting := fmt.Sprintf("Hello, %s! Pick a test and mind the timer: once started, an attempt expires on its own.", user.FirstName)
		return c.Send(greeting, &telebot.ReplyMarkup{InlineKeyboard: rows})
	})

	b.bot.Handle("/tests", b.sendActiveTests)
	b.bot.Handle(&listBtn, b.sendActiveTests)

	b.bot.Handle("/results", b.sendResults)
	b.bot.Handle(&resultsBtn, b.sendResults)
}

func (b *Bot) sendActiveTests(c telebot.Context) error {
	tests, err := b.tests.GetActiveTests()
	if err != nil {
		logger.Log.Error("catalog fetch for bot failed", zap.Error(err))
		return c.Send("Could not load the test list, please try again later.")
	}
	if len(tests) == 0 {
		return c.Send("There are no tests open right now.")
	}

	var sb strings.Builder
	sb.WriteString("Open tests:\n")
	for _, t := range tests {
		fmt.Fprintf(&sb, "\n%s (%s)\n%d questions, %d points, %d minutes\n",
			t.Title, t.Subject, t.QuestionCount, t.TotalPoints, t.DurationMinutes)
	}
	return c.Send(sb.String())
}

func (b *Bot) sendResults(c telebot.Context) error {
	sender := c.Sender()
	user, err := b.users.GetUserByTelegramID(strconv.FormatInt(sender.ID, 10))
	if err != nil {
		return c.Send("Use /start first.")
	}

	history, err := b.quiz.GetUserTestHistory(user.ID)
	if err != nil {
		logger.Log.Error("history fetch for bot failed", zap.Uint("userId", user.ID), zap.Error(err))
		return c.Send("Could not load your results, please try again later.")
	}
	if len(history) == 0 {
		return c.Send("You have no completed tests yet.")
	}

	var sb strings.Builder
	sb.WriteString("Your results:\n")
	for _, r := range history {
		fmt.Fprintf(&sb, "\n%s: %d/%d (%.0f%%)\n", r.TestTitle, r.Score, r.MaxScore, r.ScorePercentage)
	}
	return c.Send(sb.String())
}

func usernameFor(sender *telebot.User) string {
	if sender.Username != "" {
		return sender.Username
	}
	return "tg_" + strconv.FormatInt(sender.ID, 10)
}
