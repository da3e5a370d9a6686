package app

import (
	"context"
	"fmt"
	"net/http"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
	"gopkg.in/telebot.v4"

	"github.com/IT-Nick/quizbot/internal/app/handlers/http/leaderboard_handler"
	"github.com/IT-Nick/quizbot/internal/app/handlers/telegram/answer_handler"
	"github.com/IT-Nick/quizbot/internal/app/handlers/telegram/cancel_test_handler"
	"github.com/IT-Nick/quizbot/internal/app/handlers/telegram/catalog_handler"
	"github.com/IT-Nick/quizbot/internal/app/handlers/telegram/create_test_handler"
	"github.com/IT-Nick/quizbot/internal/app/handlers/telegram/help_handler"
	tgLeaderboard "github.com/IT-Nick/quizbot/internal/app/handlers/telegram/leaderboard_handler"
	"github.com/IT-Nick/quizbot/internal/app/handlers/telegram/run_custom_handler"
	"github.com/IT-Nick/quizbot/internal/app/handlers/telegram/select_level_handler"
	"github.com/IT-Nick/quizbot/internal/app/handlers/telegram/select_track_handler"
	"github.com/IT-Nick/quizbot/internal/app/handlers/telegram/start_handler"
	"github.com/IT-Nick/quizbot/internal/app/handlers/telegram/start_test_handler"
	"github.com/IT-Nick/quizbot/internal/app/middleware"
	customtestsRepo "github.com/IT-Nick/quizbot/internal/domain/customtests/repository"
	customtestsService "github.com/IT-Nick/quizbot/internal/domain/customtests/service"
	msgRepo "github.com/IT-Nick/quizbot/internal/domain/messages/repository"
	msgService "github.com/IT-Nick/quizbot/internal/domain/messages/service"
	questionsRepo "github.com/IT-Nick/quizbot/internal/domain/questions/repository"
	questionsService "github.com/IT-Nick/quizbot/internal/domain/questions/service"
	sessionsRepo "github.com/IT-Nick/quizbot/internal/domain/sessions/repository"
	sessionsService "github.com/IT-Nick/quizbot/internal/domain/sessions/service"
	statsRepo "github.com/IT-Nick/quizbot/internal/domain/stats/repository"
	statsService "github.com/IT-Nick/quizbot/internal/domain/stats/service"
	"github.com/IT-Nick/quizbot/internal/infra/config"
	"github.com/IT-Nick/quizbot/internal/infra/logger"
	"github.com/IT-Nick/quizbot/internal/infra/poller"
)

type Services struct {
	questionService   *questionsService.QuestionService
	sessionService    *sessionsService.SessionService
	statsService      *statsService.StatsService
	customTestService *customtestsService.CustomTestService
	messageService    *msgService.MessageService
}

type App struct {
	config *config.Config
	log    *zap.Logger
	bot    *telebot.Bot
	db     *pgxpool.Pool
	server *http.Server

	Services
	drafts *customtestsService.DraftManager
}

func NewApp(configPath string) (*App, error) {
	configImpl, err := config.LoadConfig(configPath)
	if err != nil {
		return nil, fmt.Errorf("config.LoadConfig: %w", err)
	}

	log := logger.New(configImpl)

	db, err := InitDatabase(configImpl, log)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	app := &App{
		config: configImpl,
		log:    log,
		db:     db,
		drafts: customtestsService.NewDraftManager(),
	}

	app.initServices()

	if err := app.seed(); err != nil {
		return nil, fmt.Errorf("failed to seed database: %w", err)
	}

	return app, nil
}

// Функция для инициализации сервисов и репозиториев
func (app *App) initServices() {
	// Инициализация репозиториев
	questionRepo := questionsRepo.NewQuestionRepository(app.db)
	sessionRepo := sessionsRepo.NewSessionRepository(app.db)
	ratingRepo := statsRepo.NewRatingRepository(app.db)
	customTestRepo := customtestsRepo.NewCustomTestRepository(app.db)
	messageRepo := msgRepo.NewMessageRepository(app.db)

	// Инициализация сервисов
	app.questionService = questionsService.NewQuestionService(questionRepo, app.log)
	app.statsService = statsService.NewStatsService(ratingRepo, app.log)
	app.customTestService = customtestsService.NewCustomTestService(customTestRepo, app.config.Quiz.CatalogPageSize, app.log)
	app.messageService = msgService.NewMessageService(messageRepo)
	app.sessionService = sessionsService.NewSessionService(
		sessionRepo,
		app.questionService,
		customTestRepo,
		app.statsService,
		app.config.Quiz.QuestionsPerTest,
		app.log,
	)
}

// seed наполняет банк вопросов из файла при первом запуске
func (app *App) seed() error {
	if app.config.Quiz.SeedFile == "" {
		return nil
	}
	return app.questionService.EnsureSeeded(context.Background(), app.config.Quiz.SeedFile)
}

// ListenAndServeTelegram запускает сервер Telegram бота
func (app *App) ListenAndServeTelegram() error {
	botPoller, err := poller.New(app.config)
	if err != nil {
		return fmt.Errorf("poller.New: %w", err)
	}

	bot, err := telebot.NewBot(telebot.Settings{
		Token:  app.config.TelegramBot.Token,
		Poller: botPoller,
	})
	if err != nil {
		return fmt.Errorf("telebot.NewBot: %w", err)
	}
	app.bot = bot

	app.bot.Use(middleware.Recover(app.log), middleware.Logger(app.log))

	app.bootstrapHandlersTelegram()

	go app.bot.Start()
	app.log.Info("telegram bot started", zap.String("mode", app.config.TelegramBot.Mode))

	return nil
}

// bootstrapHandlersTelegram - регистрирует обработчики для бота
func (app *App) bootstrapHandlersTelegram() {
	startHandler := start_handler.NewStartHandler(app.statsService, app.messageService)
	app.bot.Handle("/start", startHandler.GetHandlerFunc())
	app.bot.Handle(&telebot.InlineButton{Unique: "main_menu"}, startHandler.GetHandlerFunc())

	// Выбор направления и уровня стандартного теста
	app.bot.Handle(&telebot.InlineButton{Unique: "start_test"},
		select_track_handler.NewSelectTrackHandler(app.messageService).GetHandlerFunc())
	app.bot.Handle(&telebot.InlineButton{Unique: "track"},
		select_level_handler.NewSelectLevelHandler(app.messageService).GetHandlerFunc())
	app.bot.Handle(&telebot.InlineButton{Unique: "level"},
		start_test_handler.NewStartTestHandler(app.sessionService, app.messageService).GetHandlerFunc())

	// Прохождение теста: один обработчик ответов на оба вида тестов
	app.bot.Handle(&telebot.InlineButton{Unique: "answer"},
		answer_handler.NewAnswerHandler(app.sessionService, app.messageService).GetHandlerFunc())
	app.bot.Handle(&telebot.InlineButton{Unique: "cancel_test"},
		cancel_test_handler.NewCancelTestHandler(app.sessionService, app.messageService).GetHandlerFunc())

	// Каталог пользовательских тестов с пагинацией и запуском
	app.bot.Handle(&telebot.InlineButton{Unique: "test_catalog"},
		catalog_handler.NewCatalogHandler(app.customTestService, app.messageService).GetHandlerFunc())
	app.bot.Handle(&telebot.InlineButton{Unique: "run_custom"},
		run_custom_handler.NewRunCustomHandler(app.sessionService, app.customTestService, app.messageService).GetHandlerFunc())

	// Диалог создания собственного теста
	createHandler := create_test_handler.NewCreateTestHandler(app.customTestService, app.drafts, app.messageService)
	app.bot.Handle(&telebot.InlineButton{Unique: "create_test"}, createHandler.GetHandlerFunc())
	app.bot.Handle(&telebot.InlineButton{Unique: "add_another_q"}, createHandler.HandleAddQuestion)
	app.bot.Handle(&telebot.InlineButton{Unique: "finish_creation"}, createHandler.HandleFinish)
	app.bot.Handle(&telebot.InlineButton{Unique: "cancel_creation"}, createHandler.HandleCancel)
	app.bot.Handle(telebot.OnText, createHandler.HandleText)

	app.bot.Handle(&telebot.InlineButton{Unique: "leaderboard"},
		tgLeaderboard.NewLeaderboardHandler(app.statsService, app.messageService, app.config.Quiz.LeaderboardSize).GetHandlerFunc())
	app.bot.Handle(&telebot.InlineButton{Unique: "help"},
		help_handler.NewHelpHandler(app.messageService).GetHandlerFunc())
	app.bot.Handle("/help",
		help_handler.NewHelpHandler(app.messageService).GetHandlerFunc())
}

// ListenAndServeHTTP запускает HTTP сервер
func (app *App) ListenAndServeHTTP() error {
	mx := http.NewServeMux()

	mx.Handle("GET /leaderboard", leaderboard_handler.NewLeaderboardHandler(app.statsService))

	app.server = &http.Server{
		Addr:    fmt.Sprintf("%s:%s", app.config.Server.Host, app.config.Server.Port),
		Handler: mx,
	}

	app.log.Info("http server started", zap.String("addr", app.server.Addr))
	return app.server.ListenAndServe()
}

// ListenAndServe запускает оба сервера (Telegram и HTTP)
func (app *App) ListenAndServe() error {
	// Запускаем Telegram сервер
	if err := app.ListenAndServeTelegram(); err != nil {
		return fmt.Errorf("failed to start Telegram bot: %w", err)
	}

	// Запускаем HTTP сервер
	if err := app.ListenAndServeHTTP(); err != nil {
		return fmt.Errorf("failed to start HTTP server: %w", err)
	}

	return nil
}
