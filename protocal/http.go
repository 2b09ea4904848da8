package protocal

import (
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"

	"golang-line-chatbot/configs"
	httpAdapter "golang-line-chatbot/internal/adapters/input/http"
	lineAdapter "golang-line-chatbot/internal/adapters/output/line"
	"golang-line-chatbot/internal/adapters/output/memory"
	openaiAdapter "golang-line-chatbot/internal/adapters/output/openai"
	"golang-line-chatbot/internal/application"
	"golang-line-chatbot/internal/ports/output"
	"golang-line-chatbot/pkg/validator"

	swagger "github.com/arsmn/fiber-swagger/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/sirupsen/logrus"
)

type config struct {
	ENV string `mapstructure:"env"`
}

// ServeHTTP func
func ServeHTTP() error {
	var cfg config
	flag.StringVar(&cfg.ENV, "env", "", "the environment to use")
	flag.Parse()
	configs.InitViper("./configs", cfg.ENV)
	conf := configs.GetViper()

	if err := validator.New().ValidateStruct(conf); err != nil {
		return fmt.Errorf("invalid configuration: %v", validator.Messages(err))
	}

	setupLogger(conf.App)
	logrus.Info(conf.App.Env)

	app := NewApp(conf)

	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt)
	go func() {
		for range c {
			log.Println("Gracefull shut down ...")
			err := app.Shutdown()
			if err != nil {
				log.Println("Error when shutdown server: ", err)
			}
		}
	}()

	logrus.Println("Listening on port: ", conf.App.Port)
	return app.Listen(":" + conf.App.Port)
}

// NewApp wires the hexagonal layers into a fiber app
func NewApp(conf *configs.Config) *fiber.App {
	app := fiber.New()
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowHeaders: "Origin, Content-Type, Accept,Authorization",
	}))

	// Output adapters
	store := memory.NewConversationStore()
	lineClient := lineAdapter.NewLineClientAdapter(conf.Line)
	tokenClient, err := lineAdapter.NewTokenClientAdapter(conf.Line)
	if err != nil {
		logrus.Fatalf("Failed to create LINE token client: %v", err)
	}

	replyMode := application.NormalizeReplyMode(conf.Reply.Mode)

	var completionClient output.CompletionClient
	if replyMode == application.ReplyModeCompletion {
		completionClient = openaiAdapter.NewCompletionClientAdapter(conf.OpenAI)
	}

	// Application services (use cases)
	generator, err := application.NewReplyGenerator(application.ReplyGeneratorConfig{
		Mode:         replyMode,
		EchoFormat:   conf.Reply.EchoFormat,
		StaticText:   conf.Reply.StaticText,
		SystemPrompt: conf.OpenAI.SystemPrompt,
	}, completionClient)
	if err != nil {
		logrus.Fatalf("Failed to create reply generator: %v", err)
	}
	dispatcher := application.NewReplyDispatcher(tokenClient, lineClient)
	lineWebhookSrv := application.NewLineWebhookService(store, generator, dispatcher)
	conversationSrv := application.NewConversationService(store)

	// Input adapters (HTTP handlers)
	hdl := httpAdapter.New(conversationSrv)
	lineWebhookHdl := httpAdapter.NewLineWebhookHandler(lineWebhookSrv)

	app.Get("/swagger/*", swagger.HandlerDefault) // default
	app.Get("/health", hdl.HealthCheck)

	api := app.Group("/v1/api")
	{
		api.Get("/conversations", hdl.ListConversations)
		api.Get("/conversations/:userId", hdl.GetConversation)
	}

	// LINE webhook endpoint
	webhook := app.Group("/webhook")
	{
		webhook.Post("/line", lineWebhookHdl.HandleWebhook)
	}

	return app
}

func setupLogger(conf configs.App) {
	if conf.Debug {
		logrus.SetLevel(logrus.DebugLevel)
	} else {
		logrus.SetLevel(logrus.InfoLevel)
	}

	if conf.Env == "production" {
		logrus.SetFormatter(&logrus.JSONFormatter{})
	} else {
		logrus.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}
}
