package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/joho/godotenv"
	"github.com/ruimartins/status-hunter-back/internal/cache"
	"github.com/ruimartins/status-hunter-back/internal/chat"
	"github.com/ruimartins/status-hunter-back/internal/config"
	"github.com/ruimartins/status-hunter-back/internal/domain"
	"github.com/ruimartins/status-hunter-back/internal/hunter"
	"github.com/ruimartins/status-hunter-back/internal/repository"
)

var searchTypeLabels = map[domain.SearchType]string{
	domain.SearchTypeFO:       "FO",
	domain.SearchTypeORC:      "ORC",
	domain.SearchTypeCliente:  "Cliente",
	domain.SearchTypeCampanha: "Campanha",
	domain.SearchTypeItem:     "Item",
	domain.SearchTypeGuia:     "Guia",
}

type statusBot struct {
	api      *tgbotapi.BotAPI
	machine  *chat.Machine
	sessions chat.SessionStore
	logger   *log.Logger
}

func main() {
	logger := log.New(os.Stdout, "[status-hunter-bot] ", log.LstdFlags|log.LUTC)
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		logger.Printf("failed loading .env file: %v", err)
	}
	cfg := config.Load()
	if cfg.TelegramBotToken == "" {
		logger.Fatalf("TELEGRAM_BOT_TOKEN is required")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	store, storeCloser := setupStore(ctx, cfg, logger)
	defer storeCloser()

	sessions, sessionsCloser := setupSessions(ctx, cfg, logger)
	defer sessionsCloser()

	searchCache := cache.NewSearchCache(cache.Config{
		TTL:        time.Duration(cfg.SearchCacheTTLSeconds) * time.Second,
		MaxEntries: cfg.SearchCacheMaxEntries,
	})
	statusHunter := hunter.New(store, searchCache, time.Duration(cfg.SearchTimeoutMS)*time.Millisecond)

	api, err := tgbotapi.NewBotAPI(cfg.TelegramBotToken)
	if err != nil {
		logger.Fatalf("bot init: %v", err)
	}
	api.Debug = false

	bot := &statusBot{
		api:      api,
		machine:  chat.NewMachine(statusHunter, cfg.ChatAutoAdvanceOnMatch),
		sessions: sessions,
		logger:   logger,
	}
	bot.setCommands()

	updateConfig := tgbotapi.NewUpdate(0)
	updateConfig.Timeout = 60
	updates := api.GetUpdatesChan(updateConfig)

	logger.Printf("bot polling as @%s", api.Self.UserName)
	for {
		select {
		case <-ctx.Done():
			api.StopReceivingUpdates()
			logger.Printf("shutdown signal received")
			return
		case update, ok := <-updates:
			if !ok {
				return
			}
			if update.Message == nil {
				continue
			}
			bot.handleMessage(ctx, update.Message)
		}
	}
}

func (b *statusBot) setCommands() {
	commands := []tgbotapi.BotCommand{
		{Command: "novo", Description: "Começar uma nova pesquisa"},
		{Command: "ajuda", Description: "Como usar o Status Hunter"},
	}
	request := tgbotapi.NewSetMyCommands(commands...)
	if _, err := b.api.Request(request); err != nil {
		b.logger.Printf("set commands error: %v", err)
	}
}

func (b *statusBot) handleMessage(ctx context.Context, message *tgbotapi.Message) {
	chatID := message.Chat.ID
	sessionID := fmt.Sprintf("tg:%d", chatID)

	if message.IsCommand() {
		switch message.Command() {
		case "start", "novo":
			session := chat.NewSession(sessionID)
			b.saveAndRender(ctx, chatID, session)
		case "ajuda":
			b.send(chatID, helpMessage(), nil)
		default:
			b.send(chatID, "Comando desconhecido. Use /novo ou /ajuda.", nil)
		}
		return
	}

	session, err := b.sessions.Get(ctx, sessionID)
	if err != nil {
		if !errors.Is(err, chat.ErrSessionNotFound) {
			b.logger.Printf("load session %s: %v", sessionID, err)
		}
		session = chat.NewSession(sessionID)
	}

	text := strings.TrimSpace(message.Text)
	switch session.State.Phase {
	case chat.PhaseAskType:
		searchType, ok := parseTypeInput(text)
		if !ok {
			b.send(chatID, "Escolha um tipo de pesquisa pelo teclado.", typeKeyboard())
			return
		}
		if err := b.machine.ChooseType(session, searchType); err != nil {
			b.send(chatID, domain.UserMessage(err), nil)
			return
		}
	case chat.PhaseAskValue:
		if err := b.machine.SubmitValue(ctx, session, text); err != nil {
			b.send(chatID, err.Error(), nil)
			return
		}
	case chat.PhaseChooseMatch:
		index, convErr := strconv.Atoi(text)
		if convErr != nil {
			b.send(chatID, "Responda com o número do resultado pretendido.", nil)
			return
		}
		if err := b.machine.ChooseMatch(ctx, session, index-1); err != nil {
			b.send(chatID, "Opção inválida. Responda com o número do resultado.", nil)
			return
		}
	default:
		b.send(chatID, "Pesquisa terminada. Use /novo para pesquisar outra vez.", nil)
		return
	}

	b.saveAndRender(ctx, chatID, session)
}

func (b *statusBot) saveAndRender(ctx context.Context, chatID int64, session *chat.Session) {
	if err := b.sessions.Save(ctx, session); err != nil {
		b.logger.Printf("save session %s: %v", session.ID, err)
	}
	text, keyboard := renderState(session.State)
	b.send(chatID, text, keyboard)
}

func (b *statusBot) send(chatID int64, text string, keyboard any) {
	message := tgbotapi.NewMessage(chatID, text)
	if keyboard != nil {
		message.ReplyMarkup = keyboard
	} else {
		message.ReplyMarkup = tgbotapi.NewRemoveKeyboard(false)
	}
	if _, err := b.api.Send(message); err != nil {
		b.logger.Printf("send error: %v", err)
	}
}

func renderState(state chat.State) (string, any) {
	switch state.Phase {
	case chat.PhaseAskType:
		return "O que quer pesquisar?", typeKeyboard()
	case chat.PhaseAskValue:
		return fmt.Sprintf("Indique o valor a pesquisar por %s.", searchTypeLabels[state.SearchType]), nil
	case chat.PhaseChooseMatch:
		var builder strings.Builder
		builder.WriteString("Resultados encontrados:\n")
		for i, match := range state.Matches {
			fmt.Fprintf(&builder, "%d. %s", i+1, match.Label)
			if match.Meta.Cliente != "" {
				fmt.Fprintf(&builder, " — %s", match.Meta.Cliente)
			}
			builder.WriteString("\n")
		}
		builder.WriteString("Responda com o número do resultado.")
		return builder.String(), nil
	case chat.PhaseShowStatus:
		return renderStatus(state.Status), nil
	case chat.PhaseError:
		return state.Message + "\nUse /novo para tentar outra pesquisa.", nil
	default:
		return "A pesquisar...", nil
	}
}

func renderStatus(status *domain.FOStatus) string {
	var builder strings.Builder
	fmt.Fprintf(&builder, "FO %s", status.FONumber)
	if status.Cliente != "" {
		fmt.Fprintf(&builder, " — %s", status.Cliente)
	}
	if status.Campanha != "" {
		fmt.Fprintf(&builder, " (%s)", status.Campanha)
	}
	builder.WriteString("\n")

	for _, item := range status.Items {
		fmt.Fprintf(&builder, "\n• %s", orUnknown(item.Descricao))
		if item.Quantidade > 0 {
			fmt.Fprintf(&builder, " × %d", item.Quantidade)
		}
		builder.WriteString("\n")
		fmt.Fprintf(&builder, "  Design: %s", item.Designer.Stage)
		if item.Designer.Designer != "" {
			fmt.Fprintf(&builder, " [%s]", item.Designer.Designer)
		}
		builder.WriteString("\n")

		if len(item.Logistics) == 0 {
			builder.WriteString("  Logística: sem envios registados\n")
			continue
		}
		for _, entry := range item.Logistics {
			fmt.Fprintf(&builder, "  Guia %s", orUnknown(entry.Guia))
			if entry.Transportadora != "" {
				fmt.Fprintf(&builder, " — %s", entry.Transportadora)
			}
			if entry.LocalEntrega != "" {
				fmt.Fprintf(&builder, " → %s", entry.LocalEntrega)
			}
			if entry.DataSaida != nil {
				fmt.Fprintf(&builder, " (saiu %s)", entry.DataSaida.Format("2006-01-02"))
			}
			builder.WriteString("\n")
		}
	}

	builder.WriteString("\nUse /novo para pesquisar outra FO.")
	return builder.String()
}

func typeKeyboard() any {
	return tgbotapi.NewReplyKeyboard(
		tgbotapi.NewKeyboardButtonRow(
			tgbotapi.NewKeyboardButton("FO"),
			tgbotapi.NewKeyboardButton("ORC"),
			tgbotapi.NewKeyboardButton("Cliente"),
		),
		tgbotapi.NewKeyboardButtonRow(
			tgbotapi.NewKeyboardButton("Campanha"),
			tgbotapi.NewKeyboardButton("Item"),
			tgbotapi.NewKeyboardButton("Guia"),
		),
	)
}

func parseTypeInput(text string) (domain.SearchType, bool) {
	return domain.ParseSearchType(text)
}

func orUnknown(value string) string {
	if strings.TrimSpace(value) == "" {
		return "(desconhecido)"
	}
	return value
}

func helpMessage() string {
	return strings.TrimSpace(`
Pesquise o estado de produção de uma Folha de Obra em três passos:
1. Escolha o tipo de pesquisa (FO, ORC, Cliente, Campanha, Item ou Guia).
2. Indique o texto a procurar.
3. Escolha o resultado para ver o status completo.

/novo - nova pesquisa
/ajuda - esta mensagem
`)
}

func setupStore(
	ctx context.Context,
	cfg config.Config,
	logger *log.Logger,
) (repository.StatusStore, func()) {
	if cfg.DatabaseURL == "" {
		logger.Printf("DATABASE_URL not configured, using in-memory status store")
		return repository.NewMemoryStatusStore(), func() {}
	}

	pgStore, err := repository.NewPostgresStatusStore(ctx, cfg.DatabaseURL)
	if err != nil {
		logger.Printf("failed to initialize postgres status store, fallback to memory: %v", err)
		return repository.NewMemoryStatusStore(), func() {}
	}
	logger.Printf("postgres status store initialized")
	return pgStore, func() {
		pgStore.Close()
	}
}

func setupSessions(
	ctx context.Context,
	cfg config.Config,
	logger *log.Logger,
) (chat.SessionStore, func()) {
	sessionTTL := time.Duration(cfg.SessionTTLSeconds) * time.Second

	if cfg.RedisAddr == "" {
		logger.Printf("REDIS_ADDR not configured, using in-memory session store")
		return chat.NewMemorySessionStore(sessionTTL), func() {}
	}

	redisStore, err := chat.NewRedisSessionStore(ctx, chat.RedisConfig{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
		TTL:      sessionTTL,
	})
	if err != nil {
		logger.Printf("failed to initialize redis session store, fallback to memory: %v", err)
		return chat.NewMemorySessionStore(sessionTTL), func() {}
	}
	logger.Printf("redis session store initialized")
	return redisStore, func() {
		_ = redisStore.Close()
	}
}
