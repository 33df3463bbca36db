package main

import (
	"context"
	"database/sql"
	"errors"
	"io"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/alexflint/go-arg"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	"golang.org/x/sync/errgroup"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/Vovarama1992/marvel-chat-bot/internal/browse"
	"github.com/Vovarama1992/marvel-chat-bot/internal/catalog"
	"github.com/Vovarama1992/marvel-chat-bot/internal/config"
	"github.com/Vovarama1992/marvel-chat-bot/internal/journal"
	"github.com/Vovarama1992/marvel-chat-bot/internal/session"
	"github.com/Vovarama1992/marvel-chat-bot/internal/telegram"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load(os.Args[1:])
	if errors.Is(err, arg.ErrHelp) {
		return
	}
	if err != nil {
		log.Fatalf("config error: %v", err)
	}

	// --- Logs ---
	var out io.Writer = os.Stderr
	if cfg.LogFile != "" {
		rotated := &lumberjack.Logger{
			Filename:   cfg.LogFile,
			MaxSize:    20,
			MaxBackups: 5,
			MaxAge:     14,
		}
		defer rotated.Close()
		out = io.MultiWriter(os.Stderr, rotated)
	}
	log.SetOutput(out)
	botLog := log.New(out, "[tgbotapi] ", log.LstdFlags)
	_ = tgbotapi.SetLogger(botLog)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// --- DB (optional) ---
	var queries journal.Journal = journal.Nop{}
	var db *sql.DB
	if cfg.DatabaseURL != "" {
		db, err = sql.Open("postgres", cfg.DatabaseURL)
		if err != nil {
			log.Fatalf("db open error: %v", err)
		}
		defer db.Close()

		pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		err = db.PingContext(pingCtx)
		if err == nil {
			err = journal.EnsureSchema(pingCtx, db)
		}
		cancel()
		if err != nil {
			log.Fatalf("db init error: %v", err)
		}
		queries = journal.NewRepo(db)
	} else {
		log.Printf("DATABASE_URL is not set, query journal disabled")
	}

	// --- Catalog ---
	marvel := catalog.NewMarvelClient(cfg.MarvelBaseURL, cfg.MarvelPublicKey, cfg.MarvelPrivateKey, cfg.HTTPTimeout)
	defer marvel.Close()

	// --- Sessions ---
	store := session.NewMemoryStore()
	sweeper, err := session.NewSweeper(store, cfg.SessionTTL, cfg.SessionSweep)
	if err != nil {
		log.Fatalf("session sweeper error: %v", err)
	}

	svc := browse.NewService(store, browse.NewPager(marvel, cfg.PageSize), queries)

	// --- Telegram ---
	bot, err := tgbotapi.NewBotAPI(cfg.BotToken)
	if err != nil {
		log.Fatalf("telegram bot error: %v", err)
	}
	log.Printf("authorized as @%s", bot.Self.UserName)

	dispatcher := telegram.NewDispatcher(svc, telegram.NewOutbound(bot))

	// --- Router ---
	r := chi.NewRouter()
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type"},
	}))

	switch {
	case db != nil && cfg.JournalToken != "":
		journal.RegisterRoutes(r, journal.NewHandler(queries, cfg.JournalToken))
	case db != nil:
		log.Printf("JOURNAL_TOKEN is not set, journal read route disabled")
	}

	g, ctx := errgroup.WithContext(ctx)

	if cfg.Webhook() {
		telegram.RegisterRoutes(r, telegram.NewHandler(dispatcher, cfg.WebhookSecret))

		wh, err := tgbotapi.NewWebhook(strings.TrimRight(cfg.PublicURL, "/") + telegram.WebhookPath + cfg.WebhookSecret)
		if err != nil {
			log.Fatalf("webhook url error: %v", err)
		}
		if _, err := bot.Request(wh); err != nil {
			log.Fatalf("set webhook error: %v", err)
		}
		log.Printf("webhook registered under %s", cfg.PublicURL)
	} else {
		if _, err := bot.Request(tgbotapi.DeleteWebhookConfig{}); err != nil {
			log.Printf("delete webhook error: %v", err)
		}
		g.Go(func() error {
			return telegram.NewPoller(bot, dispatcher).Run(ctx)
		})
	}

	// --- health ---
	r.Get("/ping", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("pong"))
	})

	srv := &http.Server{Addr: ":" + strconv.Itoa(cfg.Port), Handler: r}

	g.Go(func() error {
		log.Printf("listening on :%d", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})
	g.Go(func() error {
		return sweeper.Run(ctx)
	})

	if err := g.Wait(); err != nil {
		log.Fatalf("server error: %v", err)
	}
	log.Printf("stopped")
}
