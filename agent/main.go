package main

import (
	"context"
	"database/sql"
	"errors"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/joho/godotenv"
	_ "github.com/mattn/go-sqlite3"
	"github.com/tmc/langchaingo/llms/ollama"
	"github.com/tmc/langchaingo/memory/sqlite3"
	"golang.org/x/sync/errgroup"

	"github.com/avives/mall-dining-rag/config"
	"github.com/avives/mall-dining-rag/embed"
	"github.com/avives/mall-dining-rag/loader"
	"github.com/avives/mall-dining-rag/search"
	"github.com/avives/mall-dining-rag/store"
	"github.com/avives/mall-dining-rag/tools"
)

type Agent struct {
	config   *config.Config
	chat     *Chat
	upgrader websocket.Upgrader
}

type WebSocketsMessage struct {
	Type string      `json:"type"`
	Data interface{} `json:"data"`
}

func main() {
	_ = godotenv.Load()
	cfg := config.LoadConfig()

	loc, err := time.LoadLocation(cfg.Mall.Timezone)
	if err != nil {
		log.Fatal(err)
	}

	db, err := store.NewPg(cfg.Postgres.ConnStr())
	if err != nil {
		log.Fatal(err)
	}

	embedder, err := embed.NewOllama(cfg.Ollama.Address(), cfg.Ollama.EmbeddingModel)
	if err != nil {
		log.Fatal(err)
	}

	chatLLM, err := ollama.New(
		ollama.WithServerURL(cfg.Ollama.Address()),
		ollama.WithModel(cfg.Ollama.ChatModel),
	)
	if err != nil {
		log.Fatal(err)
	}

	sqliteDb, err := sql.Open("sqlite3", "chat_history.db")
	if err != nil {
		log.Fatal(err)
	}
	chatHistory := sqlite3.NewSqliteChatMessageHistory(
		sqlite3.WithSession("mall-dining-agent"),
		sqlite3.WithDB(sqliteDb),
	)

	searcher := search.New(
		store.NewRestaurantStore(db, embedder),
		store.NewDishStore(db, embedder),
		loader.New(time.Duration(cfg.Sheets.FetchTimeout)*time.Second),
		loc,
	)

	// One index pass at startup; skipped when the collections are already
	// populated. Operators run cmd/reindex to pick up source changes.
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := searcher.LoadAndIndex(ctx, search.LoadOptions{
		WorkbookID: cfg.Sheets.WorkbookID,
		TopNDishes: cfg.Index.TopNDishes,
	}); err != nil {
		log.Fatal(err)
	}

	agent := &Agent{
		config: cfg,
		chat: NewChat(chatLLM, tools.NewToolkit(searcher), chatHistory, func() string {
			return SystemPrompt(time.Now().In(loc))
		}),
		upgrader: websocket.Upgrader{},
	}

	if err := agent.Run(ctx); err != nil {
		log.Fatalf("failed to run the agent: %v", err)
	}
}

func (a *Agent) Run(ctx context.Context) error {
	r := gin.Default()

	r.StaticFile("/", "web/index.html")

	r.GET("/chat", func(ctx *gin.Context) {
		c, err := a.upgrader.Upgrade(ctx.Writer, ctx.Request, nil)
		if err != nil {
			log.Println("upgrade:", err)
			return
		}
		defer c.Close()

		if err := c.WriteJSON(WebSocketsMessage{Type: "chat", Data: WelcomeMessage}); err != nil {
			slog.Error("failed to write to ws connection", "error", err)
			return
		}

		for {
			_, message, err := c.ReadMessage()
			if err != nil {
				return
			}

			answer, err := a.chat.Turn(ctx.Request.Context(), string(message), func(chunk []byte) error {
				return c.WriteJSON(WebSocketsMessage{Type: "chunk", Data: string(chunk)})
			})
			if err != nil {
				slog.Error("chat turn failed", "error", err)
				if err := c.WriteJSON(WebSocketsMessage{Type: "error", Data: "something went wrong"}); err != nil {
					return
				}
				continue
			}

			if err := c.WriteJSON(WebSocketsMessage{Type: "chat", Data: answer}); err != nil {
				slog.Error("failed to write to ws connection", "error", err)
				return
			}
		}
	})

	srv := &http.Server{
		Addr:    a.config.Server.Address(),
		Handler: r,
	}

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	group, ctx := errgroup.WithContext(ctx)

	group.Go(func() error {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	group.Go(func() error {
		select {
		case <-shutdown:
			slog.Info("shutting down")
		case <-ctx.Done():
		}

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		return srv.Shutdown(shutdownCtx)
	})

	return group.Wait()
}
