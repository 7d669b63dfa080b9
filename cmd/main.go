package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/manan-abhishek/Raabta-ChatApp/config"
	chat_handler "github.com/manan-abhishek/Raabta-ChatApp/internal/handlers/chat-handler"
	hub_handler "github.com/manan-abhishek/Raabta-ChatApp/internal/handlers/hub-handler"
	notification_handler "github.com/manan-abhishek/Raabta-ChatApp/internal/handlers/notification-handler"
	socket_handler "github.com/manan-abhishek/Raabta-ChatApp/internal/handlers/socket-handler"
	user_handler "github.com/manan-abhishek/Raabta-ChatApp/internal/handlers/user-handler"
	"github.com/manan-abhishek/Raabta-ChatApp/internal/presence"
	"github.com/manan-abhishek/Raabta-ChatApp/internal/queue"
	"github.com/manan-abhishek/Raabta-ChatApp/internal/routers"
	message_service "github.com/manan-abhishek/Raabta-ChatApp/internal/use-case/message-case"
	notification_service "github.com/manan-abhishek/Raabta-ChatApp/internal/use-case/notification-case"
	room_service "github.com/manan-abhishek/Raabta-ChatApp/internal/use-case/room-case"
	user_service "github.com/manan-abhishek/Raabta-ChatApp/internal/use-case/user-case"
	"github.com/manan-abhishek/Raabta-ChatApp/internal/websocket"
	"github.com/manan-abhishek/Raabta-ChatApp/internal/worker"
	worker_handler "github.com/manan-abhishek/Raabta-ChatApp/internal/worker/worker-handler"
	"github.com/manan-abhishek/Raabta-ChatApp/state"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// initialize the application
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})

	err := config.LoadConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}

	appState, err := state.InitAppState(ctx, stop)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize application state")
	}
	defer appState.Close()

	wsHub := websocket.NewHub()
	defer wsHub.Close()
	log.Info().Msg("Websocket hub initialized")

	producer := queue.NewProducer(appState.Redis)
	tracker := presence.NewTracker()

	// services are single instances on purpose: room and message locking
	// state must be shared by the HTTP and socket paths
	userSvc := user_service.NewUserService(appState)
	roomSvc := room_service.NewRoomService(appState)
	notifSvc := notification_service.NewNotificationService(appState)
	messageSvc := message_service.NewMessageService(appState, socket_handler.NewHubBroadcaster(wsHub), producer)

	socketHandler := socket_handler.NewSocketHandler(wsHub, tracker, userSvc, roomSvc, messageSvc)
	wsHub.SetEventHandler(socketHandler)

	authFunc := websocket.JWTWebSocketAuth(appState.JwtSecret.Public, appState.Redis)
	wsHandler := websocket.NewWebSocketHandler(wsHub, authFunc)

	log.Info().Msg("Websocket handler initialized")

	r := routers.NewRouter(appState, routers.Handlers{
		User:         user_handler.NewUserHandler(userSvc),
		Chat:         chat_handler.NewChatHandler(roomSvc, messageSvc),
		Notification: notification_handler.NewNotificationHandler(notifSvc),
		Hub:          hub_handler.NewHubHandler(wsHub),
		WS:           wsHandler,
	})

	workerPool := worker.NewWorkerPool(appState.Redis, config.Conf.WORKER.Num, worker_handler.NewWorkerHandler(wsHub, notifSvc))
	workerPool.Start(ctx)

	server := &http.Server{
		Addr:         config.Conf.App.Port,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
	}

	// serve the application
	go func() {
		log.Info().Msgf("Starting server on http://localhost%s", config.Conf.App.Port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			panic(fmt.Sprintf("ListenAndServe failed: %v", err))
		}
	}()

	<-ctx.Done()
	log.Info().Msg("Shutdown initiated...")
	// gracefully shutdown the application
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		fmt.Printf("Graceful shutdown failed: %v\n", err)
	} else {
		fmt.Println("Server exited gracefully.")
	}
	workerPool.Wait()
}
