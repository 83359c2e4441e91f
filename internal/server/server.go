package server

import (
	"context"
	"errors"
	"net"
	"net/http"
	"os"
	"os/signal"
	"time"

	"github.com/emrgen/book/internal/cache"
	"github.com/emrgen/book/internal/config"
	"github.com/emrgen/book/internal/job"
	"github.com/emrgen/book/internal/jobs"
	"github.com/emrgen/book/internal/queue"
	"github.com/emrgen/book/internal/service"
	"github.com/emrgen/book/internal/store"
	_ "github.com/joho/godotenv/autoload"
	"github.com/rs/cors"
	"github.com/sirupsen/logrus"
	"golang.org/x/sys/unix"
)

const pendingChapterGrace = 24 * time.Hour

// Server represents the http server
type Server struct {
	httpPort string
}

// NewServer creates a new server
func NewServer(httpPort string) *Server {
	return &Server{
		httpPort: httpPort,
	}
}

// Start starts the server
func (s *Server) Start() {
	if err := Start(s.httpPort); err != nil {
		logrus.Fatalf("error starting server: %v", err)
	}
}

// Start starts the http server
func Start(httpPort string) error {
	httpPort = ":" + httpPort

	cnf := config.LoadConfig()
	db := config.GetDb(cnf)

	listener, err := net.Listen("tcp", httpPort)
	if err != nil {
		return err
	}

	bookStore := store.NewGormStore(db)
	if err := bookStore.Migrate(); err != nil {
		return err
	}

	var kv cache.KV
	if cnf.RedisAddr != "" {
		kv = cache.NewRedis(cnf.RedisAddr)
	} else {
		kv = cache.NewMemory()
	}

	var events queue.Publisher
	if cnf.KafkaBrokers != "" {
		events, err = queue.NewKafka(cnf.KafkaBrokers)
		if err != nil {
			return err
		}
	} else {
		events = queue.NewNop()
	}
	defer events.Close()

	publisher, err := service.NewPublisher(bookStore, kv, cnf.PublishCodec)
	if err != nil {
		return err
	}

	handler := NewHandler(
		service.NewNavigator(bookStore),
		service.NewMutator(bookStore, events),
		service.NewNoteService(bookStore),
		publisher,
	)

	router := newRouter(handler)

	httpServer := &http.Server{
		Handler: cors.New(cors.Options{
			AllowedOrigins: []string{"*"},
			AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodPatch, http.MethodDelete},
			AllowedHeaders: []string{"*"},
		}).Handler(router),
	}

	runner := jobs.NewRunner(
		job.NewOrphanSweeper(bookStore, false),
		job.NewPendingChapterReaper(bookStore, pendingChapterGrace),
	)
	runner.Start()
	defer runner.Stop()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, unix.SIGINT, unix.SIGTERM)

	serveErr := make(chan error, 1)
	go func() {
		logrus.Infof("http server listening on %s", httpPort)
		serveErr <- httpServer.Serve(listener)
	}()

	select {
	case err := <-serveErr:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-sig:
		logrus.Infof("shutting down")
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return httpServer.Shutdown(ctx)
	}
}
