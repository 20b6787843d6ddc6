package app

import (
	"bufio"
	"context"
	"os"

	"github.com/Astemirdum/library-catalog/catalog/config"
	"github.com/Astemirdum/library-catalog/catalog/internal/form"
	"github.com/Astemirdum/library-catalog/catalog/internal/handler"
	"github.com/Astemirdum/library-catalog/catalog/internal/service/api"
	"github.com/Astemirdum/library-catalog/catalog/internal/service/auth"
	"github.com/Astemirdum/library-catalog/catalog/internal/service/book"
	"github.com/Astemirdum/library-catalog/catalog/internal/service/borrow"
	"github.com/Astemirdum/library-catalog/catalog/internal/service/category"
	"github.com/Astemirdum/library-catalog/catalog/internal/service/favorite"
	"github.com/Astemirdum/library-catalog/catalog/internal/service/user"
	"github.com/Astemirdum/library-catalog/catalog/internal/session"
	"github.com/Astemirdum/library-catalog/catalog/internal/view"
	"github.com/Astemirdum/library-catalog/pkg/kafka"
	"github.com/Astemirdum/library-catalog/pkg/logger"
	"github.com/Astemirdum/library-catalog/pkg/validate"
	"github.com/IBM/sarama"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

// App is everything one CLI process needs. It is built lazily by the root
// command once flags are parsed, and shared by every command the shell runs.
type App struct {
	cfg      config.Config
	log      *zap.Logger
	sess     *session.Session
	h        *handler.Handler
	producer sarama.SyncProducer
	closeLog func()

	out         *view.Renderer
	in          *bufio.Reader
	interactive bool
}

func newApp() *App {
	return &App{
		out: view.New(os.Stdout),
		in:  bufio.NewReader(os.Stdin),
	}
}

func (a *App) ready() bool {
	return a.h != nil
}

func (a *App) init(ctx context.Context, cfg config.Config) error {
	log, closeLog, err := logger.NewLogger(cfg.Log, "catalog")
	if err != nil {
		return err
	}
	a.closeLog = closeLog

	var store session.Store = session.NewMemoryStore()
	if cfg.Session.Path != "" {
		s, err := session.NewSQLiteStore(ctx, cfg.Session.Path, log)
		if err != nil {
			return err
		}
		store = s
	}
	sess, err := session.Open(ctx, store)
	if err != nil {
		_ = store.Close()
		return err
	}

	client, err := api.NewClient(log, cfg.API, sess)
	if err != nil {
		_ = sess.Close()
		return errors.Wrap(err, "api client")
	}

	policy, err := form.ParsePasswordPolicy(cfg.Form.PasswordPolicy)
	if err != nil {
		_ = sess.Close()
		return err
	}

	var producer sarama.SyncProducer
	if cfg.Kafka.Enabled() {
		producer, err = kafka.NewProducer(cfg.Kafka)
		if err != nil {
			// activity events are optional; the catalog works without them
			log.Warn("kafka producer", zap.Strings("addrs", cfg.Kafka.Addrs), zap.Error(err))
			producer = nil
		}
	}

	h := handler.New(log, sess, handler.Services{
		Auth:     auth.NewService(log, client),
		Book:     book.NewService(log, client),
		Category: category.NewService(log, client),
		Borrow:   borrow.NewService(log, client),
		Favorite: favorite.NewService(log, client),
		User:     user.NewService(log, client),
	},
		form.New(validate.NewCustomValidator(), policy),
		handler.NewEnqueuer(producer),
		cfg.Kafka.ActivityTopic(),
	)

	a.cfg, a.log, a.sess, a.h, a.producer = cfg, log, sess, h, producer
	log.Debug("catalog ready",
		zap.String("api", cfg.API.BaseURL),
		zap.String("auth", string(cfg.API.AuthMode)),
		zap.Bool("kafka", producer != nil))
	return nil
}

// flush persists the session after a command.
func (a *App) flush(ctx context.Context) {
	if !a.ready() {
		return
	}
	if err := a.sess.Flush(ctx); err != nil {
		a.log.Warn("session flush", zap.Error(err))
	}
}

func (a *App) Close() {
	if a.ready() {
		if a.producer != nil {
			if err := a.producer.Close(); err != nil {
				a.log.Warn("kafka producer close", zap.Error(err))
			}
		}
		if err := a.sess.Close(); err != nil {
			a.log.Warn("session close", zap.Error(err))
		}
	}
	// the sink opens first, so it may be live even when init failed
	if a.closeLog != nil {
		a.closeLog()
	}
}

// Execute runs the command line and returns the process exit code.
func Execute(ctx context.Context, args []string) int {
	a := newApp()
	defer a.Close()

	root := a.rootCommand()
	root.SetArgs(args)
	if err := root.ExecuteContext(ctx); err != nil {
		a.out.Error(err)
		return 1
	}
	return 0
}
