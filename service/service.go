package service

import (
	"context"
	"fmt"

	"github.com/ThreeDotsLabs/watermill/components/forwarder"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"eventmanager/booking"
	"eventmanager/db"
	"eventmanager/db/bookings"
	"eventmanager/db/events"
	"eventmanager/db/users"
	"eventmanager/http"
	"eventmanager/pkg/log"
	"eventmanager/pubsub"
	"eventmanager/pubsub/bus"
	"eventmanager/pubsub/event"
	"eventmanager/pubsub/outbox"
)

func init() {
	log.Init(logrus.InfoLevel)
}

type Service struct {
	db              *sqlx.DB
	watermillRouter *message.Router
	forwarder       *forwarder.Forwarder
	httpServer      *http.Server
}

func New(
	addr string,
	db *sqlx.DB,
	redisClient *redis.Client,
	notificationsService event.NotificationsService,
	paymentsService http.PaymentsService,
) Service {
	eventsRepo := events.NewPostgresRepository(db)
	bookingsRepo := bookings.NewPostgresRepository(db)
	usersRepo := users.NewPostgresRepository(db)

	watermillLogger := log.NewWatermill(log.FromContext(context.Background()))

	var redisPublisher message.Publisher
	redisPublisher = pubsub.NewRedisPublisher(redisClient, watermillLogger)
	redisPublisher = log.CorrelationPublisherDecorator{Publisher: redisPublisher}

	eventBus, err := bus.NewEventBus(redisPublisher)
	if err != nil {
		panic(fmt.Errorf("failed to create event bus: %w", err))
	}

	bookingService := booking.NewService(
		eventsRepo,
		eventsRepo,
		bookingsRepo,
		usersRepo,
		eventBus,
	)

	eventsHandler := event.NewHandler(notificationsService)
	eventProcessorConfig := event.NewProcessorConfig(redisClient, watermillLogger)

	postgresSubscriber, err := outbox.NewPostgresSubscriber(db, watermillLogger)
	if err != nil {
		panic(fmt.Errorf("failed to create outbox subscriber: %w", err))
	}

	messageForwarder, err := outbox.NewForwarder(postgresSubscriber, redisPublisher, watermillLogger)
	if err != nil {
		panic(fmt.Errorf("failed to create outbox forwarder: %w", err))
	}

	watermillRouter, err := pubsub.NewWatermillRouter(
		eventProcessorConfig,
		eventsHandler,
		watermillLogger,
	)
	if err != nil {
		panic(fmt.Errorf("failed to create watermill router: %w", err))
	}

	httpServer := http.NewServer(
		addr,
		bookingService,
		eventsRepo,
		usersRepo,
		paymentsService,
	)

	return Service{
		db:              db,
		watermillRouter: watermillRouter,
		forwarder:       messageForwarder,
		httpServer:      httpServer,
	}
}

func (s Service) Run(ctx context.Context) error {
	if err := db.InitializeDatabaseSchema(s.db); err != nil {
		return fmt.Errorf("failed to initialize database schema: %w", err)
	}

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return s.watermillRouter.Run(ctx)
	})

	g.Go(func() error {
		return s.forwarder.Run(ctx)
	})

	g.Go(func() error {
		// the HTTP server should not report healthy before the router is
		// consuming
		<-s.watermillRouter.Running()

		return s.httpServer.Run(ctx)
	})

	return g.Wait()
}
