package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"github.com/uptrace/opentelemetry-go-extra/otelsql"
	semconv "go.opentelemetry.io/otel/semconv/v1.21.0"

	"eventmanager/gateway"
	"eventmanager/pkg/log"
	"eventmanager/service"
	"eventmanager/tracing"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	log.Init(logrus.InfoLevel)

	tp := tracing.ConfigureTraceProvider(os.Getenv("JAEGER_ENDPOINT"))
	defer func() {
		if err := tp.Shutdown(context.Background()); err != nil {
			logrus.WithError(err).Error("failed to shutdown trace provider")
		}
	}()

	dbConn, err := otelsql.Open("postgres", os.Getenv("POSTGRES_URL"),
		otelsql.WithAttributes(semconv.DBSystemPostgreSQL),
	)
	if err != nil {
		panic(err)
	}
	db := sqlx.NewDb(dbConn, "postgres")
	defer db.Close()

	redisClient := redis.NewClient(&redis.Options{
		Addr: os.Getenv("REDIS_ADDR"),
	})
	defer redisClient.Close()

	paymentsClient := gateway.NewPaymentsClient(
		os.Getenv("PAYMENTS_ADDR"),
		os.Getenv("PAYMENTS_KEY_ID"),
		os.Getenv("PAYMENTS_KEY_SECRET"),
	)
	notificationsClient := gateway.NewNotificationsClient(os.Getenv("NOTIFICATIONS_ADDR"))

	svc := service.New(
		":8080",
		db,
		redisClient,
		notificationsClient,
		paymentsClient,
	)

	if err := svc.Run(ctx); err != nil {
		panic(err)
	}
}
