package main

import (
	"context"
	"flag"
	"log/syslog"
	"os"
	"os/signal"
	"strconv"
	"time"

	"github.com/chatterhq/chatter"
	"github.com/chatterhq/chatter/cache"
	"github.com/chatterhq/chatter/persistent"
	"github.com/chatterhq/chatter/transport/rest"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/monitor"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	logrusys "github.com/sirupsen/logrus/hooks/syslog"
	"github.com/tidwall/buntdb"
	"github.com/uptrace/bun"
	_ "github.com/uptrace/bun/driver/pgdriver"
	"github.com/uptrace/bun/extra/bundebug"
)

const defaultMatchThreshold = 0.5

func listenAndServe(
	ctx context.Context,
	bdb *buntdb.DB,
	db *bun.DB,
	matcher chatter.UserMatcher,
	debug bool,
) func() error {
	profileStore := &persistent.ProfileStore{DB: db}
	postStore := &persistent.PostStore{DB: db}
	sessionStore := &persistent.SessionStore{Buntdb: bdb}
	sessionStore.CreateIndexes()

	feedBuilder, err := chatter.NewFeedBuilder(postStore, profileStore, matcher,
		func(chatter.Post) bool { return true })
	if err != nil {
		logrus.WithError(err).Fatalln("Could not create feed builder.")
	}

	var feedCache rest.FeedCache
	if addr := os.Getenv("MEMCACHED_ADDR"); addr != "" {
		logrus.WithField("addr", addr).Infoln("Feed cache enabled.")
		feedCache = cache.NewMemcached(addr)
	}

	authController := rest.AuthController{
		ProfileStore: profileStore,
		SessionStore: sessionStore,
	}
	profileController := rest.ProfileController{Store: profileStore}
	postController := rest.PostController{Store: postStore}
	feedController := rest.FeedController{Feed: feedBuilder, Cache: feedCache}

	server := fiber.New()
	server.Use(rest.LogHandler())

	api := fiber.New(fiber.Config{
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		ErrorHandler: rest.ErrorHandler,
	})

	if allowOrigins := os.Getenv("CORS_ALLOW_ORIGINS"); allowOrigins != "" {
		api.Use(cors.New(cors.Config{AllowOrigins: allowOrigins}))
	}

	requestAuthorizer := rest.RequestAuthorizer(sessionStore, profileStore)
	api.Get("/status", monitor.New())
	authController.InstallTo(api)
	profileController.InstallTo(requestAuthorizer, api)
	postController.InstallTo(requestAuthorizer, api)
	feedController.InstallTo(requestAuthorizer, api)

	server.Mount("/api/", api)
	server.Use(rest.NotFoundHandler)

	addr := os.Getenv("LISTEN_ADDR")
	if addr == "" {
		if debug {
			addr = "127.0.0.1:2137"
		} else {
			addr = ":2137"
		}
	}
	go server.Listen(addr)

	return func() error {
		return server.Shutdown()
	}
}

func setupLogger(verbose bool) {
	logrus.SetFormatter(&logrus.TextFormatter{
		TimestampFormat: time.Stamp,
		FullTimestamp:   true,
	})
	if verbose {
		logrus.SetLevel(logrus.DebugLevel)
	}

	syslogHook, err := logrusys.NewSyslogHook("", "", syslog.LOG_USER, "chatter_backend")
	if err != nil {
		logrus.WithError(err).Warningln("Could not create syslog hook.")
		return
	}
	logrus.AddHook(syslogHook)
}

func matcherFromEnv() chatter.UserMatcher {
	threshold := defaultMatchThreshold
	if raw := os.Getenv("MATCH_THRESHOLD"); raw != "" {
		parsed, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			logrus.WithError(err).Fatalln("Invalid MATCH_THRESHOLD.")
		}
		threshold = parsed
	}
	matcher, err := chatter.NewPercentMatcher(threshold)
	if err != nil {
		logrus.WithError(err).Fatalln("Invalid match threshold.")
	}
	return matcher
}

func awaitInterruption() {
	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt)
	<-c
}

func main() {
	flag.Parse()
	_ = godotenv.Load()
	debug := os.Getenv("DEBUG") == "true"
	setupLogger(debug)
	logrus.Infoln("Starting chatter backend.")

	pgDsn := os.Getenv("POSTGRES_DSN")
	if pgDsn == "" {
		logrus.Fatalln("Environment variable POSTGRES_DSN is not set!")
	}

	buntPath := os.Getenv("BUNTDB_PATH")
	if buntPath == "" {
		buntPath = "kv.db"
	}
	bdb, err := buntdb.Open(buntPath)
	if err != nil {
		logrus.WithError(err).Fatalln("Could not open buntdb.")
	}
	defer bdb.Close()

	logrus.Infoln("Opening database.")
	ctx := context.Background()
	pg := persistent.PgOpen(ctx, pgDsn)
	if debug {
		pg.AddQueryHook(bundebug.NewQueryHook(bundebug.WithVerbose(true)))
	}
	defer pg.Close()

	if err := persistent.CreateSchema(ctx, pg); err != nil {
		logrus.WithError(err).Fatalln("Could not create db schema.")
	}

	logrus.Infoln("Starting listening... To shut down use ^C")
	shutdown := listenAndServe(ctx, bdb, pg, matcherFromEnv(), debug)

	awaitInterruption()

	logrus.Infoln("Shutting down...")
	err = shutdown()
	if err != nil {
		logrus.WithError(err).Warningln("Fiber shutdown failed.")
	}
	logrus.Exit(0)
}
