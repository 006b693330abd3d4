package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/getsentry/sentry-go"
	"github.com/spf13/viper"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/bitmark-inc/triage-api/background"
	"github.com/bitmark-inc/triage-api/background/notify"
	"github.com/bitmark-inc/triage-api/external/cadence"
	"github.com/bitmark-inc/triage-api/external/sms"
	"github.com/bitmark-inc/triage-api/store"
	"github.com/bitmark-inc/triage-api/utils"
)

var logger *zap.Logger

func init() {
	logger = buildLogger()
}

func buildLogger() *zap.Logger {
	config := zap.NewDevelopmentConfig()
	config.Level.SetLevel(zapcore.InfoLevel)

	logger, err := config.Build()
	if err != nil {
		panic("Failed to setup logger")
	}

	return logger
}

func initSentry() {
	logger.Info("Initializing sentry")
	if err := sentry.Init(sentry.ClientOptions{
		Dsn:              viper.GetString("sentry.dsn"),
		AttachStacktrace: true,
		Environment:      viper.GetString("sentry.environment"),
		Dist:             viper.GetString("sentry.dist"),
	}); err != nil {
		logger.Panic("fail to initialize sentry", zap.Error(err))
	}
}

func loadConfig(file string) {
	// Config from file
	viper.SetConfigType("yaml")
	if file != "" {
		viper.SetConfigFile(file)
	}

	viper.AddConfigPath("/.config/")
	viper.AddConfigPath(".")
	err := viper.ReadInConfig()
	if err != nil {
		fmt.Println("No config file. Read config from env.")
		viper.AllowEmptyEnv(false)
	}

	viper.SetDefault("sms.lang", "en")

	// Config from env if possible
	viper.AutomaticEnv()
	viper.SetEnvPrefix("triage")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
}

func main() {
	var configFile string
	flag.StringVar(&configFile, "c", "./config.yaml", "[optional] path of configuration file")
	flag.Parse()

	loadConfig(configFile)
	initSentry()

	if err := utils.InitI18NBundle(viper.GetString("i18n.dir"), background.Messages()); err != nil {
		logger.Panic("load translations with error", zap.Error(err))
	}

	opts := options.Client().ApplyURI(viper.GetString("mongo.conn"))
	opts.SetMaxPoolSize(viper.GetUint64("mongo.pool"))
	mongoClient, err := mongo.NewClient(opts)
	if nil != err {
		logger.Panic("create mongo client with error", zap.Error(err))
	}

	err = mongoClient.Connect(context.Background())
	if nil != err {
		logger.Panic("connect mongo database with error", zap.Error(err))
	}

	mongoStore := store.NewMongoStore(mongoClient, viper.GetString("mongo.database"))
	defer mongoStore.Close()

	sender := sms.New(viper.GetString("sms.token"), viper.GetString("sms.sender"), viper.GetString("sms.url"))

	worker := notify.NewNotifyWorker(viper.GetString("cadence.domain"), viper.GetString("sms.lang"), sender, mongoStore)
	worker.Register()
	w, err := worker.Start(cadence.BuildCadenceServiceClient(viper.GetString("cadence.conn")), logger)
	if err != nil {
		logger.Panic("Failed to start worker", zap.Error(err))
	}

	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)
	<-c

	logger.Info("Stopping worker")
	w.Stop()
}
