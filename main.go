package main

import (
	"context"
	"flag"
	"fmt"
	"io/ioutil"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/dgrijalva/jwt-go"
	"github.com/getsentry/sentry-go"
	"github.com/jinzhu/gorm"
	_ "github.com/jinzhu/gorm/dialects/postgres"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/viper"
	prefixed "github.com/x-cray/logrus-prefixed-formatter"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"googlemaps.github.io/maps"

	"github.com/bitmark-inc/triage-api/api"
	"github.com/bitmark-inc/triage-api/background"
	"github.com/bitmark-inc/triage-api/external/cadence"
	"github.com/bitmark-inc/triage-api/geo"
	"github.com/bitmark-inc/triage-api/risk"
	"github.com/bitmark-inc/triage-api/schema"
	"github.com/bitmark-inc/triage-api/session"
	"github.com/bitmark-inc/triage-api/store"
	"github.com/bitmark-inc/triage-api/triage"
	"github.com/bitmark-inc/triage-api/utils"
)

var (
	server   *api.Server
	registry *triage.Registry
	ormDB    *gorm.DB
	alerts   store.AlertStore
)

func initLog() {
	logLevel, err := log.ParseLevel(viper.GetString("log.level"))
	if err != nil {
		log.SetLevel(log.DebugLevel)
	} else {
		log.SetLevel(logLevel)
	}

	log.SetOutput(os.Stdout)

	log.SetFormatter(&prefixed.TextFormatter{
		ForceFormatting: true,
		FullTimestamp:   true,
	})
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

	// Config from env if possible
	viper.AutomaticEnv()
	viper.SetEnvPrefix("triage")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	viper.SetDefault("server.port", "8080")
	viper.SetDefault("store.driver", "memory")
	viper.SetDefault("mongo.database", "triage")
	viper.SetDefault("jwt.expire", 24)
	viper.SetDefault("workers.default_password", "changeme")
	viper.SetDefault("triage.advance_delay", triage.DefaultOptions.AdvanceDelay)
	viper.SetDefault("triage.input_advance_delay", triage.DefaultOptions.InputAdvanceDelay)
	viper.SetDefault("triage.location_grace", triage.DefaultOptions.LocationGrace)
	viper.SetDefault("triage.inactivity_timeout", triage.DefaultOptions.InactivityTimeout)
	viper.SetDefault("triage.session_ttl", 30*time.Minute)
	viper.SetDefault("triage.sweep_interval", time.Minute)
	viper.SetDefault("triage.classifier_timeout", 10*time.Second)
	viper.SetDefault("cadence.domain", "triage")
}

// initWorkerStore returns the postgres backed worker accounts, or the demo
// workers kept in memory when no database is configured
func initWorkerStore() (store.WorkerStore, error) {
	if conn := viper.GetString("orm.conn"); conn != "" {
		db, err := gorm.Open("postgres", conn)
		if err != nil {
			return nil, err
		}
		ormDB = db
		return store.NewORMWorkerStore(db), nil
	}

	hash, err := session.HashPassword(viper.GetString("workers.default_password"))
	if err != nil {
		return nil, err
	}

	seeds := make([]schema.WorkerAccount, 0, len(store.DemoWorkers))
	for _, w := range store.DemoWorkers {
		w.PasswordHash = hash
		seeds = append(seeds, w)
	}
	log.WithField("prefix", "init").Warn("no worker database configured, using demo workers")
	return store.NewMemoryWorkerStore(seeds...), nil
}

func initAlertStore(ctx context.Context) (store.AlertStore, error) {
	switch driver := viper.GetString("store.driver"); driver {
	case "memory":
		return store.NewMemoryAlertStore(), nil
	case "mongo":
		opts := options.Client().ApplyURI(viper.GetString("mongo.conn"))
		opts.SetMaxPoolSize(viper.GetUint64("mongo.pool"))
		mongoClient, err := mongo.NewClient(opts)
		if nil != err {
			return nil, fmt.Errorf("create mongo client with error: %s", err)
		}

		if err := mongoClient.Connect(ctx); nil != err {
			return nil, fmt.Errorf("connect mongo database with error: %s", err)
		}

		return store.NewMongoStore(mongoClient, viper.GetString("mongo.database")), nil
	default:
		return nil, fmt.Errorf("unknown store driver %q", driver)
	}
}

func initAuthenticator(workers store.WorkerStore) (*session.Authenticator, error) {
	expire := time.Duration(viper.GetInt("jwt.expire")) * time.Hour

	if keyfile := viper.GetString("jwt.keyfile"); keyfile != "" {
		jwtSecretByte, err := ioutil.ReadFile(keyfile)
		if err != nil {
			return nil, err
		}
		jwtPrivateKey, err := jwt.ParseRSAPrivateKeyFromPEMWithPassword(jwtSecretByte, viper.GetString("jwt.password"))
		if err != nil {
			return nil, err
		}
		return session.NewRSAAuthenticator(workers, jwtPrivateKey, expire), nil
	}

	secret := viper.GetString("jwt.secret")
	if secret == "" {
		return nil, fmt.Errorf("either jwt.keyfile or jwt.secret is required")
	}
	return session.NewHMACAuthenticator(workers, []byte(secret), expire), nil
}

func initGeocoder() (geo.AddressResolver, error) {
	resolvers := make([]geo.AddressResolver, 0, 2)

	if key := viper.GetString("map.key"); key != "" {
		client, err := maps.NewClient(maps.WithAPIKey(key))
		if err != nil {
			return nil, err
		}
		resolvers = append(resolvers, geo.NewGeocodingAddressResolver(client))
	}
	resolvers = append(resolvers, geo.ManualAddressResolver{})

	return geo.NewMultipleAddressResolver(resolvers...), nil
}

func triageOptions() triage.Options {
	return triage.Options{
		AdvanceDelay:      viper.GetDuration("triage.advance_delay"),
		InputAdvanceDelay: viper.GetDuration("triage.input_advance_delay"),
		LocationGrace:     viper.GetDuration("triage.location_grace"),
		InactivityTimeout: viper.GetDuration("triage.inactivity_timeout"),
	}
}

// sweepSessions drops the wizards nobody has touched for a while
func sweepSessions(ctx context.Context, r *triage.Registry, ttl, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := r.Sweep(ttl); n > 0 {
				log.WithField("prefix", "sweeper").WithField("removed", n).Info("removed idle triage sessions")
			}
		}
	}
}

func main() {
	var configFile string

	initialCtx, cancelInitialization := context.WithCancel(context.Background())

	c := make(chan os.Signal, 2)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-c
		log.Info("Server is preparing to shutdown")

		if initialCtx != nil && cancelInitialization != nil {
			log.Info("Cancelling initialization")
			cancelInitialization()
			<-initialCtx.Done()
		}

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if server != nil {
			log.Info("Shutdown triage api server")
			if err := server.Shutdown(ctx); err != nil {
				log.Error("Server Shutdown:", err)
			}
		}

		if registry != nil {
			log.Info("Closing open triage sessions")
			registry.CloseAll()
		}

		if closer, ok := alerts.(store.Closer); ok {
			log.Info("Shutting down alert store")
			closer.Close()
		}

		if ormDB != nil {
			log.Info("Shutting down db store")
			if err := ormDB.Close(); err != nil {
				log.Error(err)
			}
		}

		os.Exit(1)
	}()

	flag.StringVar(&configFile, "c", "./config.yaml", "[optional] path of configuration file")
	flag.Parse()

	loadConfig(configFile)

	initLog()

	// Sentry
	if err := sentry.Init(sentry.ClientOptions{
		Dsn:              viper.GetString("sentry.dsn"),
		AttachStacktrace: true,
		Environment:      viper.GetString("sentry.environment"),
		Dist:             viper.GetString("sentry.dist"),
	}); err != nil {
		log.Error(err)
	}
	log.WithField("prefix", "init").Info("Initialized sentry")

	if err := utils.InitI18NBundle(viper.GetString("i18n.dir"),
		triage.Messages(),
		triage.FeedbackMessages(),
		geo.Messages(),
		background.Messages(),
	); err != nil {
		log.Panic(err)
	}
	log.WithField("prefix", "init").Info("Loaded i18n bundle")

	workers, err := initWorkerStore()
	if err != nil {
		log.Panic(err)
	}

	alerts, err = initAlertStore(initialCtx)
	if err != nil {
		log.Panic(err)
	}
	log.WithField("prefix", "init").Infof("Initialized %s alert store", viper.GetString("store.driver"))

	auth, err := initAuthenticator(workers)
	if err != nil {
		log.Panic(err)
	}
	log.WithField("prefix", "init").Info("Loaded jwt key")

	classifier, err := risk.New(viper.GetString("triage.classifier"), time.Now().UnixNano())
	if err != nil {
		log.Panic(err)
	}

	assigner, err := triage.NewAssigner(viper.GetString("triage.assignment"), workers, time.Now().UnixNano())
	if err != nil {
		log.Panic(err)
	}

	geocoder, err := initGeocoder()
	if err != nil {
		log.Panic(err)
	}

	deps := triage.Dependencies{
		Classifier: risk.WithTimeout(classifier, viper.GetDuration("triage.classifier_timeout")),
		Alerts:     alerts,
		Assigner:   assigner,
		Geocoder:   geocoder,
	}

	if conn := viper.GetString("cadence.conn"); conn != "" {
		cadenceClient := cadence.NewClient(conn, viper.GetString("cadence.domain"))
		deps.Dispatcher = utils.NewAlertDispatcher(cadenceClient, viper.GetDuration("cadence.workflow_timeout"))
		log.WithField("prefix", "init").Info("Initialized cadence alert dispatcher")
	}

	registry = triage.NewRegistry(deps, triageOptions())
	if ttl, interval := viper.GetDuration("triage.session_ttl"), viper.GetDuration("triage.sweep_interval"); ttl > 0 && interval > 0 {
		go sweepSessions(context.Background(), registry, ttl, interval)
	}

	pingers := make([]store.Pinger, 0, 2)
	if p, ok := alerts.(store.Pinger); ok {
		pingers = append(pingers, p)
	}
	if p, ok := workers.(store.Pinger); ok {
		pingers = append(pingers, p)
	}

	// Init http server
	server = api.NewServer(registry, alerts, workers, auth, pingers...)
	log.WithField("prefix", "init").Info("Initialized http server")

	// Remove initial context
	initialCtx = nil
	cancelInitialization = nil

	log.Fatal(server.Run(":" + viper.GetString("server.port")))
}
