package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"text/tabwriter"

	"github.com/go-redis/redis/v8"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/viper"
	prefixed "github.com/x-cray/logrus-prefixed-formatter"

	"github.com/bitmark-inc/triage-api/dashboard"
	"github.com/bitmark-inc/triage-api/schema"
	"github.com/bitmark-inc/triage-api/session"
)

func initLog() {
	logLevel, err := log.ParseLevel(viper.GetString("log.level"))
	if err != nil {
		log.SetLevel(log.InfoLevel)
	} else {
		log.SetLevel(logLevel)
	}

	log.SetOutput(os.Stderr)
	log.SetFormatter(&prefixed.TextFormatter{
		ForceFormatting: true,
		FullTimestamp:   true,
	})
}

func loadConfig(file string) {
	viper.SetConfigType("yaml")
	if file != "" {
		viper.SetConfigFile(file)
	}

	viper.AddConfigPath("/.config/")
	viper.AddConfigPath(".")
	if err := viper.ReadInConfig(); err != nil {
		fmt.Fprintln(os.Stderr, "No config file. Read config from env.")
		viper.AllowEmptyEnv(false)
	}

	viper.SetDefault("dashboard.api_url", "http://localhost:8080")
	viper.SetDefault("dashboard.poll_interval", dashboard.DefaultPollInterval)
	viper.SetDefault("dashboard.token_key", "triage:dashboard:token")

	viper.AutomaticEnv()
	viper.SetEnvPrefix("triage")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
}

func tokenStore() session.TokenStore {
	conn := viper.GetString("redis.conn")
	if conn == "" {
		return session.NewMemoryTokenStore()
	}

	opts, err := redis.ParseURL(conn)
	if err != nil {
		log.Panicf("invalid redis url: %s", err)
	}
	return session.NewRedisTokenStore(redis.NewClient(opts), viper.GetString("dashboard.token_key"), 0)
}

func printView(v dashboard.View) {
	if v.Err != nil {
		fmt.Printf("! unable to refresh alerts: %s\n", v.Err)
	}

	fmt.Printf("\nfilter %s | ALL %d | NEW %d | CONTACTING %d | RESOLVED %d\n",
		v.Filter,
		v.Counts[schema.FilterAll],
		v.Counts[schema.StatusFilter(schema.AlertNew)],
		v.Counts[schema.StatusFilter(schema.AlertContacting)],
		v.Counts[schema.StatusFilter(schema.AlertResolved)],
	)

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tSTATUS\tPATIENT\tSYMPTOM\tLOCATION\tCREATED")
	for _, a := range v.Alerts {
		location := a.PatientLocation.Describe()
		if a.ResolvedAddress != "" {
			location = a.ResolvedAddress
		}
		if url := a.PatientLocation.MapURL(); url != "" {
			location = fmt.Sprintf("%s %s", location, url)
		}
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\t%s\n",
			a.ID, a.Status, a.PatientPhone, a.Symptoms.MainSymptom, location,
			a.CreatedAt.Local().Format("2006-01-02 15:04"))
	}
	w.Flush()
}

func main() {
	var configFile, email, password, filter, contact, resolve, resolution, notes string
	var logout bool

	flag.StringVar(&configFile, "c", "./config.yaml", "[optional] path of configuration file")
	flag.StringVar(&email, "email", "", "worker email, required when not signed in")
	flag.StringVar(&password, "password", "", "worker password")
	flag.StringVar(&filter, "filter", string(schema.AlertNew), "ALL, NEW, CONTACTING or RESOLVED")
	flag.StringVar(&contact, "contact", "", "id of an alert to mark as contacting")
	flag.StringVar(&resolve, "resolve", "", "id of an alert to resolve")
	flag.StringVar(&resolution, "resolution", string(schema.ResolutionReferredToClinic), "outcome of a resolved alert")
	flag.StringVar(&notes, "notes", "", "notes of a resolved alert")
	flag.BoolVar(&logout, "logout", false, "sign out every running dashboard")
	flag.Parse()

	loadConfig(configFile)
	initLog()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	c := make(chan os.Signal, 2)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-c
		cancel()
	}()

	tokens := tokenStore()
	if logout {
		if err := tokens.Clear(ctx); err != nil {
			log.Fatal(err)
		}
		log.Info("signed out")
		return
	}

	client := dashboard.NewAPIClient(viper.GetString("dashboard.api_url"))

	token, err := tokens.Get(ctx)
	if err != nil {
		log.Fatal(err)
	}
	if token == "" {
		if email == "" {
			log.Fatal("not signed in, run with -email and -password")
		}
		if token, err = client.Login(ctx, email, password); err != nil {
			log.Fatalf("sign in failed: %s", err)
		}
		if err := tokens.Set(ctx, token); err != nil {
			log.Fatal(err)
		}
	}
	client.SetToken(token)

	board := dashboard.NewBoard(client, viper.GetDuration("dashboard.poll_interval"))
	if err := board.SetFilter(schema.StatusFilter(strings.ToUpper(filter))); err != nil {
		log.Fatal(err)
	}

	var alertID int64
	switch {
	case contact != "":
		if _, err := fmt.Sscan(contact, &alertID); err != nil {
			log.Fatalf("invalid alert id %q", contact)
		}
		if err := board.Contact(ctx, alertID); errors.Is(err, dashboard.ErrRefreshFailed) {
			log.Warn(err)
		} else if err != nil {
			log.Fatal(err)
		}
		printView(board.View())
		return
	case resolve != "":
		if _, err := fmt.Sscan(resolve, &alertID); err != nil {
			log.Fatalf("invalid alert id %q", resolve)
		}
		if err := board.Resolve(ctx, alertID, schema.Resolution(resolution), notes); errors.Is(err, dashboard.ErrRefreshFailed) {
			log.Warn(err)
		} else if err != nil {
			log.Fatal(err)
		}
		printView(board.View())
		return
	}

	changes, err := tokens.Watch(ctx)
	if err != nil {
		log.Fatal(err)
	}
	go func() {
		for t := range changes {
			if t == "" {
				log.Info("signed out from another session")
				cancel()
				return
			}
			client.SetToken(t)
		}
	}()

	board.Run(ctx, func(v dashboard.View) {
		printView(v)
		if dashboard.IsUnauthorized(v.Err) {
			log.Warn("session expired, sign in again")
			_ = tokens.Clear(ctx)
			cancel()
		}
	})
}
