package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/jinzhu/gorm"
	_ "github.com/jinzhu/gorm/dialects/postgres"
	"github.com/spf13/viper"

	"github.com/bitmark-inc/triage-api/schema"
	"github.com/bitmark-inc/triage-api/session"
	"github.com/bitmark-inc/triage-api/store"
)

func init() {
	viper.AutomaticEnv()
	viper.SetEnvPrefix("triage")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	viper.SetDefault("mongo.database", "triage")
	viper.SetDefault("workers.default_password", "changeme")
}

func main() {
	if conn := viper.GetString("orm.conn"); conn != "" {
		if err := migrateWorkers(conn); err != nil {
			panic(err)
		}
	}

	if conn := viper.GetString("mongo.conn"); conn != "" {
		fmt.Println("create alert indexes")
		schema.NewMongoDBIndexer(conn, viper.GetString("mongo.database")).IndexAll()
	}
}

func migrateWorkers(conn string) error {
	db, err := gorm.Open("postgres", conn)
	if err != nil {
		return err
	}
	defer db.Close()

	if err := db.AutoMigrate(&schema.WorkerAccount{}).Error; err != nil {
		return err
	}

	if !viper.GetBool("workers.seed_demo") {
		return nil
	}

	fmt.Println("register demo workers")
	hash, err := session.HashPassword(viper.GetString("workers.default_password"))
	if err != nil {
		return err
	}

	workers := store.NewORMWorkerStore(db)
	for _, w := range store.DemoWorkers {
		w.PasswordHash = hash
		if err := workers.CreateWorker(context.Background(), &w); err != nil && err != store.ErrEmailTaken {
			return err
		}
	}

	return nil
}
