// tapseed loads a starter drink list into a taproom database, reporting
// which drinks were created and which already existed.
package main

import (
	"context"
	"flag"
	"log/slog"
	"os"

	"github.com/golang-cz/devslog"

	"taproom"
	"taproom/gateway"
	"taproom/record"
	"taproom/storage"
	"taproom/txid"
)

var seedDrinks = []record.Fields{
	{"name": "Coffee", "description": "hot beverage made from roasted coffee beans"},
	{"name": "Tea", "description": "hot water poured over cured leaves"},
	{"name": "Orange Juice", "description": "sweet and tangy citrus juice"},
}

func main() {
	path := flag.String("path", "taproom.db", "leveldb directory to seed")
	flag.Parse()

	log := slog.New(devslog.NewHandler(os.Stdout, &devslog.Options{
		HandlerOptions: &slog.HandlerOptions{Level: slog.LevelInfo},
	}))

	stg, err := storage.NewLevelDBStorage(*path)
	if err != nil {
		log.Error("opening store", "err", err)
		os.Exit(1)
	}
	defer stg.Close()

	db, err := taproom.NewDatabase(stg, txid.NewAtomicIssuer())
	if err != nil {
		log.Error("opening database", "err", err)
		os.Exit(1)
	}
	gw, err := gateway.New(db, log)
	if err != nil {
		log.Error("building gateway", "err", err)
		os.Exit(1)
	}

	ctx := context.Background()
	for _, fields := range seedDrinks {
		name := fields["name"]
		out := gw.AttemptCreate(ctx, record.KindDrink, fields)
		switch out.Status {
		case gateway.StatusCreated:
			d := out.Record.(record.Drink)
			log.Info("seeded", "name", name, "id", d.ID)
		case gateway.StatusConflict:
			log.Warn("already present", "name", name)
		default:
			log.Error("seeding failed", "name", name, "reason", out.Reason)
			os.Exit(1)
		}
	}
}
