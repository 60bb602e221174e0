package main

import (
	"context"
	"flag"
	"log"

	"cookshare/cmd/config"
	"cookshare/cmd/database/loader"
	migration "cookshare/cmd/database/migrate"
	"cookshare/internal/utils"
)

func main() {
	ingredientsCSV := flag.String("ingredients", "", "path to an ingredient catalog CSV to import before serving")
	replaceCatalog := flag.Bool("replace", false, "wipe the ingredient catalog before importing")
	flag.Parse()

	utils.LoadConfig()

	db, err := config.ConnectDB()
	if err != nil {
		log.Fatalf("error connecting to database: %v", err)
	}

	if err := migration.Migrate(db); err != nil {
		log.Fatalf("error migrating database: %v", err)
	}

	if *ingredientsCSV != "" {
		count, err := loader.LoadIngredients(context.Background(), db, *ingredientsCSV, *replaceCatalog)
		if err != nil {
			log.Fatalf("error loading ingredient catalog: %v", err)
		}
		log.Printf("loaded %d ingredients from %s", count, *ingredientsCSV)
	}

	app, err := config.NewApp(db)
	if err != nil {
		log.Fatalf("error creating app: %v", err)
	}

	if err := app.Listen(":" + utils.GetConfig("APP_PORT")); err != nil {
		log.Fatalf("error starting server: %v", err)
	}
}
