package main

import (
	"context"
	"log"
	"net/http"
	"os"

	"github.com/joho/godotenv"
	_ "github.com/lib/pq"

	api "github.com/Solvit-Africa-Training-Center/Blog-API/pkg/blog_api"
	"github.com/Solvit-Africa-Training-Center/Blog-API/pkg/blog_api/database"
	"github.com/Solvit-Africa-Training-Center/Blog-API/pkg/blog_api/handler"
	util "github.com/Solvit-Africa-Training-Center/Blog-API/pkg/blog_api/helpers/util"
	"github.com/Solvit-Africa-Training-Center/Blog-API/pkg/blog_api/repositories"
	"github.com/Solvit-Africa-Training-Center/Blog-API/pkg/blog_api/services"
	"github.com/Solvit-Africa-Training-Center/Blog-API/pkg/jobs"
)

func main() {
	_ = godotenv.Load()

	version, err := util.LoadOASVersion("./api/openapi.json")
	if err != nil {
		log.Fatalf("failed to load OAS version: %v", err)
	}

	dbcon := "postgres://" +
		os.Getenv("DB_USERNAME") + ":" +
		os.Getenv("DB_PASSWORD") + "@" +
		os.Getenv("DB_HOSTNAME") + "/" +
		os.Getenv("DB_DBNAME") + "?search_path=" +
		os.Getenv("DB_SCHEMA")
	db, err := database.Connect(dbcon)
	if err != nil {
		log.Fatalf("database connection failed: %v", err)
	}

	postRepo := repositories.NewPostRepository(db)
	downloadRepo := repositories.NewDownloadLogRepository(db)
	userRepo := repositories.NewUserRepository(db)

	downloadsService := services.NewDownloadsAPIService(postRepo, downloadRepo, userRepo)
	downloadsController := handler.NewDownloadsAPIController(downloadsService)
	jobs.ScheduleLedgerMaintenance(context.Background(), downloadRepo)

	router := api.NewRouter(version, downloadsController, userRepo)

	port := os.Getenv("PORT")
	if port == "" {
		port = "1337"
	}
	log.Printf("Server is running on port %s", port)
	log.Fatal(http.ListenAndServe(":"+port, router))
}
