package main

import (
	"fmt"
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"github.com/sashabaranov/go-openai"

	"go-biomap/cronjobs"
	"go-biomap/db"
	"go-biomap/grid"
	"go-biomap/routes"
)

func main() {
	// Load .env file
	err := godotenv.Load()
	if err != nil {
		log.Fatalf("Error loading .env file: %v", err)
	}

	// Print and check env
	apiKey := os.Getenv("OPENAI_API_KEY")
	if apiKey != "" {
		fmt.Println("OPENAI_API_KEY loaded")
	}
	openaiClient := openai.NewClient(apiKey)

	clientURL := os.Getenv("CLIENT_URL")
	fmt.Println("CLIENT_URL: ", clientURL)

	// Init firestore
	firestoreClient, err := db.InitFirestore()
	if err != nil {
		log.Fatalf("Failed to initialize Firestore: %v", err)
	}
	defer db.CloseFirestore() // Firestore client is closed on exit

	provider := db.NewFirestoreProvider(firestoreClient)

	engine := grid.NewEngine(provider, grid.Config{
		DefaultCellSizeDeg: envFloat("BIOMAP_CELL_SIZE", grid.DefaultCellSizeDeg),
		ScanCap:            envInt("BIOMAP_SCAN_CAP", grid.DefaultScanCap),
		RefreshMode:        os.Getenv("BIOMAP_REFRESH_MODE"),
	})

	// Initialize cron jobs
	cronjobs.InitCronJobs(engine)

	r := routes.SetupRouter(engine, provider, openaiClient)
	if err := r.Run(":8080"); err != nil {
		log.Fatal("Failed to start server:", err)
	}
}

func envFloat(key string, fallback float64) float64 {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		log.Printf("Invalid %s=%q, using default %v", key, v, fallback)
		return fallback
	}
	return f
}

func envInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		log.Printf("Invalid %s=%q, using default %v", key, v, fallback)
		return fallback
	}
	return n
}
