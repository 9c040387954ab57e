package cronjobs

import (
	"errors"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/robfig/cron/v3"

	"go-biomap/grid"
)

const defaultWarmupSeconds = 15

// InitCronJobs schedules the background grid refresh: one run after a
// warm-up delay (lets the Firestore connection settle), then a periodic
// recompute. Both go through the engine's single-flight guard, so an
// overlapping tick is dropped, not queued.
func InitCronJobs(engine *grid.Engine) {
	log.Println("\nStarting Cron Jobs -------------------------------------------------------")

	warmup := time.Duration(defaultWarmupSeconds) * time.Second
	if v := os.Getenv("BIOMAP_WARMUP_SECONDS"); v != "" {
		if secs, err := strconv.Atoi(v); err == nil && secs >= 0 {
			warmup = time.Duration(secs) * time.Second
		}
	}

	time.AfterFunc(warmup, func() {
		log.Println("\nCronJob: Warm-up Grid Refresh Running")
		runRefresh(engine)
	})

	spec := os.Getenv("BIOMAP_REFRESH_CRON")
	if spec == "" {
		spec = "@hourly"
	}

	c := cron.New()
	_, err := c.AddFunc(spec, func() {
		log.Println("\nCronJob: Grid Refresh Running")
		runRefresh(engine)
	})
	if err != nil {
		log.Println("Error scheduling Grid Refresh:", err)
	}

	c.Start()
}

func runRefresh(engine *grid.Engine) {
	err := engine.Refresh(engine.DefaultCellSize(), engine.RefreshMode())
	switch {
	case errors.Is(err, grid.ErrComputationInProgress):
		log.Println("Grid refresh skipped: computation already in progress")
	case err != nil:
		log.Printf("Grid refresh failed: %v", err)
	}
}
