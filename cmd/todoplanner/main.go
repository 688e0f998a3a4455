package main

import (
	"context"
	"errors"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"todo-planner/internal/bot"
	"todo-planner/internal/config"
	"todo-planner/internal/holiday"
	"todo-planner/internal/recur"
	"todo-planner/internal/repository"
	"todo-planner/internal/service"
)

func main() {
	_ = godotenv.Load()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	loc, err := time.LoadLocation(cfg.Timezone)
	if err != nil {
		log.Printf("[warn] timezone %q: %v, falling back to local", cfg.Timezone, err)
		loc = time.Local
	}

	db, err := repository.NewDB(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("db: %v", err)
	}
	sqlDB, err := db.DB()
	if err == nil {
		defer sqlDB.Close()
	}

	userRepo := repository.NewUserRepository(db)
	templateRepo := repository.NewTemplateRepository(db)
	instanceRepo := repository.NewInstanceRepository(db)
	holidayRepo := repository.NewHolidayRepository(db)

	calendar := holiday.NewCalendar()
	holidayClient := holiday.NewClient(cfg.HolidayAPIURL, cfg.HolidayAPIKey)
	generator := recur.NewGenerator(calendar)

	generationSvc := service.NewGenerationService(templateRepo, instanceRepo, holidayRepo, generator, holidayClient)
	templateSvc := service.NewTemplateService(templateRepo, instanceRepo, generationSvc)
	reminderSvc := service.NewReminderService(templateRepo, instanceRepo)
	holidaySvc := service.NewHolidayService(holidayRepo, generationSvc)

	year := time.Now().In(loc).Year()
	generationSvc.PreloadHolidays(ctx, year, year+1)

	telegramBot, err := bot.New(cfg.TelegramToken, userRepo, templateSvc, reminderSvc, generationSvc, holidaySvc)
	if err != nil {
		log.Fatalf("bot: %v", err)
	}

	// Bring every known user's instance sets in step with their templates,
	// then keep watching the collections for edits. Users registering later
	// get their watch from the bot on first contact.
	users, err := userRepo.ListAll(ctx)
	if err != nil {
		log.Fatalf("list users: %v", err)
	}
	now := time.Now().In(loc)
	for _, user := range users {
		if err := generationSvc.RegenerateOwner(ctx, user.ID, now); err != nil {
			log.Printf("[warn] initial regeneration for user %d: %v", user.ID, err)
		}
		generationSvc.EnsureWatch(user.ID)
	}
	defer generationSvc.StopWatches()

	scheduler := service.NewSchedulerService(loc)
	if _, err := scheduler.ScheduleDaily(cfg.DigestTime, func() {
		jobCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := telegramBot.SendDailyDigests(jobCtx); err != nil && !errors.Is(err, context.Canceled) {
			log.Printf("digest: %v", err)
		}
	}); err != nil {
		log.Fatalf("schedule digest: %v", err)
	}
	if _, err := scheduler.ScheduleInterval(cfg.RegenerateInterval, func() {
		jobCtx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
		defer cancel()
		sweep(jobCtx, userRepo, generationSvc, loc)
	}); err != nil {
		log.Fatalf("schedule regeneration: %v", err)
	}
	scheduler.Start()
	defer scheduler.Stop()

	log.Println("Todo planner started.")
	if err := telegramBot.Start(ctx); err != nil && !errors.Is(err, context.Canceled) {
		log.Fatalf("bot stopped with error: %v", err)
	}
	log.Println("Shutdown complete.")
}

// sweep regenerates every user's instances so the rolling one-year window
// keeps advancing even without template edits.
func sweep(ctx context.Context, userRepo *repository.UserRepository, generationSvc *service.GenerationService, loc *time.Location) {
	users, err := userRepo.ListAll(ctx)
	if err != nil {
		log.Printf("[warn] sweep: list users: %v", err)
		return
	}
	now := time.Now().In(loc)
	for _, user := range users {
		if err := generationSvc.RegenerateOwner(ctx, user.ID, now); err != nil {
			log.Printf("[warn] sweep: user %d: %v", user.ID, err)
		}
	}
}
