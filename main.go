package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"voice-interview/internal/api"
	"voice-interview/internal/config"
	"voice-interview/internal/interviewer"
	"voice-interview/internal/log"
	"voice-interview/internal/metrics"
	"voice-interview/internal/session"
	"voice-interview/internal/settings"
	"voice-interview/internal/storage"
	"voice-interview/internal/web"
)

func main() {
	fmt.Println("🚀 Запуск Voice Interview...")

	// Загружаем переменные окружения
	if err := godotenv.Load(); err != nil {
		log.Warn("Файл .env не найден, используются переменные окружения")
	}

	appCfg := config.LoadAppConfig()
	if appCfg.Debug {
		log.SetLevel(log.DebugLevel)
	}

	if err := appCfg.OpenAI.ValidateConfig(); err != nil {
		log.Fatalf("Ошибка конфигурации OpenAI: %v", err)
	}

	// Загружаем конфигурацию интервью
	cfg, err := config.Load(appCfg.InterviewConfigPath)
	if err != nil {
		log.Fatalf("Ошибка загрузки конфигурации интервью: %v", err)
	}

	fmt.Println("🔧 Инициализация сервисов...")

	db, err := storage.Open(appCfg.Storage.DatabasePath)
	if err != nil {
		log.Fatalf("Ошибка открытия базы: %v", err)
	}
	defer db.Close()
	fmt.Println("✅ База данных готова")

	prefs := settings.Load(storage.NewKeyValueStore(db))
	results := storage.NewResultStore(db)
	stats := metrics.NewMetrics()

	client := api.NewOpenAIClient(appCfg.OpenAI)
	interviewerService := interviewer.New(client, cfg, stats)
	fmt.Println("✅ Интервьюер инициализирован")

	machine := session.New(cfg, interviewerService, results, prefs, stats)
	defer machine.Close()

	server := web.NewServer(web.Options{
		Machine:            machine,
		Settings:           prefs,
		Results:            results,
		Metrics:            stats,
		Config:             cfg,
		PublicDir:          appCfg.Server.PublicDir,
		RateLimitPerMinute: appCfg.Server.RateLimitPerMinute,
	})

	httpServer := &http.Server{
		Addr:         fmt.Sprintf(":%d", appCfg.Server.Port),
		Handler:      server.Router(),
		ReadTimeout:  appCfg.Server.ReadTimeout,
		WriteTimeout: appCfg.Server.WriteTimeout,
	}

	// Выводим информацию о конфигурации
	model := appCfg.OpenAI.GetModelInfo()
	fmt.Println("\n📋 Конфигурация:")
	fmt.Printf("• Модель: %v (max_tokens %v, temperature %v)\n", model["model"], model["max_tokens"], model["temperature"])
	fmt.Printf("• Вопросов в интервью: %d\n", cfg.GetQuestionCount())
	fmt.Printf("• Проходной балл: %d\n", cfg.GetPassThreshold())
	fmt.Printf("• Языки: %d, по умолчанию %s\n", len(cfg.Languages), cfg.GetDefaultLanguage())
	fmt.Printf("• Громкость озвучки: %.1f\n", prefs.Volume())

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		fmt.Printf("\n🎙  Сервер запущен на http://localhost%s\n", httpServer.Addr)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("Ошибка HTTP сервера: %v", err)
		}
	}()

	<-ctx.Done()
	fmt.Println("\n⏹  Остановка сервера...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), appCfg.Server.ShutdownTimeout)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Errorf("Ошибка остановки сервера: %v", err)
	}
}
