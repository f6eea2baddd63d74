package config

import (
	"github.com/gotify/configor"
)

var Conf *Configuration

type Configuration struct {
	App struct {
		ListenAddr string `default:"" env:"APP_HOST"`
		Port       int    `default:"8080"  env:"APP_PORT"`
	}
	Database struct {
		Host           string `default:"127.0.0.1" env:"DB_HOST"`
		Port           string `default:"5432" env:"DB_PORT"`
		Name           string `default:"recruit-flow" env:"DB_NAME"`
		User           string `default:"postgres" env:"DB_USER"`
		Password       string `default:"postgres" env:"DB_PASSWORD"`
		MigrateOnStart *bool  `default:"true" env:"DB_MIGRATE_ON_START"`
		DebugMode      *bool  `default:"false" env:"DB_DEBUG_MODE"`
	}
	Auth struct {
		JWTSecret string `default:"" env:"JWT_SECRET"`
	}
	Smtp struct {
		User       string `default:"" env:"SMTP_USER"`
		Password   string `default:"" env:"SMTP_PASSWORD"`
		Host       string `default:"" env:"SMTP_HOST"`
		Port       string `default:"" env:"SMTP_PORT"`
		TLSEnabled *bool  `default:"true" env:"SMTP_TLS_ENABLED"`
	}
	// Политики процесса подбора. Значения по умолчанию согласованы с продуктом,
	// переопределяются через окружение без пересборки
	Workflow struct {
		OfferValidityDays      int `default:"7" env:"WF_OFFER_VALIDITY_DAYS"`
		InterviewGraceHours    int `default:"1" env:"WF_INTERVIEW_GRACE_HOURS"`
		StuckThresholdDays     int `default:"7" env:"WF_STUCK_THRESHOLD_DAYS"`
		ReviewSlaDays          int `default:"3" env:"WF_REVIEW_SLA_DAYS"`
		AcceptanceSlaDays      int `default:"5" env:"WF_ACCEPTANCE_SLA_DAYS"`
		InterviewSlaDays       int `default:"7" env:"WF_INTERVIEW_SLA_DAYS"`
		OfferSlaDays           int `default:"14" env:"WF_OFFER_SLA_DAYS"`
		InterviewReminderHours int `default:"24" env:"WF_INTERVIEW_REMINDER_HOURS"`
		OfferExpiringDays      int `default:"2" env:"WF_OFFER_EXPIRING_DAYS"`

		// пороги бутылочных горлышек
		BottleneckVolume    int     `default:"10" env:"WF_BOTTLENECK_VOLUME"`
		BottleneckDwellDays float64 `default:"5" env:"WF_BOTTLENECK_DWELL_DAYS"`

		// границы классификации состояния процесса
		StuckDegraded      int `default:"10" env:"WF_STUCK_DEGRADED"`
		StuckCritical      int `default:"20" env:"WF_STUCK_CRITICAL"`
		BottleneckDegraded int `default:"3" env:"WF_BOTTLENECK_DEGRADED"`
		BottleneckCritical int `default:"5" env:"WF_BOTTLENECK_CRITICAL"`
		SlaDegraded        int `default:"5" env:"WF_SLA_DEGRADED"`
		SlaCritical        int `default:"10" env:"WF_SLA_CRITICAL"`
	}
}

func configFiles() []string {
	return []string{"config.yml"}
}

func InitConfig() {
	if Conf != nil {
		return
	}
	conf := new(Configuration)
	err := configor.New(&configor.Config{}).Load(conf, configFiles()...)
	if err != nil {
		panic(err)
	}
	Conf = conf
}
