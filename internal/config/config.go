package config

import (
	"log"
	"os"
	"strconv"

	"gopkg.in/yaml.v2"
)

type Config struct {
	Server struct {
		Host string `yaml:"host"`
		Port int    `yaml:"port"`
		Env  string `yaml:"env"`
	} `yaml:"server"`

	Database struct {
		DSN string `yaml:"url"`
	} `yaml:"database"`

	Storage struct {
		Type     string `yaml:"type"`      // пока только local
		BasePath string `yaml:"base_path"` // каталог для файлов кандидатов
		BaseURL  string `yaml:"base_url"`  // публичный префикс URL
	} `yaml:"storage"`

	Upload struct {
		MaxResumeSize      int64    `yaml:"max_resume_size"` // в байтах
		MaxVideoSize       int64    `yaml:"max_video_size"`
		AllowedResumeTypes []string `yaml:"allowed_resume_types"`
		AllowedVideoTypes  []string `yaml:"allowed_video_types"`
	} `yaml:"upload"`

	Transcode struct {
		BinPath string `yaml:"bin_path"` // путь к ffmpeg
		TempDir string `yaml:"temp_dir"` // пусто = os.TempDir()
	} `yaml:"transcode"`

	Admin struct {
		Email        string `yaml:"email"`
		PasswordHash string `yaml:"password_hash"` // bcrypt
		JWTSecret    string `yaml:"jwt_secret"`
		TTLMinutes   int    `yaml:"ttl_minutes"`
	} `yaml:"admin"`

	Email struct {
		SMTPHost     string `yaml:"smtp_host"`
		SMTPPort     int    `yaml:"smtp_port"`
		SMTPUsername string `yaml:"smtp_user"`
		SMTPPassword string `yaml:"smtp_password"`
		FromEmail    string `yaml:"from_email"`
		FromName     string `yaml:"from_name"`
	} `yaml:"email"`

	Intake struct {
		QuestionText string `yaml:"question_text"` // текст единственного вопроса по умолчанию
	} `yaml:"intake"`
}

var AppConfig *Config

const defaultQuestionText = "Please record or upload a video introducing yourself and explaining why you are interested in this position."

func LoadConfig() {
	var cfg Config

	dbURL := os.Getenv("DATABASE_URL")

	if dbURL == "" {
		log.Println("Загрузка из config.yaml (режим НЕ-тест)")

		configPath := os.Getenv("CONFIG_PATH")
		if configPath == "" {
			configPath = "config/config.yaml"
		}

		f, err := os.Open(configPath)
		if err != nil {
			log.Fatalf("Failed to open config file at %s: %v", configPath, err)
		}
		defer f.Close()

		decoder := yaml.NewDecoder(f)
		if err := decoder.Decode(&cfg); err != nil {
			log.Fatalf("Failed to parse config file at %s: %v", configPath, err)
		}

		applyDefaults(&cfg)
		AppConfig = &cfg
		return
	}

	log.Println("✅ Загрузка конфигурации из ПЕРЕМЕННЫХ ОКРУЖЕНИЯ (режим теста)")

	cfg.Database.DSN = dbURL
	cfg.Server.Env = os.Getenv("SERVER_ENV")
	cfg.Server.Port, _ = strconv.Atoi(os.Getenv("SERVER_PORT"))
	cfg.Admin.JWTSecret = os.Getenv("JWT_SECRET")
	cfg.Admin.Email = os.Getenv("ADMIN_EMAIL")
	cfg.Admin.PasswordHash = os.Getenv("ADMIN_PASSWORD_HASH")

	cfg.Storage.Type = "local"
	cfg.Storage.BasePath = "./uploads"
	cfg.Storage.BaseURL = "/api/v1/files"

	applyDefaults(&cfg)
	AppConfig = &cfg
}

func applyDefaults(cfg *Config) {
	if cfg.Upload.MaxResumeSize == 0 {
		cfg.Upload.MaxResumeSize = 5 * 1024 * 1024 // 5MB
	}
	if cfg.Upload.MaxVideoSize == 0 {
		cfg.Upload.MaxVideoSize = 5 * 1024 * 1024 // 5MB
	}
	if len(cfg.Upload.AllowedResumeTypes) == 0 {
		cfg.Upload.AllowedResumeTypes = []string{
			"application/pdf",
			"application/vnd.openxmlformats-officedocument.wordprocessingml.document", // .docx
			"application/msword", // .doc
		}
	}
	if len(cfg.Upload.AllowedVideoTypes) == 0 {
		// Только MP4 для ручной загрузки; записанные клипы этот
		// фильтр обходят (после конвертации сервер помечает их как MP4)
		cfg.Upload.AllowedVideoTypes = []string{"video/mp4"}
	}
	if cfg.Transcode.BinPath == "" {
		cfg.Transcode.BinPath = "ffmpeg"
	}
	if cfg.Admin.TTLMinutes == 0 {
		cfg.Admin.TTLMinutes = 60
	}
	if cfg.Intake.QuestionText == "" {
		cfg.Intake.QuestionText = defaultQuestionText
	}
}

func GetConfig() *Config {
	if AppConfig == nil {
		LoadConfig()
	}
	return AppConfig
}
