package helpers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"testing"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"intake_backend/internal/app"
	"intake_backend/internal/config"
	"intake_backend/internal/logger"
	"intake_backend/internal/models"
)

// Учетные данные тестового админа
const (
	TestAdminEmail    = "admin@test.local"
	TestAdminPassword = "test-password-123"
)

// TestServer - поднятое приложение поверх in-memory sqlite
type TestServer struct {
	Server *httptest.Server
	DB     *gorm.DB
	Cfg    *config.Config
}

// NewTestServer создает и настраивает тестовый сервер и БД.
// Каждый вызов получает собственную изолированную базу.
func NewTestServer(t *testing.T) *TestServer {
	logger.Init("test")

	cfg := testConfig(t)
	config.AppConfig = cfg

	// Уникальный DSN на каждый сервер: независимые in-memory базы
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("Не удалось открыть тестовую БД: %v", err)
	}

	if err := db.AutoMigrate(&models.Candidate{}, &models.Question{}); err != nil {
		t.Fatalf("Не удалось выполнить AutoMigrate для тестовой БД: %v", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("Не удалось получить *sql.DB из GORM: %v", err)
	}

	router := app.SetupRouter(cfg, db, sqlDB)
	server := httptest.NewServer(router)

	log.Printf("✅ Тестовый сервер запущен (%s)", dsn)

	return &TestServer{
		Server: server,
		DB:     db,
		Cfg:    cfg,
	}
}

func testConfig(t *testing.T) *config.Config {
	hash, err := bcrypt.GenerateFromPassword([]byte(TestAdminPassword), bcrypt.DefaultCost)
	if err != nil {
		t.Fatalf("Не удалось хешировать пароль тестового админа: %v", err)
	}

	cfg := &config.Config{}
	cfg.Server.Env = "test"
	cfg.Storage.Type = "local"
	cfg.Storage.BasePath = t.TempDir()
	cfg.Upload.MaxResumeSize = 5 * 1024 * 1024
	cfg.Upload.MaxVideoSize = 5 * 1024 * 1024
	cfg.Upload.AllowedResumeTypes = []string{
		"application/pdf",
		"application/vnd.openxmlformats-officedocument.wordprocessingml.document",
		"application/msword",
	}
	cfg.Upload.AllowedVideoTypes = []string{"video/mp4"}
	// Заведомо несуществующий бинарник: тесты проверяют fallback-путь
	cfg.Transcode.BinPath = "/nonexistent/ffmpeg"
	cfg.Transcode.TempDir = t.TempDir()
	cfg.Admin.Email = TestAdminEmail
	cfg.Admin.PasswordHash = string(hash)
	cfg.Admin.JWTSecret = "my_super_secret_key_for_tests_12345"
	cfg.Admin.TTLMinutes = 60
	cfg.Intake.QuestionText = "Please record or upload a video introducing yourself and explaining why you are interested in this position."
	return cfg
}

// Close останавливает сервер и закрывает БД.
func (ts *TestServer) Close() {
	ts.Server.Close()
	sqlDB, _ := ts.DB.DB()
	sqlDB.Close()
}

// SendRequest отправляет JSON-запрос.
func (ts *TestServer) SendRequest(t *testing.T, method, path, token string, body interface{}) (*http.Response, string) {
	url := ts.Server.URL + path

	var reqBody io.Reader = nil
	if body != nil {
		jsonBody, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("Ошибка кодирования JSON для запроса: %v", err)
		}
		reqBody = bytes.NewBuffer(jsonBody)
	}

	req, err := http.NewRequest(method, url, reqBody)
	if err != nil {
		t.Fatalf("Ошибка создания HTTP-запроса: %v", err)
	}

	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	res, err := ts.Server.Client().Do(req)
	if err != nil {
		t.Fatalf("Ошибка отправки HTTP-запроса: %v", err)
	}

	resBodyBytes, err := io.ReadAll(res.Body)
	if err != nil {
		t.Fatalf("Ошибка чтения тела ответа: %v", err)
	}
	defer res.Body.Close()

	return res, string(resBodyBytes)
}

// FilePart описывает один файл multipart-запроса.
type FilePart struct {
	Field       string
	Filename    string
	ContentType string
	Data        []byte
}

// SendMultipart отправляет multipart-запрос с полями и файлами.
func (ts *TestServer) SendMultipart(t *testing.T, path string, fields map[string]string, files ...FilePart) (*http.Response, string) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	for k, v := range fields {
		if err := w.WriteField(k, v); err != nil {
			t.Fatalf("Ошибка записи поля %s: %v", k, err)
		}
	}

	for _, f := range files {
		h := make(textproto.MIMEHeader)
		h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="%s"; filename="%s"`, f.Field, f.Filename))
		h.Set("Content-Type", f.ContentType)
		part, err := w.CreatePart(h)
		if err != nil {
			t.Fatalf("Ошибка создания файловой части: %v", err)
		}
		if _, err := part.Write(f.Data); err != nil {
			t.Fatalf("Ошибка записи файла: %v", err)
		}
	}

	if err := w.Close(); err != nil {
		t.Fatalf("Ошибка закрытия multipart writer: %v", err)
	}

	req, err := http.NewRequest(http.MethodPost, ts.Server.URL+path, &buf)
	if err != nil {
		t.Fatalf("Ошибка создания HTTP-запроса: %v", err)
	}
	req.Header.Set("Content-Type", w.FormDataContentType())

	res, err := ts.Server.Client().Do(req)
	if err != nil {
		t.Fatalf("Ошибка отправки HTTP-запроса: %v", err)
	}

	resBodyBytes, err := io.ReadAll(res.Body)
	if err != nil {
		t.Fatalf("Ошибка чтения тела ответа: %v", err)
	}
	defer res.Body.Close()

	return res, string(resBodyBytes)
}
