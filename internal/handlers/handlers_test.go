package handlers_test

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"marks-portal/config"
	"marks-portal/internal/routes"
	"marks-portal/models"
)

func setupRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{TranslateError: true})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}
	if err := db.AutoMigrate(&models.Teacher{}, &models.Student{}, &models.SessionToken{}, &models.AuditLog{}); err != nil {
		t.Fatalf("failed to migrate test schema: %v", err)
	}
	config.DB = db
	config.RDB = nil

	r := gin.New()
	routes.SetupRoutes(r)
	return r
}

func seedTeacher(t *testing.T, username, password string) {
	t.Helper()
	teacher := &models.Teacher{Username: username}
	if err := teacher.SetPassword(password); err != nil {
		t.Fatalf("failed to set password: %v", err)
	}
	if err := config.DB.Create(teacher).Error; err != nil {
		t.Fatalf("failed to seed teacher: %v", err)
	}
}

func doJSON(r *gin.Engine, method, path, body string, cookie *http.Cookie) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	if cookie != nil {
		req.AddCookie(cookie)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func login(t *testing.T, r *gin.Engine, username, password string) *http.Cookie {
	t.Helper()
	w := doJSON(r, http.MethodPost, "/login", fmt.Sprintf(`{"username":%q,"password":%q}`, username, password), nil)
	if w.Code != http.StatusOK {
		t.Fatalf("login failed with status %d: %s", w.Code, w.Body.String())
	}
	for _, c := range w.Result().Cookies() {
		if c.Name == "session_token" && c.Value != "" {
			return c
		}
	}
	t.Fatal("login response did not set the session_token cookie")
	return nil
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("failed to decode response %q: %v", w.Body.String(), err)
	}
	return body
}

func TestAuthGate_RejectsUnauthenticatedRequests(t *testing.T) {
	r := setupRouter(t)

	// API-клиент получает структурированный 401.
	w := doJSON(r, http.MethodGet, "/api/students", "", nil)
	if w.Code != http.StatusUnauthorized {
		t.Errorf("expected 401 for missing token, got %d", w.Code)
	}
	body := decodeBody(t, w)
	if body["error"] != "Authentication required" {
		t.Errorf("unexpected error payload: %v", body)
	}

	// Браузерный клиент получает редирект на страницу входа.
	req := httptest.NewRequest(http.MethodGet, "/home", nil)
	req.Header.Set("Accept", "text/html")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	if rec.Code != http.StatusFound {
		t.Errorf("expected 302 for browser client, got %d", rec.Code)
	}
	if loc := rec.Header().Get("Location"); loc != "/" {
		t.Errorf("expected redirect to /, got %q", loc)
	}

	// Испорченный токен неотличим от отсутствующего.
	w = doJSON(r, http.MethodGet, "/api/students", "", &http.Cookie{Name: "session_token", Value: "bogus"})
	if w.Code != http.StatusUnauthorized {
		t.Errorf("expected 401 for bogus token, got %d", w.Code)
	}
	if b := decodeBody(t, w); b["error"] != "Authentication required" {
		t.Errorf("bogus token must produce the same error, got %v", b)
	}
}

func TestLogin_InvalidCredentials(t *testing.T) {
	r := setupRouter(t)
	seedTeacher(t, "alice", "password123")

	for _, body := range []string{
		`{"username":"alice","password":"wrongpass"}`,
		`{"username":"nosuch","password":"password123"}`,
	} {
		w := doJSON(r, http.MethodPost, "/login", body, nil)
		if w.Code != http.StatusUnauthorized {
			t.Errorf("expected 401, got %d for %s", w.Code, body)
		}
		if b := decodeBody(t, w); b["error"] != "Invalid credentials" {
			t.Errorf("unknown user and wrong password must be indistinguishable, got %v", b)
		}
	}
}

func TestStudentFlow_CreateMergeCapOverwriteDelete(t *testing.T) {
	r := setupRouter(t)
	seedTeacher(t, "alice", "password123")
	cookie := login(t, r, "alice", "password123")

	// Создание: Bob / Math / 70.
	w := doJSON(r, http.MethodPost, "/api/students/add", `{"name":"Bob","subject":"Math","marks":70}`, cookie)
	if w.Code != http.StatusCreated {
		t.Fatalf("add failed with status %d: %s", w.Code, w.Body.String())
	}
	body := decodeBody(t, w)
	if body["new_marks"] != float64(70) {
		t.Errorf("expected new_marks 70, got %v", body["new_marks"])
	}
	studentID := body["student_id"]

	// Слияние, превышающее потолок: отказ, оценки не меняются.
	w = doJSON(r, http.MethodPost, "/api/students/add", `{"name":"Bob","subject":"Math","marks":40}`, cookie)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for cap exceeded, got %d: %s", w.Code, w.Body.String())
	}
	formErrors := decodeBody(t, w)["form_errors"].(map[string]any)
	if formErrors["marks"] != "Total marks cannot exceed 100" {
		t.Errorf("unexpected cap message: %v", formErrors)
	}

	// Успешное слияние: 70 + 20 = 90.
	w = doJSON(r, http.MethodPost, "/api/students/add", `{"name":"Bob","subject":"Math","marks":20}`, cookie)
	if w.Code != http.StatusCreated {
		t.Fatalf("merge failed with status %d: %s", w.Code, w.Body.String())
	}
	body = decodeBody(t, w)
	if body["new_marks"] != float64(90) {
		t.Errorf("expected merged total 90, got %v", body["new_marks"])
	}
	if body["message"] != "Updated marks for Bob. New total: 90" {
		t.Errorf("unexpected merge message: %v", body["message"])
	}

	// Инлайн-обновление перезаписывает, а не сливает: 95, не 90+95.
	w = doJSON(r, http.MethodPost, "/api/students/update",
		fmt.Sprintf(`{"student_id":%v,"marks":95}`, studentID), cookie)
	if w.Code != http.StatusOK {
		t.Fatalf("inline update failed with status %d: %s", w.Code, w.Body.String())
	}
	student := decodeBody(t, w)["student"].(map[string]any)
	if student["marks"] != float64(95) {
		t.Errorf("inline update must overwrite to 95, got %v", student["marks"])
	}

	// Удаление.
	w = doJSON(r, http.MethodPost, "/api/students/delete",
		fmt.Sprintf(`{"student_id":%v}`, studentID), cookie)
	if w.Code != http.StatusOK {
		t.Fatalf("delete failed with status %d: %s", w.Code, w.Body.String())
	}

	w = doJSON(r, http.MethodGet, "/api/students", "", cookie)
	if students := decodeBody(t, w)["students"].([]any); len(students) != 0 {
		t.Errorf("expected empty student list after delete, got %v", students)
	}

	// Журнал аудита: LOGIN + 4 мутации, новые первыми.
	w = doJSON(r, http.MethodGet, "/api/audit-logs", "", cookie)
	if w.Code != http.StatusOK {
		t.Fatalf("audit list failed with status %d", w.Code)
	}
	logs := decodeBody(t, w)["logs"].([]any)
	want := []string{
		models.ActionDeleteStudent,
		models.ActionInlineUpdate,
		models.ActionUpdateMarks,
		models.ActionCreateStudent,
		models.ActionLogin,
	}
	if len(logs) != len(want) {
		t.Fatalf("expected %d audit entries, got %d", len(want), len(logs))
	}
	for i, raw := range logs {
		action := raw.(map[string]any)["action"]
		if action != want[i] {
			t.Errorf("audit position %d: expected %s, got %v", i, want[i], action)
		}
	}
}

func TestAddStudent_ValidationErrors(t *testing.T) {
	r := setupRouter(t)
	seedTeacher(t, "alice", "password123")
	cookie := login(t, r, "alice", "password123")

	tests := []struct {
		name  string
		body  string
		field string
	}{
		{"digits in name", `{"name":"Bob2","subject":"Math","marks":50}`, "name"},
		{"short subject", `{"name":"Bob","subject":"M","marks":50}`, "subject"},
		{"marks over range", `{"name":"Bob","subject":"Math","marks":101}`, "marks"},
		{"negative marks", `{"name":"Bob","subject":"Math","marks":-5}`, "marks"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := doJSON(r, http.MethodPost, "/api/students/add", tt.body, cookie)
			if w.Code != http.StatusBadRequest {
				t.Fatalf("expected 400, got %d: %s", w.Code, w.Body.String())
			}
			formErrors, ok := decodeBody(t, w)["form_errors"].(map[string]any)
			if !ok {
				t.Fatal("expected form_errors in response")
			}
			if _, exists := formErrors[tt.field]; !exists {
				t.Errorf("expected error for field %q, got %v", tt.field, formErrors)
			}
		})
	}
}

func TestLogout_RevokesSessionAndClearsCookie(t *testing.T) {
	r := setupRouter(t)
	seedTeacher(t, "alice", "password123")
	cookie := login(t, r, "alice", "password123")

	w := doJSON(r, http.MethodPost, "/logout", "", cookie)
	if w.Code != http.StatusOK {
		t.Fatalf("logout failed with status %d", w.Code)
	}

	// Старый токен больше не работает.
	w = doJSON(r, http.MethodGet, "/api/students", "", cookie)
	if w.Code != http.StatusUnauthorized {
		t.Errorf("expected 401 after logout, got %d", w.Code)
	}

	// Повторный выход с тем же токеном — no-op, не ошибка.
	w = doJSON(r, http.MethodPost, "/logout", "", cookie)
	if w.Code != http.StatusOK {
		t.Errorf("repeated logout must succeed, got %d", w.Code)
	}
}

func TestNewLogin_SupersedesPreviousSession(t *testing.T) {
	r := setupRouter(t)
	seedTeacher(t, "alice", "password123")

	first := login(t, r, "alice", "password123")
	second := login(t, r, "alice", "password123")

	w := doJSON(r, http.MethodGet, "/api/students", "", first)
	if w.Code != http.StatusUnauthorized {
		t.Errorf("previous session must be invalidated by new login, got %d", w.Code)
	}
	w = doJSON(r, http.MethodGet, "/api/students", "", second)
	if w.Code != http.StatusOK {
		t.Errorf("new session must be valid, got %d", w.Code)
	}
}

func TestRegister_CreatesTeacherAndRejectsDuplicates(t *testing.T) {
	r := setupRouter(t)

	w := doJSON(r, http.MethodPost, "/register", `{"username":"alice","password":"password123"}`, nil)
	if w.Code != http.StatusCreated {
		t.Fatalf("register failed with status %d: %s", w.Code, w.Body.String())
	}

	w = doJSON(r, http.MethodPost, "/register", `{"username":"alice","password":"password123"}`, nil)
	if w.Code != http.StatusConflict {
		t.Errorf("duplicate username must be rejected with 409, got %d", w.Code)
	}

	// Зарегистрированный учитель может войти.
	login(t, r, "alice", "password123")
}
