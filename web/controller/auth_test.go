package controller

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"faceattend/config"
	"faceattend/database"
	"faceattend/util/jwt"
	"faceattend/web/service"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func setupRouter(t *testing.T) (*gin.Engine, *jwt.Issuer) {
	t.Helper()

	os.Remove("test.db")
	assert.NoError(t, database.InitDB("test.db"))
	t.Cleanup(func() {
		db, _ := database.GetDB().DB()
		db.Close()
		os.Remove("test.db")
	})

	settings := &config.Settings{
		Port:         5501,
		UploadDir:    filepath.Join(t.TempDir(), "uploads"),
		ReplicaDir:   filepath.Join(t.TempDir(), "students"),
		AssetDirName: "students",
		JWTSecret:    "test-secret",
		TokenTTL:     time.Hour,
	}

	issuer := jwt.NewIssuer(settings.JWTSecret, settings.TokenTTL)
	encode := service.NewEncodeService("http://127.0.0.1:1/encode", time.Second)
	enrollment := service.NewEnrollmentService(encode, settings.UploadDir, settings.ReplicaDir, settings.AssetDirName)

	gin.SetMode(gin.TestMode)
	engine := gin.New()
	NewAuthController(engine.Group("/api/auth"), settings, issuer, enrollment)
	return engine, issuer
}

type msgEnvelope struct {
	Success bool            `json:"success"`
	Msg     string          `json:"msg"`
	Obj     json.RawMessage `json:"obj"`
}

func doJSON(t *testing.T, engine *gin.Engine, method, url string, body any) (*httptest.ResponseRecorder, msgEnvelope) {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		assert.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, url, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)

	var envelope msgEnvelope
	json.Unmarshal(w.Body.Bytes(), &envelope)
	return w, envelope
}

func doUpload(t *testing.T, engine *gin.Engine, email, filename, content string) (*httptest.ResponseRecorder, msgEnvelope) {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	assert.NoError(t, mw.WriteField("email", email))
	fw, err := mw.CreateFormFile("file", filename)
	assert.NoError(t, err)
	fw.Write([]byte(content))
	mw.Close()

	req := httptest.NewRequest(http.MethodPost, "/api/auth/upload-photo", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)

	var envelope msgEnvelope
	json.Unmarshal(w.Body.Bytes(), &envelope)
	return w, envelope
}

func TestPing(t *testing.T) {
	engine, _ := setupRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/api/auth/ping", nil)
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	var body map[string]string
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Contains(t, body["status"], "running")
	assert.Equal(t, "5501", body["port"])
}

func TestEndToEndStudentEnrollment(t *testing.T) {
	engine, issuer := setupRouter(t)

	// Register a student.
	w, envelope := doJSON(t, engine, http.MethodPost, "/api/auth/register", RegisterForm{
		Id:       7,
		Name:     "Alice",
		Email:    "alice@example.com",
		Password: "secret",
		Role:     "student",
	})
	assert.Equal(t, http.StatusOK, w.Code)
	assert.True(t, envelope.Success)

	// Upload a photo with a name that needs sanitizing.
	w, envelope = doUpload(t, engine, "alice@example.com", "My Photo!!.PNG", "image-bytes")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.True(t, envelope.Success)
	var uploadObj map[string]string
	assert.NoError(t, json.Unmarshal(envelope.Obj, &uploadObj))
	assert.Equal(t, "students/My_Photo__.PNG", uploadObj["path"])

	// Login returns the token and the recorded path.
	w, envelope = doJSON(t, engine, http.MethodPost, "/api/auth/login", LoginForm{
		Email:    "alice@example.com",
		Password: "secret",
	})
	assert.Equal(t, http.StatusOK, w.Code)
	assert.True(t, envelope.Success)
	var login loginResponse
	assert.NoError(t, json.Unmarshal(envelope.Obj, &login))
	assert.Equal(t, "STUDENT", login.Role)
	assert.Equal(t, int64(7), login.Id)
	if assert.NotNil(t, login.ImagePath) {
		assert.Equal(t, "students/My_Photo__.PNG", *login.ImagePath)
	}

	claims, err := issuer.Verify(login.Token)
	assert.NoError(t, err)
	assert.Equal(t, "STUDENT", claims.Role)

	// The token introspection endpoint accepts the issued token.
	req := httptest.NewRequest(http.MethodGet, "/api/auth/me", nil)
	req.Header.Set("Authorization", "Bearer "+login.Token)
	w = httptest.NewRecorder()
	engine.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)

	// The student listing includes alice with her path.
	w, envelope = doJSON(t, engine, http.MethodGet, "/api/auth/all-students", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	var students []studentEntry
	assert.NoError(t, json.Unmarshal(envelope.Obj, &students))
	if assert.Len(t, students, 1) {
		assert.Equal(t, "Alice", students[0].Name)
		if assert.NotNil(t, students[0].ImagePath) {
			assert.Equal(t, "students/My_Photo__.PNG", *students[0].ImagePath)
		}
	}
}

func TestRegisterRejectsUnknownRole(t *testing.T) {
	engine, _ := setupRouter(t)

	w, envelope := doJSON(t, engine, http.MethodPost, "/api/auth/register", RegisterForm{
		Id:       1,
		Name:     "Mallory",
		Email:    "mallory@example.com",
		Password: "pw",
		Role:     "intern",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.False(t, envelope.Success)
	assert.Equal(t, "Invalid role specified.", envelope.Msg)
}

func TestRegisterDuplicateEmailConflict(t *testing.T) {
	engine, _ := setupRouter(t)

	w, _ := doJSON(t, engine, http.MethodPost, "/api/auth/register", RegisterForm{
		Id: 1, Name: "Alice", Email: "alice@example.com", Password: "pw", Role: "STUDENT",
	})
	assert.Equal(t, http.StatusOK, w.Code)

	w, envelope := doJSON(t, engine, http.MethodPost, "/api/auth/register", RegisterForm{
		Id: 2, Name: "Imposter", Email: "alice@example.com", Password: "pw", Role: "FACULTY",
	})
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.False(t, envelope.Success)
}

func TestLoginFailureIsUniform(t *testing.T) {
	engine, _ := setupRouter(t)

	doJSON(t, engine, http.MethodPost, "/api/auth/register", RegisterForm{
		Id: 1, Name: "Alice", Email: "alice@example.com", Password: "secret", Role: "STUDENT",
	})

	// Unknown user and wrong password yield identical status and body.
	wMissing, envMissing := doJSON(t, engine, http.MethodPost, "/api/auth/login", LoginForm{
		Email: "nobody@example.com", Password: "secret",
	})
	wWrong, envWrong := doJSON(t, engine, http.MethodPost, "/api/auth/login", LoginForm{
		Email: "alice@example.com", Password: "wrong",
	})
	assert.Equal(t, http.StatusUnauthorized, wMissing.Code)
	assert.Equal(t, http.StatusUnauthorized, wWrong.Code)
	assert.Equal(t, envMissing, envWrong)
}

func TestUploadUnknownUser(t *testing.T) {
	engine, _ := setupRouter(t)

	w, envelope := doUpload(t, engine, "nobody@example.com", "photo.png", "image-bytes")
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.False(t, envelope.Success)
	assert.Equal(t, "User not found.", envelope.Msg)
}

func TestFacultyImagePathHidden(t *testing.T) {
	engine, _ := setupRouter(t)

	doJSON(t, engine, http.MethodPost, "/api/auth/register", RegisterForm{
		Id: 1, Name: "Dean", Email: "dean@example.com", Password: "pw", Role: "FACULTY",
	})

	_, envelope := doJSON(t, engine, http.MethodPost, "/api/auth/login", LoginForm{
		Email: "dean@example.com", Password: "pw",
	})
	var login loginResponse
	assert.NoError(t, json.Unmarshal(envelope.Obj, &login))
	assert.Nil(t, login.ImagePath)
}
