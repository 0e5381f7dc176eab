package controller

import (
	"errors"
	"net/http"
	"strconv"

	"faceattend/config"
	"faceattend/database/model"
	"faceattend/util/jwt"
	"faceattend/web/service"

	"github.com/gin-gonic/gin"
)

// RegisterForm is the registration request body.
type RegisterForm struct {
	Id        int64  `json:"id" form:"id"`
	Name      string `json:"name" form:"name"`
	Email     string `json:"email" form:"email"`
	Password  string `json:"password" form:"password"`
	Role      string `json:"role" form:"role"`
	ImagePath string `json:"imagePath" form:"imagePath"`
}

// LoginForm is the login request body.
type LoginForm struct {
	Email    string `json:"email" form:"email"`
	Password string `json:"password" form:"password"`
}

type registerResponse struct {
	Message   string  `json:"message"`
	Id        int64   `json:"id"`
	Name      string  `json:"name"`
	Email     string  `json:"email"`
	Role      string  `json:"role"`
	ImagePath *string `json:"imagePath"`
}

type loginResponse struct {
	Token     string  `json:"token"`
	Role      string  `json:"role"`
	Id        int64   `json:"id"`
	Name      string  `json:"name"`
	Email     string  `json:"email"`
	ImagePath *string `json:"imagePath"`
}

type studentEntry struct {
	Id        int64   `json:"id"`
	Name      string  `json:"name"`
	Email     string  `json:"email"`
	Role      string  `json:"role"`
	ImagePath *string `json:"imagePath"`
}

// AuthController handles registration, login, photo enrollment and the
// student listing.
type AuthController struct {
	BaseController

	settings *config.Settings

	userService       service.UserService
	enrollmentService *service.EnrollmentService
}

// NewAuthController creates an AuthController and registers its routes
// on the given group.
func NewAuthController(g *gin.RouterGroup, settings *config.Settings, issuer *jwt.Issuer, enrollment *service.EnrollmentService) *AuthController {
	a := &AuthController{
		BaseController:    BaseController{issuer: issuer},
		settings:          settings,
		enrollmentService: enrollment,
	}
	a.initRouter(g)
	return a
}

func (a *AuthController) initRouter(g *gin.RouterGroup) {
	g.GET("/ping", a.ping)
	g.GET("/me", a.me)
	g.GET("/all-students", a.allStudents)

	g.POST("/register", a.register)
	g.POST("/login", a.login)
	g.POST("/upload-photo", a.uploadPhoto)
}

// ping reports that the backend is up.
func (a *AuthController) ping(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": config.GetName() + " backend running!",
		"port":   strconv.Itoa(a.settings.Port),
	})
}

// register creates a new student or faculty user.
func (a *AuthController) register(c *gin.Context) {
	var form RegisterForm
	if err := c.ShouldBind(&form); err != nil {
		jsonError(c, http.StatusBadRequest, "Invalid register request.", err)
		return
	}

	user, err := a.userService.Register(form.Id, form.Name, form.Email, form.Password, form.Role, form.ImagePath)
	if errors.Is(err, model.ErrInvalidRole) {
		jsonError(c, http.StatusBadRequest, "Invalid role specified.", nil)
		return
	} else if errors.Is(err, service.ErrUnsafeImagePath) {
		jsonError(c, http.StatusBadRequest, "Invalid image path.", nil)
		return
	} else if errors.Is(err, service.ErrDuplicateEmail) {
		jsonError(c, http.StatusConflict, "User already exists or invalid data.", nil)
		return
	} else if err != nil {
		jsonError(c, http.StatusInternalServerError, "Unexpected error during registration.", err)
		return
	}

	jsonObj(c, registerResponse{
		Message:   "User registered successfully!",
		Id:        user.Id,
		Name:      user.Name,
		Email:     user.Email,
		Role:      string(user.Role),
		ImagePath: user.PublicImagePath(),
	})
}

// login verifies credentials and issues a token.
func (a *AuthController) login(c *gin.Context) {
	var form LoginForm
	if err := c.ShouldBind(&form); err != nil {
		jsonError(c, http.StatusBadRequest, "Invalid login request.", err)
		return
	}

	user, err := a.userService.Login(form.Email, form.Password)
	if errors.Is(err, service.ErrInvalidCredentials) {
		jsonError(c, http.StatusUnauthorized, "Invalid email or password.", nil)
		return
	} else if err != nil {
		jsonError(c, http.StatusInternalServerError, "Unexpected error during login.", err)
		return
	}

	token, err := a.issuer.Issue(user.Id, user.Name, user.Email, string(user.Role))
	if err != nil {
		jsonError(c, http.StatusInternalServerError, "Unexpected error during login.", err)
		return
	}

	jsonObj(c, loginResponse{
		Token:     token,
		Role:      string(user.Role),
		Id:        user.Id,
		Name:      user.Name,
		Email:     user.Email,
		ImagePath: user.PublicImagePath(),
	})
}

// me returns the claims of the presented bearer token.
func (a *AuthController) me(c *gin.Context) {
	claims := a.bearerClaims(c)
	if claims == nil {
		jsonError(c, http.StatusUnauthorized, "Authentication required.", nil)
		return
	}
	jsonObj(c, gin.H{
		"id":    claims.Uid,
		"name":  claims.Name,
		"email": claims.Subject,
		"role":  claims.Role,
	})
}

// uploadPhoto stores a student photo in both storage areas and records
// its canonical path.
func (a *AuthController) uploadPhoto(c *gin.Context) {
	email := c.PostForm("email")
	file, err := c.FormFile("file")
	if err != nil {
		jsonError(c, http.StatusBadRequest, "Photo file is required.", err)
		return
	}

	src, err := file.Open()
	if err != nil {
		jsonError(c, http.StatusBadRequest, "Photo file is not readable.", err)
		return
	}
	defer src.Close()

	relativePath, err := a.enrollmentService.Enroll(email, file.Filename, src)
	if errors.Is(err, service.ErrUnknownUser) {
		jsonError(c, http.StatusBadRequest, "User not found.", nil)
		return
	} else if errors.Is(err, service.ErrPrimaryWrite) {
		jsonError(c, http.StatusInternalServerError, "Photo upload failed.", err)
		return
	} else if errors.Is(err, service.ErrReplicaWrite) {
		jsonError(c, http.StatusInternalServerError, "Photo stored but replica copy failed.", err)
		return
	} else if err != nil {
		jsonError(c, http.StatusInternalServerError, "Unexpected error during upload.", err)
		return
	}

	jsonMsgObj(c, "Photo uploaded and recorded.", gin.H{
		"path": relativePath,
	})
}

// allStudents lists registered students ordered by name.
func (a *AuthController) allStudents(c *gin.Context) {
	students, err := a.userService.ListStudents()
	if err != nil {
		jsonError(c, http.StatusInternalServerError, "Error fetching students.", err)
		return
	}

	entries := make([]studentEntry, 0, len(students))
	for _, s := range students {
		entries = append(entries, studentEntry{
			Id:        s.Id,
			Name:      s.Name,
			Email:     s.Email,
			Role:      string(s.Role),
			ImagePath: s.PublicImagePath(),
		})
	}
	jsonObj(c, entries)
}
