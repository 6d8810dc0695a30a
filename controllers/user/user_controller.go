package userController

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/kkarimsherif/iron-forge/middlewares"
	"github.com/kkarimsherif/iron-forge/responses"
	"github.com/kkarimsherif/iron-forge/services"
)

type Controller struct {
	users *services.UserService
}

func NewController(users *services.UserService) *Controller {
	return &Controller{users: users}
}

// SignupRequest holds the data to register an account
type SignupRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (r *SignupRequest) Validate() error {
	if r.Name == "" {
		return services.Validationf("please provide a name")
	}
	r.Email = strings.ToLower(strings.TrimSpace(r.Email))
	if r.Email == "" || !strings.Contains(r.Email, "@") {
		return services.Validationf("please provide a valid email")
	}
	if len(r.Password) < 6 {
		return services.Validationf("password must be at least 6 characters")
	}
	return nil
}

// LoginRequest holds sign-in credentials
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// UpdateProfileRequest holds the self-service profile fields
type UpdateProfileRequest struct {
	Name  *string `json:"name"`
	Phone *string `json:"phone"`
}

// Signup handles POST /api/auth/signup
func (ctl *Controller) Signup(c *fiber.Ctx) error {
	var req SignupRequest
	if err := c.BodyParser(&req); err != nil {
		return responses.Error(c, services.Validationf("invalid request body"))
	}
	if err := req.Validate(); err != nil {
		return responses.Error(c, err)
	}

	user, err := ctl.users.Signup(c.Context(), req.Name, req.Email, req.Password)
	if err != nil {
		return responses.Error(c, err)
	}

	token, err := ctl.users.GenerateToken(user)
	if err != nil {
		return responses.Error(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(responses.OK(fiber.Map{
		"user":  user,
		"token": token,
	}))
}

// Login handles POST /api/auth/login
func (ctl *Controller) Login(c *fiber.Ctx) error {
	var req LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return responses.Error(c, services.Validationf("invalid request body"))
	}
	if req.Email == "" || req.Password == "" {
		return responses.Error(c, services.Validationf("please provide email and password"))
	}

	user, err := ctl.users.Authenticate(c.Context(), strings.ToLower(strings.TrimSpace(req.Email)), req.Password)
	if err != nil {
		return responses.Error(c, err)
	}

	token, err := ctl.users.GenerateToken(user)
	if err != nil {
		return responses.Error(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(responses.OK(fiber.Map{
		"user":  user,
		"token": token,
	}))
}

// Me handles GET /api/users/me
func (ctl *Controller) Me(c *fiber.Ctx) error {
	user := middlewares.CurrentUser(c)
	return c.Status(fiber.StatusOK).JSON(responses.OK(fiber.Map{"user": user}))
}

// UpdateMe handles PATCH /api/users/me
func (ctl *Controller) UpdateMe(c *fiber.Ctx) error {
	user := middlewares.CurrentUser(c)

	var req UpdateProfileRequest
	if err := c.BodyParser(&req); err != nil {
		return responses.Error(c, services.Validationf("invalid request body"))
	}

	updated, err := ctl.users.UpdateProfile(c.Context(), user.Id, services.ProfileUpdate{
		Name:  req.Name,
		Phone: req.Phone,
	})
	if err != nil {
		return responses.Error(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(responses.OK(fiber.Map{"user": updated}))
}
