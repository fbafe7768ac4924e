package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/shule/core"
	"github.com/trezcool/shule/core/access"
	"github.com/trezcool/shule/core/profile"
	"github.com/trezcool/shule/core/user"
)

type userApi struct {
	svc    *user.Service
	binder *profile.Binder
}

func registerUserAPI(g *echo.Group, jwt echo.MiddlewareFunc, svc *user.Service, binder *profile.Binder) {
	api := userApi{
		svc:    svc,
		binder: binder,
	}

	ug := g.Group("/users")

	// un-authed endpoints
	// TODO: rate limit `/register` & `/login`
	ug.POST("/register", api.register, policyMiddleware(access.ActionRegister))
	ug.POST("/login", api.login, policyMiddleware(access.ActionLogin))

	// authed endpoints
	ag := ug.Group("", jwt)
	ag.POST("/token-refresh", api.refreshToken)
	ag.GET("", api.query)
}

// Handlers

// register creates the account and its role-specific profile in one go; a
// profile failure surfaces as a failed registration.
func (api *userApi) register(ctx echo.Context) error {
	var data user.NewUser
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewUser")
	}
	if err := data.Validate(); err != nil {
		return err
	}

	rctx := ctx.Request().Context()
	usr, err := api.svc.Register(rctx, data)
	if err != nil {
		return errors.Wrap(err, "registering user")
	}
	prof, err := api.binder.Bind(rctx, usr, data.Email)
	if err != nil {
		return errors.Wrap(err, "binding profile")
	}

	return ctx.JSON(http.StatusCreated, RegisterResponse{Account: usr, Profile: prof})
}

func (api *userApi) login(ctx echo.Context) error {
	var data LoginRequest
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to LoginRequest")
	}
	if err := data.Validate(); err != nil {
		return err
	}

	claims, err := authenticate(ctx.Request().Context(), data.Username, data.Password, api.svc)
	if err != nil {
		return errors.Wrap(err, "authenticating")
	}
	token, err := GenerateToken(claims)
	if err != nil {
		return errors.Wrap(err, "generating token")
	}

	return ctx.JSON(http.StatusOK, LoginResponse{Token: token})
}

func (api *userApi) query(ctx echo.Context) error {
	users, err := api.svc.QueryAll(ctx.Request().Context())
	if err != nil {
		return errors.Wrap(err, "querying users")
	}
	if users == nil {
		users = []user.User{}
	}
	return ctx.JSON(http.StatusOK, users)
}

func (api *userApi) refreshToken(ctx echo.Context) error {
	token, err := refreshToken(ctx, api.svc)
	if err != nil {
		return errors.Wrap(err, "refreshing token")
	}
	return ctx.JSON(http.StatusOK, LoginResponse{Token: token})
}

type (
	LoginRequest struct {
		Username string `json:"username" validate:"required"`
		Password string `json:"password" validate:"required"`
	}

	LoginResponse struct {
		Token string `json:"token"`
	}

	RegisterResponse struct {
		Account user.User       `json:"account"`
		Profile profile.Profile `json:"profile"`
	}
)

func (lr *LoginRequest) Validate() error {
	lr.Username = core.CleanString(lr.Username, true /* lower */)
	return core.Validate.Struct(lr)
}
