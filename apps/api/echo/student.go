package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/shule/core/access"
	"github.com/trezcool/shule/core/profile"
)

type studentApi struct {
	svc *profile.Service
}

func registerStudentAPI(g *echo.Group, jwt echo.MiddlewareFunc, svc *profile.Service) {
	api := studentApi{svc: svc}

	sg := g.Group("/students", jwt)
	sg.GET("", api.query, policyMiddleware(access.ActionViewStudents))
	sg.POST("", api.create, policyMiddleware(access.ActionCreateStudent))
	sg.DELETE("", api.destroyMultiple, policyMiddleware(access.ActionDeleteStudent))
	sg.GET("/:id", api.retrieve, policyMiddleware(access.ActionViewStudents))
	sg.PUT("/:id", api.update, policyMiddleware(access.ActionEditStudent))
	sg.DELETE("/:id", api.destroy, policyMiddleware(access.ActionDeleteStudent))

	tg := g.Group("/teachers", jwt)
	tg.GET("", api.queryTeachers, policyMiddleware(access.ActionViewStudents))
	tg.GET("/:id", api.retrieveTeacher, policyMiddleware(access.ActionViewStudents))
}

// Handlers

func (api *studentApi) query(ctx echo.Context) error {
	students, err := api.svc.QueryAllStudents(ctx.Request().Context())
	if err != nil {
		return errors.Wrap(err, "querying students")
	}
	if students == nil {
		students = []profile.Student{}
	}
	return ctx.JSON(http.StatusOK, students)
}

func (api *studentApi) create(ctx echo.Context) error {
	var data profile.NewStudent
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewStudent")
	}
	if err := data.Validate(); err != nil {
		return err
	}

	std, err := api.svc.CreateStudent(ctx.Request().Context(), data)
	if err != nil {
		return errors.Wrap(err, "creating student")
	}
	return ctx.JSON(http.StatusCreated, std)
}

func (api *studentApi) retrieve(ctx echo.Context) error {
	std, err := api.svc.GetStudent(ctx.Request().Context(), ctx.Param("id"))
	if err != nil {
		return errors.Wrap(err, "finding student by ID")
	}
	return ctx.JSON(http.StatusOK, std)
}

// update lets a student edit their own record only; the record must be
// linked to the acting account.
func (api *studentApi) update(ctx echo.Context) error {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context claims")
	}

	rctx := ctx.Request().Context()
	std, err := api.svc.GetStudent(rctx, ctx.Param("id"))
	if err != nil {
		return errors.Wrap(err, "finding student by ID")
	}
	if std.UserID != claims.Subject {
		return errHttpForbidden
	}

	var data profile.UpdateStudent
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to UpdateStudent")
	}

	std, err = api.svc.UpdateStudent(rctx, std.ID, data)
	if err != nil {
		return errors.Wrap(err, "updating student")
	}
	return ctx.JSON(http.StatusOK, std)
}

func (api *studentApi) destroy(ctx echo.Context) error {
	rctx := ctx.Request().Context()
	std, err := api.svc.GetStudent(rctx, ctx.Param("id"))
	if err != nil {
		return errors.Wrap(err, "finding student by ID")
	}
	if err := api.svc.DeleteStudents(rctx, std.ID); err != nil {
		return errors.Wrap(err, "deleting student")
	}
	return ctx.NoContent(http.StatusNoContent)
}

func (api *studentApi) destroyMultiple(ctx echo.Context) error {
	var query DestroyMultipleRequest
	if err := ctx.Bind(&query); err != nil {
		return errors.Wrap(err, "binding to DestroyMultipleRequest")
	}
	if query.IDs == nil {
		return ctx.NoContent(http.StatusNoContent)
	}

	if err := api.svc.DeleteStudents(ctx.Request().Context(), query.IDs...); err != nil {
		return errors.Wrap(err, "deleting students")
	}
	return ctx.NoContent(http.StatusNoContent)
}

func (api *studentApi) queryTeachers(ctx echo.Context) error {
	teachers, err := api.svc.QueryAllTeachers(ctx.Request().Context())
	if err != nil {
		return errors.Wrap(err, "querying teachers")
	}
	if teachers == nil {
		teachers = []profile.Teacher{}
	}
	return ctx.JSON(http.StatusOK, teachers)
}

func (api *studentApi) retrieveTeacher(ctx echo.Context) error {
	tch, err := api.svc.GetTeacher(ctx.Request().Context(), ctx.Param("id"))
	if err != nil {
		return errors.Wrap(err, "finding teacher by ID")
	}
	return ctx.JSON(http.StatusOK, tch)
}

type DestroyMultipleRequest struct {
	IDs []string `query:"id"`
}
