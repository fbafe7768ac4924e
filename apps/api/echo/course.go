package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/shule/core"
	"github.com/trezcool/shule/core/access"
	"github.com/trezcool/shule/core/course"
	"github.com/trezcool/shule/core/profile"
)

type courseApi struct {
	svc      *course.Service
	profiles *profile.Service
}

func registerCourseAPI(g *echo.Group, jwt echo.MiddlewareFunc, svc *course.Service, profiles *profile.Service) {
	api := courseApi{
		svc:      svc,
		profiles: profiles,
	}

	cg := g.Group("/courses", jwt)
	cg.GET("", api.query, policyMiddleware(access.ActionViewCourses))
	cg.POST("", api.create, policyMiddleware(access.ActionCreateCourse))
	cg.DELETE("", api.destroyMultiple, policyMiddleware(access.ActionDeleteCourse))
	cg.GET("/:id", api.retrieve, policyMiddleware(access.ActionViewCourses))
	cg.DELETE("/:id", api.destroy, policyMiddleware(access.ActionDeleteCourse))
	cg.GET("/:id/students", api.roster, policyMiddleware(access.ActionViewCourses))
	cg.POST("/:id/enroll", api.toggleEnrollment, policyMiddleware(access.ActionEnroll))
	cg.PUT("/:id/teacher", api.assignTeacher, policyMiddleware(access.ActionAssignTeacher))
}

// Handlers

// query lists courses with the acting student's enrollment flags; teacher
// callers get all flags down.
func (api *courseApi) query(ctx echo.Context) error {
	rctx := ctx.Request().Context()
	courses, err := api.svc.QueryAll(rctx)
	if err != nil {
		return errors.Wrap(err, "querying courses")
	}

	var studentID string
	if claims, err := getContextClaims(ctx); err == nil && claims.IsStudent {
		if std, err := api.profiles.GetStudentByUserID(rctx, claims.Subject); err == nil {
			studentID = std.ID
		}
	}

	decorated, err := api.svc.WithEnrollment(rctx, courses, studentID)
	if err != nil {
		return errors.Wrap(err, "decorating courses")
	}
	return ctx.JSON(http.StatusOK, decorated)
}

// create attributes the new course to the acting teacher's profile.
func (api *courseApi) create(ctx echo.Context) error {
	var data course.NewCourse
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewCourse")
	}
	if err := data.Validate(); err != nil {
		return err
	}

	claims, err := getContextClaims(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context claims")
	}

	rctx := ctx.Request().Context()
	tch, err := api.profiles.GetTeacherByUserID(rctx, claims.Subject)
	if err != nil {
		return errors.Wrap(err, "finding teacher profile")
	}

	crs, err := api.svc.Create(rctx, data, tch.ID)
	if err != nil {
		return errors.Wrap(err, "creating course")
	}
	return ctx.JSON(http.StatusCreated, crs)
}

func (api *courseApi) retrieve(ctx echo.Context) error {
	crs, err := api.svc.GetByID(ctx.Request().Context(), ctx.Param("id"))
	if err != nil {
		return errors.Wrap(err, "finding course by ID")
	}
	return ctx.JSON(http.StatusOK, crs)
}

func (api *courseApi) destroy(ctx echo.Context) error {
	rctx := ctx.Request().Context()
	crs, err := api.svc.GetByID(rctx, ctx.Param("id"))
	if err != nil {
		return errors.Wrap(err, "finding course by ID")
	}
	if err := api.svc.Delete(rctx, crs.ID); err != nil {
		return errors.Wrap(err, "deleting course")
	}
	return ctx.NoContent(http.StatusNoContent)
}

func (api *courseApi) destroyMultiple(ctx echo.Context) error {
	var query DestroyMultipleRequest
	if err := ctx.Bind(&query); err != nil {
		return errors.Wrap(err, "binding to DestroyMultipleRequest")
	}
	if query.IDs == nil {
		return ctx.NoContent(http.StatusNoContent)
	}

	if err := api.svc.Delete(ctx.Request().Context(), query.IDs...); err != nil {
		return errors.Wrap(err, "deleting courses")
	}
	return ctx.NoContent(http.StatusNoContent)
}

func (api *courseApi) roster(ctx echo.Context) error {
	students, err := api.svc.StudentsForCourse(ctx.Request().Context(), ctx.Param("id"))
	if err != nil {
		return errors.Wrap(err, "querying course roster")
	}
	return ctx.JSON(http.StatusOK, students)
}

// toggleEnrollment flips the acting student's enrollment in the course;
// both outcomes are successes.
func (api *courseApi) toggleEnrollment(ctx echo.Context) error {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context claims")
	}

	rctx := ctx.Request().Context()
	std, err := api.profiles.GetStudentByUserID(rctx, claims.Subject)
	if err != nil {
		return errors.Wrap(err, "finding student profile")
	}

	state, err := api.svc.Toggle(rctx, ctx.Param("id"), std.ID)
	if err != nil {
		return errors.Wrap(err, "toggling enrollment")
	}
	return ctx.JSON(http.StatusOK, EnrollmentResponse{State: state})
}

func (api *courseApi) assignTeacher(ctx echo.Context) error {
	var data AssignTeacherRequest
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to AssignTeacherRequest")
	}
	if err := data.Validate(); err != nil {
		return err
	}

	crs, err := api.svc.AssignTeacher(ctx.Request().Context(), ctx.Param("id"), data.TeacherID)
	if err != nil {
		return errors.Wrap(err, "assigning teacher")
	}
	return ctx.JSON(http.StatusOK, crs)
}

type (
	EnrollmentResponse struct {
		State course.EnrollmentState `json:"state"`
	}

	AssignTeacherRequest struct {
		TeacherID string `json:"teacher_id" validate:"required"`
	}
)

func (ar *AssignTeacherRequest) Validate() error {
	ar.TeacherID = core.CleanString(ar.TeacherID)
	return core.Validate.Struct(ar)
}
