package echoapi

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/darasa/core/submission"
)

type submissionApi struct {
	svc      submission.Service
	validate *validator.Validate
}

func registerSubmissionAPI(e *echo.Echo, svc submission.Service, validate *validator.Validate) {
	api := submissionApi{svc: svc, validate: validate}

	e.POST("/submission", api.create)
	e.POST("/submission/attachment/:id", api.uploadAttachment)
	e.GET("/submission/getAttachment/:aid/:sid", api.downloadAttachment)
	e.GET("/hasSubmitted/:aid/:sid", api.hasSubmitted)
	e.GET("/marks/:id", api.gradebook)
	e.POST("/submission/grade/:aid/:sid", api.grade)
}

// Handlers

func (api *submissionApi) create(ctx echo.Context) error {
	var data submission.NewSubmission
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewSubmission")
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}

	sub, err := api.svc.Create(ctx.Request().Context(), data)
	if err != nil {
		return errors.Wrap(err, "creating submission")
	}
	return ctx.JSON(http.StatusCreated, ok(sub))
}

func (api *submissionApi) uploadAttachment(ctx echo.Context) error {
	att, err := bindAttachment(ctx)
	if err != nil {
		return err
	}
	if err := api.svc.AttachFile(ctx.Request().Context(), ctx.Param("id"), att); err != nil {
		return errors.Wrap(err, "attaching file to submission")
	}
	return ctx.NoContent(http.StatusOK)
}

func (api *submissionApi) downloadAttachment(ctx echo.Context) error {
	file, err := api.svc.GetFileByIDs(ctx.Request().Context(), ctx.Param("aid"), ctx.Param("sid"))
	if err != nil {
		return errors.Wrap(err, "getting submission attachment")
	}
	return ctx.Blob(http.StatusOK, attachmentContentType, file)
}

func (api *submissionApi) hasSubmitted(ctx echo.Context) error {
	submitted, err := api.svc.HasSubmitted(ctx.Request().Context(), ctx.Param("aid"), ctx.Param("sid"))
	if err != nil {
		return errors.Wrap(err, "checking submission")
	}
	return ctx.JSON(http.StatusOK, SuccessResponse{Success: submitted})
}

func (api *submissionApi) gradebook(ctx echo.Context) error {
	rows, err := api.svc.GradebookView(ctx.Request().Context(), ctx.Param("id"))
	if err != nil {
		return errors.Wrap(err, "building gradebook")
	}
	if rows == nil {
		rows = []submission.GradebookRow{}
	}
	return ctx.JSON(http.StatusOK, GradebookResponse{Success: true, Submitted: rows})
}

func (api *submissionApi) grade(ctx echo.Context) error {
	var data GradeRequest
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to GradeRequest")
	}
	if err := api.validate.Struct(&data); err != nil {
		return err
	}

	err := api.svc.Grade(ctx.Request().Context(), ctx.Param("aid"), ctx.Param("sid"), data.Marks)
	if err != nil {
		return errors.Wrap(err, "grading submission")
	}
	return ctx.JSON(http.StatusOK, SuccessResponse{Success: true})
}

type (
	GradebookResponse struct {
		Success   bool                      `json:"success"`
		Submitted []submission.GradebookRow `json:"submitted"`
	}

	GradeRequest struct {
		Marks int `json:"marks" validate:"gte=0"`
	}
)
