package echoapi

import (
	"io"
	"io/ioutil"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/darasa/core"
	"github.com/trezcool/darasa/core/assignment"
)

// attachmentContentType is what the portals expect on download, whatever the upload kind.
const attachmentContentType = "application/pdf"

type assignmentApi struct {
	svc      assignment.Service
	validate *validator.Validate
}

func registerAssignmentAPI(e *echo.Echo, svc assignment.Service, validate *validator.Validate) {
	api := assignmentApi{svc: svc, validate: validate}

	e.POST("/assignment", api.create)
	e.GET("/course/assignment/:id", api.queryByCourse)
	e.GET("/assignment/:id", api.retrieve)
	e.DELETE("/assignment/:id", api.destroy)
	e.POST("/assignment/attachment/:id", api.uploadAttachment)
	e.GET("/assignment/attachment/:id", api.downloadAttachment)
	e.GET("/hasAttachment/:id", api.hasAttachment)
	e.GET("/studentCount/assignment/:id", api.countEnrolled)
}

// Handlers

func (api *assignmentApi) create(ctx echo.Context) error {
	var data assignment.NewAssignment
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewAssignment")
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}

	asg, err := api.svc.Create(ctx.Request().Context(), data)
	if err != nil {
		return errors.Wrap(err, "creating assignment")
	}
	return ctx.JSON(http.StatusCreated, ok(asg))
}

func (api *assignmentApi) queryByCourse(ctx echo.Context) error {
	assignments, err := api.svc.QueryByCourse(ctx.Request().Context(), ctx.Param("id"))
	if err != nil {
		return errors.Wrap(err, "querying assignments by course")
	}
	if assignments == nil {
		assignments = []assignment.Assignment{}
	}
	return ctx.JSON(http.StatusOK, ok(assignments))
}

func (api *assignmentApi) retrieve(ctx echo.Context) error {
	asg, err := api.svc.GetByID(ctx.Request().Context(), ctx.Param("id"))
	if err != nil {
		return errors.Wrap(err, "finding assignment by ID")
	}
	return ctx.JSON(http.StatusOK, ok(asg))
}

func (api *assignmentApi) destroy(ctx echo.Context) error {
	asg, found, err := api.svc.Delete(ctx.Request().Context(), ctx.Param("id"))
	if err != nil {
		return errors.Wrap(err, "deleting assignment")
	}
	if !found {
		return ctx.JSON(http.StatusOK, SuccessResponse{Success: false})
	}
	return ctx.JSON(http.StatusOK, ok(asg))
}

func (api *assignmentApi) uploadAttachment(ctx echo.Context) error {
	att, err := bindAttachment(ctx)
	if err != nil {
		return err
	}
	if err := api.svc.AttachFile(ctx.Request().Context(), ctx.Param("id"), att); err != nil {
		return errors.Wrap(err, "attaching file to assignment")
	}
	return ctx.NoContent(http.StatusOK)
}

func (api *assignmentApi) downloadAttachment(ctx echo.Context) error {
	file, err := api.svc.GetFile(ctx.Request().Context(), ctx.Param("id"))
	if err != nil {
		return errors.Wrap(err, "getting assignment attachment")
	}
	return ctx.Blob(http.StatusOK, attachmentContentType, file)
}

func (api *assignmentApi) hasAttachment(ctx echo.Context) error {
	exists, err := api.svc.HasAttachment(ctx.Request().Context(), ctx.Param("id"))
	if err != nil {
		return errors.Wrap(err, "checking assignment attachment")
	}
	return ctx.JSON(http.StatusOK, FileExistsResponse{Success: exists, FileExists: exists})
}

func (api *assignmentApi) countEnrolled(ctx echo.Context) error {
	count, err := api.svc.CountEnrolled(ctx.Request().Context(), ctx.Param("id"))
	if err != nil {
		return errors.Wrap(err, "counting students for assignment")
	}
	return ctx.JSON(http.StatusOK, ok(CountData{Count: count}))
}

type FileExistsResponse struct {
	Success    bool `json:"success"`
	FileExists bool `json:"file_exists"`
}

// bindAttachment reads the "file" part of a multipart upload into a core.Attachment.
func bindAttachment(ctx echo.Context) (core.Attachment, error) {
	fh, err := ctx.FormFile("file")
	if err != nil {
		return core.Attachment{}, core.NewValidationError(nil, core.FieldError{Field: "file", Error: "a file is required"})
	}

	src, err := fh.Open()
	if err != nil {
		return core.Attachment{}, errors.Wrap(err, "opening uploaded file")
	}
	defer src.Close()

	content, err := ioutil.ReadAll(io.LimitReader(src, core.MaxAttachmentSize+1))
	if err != nil {
		return core.Attachment{}, errors.Wrap(err, "reading uploaded file")
	}
	return core.Attachment{Filename: fh.Filename, Content: content}, nil
}
