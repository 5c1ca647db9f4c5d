package echoapi

import (
	"fmt"
	"net/http"
	"net/url"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/shusseki/core"
	"github.com/trezcool/shusseki/core/attendance"
	"github.com/trezcool/shusseki/services/spreadsheet"
)

const mimeXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

type classApi struct {
	svc      *attendance.Service
	validate *validator.Validate
}

func registerClassAPI(g *echo.Group, svc *attendance.Service, validate *validator.Validate) {
	api := classApi{svc: svc, validate: validate}

	cg := g.Group("/classes")
	cg.GET("", api.query)
	cg.POST("/import", api.importText)
	cg.POST("/import/xlsx", api.importXLSX)

	// detail endpoints
	dg := cg.Group("/:id")
	dg.GET("", api.retrieve)
	dg.DELETE("", api.destroy)
	dg.PUT("/seating", api.reorder)
	dg.GET("/export", api.export)
}

// Handlers

func (api *classApi) query(ctx echo.Context) error {
	classes, err := api.svc.ListClasses(bindOrderings(ctx)...)
	if err != nil {
		return errors.Wrap(err, "listing classes")
	}
	return ctx.JSON(http.StatusOK, classes)
}

func (api *classApi) importText(ctx echo.Context) error {
	var data attendance.PastedText
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to PastedText")
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}

	result, err := api.svc.ImportRoster(data.Text)
	return api.importResponse(ctx, result, err)
}

func (api *classApi) importXLSX(ctx echo.Context) error {
	fh, err := ctx.FormFile("file")
	if err != nil {
		return core.NewValidationError(err, core.FieldError{Field: "file", Error: "an .xlsx file is required"})
	}
	file, err := fh.Open()
	if err != nil {
		return errors.Wrap(err, "opening uploaded file")
	}
	defer func() { _ = file.Close() }()

	rows, err := spreadsheet.ReadRoster(file)
	if err != nil {
		if errors.Cause(err) == spreadsheet.ErrNoSheet {
			return err
		}
		return core.NewValidationError(err, core.FieldError{Field: "file", Error: "not a readable .xlsx file"})
	}

	result, err := api.svc.ImportRows(rows)
	return api.importResponse(ctx, result, err)
}

func (api *classApi) importResponse(ctx echo.Context, result attendance.ImportResult, err error) error {
	if err != nil {
		if errors.Cause(err) == attendance.ErrEmptyInput {
			return ctx.JSON(http.StatusBadRequest, echo.Map{"error": err.Error(), "skipped": result.Skipped})
		}
		return errors.Wrap(err, "importing roster")
	}
	return ctx.JSON(http.StatusCreated, result)
}

func (api *classApi) retrieve(ctx echo.Context) error {
	cls, err := api.svc.GetClass(ctx.Param("id"))
	if err != nil {
		return errors.Wrap(err, "getting class")
	}
	return ctx.JSON(http.StatusOK, cls)
}

func (api *classApi) destroy(ctx echo.Context) error {
	if err := api.svc.DeleteClass(ctx.Param("id")); err != nil {
		return errors.Wrap(err, "deleting class")
	}
	return ctx.NoContent(http.StatusNoContent)
}

func (api *classApi) reorder(ctx echo.Context) error {
	var data attendance.PastedText
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to PastedText")
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}

	cls, err := api.svc.ReorderSeats(ctx.Param("id"), data.Text)
	if err != nil {
		return errors.Wrap(err, "reordering seats")
	}
	return ctx.JSON(http.StatusOK, cls)
}

// export downloads the class attendance for `?date=` (repeatable; the selected date by default).
func (api *classApi) export(ctx echo.Context) error {
	cls, err := api.svc.GetClass(ctx.Param("id"))
	if err != nil {
		return errors.Wrap(err, "getting class")
	}

	dates := ctx.QueryParams()["date"]
	if len(dates) == 0 {
		dates = []string{api.svc.Selection().Date}
	}
	for i, date := range dates {
		if dates[i], err = attendance.ParseDate(date); err != nil {
			return core.NewValidationError(err, core.FieldError{Field: "date", Error: err.Error()})
		}
	}

	buf, filename, err := spreadsheet.ExportAttendance(cls, dates)
	if err != nil {
		return errors.Wrap(err, "exporting attendance")
	}
	ctx.Response().Header().Set(
		echo.HeaderContentDisposition,
		fmt.Sprintf("attachment; filename=%q; filename*=UTF-8''%s", filename, url.PathEscape(filename)),
	)
	return ctx.Blob(http.StatusOK, mimeXLSX, buf.Bytes())
}
