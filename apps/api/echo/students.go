package echoapi

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/shusseki/core/attendance"
)

type studentApi struct {
	svc      *attendance.Service
	validate *validator.Validate
}

func registerStudentAPI(g *echo.Group, svc *attendance.Service, validate *validator.Validate) {
	api := studentApi{svc: svc, validate: validate}

	sg := g.Group("/students/:id/status")
	sg.GET("", api.retrieveStatus)
	sg.PUT("", api.setStatus)
	sg.POST("/next", api.advanceStatus)
}

type StatusResponse struct {
	StudentID string            `json:"student_id"`
	Date      string            `json:"date"`
	Status    attendance.Status `json:"status"`
	Label     string            `json:"label"`
}

func newStatusResponse(studentID, date string, status attendance.Status) StatusResponse {
	return StatusResponse{StudentID: studentID, Date: date, Status: status, Label: status.Label()}
}

// Handlers

func (api *studentApi) retrieveStatus(ctx echo.Context) error {
	date := ctx.QueryParam("date")
	if date == "" {
		date = api.svc.Selection().Date
	}
	status, err := api.svc.GetStatus(ctx.Param("id"), date)
	if err != nil {
		return errors.Wrap(err, "getting status")
	}
	return ctx.JSON(http.StatusOK, newStatusResponse(ctx.Param("id"), date, status))
}

func (api *studentApi) setStatus(ctx echo.Context) error {
	var data attendance.StatusChange
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to StatusChange")
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}
	if data.Date == "" {
		data.Date = api.svc.Selection().Date
	}

	st, err := api.svc.SetStatus(ctx.Param("id"), attendance.Status(data.Status), data.Date)
	if err != nil {
		return errors.Wrap(err, "setting status")
	}
	return ctx.JSON(http.StatusOK, newStatusResponse(st.ID, data.Date, st.StatusOn(data.Date)))
}

func (api *studentApi) advanceStatus(ctx echo.Context) error {
	var data attendance.StatusAdvance
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to StatusAdvance")
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}
	if data.Date == "" {
		data.Date = api.svc.Selection().Date
	}

	st, err := api.svc.CycleStatus(ctx.Param("id"), data.Date)
	if err != nil {
		return errors.Wrap(err, "advancing status")
	}
	return ctx.JSON(http.StatusOK, newStatusResponse(st.ID, data.Date, st.StatusOn(data.Date)))
}
