package echoapi

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/shusseki/core"
	"github.com/trezcool/shusseki/core/attendance"
)

type boardApi struct {
	svc      *attendance.Service
	validate *validator.Validate
	display  *displayHub
}

func registerBoardAPI(g *echo.Group, svc *attendance.Service, validate *validator.Validate, display *displayHub) {
	api := boardApi{svc: svc, validate: validate, display: display}

	bg := g.Group("/board")
	bg.GET("", api.retrieve)
	bg.GET("/selection", api.selection)
	bg.PUT("/class", api.selectClass)
	bg.PUT("/date", api.selectDate)
	bg.PUT("/mode", api.setMode)
	bg.GET("/ws", api.display.serve)
}

// Handlers

func (api *boardApi) retrieve(ctx echo.Context) error {
	board, err := api.svc.Board(ctx.QueryParam("date"))
	if err != nil {
		return errors.Wrap(err, "building board")
	}
	return ctx.JSON(http.StatusOK, board)
}

func (api *boardApi) selection(ctx echo.Context) error {
	return ctx.JSON(http.StatusOK, api.svc.Selection())
}

func (api *boardApi) selectClass(ctx echo.Context) error {
	var data SelectClassRequest
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to SelectClassRequest")
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}
	if err := api.svc.SelectClass(data.ClassID); err != nil {
		return errors.Wrap(err, "selecting class")
	}
	return ctx.JSON(http.StatusOK, api.svc.Selection())
}

func (api *boardApi) selectDate(ctx echo.Context) error {
	var data SelectDateRequest
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to SelectDateRequest")
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}
	if err := api.svc.SelectDate(data.Date); err != nil {
		return errors.Wrap(err, "selecting date")
	}
	return ctx.JSON(http.StatusOK, api.svc.Selection())
}

func (api *boardApi) setMode(ctx echo.Context) error {
	var data SetModeRequest
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to SetModeRequest")
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}
	if err := api.svc.SetViewMode(attendance.ViewMode(data.Mode)); err != nil {
		return errors.Wrap(err, "setting view mode")
	}
	return ctx.JSON(http.StatusOK, api.svc.Selection())
}

type (
	SelectClassRequest struct {
		ClassID string `json:"class_id" validate:"required"`
	}

	SelectDateRequest struct {
		Date string `json:"date" validate:"required,datetime=2006-01-02"`
	}

	SetModeRequest struct {
		Mode string `json:"mode" validate:"required,viewmode"`
	}
)

func (r *SelectClassRequest) Validate(validate *validator.Validate) error {
	r.ClassID = core.CleanString(r.ClassID)
	return validate.Struct(r)
}

func (r *SelectDateRequest) Validate(validate *validator.Validate) error {
	r.Date = core.CleanString(r.Date)
	return validate.Struct(r)
}

func (r *SetModeRequest) Validate(validate *validator.Validate) error {
	r.Mode = core.CleanString(r.Mode, true /* lower */)
	return validate.Struct(r)
}
