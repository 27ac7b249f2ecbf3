package scheduling

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/clinio/clinio/internal/platform/auth"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(api *echo.Group) {
	// Agenda and booking: any clinic staff role
	staff := api.Group("", auth.RequireRole("admin", "professional", "receptionist"))
	staff.GET("/agenda/month", h.MonthView)
	staff.GET("/agenda/week", h.WeekView)
	staff.GET("/agenda/day", h.DayView)
	staff.POST("/appointments", h.ProposeBooking)
	staff.PATCH("/appointments/:id/status", h.ChangeStatus)
	staff.GET("/clinics/:clinicID/working-hours", h.GetClinicSchedule)
	staff.GET("/professionals/:id/working-hours", h.GetProfessionalOverrides)

	// Working-hours configuration: admin only
	settings := api.Group("", auth.RequireRole("admin"))
	settings.PUT("/clinics/:clinicID/working-hours/:weekday", h.SaveClinicDay)
	settings.PUT("/clinics/:clinicID/slot-minutes", h.SaveClinicSlotMinutes)
	settings.PUT("/professionals/:id/working-hours/:weekday", h.SaveProfessionalDay)
	settings.DELETE("/professionals/:id/working-hours/:weekday", h.DeleteProfessionalDay)
}

// mapError translates the scheduling error taxonomy into HTTP statuses.
func mapError(err error) error {
	if errors.Is(err, ErrNotFound) {
		return echo.NewHTTPError(http.StatusNotFound, err.Error())
	}
	var verr *ValidationError
	if errors.As(err, &verr) {
		return echo.NewHTTPError(http.StatusBadRequest, verr.Error())
	}
	var perr *PastSlotError
	if errors.As(err, &perr) {
		return echo.NewHTTPError(http.StatusConflict, perr.Error())
	}
	var cerr *ConflictError
	if errors.As(err, &cerr) {
		return echo.NewHTTPError(http.StatusConflict, cerr.Error())
	}
	var serr *StoreError
	if errors.As(err, &serr) {
		return echo.NewHTTPError(http.StatusBadGateway, serr.Error())
	}
	return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
}

func viewOptions(c echo.Context) (ViewOptions, error) {
	var opts ViewOptions
	if raw := c.QueryParam("professional_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			return opts, echo.NewHTTPError(http.StatusBadRequest, "invalid professional_id")
		}
		opts.ProfessionalID = &id
	}
	opts.HideCancelled = c.QueryParam("hide_cancelled") == "true"
	return opts, nil
}

func clinicIDParam(c echo.Context, name string) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		return uuid.Nil, echo.NewHTTPError(http.StatusBadRequest, "invalid clinic id")
	}
	return id, nil
}

func (h *Handler) MonthView(c echo.Context) error {
	clinicID, err := uuid.Parse(c.QueryParam("clinic_id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid clinic_id")
	}
	year, err := strconv.Atoi(c.QueryParam("year"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid year")
	}
	monthNum, err := strconv.Atoi(c.QueryParam("month"))
	if err != nil || monthNum < 1 || monthNum > 12 {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid month")
	}

	var selected time.Time
	if raw := c.QueryParam("selected"); raw != "" {
		selected, err = time.Parse("2006-01-02", raw)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "invalid selected date")
		}
	}
	opts, err := viewOptions(c)
	if err != nil {
		return err
	}

	grid, err := h.svc.MonthView(c.Request().Context(), clinicID, year, time.Month(monthNum), selected, opts)
	if err != nil {
		return mapError(err)
	}
	return c.JSON(http.StatusOK, grid)
}

func (h *Handler) WeekView(c echo.Context) error {
	clinicID, err := uuid.Parse(c.QueryParam("clinic_id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid clinic_id")
	}
	anchor, err := time.Parse("2006-01-02", c.QueryParam("date"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid date")
	}

	var professionalIDs []uuid.UUID
	if params, ok := c.QueryParams()["professional_id"]; ok {
		for _, raw := range params {
			id, err := uuid.Parse(raw)
			if err != nil {
				return echo.NewHTTPError(http.StatusBadRequest, "invalid professional_id")
			}
			professionalIDs = append(professionalIDs, id)
		}
	}
	opts := ViewOptions{HideCancelled: c.QueryParam("hide_cancelled") == "true"}

	grid, err := h.svc.WeekView(c.Request().Context(), clinicID, anchor, professionalIDs, opts)
	if err != nil {
		return mapError(err)
	}
	return c.JSON(http.StatusOK, grid)
}

func (h *Handler) DayView(c echo.Context) error {
	clinicID, err := uuid.Parse(c.QueryParam("clinic_id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid clinic_id")
	}
	date, err := time.Parse("2006-01-02", c.QueryParam("date"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid date")
	}
	opts, err := viewOptions(c)
	if err != nil {
		return err
	}

	view, err := h.svc.DayView(c.Request().Context(), clinicID, date, opts)
	if err != nil {
		return mapError(err)
	}
	return c.JSON(http.StatusOK, view)
}

func (h *Handler) ProposeBooking(c echo.Context) error {
	var req BookingRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	apt, err := h.svc.ProposeBooking(c.Request().Context(), req)
	if err != nil {
		return mapError(err)
	}
	return c.JSON(http.StatusCreated, apt)
}

func (h *Handler) ChangeStatus(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	var body struct {
		Status Status `json:"status"`
	}
	if err := c.Bind(&body); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	apt, err := h.svc.ChangeStatus(c.Request().Context(), id, body.Status)
	if err != nil {
		return mapError(err)
	}
	return c.JSON(http.StatusOK, apt)
}

func (h *Handler) GetClinicSchedule(c echo.Context) error {
	clinicID, err := clinicIDParam(c, "clinicID")
	if err != nil {
		return err
	}
	ws, err := h.svc.ClinicSchedule(c.Request().Context(), clinicID)
	if err != nil {
		return mapError(err)
	}
	return c.JSON(http.StatusOK, ws)
}

func (h *Handler) SaveClinicDay(c echo.Context) error {
	clinicID, err := clinicIDParam(c, "clinicID")
	if err != nil {
		return err
	}
	weekday, err := ParseWeekday(c.Param("weekday"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	var hours DayHours
	if err := c.Bind(&hours); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if err := h.svc.SaveClinicDay(c.Request().Context(), clinicID, weekday, hours); err != nil {
		return mapError(err)
	}
	return c.JSON(http.StatusOK, hours)
}

func (h *Handler) SaveClinicSlotMinutes(c echo.Context) error {
	clinicID, err := clinicIDParam(c, "clinicID")
	if err != nil {
		return err
	}
	var body struct {
		SlotMinutes int `json:"slot_minutes"`
	}
	if err := c.Bind(&body); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if err := h.svc.SaveClinicSlotMinutes(c.Request().Context(), clinicID, body.SlotMinutes); err != nil {
		return mapError(err)
	}
	return c.JSON(http.StatusOK, body)
}

func (h *Handler) GetProfessionalOverrides(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	rows, err := h.svc.ProfessionalOverrides(c.Request().Context(), id)
	if err != nil {
		return mapError(err)
	}
	return c.JSON(http.StatusOK, rows)
}

func (h *Handler) SaveProfessionalDay(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	weekday, err := ParseWeekday(c.Param("weekday"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	var body struct {
		DayHours
		SlotMinutes int `json:"slot_minutes"`
	}
	if err := c.Bind(&body); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	row := OverrideRow{
		ProfessionalID: id,
		Weekday:        weekday,
		Hours:          body.DayHours,
		SlotMinutes:    body.SlotMinutes,
	}
	if err := h.svc.SaveProfessionalDay(c.Request().Context(), row); err != nil {
		return mapError(err)
	}
	return c.JSON(http.StatusOK, row)
}

func (h *Handler) DeleteProfessionalDay(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	weekday, err := ParseWeekday(c.Param("weekday"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if err := h.svc.DeleteProfessionalDay(c.Request().Context(), id, weekday); err != nil {
		return mapError(err)
	}
	return c.NoContent(http.StatusNoContent)
}
