package medicalcard

import (
	"errors"
	"io"
	"net/http"
	"net/url"

	"github.com/labstack/echo/v4"

	"github.com/medcard/medcard/pkg/pagination"
)

// Handler exposes the card operations over HTTP for the host front-end.
type Handler struct {
	svc *Service
}

// NewHandler creates a Handler backed by the service.
func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

// RegisterRoutes mounts the card routes on the supplied Echo group.
func (h *Handler) RegisterRoutes(api *echo.Group) {
	api.GET("/cards", h.ListCards)
	api.PUT("/cards/:worker", h.RegisterCard)
	api.GET("/cards/:worker", h.GetCard)
	api.POST("/cards/:worker/result", h.UploadResult)
	api.GET("/cards/:worker/result/preview", h.PreviewResult)
	api.GET("/cards/:worker/requirement", h.GetRequirement)
}

// workerParam decodes the :worker path segment; names may contain spaces.
func workerParam(c echo.Context) string {
	raw := c.Param("worker")
	if name, err := url.PathUnescape(raw); err == nil {
		return name
	}
	return raw
}

func (h *Handler) RegisterCard(c echo.Context) error {
	var in RegisterInput
	if err := c.Bind(&in); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	// The path segment is the card's identity.
	in.Worker.Name = workerParam(c)

	if _, err := h.svc.Register(c.Request().Context(), in); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	proj, err := h.svc.Projection(in.Worker.Name)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, proj)
}

func (h *Handler) GetCard(c echo.Context) error {
	proj, err := h.svc.Projection(workerParam(c))
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "card not found")
	}
	return c.JSON(http.StatusOK, proj)
}

func (h *Handler) ListCards(c echo.Context) error {
	pg := pagination.FromContext(c)
	items, total := h.svc.List(pg.Limit, pg.Offset)
	return c.JSON(http.StatusOK, pagination.NewResponse(items, total, pg.Limit, pg.Offset))
}

func (h *Handler) UploadResult(c echo.Context) error {
	worker := workerParam(c)

	file, err := c.FormFile("file")
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "file is required"})
	}

	src, err := file.Open()
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "failed to open uploaded file"})
	}
	defer src.Close()

	content, err := io.ReadAll(src)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "failed to read uploaded file"})
	}

	cand := UploadCandidate{
		Name:    file.Filename,
		Size:    file.Size,
		Type:    file.Header.Get("Content-Type"),
		Content: content,
	}

	meta, err := h.svc.Upload(c.Request().Context(), worker, cand)
	if err != nil {
		var rej *Rejection
		switch {
		case errors.Is(err, ErrCardNotFound):
			return c.JSON(http.StatusNotFound, map[string]string{"error": err.Error()})
		case errors.As(err, &rej):
			return c.JSON(rejectionStatus(rej.Code), rej)
		default:
			return c.JSON(http.StatusInternalServerError, map[string]string{"error": err.Error()})
		}
	}
	return c.JSON(http.StatusCreated, meta)
}

func rejectionStatus(code RejectCode) int {
	switch code {
	case RejectSizeExceeded:
		return http.StatusRequestEntityTooLarge
	case RejectUnsupportedType:
		return http.StatusUnsupportedMediaType
	default:
		return http.StatusBadRequest
	}
}

func (h *Handler) PreviewResult(c echo.Context) error {
	card, err := h.svc.Get(workerParam(c))
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "card not found")
	}

	action, err := card.Preview()
	if err != nil {
		if errors.Is(err, ErrNoUpload) {
			return c.JSON(http.StatusNotFound, map[string]string{"error": err.Error()})
		}
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": err.Error()})
	}
	return c.JSON(http.StatusOK, action)
}

func (h *Handler) GetRequirement(c echo.Context) error {
	card, err := h.svc.Get(workerParam(c))
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "card not found")
	}

	u, err := card.OpenRequirement()
	if err != nil {
		// No requirement configured: the affordance is absent entirely.
		return c.JSON(http.StatusNotFound, map[string]string{"error": err.Error()})
	}
	return c.JSON(http.StatusOK, map[string]string{
		"title": card.Requirement().Title,
		"url":   u,
	})
}
