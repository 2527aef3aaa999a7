package httpin

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"return_app/internal/core/domain"
	"return_app/internal/core/errcode"
	"return_app/internal/core/format"
	"return_app/internal/ports/inbound"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Handlers serves the JSON API, the admin pages and the health check.
type Handlers struct {
	pages
	uc        inbound.ReturnUseCase
	health    func(ctx context.Context) error
	adminAuth AdminAuth
	pageSize  int
}

func newHandlers(uc inbound.ReturnUseCase, health func(context.Context) error, p pages, auth AdminAuth, pageSize int) *Handlers {
	if pageSize <= 0 {
		pageSize = 20
	}
	return &Handlers{pages: p, uc: uc, health: health, adminAuth: auth, pageSize: pageSize}
}

func (h *Handlers) Register(r gin.IRouter) {
	r.GET("/health", h.healthCheck)

	r.GET("/api/orders/:orderId", h.getOrder)
	r.POST("/api/returns", h.createReturn)
	r.GET("/api/returns/:id", h.getReturn)
	r.GET("/api/returns/:id/timeline", h.getTimeline)

	admin := r.Group("/admin", h.adminAuth.Middleware())
	admin.GET("", h.admin)
	admin.GET("/returns/:id", h.adminDetails)
	admin.POST("/returns/:id/status", h.adminUpdateStatus)
}

func (h *Handlers) healthCheck(c *gin.Context) {
	if h.health != nil {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()
		if err := h.health(ctx); err != nil {
			c.String(http.StatusServiceUnavailable, "unhealthy")
			return
		}
	}
	c.String(http.StatusOK, "ok")
}

type apiError struct {
	Error     string   `json:"error"`
	Code      string   `json:"code,omitempty"`
	MessageID string   `json:"messageId,omitempty"`
	Fields    []string `json:"fields,omitempty"`
	RequestID string   `json:"requestId,omitempty"`
}

func (h *Handlers) fail(c *gin.Context, err error) {
	status := statusFor(err)
	body := apiError{Error: err.Error(), RequestID: requestID(c)}

	var verr *domain.ValidationError
	switch {
	case errors.As(err, &verr):
		body.Error = "invalid return request"
		body.Fields = verr.Fields
	case errors.Is(err, domain.ErrNotFound):
		body.Error = "not found"
	case status >= 500 || errcode.FromError(err) != errcode.Unknown:
		code := errcode.FromError(err)
		body.Error = code.Message()
		body.Code = string(code)
		body.MessageID = code.MessageID()
	}
	if status >= 500 {
		h.log.Error("api error", zap.String("request_id", requestID(c)), zap.Error(err))
	}
	_ = c.Error(err)
	c.JSON(status, body)
}

func (h *Handlers) getOrder(c *gin.Context) {
	o, err := h.uc.OrderToReturn(c.Request.Context(), c.Param("orderId"))
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, o)
}

func (h *Handlers) createReturn(c *gin.Context) {
	var draft domain.ReturnRequestInput
	if err := c.ShouldBindJSON(&draft); err != nil {
		c.JSON(http.StatusBadRequest, apiError{Error: "invalid request body: " + err.Error(), RequestID: requestID(c)})
		return
	}

	id, err := h.uc.Submit(c.Request.Context(), draft)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"returnRequestId": id})
}

func (h *Handlers) getReturn(c *gin.Context) {
	rr, err := h.uc.CustomerRequest(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.fail(c, err)
		return
	}
	rr.Comments = rr.CustomerComments()
	c.JSON(http.StatusOK, rr)
}

type stepJSON struct {
	Kind      string           `json:"kind"`
	Message   string           `json:"message"`
	MessageID string           `json:"messageId"`
	Position  int              `json:"position"`
	Active    int              `json:"active"`
	Comments  []domain.Comment `json:"comments"`
}

// getTimeline returns the customer view unless ?view=admin is given with the
// admin credentials.
func (h *Handlers) getTimeline(c *gin.Context) {
	customerView := c.Query("view") != "admin"
	if !customerView && !h.adminAuth.Allowed(c.Request) {
		c.Header("WWW-Authenticate", `Basic realm="returns admin"`)
		c.JSON(http.StatusUnauthorized, apiError{Error: "admin credentials required", RequestID: requestID(c)})
		return
	}
	steps, err := h.uc.Timeline(c.Request.Context(), c.Param("id"), customerView)
	if err != nil {
		h.fail(c, err)
		return
	}
	out := make([]stepJSON, 0, len(steps))
	for _, s := range steps {
		out = append(out, stepJSON{
			Kind:      s.Kind.String(),
			Message:   s.Message,
			MessageID: s.MessageID,
			Position:  s.Position,
			Active:    s.Active,
			Comments:  s.Comments,
		})
	}
	c.JSON(http.StatusOK, out)
}

type adminVM struct {
	Page     int
	PageSize int
	Total    int
	Pages    int
	HasPrev  bool
	HasNext  bool
	PrevPage int
	NextPage int
	Requests []adminRow
}

type adminRow struct {
	ID            string
	OrderID       string
	Customer      string
	Email         string
	DateSubmitted string
	Age           int
	ItemsCount    int
	Total         string
	Status        domain.Status
}

func (h *Handlers) admin(c *gin.Context) {
	page := intQuery(c, "page", 1)
	size := intQuery(c, "size", h.pageSize)
	if size <= 0 {
		size = h.pageSize
	}

	list, total, err := h.uc.ListPage(c.Request.Context(), page, size)
	if err != nil {
		h.log.Error("admin list", zap.String("request_id", requestID(c)), zap.Error(err))
		c.String(http.StatusInternalServerError, "admin error")
		return
	}

	pages := (total + size - 1) / size
	if pages < 1 {
		pages = 1
	}
	if page < 1 {
		page = 1
	}
	if page > pages {
		page = pages
	}

	vm := adminVM{
		Page:     page,
		PageSize: size,
		Total:    total,
		Pages:    pages,
		HasPrev:  page > 1,
		HasNext:  page < pages,
		PrevPage: page - 1,
		NextPage: page + 1,
	}

	now := time.Now()
	for _, rr := range list {
		vm.Requests = append(vm.Requests, adminRow{
			ID:            rr.ID,
			OrderID:       rr.OrderID,
			Customer:      rr.Customer.Name,
			Email:         rr.Customer.Email,
			DateSubmitted: format.FilterDate(rr.DateSubmitted, "-"),
			Age:           format.DiffDays(now, rr.DateSubmitted),
			ItemsCount:    len(rr.Items),
			Total:         format.Money(rr.Total(), rr.CurrencyCode),
			Status:        rr.Status,
		})
	}

	h.html(c, http.StatusOK, "admin.html", vm)
}

func (h *Handlers) adminDetails(c *gin.Context) {
	id := c.Param("id")
	rr, err := h.uc.GetByID(c.Request.Context(), id)
	if err != nil {
		h.errorPage(c, err)
		return
	}
	steps, err := h.uc.Timeline(c.Request.Context(), id, false)
	if err != nil {
		h.errorPage(c, err)
		return
	}
	h.html(c, http.StatusOK, "return_details.html", detailsVM{Request: rr, Steps: steps, Admin: true})
}

type statusForm struct {
	Status             string `form:"status" binding:"required"`
	Comment            string `form:"comment"`
	VisibleForCustomer bool   `form:"visibleForCustomer"`
	SubmittedBy        string `form:"submittedBy"`
}

func (h *Handlers) adminUpdateStatus(c *gin.Context) {
	id := c.Param("id")

	var f statusForm
	if err := c.ShouldBind(&f); err != nil {
		c.String(http.StatusBadRequest, "status is required")
		return
	}
	status, err := domain.ParseStatus(f.Status)
	if err != nil {
		c.String(http.StatusBadRequest, "unknown status")
		return
	}

	err = h.uc.UpdateStatus(c.Request.Context(), id, status, domain.Comment{
		Text:               strings.TrimSpace(f.Comment),
		VisibleForCustomer: f.VisibleForCustomer,
		SubmittedBy:        strings.TrimSpace(f.SubmittedBy),
	})
	if err != nil {
		h.errorPage(c, err)
		return
	}
	c.Redirect(http.StatusSeeOther, "/admin/returns/"+id)
}

func intQuery(c *gin.Context, key string, def int) int {
	v := c.Query(key)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return n
}
