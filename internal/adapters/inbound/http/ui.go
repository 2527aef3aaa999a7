package httpin

import (
	"errors"
	"html/template"
	"net/http"
	"slices"
	"strconv"
	"strings"

	"return_app/internal/core/domain"
	"return_app/internal/core/errcode"
	"return_app/internal/core/pagination"
	"return_app/internal/core/service"
	"return_app/internal/core/timeline"
	"return_app/internal/ports/inbound"

	"github.com/gin-gonic/gin"
	"github.com/starfederation/datastar-go/datastar"
	"go.uber.org/zap"
)

const browseCookie = "browse_id"

// UI serves the storefront pages. Pagination and submission run over
// Datastar SSE so the page is patched in place.
type UI struct {
	pages
	browser inbound.OrderBrowser
	returns inbound.ReturnUseCase
}

func newUI(browser inbound.OrderBrowser, returns inbound.ReturnUseCase, p pages) *UI {
	return &UI{pages: p, browser: browser, returns: returns}
}

func (u *UI) Register(r gin.IRoutes) {
	r.GET("/store/orders", u.Orders)
	r.GET("/ui/orders/page", u.OrdersPageSSE)
	r.POST("/ui/orders/close", u.CloseOrders)
	r.GET("/store/orders/:orderId/return", u.NewReturn)
	r.POST("/ui/returns/submit", u.SubmitSSE)
	r.GET("/store/returns/:id", u.ReturnDetails)
}

// Orders mounts a fresh browse, replacing any previous one of this browser.
func (u *UI) Orders(c *gin.Context) {
	if prev, err := c.Cookie(browseCookie); err == nil && prev != "" {
		u.browser.Unmount(prev)
	}

	id, v, err := u.browser.Mount(c.Request.Context())
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(browseCookie, id, 0, "/", "", false, true)

	vm := ordersVM{View: v}
	if err != nil {
		vm.Error = errcode.FromError(err).Message()
	}
	u.html(c, http.StatusOK, "orders.html", vm)
}

type pageSignals struct {
	Page      int    `json:"page"`
	Direction string `json:"direction"`
}

// OrdersPageSSE moves the browse to the requested page and patches #orders.
// page and dir come from the query string, falling back to Datastar signals.
func (u *UI) OrdersPageSSE(c *gin.Context) {
	sig := pageSignals{}
	if p := c.Query("page"); p != "" {
		sig.Page, _ = strconv.Atoi(p)
		sig.Direction = c.Query("dir")
	} else if err := datastar.ReadSignals(c.Request, &sig); err != nil {
		sse := datastar.NewSSE(c.Writer, c.Request)
		_ = sse.PatchElements(statusFragment("Bad request: invalid signals"))
		return
	}

	dir, err := pagination.ParseDirection(sig.Direction)
	sse := datastar.NewSSE(c.Writer, c.Request)
	if err != nil || sig.Page < 1 {
		_ = sse.PatchElements(statusFragment("Bad request: invalid page"))
		return
	}

	id, _ := c.Cookie(browseCookie)
	_ = sse.PatchElements(statusFragment("Loading orders..."))

	v, err := u.browser.Navigate(c.Request.Context(), id, sig.Page, dir)
	vm := ordersVM{View: v}
	switch {
	case errors.Is(err, service.ErrBrowseExpired):
		_ = sse.PatchElements(statusFragment("Your session expired, reload the page."))
		return
	case err != nil:
		vm.Error = errcode.FromError(err).Message()
	}

	frag, rerr := render(u.tmpl, "orders_list", vm)
	if rerr != nil {
		u.log.Error("render orders_list", zap.Error(rerr))
		_ = sse.PatchElements(statusFragment("Internal error"))
		return
	}
	_ = sse.PatchElements(frag)
	if vm.Error != "" {
		_ = sse.PatchElements(statusFragment(vm.Error))
		return
	}
	_ = sse.PatchElements(statusFragment(""))
}

func (u *UI) CloseOrders(c *gin.Context) {
	if id, err := c.Cookie(browseCookie); err == nil && id != "" {
		u.browser.Unmount(id)
	}
	c.SetCookie(browseCookie, "", -1, "/", "", false, true)
	c.Status(http.StatusNoContent)
}

func (u *UI) NewReturn(c *gin.Context) {
	o, err := u.returns.OrderToReturn(c.Request.Context(), c.Param("orderId"))
	if err != nil {
		u.errorPage(c, err)
		return
	}
	u.html(c, http.StatusOK, "return_form.html", newFormVM(o))
}

// submitSignals is the form state as Datastar sends it. Items are keyed
// "item<orderItemIndex>" because signals cannot be bound to array elements.
type submitSignals struct {
	Draft domain.ReturnRequestInput `json:"draft"`
	Items map[string]itemSignal     `json:"items"`
}

type itemSignal struct {
	Quantity    flexInt `json:"quantity"`
	Condition   string  `json:"condition"`
	Reason      string  `json:"reason"`
	OtherReason string  `json:"otherReason"`
}

func (s submitSignals) input() domain.ReturnRequestInput {
	in := s.Draft
	in.Items = nil
	for key, it := range s.Items {
		idx, err := strconv.Atoi(strings.TrimPrefix(key, "item"))
		if err != nil || !strings.HasPrefix(key, "item") {
			continue
		}
		in.Items = append(in.Items, domain.ItemInput{
			OrderItemIndex: idx,
			Quantity:       int(it.Quantity),
			Condition:      it.Condition,
			Reason:         domain.ReturnReason{Reason: it.Reason, OtherReason: it.OtherReason},
		})
	}
	slices.SortFunc(in.Items, func(a, b domain.ItemInput) int { return a.OrderItemIndex - b.OrderItemIndex })
	return in
}

// flexInt accepts a JSON number or a numeric string, as bound inputs may
// send either. Anything else reads as 0.
type flexInt int

func (f *flexInt) UnmarshalJSON(b []byte) error {
	s := strings.Trim(string(b), `"`)
	if s == "" || s == "null" {
		*f = 0
		return nil
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		*f = 0
		return nil
	}
	*f = flexInt(n)
	return nil
}

// SubmitSSE posts the draft held in the page signals. Success redirects to
// the request page; anything else patches #form-errors.
func (u *UI) SubmitSSE(c *gin.Context) {
	sig := submitSignals{}
	if err := datastar.ReadSignals(c.Request, &sig); err != nil {
		sse := datastar.NewSSE(c.Writer, c.Request)
		_ = sse.PatchElements(formErrors("Bad request: invalid signals"))
		return
	}

	sse := datastar.NewSSE(c.Writer, c.Request)
	_ = sse.MarshalAndPatchSignals(map[string]any{"submitting": true})

	id, err := u.returns.Submit(c.Request.Context(), sig.input())
	if err == nil {
		_ = sse.Redirect("/store/returns/" + id)
		return
	}

	_ = sse.MarshalAndPatchSignals(map[string]any{"submitting": false})

	var verr *domain.ValidationError
	switch {
	case errors.As(err, &verr):
		frag, rerr := render(u.tmpl, "form_errors", verr.Fields)
		if rerr != nil {
			u.log.Error("render form_errors", zap.Error(rerr))
			frag = formErrors("Please check the highlighted fields.")
		}
		_ = sse.PatchElements(frag)
	case errors.Is(err, domain.ErrSubmissionInFlight):
		_ = sse.PatchElements(formErrors("This request is already being submitted."))
	default:
		_ = sse.PatchElements(formErrors(errcode.FromError(err).Message()))
	}
}

type detailsVM struct {
	Request domain.ReturnRequest
	Steps   []timeline.Step
	Admin   bool
}

func (u *UI) ReturnDetails(c *gin.Context) {
	id := c.Param("id")
	rr, err := u.returns.CustomerRequest(c.Request.Context(), id)
	if err != nil {
		u.errorPage(c, err)
		return
	}
	rr.Comments = rr.CustomerComments()
	steps := timeline.Build(rr.Status, rr.Comments, rr.DateSubmitted)
	u.html(c, http.StatusOK, "return_details.html", detailsVM{Request: rr, Steps: steps})
}

func statusFragment(msg string) string {
	return `<p id="status">` + template.HTMLEscapeString(msg) + `</p>`
}

func formErrors(msg string) string {
	return `<div id="form-errors" class="errors"><p>` + template.HTMLEscapeString(msg) + `</p></div>`
}
