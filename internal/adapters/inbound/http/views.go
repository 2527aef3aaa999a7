package httpin

import (
	"bytes"
	"encoding/json"
	"errors"
	"html/template"
	"net/http"
	"strconv"
	"time"

	"return_app/internal/core/domain"
	"return_app/internal/core/errcode"
	"return_app/internal/core/format"
	"return_app/internal/core/pagination"
	"return_app/internal/web"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

var funcs = template.FuncMap{
	"money":    format.Money,
	"date":     format.ReturnFormDate,
	"datetime": format.DateTime,
	"filterDate": func(t time.Time) string {
		return format.FilterDate(t, "-")
	},
	"statusKey": func(s domain.Status) string { return s.TranslationKey() },
	"statuses":  func() []domain.Status { return domain.Statuses },
}

func parseTemplates() *template.Template {
	return template.Must(template.New("").Funcs(funcs).ParseFS(web.MustFS(), "*.html"))
}

// pages renders the HTML templates shared by the storefront and admin.
type pages struct {
	tmpl *template.Template
	log  *zap.Logger
}

func newPages(log *zap.Logger) pages {
	return pages{tmpl: parseTemplates(), log: log}
}

func (p pages) html(c *gin.Context, status int, name string, data any) {
	out, err := render(p.tmpl, name, data)
	if err != nil {
		p.log.Error("render", zap.String("template", name), zap.Error(err))
		c.String(http.StatusInternalServerError, "template error")
		return
	}
	c.Data(status, "text/html; charset=utf-8", []byte(out))
}

func (p pages) errorPage(c *gin.Context, err error) {
	status := statusFor(err)
	if status >= 500 {
		p.log.Error("page error", zap.String("request_id", requestID(c)), zap.Error(err))
	}
	p.html(c, status, "error.html", newErrorVM(err, requestID(c)))
}

func render(t *template.Template, name string, data any) (string, error) {
	var buf bytes.Buffer
	if err := t.ExecuteTemplate(&buf, name, data); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// statusFor maps a use case error to the HTTP status shown to the caller.
func statusFor(err error) int {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrInvalidDraft), errors.Is(err, domain.ErrUnknownStatus):
		return http.StatusUnprocessableEntity
	case errors.Is(err, domain.ErrSubmissionInFlight):
		return http.StatusConflict
	case errors.Is(err, domain.ErrUnauthorized):
		return http.StatusUnauthorized
	case errors.Is(err, domain.ErrForbidden):
		return http.StatusForbidden
	}
	switch errcode.FromError(err) {
	case errcode.OrderNotFound:
		return http.StatusNotFound
	case errcode.Forbidden:
		return http.StatusForbidden
	case errcode.OrderNotInvoiced, errcode.OutOfMaxDays:
		return http.StatusUnprocessableEntity
	}
	return http.StatusBadGateway
}

type errorVM struct {
	Code      errcode.Code
	MessageID string
	Message   string
	RequestID string
}

func newErrorVM(err error, reqID string) errorVM {
	code := errcode.FromError(err)
	switch {
	case errors.Is(err, domain.ErrNotFound):
		code = errcode.OrderNotFound
	case errors.Is(err, domain.ErrForbidden), errors.Is(err, domain.ErrUnauthorized):
		code = errcode.Forbidden
	}
	return errorVM{Code: code, MessageID: code.MessageID(), Message: code.Message(), RequestID: reqID}
}

type ordersVM struct {
	pagination.View
	Error string
}

type formItemVM struct {
	domain.InvoicedItem
	Available int
}

func (i formItemVM) Key() string { return itemKey(i.OrderItemIndex) }

func itemKey(orderItemIndex int) string { return "item" + strconv.Itoa(orderItemIndex) }

type formVM struct {
	Order      domain.OrderSummary
	Signals    string
	Items      []formItemVM
	Reasons    []string
	Conditions []string
	Methods    []domain.RefundMethod
}

var (
	returnReasons = []string{
		"reasonMissingPiece", "reasonDontLikeIt", "reasonDamagedItem",
		"reasonWrongItem", "reasonNotAsDescribed", "reasonBetterPrice", domain.OtherReasonKey,
	}
	itemConditions = []string{"newWithBox", "newWithoutBox", "usedWithBox", "usedWithoutBox"}
	refundMethods  = []domain.RefundMethod{
		domain.RefundBank, domain.RefundCard, domain.RefundGiftCard, domain.RefundSameAsPurchase,
	}
)

func newFormVM(o domain.OrderSummary) formVM {
	vm := formVM{Order: o, Reasons: returnReasons, Conditions: itemConditions, Methods: refundMethods}
	sig := submitSignals{
		Draft: domain.ReturnRequestInput{OrderID: o.OrderID, Refund: domain.RefundPayment{Method: domain.RefundSameAsPurchase}},
		Items: make(map[string]itemSignal, len(o.InvoicedItems)),
	}
	for _, it := range o.InvoicedItems {
		vm.Items = append(vm.Items, formItemVM{InvoicedItem: it, Available: o.AvailableQuantity(it.OrderItemIndex)})
		sig.Items[itemKey(it.OrderItemIndex)] = itemSignal{}
	}
	b, _ := json.Marshal(sig)
	vm.Signals = string(b)
	return vm
}
