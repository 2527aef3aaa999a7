// Package errcode classifies errors returned by the commerce GraphQL API into
// the closed set of codes the return pages know how to explain.
package errcode

import (
	"errors"

	"return_app/internal/core/domain"
)

type Code string

const (
	OrderNotInvoiced Code = "ORDER_NOT_INVOICED"
	OutOfMaxDays     Code = "OUT_OF_MAX_DAYS"
	// OrderNotFound is reported when the order does not exist.
	OrderNotFound Code = "E_HTTP_404"
	// Forbidden is reported when the session user does not own the order.
	Forbidden Code = "FORBIDDEN"
	Unknown   Code = "UNKNOWN_ERROR"
)

// Parse maps a raw exception code onto the closed set.
func Parse(raw string) Code {
	switch Code(raw) {
	case OrderNotInvoiced, OutOfMaxDays, OrderNotFound, Forbidden:
		return Code(raw)
	}
	return Unknown
}

// Classify looks at the exception code of the first error only.
func Classify(errs []domain.GraphQLError) Code {
	if len(errs) == 0 {
		return Unknown
	}
	return Parse(errs[0].ExceptionCode())
}

// FromError classifies the GatewayError in err's chain, if any.
func FromError(err error) Code {
	var ge *domain.GatewayError
	if errors.As(err, &ge) {
		return Classify(ge.Errors)
	}
	return Unknown
}

func (c Code) MessageID() string {
	const prefix = "store/return-app.return-order-details.error."
	switch c {
	case OrderNotInvoiced:
		return prefix + "order-not-invoiced"
	case OutOfMaxDays:
		return prefix + "out-of-max-days"
	case OrderNotFound:
		return prefix + "order-not-found"
	case Forbidden:
		return prefix + "forbidden"
	}
	return prefix + "unknown"
}

// Message is the English text for the code.
func (c Code) Message() string {
	switch c {
	case OrderNotInvoiced:
		return "This order has not been invoiced yet, so it cannot be returned."
	case OutOfMaxDays:
		return "The period to return items from this order has ended."
	case OrderNotFound:
		return "We could not find this order."
	case Forbidden:
		return "This order does not belong to your account."
	}
	return "Something went wrong. Please try again."
}
