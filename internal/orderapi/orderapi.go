// Package orderapi exposes the customer cart and order placement routes.
// Every route requires the CUSTOMER role; cart ids always resolve against
// the calling principal, never a client-supplied customer id.
package orderapi

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/araddon/dateparse"
	"github.com/dacaug2504/rentit/internal/app"
	"github.com/dacaug2504/rentit/internal/auth"
	"github.com/dacaug2504/rentit/internal/order"
	"github.com/dacaug2504/rentit/internal/webserver"
	"github.com/dacaug2504/rentit/pkg/apperr"
	"github.com/labstack/echo/v4"
)

type addToCartPayload struct {
	OtID int64 `json:"ot_id" validate:"required"`
}

type placeOrderPayload struct {
	CartID    int64  `json:"cart_id" validate:"required"`
	StartDate string `json:"start_date" validate:"required"`
	EndDate   string `json:"end_date" validate:"required"`
}

// InitRouter registers the order routes. Call after webserver.Init.
func InitRouter() {
	customerOnly := auth.Required(auth.RoleCustomer)
	webserver.ApiPOST("/orders/cart", addToCart, customerOnly)
	webserver.ApiGET("/orders/cart", listCart, customerOnly)
	webserver.ApiDELETE("/orders/cart/:cartId", removeFromCart, customerOnly)
	webserver.ApiPOST("/orders/place", placeOrder, customerOnly)
}

func service(c echo.Context) *order.Service {
	return order.NewService(webserver.GetDB(c))
}

func addToCart(c echo.Context) error {
	var payload addToCartPayload
	if err := c.Bind(&payload); err != nil {
		return apperr.Validation("Unable to parse cart request")
	}
	if payload.OtID <= 0 {
		return apperr.Validation("ot_id is required")
	}
	p, _ := auth.FromContext(c)
	cart, err := service(c).AddToCart(p.ID, payload.OtID)
	if err != nil {
		return err
	}
	return webserver.Created(c, cart)
}

func listCart(c echo.Context) error {
	p, _ := auth.FromContext(c)
	entries, err := service(c).CartEntries(p.ID)
	if err != nil {
		return err
	}
	return webserver.OK(c, entries)
}

func removeFromCart(c echo.Context) error {
	cartID, err := strconv.ParseInt(c.Param("cartId"), 10, 64)
	if err != nil {
		return apperr.Validation("Invalid cart ID")
	}
	p, _ := auth.FromContext(c)
	if err := service(c).RemoveFromCart(cartID, p.ID); err != nil {
		return err
	}
	return webserver.OKMessage(c, "Removed from cart")
}

// placeOrder turns a cart row into an order plus its bill. Dates accept
// any common layout; time-of-day is ignored.
func placeOrder(c echo.Context) error {
	var payload placeOrderPayload
	if err := c.Bind(&payload); err != nil {
		return apperr.Validation("Unable to parse order request")
	}
	if payload.CartID <= 0 || strings.TrimSpace(payload.StartDate) == "" || strings.TrimSpace(payload.EndDate) == "" {
		return apperr.Validation("cart_id, start_date and end_date are required")
	}

	startDate, err := dateparse.ParseAny(payload.StartDate)
	if err != nil {
		return apperr.Validation("Unable to parse start date '%s'", payload.StartDate)
	}
	endDate, err := dateparse.ParseAny(payload.EndDate)
	if err != nil {
		return apperr.Validation("Unable to parse end date '%s'", payload.EndDate)
	}

	p, _ := auth.FromContext(c)
	placed, err := service(c).PlaceOrder(p.ID, payload.CartID, startDate, endDate)
	if err != nil {
		return err
	}

	webserver.GetApp(c).PublishAudit(app.AuditEvent{
		Actor:  p.Role.String() + ":" + strconv.FormatInt(p.ID, 10),
		Ip:     c.RealIP(),
		Action: "order.place",
		Desc:   fmt.Sprintf("order %d bill %d total %d", placed.OrderID, placed.BillNo, placed.TotalAmount),
	})
	return webserver.Created(c, placed)
}
