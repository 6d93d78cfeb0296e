// Package billingapi exposes the flattened bill views over HTTP. Reads
// are gated by role and ownership; only admins create bills directly.
package billingapi

import (
	"strconv"
	"time"

	"github.com/dacaug2504/rentit/internal/auth"
	"github.com/dacaug2504/rentit/internal/billing"
	"github.com/dacaug2504/rentit/internal/webserver"
	"github.com/dacaug2504/rentit/pkg/apperr"
	"github.com/labstack/echo/v4"
)

// InitRouter registers the billing routes. Call after webserver.Init.
func InitRouter() {
	webserver.PubGET("/billing/health", health)
	webserver.ApiGET("/billing/all", listAllBills, auth.Required(auth.RoleAdmin))
	webserver.ApiGET("/billing/customer/:id", listCustomerBills, auth.Required(auth.RoleCustomer, auth.RoleAdmin))
	webserver.ApiGET("/billing/owner/:id", listOwnerBills, auth.Required(auth.RoleOwner, auth.RoleAdmin))
	webserver.ApiGET("/billing/:billNo", getBill, auth.Required())
	webserver.ApiPOST("/billing/create", createBill, auth.Required(auth.RoleAdmin))
}

func health(c echo.Context) error {
	return webserver.OK(c, map[string]interface{}{
		"status":    "healthy",
		"component": "billing",
		"timestamp": time.Now().UTC(),
	})
}

func service(c echo.Context) *billing.Service {
	return billing.NewService(webserver.GetDB(c))
}

func paramID(c echo.Context, name string) (int64, error) {
	return strconv.ParseInt(c.Param(name), 10, 64)
}

func listAllBills(c echo.Context) error {
	views, err := service(c).GetAllBills()
	if err != nil {
		return err
	}
	return webserver.OK(c, views)
}

// listCustomerBills returns the customer's own bills; admins may read any
// customer's bills.
func listCustomerBills(c echo.Context) error {
	id, err := paramID(c, "id")
	if err != nil {
		return apperr.Validation("Invalid customer ID")
	}
	p, _ := auth.FromContext(c)
	if !p.CanAccess(id) {
		return apperr.Forbidden("Cannot access another customer's bills")
	}
	views, err := service(c).GetBillsByCustomer(id)
	if err != nil {
		return err
	}
	return webserver.OK(c, views)
}

// listOwnerBills returns the owner's own bills; admins may read any
// owner's bills.
func listOwnerBills(c echo.Context) error {
	id, err := paramID(c, "id")
	if err != nil {
		return apperr.Validation("Invalid owner ID")
	}
	p, _ := auth.FromContext(c)
	if !p.CanAccess(id) {
		return apperr.Forbidden("Cannot access another owner's bills")
	}
	views, err := service(c).GetBillsByOwner(id)
	if err != nil {
		return err
	}
	return webserver.OK(c, views)
}

// getBill fetches one bill; the caller must be the bill's customer, its
// owner, or an admin. The party check runs after the fetch, so an unknown
// bill is a 404 for any authenticated caller.
func getBill(c echo.Context) error {
	billNo, err := paramID(c, "billNo")
	if err != nil {
		return apperr.Validation("Invalid bill number")
	}
	view, err := service(c).GetBill(billNo)
	if err != nil {
		return err
	}
	p, _ := auth.FromContext(c)
	if !p.CanAccess(view.CustomerID) && !p.CanAccess(view.OwnerID) {
		return apperr.Forbidden("Cannot access a bill you are not a party to")
	}
	return webserver.OK(c, view)
}

func createBill(c echo.Context) error {
	var in billing.CreateBillInput
	if err := c.Bind(&in); err != nil {
		return apperr.Validation("Unable to parse bill")
	}
	if err := c.Validate(&in); err != nil {
		return apperr.Validation("customer_id, owner_id, item_id and amount are required")
	}
	if min := webserver.GetApp(c).GetSettingsInt64Value("billing", "min_amount"); min > 0 && int64(in.Amount) < min {
		return apperr.Validation("Amount must be at least %d", min)
	}
	view, err := service(c).CreateBill(in)
	if err != nil {
		return err
	}
	return webserver.Created(c, view)
}
