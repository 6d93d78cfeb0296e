package adminapi

import (
	"net/http"

	"github.com/dacaug2504/rentit/internal/auth"
	"github.com/dacaug2504/rentit/internal/billing"
	"github.com/dacaug2504/rentit/internal/domain"
	"github.com/dacaug2504/rentit/internal/webserver"
	"github.com/dacaug2504/rentit/pkg/apperr"
	"github.com/gocarina/gocsv"
	"github.com/labstack/echo/v4"
)

type userCsvRow struct {
	UserID     int64  `csv:"user_id"`
	FirstName  string `csv:"first_name"`
	LastName   string `csv:"last_name"`
	Email      string `csv:"email"`
	PhoneNo    string `csv:"phone_no"`
	RoleName   string `csv:"role"`
	StatusName string `csv:"status"`
}

type billCsvRow struct {
	BillNo       int64  `csv:"bill_no"`
	CustomerName string `csv:"customer_name"`
	OwnerName    string `csv:"owner_name"`
	ItemBrand    string `csv:"item_brand"`
	Amount       int    `csv:"amount"`
	BillDate     string `csv:"bill_date"`
}

// exportUsers streams the user roster as a CSV attachment.
func exportUsers(c echo.Context) error {
	var users []domain.User
	if err := GetDB(c).Order("user_id").Find(&users).Error; err != nil {
		return apperr.Internal(err, "Failed to query users")
	}
	names := roleNames(GetDB(c))

	rows := make([]userCsvRow, 0, len(users))
	for _, u := range users {
		rows = append(rows, userCsvRow{
			UserID:     u.ID,
			FirstName:  u.FirstName,
			LastName:   u.LastName,
			Email:      u.Email,
			PhoneNo:    u.PhoneNo,
			RoleName:   names[u.RoleID],
			StatusName: domain.UserStatusLabel(u.Status),
		})
	}

	content, err := gocsv.MarshalString(&rows)
	if err != nil {
		return apperr.Internal(err, "Failed to encode users csv")
	}

	audit(c, "user.export", "exported user roster")
	c.Response().Header().Set(echo.HeaderContentDisposition, `attachment; filename="users.csv"`)
	return c.Blob(http.StatusOK, "text/csv", []byte(content))
}

func registerExportRoutes() {
	// /admin/users/export registers alongside the user routes; only the
	// bill export lives here.
	webserver.ApiGET("/admin/billing/export", exportBills, auth.Required(auth.RoleAdmin))
}

// exportBills flattens every bill through the composer and streams the
// result as CSV.
func exportBills(c echo.Context) error {
	views, err := billing.NewService(GetDB(c)).GetAllBills()
	if err != nil {
		return err
	}

	rows := make([]billCsvRow, 0, len(views))
	for _, v := range views {
		rows = append(rows, billCsvRow{
			BillNo:       v.BillNo,
			CustomerName: v.CustomerName,
			OwnerName:    v.OwnerName,
			ItemBrand:    v.ItemBrand,
			Amount:       v.Amount,
			BillDate:     v.BillDate.Format("2006-01-02"),
		})
	}

	content, err := gocsv.MarshalString(&rows)
	if err != nil {
		return apperr.Internal(err, "Failed to encode bills csv")
	}

	audit(c, "bill.export", "exported bills")
	c.Response().Header().Set(echo.HeaderContentDisposition, `attachment; filename="bills.csv"`)
	return c.Blob(http.StatusOK, "text/csv", []byte(content))
}
