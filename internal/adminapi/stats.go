package adminapi

import (
	"os"
	"runtime"
	"time"

	"github.com/dacaug2504/rentit/internal/app"
	"github.com/dacaug2504/rentit/internal/auth"
	"github.com/dacaug2504/rentit/internal/domain"
	"github.com/dacaug2504/rentit/internal/webserver"
	"github.com/dacaug2504/rentit/pkg/apperr"
	"github.com/labstack/echo/v4"
	"github.com/shirou/gopsutil/v4/cpu"
	"github.com/shirou/gopsutil/v4/mem"
	"github.com/shirou/gopsutil/v4/process"
)

type dashboardStats struct {
	TotalUsers      int64 `json:"total_users"`
	ActiveUsers     int64 `json:"active_users"`
	AdminUsers      int64 `json:"admin_users"`
	OwnerUsers      int64 `json:"owner_users"`
	CustomerUsers   int64 `json:"customer_users"`
	TotalCategories int64 `json:"total_categories"`
	TotalItems      int64 `json:"total_items"`
	TotalListings   int64 `json:"total_listings"`
	TotalBills      int64 `json:"total_bills"`
	TotalOrders     int64 `json:"total_orders"`
}

type systemInfo struct {
	Hostname       string  `json:"hostname"`
	Goroutines     int     `json:"goroutines"`
	CpuPercent     float64 `json:"cpu_percent"`
	MemUsedMb      uint64  `json:"mem_used_mb"`
	MemTotalMb     uint64  `json:"mem_total_mb"`
	ProcCpuPercent float64 `json:"proc_cpu_percent"`
	ProcRssMb      uint64  `json:"proc_rss_mb"`
	Uptime         string  `json:"uptime"`
}

var startedAt = time.Now()

func registerStatsRoutes() {
	adminOnly := auth.Required(auth.RoleAdmin)
	webserver.ApiGET("/admin/dashboard-stats", getDashboardStats, adminOnly)
	webserver.ApiGET("/admin/system", getSystemInfo, adminOnly)
}

func getDashboardStats(c echo.Context) error {
	db := GetDB(c)
	var stats dashboardStats

	counts := []struct {
		model interface{}
		where []interface{}
		dst   *int64
	}{
		{&domain.User{}, nil, &stats.TotalUsers},
		{&domain.User{}, []interface{}{"status = ?", domain.UserStatusActive}, &stats.ActiveUsers},
		{&domain.User{}, []interface{}{"role_id = ?", app.RoleIdAdmin}, &stats.AdminUsers},
		{&domain.User{}, []interface{}{"role_id = ?", app.RoleIdOwner}, &stats.OwnerUsers},
		{&domain.User{}, []interface{}{"role_id = ?", app.RoleIdCustomer}, &stats.CustomerUsers},
		{&domain.Category{}, nil, &stats.TotalCategories},
		{&domain.Item{}, nil, &stats.TotalItems},
		{&domain.OwnerItem{}, nil, &stats.TotalListings},
		{&domain.Bill{}, nil, &stats.TotalBills},
		{&domain.OrderTable{}, nil, &stats.TotalOrders},
	}
	for _, q := range counts {
		tx := db.Model(q.model)
		if len(q.where) > 0 {
			tx = tx.Where(q.where[0], q.where[1:]...)
		}
		if err := tx.Count(q.dst).Error; err != nil {
			return apperr.Internal(err, "Failed to collect dashboard stats")
		}
	}

	return ok(c, stats)
}

// getSystemInfo reports host and process level resource usage.
func getSystemInfo(c echo.Context) error {
	info := systemInfo{
		Goroutines: runtime.NumGoroutine(),
		Uptime:     time.Since(startedAt).Round(time.Second).String(),
	}
	info.Hostname, _ = os.Hostname()

	if cpuuse, err := cpu.Percent(0, false); err == nil && len(cpuuse) > 0 {
		info.CpuPercent = cpuuse[0]
	}
	if meminfo, err := mem.VirtualMemory(); err == nil {
		info.MemUsedMb = meminfo.Used / 1024 / 1024
		info.MemTotalMb = meminfo.Total / 1024 / 1024
	}
	if p, err := process.NewProcess(int32(os.Getpid())); err == nil {
		if cpuuse, err := p.CPUPercent(); err == nil {
			info.ProcCpuPercent = cpuuse
		}
		if meminfo, err := p.MemoryInfo(); err == nil {
			info.ProcRssMb = meminfo.RSS / 1024 / 1024
		}
	}

	return ok(c, info)
}
