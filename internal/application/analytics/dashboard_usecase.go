// Package analytics contiene el caso de uso del dashboard: resumen de
// ventas del día y del mes, contadores operativos y alertas.
package analytics

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/sigepy/erp-api/internal/application/dto"
	"github.com/sigepy/erp-api/internal/domain/repository"
)

const (
	dashboardTopProducts = 5  // productos en el widget del dashboard
	dashboardMonths      = 12 // meses de la serie de ventas
)

// DashboardUseCase genera el resumen financiero y operativo del dashboard.
//
// Fuente de datos: AnalyticsRepository (consultas read-only).
type DashboardUseCase struct {
	analyticsRepo repository.AnalyticsRepository
}

// NewDashboardUseCase construye el caso de uso.
func NewDashboardUseCase(analyticsRepo repository.AnalyticsRepository) *DashboardUseCase {
	return &DashboardUseCase{analyticsRepo: analyticsRepo}
}

// GetSummary construye el DashboardSummaryDTO.
//
// Cinco consultas en paralelo:
//  1. GetSalesMetrics(hoy)
//  2. GetSalesMetrics(mes)
//  3. GetTopProducts(mes, top 5)
//  4. GetPendingCounters(hoy)
//  5. GetSalesByMonth(12) + GetDepositTotals
func (uc *DashboardUseCase) GetSummary(ctx context.Context) (*dto.DashboardSummaryDTO, error) {
	now := time.Now()

	// Hoy: 00:00:00.000 – 23:59:59.999
	todayStart := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	todayEnd := todayStart.Add(24*time.Hour - time.Nanosecond)

	// Mes en curso: día 1 a las 00:00 – hoy a las 23:59:59
	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	monthEnd := todayEnd

	type metricsResult struct {
		invoiced  decimal.Decimal
		collected decimal.Decimal
		err       error
	}
	type topResult struct {
		products []repository.TopProductResult
		err      error
	}
	type countersResult struct {
		counters *repository.PendingCounters
		err      error
	}
	type seriesResult struct {
		months []repository.SalesByMonthResult
		pyg    decimal.Decimal
		usd    decimal.Decimal
		err    error
	}

	todayCh := make(chan metricsResult, 1)
	monthCh := make(chan metricsResult, 1)
	topCh := make(chan topResult, 1)
	countersCh := make(chan countersResult, 1)
	seriesCh := make(chan seriesResult, 1)

	go func() {
		inv, col, err := uc.analyticsRepo.GetSalesMetrics(ctx, todayStart, todayEnd)
		todayCh <- metricsResult{inv, col, err}
	}()
	go func() {
		inv, col, err := uc.analyticsRepo.GetSalesMetrics(ctx, monthStart, monthEnd)
		monthCh <- metricsResult{inv, col, err}
	}()
	go func() {
		products, err := uc.analyticsRepo.GetTopProducts(ctx, monthStart, monthEnd, dashboardTopProducts)
		topCh <- topResult{products, err}
	}()
	go func() {
		counters, err := uc.analyticsRepo.GetPendingCounters(ctx, todayStart)
		countersCh <- countersResult{counters, err}
	}()
	go func() {
		months, err := uc.analyticsRepo.GetSalesByMonth(ctx, dashboardMonths)
		if err != nil {
			seriesCh <- seriesResult{err: err}
			return
		}
		pyg, usd, err := uc.analyticsRepo.GetDepositTotals(ctx)
		seriesCh <- seriesResult{months, pyg, usd, err}
	}()

	today := <-todayCh
	month := <-monthCh
	top := <-topCh
	counters := <-countersCh
	series := <-seriesCh

	if today.err != nil {
		return nil, fmt.Errorf("dashboard: métricas de hoy: %w", today.err)
	}
	if month.err != nil {
		return nil, fmt.Errorf("dashboard: métricas del mes: %w", month.err)
	}
	if top.err != nil {
		return nil, fmt.Errorf("dashboard: top productos: %w", top.err)
	}
	if counters.err != nil {
		return nil, fmt.Errorf("dashboard: contadores: %w", counters.err)
	}
	if series.err != nil {
		return nil, fmt.Errorf("dashboard: serie mensual: %w", series.err)
	}

	topProducts := make([]dto.TopProductDTO, 0, len(top.products))
	for _, p := range top.products {
		topProducts = append(topProducts, dto.TopProductDTO{
			ProductID:   p.ProductID,
			ProductCode: p.ProductCode,
			ProductName: p.ProductName,
			UnitsSold:   p.UnitsSold,
			Revenue:     p.Revenue,
		})
	}
	monthly := make([]dto.MonthlySalesDTO, 0, len(series.months))
	for _, m := range series.months {
		monthly = append(monthly, dto.MonthlySalesDTO{
			Year:  m.Year,
			Month: m.Month,
			Label: monthLabel(time.Date(m.Year, time.Month(m.Month), 1, 0, 0, 0, 0, time.UTC)),
			Total: m.Total,
			Count: m.Count,
		})
	}

	return &dto.DashboardSummaryDTO{
		TodayInvoiced:  today.invoiced.Round(2),
		TodayCollected: today.collected.Round(2),
		MonthInvoiced:  month.invoiced.Round(2),
		MonthCollected: month.collected.Round(2),

		PendingQuotes:    counters.counters.PendingQuotes,
		PendingOrders:    counters.counters.PendingOrders,
		OverdueInvoices:  counters.counters.OverdueInvoices,
		LowStockProducts: counters.counters.LowStockProducts,
		ActiveDeposits:   counters.counters.ActiveDeposits,

		DepositsAvailablePYG: series.pyg,
		DepositsAvailableUSD: series.usd,

		TopProducts:  topProducts,
		MonthlySales: monthly,
		DateLabel:    monthLabel(now),
	}, nil
}

// monthLabel devuelve una etiqueta legible del mes, ej: "Agosto 2026".
func monthLabel(t time.Time) string {
	months := [...]string{
		"Enero", "Febrero", "Marzo", "Abril", "Mayo", "Junio",
		"Julio", "Agosto", "Septiembre", "Octubre", "Noviembre", "Diciembre",
	}
	return fmt.Sprintf("%s %d", months[t.Month()-1], t.Year())
}
