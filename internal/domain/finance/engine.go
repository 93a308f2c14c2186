// Package finance contiene el motor de agregación financiera: funciones puras
// y deterministas sobre un snapshot del estado. Ninguna función lanza error ni
// divide por cero; los casos borde devuelven 0.
package finance

import (
	"time"

	"github.com/shopspring/decimal"
	"github.com/tu-usuario/negocio-pro/internal/domain/entity"
)

// Snapshot corte inmutable del estado que consume el motor. El StateStore lo
// produce; el motor nunca toca los backends.
type Snapshot struct {
	Products       []entity.Product
	Sales          []entity.Sale
	CashMovements  []entity.CashMovement
	WorkingCapital entity.WorkingCapital
}

// MarginBucket clasificación categórica del margen de un producto.
type MarginBucket string

const (
	MarginLow    MarginBucket = "low"    // < 15%
	MarginMedium MarginBucket = "medium" // 15% – 30%
	MarginHigh   MarginBucket = "high"   // > 30%
)

var (
	hundred       = decimal.NewFromInt(100)
	marginLowCut  = decimal.NewFromInt(15)
	marginHighCut = decimal.NewFromInt(30)
	capitalFactor = decimal.RequireFromString("0.7")
)

// StockValue valor del inventario: Σ(precio efectivo × cantidad en stock).
// El precio efectivo es el promocional si el producto está en promoción.
func StockValue(products []entity.Product) decimal.Decimal {
	total := decimal.Zero
	for _, p := range products {
		total = total.Add(p.EffectivePrice().Mul(decimal.NewFromInt(p.StockQty)))
	}
	return total
}

// WorkingCapitalEstimate capital de giro estimado: el valor configurado si
// existe; si no, heurística documentada de 0.7 × valor del inventario.
func WorkingCapitalEstimate(wc entity.WorkingCapital, stockValue decimal.Decimal) decimal.Decimal {
	if wc.Configured {
		return wc.CurrentValue
	}
	return capitalFactor.Mul(stockValue)
}

// Turnover rotación de inventario: ingresos del periodo / valor del inventario.
// 0 si el inventario vale 0 (nunca división por cero).
func Turnover(periodRevenue, stockValue decimal.Decimal) decimal.Decimal {
	if stockValue.IsZero() {
		return decimal.Zero
	}
	return periodRevenue.Div(stockValue)
}

// GrowthPct crecimiento porcentual entre periodos. Definido como 0 cuando el
// periodo anterior no tuvo ingresos (no Inf ni NaN).
func GrowthPct(currentPeriodRevenue, priorPeriodRevenue decimal.Decimal) decimal.Decimal {
	if priorPeriodRevenue.IsZero() {
		return decimal.Zero
	}
	return currentPeriodRevenue.Sub(priorPeriodRevenue).Div(priorPeriodRevenue).Mul(hundred)
}

// CashBalance saldo de caja: Σinversiones + Σventas − Σretiros − Σpérdidas.
func CashBalance(movements []entity.CashMovement) decimal.Decimal {
	balance := decimal.Zero
	for _, m := range movements {
		switch m.Type {
		case entity.MovementInvestment, entity.MovementSale:
			balance = balance.Add(m.Amount)
		case entity.MovementWithdrawal, entity.MovementLoss:
			balance = balance.Sub(m.Amount)
		}
	}
	return balance
}

// ProjectedProfit ganancia proyectada sobre productos activos:
// Σ(precio de lista × stock) − Σ(costo × stock).
func ProjectedProfit(products []entity.Product) decimal.Decimal {
	profit := decimal.Zero
	for _, p := range products {
		if !p.Active {
			continue
		}
		qty := decimal.NewFromInt(p.StockQty)
		profit = profit.Add(p.Price.Mul(qty)).Sub(p.Cost.Mul(qty))
	}
	return profit
}

// ROI retorno sobre el capital de giro estimado, en porcentaje.
// 0 si el denominador es 0.
func ROI(periodRevenue, workingCapitalEstimate decimal.Decimal) decimal.Decimal {
	if workingCapitalEstimate.IsZero() {
		return decimal.Zero
	}
	return periodRevenue.Div(workingCapitalEstimate).Mul(hundred)
}

// ClassifyMargin clasifica un margen porcentual en su bucket. Los límites son
// inclusivos en la cota inferior de cada bucket: 15% → medium, 30% → medium.
func ClassifyMargin(marginPct decimal.Decimal) MarginBucket {
	if marginPct.LessThan(marginLowCut) {
		return MarginLow
	}
	if marginPct.LessThanOrEqual(marginHighCut) {
		return MarginMedium
	}
	return MarginHigh
}

// PeriodRevenue ingresos del periodo [from, to): suma de totales de ventas no
// canceladas cuyo timestamp cae en el rango.
func PeriodRevenue(sales []entity.Sale, from, to time.Time) decimal.Decimal {
	revenue := decimal.Zero
	for _, s := range sales {
		if s.IsCancelled() {
			continue
		}
		if s.Timestamp.Before(from) || !s.Timestamp.Before(to) {
			continue
		}
		revenue = revenue.Add(s.Total)
	}
	return revenue
}

// ReportSummary reporte numérico agregado que consume el dashboard.
type ReportSummary struct {
	StockValue             decimal.Decimal `json:"stock_value"`
	WorkingCapitalEstimate decimal.Decimal `json:"working_capital_estimate"`
	PeriodRevenue          decimal.Decimal `json:"period_revenue"`
	Turnover               decimal.Decimal `json:"turnover"`
	GrowthPct              decimal.Decimal `json:"growth_pct"`
	CashBalance            decimal.Decimal `json:"cash_balance"`
	ProjectedProfit        decimal.Decimal `json:"projected_profit"`
	ROI                    decimal.Decimal `json:"roi"`
}

// Summarize calcula el reporte del mes calendario que contiene a now,
// comparando contra el mes anterior. Determinista para un snapshot y un
// instante dados.
func Summarize(snap Snapshot, now time.Time) ReportSummary {
	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	monthEnd := monthStart.AddDate(0, 1, 0)
	priorStart := monthStart.AddDate(0, -1, 0)

	stockValue := StockValue(snap.Products)
	capital := WorkingCapitalEstimate(snap.WorkingCapital, stockValue)
	revenue := PeriodRevenue(snap.Sales, monthStart, monthEnd)
	priorRevenue := PeriodRevenue(snap.Sales, priorStart, monthStart)

	return ReportSummary{
		StockValue:             stockValue,
		WorkingCapitalEstimate: capital,
		PeriodRevenue:          revenue,
		Turnover:               Turnover(revenue, stockValue),
		GrowthPct:              GrowthPct(revenue, priorRevenue),
		CashBalance:            CashBalance(snap.CashMovements),
		ProjectedProfit:        ProjectedProfit(snap.Products),
		ROI:                    ROI(revenue, capital),
	}
}
