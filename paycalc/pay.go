/*
pay.go - Tiered overtime and holiday-doubling pay computation

PURPOSE:
  Computes regular, overtime and total pay for a shift's worked hours.

TWO REGIMES:
  1. Holiday (typhoon or national): every hour pays double the wage.
     The overtime rule and its threshold are ignored entirely.
  2. Normal day: hours up to the threshold pay the plain wage; hours past
     it are consumed through the rule's bands in order.

BAND CONSUMPTION:
  Overtime bands are additive, not fixed total-hours cutoffs. With the
  default 8-hour threshold: hours 9-10 at Level1Rate, hours 11-12 at
  Level2Rate, everything beyond at Level3Rate with no upper cap.

VALIDATION:
  Negative hours or wages are not rejected here; input validation belongs
  to the calling layer.

SEE ALSO:
  - clock.go: Produces the hours fed into ComputePay
*/
package paycalc

import (
	"github.com/shopspring/decimal"
)

var (
	two       = decimal.NewFromInt(2)
	bandWidth = decimal.NewFromInt(2) // hours per overtime band
)

// ComputePay computes the pay breakdown for a shift.
func ComputePay(hours, wage decimal.Decimal, holiday Holiday, rule OvertimeRule) PayBreakdown {
	if holiday.Doubles() {
		regular := wage.Mul(hours)
		total := regular.Mul(two)
		return PayBreakdown{
			RegularPay:  regular,
			OvertimePay: total.Sub(regular),
			TotalPay:    total,
		}
	}

	base := decimal.Min(hours, rule.ThresholdHours)
	overtime := decimal.Max(hours.Sub(rule.ThresholdHours), decimal.Zero)

	regular := wage.Mul(base)
	overtimePay := decimal.Zero

	if overtime.IsPositive() {
		band := decimal.Min(overtime, bandWidth)
		overtimePay = overtimePay.Add(band.Mul(wage).Mul(rule.Level1Rate))
		overtime = overtime.Sub(band)
	}

	if overtime.IsPositive() {
		band := decimal.Min(overtime, bandWidth)
		overtimePay = overtimePay.Add(band.Mul(wage).Mul(rule.Level2Rate))
		overtime = overtime.Sub(band)
	}

	if overtime.IsPositive() {
		overtimePay = overtimePay.Add(overtime.Mul(wage).Mul(rule.Level3Rate))
	}

	return PayBreakdown{
		RegularPay:  regular,
		OvertimePay: overtimePay,
		TotalPay:    regular.Add(overtimePay),
	}
}
