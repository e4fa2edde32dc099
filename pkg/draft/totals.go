package draft

// TodayTotalCents is the amount charged at checkout: base formation fee plus
// state filing fee plus rush fee, minus the coupon discount, clamped at zero.
// Recurring add-ons are never part of the "today" charge.
func (d OrderDraft) TodayTotalCents() int64 {
	total := d.BaseFeeCents
	if d.StateFeeCents != nil {
		total += *d.StateFeeCents
	}
	if d.Rush && d.RushFeeCents != nil {
		total += *d.RushFeeCents
	}
	discount := d.DiscountCents
	if discount > d.BaseFeeCents {
		discount = d.BaseFeeCents
	}
	total -= discount
	if total < 0 {
		total = 0
	}
	return total
}
