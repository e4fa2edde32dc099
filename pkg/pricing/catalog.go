package pricing

import (
	_ "embed"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/goliatone/go-orderwizard/pkg/draft"
)

//go:embed catalog.yaml
var embeddedCatalog []byte

// ServicePrice describes one add-on in the catalog. Recurring services bill
// on a cycle and are never part of the "today" charge.
type ServicePrice struct {
	Label      string `yaml:"label"`
	PriceCents int64  `yaml:"price"`
	Recurring  bool   `yaml:"recurring"`
}

// Catalog is the yaml-defined price book: the base formation package, add-on
// services, website tiers, and the static state-fee table used when no
// pricing service is configured.
type Catalog struct {
	BaseFeeCents int64                   `yaml:"baseFee"`
	Services     map[string]ServicePrice `yaml:"services"`
	WebsiteTiers map[string]ServicePrice `yaml:"websiteTiers"`
	BlogAddon    ServicePrice            `yaml:"blogAddon"`
	States       []StateFee              `yaml:"states"`
}

// LoadCatalog parses a yaml catalog document.
func LoadCatalog(data []byte) (*Catalog, error) {
	var catalog Catalog
	if err := yaml.Unmarshal(data, &catalog); err != nil {
		return nil, fmt.Errorf("pricing: parse catalog: %w", err)
	}
	if catalog.BaseFeeCents <= 0 {
		catalog.BaseFeeCents = draft.DefaultBaseFeeCents
	}
	return &catalog, nil
}

// LoadCatalogFile reads and parses a yaml catalog from disk.
func LoadCatalogFile(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("pricing: read catalog: %w", err)
	}
	return LoadCatalog(data)
}

// DefaultCatalog returns the embedded price book.
func DefaultCatalog() *Catalog {
	catalog, err := LoadCatalog(embeddedCatalog)
	if err != nil {
		// The embedded document is validated by tests; a parse failure here
		// is a build defect.
		panic(err)
	}
	return catalog
}

// Fees exposes the catalog's state table as a FeeSource.
func (c *Catalog) Fees() FeeSource {
	return NewStaticFees(c.States)
}

// LineItem is one row of the order summary.
type LineItem struct {
	Key         string `json:"key"`
	Label       string `json:"label"`
	AmountCents int64  `json:"amount"`
	Recurring   bool   `json:"recurring"`
}

// serviceSelections maps catalog keys to the draft toggles.
func serviceSelections(s draft.Services) map[string]bool {
	return map[string]bool{
		"registeredAgent":    s.RegisteredAgent,
		"compliance":         s.Compliance,
		"ein":                s.EIN,
		"operatingAgreement": s.OperatingAgreement,
		"bankLetter":         s.BankLetter,
	}
}

// serviceOrder keeps summaries stable.
var serviceOrder = []string{"registeredAgent", "compliance", "ein", "operatingAgreement", "bankLetter"}

// WebsiteDiscountEligible mirrors the services-step rule: compliance or
// registered agent unlocks the website discount.
func WebsiteDiscountEligible(s draft.Services) bool {
	return s.Compliance || s.RegisteredAgent
}

// WebsiteDiscountPercent is applied to website add-ons when unlocked.
const WebsiteDiscountPercent = 25

// LineItems expands the draft's selections into priced summary rows. The
// formation package and fees come first, recurring add-ons last.
func (c *Catalog) LineItems(d draft.OrderDraft) []LineItem {
	items := []LineItem{{
		Key:         "formation",
		Label:       "LLC Formation Package",
		AmountCents: c.BaseFeeCents,
	}}

	if d.StateFeeCents != nil {
		items = append(items, LineItem{
			Key:         "stateFee",
			Label:       fmt.Sprintf("%s State Filing Fee", strings.ToUpper(d.StateCode)),
			AmountCents: *d.StateFeeCents,
		})
	}
	if d.Rush && d.RushFeeCents != nil {
		items = append(items, LineItem{
			Key:         "rushFee",
			Label:       "Rush Processing",
			AmountCents: *d.RushFeeCents,
		})
	}
	if d.DiscountCents > 0 {
		discount := d.DiscountCents
		if discount > c.BaseFeeCents {
			discount = c.BaseFeeCents
		}
		items = append(items, LineItem{
			Key:         "coupon",
			Label:       fmt.Sprintf("Coupon %s", d.CouponCode),
			AmountCents: -discount,
		})
	}

	selected := serviceSelections(d.Services)
	for _, key := range serviceOrder {
		if !selected[key] {
			continue
		}
		price, ok := c.Services[key]
		if !ok {
			continue
		}
		items = append(items, LineItem{
			Key:         key,
			Label:       price.Label,
			AmountCents: price.PriceCents,
			Recurring:   price.Recurring,
		})
	}

	if tier := string(d.Services.WebsiteTier); tier != "" {
		if price, ok := c.WebsiteTiers[tier]; ok {
			amount := price.PriceCents
			if WebsiteDiscountEligible(d.Services) {
				amount -= amount * WebsiteDiscountPercent / 100
			}
			items = append(items, LineItem{
				Key:         "website." + tier,
				Label:       price.Label,
				AmountCents: amount,
				Recurring:   price.Recurring,
			})
		}
		if d.Services.BlogAddon && c.BlogAddon.PriceCents > 0 {
			items = append(items, LineItem{
				Key:         "website.blog",
				Label:       c.BlogAddon.Label,
				AmountCents: c.BlogAddon.PriceCents,
				Recurring:   c.BlogAddon.Recurring,
			})
		}
	}

	return items
}

// todayKeys are the rows charged at checkout. Add-on services, one-time or
// recurring, bill on fulfillment and never join the "today" charge.
var todayKeys = map[string]struct{}{
	"formation": {},
	"stateFee":  {},
	"rushFee":   {},
	"coupon":    {},
}

// DueTodayCents sums the checkout rows, clamped at zero. It matches
// draft.TodayTotalCents and exists so the receipt can be derived from the
// same rows it displays.
func DueTodayCents(items []LineItem) int64 {
	var total int64
	for _, item := range items {
		if _, ok := todayKeys[item.Key]; !ok {
			continue
		}
		total += item.AmountCents
	}
	if total < 0 {
		total = 0
	}
	return total
}
