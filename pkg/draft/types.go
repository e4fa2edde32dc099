package draft

// WebsiteTier enumerates the website add-on packages a customer can attach to
// an order. The zero value means no website service was selected.
type WebsiteTier string

const (
	WebsiteTierNone     WebsiteTier = ""
	WebsiteTierStarter  WebsiteTier = "starter"
	WebsiteTierBusiness WebsiteTier = "business"
	WebsiteTierPremium  WebsiteTier = "premium"
)

// Services captures the optional add-on toggles collected on the services
// step. Every field is optional; pricing annotations are derived elsewhere.
type Services struct {
	RegisteredAgent    bool        `json:"registeredAgent"`
	Compliance         bool        `json:"compliance"`
	EIN                bool        `json:"ein"`
	OperatingAgreement bool        `json:"operatingAgreement"`
	BankLetter         bool        `json:"bankLetter"`
	WebsiteTier        WebsiteTier `json:"websiteTier,omitempty"`
	BlogAddon          bool        `json:"blogAddon"`
}

// Address holds the business address collected on the LLC details step.
type Address struct {
	Street  string `json:"street"`
	City    string `json:"city"`
	Zip     string `json:"zip"`
	Purpose string `json:"purpose"`
}

// Credentials are held only while the customer is unauthenticated; they are
// cleared once a session exists.
type Credentials struct {
	Email           string `json:"email"`
	Password        string `json:"-"`
	ConfirmPassword string `json:"-"`
	NewAccount      bool   `json:"newAccount"`
}

// Payment records the outcome of the payment step. It is written exactly once,
// after the payment adapter reports success.
type Payment struct {
	TransactionID   string `json:"transactionId"`
	Provider        string `json:"provider"`
	CardBrand       string `json:"cardBrand,omitempty"`
	CardLast4       string `json:"cardLast4,omitempty"`
	CustomerID      string `json:"customerId,omitempty"`
	PaymentMethodID string `json:"paymentMethodId,omitempty"`
}

// OrderDraft is the aggregate form record shared across wizard steps. Only one
// step mutates it at a time, and only through Apply.
type OrderDraft struct {
	CompanyName string `json:"companyName,omitempty"`
	NoNameYet   bool   `json:"noNameYet"`
	FirstName   string `json:"firstName"`
	LastName    string `json:"lastName"`
	Email       string `json:"email"`
	// Phone is stored digits-only; use FormatPhone for display.
	Phone string `json:"phone"`

	Credentials Credentials `json:"credentials"`

	StateCode string `json:"stateCode"`
	Rush      bool   `json:"rush"`

	Services Services `json:"services"`
	Address  Address  `json:"address"`

	// Monetary amounts are cents. Fee fields stay nil until a lookup succeeds
	// so renderers can distinguish "unknown" from "free".
	BaseFeeCents   int64  `json:"baseFeeCents"`
	StateFeeCents  *int64 `json:"stateFeeCents,omitempty"`
	RushFeeCents   *int64 `json:"rushFeeCents,omitempty"`
	CouponCode     string `json:"couponCode,omitempty"`
	DiscountCents  int64  `json:"discountCents"`
	OrderID        string `json:"orderId,omitempty"`

	Payment *Payment `json:"payment,omitempty"`
}

// DefaultBaseFeeCents is the formation package price used when no catalog
// override is supplied.
const DefaultBaseFeeCents int64 = 9999

// New returns a draft populated with defaults. The wizard controller calls
// this on mount and again on "start over".
func New() OrderDraft {
	return OrderDraft{
		BaseFeeCents: DefaultBaseFeeCents,
	}
}

// HasState reports whether a formation state has been selected. Later steps
// stay invalid until it returns true.
func (d OrderDraft) HasState() bool {
	return d.StateCode != ""
}

// CompanyLabel returns the display name for the company, falling back to a
// reservation notice when the customer deferred naming.
func (d OrderDraft) CompanyLabel() string {
	if d.NoNameYet {
		return "Name reserved later"
	}
	return d.CompanyName
}
