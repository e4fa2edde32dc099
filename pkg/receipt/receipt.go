// Package receipt renders order confirmations as HTML and plain text. Free
// text entered during the wizard is sanitized before it reaches a template so
// a company name cannot smuggle markup into the confirmation email.
package receipt

import (
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"sync"
	"time"

	"github.com/flosch/pongo2/v6"
	"github.com/microcosm-cc/bluemonday"

	"github.com/goliatone/go-orderwizard/pkg/draft"
	"github.com/goliatone/go-orderwizard/pkg/pricing"
)

//go:embed templates/*.tpl
var builtinTemplates embed.FS

const (
	// TemplateHTML is the name of the built-in HTML confirmation template.
	TemplateHTML = "receipt.html"
	// TemplateText is the name of the built-in plain text template.
	TemplateText = "receipt.txt"

	tplExt = ".tpl"
)

var registerMoney sync.Once

type config struct {
	templates fs.FS
	now       func() time.Time
}

// Option customizes a Renderer.
type Option func(*config)

// WithTemplates overrides the built-in template set. Templates are looked up
// by name plus the ".tpl" extension.
func WithTemplates(fsys fs.FS) Option {
	return func(c *config) {
		c.templates = fsys
	}
}

// WithClock overrides the timestamp source, mainly for tests.
func WithClock(now func() time.Time) Option {
	return func(c *config) {
		if now != nil {
			c.now = now
		}
	}
}

// Renderer produces confirmation documents from a finalized draft.
type Renderer struct {
	set     *pongo2.TemplateSet
	policy  *bluemonday.Policy
	catalog *pricing.Catalog
	now     func() time.Time

	mu    sync.Mutex
	cache map[string]*pongo2.Template
}

// New builds a Renderer over the given price catalog.
func New(catalog *pricing.Catalog, options ...Option) (*Renderer, error) {
	if catalog == nil {
		return nil, errors.New("receipt: catalog is required")
	}
	cfg := &config{now: time.Now}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(cfg)
	}

	fsys := cfg.templates
	if fsys == nil {
		sub, err := fs.Sub(builtinTemplates, "templates")
		if err != nil {
			return nil, fmt.Errorf("receipt: open builtin templates: %w", err)
		}
		fsys = sub
	}

	registerMoney.Do(func() {
		if !pongo2.FilterExists("money") {
			_ = pongo2.RegisterFilter("money", filterMoney)
		}
	})

	return &Renderer{
		set:     pongo2.NewSet("receipt", pongo2.NewFSLoader(fsys)),
		policy:  bluemonday.StrictPolicy(),
		catalog: catalog,
		now:     cfg.now,
		cache:   make(map[string]*pongo2.Template),
	}, nil
}

// Render executes the named template against the draft. Use TemplateHTML or
// TemplateText for the built-in documents.
func (r *Renderer) Render(name string, d draft.OrderDraft) (string, error) {
	if r == nil || r.set == nil {
		return "", errors.New("receipt: renderer is nil")
	}
	tmpl, err := r.template(name + tplExt)
	if err != nil {
		return "", err
	}
	out, err := tmpl.Execute(r.context(d))
	if err != nil {
		return "", fmt.Errorf("receipt: render %s: %w", name, err)
	}
	return out, nil
}

func (r *Renderer) template(path string) (*pongo2.Template, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if tmpl, ok := r.cache[path]; ok {
		return tmpl, nil
	}
	tmpl, err := r.set.FromFile(path)
	if err != nil {
		return nil, fmt.Errorf("receipt: load template %s: %w", path, err)
	}
	r.cache[path] = tmpl
	return tmpl, nil
}

func (r *Renderer) context(d draft.OrderDraft) pongo2.Context {
	items := r.catalog.LineItems(d)
	rows := make([]pongo2.Context, 0, len(items))
	for _, item := range items {
		rows = append(rows, pongo2.Context{
			"key":       item.Key,
			"label":     item.Label,
			"amount":    item.AmountCents,
			"recurring": item.Recurring,
		})
	}

	company := r.policy.Sanitize(d.CompanyLabel())
	purpose := r.policy.Sanitize(d.Address.Purpose)

	return pongo2.Context{
		"orderId":   d.OrderID,
		"company":   company,
		"purpose":   purpose,
		"firstName": r.policy.Sanitize(d.FirstName),
		"lastName":  r.policy.Sanitize(d.LastName),
		"email":     d.Email,
		"phone":     draft.FormatPhone(d.Phone),
		"stateCode": d.StateCode,
		"rush":      d.Rush,
		"items":     rows,
		"dueToday":  pricing.DueTodayCents(items),
		"issuedAt":  r.now().UTC().Format("January 2, 2006"),
	}
}

// filterMoney formats integer cents as a dollar amount, "9999" becomes
// "$99.99". Negative values keep the sign ahead of the dollar symbol.
func filterMoney(in *pongo2.Value, _ *pongo2.Value) (*pongo2.Value, *pongo2.Error) {
	cents := int64(in.Integer())
	sign := ""
	if cents < 0 {
		sign = "-"
		cents = -cents
	}
	formatted := fmt.Sprintf("%s$%d.%02d", sign, cents/100, cents%100)
	return pongo2.AsValue(formatted), nil
}

// Subject builds the confirmation email subject line. A deferred or missing
// company name falls back to the generic subject.
func Subject(d draft.OrderDraft) string {
	if d.NoNameYet {
		return "Your LLC order is confirmed"
	}
	company := strings.TrimSpace(d.CompanyName)
	if company == "" {
		return "Your LLC order is confirmed"
	}
	return fmt.Sprintf("Your LLC order for %s is confirmed", company)
}
