package coupons

import (
	"net/http"

	"github.com/goliatone/go-orderwizard/pkg/pricing"
)

type GuardFunc func(r *http.Request) error

type Options struct {
	RoutePath    string
	ServiceKey   string
	MaxBodyBytes int64
	Guard        GuardFunc

	Validator pricing.CouponValidator
}

type OptionFn func(*Options)

func DefaultOptions() Options {
	return Options{
		RoutePath:    "/api/coupons/validate",
		ServiceKey:   "llc-formation",
		MaxBodyBytes: 4096,
	}
}

func NewOptions(fns ...OptionFn) Options {
	opts := DefaultOptions()
	for _, fn := range fns {
		if fn == nil {
			continue
		}
		fn(&opts)
	}
	if opts.RoutePath == "" {
		opts.RoutePath = "/api/coupons/validate"
	}
	if opts.ServiceKey == "" {
		opts.ServiceKey = "llc-formation"
	}
	if opts.MaxBodyBytes <= 0 {
		opts.MaxBodyBytes = 4096
	}
	return opts
}

func WithRoutePath(path string) OptionFn {
	return func(o *Options) {
		if o == nil {
			return
		}
		o.RoutePath = path
	}
}

func WithServiceKey(key string) OptionFn {
	return func(o *Options) {
		if o == nil {
			return
		}
		o.ServiceKey = key
	}
}

func WithMaxBodyBytes(n int64) OptionFn {
	return func(o *Options) {
		if o == nil {
			return
		}
		o.MaxBodyBytes = n
	}
}

func WithGuard(guard GuardFunc) OptionFn {
	return func(o *Options) {
		if o == nil {
			return
		}
		o.Guard = guard
	}
}

func WithValidator(validator pricing.CouponValidator) OptionFn {
	return func(o *Options) {
		if o == nil {
			return
		}
		o.Validator = validator
	}
}
