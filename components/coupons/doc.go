// Package coupons exposes coupon validation over HTTP for the payment step.
//
// The default handler responds to POST requests carrying a JSON body with the
// coupon code and order total. Validation is delegated to any
// pricing.CouponValidator; a static table can be supplied for tests and demos.
package coupons
