// Package pricing resolves state filing fees, validates coupon codes, and
// expands the order draft into priced summary rows from a yaml price book.
package pricing
