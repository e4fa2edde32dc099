// Package statefees serves the per-state LLC filing fee table as JSON for the
// formation-state selector.
//
// The default handler responds to GET and HEAD requests and supports query and
// limit parameters to filter results. The backing data comes from any
// pricing.FeeSource; the embedded price catalog is used when none is supplied.
package statefees
