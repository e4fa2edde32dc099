// Package draft defines the shared order record collected by the wizard and
// the action reducer that is the only sanctioned way to update it.
package draft
