// Package driver loads programs from files, embedded samples, or git
// repositories, reads vizlist.yml configuration, and runs sessions under a
// step budget.
package driver
