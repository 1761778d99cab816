// Package fixtures holds the static data sets behind the sorting test
// endpoints, along with the sort behaviours each endpoint exhibits.
//
// Users and products sort correctly. Tasks sort ascending by title whatever
// order is requested. Orders ignore sorting entirely.
package fixtures
