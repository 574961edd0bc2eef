// Package dto defines the request and response shapes of the HTTP
// surface. Money fields travel as JSON numbers.
package dto

import "github.com/shopspring/decimal"

func init() {
	decimal.MarshalJSONWithoutQuotes = true
}
