// Package bodyparser turns request bodies into values.
//
// A [Parser] looks at the request's content type and either handles it or
// passes the request on. [Chain] folds parsers so the first one listed runs
// first; if none claims the request the result is an [*UnsupportedError]
// (HTTP 415). A parser that claims a request it cannot decode returns a
// [*MalformedError] (HTTP 422).
//
//	parse := bodyparser.Chain(bodyparser.JSON(bodyparser.WithLimit(64<<10)), bodyparser.Text())
//	v, err := parse(r)
//
// Parsed values are generic (maps, slices, strings). Use [Decode] to copy one
// into a typed struct.
package bodyparser
