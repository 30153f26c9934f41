package internal

import (
	"mime"
	"net/http"
	"sort"
	"strconv"
	"strings"

	"golang.org/x/text/language"
)

// Accepts negotiates response formats from request headers.
type Accepts struct {
	header http.Header
	ranges []mediaRange
	parsed bool
}

type mediaRange struct {
	typ, sub string
	q        float64
	order    int
}

// NewAccepts creates a negotiator over h.
func NewAccepts(h http.Header) *Accepts {
	return &Accepts{header: h}
}

// Type returns the offer the client prefers most, or "" if none is
// acceptable. A request without Accept accepts the first offer.
// Offers may be full media types or short names: json, html, text.
func (a *Accepts) Type(offers ...string) string {
	if len(offers) == 0 {
		return ""
	}
	ranges := a.mediaRanges()
	if len(ranges) == 0 {
		return offers[0]
	}

	best, bestQ, bestPrec, bestOrder := "", 0.0, -1, 0
	for _, offer := range offers {
		typ, sub, ok := splitMediaType(expandOffer(offer))
		if !ok {
			continue
		}

		// The most specific matching range decides the offer's quality.
		var match *mediaRange
		prec := -1
		for i := range ranges {
			r := &ranges[i]
			p := r.matches(typ, sub)
			if p > prec || (p == prec && p >= 0 && r.order < match.order) {
				match, prec = r, p
			}
		}
		if match == nil || match.q <= 0 {
			continue
		}

		if match.q > bestQ || (match.q == bestQ && prec > bestPrec) ||
			(match.q == bestQ && prec == bestPrec && match.order < bestOrder) {
			best, bestQ, bestPrec, bestOrder = offer, match.q, prec, match.order
		}
	}
	return best
}

// JSON reports whether the client takes JSON at least as readily as HTML.
func (a *Accepts) JSON() bool {
	return a.Type("json", "html") == "json"
}

// HTML reports whether HTML is preferred over JSON.
func (a *Accepts) HTML() bool {
	return a.Type("html", "json") == "html" && len(a.mediaRanges()) > 0
}

// Language returns the offer that best matches Accept-Language, defaulting
// to the first offer.
func (a *Accepts) Language(offers ...string) string {
	if len(offers) == 0 {
		return ""
	}
	tags := make([]language.Tag, 0, len(offers))
	valid := make([]string, 0, len(offers))
	for _, o := range offers {
		t, err := language.Parse(o)
		if err != nil {
			continue
		}
		tags = append(tags, t)
		valid = append(valid, o)
	}
	if len(tags) == 0 {
		return offers[0]
	}

	prefs, _, err := language.ParseAcceptLanguage(a.header.Get("Accept-Language"))
	if err != nil || len(prefs) == 0 {
		return valid[0]
	}
	_, idx, conf := language.NewMatcher(tags).Match(prefs...)
	if conf == language.No {
		return valid[0]
	}
	return valid[idx]
}

func (a *Accepts) mediaRanges() []mediaRange {
	if a.parsed {
		return a.ranges
	}
	a.parsed = true

	for i, part := range strings.Split(a.header.Get("Accept"), ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		mt, params, err := mime.ParseMediaType(part)
		if err != nil {
			continue
		}
		typ, sub, ok := splitMediaType(mt)
		if !ok {
			continue
		}
		q := 1.0
		if raw, ok := params["q"]; ok {
			if v, err := strconv.ParseFloat(raw, 64); err == nil && v >= 0 && v <= 1 {
				q = v
			}
		}
		a.ranges = append(a.ranges, mediaRange{typ: typ, sub: sub, q: q, order: i})
	}
	sort.SliceStable(a.ranges, func(i, j int) bool { return a.ranges[i].q > a.ranges[j].q })
	return a.ranges
}

// matches returns how specific the match is (0 */*, 1 type/*, 2 exact) or -1.
func (r mediaRange) matches(typ, sub string) int {
	switch {
	case r.typ == "*" && r.sub == "*":
		return 0
	case r.typ == typ && r.sub == "*":
		return 1
	case r.typ == typ && r.sub == sub:
		return 2
	}
	return -1
}

func splitMediaType(mt string) (string, string, bool) {
	typ, sub, ok := strings.Cut(strings.ToLower(mt), "/")
	if !ok || typ == "" || sub == "" {
		return "", "", false
	}
	return typ, sub, true
}

func expandOffer(offer string) string {
	switch offer {
	case "json":
		return "application/json"
	case "html":
		return "text/html"
	case "text":
		return "text/plain"
	case "xml":
		return "application/xml"
	}
	return offer
}
