package spotify

import (
	"net/url"
	"strconv"
)

// QueryParams holds the optional query parameters shared by most endpoints.
// Zero values are omitted.
type QueryParams struct {
	Market          string
	Country         string
	Locale          string
	Limit           int
	Offset          int
	TimeRange       TimeRange
	IncludeGroups   []AlbumType
	AdditionalTypes []AdditionalType
	Fields          string
	IncludeExternal string
	Extra           map[string]string
}

// NewQueryParams creates an empty parameter set.
func NewQueryParams() *QueryParams {
	return &QueryParams{
		Extra: make(map[string]string),
	}
}

// WithMarket sets the ISO 3166-1 market code, or "from_token".
func (q *QueryParams) WithMarket(market string) *QueryParams {
	q.Market = market

	return q
}

// WithCountry sets the country used by browse endpoints.
func (q *QueryParams) WithCountry(country string) *QueryParams {
	q.Country = country

	return q
}

// WithLocale sets the locale used by browse endpoints, e.g. "sv_SE".
func (q *QueryParams) WithLocale(locale string) *QueryParams {
	q.Locale = locale

	return q
}

// WithLimit sets the page size.
func (q *QueryParams) WithLimit(limit int) *QueryParams {
	q.Limit = limit

	return q
}

// WithOffset sets the index of the first item to return.
func (q *QueryParams) WithOffset(offset int) *QueryParams {
	q.Offset = offset

	return q
}

// WithTimeRange sets the period for top items.
func (q *QueryParams) WithTimeRange(timeRange TimeRange) *QueryParams {
	q.TimeRange = timeRange

	return q
}

// WithIncludeGroups appends album groups for the artist albums endpoint.
func (q *QueryParams) WithIncludeGroups(groups ...AlbumType) *QueryParams {
	q.IncludeGroups = append(q.IncludeGroups, groups...)

	return q
}

// WithAdditionalTypes appends item types besides track the caller accepts.
func (q *QueryParams) WithAdditionalTypes(types ...AdditionalType) *QueryParams {
	q.AdditionalTypes = append(q.AdditionalTypes, types...)

	return q
}

// WithFields restricts the returned fields of playlist endpoints.
func (q *QueryParams) WithFields(fields string) *QueryParams {
	q.Fields = fields

	return q
}

// WithExtra sets an arbitrary parameter not covered by the typed fields.
func (q *QueryParams) WithExtra(key, value string) *QueryParams {
	if q.Extra == nil {
		q.Extra = make(map[string]string)
	}

	q.Extra[key] = value

	return q
}

// ToValues converts the parameter set to URL values. A nil receiver yields
// empty values.
func (q *QueryParams) ToValues() url.Values {
	values := url.Values{}
	if q == nil {
		return values
	}

	setIf(values, "market", q.Market)
	setIf(values, "country", q.Country)
	setIf(values, "locale", q.Locale)
	setIf(values, "fields", q.Fields)
	setIf(values, "include_external", q.IncludeExternal)
	setIf(values, "time_range", string(q.TimeRange))

	if q.Limit > 0 {
		values.Set("limit", strconv.Itoa(q.Limit))
	}

	if q.Offset > 0 {
		values.Set("offset", strconv.Itoa(q.Offset))
	}

	if len(q.IncludeGroups) > 0 {
		values.Set("include_groups", joinMembers(q.IncludeGroups))
	}

	if len(q.AdditionalTypes) > 0 {
		values.Set("additional_types", joinMembers(q.AdditionalTypes))
	}

	for key, value := range q.Extra {
		values.Set(key, value)
	}

	return values
}

func setIf(values url.Values, key, value string) {
	if value != "" {
		values.Set(key, value)
	}
}
