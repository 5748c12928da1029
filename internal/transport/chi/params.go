package chi

import (
	"net/url"

	"github.com/oapi-codegen/runtime"

	"github.com/kailas-cloud/medidex/internal/domain/search/request"
)

// searchParams are the query parameters of GET /api/medicines, in binding order.
var searchParams = []string{
	request.ParamPage,
	request.ParamLimit,
	request.ParamSearch,
	request.ParamCategory,
	request.ParamManufacturer,
	request.ParamMinPrice,
	request.ParamMaxPrice,
	request.ParamSortBy,
	request.ParamSortOrder,
}

// bindSearchParams collects the known query parameters as raw strings.
// Values stay unparsed: the planner replaces unusable values with defaults.
// A parameter given more than once binds its first value.
func bindSearchParams(q url.Values) (map[string]string, error) {
	first := make(url.Values, len(searchParams))
	for _, name := range searchParams {
		if vs := q[name]; len(vs) > 0 {
			first[name] = vs[:1]
		}
	}

	raw := make(map[string]string, len(searchParams))
	for _, name := range searchParams {
		var v *string
		if err := runtime.BindQueryParameter("form", true, false, name, first, &v); err != nil {
			return nil, err
		}
		if v != nil {
			raw[name] = *v
		}
	}
	return raw, nil
}
