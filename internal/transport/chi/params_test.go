package chi

import (
	"net/url"
	"testing"
)

func TestBindSearchParams(t *testing.T) {
	tests := []struct {
		name  string
		query string
		want  map[string]string
	}{
		{"empty", "", map[string]string{}},
		{"known only", "search=napa&page=2&foo=bar", map[string]string{"search": "napa", "page": "2"}},
		{"repeated takes first", "page=1&page=2&sortOrder=desc&sortOrder=asc", map[string]string{"page": "1", "sortOrder": "desc"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q, err := url.ParseQuery(tt.query)
			if err != nil {
				t.Fatal(err)
			}
			got, err := bindSearchParams(q)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if len(got) != len(tt.want) {
				t.Fatalf("got %v, want %v", got, tt.want)
			}
			for k, v := range tt.want {
				if got[k] != v {
					t.Errorf("%s = %q, want %q", k, got[k], v)
				}
			}
		})
	}
}
