package email

import (
	"reflect"
	"testing"
)

func TestParseRecipients(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want []string
	}{
		{
			name: "commas and newlines",
			in:   "a@x.com, b@y.com\nc@z.com",
			want: []string{"a@x.com", "b@y.com", "c@z.com"},
		},
		{
			name: "non-address dropped",
			in:   "not-an-email, d@ok.com",
			want: []string{"d@ok.com"},
		},
		{
			name: "empty input",
			in:   "",
			want: nil,
		},
		{
			name: "duplicates preserved",
			in:   "a@x.com\na@x.com",
			want: []string{"a@x.com", "a@x.com"},
		},
		{
			name: "whitespace trimmed",
			in:   "  a@x.com  ,\n\t b@y.com ",
			want: []string{"a@x.com", "b@y.com"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ParseRecipients(tt.in)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("ParseRecipients(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}
