package scan

import "testing"

func TestExtractTitle(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{
			"simple title",
			"<html><head><title>Welcome</title></head></html>",
			"Welcome",
		},
		{
			"title tag with attributes",
			`<title class="x" data-i18n="t">Hello</title>`,
			"Hello",
		},
		{
			"uppercase opening tag with lowercase closing tag",
			"<TITLE>Shouty</title>",
			"Shouty",
		},
		{
			"uppercase closing tag is not recognized",
			"<TITLE>Shouty</TITLE>",
			NoTitle,
		},
		{
			"mixed case closing tag is not recognized",
			"<Title>Mixed</tItLe>",
			NoTitle,
		},
		{
			"newlines and carriage returns become spaces",
			"<title>Line1\nLine2\rLine3</title>",
			"Line1 Line2 Line3",
		},
		{
			"surrounding whitespace trimmed",
			"<title>\n   Padded   \n</title>",
			"Padded",
		},
		{
			"no title tag",
			"<html><body>nothing here</body></html>",
			NoTitle,
		},
		{
			"empty body",
			"",
			NoTitle,
		},
		{
			"opening tag never closed with gt",
			"<title",
			NoTitle,
		},
		{
			"no closing tag",
			"<title>Unclosed",
			NoTitle,
		},
		{
			"empty title",
			"<title></title>",
			"",
		},
		{
			"whitespace-only title",
			"<title>   </title>",
			"",
		},
		{
			"only first title wins",
			"<title>First</title><title>Second</title>",
			"First",
		},
		{
			"title after other markup",
			"<meta charset=\"utf-8\"><title>Deep</title>",
			"Deep",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ExtractTitle(tt.body); got != tt.want {
				t.Errorf("ExtractTitle(%q) = %q, want %q", tt.body, got, tt.want)
			}
		})
	}
}
