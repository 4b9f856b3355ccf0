package views

import (
	"time"

	"golang.org/x/text/language"
)

var dateLocales = []struct {
	tag    language.Tag
	layout string
}{
	// First entry is the fallback.
	{language.AmericanEnglish, "1/2/2006"},
	{language.BritishEnglish, "02/01/2006"},
	{language.German, "2.1.2006"},
	{language.French, "02/01/2006"},
	{language.Japanese, "2006/1/2"},
}

var dateMatcher = func() language.Matcher {
	tags := make([]language.Tag, len(dateLocales))
	for i, l := range dateLocales {
		tags[i] = l.tag
	}
	return language.NewMatcher(tags)
}()

// DateFormat renders dates the way a viewer's locale writes them.
type DateFormat struct {
	tag    language.Tag
	layout string
}

// DefaultDateFormat is en-US.
func DefaultDateFormat() DateFormat {
	return DateFormat{tag: dateLocales[0].tag, layout: dateLocales[0].layout}
}

// DateFormatFor picks a format from an Accept-Language header value.
func DateFormatFor(acceptLanguage string) DateFormat {
	tags, _, err := language.ParseAcceptLanguage(acceptLanguage)
	if err != nil || len(tags) == 0 {
		return DefaultDateFormat()
	}
	_, i, confidence := dateMatcher.Match(tags...)
	if confidence == language.No {
		return DefaultDateFormat()
	}
	return DateFormat{tag: dateLocales[i].tag, layout: dateLocales[i].layout}
}

// Tag is the matched locale.
func (f DateFormat) Tag() language.Tag {
	return f.tag
}

// Format renders the calendar date of t in UTC.
func (f DateFormat) Format(t time.Time) string {
	if f.layout == "" {
		f = DefaultDateFormat()
	}
	return t.UTC().Format(f.layout)
}
