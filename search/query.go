// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package search

import (
	"fmt"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/poiesic/noema/core"
)

// Default pagination bounds applied when the caller passes zero values.
const (
	DefaultLimit = 20
	MaxLimit     = 1000
)

// ParseQuery turns one free-text query string into a structured request.
//
// The grammar is order-independent; filter keys are case-insensitive:
//
//	<free text> [type:<entity-type>]* [after:<date>] [before:<date>]
//	            [tags:<csv>] [mood:<word>] [sort:relevance|date|date-desc]
//	            [min-score:<0..1>]
//
// Date forms: YYYY-MM-DD, YYYY-MM-DDTHH:MM:SS, today, yesterday, <N>d, <N>w.
// Quoted substrings are kept intact and never treated as filters. Unknown
// filter keys are rejected rather than silently ignored.
//
// Pure function of its inputs; now anchors the relative date forms.
func ParseQuery(rawQuery, userId string, now time.Time) (*core.SearchRequest, error) {
	if strings.TrimSpace(rawQuery) == "" {
		return nil, fmt.Errorf("%w: query is empty", ErrInvalidQuery)
	}

	req := &core.SearchRequest{
		RawQuery: rawQuery,
		Sort:     core.SortRelevance,
		Limit:    DefaultLimit,
		UserId:   userId,
	}

	var free []string
	sortSet := false
	for _, tok := range splitQuery(rawQuery) {
		if tok.quoted {
			free = append(free, tok.text)
			continue
		}

		key, value, isFilter := splitFilter(tok.text)
		if !isFilter {
			free = append(free, tok.text)
			continue
		}

		switch key {
		case "type":
			et, err := core.ParseEntityType(value)
			if err != nil {
				return nil, fmt.Errorf("%w: unknown entity type %q", ErrInvalidQuery, value)
			}
			if !slices.Contains(req.EntityTypes, et) {
				req.EntityTypes = append(req.EntityTypes, et)
			}
		case "after":
			t, err := parseDate(value, now)
			if err != nil {
				return nil, fmt.Errorf("%w: bad after date %q: %v", ErrInvalidQuery, value, err)
			}
			if req.DateRange == nil {
				req.DateRange = &core.DateRange{}
			}
			req.DateRange.Since = t
		case "before":
			t, err := parseDate(value, now)
			if err != nil {
				return nil, fmt.Errorf("%w: bad before date %q: %v", ErrInvalidQuery, value, err)
			}
			if req.DateRange == nil {
				req.DateRange = &core.DateRange{}
			}
			req.DateRange.Until = t
		case "tags":
			for _, tag := range strings.Split(value, ",") {
				tag = strings.ToLower(strings.TrimSpace(tag))
				if tag != "" && !slices.Contains(req.Tags, tag) {
					req.Tags = append(req.Tags, tag)
				}
			}
		case "mood":
			req.Mood = strings.ToLower(value)
		case "sort":
			sortSet = true
			switch strings.ToLower(value) {
			case "relevance":
				req.Sort = core.SortRelevance
			case "date":
				req.Sort = core.SortDateAsc
			case "date-desc":
				req.Sort = core.SortDateDesc
			default:
				return nil, fmt.Errorf("%w: unknown sort order %q", ErrInvalidQuery, value)
			}
		case "min-score":
			f, err := strconv.ParseFloat(value, 64)
			if err != nil {
				return nil, fmt.Errorf("%w: bad min-score %q", ErrInvalidQuery, value)
			}
			if f < 0 || f > 1 {
				return nil, fmt.Errorf("%w: min-score %v outside [0,1]", ErrInvalidQuery, f)
			}
			req.MinScore = f
		default:
			return nil, fmt.Errorf("%w: unknown filter %q", ErrInvalidQuery, key)
		}
	}

	if req.DateRange != nil &&
		!req.DateRange.Since.IsZero() && !req.DateRange.Until.IsZero() &&
		req.DateRange.Since.After(req.DateRange.Until) {
		return nil, fmt.Errorf("%w: date range is inverted", ErrInvalidQuery)
	}

	// A pure-filter query (empty clean text) is valid. With no text there
	// is no relevance signal worth ranking on, so unless the query names a
	// sort order explicitly, such queries are ordered newest first.
	req.CleanText = strings.Join(free, " ")
	if req.CleanText == "" && !sortSet {
		req.Sort = core.SortDateDesc
	}
	return req, nil
}

// queryToken is one whitespace-delimited token; quoted tokens keep their
// inner spaces and are never interpreted as filters.
type queryToken struct {
	text   string
	quoted bool
}

// splitQuery tokenizes on whitespace while keeping quoted substrings intact.
func splitQuery(s string) []queryToken {
	var tokens []queryToken
	var current strings.Builder
	inQuote := false
	wasQuoted := false

	flush := func() {
		if current.Len() > 0 || wasQuoted {
			tokens = append(tokens, queryToken{text: current.String(), quoted: wasQuoted})
			current.Reset()
		}
		wasQuoted = false
	}

	for _, r := range s {
		switch {
		case r == '"':
			if inQuote {
				inQuote = false
			} else {
				inQuote = true
				wasQuoted = true
			}
		case !inQuote && (r == ' ' || r == '\t' || r == '\n'):
			flush()
		default:
			current.WriteRune(r)
		}
	}
	flush()
	return tokens
}

// splitFilter splits a token at its first colon when the part before the
// colon looks like a filter key (letters and hyphens only). Tokens like
// "10:30" or "a:b:c" with non-letter keys stay free text.
func splitFilter(tok string) (key, value string, ok bool) {
	idx := strings.IndexByte(tok, ':')
	if idx <= 0 || idx == len(tok)-1 {
		return "", "", false
	}
	key = strings.ToLower(tok[:idx])
	for _, r := range key {
		if (r < 'a' || r > 'z') && r != '-' {
			return "", "", false
		}
	}
	return key, tok[idx+1:], true
}

// parseDate accepts an ISO date, ISO datetime, today/yesterday, or a
// relative duration of the form <N>d / <N>w. All results are UTC.
func parseDate(s string, now time.Time) (time.Time, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	now = now.UTC()

	switch s {
	case "today":
		return startOfDay(now), nil
	case "yesterday":
		return startOfDay(now.AddDate(0, 0, -1)), nil
	}

	if t, err := time.Parse("2006-01-02", s); err == nil {
		return t.UTC(), nil
	}
	if t, err := time.Parse("2006-01-02T15:04:05", s); err == nil {
		return t.UTC(), nil
	}

	// Relative duration: <N>d or <N>w
	if len(s) >= 2 {
		unit := s[len(s)-1]
		if unit == 'd' || unit == 'w' {
			n, err := strconv.Atoi(s[:len(s)-1])
			if err == nil && n > 0 {
				days := n
				if unit == 'w' {
					days = n * 7
				}
				return now.AddDate(0, 0, -days), nil
			}
		}
	}

	return time.Time{}, fmt.Errorf("unrecognized date form")
}

func startOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
