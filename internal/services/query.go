package services

import (
	"fmt"
	"net/url"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/localnerve/itemsetgroup/internal/omeka"
)

// propertyKey matches the host's indexed advanced search keys, property[0][text]
var propertyKey = regexp.MustCompile(`^property\[(\d*)\]\[(\w+)\]$`)

// ParsePropertyFilters reads the property[N][field] entries of a query, in index order
func ParsePropertyFilters(q url.Values) []omeka.PropertyFilter {
	type indexed struct {
		index int
		seq   int
		f     map[string]string
	}
	byIndex := map[string]*indexed{}
	var order []*indexed
	var unindexed []*indexed

	keys := make([]string, 0, len(q))
	for k := range q {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, k := range keys {
		m := propertyKey.FindStringSubmatch(k)
		if m == nil {
			continue
		}
		idx, field := m[1], m[2]
		for i, v := range q[k] {
			var entry *indexed
			if idx == "" {
				// the i-th value of each property[][field] belongs to the i-th entry
				for len(unindexed) <= i {
					e := &indexed{index: -1, seq: len(order), f: map[string]string{}}
					unindexed = append(unindexed, e)
					order = append(order, e)
				}
				entry = unindexed[i]
			} else {
				entry = byIndex[idx]
				if entry == nil {
					n, _ := strconv.Atoi(idx)
					entry = &indexed{index: n, seq: len(order), f: map[string]string{}}
					byIndex[idx] = entry
					order = append(order, entry)
				}
			}
			entry.f[field] = v
		}
	}

	sort.SliceStable(order, func(i, j int) bool {
		a, b := order[i], order[j]
		if (a.index < 0) != (b.index < 0) {
			return a.index >= 0
		}
		if a.index != b.index {
			return a.index < b.index
		}
		return a.seq < b.seq
	})

	out := make([]omeka.PropertyFilter, 0, len(order))
	for _, e := range order {
		out = append(out, omeka.PropertyFilter{
			Joiner:   e.f["joiner"],
			Property: e.f["property"],
			Type:     e.f["type"],
			Text:     e.f["text"],
		})
	}
	return out
}

// SetPropertyFilters replaces the property entries of q, reindexed from 0
func SetPropertyFilters(q url.Values, filters []omeka.PropertyFilter) {
	for k := range q {
		if propertyKey.MatchString(k) {
			q.Del(k)
		}
	}
	for i, f := range filters {
		prefix := fmt.Sprintf("property[%d]", i)
		if f.Joiner != "" {
			q.Set(prefix+"[joiner]", f.Joiner)
		}
		q.Set(prefix+"[property]", f.Property)
		q.Set(prefix+"[type]", f.Type)
		q.Set(prefix+"[text]", f.Text)
	}
}

// parentFilter is the is-part-of filter for a parent item set
func parentFilter(parent int) omeka.PropertyFilter {
	return omeka.PropertyFilter{Property: omeka.TermIsPartOf, Type: "res", Text: strconv.Itoa(parent)}
}

func isParentFilter(f omeka.PropertyFilter, parent int) bool {
	return f.Property == omeka.TermIsPartOf && f.Type == "res" && strings.TrimSpace(f.Text) == strconv.Itoa(parent)
}

// NormalizeParentFilter returns a copy of q holding exactly one is-part-of
// filter for parent. Existing copies collapse into the first one's
// position; otherwise the filter is appended. Other filters are kept.
func NormalizeParentFilter(q url.Values, parent int) url.Values {
	out := cloneValues(q)
	if parent <= 0 {
		return out
	}
	target := parentFilter(parent)

	var normalized []omeka.PropertyFilter
	found := false
	for _, f := range ParsePropertyFilters(q) {
		if isParentFilter(f, parent) {
			if !found {
				normalized = append(normalized, target)
				found = true
			}
			continue
		}
		normalized = append(normalized, f)
	}
	if !found {
		normalized = append(normalized, target)
	}
	SetPropertyFilters(out, normalized)
	return out
}

func cloneValues(q url.Values) url.Values {
	out := make(url.Values, len(q))
	for k, v := range q {
		out[k] = append([]string(nil), v...)
	}
	return out
}

// setDefault sets key when it is absent or empty
func setDefault(q url.Values, key, value string) {
	if q.Get(key) == "" {
		q.Set(key, value)
	}
}
