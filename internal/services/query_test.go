package services

import (
	"net/url"
	"testing"

	"github.com/localnerve/itemsetgroup/internal/omeka"
	"github.com/stretchr/testify/assert"
)

func TestParsePropertyFilters(t *testing.T) {
	q := url.Values{
		"property[1][property]": {"dcterms:subject"},
		"property[1][type]":     {"eq"},
		"property[1][text]":     {"maps"},
		"property[0][property]": {"dcterms:isPartOf"},
		"property[0][type]":     {"res"},
		"property[0][text]":     {"7"},
		"property[][property]":  {"dcterms:creator", "dcterms:date"},
		"property[][type]":      {"in", "ex"},
		"property[][text]":      {"smith", ""},
		"sort_by":               {"created"},
	}

	assert.Equal(t, []omeka.PropertyFilter{
		{Property: "dcterms:isPartOf", Type: "res", Text: "7"},
		{Property: "dcterms:subject", Type: "eq", Text: "maps"},
		{Property: "dcterms:creator", Type: "in", Text: "smith"},
		{Property: "dcterms:date", Type: "ex", Text: ""},
	}, ParsePropertyFilters(q))
}

func TestNormalizeParentFilter(t *testing.T) {
	q := url.Values{
		"property[0][property]": {"dcterms:isPartOf"},
		"property[0][type]":     {"res"},
		"property[0][text]":     {"42"},
		"property[1][property]": {"dcterms:subject"},
		"property[1][type]":     {"eq"},
		"property[1][text]":     {"maps"},
		"property[5][property]": {"dcterms:isPartOf"},
		"property[5][type]":     {"res"},
		"property[5][text]":     {" 42"},
		"page":                  {"2"},
	}

	out := NormalizeParentFilter(q, 42)

	assert.Equal(t, []omeka.PropertyFilter{
		{Property: omeka.TermIsPartOf, Type: "res", Text: "42"},
		{Property: "dcterms:subject", Type: "eq", Text: "maps"},
	}, ParsePropertyFilters(out))
	assert.Equal(t, "2", out.Get("page"))
	assert.Empty(t, out.Get("property[5][text]"))
	assert.Equal(t, "42", q.Get("property[0][text]"), "the input is not modified")

	again := NormalizeParentFilter(out, 42)
	assert.Equal(t, out, again, "normalizing twice changes nothing")
}

func TestNormalizeParentFilterAppends(t *testing.T) {
	q := url.Values{
		"property[0][property]": {"dcterms:isPartOf"},
		"property[0][type]":     {"res"},
		"property[0][text]":     {"9"},
	}
	out := NormalizeParentFilter(q, 42)
	assert.Equal(t, []omeka.PropertyFilter{
		{Property: omeka.TermIsPartOf, Type: "res", Text: "9"},
		{Property: omeka.TermIsPartOf, Type: "res", Text: "42"},
	}, ParsePropertyFilters(out))

	assert.Equal(t, q, NormalizeParentFilter(q, 0))
}
