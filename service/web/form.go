package main

import (
	"fmt"
	"strconv"
	"strings"
	"time"
	"unicode"

	"github.com/gin-gonic/gin"

	"tuneup/artifact"
	"tuneup/lib/feature"
	"tuneup/lib/ftypes"
	predictionL "tuneup/lib/prediction"
	webL "tuneup/lib/web"
)

const (
	dateFieldName = "service_date"
	dateFormat    = "2006-01-02"
	catPrefix     = "cat_"
	numPrefix     = "num_"
)

type selectField struct {
	Name    string
	Label   string
	Options []string
}

type numberField struct {
	Name  string
	Label string
	Value string
}

// label turns a column name into its on-page label: underscores to spaces,
// first letter up, the rest down. "vehicle_type" reads "Vehicle type".
func label(col ftypes.ColumnName) string {
	r := []rune(strings.ReplaceAll(strings.ToLower(string(col)), "_", " "))
	if len(r) > 0 {
		r[0] = unicode.ToUpper(r[0])
	}
	return string(r)
}

// numericDefault picks a plausible starting value for fields a visitor is
// unlikely to know offhand.
func numericDefault(col ftypes.ColumnName) float64 {
	switch col {
	case "mileage":
		return 50000
	case "distance":
		return 10
	case "service_count_so_far", "prev_interval":
		return 2
	default:
		return 0
	}
}

// formFields splits the bundle's schema into the two kinds of inputs the page
// renders, in schema order: columns with an encoder become selects over the
// encoder's classes (first class preselected), the rest become number inputs.
// The date-derived columns never show up; they come from the date picker.
func formFields(bundle *artifact.Bundle) (selects []selectField, numbers []numberField) {
	for _, col := range bundle.Columns.Columns() {
		if col == feature.ServiceYear || col == feature.ServiceMonth {
			continue
		}
		if enc, ok := bundle.Encoders[col]; ok {
			selects = append(selects, selectField{
				Name:    catPrefix + string(col),
				Label:   label(col),
				Options: enc.Classes(),
			})
		} else {
			numbers = append(numbers, numberField{
				Name:  numPrefix + string(col),
				Label: label(col),
				Value: fmt.Sprintf("%.2f", numericDefault(col)),
			})
		}
	}
	return selects, numbers
}

// parseRequest reads one submission into a prediction request. Only fields
// named by the bundle's schema are read; anything else in the form is
// ignored. The error, when set, doubles as the flash message for the retry.
func parseRequest(c *gin.Context, bundle *artifact.Bundle) (predictionL.Request, *webL.UserReadableError) {
	var req predictionL.Request
	last, err := time.Parse(dateFormat, c.PostForm(dateFieldName))
	if err != nil {
		return req, &webL.ErrorBadDate
	}
	req.LastService = last
	req.Categoricals = make(map[ftypes.ColumnName]string)
	req.Numerics = make(map[ftypes.ColumnName]float64)
	for _, col := range bundle.Columns.Columns() {
		if col == feature.ServiceYear || col == feature.ServiceMonth {
			continue
		}
		if _, ok := bundle.Encoders[col]; ok {
			req.Categoricals[col] = c.PostForm(catPrefix + string(col))
			continue
		}
		raw := strings.TrimSpace(c.PostForm(numPrefix + string(col)))
		if raw == "" {
			req.Numerics[col] = numericDefault(col)
			continue
		}
		val, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return req, &webL.ErrorBadNumeric
		}
		req.Numerics[col] = val
	}
	return req, nil
}
